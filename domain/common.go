package domain

import (
	"errors"

	"github.com/google/uuid"
)

const (
	RoleUser  = "user"
	RoleAdmin = "admin"

	SessionCookie    = "session"
	ResetTokenCookie = "reset_token"
)

var (
	MessageFailedProcessRequest = "Une erreur est survenue. Veuillez réessayer."
	MessageFailedBodyRequest    = "failed to parse request body"
	MessageLoginRequired        = "Vous devez être connecté pour accéder à cette page."
	MessageAdminRequired        = "Vous n'avez pas les permissions nécessaires pour accéder à cette page."
	MessageNotFound             = "Ressource introuvable."
	MessageForbidden            = "Accès refusé."

	ErrTokenExpired  = errors.New("token expired")
	ErrTokenInvalid  = errors.New("token invalid")
	ErrLoginRequired = errors.New("login required")
	ErrAdminRequired = errors.New("admin required")
)

// AuthContext is the user a request acts as. It is resolved once per request
// from the session cookie and handed explicitly to every service call; a nil
// *AuthContext means the request is anonymous.
type AuthContext struct {
	UserID   uuid.UUID
	Username string
	IsAdmin  bool
}

func (a *AuthContext) IsAnonymous() bool {
	return a == nil
}

// ValidationError carries a user-visible message for a request that must be
// redisplayed without any write.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(message string) error {
	return &ValidationError{Message: message}
}
