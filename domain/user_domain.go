package domain

import (
	"errors"
	"fmt"
)

var SecurityQuestions = []string{
	"Quel est le nom de votre premier animal de compagnie ?",
	"Quelle est la ville où vous êtes né(e) ?",
	"Quel est le nom de jeune fille de votre mère ?",
	"Quel est votre film préféré ?",
	"Quel est le modèle de votre première voiture ?",
}

var (
	MessageSuccessRegister      = "Votre compte a été créé avec succès"
	MessageSuccessLogin         = "Vous êtes connecté avec succès"
	MessageSuccessLogout        = "Vous êtes déconnecté avec succès"
	MessageSuccessResetPassword = "Votre mot de passe a été réinitialisé avec succès"
	MessageSuccessForgot        = "Répondez à votre question de sécurité"

	MessageUsernameRequired       = "Le nom d'utilisateur est requis."
	MessagePasswordRequired       = "Le mot de passe est requis."
	MessageSecurityAnswerRequired = "La réponse à la question de sécurité est requise."
	MessageUnknownUsername        = "Nom d'utilisateur incorrect."
	MessageWrongPassword          = "Mot de passe incorrect."
	MessageResetSessionExpired    = "Session expirée. Veuillez réessayer."
	MessageUserNotFound           = "Utilisateur non trouvé."
	MessageWrongSecurityAnswer    = "Réponse à la question de sécurité incorrecte."
	MessageNewPasswordRequired    = "Le nouveau mot de passe est requis."
	MessageInvalidSecurityItem    = "Question de sécurité invalide."
	MessagePasswordTooLong        = "Le mot de passe ne doit pas dépasser 72 octets."
	MessageSecurityAnswerTooLong  = "La réponse à la question de sécurité ne doit pas dépasser 72 octets."

	ErrDuplicateUser       = errors.New("user already registered")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrUnknownUsername     = fmt.Errorf("%w: unknown username", ErrInvalidCredentials)
	ErrWrongPassword       = fmt.Errorf("%w: wrong password", ErrInvalidCredentials)
	ErrInvalidAnswer       = errors.New("invalid security answer")
	ErrResetExpired        = errors.New("password reset session expired")
	ErrUserNotFound        = errors.New("user not found")
	ErrInvalidSecurityItem = errors.New("invalid security question")
)

func MessageDuplicateUser(username string) string {
	return fmt.Sprintf("L'utilisateur %s est déjà enregistré.", username)
}

type (
	RegisterRequest struct {
		Username         string `json:"username" form:"username"`
		Password         string `json:"password" form:"password"`
		SecurityQuestion string `json:"security_question" form:"security_question"`
		SecurityAnswer   string `json:"security_answer" form:"security_answer"`
	}

	LoginRequest struct {
		Username string `json:"username" form:"username" validate:"required"`
		Password string `json:"password" form:"password" validate:"required"`
	}

	ForgotPasswordRequest struct {
		Username string `json:"username" form:"username" validate:"required"`
	}

	ResetPasswordRequest struct {
		SecurityAnswer string `json:"security_answer" form:"security_answer"`
		NewPassword    string `json:"new_password" form:"new_password"`
	}

	UserResponse struct {
		ID       string `json:"id"`
		Username string `json:"username"`
		IsAdmin  bool   `json:"is_admin"`
	}

	LoginResponse struct {
		User  UserResponse `json:"user"`
		Token string       `json:"-"`
	}

	ForgotPasswordResponse struct {
		Username         string `json:"username"`
		SecurityQuestion string `json:"security_question"`
		ResetToken       string `json:"-"`
	}
)
