package user

import (
	"Cuisinade/domain"
	"Cuisinade/entities"
	"Cuisinade/pkg/jwt"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type (
	UserService interface {
		Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error)
		Authenticate(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error)
		ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) (domain.ForgotPasswordResponse, error)
		VerifyReset(ctx context.Context, username string, answer string) error
		SetPassword(ctx context.Context, username string, newPassword string) error
		ResetPassword(ctx context.Context, resetToken string, req domain.ResetPasswordRequest) error
		SecurityQuestionFor(ctx context.Context, resetToken string) (string, error)
		ResolveSession(ctx context.Context, token string) (*domain.AuthContext, error)
		PromoteAdmin(ctx context.Context, username string) error
		ListUsers(ctx context.Context) ([]domain.UserResponse, error)
	}

	userService struct {
		userRepository UserRepository
		jwtService     jwt.JWTService
	}
)

func NewUserService(userRepository UserRepository, jwtService jwt.JWTService) UserService {
	return &userService{
		userRepository: userRepository,
		jwtService:     jwtService,
	}
}

// hash bcrypts value. bcrypt only accepts 72 bytes, longer input is reported
// with tooLong as a validation error.
func hash(value string, tooLong string) (string, error) {
	b, err := bcrypt.GenerateFromPassword([]byte(value), bcrypt.DefaultCost)
	if err != nil {
		if errors.Is(err, bcrypt.ErrPasswordTooLong) {
			return "", domain.NewValidationError(tooLong)
		}
		return "", err
	}
	return string(b), nil
}

func matches(hashed string, value string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hashed), []byte(value)) == nil
}

func toUserResponse(u *entities.User) domain.UserResponse {
	return domain.UserResponse{
		ID:       u.ID.String(),
		Username: u.Username,
		IsAdmin:  u.IsAdmin,
	}
}

func parseSecurityQuestion(raw string) (int, error) {
	idx, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil || idx < 0 || idx >= len(domain.SecurityQuestions) {
		return 0, domain.ErrInvalidSecurityItem
	}
	return idx, nil
}

func (s *userService) Register(ctx context.Context, req domain.RegisterRequest) (domain.UserResponse, error) {
	switch {
	case strings.TrimSpace(req.Username) == "":
		return domain.UserResponse{}, domain.NewValidationError(domain.MessageUsernameRequired)
	case req.Password == "":
		return domain.UserResponse{}, domain.NewValidationError(domain.MessagePasswordRequired)
	case req.SecurityAnswer == "" || strings.TrimSpace(req.SecurityQuestion) == "":
		return domain.UserResponse{}, domain.NewValidationError(domain.MessageSecurityAnswerRequired)
	}

	question, err := parseSecurityQuestion(req.SecurityQuestion)
	if err != nil {
		return domain.UserResponse{}, domain.NewValidationError(domain.MessageInvalidSecurityItem)
	}

	exists, err := s.userRepository.CheckUsername(ctx, req.Username)
	if err != nil {
		return domain.UserResponse{}, err
	}
	if exists {
		return domain.UserResponse{}, domain.ErrDuplicateUser
	}

	password, err := hash(req.Password, domain.MessagePasswordTooLong)
	if err != nil {
		return domain.UserResponse{}, err
	}
	answer, err := hash(req.SecurityAnswer, domain.MessageSecurityAnswerTooLong)
	if err != nil {
		return domain.UserResponse{}, err
	}

	user := &entities.User{
		ID:               uuid.New(),
		Username:         req.Username,
		Password:         password,
		SecurityQuestion: question,
		SecurityAnswer:   answer,
	}
	if err := s.userRepository.CreateUser(ctx, user); err != nil {
		// a concurrent registration can win the unique index after the check above
		if exists, cerr := s.userRepository.CheckUsername(ctx, req.Username); cerr == nil && exists {
			return domain.UserResponse{}, domain.ErrDuplicateUser
		}
		return domain.UserResponse{}, fmt.Errorf("create user: %w", err)
	}

	return toUserResponse(user), nil
}

func (s *userService) Authenticate(ctx context.Context, req domain.LoginRequest) (domain.LoginResponse, error) {
	user, err := s.userRepository.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.LoginResponse{}, domain.ErrUnknownUsername
		}
		return domain.LoginResponse{}, err
	}

	if !matches(user.Password, req.Password) {
		return domain.LoginResponse{}, domain.ErrWrongPassword
	}

	role := domain.RoleUser
	if user.IsAdmin {
		role = domain.RoleAdmin
	}

	return domain.LoginResponse{
		User:  toUserResponse(user),
		Token: s.jwtService.GenerateTokenUser(user.ID.String(), role),
	}, nil
}

func (s *userService) ForgotPassword(ctx context.Context, req domain.ForgotPasswordRequest) (domain.ForgotPasswordResponse, error) {
	user, err := s.userRepository.GetUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ForgotPasswordResponse{}, domain.ErrUnknownUsername
		}
		return domain.ForgotPasswordResponse{}, err
	}

	token, err := s.jwtService.GenerateTokenResetPassword(user.Username)
	if err != nil {
		return domain.ForgotPasswordResponse{}, err
	}

	return domain.ForgotPasswordResponse{
		Username:         user.Username,
		SecurityQuestion: questionText(user.SecurityQuestion),
		ResetToken:       token,
	}, nil
}

func questionText(idx int) string {
	if idx < 0 || idx >= len(domain.SecurityQuestions) {
		return ""
	}
	return domain.SecurityQuestions[idx]
}

func (s *userService) SecurityQuestionFor(ctx context.Context, resetToken string) (string, error) {
	username, err := s.jwtService.GetUsernameByResetToken(resetToken)
	if err != nil {
		return "", domain.ErrResetExpired
	}
	user, err := s.userRepository.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return "", domain.ErrUserNotFound
		}
		return "", err
	}
	return questionText(user.SecurityQuestion), nil
}

func (s *userService) VerifyReset(ctx context.Context, username string, answer string) error {
	user, err := s.userRepository.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	if !matches(user.SecurityAnswer, answer) {
		return domain.ErrInvalidAnswer
	}
	return nil
}

func (s *userService) SetPassword(ctx context.Context, username string, newPassword string) error {
	if newPassword == "" {
		return domain.NewValidationError(domain.MessageNewPasswordRequired)
	}

	user, err := s.userRepository.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}

	password, err := hash(newPassword, domain.MessagePasswordTooLong)
	if err != nil {
		return err
	}
	return s.userRepository.UpdatePassword(ctx, user.ID.String(), password)
}

func (s *userService) ResetPassword(ctx context.Context, resetToken string, req domain.ResetPasswordRequest) error {
	if resetToken == "" {
		return domain.ErrResetExpired
	}
	username, err := s.jwtService.GetUsernameByResetToken(resetToken)
	if err != nil {
		return domain.ErrResetExpired
	}

	if err := s.VerifyReset(ctx, username, req.SecurityAnswer); err != nil {
		return err
	}
	return s.SetPassword(ctx, username, req.NewPassword)
}

// ResolveSession returns nil for an anonymous request. A token whose user no
// longer exists resolves to anonymous as well.
func (s *userService) ResolveSession(ctx context.Context, token string) (*domain.AuthContext, error) {
	if token == "" {
		return nil, nil
	}

	userID, _, err := s.jwtService.GetUserIDByToken(token)
	if err != nil {
		return nil, nil
	}

	user, err := s.userRepository.GetUserByID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	return &domain.AuthContext{
		UserID:   user.ID,
		Username: user.Username,
		IsAdmin:  user.IsAdmin,
	}, nil
}

func (s *userService) PromoteAdmin(ctx context.Context, username string) error {
	user, err := s.userRepository.GetUserByUsername(ctx, username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return domain.ErrUserNotFound
		}
		return err
	}
	if user.IsAdmin {
		return nil
	}
	if err := s.userRepository.UpdateAdmin(ctx, user.ID.String(), true); err != nil {
		return err
	}
	log.Infow("user promoted to admin", "username", username)
	return nil
}

func (s *userService) ListUsers(ctx context.Context) ([]domain.UserResponse, error) {
	users, err := s.userRepository.ListUsers(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]domain.UserResponse, 0, len(users))
	for _, u := range users {
		res = append(res, toUserResponse(u))
	}
	return res, nil
}
