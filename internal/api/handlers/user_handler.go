package handlers

import (
	"Cuisinade/domain"
	"Cuisinade/internal/api/presenters"
	"Cuisinade/internal/middleware"
	"Cuisinade/pkg/jwt"
	"Cuisinade/pkg/user"
	"errors"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

type (
	UserHandler interface {
		RegisterForm(c *fiber.Ctx) error
		Register(c *fiber.Ctx) error
		Login(c *fiber.Ctx) error
		ForgotPassword(c *fiber.Ctx) error
		ResetPasswordForm(c *fiber.Ctx) error
		ResetPassword(c *fiber.Ctx) error
		Logout(c *fiber.Ctx) error
		Me(c *fiber.Ctx) error
	}

	userHandler struct {
		userService user.UserService
		validator   *validator.Validate
	}
)

func NewUserHandler(userService user.UserService, validator *validator.Validate) UserHandler {
	return &userHandler{
		userService: userService,
		validator:   validator,
	}
}

func setCookie(c *fiber.Ctx, name, value string, ttl time.Duration) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		Expires:  time.Now().Add(ttl),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

func clearCookie(c *fiber.Ctx, name string) {
	c.Cookie(&fiber.Cookie{
		Name:     name,
		Value:    "",
		Path:     "/",
		Expires:  time.Unix(0, 0),
		HTTPOnly: true,
		SameSite: fiber.CookieSameSiteLaxMode,
	})
}

// requiredMessage picks the message of the first missing field reported by
// the validator.
func requiredMessage(err error, messages map[string]string, fallback string) string {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		if msg, ok := messages[verrs[0].Field()]; ok {
			return msg
		}
	}
	return fallback
}

func (h *userHandler) RegisterForm(c *fiber.Ctx) error {
	return presenters.SuccessResponse(c, fiber.Map{
		"security_questions": domain.SecurityQuestions,
	}, fiber.StatusOK, "")
}

func (h *userHandler) Register(c *fiber.Ctx) error {
	req := new(domain.RegisterRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	echo := fiber.Map{
		"username":           req.Username,
		"security_question":  req.SecurityQuestion,
		"security_questions": domain.SecurityQuestions,
	}

	res, err := h.userService.Register(c.UserContext(), *req)
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.As(err, &verr):
			return presenters.FormErrorResponse(c, fiber.StatusUnprocessableEntity, verr.Message, echo)
		case errors.Is(err, domain.ErrDuplicateUser):
			return presenters.FormErrorResponse(c, fiber.StatusBadRequest, domain.MessageDuplicateUser(req.Username), echo)
		default:
			return presenters.ServiceErrorResponse(c, domain.MessageFailedProcessRequest, err)
		}
	}

	return presenters.RedirectResponse(c, "/auth/login", domain.MessageSuccessRegister, "", res)
}

func (h *userHandler) Login(c *fiber.Ctx) error {
	req := new(domain.LoginRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	echo := fiber.Map{"username": req.Username}

	if err := h.validator.Struct(req); err != nil {
		msg := requiredMessage(err, map[string]string{
			"Username": domain.MessageUsernameRequired,
			"Password": domain.MessagePasswordRequired,
		}, domain.MessageFailedBodyRequest)
		return presenters.FormErrorResponse(c, fiber.StatusUnprocessableEntity, msg, echo)
	}

	res, err := h.userService.Authenticate(c.UserContext(), *req)
	if err != nil {
		switch {
		case errors.Is(err, domain.ErrUnknownUsername):
			return presenters.FormErrorResponse(c, fiber.StatusBadRequest, domain.MessageUnknownUsername, echo)
		case errors.Is(err, domain.ErrWrongPassword):
			return presenters.FormErrorResponse(c, fiber.StatusBadRequest, domain.MessageWrongPassword, echo)
		default:
			return presenters.ServiceErrorResponse(c, domain.MessageFailedProcessRequest, err)
		}
	}

	setCookie(c, domain.SessionCookie, res.Token, jwt.SessionDuration)
	return presenters.RedirectResponse(c, "/", domain.MessageSuccessLogin, "", res)
}

func (h *userHandler) ForgotPassword(c *fiber.Ctx) error {
	req := new(domain.ForgotPasswordRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}
	if err := h.validator.Struct(req); err != nil {
		return presenters.FormErrorResponse(c, fiber.StatusUnprocessableEntity, domain.MessageUsernameRequired, req)
	}

	res, err := h.userService.ForgotPassword(c.UserContext(), *req)
	if err != nil {
		if errors.Is(err, domain.ErrUnknownUsername) {
			return presenters.FormErrorResponse(c, fiber.StatusBadRequest, domain.MessageUnknownUsername, req)
		}
		return presenters.ServiceErrorResponse(c, domain.MessageFailedProcessRequest, err)
	}

	setCookie(c, domain.ResetTokenCookie, res.ResetToken, jwt.ResetTokenDuration)
	return presenters.RedirectResponse(c, "/auth/reset_password", domain.MessageSuccessForgot, "", res)
}

func (h *userHandler) ResetPasswordForm(c *fiber.Ctx) error {
	question, err := h.userService.SecurityQuestionFor(c.UserContext(), c.Cookies(domain.ResetTokenCookie))
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageResetSessionExpired, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{"security_question": question}, fiber.StatusOK, "")
}

func (h *userHandler) ResetPassword(c *fiber.Ctx) error {
	req := new(domain.ResetPasswordRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	err := h.userService.ResetPassword(c.UserContext(), c.Cookies(domain.ResetTokenCookie), *req)
	if err != nil {
		var verr *domain.ValidationError
		switch {
		case errors.Is(err, domain.ErrResetExpired):
			return presenters.FormErrorResponse(c, fiber.StatusBadRequest, domain.MessageResetSessionExpired, nil)
		case errors.Is(err, domain.ErrUserNotFound):
			return presenters.FormErrorResponse(c, fiber.StatusBadRequest, domain.MessageUserNotFound, nil)
		case errors.Is(err, domain.ErrInvalidAnswer):
			return presenters.FormErrorResponse(c, fiber.StatusBadRequest, domain.MessageWrongSecurityAnswer, nil)
		case errors.As(err, &verr):
			return presenters.FormErrorResponse(c, fiber.StatusUnprocessableEntity, verr.Message, nil)
		default:
			return presenters.ServiceErrorResponse(c, domain.MessageFailedProcessRequest, err)
		}
	}

	clearCookie(c, domain.ResetTokenCookie)
	return presenters.RedirectResponse(c, "/auth/login", domain.MessageSuccessResetPassword, "", nil)
}

func (h *userHandler) Logout(c *fiber.Ctx) error {
	clearCookie(c, domain.SessionCookie)
	return presenters.RedirectResponse(c, "/", domain.MessageSuccessLogout, "", nil)
}

func (h *userHandler) Me(c *fiber.Ctx) error {
	auth := middleware.Auth(c)
	return presenters.SuccessResponse(c, domain.UserResponse{
		ID:       auth.UserID.String(),
		Username: auth.Username,
		IsAdmin:  auth.IsAdmin,
	}, fiber.StatusOK, "")
}
