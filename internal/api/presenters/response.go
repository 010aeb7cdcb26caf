package presenters

import (
	"Cuisinade/domain"
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type (
	Response struct {
		Status   bool   `json:"status"`
		Message  string `json:"message"`
		Data     any    `json:"data,omitempty"`
		Error    string `json:"error,omitempty"`
		Redirect string `json:"redirect,omitempty"`
		Warning  string `json:"warning,omitempty"`
	}

	// FormError is the body of a submission that has to be redisplayed. Form
	// holds the user's input unchanged.
	FormError struct {
		Status  bool   `json:"status"`
		Message string `json:"message"`
		Form    any    `json:"form,omitempty"`
	}
)

func SuccessResponse(c *fiber.Ctx, data any, statusCode int, message string) error {
	return c.Status(statusCode).JSON(Response{
		Status:  true,
		Message: message,
		Data:    data,
	})
}

func ErrorResponse(c *fiber.Ctx, statusCode int, message string, err error) error {
	res := Response{
		Status:  false,
		Message: message,
	}
	if err != nil && statusCode < fiber.StatusInternalServerError {
		res.Error = err.Error()
	}
	return c.Status(statusCode).JSON(res)
}

// RedirectResponse answers a successful mutation with 303 See Other, the
// flash message and any non-blocking warning.
func RedirectResponse(c *fiber.Ctx, location string, message string, warning string, data any) error {
	c.Location(location)
	return c.Status(fiber.StatusSeeOther).JSON(Response{
		Status:   true,
		Message:  message,
		Data:     data,
		Redirect: location,
		Warning:  warning,
	})
}

func FormErrorResponse(c *fiber.Ctx, statusCode int, message string, form any) error {
	return c.Status(statusCode).JSON(FormError{
		Status:  false,
		Message: message,
		Form:    form,
	})
}

// StatusFor classifies a service error into its HTTP status and user-visible
// message. Unknown errors map to 500 with fallback.
func StatusFor(err error, fallback string) (int, string) {
	var verr *domain.ValidationError
	switch {
	case errors.As(err, &verr):
		return fiber.StatusUnprocessableEntity, verr.Message
	case errors.Is(err, domain.ErrRecipeNotFound),
		errors.Is(err, domain.ErrCommentNotFound),
		errors.Is(err, domain.ErrUserNotFound):
		return fiber.StatusNotFound, domain.MessageNotFound
	case errors.Is(err, domain.ErrRecipeForbidden),
		errors.Is(err, domain.ErrCommentForbidden):
		return fiber.StatusForbidden, domain.MessageForbidden
	case errors.Is(err, domain.ErrAdminRequired):
		return fiber.StatusForbidden, domain.MessageAdminRequired
	case errors.Is(err, domain.ErrLoginRequired):
		return fiber.StatusUnauthorized, domain.MessageLoginRequired
	case errors.Is(err, domain.ErrSelfDemotion):
		return fiber.StatusBadRequest, domain.MessageSelfDemotion
	case errors.Is(err, domain.ErrSelfDeletion):
		return fiber.StatusBadRequest, domain.MessageSelfDeletion
	default:
		return fiber.StatusInternalServerError, fallback
	}
}

// ServiceErrorResponse writes err with the status StatusFor picks and logs
// anything unexpected.
func ServiceErrorResponse(c *fiber.Ctx, fallback string, err error) error {
	status, message := StatusFor(err, fallback)
	if status == fiber.StatusInternalServerError {
		log.Errorw("request failed", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return ErrorResponse(c, status, message, err)
}
