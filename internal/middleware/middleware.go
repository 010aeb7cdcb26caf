package middleware

import (
	"Cuisinade/domain"
	"Cuisinade/internal/api/presenters"
	"Cuisinade/pkg/user"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
)

const authKey = "auth"

type (
	Middleware interface {
		CORSMiddleware() fiber.Handler
		SessionMiddleware(userService user.UserService) fiber.Handler
		AuthMiddleware() fiber.Handler
		AdminMiddleware() fiber.Handler
	}

	middleware struct{}
)

func NewMiddleware() Middleware {
	return &middleware{}
}

func (m *middleware) CORSMiddleware() fiber.Handler {
	return cors.New(cors.Config{
		AllowOrigins: "*",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
		AllowMethods: "GET, POST, OPTIONS",
	})
}

// SessionMiddleware resolves the session cookie into the request's
// AuthContext once. A missing or stale cookie leaves the request anonymous.
func (m *middleware) SessionMiddleware(userService user.UserService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		token := c.Cookies(domain.SessionCookie)
		if token == "" {
			return c.Next()
		}

		auth, err := userService.ResolveSession(c.UserContext(), token)
		if err != nil {
			log.Errorw("failed to resolve session", "error", err)
			return presenters.ErrorResponse(c, fiber.StatusInternalServerError, domain.MessageFailedProcessRequest, err)
		}
		if auth != nil {
			c.Locals(authKey, auth)
		}
		return c.Next()
	}
}

// AuthMiddleware sends anonymous requests to the login page.
func (m *middleware) AuthMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		if Auth(c).IsAnonymous() {
			c.Location("/auth/login")
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageLoginRequired, domain.ErrLoginRequired)
		}
		return c.Next()
	}
}

func (m *middleware) AdminMiddleware() fiber.Handler {
	return func(c *fiber.Ctx) error {
		auth := Auth(c)
		if auth.IsAnonymous() {
			c.Location("/auth/login")
			return presenters.ErrorResponse(c, fiber.StatusUnauthorized, domain.MessageLoginRequired, domain.ErrLoginRequired)
		}
		if !auth.IsAdmin {
			return presenters.ErrorResponse(c, fiber.StatusForbidden, domain.MessageAdminRequired, domain.ErrAdminRequired)
		}
		return c.Next()
	}
}

// Auth returns the request's AuthContext, nil when anonymous.
func Auth(c *fiber.Ctx) *domain.AuthContext {
	auth, _ := c.Locals(authKey).(*domain.AuthContext)
	return auth
}
