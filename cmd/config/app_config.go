package config

import (
	"Cuisinade/domain"
	"Cuisinade/internal/api/handlers"
	"Cuisinade/internal/api/presenters"
	"Cuisinade/internal/api/routes"
	"Cuisinade/internal/middleware"
	"Cuisinade/internal/utils"
	"Cuisinade/internal/utils/storage"
	"Cuisinade/pkg/admin"
	"Cuisinade/pkg/ingredient"
	"Cuisinade/pkg/jwt"
	"Cuisinade/pkg/recipe"
	"Cuisinade/pkg/user"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ansrivas/fiberprometheus/v2"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/limiter"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/prometheus/client_golang/prometheus"
	"gorm.io/gorm"
)

// errorHandler renders errors that escape the handlers, such as an oversized
// body or an unknown route, in the usual envelope.
func errorHandler(c *fiber.Ctx, err error) error {
	code := fiber.StatusInternalServerError
	message := domain.MessageFailedProcessRequest

	var e *fiber.Error
	if errors.As(err, &e) {
		code = e.Code
		message = e.Message
	}
	if code == fiber.StatusInternalServerError {
		log.Errorw("unhandled error", "method", c.Method(), "path", c.Path(), "error", err)
	}
	return presenters.ErrorResponse(c, code, message, nil)
}

// accessLog opens LOG_FILE for the request logger. "-" logs to stdout.
func accessLog() (io.Writer, error) {
	path := utils.GetConfig("LOG_FILE")
	if path == "-" {
		return os.Stdout, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), os.ModePerm); err != nil {
		return nil, fmt.Errorf("error creating logs directory: %w", err)
	}
	file, err := os.OpenFile(path, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0666)
	if err != nil {
		return nil, fmt.Errorf("error opening log file: %w", err)
	}
	return file, nil
}

func NewApp(db *gorm.DB, images storage.ImageStore) (*fiber.App, error) {
	if err := jwt.RequireSecret(); err != nil {
		return nil, err
	}
	utils.InitValidator()
	app := fiber.New(fiber.Config{
		BodyLimit:    utils.GetConfigInt("MAX_UPLOAD_BYTES", 3*1024*1024),
		ErrorHandler: errorHandler,
	})
	middlewares := middleware.NewMiddleware()
	validator := utils.Validate

	// setting up logging, metrics and limiter
	app.Use(recover.New())
	output, err := accessLog()
	if err != nil {
		return nil, err
	}
	app.Use(logger.New(logger.Config{
		TimeFormat: "2006-01-02 15:04:05",
		TimeZone:   "UTC",
		Output:     output,
	}))

	prom := fiberprometheus.NewWithRegistry(prometheus.NewRegistry(), "cuisinade", "http", "", nil)
	prom.RegisterAt(app, "/metrics")
	app.Use(prom.Middleware)

	if maxRequests := utils.GetConfigInt("RATE_LIMIT_MAX", 20); maxRequests > 0 {
		app.Use(limiter.New(limiter.Config{
			Max:        maxRequests,
			Expiration: 1 * time.Second,
		}))
	}

	if driver := utils.GetConfig("STORAGE_DRIVER"); driver == "" || driver == "local" {
		app.Static("/uploads", utils.GetConfig("UPLOAD_DIR"))
	}

	// Repository
	userRepository := user.NewUserRepository(db)
	ingredientRepository := ingredient.NewIngredientRepository(db)
	recipeRepository := recipe.NewRecipeRepository(db, ingredientRepository)
	adminRepository := admin.NewAdminRepository(db)

	// Service
	jwtService := jwt.NewJWTService()
	userService := user.NewUserService(userRepository, jwtService)
	ingredientService := ingredient.NewIngredientService(ingredientRepository)
	recipeService := recipe.NewRecipeService(recipeRepository, images)
	adminService := admin.NewAdminService(adminRepository, recipeRepository, images)

	// Handler
	userHandler := handlers.NewUserHandler(userService, validator)
	recipeHandler := handlers.NewRecipeHandler(recipeService, validator)
	ingredientHandler := handlers.NewIngredientHandler(ingredientService, validator)
	adminHandler := handlers.NewAdminHandler(adminService)

	// routes
	routesConfig := routes.Config{
		App:               app,
		UserHandler:       userHandler,
		RecipeHandler:     recipeHandler,
		IngredientHandler: ingredientHandler,
		AdminHandler:      adminHandler,
		Middleware:        middlewares,
		UserService:       userService,
	}
	routesConfig.Setup()
	return app, nil
}
