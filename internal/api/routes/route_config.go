package routes

import (
	"Cuisinade/internal/api/handlers"
	"Cuisinade/internal/api/presenters"
	"Cuisinade/internal/middleware"
	"Cuisinade/pkg/user"

	"github.com/gofiber/fiber/v2"
)

type Config struct {
	App               *fiber.App
	UserHandler       handlers.UserHandler
	RecipeHandler     handlers.RecipeHandler
	IngredientHandler handlers.IngredientHandler
	AdminHandler      handlers.AdminHandler
	Middleware        middleware.Middleware
	UserService       user.UserService
}

func (c *Config) Setup() {
	c.App.Use(c.Middleware.CORSMiddleware())
	c.App.Use(c.Middleware.SessionMiddleware(c.UserService))
	c.GuestRoute()
	c.Auth()
	c.Api()
	c.Admin()
	c.Recipes()
}

func emptyForm(c *fiber.Ctx) error {
	return presenters.SuccessResponse(c, fiber.Map{}, fiber.StatusOK, "")
}

func (c *Config) GuestRoute() {
	c.App.Get("/api/ping", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"message": "pong"})
	})
	c.App.Get("/", c.RecipeHandler.Index)
	c.App.Get("/search", c.RecipeHandler.Search)
}

func (c *Config) Auth() {
	auth := c.App.Group("/auth")
	{
		auth.Get("/register", c.UserHandler.RegisterForm)
		auth.Post("/register", c.UserHandler.Register)
		auth.Get("/login", emptyForm)
		auth.Post("/login", c.UserHandler.Login)
		auth.Get("/forgot_password", emptyForm)
		auth.Post("/forgot_password", c.UserHandler.ForgotPassword)
		auth.Get("/reset_password", c.UserHandler.ResetPasswordForm)
		auth.Post("/reset_password", c.UserHandler.ResetPassword)
		auth.Get("/logout", c.UserHandler.Logout)
		auth.Get("/me", c.Middleware.AuthMiddleware(), c.UserHandler.Me)
	}
}

func (c *Config) Api() {
	api := c.App.Group("/api")
	{
		api.Get("/ingredients", c.IngredientHandler.GetIngredients)
		api.Post("/ingredients/create", c.IngredientHandler.CreateIngredient)
		api.Get("/units", c.IngredientHandler.GetUnits)
		api.Post("/toggle_favourites/:id", c.Middleware.AuthMiddleware(), c.RecipeHandler.ToggleFavorite)
		api.Post("/:id/add_comment", c.Middleware.AuthMiddleware(), c.RecipeHandler.AddComment)
	}
}

func (c *Config) Admin() {
	admin := c.App.Group("/admin", c.Middleware.AdminMiddleware())
	{
		admin.Get("", c.AdminHandler.Dashboard)
		admin.Get("/stats/api", c.AdminHandler.Stats)
		admin.Post("/users/:id/toggle-admin", c.AdminHandler.ToggleAdmin)
		admin.Post("/users/:id/delete", c.AdminHandler.DeleteUser)
		admin.Post("/comments/:id/delete", c.AdminHandler.DeleteComment)
		admin.Post("/recipes/:id/delete", c.AdminHandler.DeleteRecipe)
	}
}

// Recipes registers the catch-all /:id routes, so it runs last.
func (c *Config) Recipes() {
	authRequired := c.Middleware.AuthMiddleware()

	c.App.Get("/add-recipe", authRequired, c.RecipeHandler.NewRecipeForm)
	c.App.Post("/add-recipe", authRequired, c.RecipeHandler.AddRecipe)
	c.App.Get("/my-recipes", authRequired, c.RecipeHandler.MyRecipes)
	c.App.Get("/favorites", authRequired, c.RecipeHandler.Favorites)

	recipe := c.App.Group("/:id")
	{
		recipe.Get("/", c.RecipeHandler.ViewRecipe)
		recipe.Post("/", authRequired, c.RecipeHandler.AddComment)
		recipe.Get("/edit", authRequired, c.RecipeHandler.EditRecipeForm)
		recipe.Post("/edit", authRequired, c.RecipeHandler.EditRecipe)
		recipe.Post("/delete", authRequired, c.RecipeHandler.DeleteRecipe)
		recipe.Post("/comment/:cid/delete", authRequired, c.RecipeHandler.DeleteComment)
	}
}
