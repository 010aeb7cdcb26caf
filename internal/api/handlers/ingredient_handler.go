package handlers

import (
	"Cuisinade/domain"
	"Cuisinade/pkg/ingredient"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
)

type (
	IngredientHandler interface {
		GetIngredients(c *fiber.Ctx) error
		CreateIngredient(c *fiber.Ctx) error
		GetUnits(c *fiber.Ctx) error
	}

	ingredientHandler struct {
		ingredientService ingredient.IngredientService
		validator         *validator.Validate
	}
)

func NewIngredientHandler(ingredientService ingredient.IngredientService, validator *validator.Validate) IngredientHandler {
	return &ingredientHandler{
		ingredientService: ingredientService,
		validator:         validator,
	}
}

// The autocomplete endpoints answer with bare JSON values and {"error": ...}
// bodies rather than the response envelope.
func apiError(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{"error": message})
}

func (h *ingredientHandler) GetIngredients(c *fiber.Ctx) error {
	res, err := h.ingredientService.GetIngredients(c.UserContext())
	if err != nil {
		log.Errorw("failed to fetch ingredients", "error", err)
		return apiError(c, fiber.StatusInternalServerError, domain.MessageFailedGetIngredients)
	}
	return c.JSON(res)
}

func (h *ingredientHandler) CreateIngredient(c *fiber.Ctx) error {
	req := new(domain.CreateIngredientRequest)
	if err := c.BodyParser(req); err != nil {
		return apiError(c, fiber.StatusBadRequest, domain.MessageIngredientNameRequired)
	}
	if err := h.validator.Struct(req); err != nil {
		return apiError(c, fiber.StatusBadRequest, domain.MessageIngredientNameRequired)
	}

	res, created, err := h.ingredientService.CreateIngredient(c.UserContext(), *req)
	if err != nil {
		if errors.Is(err, domain.ErrIngredientNameEmpty) {
			return apiError(c, fiber.StatusBadRequest, domain.MessageIngredientNameEmpty)
		}
		log.Errorw("failed to create ingredient", "error", err)
		return apiError(c, fiber.StatusInternalServerError, domain.MessageFailedCreateIngredient)
	}

	if created {
		return c.Status(fiber.StatusCreated).JSON(res)
	}
	return c.JSON(res)
}

func (h *ingredientHandler) GetUnits(c *fiber.Ctx) error {
	return c.JSON(h.ingredientService.GetUnits())
}
