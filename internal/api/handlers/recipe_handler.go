package handlers

import (
	"Cuisinade/domain"
	"Cuisinade/internal/api/presenters"
	"Cuisinade/internal/middleware"
	"Cuisinade/pkg/recipe"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
)

const (
	recipeImageField  = "recipe_image"
	commentImageField = "comment_image"
)

type (
	RecipeHandler interface {
		Index(c *fiber.Ctx) error
		NewRecipeForm(c *fiber.Ctx) error
		AddRecipe(c *fiber.Ctx) error
		ViewRecipe(c *fiber.Ctx) error
		EditRecipeForm(c *fiber.Ctx) error
		EditRecipe(c *fiber.Ctx) error
		DeleteRecipe(c *fiber.Ctx) error
		Search(c *fiber.Ctx) error
		MyRecipes(c *fiber.Ctx) error
		Favorites(c *fiber.Ctx) error
		ToggleFavorite(c *fiber.Ctx) error
		AddComment(c *fiber.Ctx) error
		DeleteComment(c *fiber.Ctx) error
	}

	recipeHandler struct {
		recipeService recipe.RecipeService
		validator     *validator.Validate
	}

	searchQuery struct {
		Query       string `query:"q"`
		Difficulty  string `query:"difficulty" validate:"omitempty,numeric"`
		MaxPrepTime string `query:"max_prep_time" validate:"omitempty,numeric"`
		MaxCookTime string `query:"max_cook_time" validate:"omitempty,numeric"`
		MinServings string `query:"min_servings" validate:"omitempty,numeric"`
		MinRating   string `query:"min_rating" validate:"omitempty,numeric"`
		Category    string `query:"category"`
	}
)

func NewRecipeHandler(recipeService recipe.RecipeService, validator *validator.Validate) RecipeHandler {
	return &recipeHandler{
		recipeService: recipeService,
		validator:     validator,
	}
}

func recipeLocation(id string) string {
	return fmt.Sprintf("/%s/", id)
}

func optionalInt(raw string) *int {
	if raw == "" {
		return nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil
	}
	return &v
}

// readRecipeForm accepts a JSON body or an urlencoded/multipart form with
// indexed ingredient and instruction fields.
func readRecipeForm(c *fiber.Ctx) (domain.RecipeForm, *multipart.FileHeader, error) {
	var form domain.RecipeForm
	if strings.HasPrefix(string(c.Request().Header.ContentType()), fiber.MIMEApplicationJSON) {
		if err := c.BodyParser(&form); err != nil {
			return form, nil, err
		}
		recipe.NormalizeRecipeForm(&form)
		return form, nil, nil
	}

	values := map[string][]string{}
	var image *multipart.FileHeader
	if mf, err := c.MultipartForm(); err == nil {
		for k, v := range mf.Value {
			values[k] = v
		}
		if files := mf.File[recipeImageField]; len(files) > 0 {
			image = files[0]
		}
	} else {
		c.Request().PostArgs().VisitAll(func(k, v []byte) {
			key := string(k)
			values[key] = append(values[key], string(v))
		})
	}
	return recipe.ParseRecipeForm(values), image, nil
}

func (h *recipeHandler) Index(c *fiber.Ctx) error {
	res, err := h.recipeService.GetFrontpage(c.UserContext())
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetRecipes, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) NewRecipeForm(c *fiber.Ctx) error {
	return presenters.SuccessResponse(c, fiber.Map{
		"recipe": domain.RecipeForm{Servings: 1, Difficulty: 1},
		"units":  domain.Units,
	}, fiber.StatusOK, "")
}

func (h *recipeHandler) AddRecipe(c *fiber.Ctx) error {
	form, image, err := readRecipeForm(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.recipeService.CreateRecipe(c.UserContext(), middleware.Auth(c), form, image)
	if err != nil {
		status, msg := presenters.StatusFor(err, domain.MessageFailedCreateRecipe)
		return presenters.FormErrorResponse(c, status, msg, form)
	}

	return presenters.RedirectResponse(c, "/", domain.MessageSuccessCreateRecipe, res.Warning, res)
}

func (h *recipeHandler) ViewRecipe(c *fiber.Ctx) error {
	res, err := h.recipeService.GetRecipeDetail(c.UserContext(), middleware.Auth(c), c.Params("id"))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetRecipes, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipeDetail)
}

func (h *recipeHandler) EditRecipeForm(c *fiber.Ctx) error {
	form, err := h.recipeService.GetRecipeForm(c.UserContext(), middleware.Auth(c), c.Params("id"))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetRecipes, err)
	}
	return presenters.SuccessResponse(c, fiber.Map{
		"recipe":  form,
		"units":   domain.Units,
		"is_edit": true,
	}, fiber.StatusOK, "")
}

func (h *recipeHandler) EditRecipe(c *fiber.Ctx) error {
	id := c.Params("id")
	form, image, err := readRecipeForm(c)
	if err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	res, err := h.recipeService.UpdateRecipe(c.UserContext(), middleware.Auth(c), id, form, image)
	if err != nil {
		status, msg := presenters.StatusFor(err, domain.MessageFailedUpdateRecipe)
		if status == fiber.StatusNotFound || status == fiber.StatusForbidden {
			return presenters.ErrorResponse(c, status, msg, err)
		}
		return presenters.FormErrorResponse(c, status, msg, form)
	}

	return presenters.RedirectResponse(c, recipeLocation(id), domain.MessageSuccessUpdateRecipe, res.Warning, res)
}

func (h *recipeHandler) DeleteRecipe(c *fiber.Ctx) error {
	if err := h.recipeService.DeleteRecipe(c.UserContext(), middleware.Auth(c), c.Params("id")); err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedDeleteRecipe, err)
	}
	return presenters.RedirectResponse(c, "/", domain.MessageSuccessDeleteRecipe, "", nil)
}

func (h *recipeHandler) Search(c *fiber.Ctx) error {
	q := new(searchQuery)
	if err := c.QueryParser(q); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSearch, err)
	}
	if err := h.validator.Struct(q); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedSearch, err)
	}

	res, err := h.recipeService.SearchRecipes(c.UserContext(), domain.SearchRequest{
		Query:       strings.TrimSpace(q.Query),
		Difficulty:  optionalInt(q.Difficulty),
		MaxPrepTime: optionalInt(q.MaxPrepTime),
		MaxCookTime: optionalInt(q.MaxCookTime),
		MinServings: optionalInt(q.MinServings),
		MinRating:   optionalInt(q.MinRating),
		Category:    q.Category,
	})
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedSearch, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessSearch)
}

func (h *recipeHandler) MyRecipes(c *fiber.Ctx) error {
	res, err := h.recipeService.GetMyRecipes(c.UserContext(), middleware.Auth(c))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetRecipes, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) Favorites(c *fiber.Ctx) error {
	res, err := h.recipeService.GetFavorites(c.UserContext(), middleware.Auth(c))
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedGetRecipes, err)
	}
	return presenters.SuccessResponse(c, res, fiber.StatusOK, domain.MessageSuccessGetRecipes)
}

func (h *recipeHandler) ToggleFavorite(c *fiber.Ctx) error {
	id := c.Params("id")
	res, err := h.recipeService.ToggleFavorite(c.UserContext(), middleware.Auth(c), id)
	if err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedFavorite, err)
	}
	return presenters.RedirectResponse(c, recipeLocation(id), domain.MessageSuccessToggleFavorite, "", res)
}

func (h *recipeHandler) AddComment(c *fiber.Ctx) error {
	id := c.Params("id")
	req := new(domain.CommentRequest)
	if err := c.BodyParser(req); err != nil {
		return presenters.ErrorResponse(c, fiber.StatusBadRequest, domain.MessageFailedBodyRequest, err)
	}

	var image *multipart.FileHeader
	if file, err := c.FormFile(commentImageField); err == nil {
		image = file
	}

	res, err := h.recipeService.AddComment(c.UserContext(), middleware.Auth(c), id, *req, image)
	if err != nil {
		var verr *domain.ValidationError
		if errors.As(err, &verr) {
			return presenters.FormErrorResponse(c, fiber.StatusUnprocessableEntity, verr.Message, req)
		}
		return presenters.ServiceErrorResponse(c, domain.MessageFailedAddComment, err)
	}
	return presenters.RedirectResponse(c, recipeLocation(id), domain.MessageSuccessAddComment, res.Warning, res)
}

func (h *recipeHandler) DeleteComment(c *fiber.Ctx) error {
	id := c.Params("id")
	if err := h.recipeService.DeleteComment(c.UserContext(), middleware.Auth(c), id, c.Params("cid")); err != nil {
		return presenters.ServiceErrorResponse(c, domain.MessageFailedProcessRequest, err)
	}
	return presenters.RedirectResponse(c, recipeLocation(id), domain.MessageSuccessDeleteComment, "", nil)
}
