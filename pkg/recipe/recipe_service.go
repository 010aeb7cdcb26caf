package recipe

import (
	"Cuisinade/domain"
	"Cuisinade/entities"
	"Cuisinade/internal/utils/storage"
	"context"
	"errors"
	"fmt"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2/log"
	"github.com/google/uuid"
)

type (
	RecipeService interface {
		GetFrontpage(ctx context.Context) ([]domain.Recipe, error)
		GetRecipeDetail(ctx context.Context, auth *domain.AuthContext, recipeID string) (domain.RecipeDetail, error)
		GetRecipeForm(ctx context.Context, auth *domain.AuthContext, recipeID string) (domain.RecipeForm, error)
		CreateRecipe(ctx context.Context, auth *domain.AuthContext, form domain.RecipeForm, image *multipart.FileHeader) (domain.RecipeFormResult, error)
		UpdateRecipe(ctx context.Context, auth *domain.AuthContext, recipeID string, form domain.RecipeForm, image *multipart.FileHeader) (domain.RecipeFormResult, error)
		DeleteRecipe(ctx context.Context, auth *domain.AuthContext, recipeID string) error
		SearchRecipes(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error)
		GetMyRecipes(ctx context.Context, auth *domain.AuthContext) ([]domain.Recipe, error)
		GetFavorites(ctx context.Context, auth *domain.AuthContext) ([]domain.Recipe, error)
		ToggleFavorite(ctx context.Context, auth *domain.AuthContext, recipeID string) (domain.ToggleFavoriteResponse, error)
		AddComment(ctx context.Context, auth *domain.AuthContext, recipeID string, req domain.CommentRequest, image *multipart.FileHeader) (domain.CommentResult, error)
		DeleteComment(ctx context.Context, auth *domain.AuthContext, recipeID string, commentID string) error
	}

	recipeService struct {
		recipeRepository RecipeRepository
		images           storage.ImageStore
	}
)

func NewRecipeService(recipeRepository RecipeRepository, images storage.ImageStore) RecipeService {
	return &recipeService{
		recipeRepository: recipeRepository,
		images:           images,
	}
}

func imageURL(images storage.ImageStore, ref *string) string {
	if ref == nil || *ref == "" {
		return ""
	}
	return images.PublicURL(*ref)
}

// ToRecipeResponse maps a stored recipe, with its preloaded author, to the
// response shape.
func ToRecipeResponse(r *entities.Recipe, images storage.ImageStore) domain.Recipe {
	res := domain.Recipe{
		ID:          r.ID.String(),
		AuthorID:    r.AuthorID.String(),
		Title:       r.Title,
		Description: r.Description,
		Notes:       r.Notes,
		AuthorGrade: r.AuthorGrade,
		PrepTime:    r.PrepTime,
		CookTime:    r.CookTime,
		Servings:    r.Servings,
		Difficulty:  r.Difficulty,
		Category:    r.Category,
		ImageURL:    imageURL(images, r.ImageURL),
		CreatedAt:   r.CreatedAt,
	}
	if r.Author != nil {
		res.Username = r.Author.Username
	}
	return res
}

func ToCommentResponse(c *entities.Comment, images storage.ImageStore) domain.Comment {
	res := domain.Comment{
		ID:        c.ID.String(),
		AuthorID:  c.AuthorID.String(),
		Comment:   c.Text,
		Grade:     c.Grade,
		ImageURL:  imageURL(images, c.ImageURL),
		CreatedAt: c.CreatedAt,
	}
	if c.Author != nil {
		res.Username = c.Author.Username
	}
	return res
}

func (s *recipeService) toRecipes(recipes []*entities.Recipe) []domain.Recipe {
	res := make([]domain.Recipe, 0, len(recipes))
	for _, r := range recipes {
		res = append(res, ToRecipeResponse(r, s.images))
	}
	return res
}

func requireLogin(auth *domain.AuthContext) error {
	if auth.IsAnonymous() {
		return domain.ErrLoginRequired
	}
	return nil
}

// saveImage stores an optional upload. A rejected or failed upload is reported
// as a warning and never blocks the rest of the submission.
func (s *recipeService) saveImage(ctx context.Context, file *multipart.FileHeader, category string) (*string, string) {
	if file == nil || file.Filename == "" || file.Size == 0 {
		return nil, ""
	}

	ref, err := s.images.Save(ctx, file, category)
	if err != nil {
		if errors.Is(err, storage.ErrUnsupportedFormat) {
			return nil, domain.MessageInvalidImageFormat
		}
		log.Errorw("failed to save image", "filename", file.Filename, "error", err)
		return nil, domain.MessageFailedSaveImage
	}
	return &ref, ""
}

func (s *recipeService) deleteImage(ctx context.Context, ref *string) {
	if ref != nil && *ref != "" {
		s.images.Delete(ctx, *ref)
	}
}

func applyForm(recipe *entities.Recipe, form domain.RecipeForm) {
	recipe.Title = strings.TrimSpace(form.Title)
	recipe.Description = form.Description
	recipe.Notes = form.Notes
	recipe.AuthorGrade = form.Rating
	recipe.PrepTime = form.PrepTime
	recipe.CookTime = form.CookTime
	recipe.Servings = form.Servings
	recipe.Difficulty = form.Difficulty
	recipe.Category = strings.TrimSpace(form.Category)
}

func (s *recipeService) GetFrontpage(ctx context.Context) ([]domain.Recipe, error) {
	recipes, err := s.recipeRepository.ListRandom(ctx, domain.NbRecipesFrontpage)
	if err != nil {
		return nil, err
	}
	return s.toRecipes(recipes), nil
}

func (s *recipeService) GetRecipeDetail(ctx context.Context, auth *domain.AuthContext, recipeID string) (domain.RecipeDetail, error) {
	recipe, err := s.recipeRepository.GetRecipe(ctx, recipeID, nil)
	if err != nil {
		return domain.RecipeDetail{}, err
	}

	detail := domain.RecipeDetail{
		Recipe:       ToRecipeResponse(recipe, s.images),
		Ingredients:  make([]domain.Ingredient, 0, len(recipe.Ingredients)),
		Instructions: make([]domain.Instruction, 0, len(recipe.Instructions)),
	}
	for _, ing := range recipe.Ingredients {
		line := domain.Ingredient{
			IngredientID: ing.IngredientTypeID.String(),
			Quantity:     ing.Quantity,
			Unit:         ing.Unit,
		}
		if ing.IngredientType != nil {
			line.Name = ing.IngredientType.Name
		}
		detail.Ingredients = append(detail.Ingredients, line)
	}
	for _, ins := range recipe.Instructions {
		detail.Instructions = append(detail.Instructions, domain.Instruction{Step: ins.Step, Text: ins.Text})
	}

	comments, err := s.recipeRepository.ListComments(ctx, recipeID)
	if err != nil {
		return domain.RecipeDetail{}, err
	}
	detail.Comments = make([]domain.Comment, 0, len(comments))
	for _, c := range comments {
		detail.Comments = append(detail.Comments, ToCommentResponse(c, s.images))
	}

	if !auth.IsAnonymous() {
		detail.IsFavorite, err = s.recipeRepository.IsFavorite(ctx, auth.UserID.String(), recipeID)
		if err != nil {
			return domain.RecipeDetail{}, err
		}
	}
	return detail, nil
}

// GetRecipeForm returns the stored recipe shaped as an edit form. Only the
// author may load it.
func (s *recipeService) GetRecipeForm(ctx context.Context, auth *domain.AuthContext, recipeID string) (domain.RecipeForm, error) {
	if err := requireLogin(auth); err != nil {
		return domain.RecipeForm{}, err
	}
	recipe, err := s.recipeRepository.GetRecipe(ctx, recipeID, &auth.UserID)
	if err != nil {
		return domain.RecipeForm{}, err
	}

	form := domain.RecipeForm{
		Title:       recipe.Title,
		Description: recipe.Description,
		Notes:       recipe.Notes,
		Rating:      recipe.AuthorGrade,
		PrepTime:    recipe.PrepTime,
		CookTime:    recipe.CookTime,
		Servings:    recipe.Servings,
		Difficulty:  recipe.Difficulty,
		Category:    recipe.Category,
	}
	for _, ing := range recipe.Ingredients {
		line := domain.IngredientLine{
			IngredientID: ing.IngredientTypeID.String(),
			Quantity:     ing.Quantity,
			Unit:         ing.Unit,
		}
		if ing.IngredientType != nil {
			line.Name = ing.IngredientType.Name
		}
		form.Ingredients = append(form.Ingredients, line)
	}
	for _, ins := range recipe.Instructions {
		form.Instructions = append(form.Instructions, domain.InstructionLine{Step: ins.Step, Text: ins.Text})
	}
	return form, nil
}

func (s *recipeService) CreateRecipe(ctx context.Context, auth *domain.AuthContext, form domain.RecipeForm, image *multipart.FileHeader) (domain.RecipeFormResult, error) {
	if err := requireLogin(auth); err != nil {
		return domain.RecipeFormResult{}, err
	}
	if err := validateRecipeForm(form); err != nil {
		return domain.RecipeFormResult{}, err
	}

	ref, warning := s.saveImage(ctx, image, storage.CategoryRecipes)

	recipe := &entities.Recipe{
		ID:       uuid.New(),
		AuthorID: auth.UserID,
		ImageURL: ref,
	}
	applyForm(recipe, form)

	if err := s.recipeRepository.CreateRecipe(ctx, recipe, form.Ingredients, form.Instructions); err != nil {
		s.deleteImage(ctx, ref)
		return domain.RecipeFormResult{Warning: warning}, fmt.Errorf("create recipe: %w", err)
	}

	return domain.RecipeFormResult{
		RecipeID: recipe.ID.String(),
		Warning:  warning,
	}, nil
}

// UpdateRecipe replaces the recipe fields and child lines. The previous image
// is deleted only once the new state is committed.
func (s *recipeService) UpdateRecipe(ctx context.Context, auth *domain.AuthContext, recipeID string, form domain.RecipeForm, image *multipart.FileHeader) (domain.RecipeFormResult, error) {
	if err := requireLogin(auth); err != nil {
		return domain.RecipeFormResult{}, err
	}
	recipe, err := s.recipeRepository.GetRecipe(ctx, recipeID, &auth.UserID)
	if err != nil {
		return domain.RecipeFormResult{}, err
	}
	if err := validateRecipeForm(form); err != nil {
		return domain.RecipeFormResult{}, err
	}

	previous := recipe.ImageURL
	ref, warning := s.saveImage(ctx, image, storage.CategoryRecipes)

	switch {
	case ref != nil:
		recipe.ImageURL = ref
	case form.RemoveImage:
		recipe.ImageURL = nil
	}
	applyForm(recipe, form)

	if err := s.recipeRepository.UpdateRecipe(ctx, recipe, form.Ingredients, form.Instructions); err != nil {
		s.deleteImage(ctx, ref)
		return domain.RecipeFormResult{RecipeID: recipeID, Warning: warning}, fmt.Errorf("update recipe: %w", err)
	}

	if previous != nil && (recipe.ImageURL == nil || *recipe.ImageURL != *previous) {
		s.deleteImage(ctx, previous)
	}

	return domain.RecipeFormResult{
		RecipeID: recipeID,
		Warning:  warning,
	}, nil
}

func (s *recipeService) DeleteRecipe(ctx context.Context, auth *domain.AuthContext, recipeID string) error {
	if err := requireLogin(auth); err != nil {
		return err
	}
	if _, err := s.recipeRepository.GetRecipe(ctx, recipeID, &auth.UserID); err != nil {
		return err
	}

	images, err := s.recipeRepository.DeleteRecipe(ctx, recipeID)
	if err != nil {
		return err
	}
	for _, ref := range images {
		s.images.Delete(ctx, ref)
	}
	return nil
}

func (s *recipeService) SearchRecipes(ctx context.Context, req domain.SearchRequest) (domain.SearchResponse, error) {
	recipes, err := s.recipeRepository.SearchRecipes(ctx, req)
	if err != nil {
		return domain.SearchResponse{}, err
	}

	res := s.toRecipes(recipes)
	return domain.SearchResponse{
		Recipes:      res,
		TotalResults: len(res),
	}, nil
}

func (s *recipeService) GetMyRecipes(ctx context.Context, auth *domain.AuthContext) ([]domain.Recipe, error) {
	if err := requireLogin(auth); err != nil {
		return nil, err
	}
	recipes, err := s.recipeRepository.ListByAuthor(ctx, auth.UserID.String())
	if err != nil {
		return nil, err
	}
	return s.toRecipes(recipes), nil
}

func (s *recipeService) GetFavorites(ctx context.Context, auth *domain.AuthContext) ([]domain.Recipe, error) {
	if err := requireLogin(auth); err != nil {
		return nil, err
	}
	recipes, err := s.recipeRepository.ListFavorites(ctx, auth.UserID.String())
	if err != nil {
		return nil, err
	}
	return s.toRecipes(recipes), nil
}

func (s *recipeService) ToggleFavorite(ctx context.Context, auth *domain.AuthContext, recipeID string) (domain.ToggleFavoriteResponse, error) {
	if err := requireLogin(auth); err != nil {
		return domain.ToggleFavoriteResponse{}, err
	}
	recipe, err := s.recipeRepository.GetRecipe(ctx, recipeID, nil)
	if err != nil {
		return domain.ToggleFavoriteResponse{}, err
	}

	favorite, err := s.recipeRepository.ToggleFavorite(ctx, auth.UserID, recipe.ID)
	if err != nil {
		return domain.ToggleFavoriteResponse{}, err
	}
	return domain.ToggleFavoriteResponse{
		RecipeID:   recipe.ID.String(),
		IsFavorite: favorite,
	}, nil
}

func (s *recipeService) AddComment(ctx context.Context, auth *domain.AuthContext, recipeID string, req domain.CommentRequest, image *multipart.FileHeader) (domain.CommentResult, error) {
	if err := requireLogin(auth); err != nil {
		return domain.CommentResult{}, err
	}
	if strings.TrimSpace(req.Comment) == "" {
		return domain.CommentResult{}, domain.ErrCommentRequired
	}
	grade, err := strconv.Atoi(strings.TrimSpace(req.Grade))
	if err != nil {
		return domain.CommentResult{}, domain.ErrGradeRequired
	}

	recipe, err := s.recipeRepository.GetRecipe(ctx, recipeID, nil)
	if err != nil {
		return domain.CommentResult{}, err
	}

	ref, warning := s.saveImage(ctx, image, storage.CategoryComments)
	comment := &entities.Comment{
		ID:       uuid.New(),
		RecipeID: recipe.ID,
		AuthorID: auth.UserID,
		Text:     req.Comment,
		Grade:    grade,
		ImageURL: ref,
	}
	if err := s.recipeRepository.CreateComment(ctx, comment); err != nil {
		s.deleteImage(ctx, ref)
		return domain.CommentResult{}, fmt.Errorf("create comment: %w", err)
	}

	res := ToCommentResponse(comment, s.images)
	res.Username = auth.Username
	return domain.CommentResult{Comment: res, Warning: warning}, nil
}

func (s *recipeService) DeleteComment(ctx context.Context, auth *domain.AuthContext, recipeID string, commentID string) error {
	if err := requireLogin(auth); err != nil {
		return err
	}
	comment, err := s.recipeRepository.GetComment(ctx, commentID)
	if err != nil {
		return err
	}
	if comment.RecipeID.String() != recipeID {
		return domain.ErrCommentNotFound
	}
	if comment.AuthorID != auth.UserID {
		return domain.ErrCommentForbidden
	}

	image, err := s.recipeRepository.DeleteComment(ctx, commentID)
	if err != nil {
		return err
	}
	s.deleteImage(ctx, image)
	return nil
}
