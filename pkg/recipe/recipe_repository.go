package recipe

import (
	"Cuisinade/domain"
	"Cuisinade/entities"
	"Cuisinade/pkg/ingredient"
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	RecipeRepository interface {
		CreateRecipe(ctx context.Context, recipe *entities.Recipe, ingredients []domain.IngredientLine, instructions []domain.InstructionLine) error
		GetRecipe(ctx context.Context, id string, requireAuthor *uuid.UUID) (*entities.Recipe, error)
		UpdateRecipe(ctx context.Context, recipe *entities.Recipe, ingredients []domain.IngredientLine, instructions []domain.InstructionLine) error
		DeleteRecipe(ctx context.Context, id string) ([]string, error)
		ListRandom(ctx context.Context, limit int) ([]*entities.Recipe, error)
		SearchRecipes(ctx context.Context, req domain.SearchRequest) ([]*entities.Recipe, error)
		ListByAuthor(ctx context.Context, authorID string) ([]*entities.Recipe, error)
		ListFavorites(ctx context.Context, userID string) ([]*entities.Recipe, error)

		CreateComment(ctx context.Context, comment *entities.Comment) error
		GetComment(ctx context.Context, id string) (*entities.Comment, error)
		ListComments(ctx context.Context, recipeID string) ([]*entities.Comment, error)
		DeleteComment(ctx context.Context, id string) (*string, error)

		IsFavorite(ctx context.Context, userID, recipeID string) (bool, error)
		ToggleFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error)
	}

	recipeRepository struct {
		db          *gorm.DB
		ingredients ingredient.IngredientRepository
	}
)

func NewRecipeRepository(db *gorm.DB, ingredients ingredient.IngredientRepository) RecipeRepository {
	return &recipeRepository{db: db, ingredients: ingredients}
}

// complete reports whether an ingredient line carries the three values needed
// to persist it.
func complete(line domain.IngredientLine) bool {
	return strings.TrimSpace(line.Name) != "" &&
		strings.TrimSpace(line.Quantity) != "" &&
		strings.TrimSpace(line.Unit) != ""
}

func (r *recipeRepository) insertLines(ctx context.Context, tx *gorm.DB, recipeID uuid.UUID, ingredients []domain.IngredientLine, instructions []domain.InstructionLine) error {
	types := r.ingredients.WithTx(tx)

	position := 0
	for _, line := range ingredients {
		if !complete(line) {
			continue
		}
		t, _, err := types.FindOrCreateType(ctx, line.Name)
		if err != nil {
			return err
		}
		row := &entities.Ingredient{
			RecipeID:         recipeID,
			IngredientTypeID: t.ID,
			Position:         position,
			Quantity:         strings.TrimSpace(line.Quantity),
			Unit:             strings.TrimSpace(line.Unit),
		}
		if err := tx.Create(row).Error; err != nil {
			return err
		}
		position++
	}

	for i, line := range instructions {
		if strings.TrimSpace(line.Text) == "" {
			continue
		}
		step := line.Step
		if step <= 0 {
			step = i + 1
		}
		row := &entities.Instruction{
			RecipeID: recipeID,
			Step:     step,
			Text:     line.Text,
		}
		if err := tx.Create(row).Error; err != nil {
			return err
		}
	}
	return nil
}

func (r *recipeRepository) CreateRecipe(ctx context.Context, recipe *entities.Recipe, ingredients []domain.IngredientLine, instructions []domain.InstructionLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Omit(clause.Associations).Create(recipe).Error; err != nil {
			return err
		}
		return r.insertLines(ctx, tx, recipe.ID, ingredients, instructions)
	})
}

func (r *recipeRepository) GetRecipe(ctx context.Context, id string, requireAuthor *uuid.UUID) (*entities.Recipe, error) {
	var recipe entities.Recipe
	err := r.db.WithContext(ctx).
		Preload("Author").
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB {
			return db.Order("position asc")
		}).
		Preload("Ingredients.IngredientType").
		Preload("Instructions", func(db *gorm.DB) *gorm.DB {
			return db.Order("step asc")
		}).
		Where("id = ?", id).
		First(&recipe).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrRecipeNotFound
		}
		return nil, err
	}

	if requireAuthor != nil && recipe.AuthorID != *requireAuthor {
		return nil, domain.ErrRecipeForbidden
	}
	return &recipe, nil
}

func (r *recipeRepository) UpdateRecipe(ctx context.Context, recipe *entities.Recipe, ingredients []domain.IngredientLine, instructions []domain.InstructionLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&entities.Recipe{}).
			Where("id = ?", recipe.ID).
			Select("title", "description", "notes", "author_grade", "prep_time", "cook_time",
				"servings", "difficulty", "category", "image_url", "updated_at").
			Updates(map[string]any{
				"title":        recipe.Title,
				"description":  recipe.Description,
				"notes":        recipe.Notes,
				"author_grade": recipe.AuthorGrade,
				"prep_time":    recipe.PrepTime,
				"cook_time":    recipe.CookTime,
				"servings":     recipe.Servings,
				"difficulty":   recipe.Difficulty,
				"category":     recipe.Category,
				"image_url":    recipe.ImageURL,
				"updated_at":   time.Now(),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return domain.ErrRecipeNotFound
		}

		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.Ingredient{}).Error; err != nil {
			return err
		}
		if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&entities.Instruction{}).Error; err != nil {
			return err
		}
		return r.insertLines(ctx, tx, recipe.ID, ingredients, instructions)
	})
}

// DeleteRecipe removes the recipe with every child row in one transaction and
// returns the image references (recipe and comments) the caller must delete.
func (r *recipeRepository) DeleteRecipe(ctx context.Context, id string) ([]string, error) {
	var images []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var recipe entities.Recipe
		if err := tx.Where("id = ?", id).First(&recipe).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrRecipeNotFound
			}
			return err
		}

		var commentImages []string
		if err := tx.Model(&entities.Comment{}).
			Where("recipe_id = ? AND image_url IS NOT NULL", id).
			Pluck("image_url", &commentImages).Error; err != nil {
			return err
		}

		for _, model := range []any{&entities.Instruction{}, &entities.Ingredient{}, &entities.Comment{}, &entities.Favorite{}} {
			if err := tx.Where("recipe_id = ?", id).Delete(model).Error; err != nil {
				return err
			}
		}
		if err := tx.Delete(&recipe).Error; err != nil {
			return err
		}

		if recipe.ImageURL != nil && *recipe.ImageURL != "" {
			images = append(images, *recipe.ImageURL)
		}
		for _, ref := range commentImages {
			if ref != "" {
				images = append(images, ref)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return images, nil
}

func (r *recipeRepository) randomOrder() string {
	switch r.db.Dialector.Name() {
	case "mysql":
		return "RAND()"
	case "sqlserver":
		return "NEWID()"
	default:
		return "RANDOM()"
	}
}

func (r *recipeRepository) ListRandom(ctx context.Context, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Order(clause.Expr{SQL: r.randomOrder()}).
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

// SearchRecipes applies every present filter as an AND predicate; an empty
// request matches all recipes. Results are newest first.
func (r *recipeRepository) SearchRecipes(ctx context.Context, req domain.SearchRequest) ([]*entities.Recipe, error) {
	query := r.db.WithContext(ctx).Preload("Author")

	if q := strings.TrimSpace(req.Query); q != "" {
		pattern := "%" + strings.ToLower(q) + "%"
		query = query.Where("(LOWER(title) LIKE ? OR LOWER(description) LIKE ?)", pattern, pattern)
	}
	if req.Difficulty != nil {
		query = query.Where("difficulty = ?", *req.Difficulty)
	}
	if req.MaxPrepTime != nil {
		query = query.Where("prep_time <= ?", *req.MaxPrepTime)
	}
	if req.MaxCookTime != nil {
		query = query.Where("cook_time <= ?", *req.MaxCookTime)
	}
	if req.MinServings != nil {
		query = query.Where("servings >= ?", *req.MinServings)
	}
	if req.MinRating != nil {
		query = query.Where("author_grade >= ?", *req.MinRating)
	}
	if c := strings.TrimSpace(req.Category); c != "" {
		query = query.Where("category = ?", c)
	}

	var recipes []*entities.Recipe
	if err := query.Order("created_at desc").Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) ListByAuthor(ctx context.Context, authorID string) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("author_id = ?", authorID).
		Order("created_at desc").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) ListFavorites(ctx context.Context, userID string) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Joins("JOIN favorites ON recipes.id = favorites.recipe_id").
		Where("favorites.user_id = ?", userID).
		Order("favorites.created_at desc").
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *recipeRepository) CreateComment(ctx context.Context, comment *entities.Comment) error {
	return r.db.WithContext(ctx).Omit(clause.Associations).Create(comment).Error
}

func (r *recipeRepository) GetComment(ctx context.Context, id string) (*entities.Comment, error) {
	var comment entities.Comment
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&comment).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrCommentNotFound
		}
		return nil, err
	}
	return &comment, nil
}

func (r *recipeRepository) ListComments(ctx context.Context, recipeID string) ([]*entities.Comment, error) {
	var comments []*entities.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Where("recipe_id = ?", recipeID).
		Order("created_at desc").
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

// DeleteComment returns the removed comment's image reference, if any.
func (r *recipeRepository) DeleteComment(ctx context.Context, id string) (*string, error) {
	var image *string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var comment entities.Comment
		if err := tx.Where("id = ?", id).First(&comment).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrCommentNotFound
			}
			return err
		}
		if err := tx.Delete(&comment).Error; err != nil {
			return err
		}
		image = comment.ImageURL
		return nil
	})
	return image, err
}

func (r *recipeRepository) IsFavorite(ctx context.Context, userID, recipeID string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).
		Model(&entities.Favorite{}).
		Where("user_id = ? AND recipe_id = ?", userID, recipeID).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// ToggleFavorite flips the presence of the (recipe, user) row and reports the
// new state.
func (r *recipeRepository) ToggleFavorite(ctx context.Context, userID, recipeID uuid.UUID) (bool, error) {
	var favorite bool
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(&entities.Favorite{})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected > 0 {
			favorite = false
			return nil
		}

		row := &entities.Favorite{RecipeID: recipeID, UserID: userID, CreatedAt: time.Now()}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(row).Error; err != nil {
			return err
		}
		favorite = true
		return nil
	})
	return favorite, err
}
