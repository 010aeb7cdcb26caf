package admin

import (
	"Cuisinade/domain"
	"Cuisinade/entities"
	"Cuisinade/pkg/ingredient"
	"Cuisinade/pkg/recipe"
	"context"
	"errors"

	"gorm.io/gorm"
)

type (
	AdminRepository interface {
		GetCounts(ctx context.Context) (domain.DashboardCounts, error)
		GetTopRatedRecipes(ctx context.Context, limit int) ([]domain.RankedRecipe, error)
		GetMostFavoritedRecipes(ctx context.Context, limit int) ([]domain.RankedRecipe, error)
		GetMostActiveAuthors(ctx context.Context, limit int) ([]domain.RankedUser, error)
		GetRecipesByDifficulty(ctx context.Context) ([]domain.DifficultyCount, error)
		GetUsers(ctx context.Context) ([]domain.AdminUser, error)
		GetRecentRecipes(ctx context.Context, limit int) ([]*entities.Recipe, error)
		GetRecentComments(ctx context.Context, limit int) ([]*entities.Comment, error)
		GetUserByID(ctx context.Context, id string) (*entities.User, error)
		UpdateAdmin(ctx context.Context, id string, isAdmin bool) error
		DeleteUser(ctx context.Context, id string) ([]string, error)
	}

	adminRepository struct {
		db *gorm.DB
	}

	rankedRow struct {
		ID       string
		Title    string
		Username string
		Score    float64
		Total    int64
	}
)

func NewAdminRepository(db *gorm.DB) AdminRepository {
	return &adminRepository{db: db}
}

func (r *adminRepository) count(ctx context.Context, model any, where ...any) (int64, error) {
	var n int64
	q := r.db.WithContext(ctx).Model(model)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	err := q.Count(&n).Error
	return n, err
}

func (r *adminRepository) GetCounts(ctx context.Context) (domain.DashboardCounts, error) {
	var (
		counts domain.DashboardCounts
		err    error
	)
	if counts.Users, err = r.count(ctx, &entities.User{}); err != nil {
		return counts, err
	}
	if counts.Admins, err = r.count(ctx, &entities.User{}, "is_admin = ?", true); err != nil {
		return counts, err
	}
	if counts.Recipes, err = r.count(ctx, &entities.Recipe{}); err != nil {
		return counts, err
	}
	if counts.Comments, err = r.count(ctx, &entities.Comment{}); err != nil {
		return counts, err
	}
	if counts.Favorites, err = r.count(ctx, &entities.Favorite{}); err != nil {
		return counts, err
	}
	if counts.IngredientTypes, err = r.count(ctx, &entities.IngredientType{}); err != nil {
		return counts, err
	}
	return counts, nil
}

func toRanked(rows []rankedRow) []domain.RankedRecipe {
	res := make([]domain.RankedRecipe, 0, len(rows))
	for _, row := range rows {
		res = append(res, domain.RankedRecipe{
			ID:       row.ID,
			Title:    row.Title,
			Username: row.Username,
			Score:    row.Score,
			Count:    row.Total,
		})
	}
	return res
}

func (r *adminRepository) GetTopRatedRecipes(ctx context.Context, limit int) ([]domain.RankedRecipe, error) {
	var rows []rankedRow
	if err := r.db.WithContext(ctx).
		Table("recipes").
		Select("recipes.id AS id, recipes.title AS title, users.username AS username, " +
			"AVG(comments.grade * 1.0) AS score, COUNT(comments.id) AS total").
		Joins("JOIN users ON users.id = recipes.author_id").
		Joins("JOIN comments ON comments.recipe_id = recipes.id").
		Group("recipes.id, recipes.title, users.username").
		Order("score DESC, total DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	return toRanked(rows), nil
}

func (r *adminRepository) GetMostFavoritedRecipes(ctx context.Context, limit int) ([]domain.RankedRecipe, error) {
	var rows []rankedRow
	if err := r.db.WithContext(ctx).
		Table("recipes").
		Select("recipes.id AS id, recipes.title AS title, users.username AS username, " +
			"COUNT(favorites.user_id) AS total").
		Joins("JOIN users ON users.id = recipes.author_id").
		Joins("JOIN favorites ON favorites.recipe_id = recipes.id").
		Group("recipes.id, recipes.title, users.username").
		Order("total DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	for i := range rows {
		rows[i].Score = float64(rows[i].Total)
	}
	return toRanked(rows), nil
}

func (r *adminRepository) GetMostActiveAuthors(ctx context.Context, limit int) ([]domain.RankedUser, error) {
	var rows []struct {
		ID       string
		Username string
		Total    int64
	}
	if err := r.db.WithContext(ctx).
		Table("users").
		Select("users.id AS id, users.username AS username, COUNT(recipes.id) AS total").
		Joins("JOIN recipes ON recipes.author_id = users.id").
		Group("users.id, users.username").
		Order("total DESC").
		Limit(limit).
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	res := make([]domain.RankedUser, 0, len(rows))
	for _, row := range rows {
		res = append(res, domain.RankedUser{ID: row.ID, Username: row.Username, RecipeCount: row.Total})
	}
	return res, nil
}

func (r *adminRepository) GetRecipesByDifficulty(ctx context.Context) ([]domain.DifficultyCount, error) {
	var rows []struct {
		Difficulty int
		Total      int64
	}
	if err := r.db.WithContext(ctx).
		Table("recipes").
		Select("difficulty, COUNT(*) AS total").
		Group("difficulty").
		Order("difficulty ASC").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	res := make([]domain.DifficultyCount, 0, len(rows))
	for _, row := range rows {
		res = append(res, domain.DifficultyCount{Difficulty: row.Difficulty, Count: row.Total})
	}
	return res, nil
}

func (r *adminRepository) GetUsers(ctx context.Context) ([]domain.AdminUser, error) {
	var users []*entities.User
	if err := r.db.WithContext(ctx).Order("created_at desc").Find(&users).Error; err != nil {
		return nil, err
	}

	var rows []struct {
		AuthorID string
		Total    int64
	}
	if err := r.db.WithContext(ctx).
		Table("recipes").
		Select("author_id, COUNT(*) AS total").
		Group("author_id").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int64, len(rows))
	for _, row := range rows {
		counts[row.AuthorID] = row.Total
	}

	res := make([]domain.AdminUser, 0, len(users))
	for _, u := range users {
		res = append(res, domain.AdminUser{
			ID:          u.ID.String(),
			Username:    u.Username,
			IsAdmin:     u.IsAdmin,
			RecipeCount: counts[u.ID.String()],
			CreatedAt:   u.CreatedAt,
		})
	}
	return res, nil
}

func (r *adminRepository) GetRecentRecipes(ctx context.Context, limit int) ([]*entities.Recipe, error) {
	var recipes []*entities.Recipe
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Order("created_at desc").
		Limit(limit).
		Find(&recipes).Error; err != nil {
		return nil, err
	}
	return recipes, nil
}

func (r *adminRepository) GetRecentComments(ctx context.Context, limit int) ([]*entities.Comment, error) {
	var comments []*entities.Comment
	if err := r.db.WithContext(ctx).
		Preload("Author").
		Order("created_at desc").
		Limit(limit).
		Find(&comments).Error; err != nil {
		return nil, err
	}
	return comments, nil
}

func (r *adminRepository) GetUserByID(ctx context.Context, id string) (*entities.User, error) {
	var user entities.User
	if err := r.db.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.ErrUserNotFound
		}
		return nil, err
	}
	return &user, nil
}

func (r *adminRepository) UpdateAdmin(ctx context.Context, id string, isAdmin bool) error {
	return r.db.WithContext(ctx).Model(&entities.User{}).
		Where("id = ?", id).
		Update("is_admin", isAdmin).Error
}

// DeleteUser removes the user with their recipes (and everything hanging off
// them), their comments and their favorites in one transaction. The returned
// image references are deleted by the caller once the transaction committed.
func (r *adminRepository) DeleteUser(ctx context.Context, id string) ([]string, error) {
	var images []string
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var user entities.User
		if err := tx.Where("id = ?", id).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return domain.ErrUserNotFound
			}
			return err
		}

		var recipeIDs []string
		if err := tx.Model(&entities.Recipe{}).Where("author_id = ?", id).Pluck("id", &recipeIDs).Error; err != nil {
			return err
		}
		recipes := recipe.NewRecipeRepository(tx, ingredient.NewIngredientRepository(tx))
		for _, recipeID := range recipeIDs {
			refs, err := recipes.DeleteRecipe(ctx, recipeID)
			if err != nil {
				return err
			}
			images = append(images, refs...)
		}

		var commentImages []string
		if err := tx.Model(&entities.Comment{}).
			Where("author_id = ? AND image_url IS NOT NULL", id).
			Pluck("image_url", &commentImages).Error; err != nil {
			return err
		}
		if err := tx.Where("author_id = ?", id).Delete(&entities.Comment{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", id).Delete(&entities.Favorite{}).Error; err != nil {
			return err
		}
		if err := tx.Delete(&user).Error; err != nil {
			return err
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
