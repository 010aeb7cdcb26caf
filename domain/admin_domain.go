package domain

import (
	"errors"
	"time"
)

const AdminTopN = 5

var (
	MessageSuccessGetDashboard = "success get dashboard"
	MessageSuccessGetStats     = "success get statistics"
	MessageSuccessToggleAdmin  = "Droits administrateur mis à jour."
	MessageSuccessDeleteUser   = "Utilisateur supprimé avec succès."
	MessageFailedGetDashboard  = "failed to get dashboard"
	MessageFailedModeration    = "Erreur lors de l'opération de modération."

	MessageSelfDemotion = "Vous ne pouvez pas modifier vos propres droits administrateur."
	MessageSelfDeletion = "Vous ne pouvez pas supprimer votre propre compte."

	ErrSelfDemotion = errors.New("admin cannot change own admin flag")
	ErrSelfDeletion = errors.New("admin cannot delete own account")
)

type (
	DashboardCounts struct {
		Users           int64 `json:"users"`
		Admins          int64 `json:"admins"`
		Recipes         int64 `json:"recipes"`
		Comments        int64 `json:"comments"`
		Favorites       int64 `json:"favorites"`
		IngredientTypes int64 `json:"ingredient_types"`
	}

	RankedRecipe struct {
		ID       string  `json:"id"`
		Title    string  `json:"title"`
		Username string  `json:"username"`
		Score    float64 `json:"score"`
		Count    int64   `json:"count"`
	}

	RankedUser struct {
		ID          string `json:"id"`
		Username    string `json:"username"`
		RecipeCount int64  `json:"recipe_count"`
	}

	AdminUser struct {
		ID          string    `json:"id"`
		Username    string    `json:"username"`
		IsAdmin     bool      `json:"is_admin"`
		RecipeCount int64     `json:"recipe_count"`
		CreatedAt   time.Time `json:"created_at"`
	}

	DifficultyCount struct {
		Difficulty int   `json:"difficulty"`
		Count      int64 `json:"count"`
	}

	Stats struct {
		Counts              DashboardCounts   `json:"counts"`
		TopRatedRecipes     []RankedRecipe    `json:"top_rated_recipes"`
		MostFavorited       []RankedRecipe    `json:"most_favorited_recipes"`
		MostActiveAuthors   []RankedUser      `json:"most_active_authors"`
		RecipesByDifficulty []DifficultyCount `json:"recipes_by_difficulty"`
	}

	Dashboard struct {
		Stats
		Users          []AdminUser `json:"users"`
		RecentRecipes  []Recipe    `json:"recent_recipes"`
		RecentComments []Comment   `json:"recent_comments"`
	}
)
