package domain

import (
	"errors"
	"time"
)

const (
	NbRecipesFrontpage = 5
	MaxFormLines       = 100
)

var (
	MessageSuccessGetRecipes      = "success get recipes"
	MessageSuccessGetRecipeDetail = "success get recipe detail"
	MessageSuccessCreateRecipe    = "Recette ajoutée avec succès!"
	MessageSuccessUpdateRecipe    = "Recette mise à jour !"
	MessageSuccessDeleteRecipe    = "Recette supprimée avec succès!"
	MessageSuccessToggleFavorite  = "Favoris mis à jour"
	MessageSuccessAddComment      = "Commentaire ajouté avec succès!"
	MessageSuccessDeleteComment   = "Commentaire supprimé !"
	MessageSuccessSearch          = "success search recipes"

	MessageTitleRequired       = "Le titre est requis."
	MessageDescriptionRequired = "La description est requise."
	MessageInvalidImageFormat  = "Format d'image non valide. Utilisez PNG, JPG ou GIF."
	MessageFailedSaveImage     = "L'image n'a pas pu être enregistrée."
	MessageCommentRequired     = "Le commentaire est requis."
	MessageGradeRequired       = "La note est requise"
	MessageFailedCreateRecipe  = "Erreur lors de l'ajout de la recette."
	MessageFailedUpdateRecipe  = "Erreur lors de la modification de la recette."
	MessageFailedDeleteRecipe  = "Erreur lors de la suppression de la recette."
	MessageFailedGetRecipes    = "failed to get recipes"
	MessageFailedSearch        = "Erreur lors de la recherche"
	MessageFailedAddComment    = "Erreur lors de l'ajout du commentaire."
	MessageFailedFavorite      = "failed to update favorites"

	ErrRecipeNotFound      = errors.New("recipe not found")
	ErrRecipeForbidden     = errors.New("unauthorized access to recipe")
	ErrCommentNotFound     = errors.New("comment not found")
	ErrCommentForbidden    = errors.New("unauthorized access to comment")
	ErrTitleRequired       = &ValidationError{Message: MessageTitleRequired}
	ErrDescriptionRequired = &ValidationError{Message: MessageDescriptionRequired}
	ErrCommentRequired     = &ValidationError{Message: MessageCommentRequired}
	ErrGradeRequired       = &ValidationError{Message: MessageGradeRequired}
)

type (
	// IngredientLine is one submitted ingredient; it is persisted only when
	// name, quantity and unit are all present.
	IngredientLine struct {
		Name         string `json:"name"`
		IngredientID string `json:"ingredient_id,omitempty"`
		Quantity     string `json:"quantity"`
		Unit         string `json:"unit"`
	}

	InstructionLine struct {
		Step int    `json:"step"`
		Text string `json:"text"`
	}

	// RecipeForm is the parsed create/edit submission. It is echoed back
	// unchanged when the form has to be redisplayed.
	RecipeForm struct {
		Title        string            `json:"title"`
		Description  string            `json:"description"`
		Notes        string            `json:"notes"`
		Rating       int               `json:"rating"`
		PrepTime     int               `json:"prepTime"`
		CookTime     int               `json:"cookTime"`
		Servings     int               `json:"servings"`
		Difficulty   int               `json:"difficulty"`
		Category     string            `json:"category"`
		RemoveImage  bool              `json:"remove_image"`
		Ingredients  []IngredientLine  `json:"ingredients"`
		Instructions []InstructionLine `json:"instructions"`
	}

	RecipeFormResult struct {
		RecipeID string `json:"recipe_id"`
		Warning  string `json:"warning,omitempty"`
	}

	SearchRequest struct {
		Query       string
		Difficulty  *int
		MaxPrepTime *int
		MaxCookTime *int
		MinServings *int
		MinRating   *int
		Category    string
	}

	Recipe struct {
		ID          string    `json:"id"`
		AuthorID    string    `json:"author_id"`
		Username    string    `json:"username"`
		Title       string    `json:"title"`
		Description string    `json:"description"`
		Notes       string    `json:"notes"`
		AuthorGrade int       `json:"author_grade"`
		PrepTime    int       `json:"prep_time"`
		CookTime    int       `json:"cook_time"`
		Servings    int       `json:"servings"`
		Difficulty  int       `json:"difficulty"`
		Category    string    `json:"category,omitempty"`
		ImageURL    string    `json:"image_url,omitempty"`
		CreatedAt   time.Time `json:"created_at"`
	}

	Ingredient struct {
		IngredientID string `json:"ingredient_id"`
		Name         string `json:"name"`
		Quantity     string `json:"quantity"`
		Unit         string `json:"unit"`
	}

	Instruction struct {
		Step int    `json:"step"`
		Text string `json:"text"`
	}

	Comment struct {
		ID        string    `json:"id"`
		AuthorID  string    `json:"author_id"`
		Username  string    `json:"username"`
		Comment   string    `json:"comment"`
		Grade     int       `json:"grade"`
		ImageURL  string    `json:"image_url,omitempty"`
		CreatedAt time.Time `json:"created_at"`
	}

	RecipeDetail struct {
		Recipe
		Ingredients  []Ingredient  `json:"ingredients"`
		Instructions []Instruction `json:"instructions"`
		Comments     []Comment     `json:"comments"`
		IsFavorite   bool          `json:"is_favourite"`
	}

	CommentRequest struct {
		Comment string `json:"comment" form:"comment"`
		Grade   string `json:"grade" form:"grade"`
	}

	CommentResult struct {
		Comment
		Warning string `json:"warning,omitempty"`
	}

	ToggleFavoriteResponse struct {
		RecipeID   string `json:"recipe_id"`
		IsFavorite bool   `json:"is_favourite"`
	}

	SearchResponse struct {
		Recipes      []Recipe `json:"recipes"`
		TotalResults int      `json:"total_results"`
	}
)
