package domain

import "errors"

const DefaultIngredientImage = "/static/images/default-ingredient.jpg"

var Units = []string{
	"g", "kg", "mg",
	"ml", "L", "cl",
	"cuillères à soupe", "cuillères à café",
	"tasse(s)", "verre(s)",
	"pièce(s)", "tranche(s)",
	"pincée(s)", "poignée(s)",
	"bouquet(s)", "botte(s)",
}

var (
	MessageFailedGetIngredients   = "Failed to fetch ingredients"
	MessageFailedCreateIngredient = "Failed to create ingredient"
	MessageIngredientNameRequired = "Name is required"
	MessageIngredientNameEmpty    = "Name cannot be empty"

	ErrIngredientNameEmpty = errors.New("ingredient name cannot be empty")
)

type (
	CreateIngredientRequest struct {
		Name *string `json:"name" validate:"required"`
	}

	IngredientType struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}
)
