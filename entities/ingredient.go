package entities

import "github.com/google/uuid"

type IngredientType struct {
	ID   uuid.UUID `gorm:"size:36;primaryKey" json:"id"`
	Name string    `gorm:"not null" json:"name"`
	// NormalizedName is the lower-cased name; lookups and uniqueness go through it.
	NormalizedName string `gorm:"size:191;uniqueIndex;not null" json:"-"`
	ImageURL       string `json:"image_url,omitempty"`

	Timestamp
}

type Ingredient struct {
	ID               uuid.UUID `gorm:"size:36;primaryKey" json:"id"`
	RecipeID         uuid.UUID `gorm:"size:36;index;not null" json:"recipe_id"`
	IngredientTypeID uuid.UUID `gorm:"size:36;index;not null" json:"ingredient_type_id"`
	Position         int       `json:"position"`
	Quantity         string    `gorm:"not null" json:"quantity"`
	Unit             string    `gorm:"not null" json:"unit"`

	IngredientType *IngredientType `gorm:"foreignKey:IngredientTypeID"`
}

type Instruction struct {
	ID       uuid.UUID `gorm:"size:36;primaryKey" json:"id"`
	RecipeID uuid.UUID `gorm:"size:36;index;not null" json:"recipe_id"`
	Step     int       `gorm:"not null" json:"step"`
	Text     string    `gorm:"type:text;not null" json:"text"`
}
