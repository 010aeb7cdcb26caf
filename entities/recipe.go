package entities

import (
	"time"

	"github.com/google/uuid"
)

type Recipe struct {
	ID          uuid.UUID `gorm:"size:36;primaryKey" json:"id"`
	AuthorID    uuid.UUID `gorm:"size:36;index;not null" json:"author_id"`
	Title       string    `gorm:"not null" json:"title"`
	Description string    `gorm:"type:text;not null" json:"description"`
	Notes       string    `gorm:"type:text" json:"notes"`
	AuthorGrade int       `json:"author_grade"`
	PrepTime    int       `json:"prep_time"`
	CookTime    int       `json:"cook_time"`
	Servings    int       `json:"servings"`
	Difficulty  int       `json:"difficulty"`
	Category    string    `json:"category"`
	ImageURL    *string   `json:"image_url,omitempty"`

	Author       *User          `gorm:"foreignKey:AuthorID"`
	Ingredients  []*Ingredient  `gorm:"foreignKey:RecipeID"`
	Instructions []*Instruction `gorm:"foreignKey:RecipeID"`
	Timestamp
}

// Favorite is the presence of a (recipe, user) pair; the composite key forbids duplicates.
type Favorite struct {
	RecipeID  uuid.UUID `gorm:"size:36;primaryKey" json:"recipe_id"`
	UserID    uuid.UUID `gorm:"size:36;primaryKey" json:"user_id"`
	CreatedAt time.Time `json:"created_at"`

	User   *User   `gorm:"foreignKey:UserID"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID"`
}
