package entities

import "github.com/google/uuid"

type Comment struct {
	ID       uuid.UUID `gorm:"size:36;primaryKey" json:"id"`
	RecipeID uuid.UUID `gorm:"size:36;index;not null" json:"recipe_id"`
	AuthorID uuid.UUID `gorm:"size:36;index;not null" json:"author_id"`
	Text     string    `gorm:"type:text;not null" json:"comment"`
	Grade    int       `json:"grade"`
	ImageURL *string   `json:"image_url,omitempty"`

	Author *User   `gorm:"foreignKey:AuthorID"`
	Recipe *Recipe `gorm:"foreignKey:RecipeID"`
	Timestamp
}
