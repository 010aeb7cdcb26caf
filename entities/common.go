package entities

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Timestamp struct {
	CreatedAt time.Time `gorm:"index" json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// newID fills an empty primary key before insert so the same models work on
// databases without uuid_generate_v4().
func newID(id *uuid.UUID) {
	if *id == uuid.Nil {
		*id = uuid.New()
	}
}

func (u *User) BeforeCreate(_ *gorm.DB) error {
	newID(&u.ID)
	return nil
}

func (r *Recipe) BeforeCreate(_ *gorm.DB) error {
	newID(&r.ID)
	return nil
}

func (i *IngredientType) BeforeCreate(_ *gorm.DB) error {
	newID(&i.ID)
	return nil
}

func (i *Ingredient) BeforeCreate(_ *gorm.DB) error {
	newID(&i.ID)
	return nil
}

func (i *Instruction) BeforeCreate(_ *gorm.DB) error {
	newID(&i.ID)
	return nil
}

func (c *Comment) BeforeCreate(_ *gorm.DB) error {
	newID(&c.ID)
	return nil
}
