package entities

import "github.com/google/uuid"

type User struct {
	ID               uuid.UUID `gorm:"size:36;primaryKey" json:"id"`
	Username         string    `gorm:"size:191;uniqueIndex;not null" json:"username"`
	Password         string    `gorm:"not null" json:"-"`
	SecurityQuestion int       `json:"security_question"`
	SecurityAnswer   string    `gorm:"not null" json:"-"`
	IsAdmin          bool      `gorm:"default:false" json:"is_admin"`

	Recipes []*Recipe `gorm:"foreignKey:AuthorID"`
	Timestamp
}
