package migration

import (
	"Cuisinade/entities"
	"fmt"

	"github.com/gofiber/fiber/v2/log"
	"gorm.io/gorm"
)

func Migrate(db *gorm.DB) error {
	models := []struct {
		name  string
		model any
	}{
		{"user", &entities.User{}},
		{"recipe", &entities.Recipe{}},
		{"ingredient type", &entities.IngredientType{}},
		{"ingredient", &entities.Ingredient{}},
		{"instruction", &entities.Instruction{}},
		{"comment", &entities.Comment{}},
		{"favorite", &entities.Favorite{}},
	}

	for _, m := range models {
		if err := db.AutoMigrate(m.model); err != nil {
			return fmt.Errorf("error migrating %s table: %w", m.name, err)
		}
	}

	log.Info("Database migration complete")
	return nil
}
