package ingredient

import (
	"Cuisinade/domain"
	"Cuisinade/entities"
	"context"
	"errors"
	"strings"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type (
	IngredientRepository interface {
		WithTx(tx *gorm.DB) IngredientRepository
		ListTypes(ctx context.Context) ([]*entities.IngredientType, error)
		GetTypeByName(ctx context.Context, name string) (*entities.IngredientType, error)
		FindOrCreateType(ctx context.Context, name string) (*entities.IngredientType, bool, error)
	}

	ingredientRepository struct {
		db *gorm.DB
	}
)

func NewIngredientRepository(db *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: db}
}

// Normalize is the case-insensitive lookup key of an ingredient type name.
func Normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

func (r *ingredientRepository) WithTx(tx *gorm.DB) IngredientRepository {
	return &ingredientRepository{db: tx}
}

func (r *ingredientRepository) ListTypes(ctx context.Context) ([]*entities.IngredientType, error) {
	var types []*entities.IngredientType
	if err := r.db.WithContext(ctx).Order("name asc").Find(&types).Error; err != nil {
		return nil, err
	}
	return types, nil
}

func (r *ingredientRepository) GetTypeByName(ctx context.Context, name string) (*entities.IngredientType, error) {
	var t entities.IngredientType
	if err := r.db.WithContext(ctx).
		Where("normalized_name = ?", Normalize(name)).
		First(&t).Error; err != nil {
		return nil, err
	}
	return &t, nil
}

// FindOrCreateType reports whether the returned type was inserted by this call.
// A concurrent insert of the same name loses on the unique index and resolves
// to the winner's row.
func (r *ingredientRepository) FindOrCreateType(ctx context.Context, name string) (*entities.IngredientType, bool, error) {
	existing, err := r.GetTypeByName(ctx, name)
	if err == nil {
		return existing, false, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, err
	}

	t := &entities.IngredientType{
		Name:           strings.TrimSpace(name),
		NormalizedName: Normalize(name),
		ImageURL:       domain.DefaultIngredientImage,
	}
	res := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "normalized_name"}}, DoNothing: true}).
		Create(t)
	if res.Error != nil {
		return nil, false, res.Error
	}
	if res.RowsAffected == 0 {
		existing, err := r.GetTypeByName(ctx, name)
		return existing, false, err
	}
	return t, true, nil
}
