package ingredient

import (
	"Cuisinade/domain"
	"Cuisinade/entities"
	"context"
	"strings"
)

type (
	IngredientService interface {
		GetIngredients(ctx context.Context) ([]domain.IngredientType, error)
		CreateIngredient(ctx context.Context, req domain.CreateIngredientRequest) (domain.IngredientType, bool, error)
		GetUnits() []string
	}

	ingredientService struct {
		ingredientRepository IngredientRepository
	}
)

func NewIngredientService(ingredientRepository IngredientRepository) IngredientService {
	return &ingredientService{
		ingredientRepository: ingredientRepository,
	}
}

func toIngredientType(t *entities.IngredientType) domain.IngredientType {
	return domain.IngredientType{
		ID:   t.ID.String(),
		Name: t.Name,
	}
}

func (s *ingredientService) GetIngredients(ctx context.Context) ([]domain.IngredientType, error) {
	types, err := s.ingredientRepository.ListTypes(ctx)
	if err != nil {
		return nil, err
	}

	res := make([]domain.IngredientType, 0, len(types))
	for _, t := range types {
		res = append(res, toIngredientType(t))
	}
	return res, nil
}

// CreateIngredient returns the existing type for a case-insensitive name match;
// the bool is true only when a new row was inserted.
func (s *ingredientService) CreateIngredient(ctx context.Context, req domain.CreateIngredientRequest) (domain.IngredientType, bool, error) {
	if req.Name == nil || strings.TrimSpace(*req.Name) == "" {
		return domain.IngredientType{}, false, domain.ErrIngredientNameEmpty
	}

	t, created, err := s.ingredientRepository.FindOrCreateType(ctx, *req.Name)
	if err != nil {
		return domain.IngredientType{}, false, err
	}
	return toIngredientType(t), created, nil
}

func (s *ingredientService) GetUnits() []string {
	units := make([]string, len(domain.Units))
	copy(units, domain.Units)
	return units
}
