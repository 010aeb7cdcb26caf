package recipe

import (
	"Cuisinade/domain"
	"regexp"
	"sort"
	"strconv"
	"strings"
)

var (
	ingredientKey  = regexp.MustCompile(`^ingredients\[(\d+)\]\[(\w+)\]$`)
	instructionKey = regexp.MustCompile(`^instructions\[(\d+)\]\[(\w+)\]$`)
)

func first(values map[string][]string, key string) string {
	if v := values[key]; len(v) > 0 {
		return v[0]
	}
	return ""
}

func atoi(raw string, def int) int {
	v, err := strconv.Atoi(strings.TrimSpace(raw))
	if err != nil {
		return def
	}
	return v
}

func truthy(raw string) bool {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "true", "on", "1", "yes":
		return true
	}
	return false
}

// indexed groups the fields of "<prefix>[i][field]" keys by i. Keys whose
// index does not fit an int are dropped.
func indexed(values map[string][]string, pattern *regexp.Regexp) (map[int]map[string]string, []int) {
	groups := map[int]map[string]string{}
	for key, v := range values {
		m := pattern.FindStringSubmatch(key)
		if m == nil || len(v) == 0 {
			continue
		}
		idx, err := strconv.Atoi(m[1])
		if err != nil {
			continue
		}
		if groups[idx] == nil {
			groups[idx] = map[string]string{}
		}
		groups[idx][m[2]] = v[0]
	}

	indexes := make([]int, 0, len(groups))
	for idx := range groups {
		indexes = append(indexes, idx)
	}
	sort.Ints(indexes)
	if len(indexes) > domain.MaxFormLines {
		indexes = indexes[:domain.MaxFormLines]
	}
	return groups, indexes
}

// ParseRecipeForm reads a urlencoded or multipart recipe submission. Ingredient
// and instruction lines are ordered by their index; gaps in the numbering are
// skipped over, not treated as the end of the list.
func ParseRecipeForm(values map[string][]string) domain.RecipeForm {
	form := domain.RecipeForm{
		Title:       first(values, "title"),
		Description: first(values, "description"),
		Notes:       first(values, "notes"),
		Rating:      atoi(first(values, "rating"), 0),
		PrepTime:    atoi(first(values, "prepTime"), 0),
		CookTime:    atoi(first(values, "cookTime"), 0),
		Servings:    atoi(first(values, "servings"), 1),
		Difficulty:  atoi(first(values, "difficulty"), 1),
		Category:    first(values, "category"),
		RemoveImage: truthy(first(values, "remove_image")),
	}

	groups, indexes := indexed(values, ingredientKey)
	for _, idx := range indexes {
		g := groups[idx]
		id := g["ingredientId"]
		if id == "" {
			id = g["ingredient_id"]
		}
		form.Ingredients = append(form.Ingredients, domain.IngredientLine{
			Name:         g["name"],
			IngredientID: id,
			Quantity:     g["quantity"],
			Unit:         g["unit"],
		})
	}

	groups, indexes = indexed(values, instructionKey)
	for n, idx := range indexes {
		g := groups[idx]
		if _, ok := g["text"]; !ok {
			continue
		}
		form.Instructions = append(form.Instructions, domain.InstructionLine{
			Step: atoi(g["step"], n+1),
			Text: g["text"],
		})
	}

	return form
}

// NormalizeRecipeForm bounds and defaults a form decoded from a JSON body so it
// matches what ParseRecipeForm produces.
func NormalizeRecipeForm(form *domain.RecipeForm) {
	if len(form.Ingredients) > domain.MaxFormLines {
		form.Ingredients = form.Ingredients[:domain.MaxFormLines]
	}
	if len(form.Instructions) > domain.MaxFormLines {
		form.Instructions = form.Instructions[:domain.MaxFormLines]
	}
	for i := range form.Instructions {
		if form.Instructions[i].Step <= 0 {
			form.Instructions[i].Step = i + 1
		}
	}
	if form.Servings <= 0 {
		form.Servings = 1
	}
	if form.Difficulty <= 0 {
		form.Difficulty = 1
	}
}

func validateRecipeForm(form domain.RecipeForm) error {
	if strings.TrimSpace(form.Title) == "" {
		return domain.ErrTitleRequired
	}
	if strings.TrimSpace(form.Description) == "" {
		return domain.ErrDescriptionRequired
	}
	return nil
}
