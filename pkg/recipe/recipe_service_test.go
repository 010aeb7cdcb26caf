package recipe

import (
	"bytes"
	"context"
	"errors"
	"mime/multipart"
	"os"
	"path/filepath"
	"testing"

	"Cuisinade/domain"
	"Cuisinade/entities"
	"Cuisinade/internal/testdb"
	"Cuisinade/internal/utils/storage"
	"Cuisinade/pkg/ingredient"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fixture struct {
	db      *gorm.DB
	root    string
	repo    RecipeRepository
	service RecipeService
}

func newFixture(t *testing.T) *fixture {
	db := testdb.Open(t)
	root := t.TempDir()
	repo := NewRecipeRepository(db, ingredient.NewIngredientRepository(db))
	return &fixture{
		db:      db,
		root:    root,
		repo:    repo,
		service: NewRecipeService(repo, storage.NewLocalStore(root, storage.Options{})),
	}
}

func (f *fixture) user(t *testing.T, username string) *domain.AuthContext {
	u := &entities.User{Username: username, Password: "x", SecurityAnswer: "x"}
	require.NoError(t, f.db.Create(u).Error)
	return &domain.AuthContext{UserID: u.ID, Username: username}
}

func (f *fixture) count(t *testing.T, model any, where ...any) int64 {
	var n int64
	q := f.db.Model(model)
	if len(where) > 0 {
		q = q.Where(where[0], where[1:]...)
	}
	require.NoError(t, q.Count(&n).Error)
	return n
}

func (f *fixture) exists(ref string) bool {
	_, err := os.Stat(filepath.Join(f.root, filepath.FromSlash(ref)))
	return err == nil
}

func fileHeader(t *testing.T, filename string, data []byte) *multipart.FileHeader {
	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	part, err := w.CreateFormFile("image", filename)
	require.NoError(t, err)
	_, err = part.Write(data)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	form, err := multipart.NewReader(&buf, w.Boundary()).ReadForm(1 << 20)
	require.NoError(t, err)
	t.Cleanup(func() { _ = form.RemoveAll() })
	return form.File["image"][0]
}

func soup() domain.RecipeForm {
	return domain.RecipeForm{
		Title:       "Soup",
		Description: "Hot soup",
		Servings:    2,
		Difficulty:  1,
		Ingredients: []domain.IngredientLine{{Name: "Salt", Quantity: "1", Unit: "g"}},
	}
}

func TestCreateRecipeScenario(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")

	res, err := f.service.CreateRecipe(context.Background(), alice, soup(), nil)
	require.NoError(t, err)
	assert.Empty(t, res.Warning)

	assert.EqualValues(t, 1, f.count(t, &entities.Recipe{}))
	assert.EqualValues(t, 1, f.count(t, &entities.IngredientType{}, "name = ?", "Salt"))
	assert.EqualValues(t, 1, f.count(t, &entities.Ingredient{}, "recipe_id = ?", res.RecipeID))
	assert.EqualValues(t, 0, f.count(t, &entities.Instruction{}))
}

func TestCreateRecipeSkipsIncompleteIngredients(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")

	form := soup()
	form.Ingredients = []domain.IngredientLine{
		{Name: "Salt", Quantity: "1", Unit: "g"},
		{Name: "Pepper", Quantity: "", Unit: "g"},
		{Name: "", Quantity: "2", Unit: "kg"},
		{Name: "Water", Quantity: "1", Unit: "L"},
		{Name: "Oil", Quantity: "1"},
	}
	form.Instructions = []domain.InstructionLine{{Step: 1, Text: "Boil"}, {Step: 2, Text: ""}}

	res, err := f.service.CreateRecipe(context.Background(), alice, form, nil)
	require.NoError(t, err)

	assert.EqualValues(t, 2, f.count(t, &entities.Ingredient{}, "recipe_id = ?", res.RecipeID))
	assert.EqualValues(t, 2, f.count(t, &entities.IngredientType{}))
	assert.EqualValues(t, 1, f.count(t, &entities.Instruction{}, "recipe_id = ?", res.RecipeID))

	detail, err := f.service.GetRecipeDetail(context.Background(), nil, res.RecipeID)
	require.NoError(t, err)
	require.Len(t, detail.Ingredients, 2)
	assert.Equal(t, "Salt", detail.Ingredients[0].Name)
	assert.Equal(t, "Water", detail.Ingredients[1].Name)
	assert.Equal(t, "alice", detail.Username)
	assert.False(t, detail.IsFavorite)
}

func TestIngredientTypeLookupIsCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	ctx := context.Background()

	first := soup()
	first.Ingredients = []domain.IngredientLine{{Name: "Tomato", Quantity: "1", Unit: "pièce(s)"}}
	a, err := f.service.CreateRecipe(ctx, alice, first, nil)
	require.NoError(t, err)

	second := soup()
	second.Ingredients = []domain.IngredientLine{{Name: "tomato", Quantity: "2", Unit: "pièce(s)"}}
	b, err := f.service.CreateRecipe(ctx, alice, second, nil)
	require.NoError(t, err)

	assert.EqualValues(t, 1, f.count(t, &entities.IngredientType{}))

	da, err := f.service.GetRecipeDetail(ctx, nil, a.RecipeID)
	require.NoError(t, err)
	db, err := f.service.GetRecipeDetail(ctx, nil, b.RecipeID)
	require.NoError(t, err)
	assert.Equal(t, da.Ingredients[0].IngredientID, db.Ingredients[0].IngredientID)
	assert.Equal(t, "Tomato", db.Ingredients[0].Name)
}

func TestCreateRecipeValidationWritesNothing(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")

	form := soup()
	form.Title = ""
	_, err := f.service.CreateRecipe(context.Background(), alice, form, fileHeader(t, "a.png", []byte("img")))

	var verr *domain.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, domain.MessageTitleRequired, verr.Message)
	assert.EqualValues(t, 0, f.count(t, &entities.Recipe{}))
	assert.EqualValues(t, 0, f.count(t, &entities.IngredientType{}))

	entries, _ := os.ReadDir(filepath.Join(f.root, storage.CategoryRecipes))
	assert.Empty(t, entries)
}

func TestCreateRecipeRequiresLogin(t *testing.T) {
	f := newFixture(t)
	_, err := f.service.CreateRecipe(context.Background(), nil, soup(), nil)
	assert.ErrorIs(t, err, domain.ErrLoginRequired)
}

func TestCreateRecipeInvalidImageIsWarning(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")

	res, err := f.service.CreateRecipe(context.Background(), alice, soup(), fileHeader(t, "notes.txt", []byte("hello")))
	require.NoError(t, err)
	assert.Equal(t, domain.MessageInvalidImageFormat, res.Warning)

	detail, err := f.service.GetRecipeDetail(context.Background(), alice, res.RecipeID)
	require.NoError(t, err)
	assert.Empty(t, detail.ImageURL)
}

type failingRepository struct {
	RecipeRepository
}

var errBoom = errors.New("boom")

func (failingRepository) CreateRecipe(context.Context, *entities.Recipe, []domain.IngredientLine, []domain.InstructionLine) error {
	return errBoom
}

func TestCreateRecipeFailureDeletesNewImage(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	svc := NewRecipeService(failingRepository{f.repo}, storage.NewLocalStore(f.root, storage.Options{}))

	_, err := svc.CreateRecipe(context.Background(), alice, soup(), fileHeader(t, "a.png", []byte("img")))
	assert.ErrorIs(t, err, errBoom)

	entries, _ := os.ReadDir(filepath.Join(f.root, storage.CategoryRecipes))
	assert.Empty(t, entries)
}

func TestUpdateRecipeReplacesLines(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	ctx := context.Background()

	form := soup()
	form.Ingredients = append(form.Ingredients, domain.IngredientLine{Name: "Water", Quantity: "1", Unit: "L"})
	form.Instructions = []domain.InstructionLine{{Step: 1, Text: "Boil"}, {Step: 2, Text: "Serve"}}
	res, err := f.service.CreateRecipe(ctx, alice, form, nil)
	require.NoError(t, err)

	edit := domain.RecipeForm{
		Title:        "Soup v2",
		Description:  "Hotter",
		Servings:     4,
		Difficulty:   2,
		Ingredients:  []domain.IngredientLine{{Name: "Pepper", Quantity: "2", Unit: "pincée(s)"}},
		Instructions: []domain.InstructionLine{{Step: 1, Text: "Heat"}},
	}
	_, err = f.service.UpdateRecipe(ctx, alice, res.RecipeID, edit, nil)
	require.NoError(t, err)

	detail, err := f.service.GetRecipeDetail(ctx, alice, res.RecipeID)
	require.NoError(t, err)
	assert.Equal(t, "Soup v2", detail.Title)
	assert.Equal(t, 4, detail.Servings)
	require.Len(t, detail.Ingredients, 1)
	assert.Equal(t, "Pepper", detail.Ingredients[0].Name)
	assert.Equal(t, []domain.Instruction{{Step: 1, Text: "Heat"}}, detail.Instructions)
	assert.EqualValues(t, 1, f.count(t, &entities.Ingredient{}))
	assert.EqualValues(t, 1, f.count(t, &entities.Instruction{}))
}

func TestUpdateRecipeByNonOwnerIsForbidden(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	ctx := context.Background()

	res, err := f.service.CreateRecipe(ctx, alice, soup(), nil)
	require.NoError(t, err)

	_, err = f.service.GetRecipeForm(ctx, bob, res.RecipeID)
	assert.ErrorIs(t, err, domain.ErrRecipeForbidden)

	_, err = f.service.UpdateRecipe(ctx, bob, res.RecipeID, soup(), nil)
	assert.ErrorIs(t, err, domain.ErrRecipeForbidden)

	assert.ErrorIs(t, f.service.DeleteRecipe(ctx, bob, res.RecipeID), domain.ErrRecipeForbidden)

	_, err = f.service.UpdateRecipe(ctx, alice, uuid.NewString(), soup(), nil)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestUpdateRecipeImageLifecycle(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	ctx := context.Background()

	res, err := f.service.CreateRecipe(ctx, alice, soup(), fileHeader(t, "a.png", []byte("one")))
	require.NoError(t, err)
	before, err := f.repo.GetRecipe(ctx, res.RecipeID, nil)
	require.NoError(t, err)
	require.NotNil(t, before.ImageURL)
	first := *before.ImageURL
	assert.True(t, f.exists(first))

	_, err = f.service.UpdateRecipe(ctx, alice, res.RecipeID, soup(), fileHeader(t, "b.jpg", []byte("two")))
	require.NoError(t, err)
	replaced, err := f.repo.GetRecipe(ctx, res.RecipeID, nil)
	require.NoError(t, err)
	require.NotNil(t, replaced.ImageURL)
	assert.NotEqual(t, first, *replaced.ImageURL)
	assert.False(t, f.exists(first))
	assert.True(t, f.exists(*replaced.ImageURL))

	remove := soup()
	remove.RemoveImage = true
	_, err = f.service.UpdateRecipe(ctx, alice, res.RecipeID, remove, nil)
	require.NoError(t, err)
	removed, err := f.repo.GetRecipe(ctx, res.RecipeID, nil)
	require.NoError(t, err)
	assert.Nil(t, removed.ImageURL)
	assert.False(t, f.exists(*replaced.ImageURL))
}

func TestDeleteRecipeCascades(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	ctx := context.Background()

	form := soup()
	form.Instructions = []domain.InstructionLine{{Step: 1, Text: "Boil"}}
	res, err := f.service.CreateRecipe(ctx, alice, form, fileHeader(t, "a.png", []byte("img")))
	require.NoError(t, err)

	comment, err := f.service.AddComment(ctx, bob, res.RecipeID,
		domain.CommentRequest{Comment: "Yum", Grade: "5"}, fileHeader(t, "c.gif", []byte("gif")))
	require.NoError(t, err)
	_, err = f.service.ToggleFavorite(ctx, bob, res.RecipeID)
	require.NoError(t, err)

	recipe, err := f.repo.GetRecipe(ctx, res.RecipeID, nil)
	require.NoError(t, err)
	recipeImage := *recipe.ImageURL
	stored, err := f.repo.GetComment(ctx, comment.ID)
	require.NoError(t, err)
	commentImage := *stored.ImageURL

	require.NoError(t, f.service.DeleteRecipe(ctx, alice, res.RecipeID))

	for _, model := range []any{&entities.Ingredient{}, &entities.Instruction{}, &entities.Comment{}, &entities.Favorite{}} {
		assert.EqualValues(t, 0, f.count(t, model, "recipe_id = ?", res.RecipeID))
	}
	assert.False(t, f.exists(recipeImage))
	assert.False(t, f.exists(commentImage))

	_, err = f.service.GetRecipeDetail(ctx, nil, res.RecipeID)
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
	assert.ErrorIs(t, f.service.DeleteRecipe(ctx, alice, res.RecipeID), domain.ErrRecipeNotFound)
}

func TestToggleFavoriteTwiceRestoresState(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	ctx := context.Background()

	res, err := f.service.CreateRecipe(ctx, alice, soup(), nil)
	require.NoError(t, err)

	on, err := f.service.ToggleFavorite(ctx, alice, res.RecipeID)
	require.NoError(t, err)
	assert.True(t, on.IsFavorite)
	assert.EqualValues(t, 1, f.count(t, &entities.Favorite{}))

	favorites, err := f.service.GetFavorites(ctx, alice)
	require.NoError(t, err)
	require.Len(t, favorites, 1)
	assert.Equal(t, res.RecipeID, favorites[0].ID)

	off, err := f.service.ToggleFavorite(ctx, alice, res.RecipeID)
	require.NoError(t, err)
	assert.False(t, off.IsFavorite)
	assert.EqualValues(t, 0, f.count(t, &entities.Favorite{}))

	_, err = f.service.ToggleFavorite(ctx, alice, uuid.NewString())
	assert.ErrorIs(t, err, domain.ErrRecipeNotFound)
}

func TestCommentsNewestFirstAndOwnerDelete(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	bob := f.user(t, "bob")
	ctx := context.Background()

	res, err := f.service.CreateRecipe(ctx, alice, soup(), nil)
	require.NoError(t, err)

	_, err = f.service.AddComment(ctx, bob, res.RecipeID, domain.CommentRequest{Grade: "3"}, nil)
	assert.ErrorIs(t, err, domain.ErrCommentRequired)
	_, err = f.service.AddComment(ctx, bob, res.RecipeID, domain.CommentRequest{Comment: "ok"}, nil)
	assert.ErrorIs(t, err, domain.ErrGradeRequired)

	older, err := f.service.AddComment(ctx, bob, res.RecipeID, domain.CommentRequest{Comment: "first", Grade: "3"}, nil)
	require.NoError(t, err)
	newer, err := f.service.AddComment(ctx, alice, res.RecipeID, domain.CommentRequest{Comment: "second", Grade: "4"}, nil)
	require.NoError(t, err)

	detail, err := f.service.GetRecipeDetail(ctx, nil, res.RecipeID)
	require.NoError(t, err)
	require.Len(t, detail.Comments, 2)
	assert.Equal(t, newer.ID, detail.Comments[0].ID)
	assert.Equal(t, older.ID, detail.Comments[1].ID)
	assert.Equal(t, "bob", detail.Comments[1].Username)

	assert.ErrorIs(t, f.service.DeleteComment(ctx, alice, res.RecipeID, older.ID), domain.ErrCommentForbidden)
	assert.ErrorIs(t, f.service.DeleteComment(ctx, bob, uuid.NewString(), older.ID), domain.ErrCommentNotFound)
	require.NoError(t, f.service.DeleteComment(ctx, bob, res.RecipeID, older.ID))
	assert.ErrorIs(t, f.service.DeleteComment(ctx, bob, res.RecipeID, older.ID), domain.ErrCommentNotFound)
}

func TestSearchRecipes(t *testing.T) {
	f := newFixture(t)
	alice := f.user(t, "alice")
	ctx := context.Background()

	quick := soup()
	quick.Title = "Quick Tomato Salad"
	quick.PrepTime, quick.CookTime, quick.Difficulty, quick.Rating, quick.Servings = 5, 0, 1, 4, 2
	_, err := f.service.CreateRecipe(ctx, alice, quick, nil)
	require.NoError(t, err)

	slow := soup()
	slow.Title = "Slow Stew"
	slow.Description = "Tomato based"
	slow.PrepTime, slow.CookTime, slow.Difficulty, slow.Rating, slow.Servings = 30, 180, 3, 5, 6
	_, err = f.service.CreateRecipe(ctx, alice, slow, nil)
	require.NoError(t, err)

	n := func(v int) *int { return &v }
	titles := func(req domain.SearchRequest) []string {
		res, err := f.service.SearchRecipes(ctx, req)
		require.NoError(t, err)
		assert.Equal(t, len(res.Recipes), res.TotalResults)
		out := []string{}
		for _, r := range res.Recipes {
			out = append(out, r.Title)
		}
		return out
	}

	assert.Equal(t, []string{"Slow Stew", "Quick Tomato Salad"}, titles(domain.SearchRequest{}))
	assert.ElementsMatch(t, []string{"Slow Stew", "Quick Tomato Salad"}, titles(domain.SearchRequest{Query: "tomato"}))
	assert.Equal(t, []string{"Quick Tomato Salad"}, titles(domain.SearchRequest{Query: "tomato", MaxPrepTime: n(10)}))
	assert.Equal(t, []string{"Slow Stew"}, titles(domain.SearchRequest{Difficulty: n(3)}))
	assert.Equal(t, []string{"Slow Stew"}, titles(domain.SearchRequest{MinServings: n(4), MinRating: n(5)}))
	assert.Equal(t, []string{"Quick Tomato Salad"}, titles(domain.SearchRequest{MaxCookTime: n(60)}))
	assert.Empty(t, titles(domain.SearchRequest{Query: "pizza"}))

	mine, err := f.service.GetMyRecipes(ctx, alice)
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	front, err := f.service.GetFrontpage(ctx)
	require.NoError(t, err)
	assert.Len(t, front, 2)
}
