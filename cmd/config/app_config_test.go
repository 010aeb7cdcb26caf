package config

import (
	"bytes"
	"encoding/json"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"

	"Cuisinade/domain"
	"Cuisinade/entities"
	"Cuisinade/internal/testdb"
	"Cuisinade/internal/utils/storage"
	"Cuisinade/pkg/jwt"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type envelope struct {
	Status   bool            `json:"status"`
	Message  string          `json:"message"`
	Data     json.RawMessage `json:"data"`
	Form     json.RawMessage `json:"form"`
	Error    string          `json:"error"`
	Redirect string          `json:"redirect"`
	Warning  string          `json:"warning"`
}

type testApp struct {
	app *fiber.App
	db  *gorm.DB
}

func newTestApp(t *testing.T) *testApp {
	dir := t.TempDir()
	t.Setenv("JWT_SECRET", "test-secret")
	t.Setenv("LOG_FILE", filepath.Join(dir, "logs", "access.log"))
	t.Setenv("RATE_LIMIT_MAX", "0")
	t.Setenv("STORAGE_DRIVER", "local")
	t.Setenv("UPLOAD_DIR", filepath.Join(dir, "uploads"))

	db := testdb.Open(t)
	app, err := NewApp(db, storage.NewLocalStore(filepath.Join(dir, "uploads"), storage.Options{}))
	require.NoError(t, err)
	return &testApp{app: app, db: db}
}

func (a *testApp) do(t *testing.T, req *http.Request, session string) (*http.Response, envelope) {
	t.Helper()
	if session != "" {
		req.AddCookie(&http.Cookie{Name: domain.SessionCookie, Value: session})
	}
	resp, err := a.app.Test(req, -1)
	require.NoError(t, err)
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	_ = resp.Body.Close()

	var env envelope
	if len(body) > 0 && body[0] == '{' {
		require.NoError(t, json.Unmarshal(body, &env), string(body))
	}
	return resp, env
}

func (a *testApp) postForm(t *testing.T, path string, values url.Values, session string) (*http.Response, envelope) {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
	return a.do(t, req, session)
}

func (a *testApp) get(t *testing.T, path string, session string) (*http.Response, envelope) {
	return a.do(t, httptest.NewRequest(http.MethodGet, path, nil), session)
}

func (a *testApp) signup(t *testing.T, username string) string {
	t.Helper()
	resp, _ := a.postForm(t, "/auth/register", url.Values{
		"username":          {username},
		"password":          {"secret"},
		"security_question": {"1"},
		"security_answer":   {"Lyon"},
	}, "")
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	resp, _ = a.postForm(t, "/auth/login", url.Values{
		"username": {username},
		"password": {"secret"},
	}, "")
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	for _, c := range resp.Cookies() {
		if c.Name == domain.SessionCookie {
			return c.Value
		}
	}
	t.Fatal("login did not set a session cookie")
	return ""
}

func soupForm() url.Values {
	return url.Values{
		"title":                    {"Soup"},
		"description":              {"Hot"},
		"servings":                 {"2"},
		"difficulty":               {"1"},
		"ingredients[0][name]":     {"Tomato"},
		"ingredients[0][quantity]": {"2"},
		"ingredients[0][unit]":     {"pièce(s)"},
		"ingredients[1][name]":     {"Salt"},
		"ingredients[1][quantity]": {""},
		"ingredients[1][unit]":     {"g"},
		"instructions[0][step]":    {"1"},
		"instructions[0][text]":    {"Boil"},
	}
}

func (a *testApp) createSoup(t *testing.T, session string) string {
	t.Helper()
	resp, env := a.postForm(t, "/add-recipe", soupForm(), session)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode, env.Message)

	var res domain.RecipeFormResult
	require.NoError(t, json.Unmarshal(env.Data, &res))
	return res.RecipeID
}

func TestNewAppRequiresSigningSecret(t *testing.T) {
	t.Setenv("JWT_SECRET", "")
	t.Setenv("LOG_FILE", filepath.Join(t.TempDir(), "access.log"))

	app, err := NewApp(testdb.Open(t), storage.NewLocalStore(t.TempDir(), storage.Options{}))

	assert.ErrorIs(t, err, jwt.ErrMissingSecret)
	assert.Nil(t, app)
}

func TestRecipeLifecycleOverHTTP(t *testing.T) {
	a := newTestApp(t)
	session := a.signup(t, "alice")

	resp, env := a.postForm(t, "/add-recipe", soupForm(), session)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get(fiber.HeaderLocation))
	assert.Equal(t, domain.MessageSuccessCreateRecipe, env.Message)

	var created domain.RecipeFormResult
	require.NoError(t, json.Unmarshal(env.Data, &created))

	resp, env = a.get(t, "/"+created.RecipeID+"/", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var detail domain.RecipeDetail
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	assert.Equal(t, "Soup", detail.Title)
	assert.Equal(t, "alice", detail.Username)
	require.Len(t, detail.Ingredients, 1)
	assert.Equal(t, "Tomato", detail.Ingredients[0].Name)
	require.Len(t, detail.Instructions, 1)

	edit := soupForm()
	edit.Set("title", "Cold soup")
	resp, env = a.postForm(t, "/"+created.RecipeID+"/edit", edit, session)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/"+created.RecipeID+"/", resp.Header.Get(fiber.HeaderLocation))
	assert.Equal(t, domain.MessageSuccessUpdateRecipe, env.Message)

	resp, env = a.get(t, "/search?q=cold", "")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var found domain.SearchResponse
	require.NoError(t, json.Unmarshal(env.Data, &found))
	assert.Equal(t, 1, found.TotalResults)

	resp, _ = a.postForm(t, "/"+created.RecipeID+"/delete", url.Values{}, session)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	resp, _ = a.get(t, "/"+created.RecipeID+"/", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestAddRecipeRequiresLogin(t *testing.T) {
	a := newTestApp(t)

	resp, env := a.postForm(t, "/add-recipe", soupForm(), "")

	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	assert.Equal(t, "/auth/login", resp.Header.Get(fiber.HeaderLocation))
	assert.Equal(t, domain.MessageLoginRequired, env.Message)
}

func TestAddRecipeValidationEchoesForm(t *testing.T) {
	a := newTestApp(t)
	session := a.signup(t, "alice")

	form := soupForm()
	form.Del("title")
	resp, env := a.postForm(t, "/add-recipe", form, session)

	require.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, domain.MessageTitleRequired, env.Message)
	var echoed domain.RecipeForm
	require.NoError(t, json.Unmarshal(env.Form, &echoed))
	assert.Equal(t, "Hot", echoed.Description)
	assert.Len(t, echoed.Ingredients, 2)

	var n int64
	require.NoError(t, a.db.Model(&entities.Recipe{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestEditByAnotherUserIsForbidden(t *testing.T) {
	a := newTestApp(t)
	id := a.createSoup(t, a.signup(t, "alice"))
	bob := a.signup(t, "bob")

	resp, _ := a.get(t, "/"+id+"/edit", bob)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = a.postForm(t, "/"+id+"/edit", soupForm(), bob)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = a.postForm(t, "/"+id+"/delete", url.Values{}, bob)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, _ = a.get(t, "/"+uuid.NewString()+"/", bob)
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestRecipeImageUploadIsServed(t *testing.T) {
	a := newTestApp(t)
	session := a.signup(t, "alice")

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range soupForm() {
		require.NoError(t, w.WriteField(k, v[0]))
	}
	part, err := w.CreateFormFile("recipe_image", "soup.png")
	require.NoError(t, err)
	_, err = part.Write([]byte("not really a png"))
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest(http.MethodPost, "/add-recipe", &buf)
	req.Header.Set(fiber.HeaderContentType, w.FormDataContentType())
	resp, env := a.do(t, req, session)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Empty(t, env.Warning)

	var created domain.RecipeFormResult
	require.NoError(t, json.Unmarshal(env.Data, &created))
	_, env = a.get(t, "/"+created.RecipeID+"/", "")
	var detail domain.RecipeDetail
	require.NoError(t, json.Unmarshal(env.Data, &detail))
	require.True(t, strings.HasPrefix(detail.ImageURL, "/uploads/recipes/"), detail.ImageURL)

	resp, err = a.app.Test(httptest.NewRequest(http.MethodGet, detail.ImageURL, nil), -1)
	require.NoError(t, err)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}

func TestLoginErrors(t *testing.T) {
	a := newTestApp(t)
	a.signup(t, "alice")

	resp, env := a.postForm(t, "/auth/login", url.Values{"username": {"alice"}, "password": {"nope"}}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, domain.MessageWrongPassword, env.Message)

	resp, env = a.postForm(t, "/auth/login", url.Values{"username": {"carol"}, "password": {"x"}}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, domain.MessageUnknownUsername, env.Message)

	resp, env = a.postForm(t, "/auth/login", url.Values{"username": {"alice"}}, "")
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, domain.MessagePasswordRequired, env.Message)

	resp, env = a.postForm(t, "/auth/register", url.Values{
		"username":          {"alice"},
		"password":          {"secret"},
		"security_question": {"0"},
		"security_answer":   {"Rex"},
	}, "")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, domain.MessageDuplicateUser("alice"), env.Message)
}

func TestPasswordResetOverHTTP(t *testing.T) {
	a := newTestApp(t)
	a.signup(t, "alice")

	resp, env := a.postForm(t, "/auth/forgot_password", url.Values{"username": {"alice"}}, "")
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Contains(t, string(env.Data), domain.SecurityQuestions[1])

	var reset *http.Cookie
	for _, c := range resp.Cookies() {
		if c.Name == domain.ResetTokenCookie {
			reset = c
		}
	}
	require.NotNil(t, reset)

	post := func(values url.Values) (*http.Response, envelope) {
		req := httptest.NewRequest(http.MethodPost, "/auth/reset_password", strings.NewReader(values.Encode()))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationForm)
		req.AddCookie(reset)
		return a.do(t, req, "")
	}

	resp, env = post(url.Values{"security_answer": {"Paris"}, "new_password": {"changed"}})
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, domain.MessageWrongSecurityAnswer, env.Message)

	resp, _ = post(url.Values{"security_answer": {"Lyon"}, "new_password": {"changed"}})
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	resp, _ = a.postForm(t, "/auth/login", url.Values{"username": {"alice"}, "password": {"changed"}}, "")
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
}

func TestFavoritesAndCommentsOverHTTP(t *testing.T) {
	a := newTestApp(t)
	alice := a.signup(t, "alice")
	id := a.createSoup(t, alice)
	bob := a.signup(t, "bob")

	resp, env := a.postForm(t, "/api/toggle_favourites/"+id, url.Values{}, bob)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	var fav domain.ToggleFavoriteResponse
	require.NoError(t, json.Unmarshal(env.Data, &fav))
	assert.True(t, fav.IsFavorite)

	_, env = a.get(t, "/favorites", bob)
	var favorites []domain.Recipe
	require.NoError(t, json.Unmarshal(env.Data, &favorites))
	require.Len(t, favorites, 1)

	resp, env = a.postForm(t, "/api/"+id+"/add_comment", url.Values{"comment": {"Great"}}, bob)
	assert.Equal(t, fiber.StatusUnprocessableEntity, resp.StatusCode)
	assert.Equal(t, domain.MessageGradeRequired, env.Message)

	resp, env = a.postForm(t, "/api/"+id+"/add_comment", url.Values{"comment": {"Great"}, "grade": {"5"}}, bob)
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	var comment domain.CommentResult
	require.NoError(t, json.Unmarshal(env.Data, &comment))

	resp, _ = a.postForm(t, "/"+id+"/comment/"+comment.ID+"/delete", url.Values{}, alice)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp, env = a.postForm(t, "/"+id+"/comment/"+comment.ID+"/delete", url.Values{}, bob)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, domain.MessageSuccessDeleteComment, env.Message)
}

func TestIngredientAPI(t *testing.T) {
	a := newTestApp(t)

	postJSON := func(body string) (*http.Response, map[string]any) {
		req := httptest.NewRequest(http.MethodPost, "/api/ingredients/create", strings.NewReader(body))
		req.Header.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
		resp, err := a.app.Test(req, -1)
		require.NoError(t, err)
		var out map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
		return resp, out
	}

	resp, out := postJSON(`{"name":"Tomate"}`)
	require.Equal(t, fiber.StatusCreated, resp.StatusCode)
	id := out["id"]

	resp, out = postJSON(`{"name":"  tomate "}`)
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.Equal(t, id, out["id"])

	resp, out = postJSON(`{}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, domain.MessageIngredientNameRequired, out["error"])

	resp, out = postJSON(`{"name":"   "}`)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, domain.MessageIngredientNameEmpty, out["error"])

	resp, err := a.app.Test(httptest.NewRequest(http.MethodGet, "/api/ingredients", nil), -1)
	require.NoError(t, err)
	var types []domain.IngredientType
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&types))
	require.Len(t, types, 1)
	assert.Equal(t, "Tomate", types[0].Name)

	resp, err = a.app.Test(httptest.NewRequest(http.MethodGet, "/api/units", nil), -1)
	require.NoError(t, err)
	var units []string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&units))
	assert.Equal(t, domain.Units, units)
}

func TestAdminRoutes(t *testing.T) {
	a := newTestApp(t)
	alice := a.signup(t, "alice")
	bob := a.signup(t, "bob")
	id := a.createSoup(t, bob)

	resp, _ := a.get(t, "/admin", "")
	assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	resp, _ = a.get(t, "/admin", alice)
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	require.NoError(t, a.db.Model(&entities.User{}).Where("username = ?", "alice").Update("is_admin", true).Error)

	resp, env := a.get(t, "/admin/stats/api", alice)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	var stats domain.Stats
	require.NoError(t, json.Unmarshal(env.Data, &stats))
	assert.Equal(t, int64(2), stats.Counts.Users)
	assert.Equal(t, int64(1), stats.Counts.Recipes)

	var self entities.User
	require.NoError(t, a.db.Where("username = ?", "alice").First(&self).Error)
	resp, env = a.postForm(t, "/admin/users/"+self.ID.String()+"/toggle-admin", url.Values{}, alice)
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
	assert.Equal(t, domain.MessageSelfDemotion, env.Message)

	resp, _ = a.postForm(t, "/admin/recipes/"+id+"/delete", url.Values{}, alice)
	assert.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/admin", resp.Header.Get(fiber.HeaderLocation))

	resp, _ = a.get(t, "/"+id+"/", "")
	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
}

func TestUnknownRouteUsesEnvelope(t *testing.T) {
	a := newTestApp(t)

	resp, env := a.get(t, "/a/b/c/d", "")

	assert.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.False(t, env.Status)
}
