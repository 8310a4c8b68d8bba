package api_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/Aidin1998/foodgram/api"
	"github.com/Aidin1998/foodgram/common/auth"
	"github.com/Aidin1998/foodgram/internal/config"
	"github.com/Aidin1998/foodgram/internal/identities"
	"github.com/Aidin1998/foodgram/internal/recipes"
	"github.com/Aidin1998/foodgram/pkg/models"
	"github.com/Aidin1998/foodgram/pkg/validation"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type ServerSuite struct {
	suite.Suite
	db     *gorm.DB
	router *gin.Engine

	aliceToken string
	bobToken   string
	tagIDs     []uint
	flourID    uint
	milkID     uint
}

func TestServerSuite(t *testing.T) {
	suite.Run(t, new(ServerSuite))
}

func (s *ServerSuite) SetupTest() {
	gin.SetMode(gin.TestMode)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	s.Require().NoError(err)
	sqlDB, err := db.DB()
	s.Require().NoError(err)
	sqlDB.SetMaxOpenConns(1)
	s.Require().NoError(db.AutoMigrate(models.All()...))
	s.db = db

	cfg := &config.Config{
		Version:    "test",
		Server:     config.ServerConfig{Host: "127.0.0.1", Port: 0},
		Pagination: config.PaginationConfig{DefaultLimit: 6, MaxLimit: 100},
		Tracing:    config.TracingConfig{ServiceName: "foodgram-test"},
		CORS:       config.CORSConfig{AllowedOrigins: []string{"*"}},
	}
	log := zap.NewNop()
	tokens := auth.NewTokenManager("server-test-secret", "foodgram", time.Hour, auth.NewMemoryRevocationStore())
	identitySvc := identities.NewService(log, db, tokens)
	recipeSvc := recipes.NewService(log, db, validation.NewValidator(log))
	s.router = api.NewServer(log, cfg, tokens, identitySvc, recipeSvc, sqlDB).Router()

	tags := []models.Tag{
		{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"},
		{Name: "Dinner", Color: "#49B64E", Slug: "dinner"},
	}
	s.Require().NoError(db.Create(&tags).Error)
	s.tagIDs = []uint{tags[0].ID, tags[1].ID}

	flour := models.Ingredient{Name: "flour", MeasurementUnit: "g"}
	milk := models.Ingredient{Name: "milk", MeasurementUnit: "ml"}
	s.Require().NoError(db.Create(&flour).Error)
	s.Require().NoError(db.Create(&milk).Error)
	s.flourID, s.milkID = flour.ID, milk.ID

	s.aliceToken = s.signUp("alice")
	s.bobToken = s.signUp("bob")
}

func (s *ServerSuite) do(method, path, token string, body interface{}) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		s.Require().NoError(err)
		reader = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Token "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *ServerSuite) decode(w *httptest.ResponseRecorder, into interface{}) {
	s.Require().NoError(json.Unmarshal(w.Body.Bytes(), into), w.Body.String())
}

func (s *ServerSuite) signUp(username string) string {
	w := s.do(http.MethodPost, "/api/users/", "", map[string]string{
		"email":      username + "@example.com",
		"username":   username,
		"first_name": "First",
		"last_name":  "Last",
		"password":   "password123",
	})
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())

	w = s.do(http.MethodPost, "/api/auth/token/login/", "", map[string]string{
		"email":    username + "@example.com",
		"password": "password123",
	})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var token models.TokenResponse
	s.decode(w, &token)
	return token.AuthToken
}

func (s *ServerSuite) recipeBody(name string, ingredients ...map[string]interface{}) map[string]interface{} {
	return map[string]interface{}{
		"ingredients":  ingredients,
		"tags":         s.tagIDs[:1],
		"image":        "data:image/png;base64,iVBORw0KGgo=",
		"name":         name,
		"text":         "Mix everything.",
		"cooking_time": 15,
	}
}

func (s *ServerSuite) createRecipe(token, name string, ingredients ...map[string]interface{}) models.RecipeResponse {
	w := s.do(http.MethodPost, "/api/recipes/", token, s.recipeBody(name, ingredients...))
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var recipe models.RecipeResponse
	s.decode(w, &recipe)
	return recipe
}

func (s *ServerSuite) TestHealthAndMetrics() {
	w := s.do(http.MethodGet, "/health", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"status":"ok"`)

	w = s.do(http.MethodGet, "/metrics", "", nil)
	s.Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), "foodgram_http_requests_total")
}

func (s *ServerSuite) TestCatalogIsPublic() {
	w := s.do(http.MethodGet, "/api/tags/", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var tags []models.Tag
	s.decode(w, &tags)
	s.Len(tags, 2)

	w = s.do(http.MethodGet, "/api/ingredients/?name=FL", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var ingredients []models.Ingredient
	s.decode(w, &ingredients)
	s.Require().Len(ingredients, 1)
	s.Equal("flour", ingredients[0].Name)

	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/tags/999/", "", nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, "/api/ingredients/abc/", "", nil).Code)
}

func (s *ServerSuite) TestRecipePermissions() {
	body := s.recipeBody("Pancakes", map[string]interface{}{"id": s.flourID, "amount": 200})

	w := s.do(http.MethodPost, "/api/recipes/", "", body)
	s.Equal(http.StatusUnauthorized, w.Code)
	s.Equal("application/problem+json", w.Header().Get("Content-Type"))

	recipe := s.createRecipe(s.aliceToken, "Pancakes", map[string]interface{}{"id": s.flourID, "amount": 200})
	s.Equal("alice", recipe.Author.Username)
	path := fmt.Sprintf("/api/recipes/%d/", recipe.ID)

	s.Equal(http.StatusOK, s.do(http.MethodGet, path, "", nil).Code)
	s.Equal(http.StatusUnauthorized, s.do(http.MethodPatch, path, "", map[string]string{"name": "x"}).Code)
	s.Equal(http.StatusForbidden, s.do(http.MethodPatch, path, s.bobToken, map[string]string{"name": "x"}).Code)
	s.Equal(http.StatusForbidden, s.do(http.MethodDelete, path, s.bobToken, nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodPatch, "/api/recipes/999/", s.aliceToken, map[string]string{"name": "x"}).Code)

	w = s.do(http.MethodPatch, path, s.aliceToken, map[string]interface{}{"name": "Crepes", "cooking_time": 20})
	s.Require().Equal(http.StatusOK, w.Code, w.Body.String())
	var updated models.RecipeResponse
	s.decode(w, &updated)
	s.Equal("Crepes", updated.Name)
	s.Equal(20, updated.CookingTime)

	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, path, s.aliceToken, nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodGet, path, "", nil).Code)
}

func (s *ServerSuite) TestRecipeValidation() {
	w := s.do(http.MethodPost, "/api/recipes/", s.aliceToken, s.recipeBody("Empty"))
	s.Equal(http.StatusBadRequest, w.Code)
	s.Contains(w.Body.String(), "ingredients")

	body := s.recipeBody("Bad", map[string]interface{}{"id": s.flourID, "amount": 1})
	body["cooking_time"] = 0
	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/api/recipes/", s.aliceToken, body).Code)

	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, "/api/recipes/", s.aliceToken, "{not json").Code)
}

func (s *ServerSuite) TestFavoriteAndCartStatuses() {
	recipe := s.createRecipe(s.aliceToken, "Pancakes", map[string]interface{}{"id": s.flourID, "amount": 200})

	for _, rel := range []string{"favorite", "shopping_cart"} {
		path := fmt.Sprintf("/api/recipes/%d/%s/", recipe.ID, rel)
		missing := fmt.Sprintf("/api/recipes/999/%s/", rel)

		s.Equal(http.StatusUnauthorized, s.do(http.MethodPost, path, "", nil).Code, rel)
		s.Equal(http.StatusBadRequest, s.do(http.MethodPost, missing, s.bobToken, nil).Code, rel)

		w := s.do(http.MethodPost, path, s.bobToken, nil)
		s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
		var short models.RecipeShort
		s.decode(w, &short)
		s.Equal(recipe.ID, short.ID)
		s.Equal("Pancakes", short.Name)

		s.Equal(http.StatusBadRequest, s.do(http.MethodPost, path, s.bobToken, nil).Code, rel)

		s.Equal(http.StatusNotFound, s.do(http.MethodDelete, missing, s.bobToken, nil).Code, rel)
		s.Equal(http.StatusNoContent, s.do(http.MethodDelete, path, s.bobToken, nil).Code, rel)
		s.Equal(http.StatusBadRequest, s.do(http.MethodDelete, path, s.bobToken, nil).Code, rel)
	}
}

func (s *ServerSuite) TestListRecipes() {
	first := s.createRecipe(s.aliceToken, "Porridge", map[string]interface{}{"id": s.milkID, "amount": 250})
	s.createRecipe(s.aliceToken, "Bread", map[string]interface{}{"id": s.flourID, "amount": 500})
	s.Require().Equal(http.StatusCreated,
		s.do(http.MethodPost, fmt.Sprintf("/api/recipes/%d/favorite/", first.ID), s.bobToken, nil).Code)

	w := s.do(http.MethodGet, "/api/recipes/?limit=1", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var page struct {
		Count    int64                   `json:"count"`
		Next     *string                 `json:"next"`
		Previous *string                 `json:"previous"`
		Results  []models.RecipeResponse `json:"results"`
	}
	s.decode(w, &page)
	s.Equal(int64(2), page.Count)
	s.Len(page.Results, 1)
	s.Require().NotNil(page.Next)
	s.Contains(*page.Next, "page=2")
	s.Nil(page.Previous)

	w = s.do(http.MethodGet, "/api/recipes/?is_favorited=1", s.bobToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.decode(w, &page)
	s.Require().Len(page.Results, 1)
	s.Equal(first.ID, page.Results[0].ID)
	s.True(page.Results[0].IsFavorited)

	w = s.do(http.MethodGet, "/api/recipes/?tags=dinner", "", nil)
	s.decode(w, &page)
	s.Zero(page.Count)
}

func (s *ServerSuite) TestDownloadShoppingCart() {
	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/api/recipes/download_shopping_cart/", "", nil).Code)

	first := s.createRecipe(s.aliceToken, "Pancakes",
		map[string]interface{}{"id": s.flourID, "amount": 200},
		map[string]interface{}{"id": s.milkID, "amount": 300})
	second := s.createRecipe(s.aliceToken, "Bread", map[string]interface{}{"id": s.flourID, "amount": 500})
	for _, id := range []uint{first.ID, second.ID} {
		s.Require().Equal(http.StatusCreated,
			s.do(http.MethodPost, fmt.Sprintf("/api/recipes/%d/shopping_cart/", id), s.bobToken, nil).Code)
	}

	w := s.do(http.MethodGet, "/api/recipes/download_shopping_cart/", s.bobToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Header().Get("Content-Disposition"), "shopping_list.txt")
	s.Contains(w.Body.String(), "flour (g) - 700")
	s.Contains(w.Body.String(), "milk (ml) - 300")

	w = s.do(http.MethodGet, "/api/recipes/download_shopping_cart/?format=csv", s.bobToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Equal("ingredient,measurement_unit,amount\nflour,g,700\nmilk,ml,300\n", w.Body.String())

	s.Equal(http.StatusBadRequest, s.do(http.MethodGet, "/api/recipes/download_shopping_cart/?format=pdf", s.bobToken, nil).Code)
}

func (s *ServerSuite) TestUsersAndSubscriptions() {
	w := s.do(http.MethodGet, "/api/users/me/", s.bobToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	var me models.UserResponse
	s.decode(w, &me)
	s.Equal("bob", me.Username)
	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/api/users/me/", "", nil).Code)

	var alice models.User
	s.Require().NoError(s.db.Where("username = ?", "alice").First(&alice).Error)
	s.createRecipe(s.aliceToken, "Pancakes", map[string]interface{}{"id": s.flourID, "amount": 200})

	path := fmt.Sprintf("/api/users/%d/subscribe/", alice.ID)
	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, fmt.Sprintf("/api/users/%d/subscribe/", me.ID), s.bobToken, nil).Code)
	s.Equal(http.StatusNotFound, s.do(http.MethodPost, "/api/users/999/subscribe/", s.bobToken, nil).Code)

	w = s.do(http.MethodPost, path+"?recipes_limit=1", s.bobToken, nil)
	s.Require().Equal(http.StatusCreated, w.Code, w.Body.String())
	var author models.AuthorResponse
	s.decode(w, &author)
	s.True(author.IsSubscribed)
	s.Equal(int64(1), author.RecipesCount)
	s.Equal(http.StatusBadRequest, s.do(http.MethodPost, path, s.bobToken, nil).Code)

	w = s.do(http.MethodGet, "/api/users/subscriptions/", s.bobToken, nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"username":"alice"`)

	w = s.do(http.MethodGet, fmt.Sprintf("/api/users/%d/", alice.ID), s.bobToken, nil)
	s.Contains(w.Body.String(), `"is_subscribed":true`)

	s.Equal(http.StatusNoContent, s.do(http.MethodDelete, path, s.bobToken, nil).Code)
	s.Equal(http.StatusBadRequest, s.do(http.MethodDelete, path, s.bobToken, nil).Code)

	w = s.do(http.MethodGet, "/api/users/?limit=1", "", nil)
	s.Require().Equal(http.StatusOK, w.Code)
	s.Contains(w.Body.String(), `"count":2`)
}

func (s *ServerSuite) TestPasswordAndLogout() {
	w := s.do(http.MethodPost, "/api/users/set_password/", s.bobToken,
		map[string]string{"current_password": "wrong", "new_password": "newpassword1"})
	s.Equal(http.StatusBadRequest, w.Code)

	w = s.do(http.MethodPost, "/api/users/set_password/", s.bobToken,
		map[string]string{"current_password": "password123", "new_password": "newpassword1"})
	s.Equal(http.StatusNoContent, w.Code)

	w = s.do(http.MethodPost, "/api/auth/token/login/", "", map[string]string{"email": "bob@example.com", "password": "password123"})
	s.Equal(http.StatusBadRequest, w.Code)

	s.Equal(http.StatusNoContent, s.do(http.MethodPost, "/api/auth/token/logout/", s.bobToken, nil).Code)
	s.Equal(http.StatusUnauthorized, s.do(http.MethodGet, "/api/users/me/", s.bobToken, nil).Code)
}

func TestRegisterValidation(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(models.All()...))

	log := zap.NewNop()
	tokens := auth.NewTokenManager("server-test-secret", "foodgram", time.Hour, auth.NewMemoryRevocationStore())
	cfg := &config.Config{Pagination: config.PaginationConfig{DefaultLimit: 6, MaxLimit: 100}}
	router := api.NewServer(log, cfg, tokens,
		identities.NewService(log, db, tokens),
		recipes.NewService(log, db, validation.NewValidator(log)), nil).Router()

	req := httptest.NewRequest(http.MethodPost, "/api/users/",
		strings.NewReader(`{"email":"not-an-email","username":"bad name","first_name":"a","last_name":"b","password":"short"}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `"field":"email"`)
	assert.Contains(t, body, `"field":"username"`)
	assert.Contains(t, body, `"field":"password"`)
}

type downPinger struct{}

func (downPinger) PingContext(context.Context) error { return fmt.Errorf("connection refused") }

func TestHealthDatabaseDown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	require.NoError(t, err)

	log := zap.NewNop()
	tokens := auth.NewTokenManager("server-test-secret", "foodgram", time.Hour, auth.NewMemoryRevocationStore())
	cfg := &config.Config{Pagination: config.PaginationConfig{DefaultLimit: 6, MaxLimit: 100}}
	router := api.NewServer(log, cfg, tokens,
		identities.NewService(log, db, tokens),
		recipes.NewService(log, db, validation.NewValidator(log)), downPinger{}).Router()

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
	assert.Equal(t, "application/problem+json", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Body.String(), "database unavailable")
}
