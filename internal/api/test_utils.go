package api

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/service"
	"github.com/foodgram/backend/internal/types"
)

const testPageSize = 6

// testEnv bundles the in-memory database, router and services that the
// handler tests drive requests through.
type testEnv struct {
	db     *gorm.DB
	router *gin.Engine
	auth   *service.AuthService
}

func setupTestEnv(t *testing.T) *testEnv {
	t.Helper()
	gin.SetMode(gin.TestMode)

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger:         logger.Default.LogMode(logger.Silent),
		TranslateError: true,
	})
	require.NoError(t, err)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Follow{},
		&models.Tag{},
		&models.Ingredient{},
		&models.Recipe{},
		&models.IngredientAmount{},
		&models.FavoriteRecipe{},
		&models.ShoppingCart{},
	))

	authService := service.NewAuthService(db, service.NewMemoryRevocationStore(), "test-secret")
	userService := service.NewUserService(db)
	followService := service.NewFollowService(db)
	catalogService := service.NewCatalogService(db)
	recipeService := service.NewRecipeService(db, nil)
	favoriteService := service.NewFavoriteService(db)
	cartService := service.NewCartService(db)

	authHandler := NewAuthHandler(authService)
	userHandler := NewUserHandler(authService, userService, followService, testPageSize)
	catalogHandler := NewCatalogHandler(catalogService, authService)
	recipeHandler := NewRecipeHandler(recipeService, favoriteService, cartService, followService, userService, authService, nil, testPageSize)

	RegisterValidators()

	router := gin.New()
	router.Use(gin.Recovery())
	v1 := router.Group("/api/v1")
	authHandler.RegisterRoutes(v1)
	userHandler.RegisterRoutes(v1)
	catalogHandler.RegisterRoutes(v1)
	recipeHandler.RegisterRoutes(v1)

	return &testEnv{db: db, router: router, auth: authService}
}

// createTestUserAndToken registers a user directly in the store and
// issues a token for it, skipping the HTTP registration flow.
func (e *testEnv) createTestUserAndToken(t *testing.T, username string) (*models.User, string) {
	t.Helper()

	user := &models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "unused",
	}
	require.NoError(t, e.db.Create(user).Error)

	token, err := e.auth.GenerateToken(&types.TokenClaims{
		UserID:   user.ID,
		Username: user.Username,
	})
	require.NoError(t, err)

	return user, token
}

// doRequest performs a request against the test router, marshalling the
// body as JSON and attaching the token when one is given.
func (e *testEnv) doRequest(t *testing.T, method, path, token string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	w := httptest.NewRecorder()
	e.router.ServeHTTP(w, req)
	return w
}

func (e *testEnv) createTestTag(t *testing.T, slug string) *models.Tag {
	t.Helper()
	tag := &models.Tag{Name: slug, Color: "#49B64E", Slug: slug}
	require.NoError(t, e.db.Create(tag).Error)
	return tag
}

func (e *testEnv) createTestIngredient(t *testing.T, name, unit string) *models.Ingredient {
	t.Helper()
	ingredient := &models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, e.db.Create(ingredient).Error)
	return ingredient
}
