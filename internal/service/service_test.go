package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

// setupTestDB opens an isolated in-memory SQLite database and migrates
// the full schema. Each test gets its own named database so shared-cache
// connections within one test see the same data.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
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

	return db
}

func createTestUser(t *testing.T, db *gorm.DB, username string) *models.User {
	t.Helper()

	user := models.User{
		Email:        username + "@example.com",
		Username:     username,
		FirstName:    "Test",
		LastName:     "User",
		PasswordHash: "not-a-real-hash",
	}
	require.NoError(t, db.Create(&user).Error)
	return &user
}

func createTestIngredient(t *testing.T, db *gorm.DB, name, unit string) *models.Ingredient {
	t.Helper()

	ingredient := models.Ingredient{Name: name, MeasurementUnit: unit}
	require.NoError(t, db.Create(&ingredient).Error)
	return &ingredient
}

func createTestTag(t *testing.T, db *gorm.DB, slug string) *models.Tag {
	t.Helper()

	tag := models.Tag{Name: slug, Color: "#E26C2D", Slug: slug}
	require.NoError(t, db.Create(&tag).Error)
	return &tag
}

// createTestRecipe persists a recipe with the given (ingredient, amount)
// pairs through the service so tag and junction rows are written the same
// way production writes them.
func createTestRecipe(t *testing.T, db *gorm.DB, author *models.User, name string, tag *models.Tag, amounts map[*models.Ingredient]int) *models.Recipe {
	t.Helper()

	req := &types.RecipeRequest{
		Name:        name,
		Text:        "Cook it well.",
		Image:       "http://example.com/" + name + ".jpg",
		CookingTime: 30,
		Tags:        []uuid.UUID{tag.ID},
	}
	for ingredient, amount := range amounts {
		req.Ingredients = append(req.Ingredients, types.IngredientAmountRequest{
			ID:     ingredient.ID,
			Amount: amount,
		})
	}

	recipe, err := NewRecipeService(db, nil).CreateRecipe(context.Background(), author.ID, req)
	require.NoError(t, err)
	return recipe
}
