package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/models"
)

func TestFavoriteToggle(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFavoriteService(db)
	ctx := context.Background()

	user := createTestUser(t, db, "user")
	author := createTestUser(t, db, "author")
	tag := createTestTag(t, db, "dinner")
	flour := createTestIngredient(t, db, "flour", "g")
	recipe := createTestRecipe(t, db, author, "Bread", tag, map[*models.Ingredient]int{flour: 100})

	got, err := svc.Favorite(ctx, user.ID, recipe.ID)
	require.NoError(t, err)
	assert.Equal(t, recipe.ID, got.ID)

	_, err = svc.Favorite(ctx, user.ID, recipe.ID)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	set, err := svc.FavoritedSet(ctx, user.ID, []uuid.UUID{recipe.ID})
	require.NoError(t, err)
	assert.True(t, set[recipe.ID])

	require.NoError(t, svc.Unfavorite(ctx, user.ID, recipe.ID))
	assert.ErrorIs(t, svc.Unfavorite(ctx, user.ID, recipe.ID), ErrNotPresent)
}
