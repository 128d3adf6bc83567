package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/models"
)

func TestSubscribe(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db)
	ctx := context.Background()

	follower := createTestUser(t, db, "follower")
	author := createTestUser(t, db, "author")

	got, err := svc.Subscribe(ctx, follower.ID, author.ID)
	require.NoError(t, err)
	assert.Equal(t, author.ID, got.ID)

	subscribed, err := svc.IsSubscribed(ctx, follower.ID, author.ID)
	require.NoError(t, err)
	assert.True(t, subscribed)
}

func TestSubscribeToSelf(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db)

	user := createTestUser(t, db, "narcissus")

	_, err := svc.Subscribe(context.Background(), user.ID, user.ID)
	assert.ErrorIs(t, err, ErrSelfFollow)
}

func TestSubscribeTwice(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db)
	ctx := context.Background()

	follower := createTestUser(t, db, "follower")
	author := createTestUser(t, db, "author")

	_, err := svc.Subscribe(ctx, follower.ID, author.ID)
	require.NoError(t, err)

	_, err = svc.Subscribe(ctx, follower.ID, author.ID)
	assert.ErrorIs(t, err, ErrAlreadyExists)

	var count int64
	require.NoError(t, db.Model(&models.Follow{}).Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestUnsubscribe(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db)
	ctx := context.Background()

	follower := createTestUser(t, db, "follower")
	author := createTestUser(t, db, "author")

	_, err := svc.Subscribe(ctx, follower.ID, author.ID)
	require.NoError(t, err)

	require.NoError(t, svc.Unsubscribe(ctx, follower.ID, author.ID))

	// A second unsubscribe has no row to delete.
	assert.ErrorIs(t, svc.Unsubscribe(ctx, follower.ID, author.ID), ErrNotPresent)
}

func TestUnsubscribeMissingAuthor(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db)

	follower := createTestUser(t, db, "follower")
	ghost := createTestUser(t, db, "ghost")
	require.NoError(t, db.Delete(ghost).Error)

	assert.ErrorIs(t, svc.Unsubscribe(context.Background(), follower.ID, ghost.ID), ErrNotFound)
}

func TestSubscriptionsOrderedByUsername(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db)
	ctx := context.Background()

	follower := createTestUser(t, db, "follower")
	zoe := createTestUser(t, db, "zoe")
	alice := createTestUser(t, db, "alice")

	_, err := svc.Subscribe(ctx, follower.ID, zoe.ID)
	require.NoError(t, err)
	_, err = svc.Subscribe(ctx, follower.ID, alice.ID)
	require.NoError(t, err)

	authors, count, err := svc.Subscriptions(ctx, follower.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)
	require.Len(t, authors, 2)
	assert.Equal(t, "alice", authors[0].Username)
	assert.Equal(t, "zoe", authors[1].Username)
}

func TestAuthorRecipesLimit(t *testing.T) {
	db := setupTestDB(t)
	svc := NewFollowService(db)
	ctx := context.Background()

	author := createTestUser(t, db, "author")
	tag := createTestTag(t, db, "dinner")
	flour := createTestIngredient(t, db, "flour", "g")

	for _, name := range []string{"Bread", "Buns", "Rolls"} {
		createTestRecipe(t, db, author, name, tag, map[*models.Ingredient]int{flour: 100})
	}

	recipes, total, err := svc.AuthorRecipes(ctx, author.ID, 2)
	require.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, recipes, 2)
}
