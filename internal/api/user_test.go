package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

func TestSubscribeEndpoints(t *testing.T) {
	env := setupTestEnv(t)
	_, followerToken := env.createTestUserAndToken(t, "follower")
	author, authorToken := env.createTestUserAndToken(t, "author")
	tag := env.createTestTag(t, "dinner")
	flour := env.createTestIngredient(t, "flour", "g")

	for _, name := range []string{"Bread", "Buns", "Rolls"} {
		env.createRecipeViaAPI(t, authorToken, name, tag, map[*models.Ingredient]int{flour: 100})
	}

	path := "/api/v1/users/" + author.ID.String() + "/subscribe"

	w := env.doRequest(t, http.MethodPost, path+"?recipes_limit=2", followerToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var sub types.SubscriptionResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &sub))
	assert.Equal(t, "author", sub.Username)
	assert.True(t, sub.IsSubscribed)
	assert.Len(t, sub.Recipes, 2)
	assert.Equal(t, int64(3), sub.RecipesCount)

	// Author profile now reports the subscription to this viewer.
	w = env.doRequest(t, http.MethodGet, "/api/v1/users/"+author.ID.String(), followerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var profile types.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.True(t, profile.IsSubscribed)

	w = env.doRequest(t, http.MethodGet, "/api/v1/users/subscriptions", followerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var page struct {
		Count   int64                        `json:"count"`
		Results []types.SubscriptionResponse `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(1), page.Count)

	w = env.doRequest(t, http.MethodDelete, path, followerToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.doRequest(t, http.MethodDelete, path, followerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSubscribeToSelfRejected(t *testing.T) {
	env := setupTestEnv(t)
	user, token := env.createTestUserAndToken(t, "narcissus")

	w := env.doRequest(t, http.MethodPost, "/api/v1/users/"+user.ID.String()+"/subscribe", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestGetUserAnonymous(t *testing.T) {
	env := setupTestEnv(t)
	user, _ := env.createTestUserAndToken(t, "jane")

	w := env.doRequest(t, http.MethodGet, "/api/v1/users/"+user.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var profile types.UserResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &profile))
	assert.Equal(t, "jane", profile.Username)
	assert.False(t, profile.IsSubscribed)
}

func TestListUsers(t *testing.T) {
	env := setupTestEnv(t)
	env.createTestUserAndToken(t, "alice")
	env.createTestUserAndToken(t, "bob")

	w := env.doRequest(t, http.MethodGet, "/api/v1/users", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Count   int64                `json:"count"`
		Results []types.UserResponse `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(2), page.Count)
	require.Len(t, page.Results, 2)
	assert.Equal(t, "alice", page.Results[0].Username)
}
