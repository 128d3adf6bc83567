package api

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/types"
)

func TestListTags(t *testing.T) {
	env := setupTestEnv(t)
	env.createTestTag(t, "breakfast")
	env.createTestTag(t, "dinner")

	w := env.doRequest(t, http.MethodGet, "/api/v1/tags", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var tags []types.TagResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &tags))
	assert.Len(t, tags, 2)
}

func TestCreateTagEndpoint(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createTestUserAndToken(t, "admin")

	req := types.TagRequest{Name: "Breakfast", Color: "#E26C2D", Slug: "breakfast"}

	w := env.doRequest(t, http.MethodPost, "/api/v1/tags", "", req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = env.doRequest(t, http.MethodPost, "/api/v1/tags", token, req)
	require.Equal(t, http.StatusCreated, w.Code)

	// Slug format is enforced at the binding layer.
	bad := types.TagRequest{Name: "Bad", Color: "#E26C2D", Slug: "no spaces"}
	w = env.doRequest(t, http.MethodPost, "/api/v1/tags", token, bad)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListIngredientsByPrefix(t *testing.T) {
	env := setupTestEnv(t)
	env.createTestIngredient(t, "sugar", "g")
	env.createTestIngredient(t, "sunflower oil", "ml")
	env.createTestIngredient(t, "flour", "g")

	w := env.doRequest(t, http.MethodGet, "/api/v1/ingredients?name=su", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var ingredients []types.IngredientResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &ingredients))
	require.Len(t, ingredients, 2)
	assert.Equal(t, "sugar", ingredients[0].Name)
}

func TestGetIngredientNotFound(t *testing.T) {
	env := setupTestEnv(t)

	w := env.doRequest(t, http.MethodGet, "/api/v1/ingredients/"+uuid.NewString(), "", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}
