package api

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

func (e *testEnv) createRecipeViaAPI(t *testing.T, token string, name string, tag *models.Tag, amounts map[*models.Ingredient]int) types.RecipeResponse {
	t.Helper()

	req := types.RecipeRequest{
		Name:        name,
		Text:        "Cook it.",
		Image:       "http://example.com/" + name + ".jpg",
		CookingTime: 30,
		Tags:        []uuid.UUID{tag.ID},
	}
	for ingredient, amount := range amounts {
		req.Ingredients = append(req.Ingredients, types.IngredientAmountRequest{ID: ingredient.ID, Amount: amount})
	}

	w := e.doRequest(t, http.MethodPost, "/api/v1/recipes", token, req)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var resp types.RecipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp
}

func TestCreateAndGetRecipe(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createTestUserAndToken(t, "author")
	tag := env.createTestTag(t, "dinner")
	flour := env.createTestIngredient(t, "flour", "g")

	created := env.createRecipeViaAPI(t, token, "Bread", tag, map[*models.Ingredient]int{flour: 500})
	assert.Equal(t, "Bread", created.Name)
	require.Len(t, created.Ingredients, 1)
	assert.Equal(t, 500, created.Ingredients[0].Amount)

	w := env.doRequest(t, http.MethodGet, "/api/v1/recipes/"+created.ID.String(), "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var got types.RecipeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &got))
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "author", got.Author.Username)
	assert.False(t, got.IsFavorited)
}

func TestCreateRecipeRequiresAuth(t *testing.T) {
	env := setupTestEnv(t)

	w := env.doRequest(t, http.MethodPost, "/api/v1/recipes", "", types.RecipeRequest{})
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestUpdateRecipeForbiddenForStranger(t *testing.T) {
	env := setupTestEnv(t)
	_, authorToken := env.createTestUserAndToken(t, "author")
	_, strangerToken := env.createTestUserAndToken(t, "stranger")
	tag := env.createTestTag(t, "dinner")
	flour := env.createTestIngredient(t, "flour", "g")

	created := env.createRecipeViaAPI(t, authorToken, "Bread", tag, map[*models.Ingredient]int{flour: 500})

	req := types.RecipeRequest{
		Name:        "Stolen bread",
		Text:        "Cook it.",
		Image:       "http://example.com/bread.jpg",
		CookingTime: 30,
		Ingredients: []types.IngredientAmountRequest{{ID: flour.ID, Amount: 500}},
		Tags:        []uuid.UUID{tag.ID},
	}
	w := env.doRequest(t, http.MethodPatch, "/api/v1/recipes/"+created.ID.String(), strangerToken, req)
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = env.doRequest(t, http.MethodDelete, "/api/v1/recipes/"+created.ID.String(), strangerToken, nil)
	assert.Equal(t, http.StatusForbidden, w.Code)
}

func TestFavoriteToggleEndpoints(t *testing.T) {
	env := setupTestEnv(t)
	_, authorToken := env.createTestUserAndToken(t, "author")
	_, viewerToken := env.createTestUserAndToken(t, "viewer")
	tag := env.createTestTag(t, "dinner")
	flour := env.createTestIngredient(t, "flour", "g")

	created := env.createRecipeViaAPI(t, authorToken, "Bread", tag, map[*models.Ingredient]int{flour: 500})
	path := "/api/v1/recipes/" + created.ID.String() + "/favorite"

	w := env.doRequest(t, http.MethodPost, path, viewerToken, nil)
	require.Equal(t, http.StatusCreated, w.Code)

	var summary types.RecipeSummary
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &summary))
	assert.Equal(t, created.ID, summary.ID)

	// Favoriting twice is a wrong-state request, not a conflict.
	w = env.doRequest(t, http.MethodPost, path, viewerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = env.doRequest(t, http.MethodDelete, path, viewerToken, nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.doRequest(t, http.MethodDelete, path, viewerToken, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestShoppingCartMissingRecipe(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createTestUserAndToken(t, "viewer")

	path := "/api/v1/recipes/" + uuid.NewString() + "/shopping_cart"

	w := env.doRequest(t, http.MethodPost, path, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.doRequest(t, http.MethodDelete, path, token, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestDownloadShoppingCart(t *testing.T) {
	env := setupTestEnv(t)
	_, authorToken := env.createTestUserAndToken(t, "author")
	_, viewerToken := env.createTestUserAndToken(t, "viewer")
	tag := env.createTestTag(t, "dinner")
	flour := env.createTestIngredient(t, "flour", "g")
	sugar := env.createTestIngredient(t, "sugar", "g")

	pancakes := env.createRecipeViaAPI(t, authorToken, "Pancakes", tag, map[*models.Ingredient]int{flour: 200, sugar: 50})
	bread := env.createRecipeViaAPI(t, authorToken, "Bread", tag, map[*models.Ingredient]int{flour: 500})

	for _, recipe := range []types.RecipeResponse{pancakes, bread} {
		w := env.doRequest(t, http.MethodPost, "/api/v1/recipes/"+recipe.ID.String()+"/shopping_cart", viewerToken, nil)
		require.Equal(t, http.StatusCreated, w.Code)
	}

	w := env.doRequest(t, http.MethodGet, "/api/v1/recipes/download_shopping_cart", viewerToken, nil)
	require.Equal(t, http.StatusOK, w.Code)

	assert.Equal(t, `attachment; filename="viewer_shopping_list.txt"`, w.Header().Get("Content-Disposition"))
	assert.Equal(t, "text/plain; charset=utf-8", w.Header().Get("Content-Type"))

	body := w.Body.String()
	assert.Contains(t, body, "- flour (g) - 700")
	assert.Contains(t, body, "- sugar (g) - 50")
	// Amounts are merged, name-ordered.
	assert.Less(t, strings.Index(body, "- flour"), strings.Index(body, "- sugar"))
}

func TestDownloadEmptyCart(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createTestUserAndToken(t, "viewer")

	w := env.doRequest(t, http.MethodGet, "/api/v1/recipes/download_shopping_cart", token, nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListRecipesPagination(t *testing.T) {
	env := setupTestEnv(t)
	_, token := env.createTestUserAndToken(t, "author")
	tag := env.createTestTag(t, "dinner")
	flour := env.createTestIngredient(t, "flour", "g")

	for i := 0; i < testPageSize+2; i++ {
		env.createRecipeViaAPI(t, token, fmt.Sprintf("Recipe %d", i), tag, map[*models.Ingredient]int{flour: 100})
	}

	w := env.doRequest(t, http.MethodGet, "/api/v1/recipes", "", nil)
	require.Equal(t, http.StatusOK, w.Code)

	var page struct {
		Count   int64                  `json:"count"`
		Results []types.RecipeResponse `json:"results"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Equal(t, int64(testPageSize+2), page.Count)
	assert.Len(t, page.Results, testPageSize)

	w = env.doRequest(t, http.MethodGet, "/api/v1/recipes?page=2", "", nil)
	require.Equal(t, http.StatusOK, w.Code)
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &page))
	assert.Len(t, page.Results, 2)
}
