package api

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/foodgram/backend/internal/models"
	"github.com/foodgram/backend/internal/types"
)

func toUserResponse(user *models.User, isSubscribed bool) types.UserResponse {
	return types.UserResponse{
		ID:           user.ID,
		Email:        user.Email,
		Username:     user.Username,
		FirstName:    user.FirstName,
		LastName:     user.LastName,
		IsSubscribed: isSubscribed,
	}
}

func toTagResponse(tag *models.Tag) types.TagResponse {
	return types.TagResponse{
		ID:    tag.ID,
		Name:  tag.Name,
		Color: tag.Color,
		Slug:  tag.Slug,
	}
}

func toIngredientResponse(ingredient *models.Ingredient) types.IngredientResponse {
	return types.IngredientResponse{
		ID:              ingredient.ID,
		Name:            ingredient.Name,
		MeasurementUnit: ingredient.MeasurementUnit,
	}
}

func toRecipeSummary(recipe *models.Recipe) types.RecipeSummary {
	return types.RecipeSummary{
		ID:          recipe.ID,
		Name:        recipe.Name,
		Image:       recipe.ImageURL,
		CookingTime: recipe.CookingTime,
	}
}

// toRecipeResponse assembles the full recipe read form. The recipe must
// have Author, Tags and Ingredients.Ingredient preloaded.
func toRecipeResponse(recipe *models.Recipe, authorSubscribed, favorited, inCart bool) types.RecipeResponse {
	tags := make([]types.TagResponse, 0, len(recipe.Tags))
	for i := range recipe.Tags {
		tags = append(tags, toTagResponse(&recipe.Tags[i]))
	}

	ingredients := make([]types.IngredientInRecipeResponse, 0, len(recipe.Ingredients))
	for _, row := range recipe.Ingredients {
		ingredients = append(ingredients, types.IngredientInRecipeResponse{
			ID:              row.IngredientID,
			Name:            row.Ingredient.Name,
			MeasurementUnit: row.Ingredient.MeasurementUnit,
			Amount:          row.Amount,
		})
	}

	return types.RecipeResponse{
		ID:               recipe.ID,
		Tags:             tags,
		Author:           toUserResponse(&recipe.Author, authorSubscribed),
		Ingredients:      ingredients,
		IsFavorited:      favorited,
		IsInShoppingCart: inCart,
		Name:             recipe.Name,
		Image:            recipe.ImageURL,
		Text:             recipe.Text,
		CookingTime:      recipe.CookingTime,
	}
}

// currentUserID returns the authenticated user's id from the request
// context, or nil for anonymous requests.
func currentUserID(c *gin.Context) *uuid.UUID {
	value, exists := c.Get("user_id")
	if !exists {
		return nil
	}
	id, ok := value.(uuid.UUID)
	if !ok {
		return nil
	}
	return &id
}

// requireUserID is currentUserID for authenticated-only endpoints; it
// writes the 401 itself when the middleware did not set an identity.
func requireUserID(c *gin.Context) (uuid.UUID, bool) {
	id := currentUserID(c)
	if id == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "user not authenticated"})
		return uuid.Nil, false
	}
	return *id, true
}

func paginationFromQuery(c *gin.Context, defaultLimit int) types.Pagination {
	page := 1
	if v, err := strconv.Atoi(c.Query("page")); err == nil && v > 0 {
		page = v
	}
	limit := defaultLimit
	if v, err := strconv.Atoi(c.Query("limit")); err == nil && v > 0 {
		limit = v
	}
	return types.Pagination{Page: page, Limit: limit}
}
