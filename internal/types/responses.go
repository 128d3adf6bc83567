package types

import "github.com/google/uuid"

type UserResponse struct {
	ID           uuid.UUID `json:"id"`
	Email        string    `json:"email"`
	Username     string    `json:"username"`
	FirstName    string    `json:"first_name"`
	LastName     string    `json:"last_name"`
	IsSubscribed bool      `json:"is_subscribed"`
}

type TagResponse struct {
	ID    uuid.UUID `json:"id"`
	Name  string    `json:"name"`
	Color string    `json:"color"`
	Slug  string    `json:"slug"`
}

type IngredientResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
}

// IngredientInRecipeResponse flattens an ingredient_amounts row with its
// ingredient for recipe reads.
type IngredientInRecipeResponse struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	MeasurementUnit string    `json:"measurement_unit"`
	Amount          int       `json:"amount"`
}

type RecipeResponse struct {
	ID               uuid.UUID                    `json:"id"`
	Tags             []TagResponse                `json:"tags"`
	Author           UserResponse                 `json:"author"`
	Ingredients      []IngredientInRecipeResponse `json:"ingredients"`
	IsFavorited      bool                         `json:"is_favorited"`
	IsInShoppingCart bool                         `json:"is_in_shopping_cart"`
	Name             string                       `json:"name"`
	Image            string                       `json:"image"`
	Text             string                       `json:"text"`
	CookingTime      int                          `json:"cooking_time"`
}

// RecipeSummary is the short recipe form returned by toggle actions and
// embedded in subscription listings.
type RecipeSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Image       string    `json:"image"`
	CookingTime int       `json:"cooking_time"`
}

// SubscriptionResponse is a followed author plus a capped recipe preview.
type SubscriptionResponse struct {
	UserResponse
	Recipes      []RecipeSummary `json:"recipes"`
	RecipesCount int64           `json:"recipes_count"`
}

// ShoppingListRow is one aggregated line of the exported shopping list.
type ShoppingListRow struct {
	Name            string `json:"name"`
	MeasurementUnit string `json:"measurement_unit"`
	Total           int    `json:"total"`
}

type PagedResponse struct {
	Count   int64       `json:"count"`
	Results interface{} `json:"results"`
}
