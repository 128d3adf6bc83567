package types

import "github.com/google/uuid"

type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=6"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required,min=6"`
	CurrentPassword string `json:"current_password" binding:"required"`
}

// IngredientAmountRequest is one {id, amount} entry of a recipe payload.
type IngredientAmountRequest struct {
	ID     uuid.UUID `json:"id" binding:"required"`
	Amount int       `json:"amount" binding:"required"`
}

type RecipeRequest struct {
	Name        string                    `json:"name" binding:"required,max=200"`
	Text        string                    `json:"text" binding:"required"`
	Image       string                    `json:"image" binding:"required"`
	CookingTime int                       `json:"cooking_time" binding:"required"`
	Ingredients []IngredientAmountRequest `json:"ingredients"`
	Tags        []uuid.UUID               `json:"tags"`
}

type TagRequest struct {
	Name  string `json:"name" binding:"required,max=200"`
	Color string `json:"color" binding:"required,hexcolor"`
	Slug  string `json:"slug" binding:"required,max=200,slug"`
}

// RecipeFilter mirrors the list-endpoint query parameters.
type RecipeFilter struct {
	TagSlugs         []string
	AuthorID         *uuid.UUID
	IsFavorited      bool
	IsInShoppingCart bool
	// RequestingUserID scopes the favorited/cart flags; nil for anonymous.
	RequestingUserID *uuid.UUID
}

type Pagination struct {
	Page  int
	Limit int
}
