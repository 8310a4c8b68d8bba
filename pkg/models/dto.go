package models

import (
	"github.com/shopspring/decimal"
)

// RegisterRequest is the payload for creating a user
type RegisterRequest struct {
	Email     string `json:"email" binding:"required,email,max=254"`
	Username  string `json:"username" binding:"required,max=150,username"`
	FirstName string `json:"first_name" binding:"required,max=150"`
	LastName  string `json:"last_name" binding:"required,max=150"`
	Password  string `json:"password" binding:"required,min=8,max=150"`
}

// LoginRequest is the payload for obtaining a token
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// TokenResponse carries an issued auth token
type TokenResponse struct {
	AuthToken string `json:"auth_token"`
}

// SetPasswordRequest changes the caller's password
type SetPasswordRequest struct {
	NewPassword     string `json:"new_password" binding:"required,min=8,max=150"`
	CurrentPassword string `json:"current_password" binding:"required"`
}

// UserResponse is the public view of a user
type UserResponse struct {
	ID           uint   `json:"id"`
	Email        string `json:"email"`
	Username     string `json:"username"`
	FirstName    string `json:"first_name"`
	LastName     string `json:"last_name"`
	IsSubscribed bool   `json:"is_subscribed"`
}

// NewUserResponse builds the public view of u.
func NewUserResponse(u *User, subscribed bool) UserResponse {
	return UserResponse{
		ID:           u.ID,
		Email:        u.Email,
		Username:     u.Username,
		FirstName:    u.FirstName,
		LastName:     u.LastName,
		IsSubscribed: subscribed,
	}
}

// AuthorResponse is a followed author with a preview of their recipes
type AuthorResponse struct {
	UserResponse
	Recipes      []RecipeShort `json:"recipes"`
	RecipesCount int64         `json:"recipes_count"`
}

// IngredientAmount is one ingredient line of a recipe write request
type IngredientAmount struct {
	ID     uint            `json:"id" binding:"required"`
	Amount decimal.Decimal `json:"amount"`
}

// RecipeRequest is the payload for creating or patching a recipe.
// Nil fields are left unchanged by a patch.
type RecipeRequest struct {
	Ingredients *[]IngredientAmount `json:"ingredients"`
	Tags        *[]uint             `json:"tags"`
	Image       *string             `json:"image" binding:"omitempty,max=10485760"`
	Name        *string             `json:"name" binding:"omitempty,min=1,max=200"`
	Text        *string             `json:"text" binding:"omitempty,min=1"`
	CookingTime *int                `json:"cooking_time" binding:"omitempty,min=1,max=32000"`
}

// RecipeIngredientResponse is an ingredient line of a recipe
type RecipeIngredientResponse struct {
	ID              uint            `json:"id"`
	Name            string          `json:"name"`
	MeasurementUnit string          `json:"measurement_unit"`
	Amount          decimal.Decimal `json:"amount"`
}

// RecipeResponse is the full read view of a recipe
type RecipeResponse struct {
	ID               uint                       `json:"id"`
	Tags             []Tag                      `json:"tags"`
	Author           UserResponse               `json:"author"`
	Ingredients      []RecipeIngredientResponse `json:"ingredients"`
	IsFavorited      bool                       `json:"is_favorited"`
	IsInShoppingCart bool                       `json:"is_in_shopping_cart"`
	Name             string                     `json:"name"`
	Image            string                     `json:"image"`
	Text             string                     `json:"text"`
	CookingTime      int                        `json:"cooking_time"`
}

// RecipeShort is the compact view returned by favorite/cart and subscription endpoints
type RecipeShort struct {
	ID          uint   `json:"id"`
	Name        string `json:"name"`
	Image       string `json:"image"`
	CookingTime int    `json:"cooking_time"`
}

// NewRecipeShort builds the compact view of r.
func NewRecipeShort(r *Recipe) RecipeShort {
	return RecipeShort{ID: r.ID, Name: r.Name, Image: r.Image, CookingTime: r.CookingTime}
}

// RecipeFilter holds the list query parameters
type RecipeFilter struct {
	Page             int      `form:"page" binding:"omitempty,min=1"`
	Limit            int      `form:"limit" binding:"omitempty,min=1"`
	Author           uint     `form:"author"`
	Tags             []string `form:"tags"`
	IsFavorited      *bool    `form:"is_favorited"`
	IsInShoppingCart *bool    `form:"is_in_shopping_cart"`
}

// ShoppingListLine is one aggregated ingredient of a shopping list
type ShoppingListLine struct {
	Name            string          `json:"name"`
	MeasurementUnit string          `json:"measurement_unit"`
	Amount          decimal.Decimal `json:"amount"`
}

// PageQuery holds the common list query parameters
type PageQuery struct {
	Page         int `form:"page" binding:"omitempty,min=1"`
	Limit        int `form:"limit" binding:"omitempty,min=1"`
	RecipesLimit int `form:"recipes_limit" binding:"omitempty,min=0"`
}
