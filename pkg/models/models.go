package models

import (
	"time"

	"github.com/shopspring/decimal"
)

func init() {
	// amounts go out as JSON numbers, not strings
	decimal.MarshalJSONWithoutQuotes = true
}

// User represents a registered account
type User struct {
	ID           uint      `json:"id" gorm:"primaryKey"`
	Email        string    `json:"email" gorm:"size:254;uniqueIndex;not null"`
	Username     string    `json:"username" gorm:"size:150;uniqueIndex;not null"`
	FirstName    string    `json:"first_name" gorm:"size:150"`
	LastName     string    `json:"last_name" gorm:"size:150"`
	PasswordHash string    `json:"-" gorm:"column:password_hash;not null"`
	IsAdmin      bool      `json:"-" gorm:"default:false"`
	CreatedAt    time.Time `json:"-"`
}

// Subscription links a follower to an author
type Subscription struct {
	ID       uint `gorm:"primaryKey"`
	UserID   uint `gorm:"not null;uniqueIndex:idx_subscription_user_author"`
	AuthorID uint `gorm:"not null;uniqueIndex:idx_subscription_user_author;index"`
	User     User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Author   User `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
}

// Tag labels recipes (breakfast, dinner, ...)
type Tag struct {
	ID    uint   `json:"id" gorm:"primaryKey"`
	Name  string `json:"name" gorm:"size:200;uniqueIndex;not null" yaml:"name"`
	Color string `json:"color" gorm:"size:7;uniqueIndex;not null" yaml:"color"`
	Slug  string `json:"slug" gorm:"size:200;uniqueIndex;not null" yaml:"slug"`
}

// Ingredient is a product with its unit of measure
type Ingredient struct {
	ID              uint   `json:"id" gorm:"primaryKey"`
	Name            string `json:"name" gorm:"size:200;not null;index;uniqueIndex:idx_ingredient_name_unit" yaml:"name"`
	MeasurementUnit string `json:"measurement_unit" gorm:"size:200;not null;uniqueIndex:idx_ingredient_name_unit" yaml:"measurement_unit"`
}

// Recipe is the central shared record
type Recipe struct {
	ID          uint               `gorm:"primaryKey"`
	AuthorID    uint               `gorm:"not null;index"`
	Author      User               `gorm:"foreignKey:AuthorID;constraint:OnDelete:CASCADE"`
	Name        string             `gorm:"size:200;not null"`
	Image       string             `gorm:"type:text"`
	Text        string             `gorm:"type:text;not null"`
	CookingTime int                `gorm:"not null"`
	Tags        []Tag              `gorm:"many2many:recipe_tags;constraint:OnDelete:CASCADE"`
	Ingredients []RecipeIngredient `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
	CreatedAt   time.Time          `gorm:"index"`
}

// RecipeIngredient is the amount of one ingredient used by one recipe
type RecipeIngredient struct {
	ID           uint            `gorm:"primaryKey"`
	RecipeID     uint            `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	IngredientID uint            `gorm:"not null;uniqueIndex:idx_recipe_ingredient"`
	Ingredient   Ingredient      `gorm:"foreignKey:IngredientID;constraint:OnDelete:CASCADE"`
	Amount       decimal.Decimal `gorm:"type:numeric(10,2);not null"`
}

// Favorite is a recipe marked by a user
type Favorite struct {
	ID       uint   `gorm:"primaryKey"`
	UserID   uint   `gorm:"not null;uniqueIndex:idx_favorite_user_recipe"`
	RecipeID uint   `gorm:"not null;uniqueIndex:idx_favorite_user_recipe;index"`
	User     User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe   Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// ShoppingCart is a recipe queued by a user for ingredient aggregation
type ShoppingCart struct {
	ID       uint   `gorm:"primaryKey"`
	UserID   uint   `gorm:"not null;uniqueIndex:idx_cart_user_recipe"`
	RecipeID uint   `gorm:"not null;uniqueIndex:idx_cart_user_recipe;index"`
	User     User   `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	Recipe   Recipe `gorm:"foreignKey:RecipeID;constraint:OnDelete:CASCADE"`
}

// All returns every persisted model, in migration order.
func All() []interface{} {
	return []interface{}{
		&User{},
		&Subscription{},
		&Tag{},
		&Ingredient{},
		&Recipe{},
		&RecipeIngredient{},
		&Favorite{},
		&ShoppingCart{},
	}
}
