package recipes

import (
	"fmt"

	"github.com/Aidin1998/foodgram/pkg/errors"
	"github.com/Aidin1998/foodgram/pkg/models"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const maxNameLength = 200

// amounts are stored as numeric(10,2)
var maxAmount = decimal.New(1, 8)

// recipeInput is a checked and sanitised recipe write
type recipeInput struct {
	name        string
	text        string
	image       string
	cookingTime int
	tags        []models.Tag
	ingredients []models.RecipeIngredient
}

// validateRecipe checks a write request against the catalog. On create every field is required;
// on update only the sent fields are checked.
func (s *Service) validateRecipe(tx *gorm.DB, req *models.RecipeRequest, create bool) (*recipeInput, error) {
	input := &recipeInput{}
	invalid := errors.Invalid.Explain("invalid recipe")
	failed := false
	fail := func(kind, field, message string) {
		invalid = invalid.WithField(kind, field, message)
		failed = true
	}

	if create {
		required := map[string]bool{
			"ingredients":  req.Ingredients == nil,
			"tags":         req.Tags == nil,
			"image":        req.Image == nil,
			"name":         req.Name == nil,
			"text":         req.Text == nil,
			"cooking_time": req.CookingTime == nil,
		}
		for _, field := range []string{"ingredients", "tags", "image", "name", "text", "cooking_time"} {
			if required[field] {
				fail("required", field, field+" is required")
			}
		}
	}

	if req.Name != nil {
		input.name = s.sanitizer.Sanitize(*req.Name)
		switch {
		case input.name == "":
			fail("required", "name", "name must not be blank")
		case len([]rune(input.name)) > maxNameLength:
			fail("max", "name", fmt.Sprintf("name must be at most %d characters long", maxNameLength))
		}
	}
	if req.Text != nil {
		input.text = s.sanitizer.Sanitize(*req.Text)
		if input.text == "" {
			fail("required", "text", "text must not be blank")
		}
	}
	if req.Image != nil {
		input.image = *req.Image
		if input.image == "" {
			fail("required", "image", "image must not be blank")
		}
	}
	if req.CookingTime != nil {
		input.cookingTime = *req.CookingTime
		if input.cookingTime < 1 {
			fail("min", "cooking_time", "cooking_time must be at least 1")
		}
	}

	if req.Tags != nil {
		tags, kind, message, err := loadTags(tx, *req.Tags)
		if err != nil {
			return nil, err
		}
		if message != "" {
			fail(kind, "tags", message)
		}
		input.tags = tags
	}
	if req.Ingredients != nil {
		lines, kind, message, err := loadIngredients(tx, *req.Ingredients)
		if err != nil {
			return nil, err
		}
		if message != "" {
			fail(kind, "ingredients", message)
		}
		input.ingredients = lines
	}

	if failed {
		return nil, invalid
	}
	return input, nil
}

// loadTags resolves tag ids. A non-empty message reports a validation failure.
func loadTags(tx *gorm.DB, ids []uint) ([]models.Tag, string, string, error) {
	if len(ids) == 0 {
		return nil, "required", "at least one tag is required", nil
	}
	seen := make(map[uint]bool, len(ids))
	for _, id := range ids {
		if seen[id] {
			return nil, "unique", fmt.Sprintf("tag %d is listed more than once", id), nil
		}
		seen[id] = true
	}

	var tags []models.Tag
	if err := tx.Where("id IN ?", ids).Order("id").Find(&tags).Error; err != nil {
		return nil, "", "", fmt.Errorf("failed to load tags: %w", err)
	}
	if len(tags) != len(ids) {
		found := make(map[uint]bool, len(tags))
		for _, t := range tags {
			found[t.ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				return nil, "does_not_exist", fmt.Sprintf("tag %d does not exist", id), nil
			}
		}
	}
	return tags, "", "", nil
}

// loadIngredients resolves ingredient lines. A non-empty message reports a validation failure.
func loadIngredients(tx *gorm.DB, items []models.IngredientAmount) ([]models.RecipeIngredient, string, string, error) {
	if len(items) == 0 {
		return nil, "required", "at least one ingredient is required", nil
	}

	ids := make([]uint, 0, len(items))
	seen := make(map[uint]bool, len(items))
	for _, item := range items {
		if seen[item.ID] {
			return nil, "unique", fmt.Sprintf("ingredient %d is listed more than once", item.ID), nil
		}
		seen[item.ID] = true
		if !item.Amount.GreaterThan(decimal.Zero) {
			return nil, "min", fmt.Sprintf("amount of ingredient %d must be greater than zero", item.ID), nil
		}
		if !item.Amount.Equal(item.Amount.Round(2)) {
			return nil, "decimal_places", fmt.Sprintf("amount of ingredient %d has more than 2 decimal places", item.ID), nil
		}
		if item.Amount.GreaterThanOrEqual(maxAmount) {
			return nil, "max", fmt.Sprintf("amount of ingredient %d must be less than %s", item.ID, maxAmount), nil
		}
		ids = append(ids, item.ID)
	}

	var count int64
	if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Count(&count).Error; err != nil {
		return nil, "", "", fmt.Errorf("failed to load ingredients: %w", err)
	}
	if count != int64(len(ids)) {
		var existing []uint
		if err := tx.Model(&models.Ingredient{}).Where("id IN ?", ids).Pluck("id", &existing).Error; err != nil {
			return nil, "", "", fmt.Errorf("failed to load ingredients: %w", err)
		}
		found := make(map[uint]bool, len(existing))
		for _, id := range existing {
			found[id] = true
		}
		for _, id := range ids {
			if !found[id] {
				return nil, "does_not_exist", fmt.Sprintf("ingredient %d does not exist", id), nil
			}
		}
	}

	lines := make([]models.RecipeIngredient, 0, len(items))
	for _, item := range items {
		lines = append(lines, models.RecipeIngredient{IngredientID: item.ID, Amount: item.Amount})
	}
	return lines, "", "", nil
}
