package recipes

import (
	"context"
	"fmt"

	"github.com/Aidin1998/foodgram/common/dbutil"
	"github.com/Aidin1998/foodgram/pkg/errors"
	"github.com/Aidin1998/foodgram/pkg/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// filtered returns the recipe query narrowed by the list filters
func (s *Service) filtered(db *gorm.DB, viewerID uint, filter *models.RecipeFilter) *gorm.DB {
	query := db.Model(&models.Recipe{})
	if filter.Author != 0 {
		query = query.Where("recipes.author_id = ?", filter.Author)
	}
	if len(filter.Tags) > 0 {
		tagged := db.Table("recipe_tags").
			Select("recipe_tags.recipe_id").
			Joins("JOIN tags ON tags.id = recipe_tags.tag_id").
			Where("tags.slug IN ?", filter.Tags)
		query = query.Where("recipes.id IN (?)", tagged)
	}
	// relation filters only make sense for a known user
	if viewerID != 0 {
		query = relationFilter(db, query, Favorites, viewerID, filter.IsFavorited)
		query = relationFilter(db, query, ShoppingCart, viewerID, filter.IsInShoppingCart)
	}
	return query
}

func relationFilter(db, query *gorm.DB, rel Relation, viewerID uint, want *bool) *gorm.DB {
	if want == nil {
		return query
	}
	related := db.Model(rel.row(0, 0)).Select("recipe_id").Where("user_id = ?", viewerID)
	if *want {
		return query.Where("recipes.id IN (?)", related)
	}
	return query.Where("recipes.id NOT IN (?)", related)
}

// withDetails preloads everything the read representation needs
func withDetails(db *gorm.DB) *gorm.DB {
	return db.
		Preload("Author").
		Preload("Tags", func(db *gorm.DB) *gorm.DB { return db.Order("tags.id") }).
		Preload("Ingredients", func(db *gorm.DB) *gorm.DB { return db.Order("recipe_ingredients.id") }).
		Preload("Ingredients.Ingredient")
}

// ListRecipes returns a page of recipes, newest first
func (s *Service) ListRecipes(ctx context.Context, viewerID uint, filter *models.RecipeFilter) ([]models.RecipeResponse, int64, error) {
	db := s.db.WithContext(ctx)

	var total int64
	if err := s.filtered(db, viewerID, filter).Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count recipes: %w", err)
	}

	var recipes []models.Recipe
	err := withDetails(s.filtered(db, viewerID, filter)).
		Order("recipes.created_at DESC").Order("recipes.id DESC").
		Scopes(dbutil.Paginate(filter.Page, filter.Limit)).
		Find(&recipes).Error
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list recipes: %w", err)
	}

	result, err := s.render(db, viewerID, recipes)
	if err != nil {
		return nil, 0, err
	}
	return result, total, nil
}

// GetRecipe returns one recipe in its read representation
func (s *Service) GetRecipe(ctx context.Context, viewerID, id uint) (*models.RecipeResponse, error) {
	return s.getRecipe(s.db.WithContext(ctx), viewerID, id)
}

func (s *Service) getRecipe(db *gorm.DB, viewerID, id uint) (*models.RecipeResponse, error) {
	recipe, err := dbutil.FindOne[models.Recipe](withDetails(db).Where("id = ?", id))
	if err != nil {
		if errors.Is(err, errors.NotFound) {
			return nil, errors.NotFound.Explain("recipe not found")
		}
		return nil, err
	}
	result, err := s.render(db, viewerID, []models.Recipe{*recipe})
	if err != nil {
		return nil, err
	}
	return &result[0], nil
}

// CreateRecipe stores a new recipe authored by authorID
func (s *Service) CreateRecipe(ctx context.Context, authorID uint, req *models.RecipeRequest) (*models.RecipeResponse, error) {
	var resp *models.RecipeResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		input, err := s.validateRecipe(tx, req, true)
		if err != nil {
			return err
		}

		recipe := &models.Recipe{
			AuthorID:    authorID,
			Name:        input.name,
			Image:       input.image,
			Text:        input.text,
			CookingTime: input.cookingTime,
			Tags:        input.tags,
		}
		if err := tx.Omit("Tags.*", "Ingredients").Create(recipe).Error; err != nil {
			return fmt.Errorf("failed to create recipe: %w", dbutil.WrapError(err))
		}
		if err := saveIngredients(tx, recipe.ID, input.ingredients); err != nil {
			return err
		}

		resp, err = s.getRecipe(tx, authorID, recipe.ID)
		return err
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("recipe created", zap.Uint("recipe_id", resp.ID), zap.Uint("author_id", authorID))
	return resp, nil
}

// CheckAuthor fails with NotFound for a missing recipe and Forbidden when userID is not its author
func (s *Service) CheckAuthor(ctx context.Context, userID, id uint) error {
	_, err := s.ownedRecipe(s.db.WithContext(ctx), userID, id)
	return err
}

func (s *Service) ownedRecipe(db *gorm.DB, userID, id uint) (*models.Recipe, error) {
	recipe, err := dbutil.FindOne[models.Recipe](db.Where("id = ?", id))
	if err != nil {
		if errors.Is(err, errors.NotFound) {
			return nil, errors.NotFound.Explain("recipe not found")
		}
		return nil, err
	}
	if recipe.AuthorID != userID {
		return nil, errors.Forbidden.Explain("only the author can change this recipe")
	}
	return recipe, nil
}

// UpdateRecipe applies a partial update. Tags and ingredients, when sent, replace the stored sets.
func (s *Service) UpdateRecipe(ctx context.Context, userID, id uint, req *models.RecipeRequest) (*models.RecipeResponse, error) {
	var resp *models.RecipeResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := s.ownedRecipe(tx, userID, id)
		if err != nil {
			return err
		}
		input, err := s.validateRecipe(tx, req, false)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if req.Name != nil {
			updates["name"] = input.name
		}
		if req.Text != nil {
			updates["text"] = input.text
		}
		if req.Image != nil {
			updates["image"] = input.image
		}
		if req.CookingTime != nil {
			updates["cooking_time"] = input.cookingTime
		}
		if len(updates) > 0 {
			if err := tx.Model(recipe).Updates(updates).Error; err != nil {
				return fmt.Errorf("failed to update recipe: %w", dbutil.WrapError(err))
			}
		}

		if req.Tags != nil {
			if err := tx.Model(recipe).Association("Tags").Replace(input.tags); err != nil {
				return fmt.Errorf("failed to replace tags: %w", err)
			}
		}
		if req.Ingredients != nil {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(&models.RecipeIngredient{}).Error; err != nil {
				return fmt.Errorf("failed to clear ingredients: %w", err)
			}
			if err := saveIngredients(tx, recipe.ID, input.ingredients); err != nil {
				return err
			}
		}

		resp, err = s.getRecipe(tx, userID, recipe.ID)
		return err
	})
	if err != nil {
		return nil, err
	}
	return resp, nil
}

// DeleteRecipe removes a recipe together with its ingredient lines and relations
func (s *Service) DeleteRecipe(ctx context.Context, userID, id uint) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := s.ownedRecipe(tx, userID, id)
		if err != nil {
			return err
		}
		for _, rel := range []Relation{Favorites, ShoppingCart} {
			if err := tx.Where("recipe_id = ?", recipe.ID).Delete(rel.row(0, 0)).Error; err != nil {
				return fmt.Errorf("failed to delete %s: %w", rel, err)
			}
		}
		if err := tx.Select("Tags", "Ingredients").Delete(recipe).Error; err != nil {
			return fmt.Errorf("failed to delete recipe: %w", err)
		}
		return nil
	})
	if err != nil {
		return err
	}

	s.logger.Info("recipe deleted", zap.Uint("recipe_id", id), zap.Uint("author_id", userID))
	return nil
}

func saveIngredients(tx *gorm.DB, recipeID uint, lines []models.RecipeIngredient) error {
	if len(lines) == 0 {
		return nil
	}
	for i := range lines {
		lines[i].RecipeID = recipeID
	}
	if err := tx.Omit("Ingredient").Create(&lines).Error; err != nil {
		return fmt.Errorf("failed to save ingredients: %w", dbutil.WrapError(err))
	}
	return nil
}

// viewerState holds what the caller has related to a batch of recipes
type viewerState struct {
	favorited  map[uint]bool
	inCart     map[uint]bool
	subscribed map[uint]bool
}

func (s *Service) loadViewerState(db *gorm.DB, viewerID uint, recipes []models.Recipe) (viewerState, error) {
	state := viewerState{
		favorited:  map[uint]bool{},
		inCart:     map[uint]bool{},
		subscribed: map[uint]bool{},
	}
	if viewerID == 0 || len(recipes) == 0 {
		return state, nil
	}

	recipeIDs := make([]uint, 0, len(recipes))
	authorIDs := make([]uint, 0, len(recipes))
	for _, r := range recipes {
		recipeIDs = append(recipeIDs, r.ID)
		authorIDs = append(authorIDs, r.AuthorID)
	}

	for rel, into := range map[Relation]map[uint]bool{Favorites: state.favorited, ShoppingCart: state.inCart} {
		var ids []uint
		err := db.Model(rel.row(0, 0)).
			Where("user_id = ? AND recipe_id IN ?", viewerID, recipeIDs).
			Pluck("recipe_id", &ids).Error
		if err != nil {
			return state, fmt.Errorf("failed to load %s: %w", rel, err)
		}
		for _, id := range ids {
			into[id] = true
		}
	}

	var followed []uint
	err := db.Model(&models.Subscription{}).
		Where("user_id = ? AND author_id IN ?", viewerID, authorIDs).
		Pluck("author_id", &followed).Error
	if err != nil {
		return state, fmt.Errorf("failed to load subscriptions: %w", err)
	}
	for _, id := range followed {
		state.subscribed[id] = true
	}
	return state, nil
}

// render converts preloaded recipes into their read representation for the viewer
func (s *Service) render(db *gorm.DB, viewerID uint, recipes []models.Recipe) ([]models.RecipeResponse, error) {
	state, err := s.loadViewerState(db, viewerID, recipes)
	if err != nil {
		return nil, err
	}

	result := make([]models.RecipeResponse, 0, len(recipes))
	for i := range recipes {
		r := &recipes[i]
		tags := r.Tags
		if tags == nil {
			tags = []models.Tag{}
		}
		ingredients := make([]models.RecipeIngredientResponse, 0, len(r.Ingredients))
		for _, line := range r.Ingredients {
			ingredients = append(ingredients, models.RecipeIngredientResponse{
				ID:              line.IngredientID,
				Name:            line.Ingredient.Name,
				MeasurementUnit: line.Ingredient.MeasurementUnit,
				Amount:          line.Amount,
			})
		}
		result = append(result, models.RecipeResponse{
			ID:               r.ID,
			Tags:             tags,
			Author:           models.NewUserResponse(&r.Author, state.subscribed[r.AuthorID]),
			Ingredients:      ingredients,
			IsFavorited:      state.favorited[r.ID],
			IsInShoppingCart: state.inCart[r.ID],
			Name:             r.Name,
			Image:            r.Image,
			Text:             r.Text,
			CookingTime:      r.CookingTime,
		})
	}
	return result, nil
}
