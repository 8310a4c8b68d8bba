package recipes

import (
	"context"
	"fmt"

	"github.com/Aidin1998/foodgram/common/dbutil"
	"github.com/Aidin1998/foodgram/pkg/errors"
	"github.com/Aidin1998/foodgram/pkg/metrics"
	"github.com/Aidin1998/foodgram/pkg/models"
	"gorm.io/gorm"
)

// Relation is a per-user list of recipes
type Relation string

const (
	Favorites    Relation = "favorite"
	ShoppingCart Relation = "shopping_cart"
)

// row returns the model backing the relation
func (r Relation) row(userID, recipeID uint) interface{} {
	switch r {
	case ShoppingCart:
		return &models.ShoppingCart{UserID: userID, RecipeID: recipeID}
	default:
		return &models.Favorite{UserID: userID, RecipeID: recipeID}
	}
}

func (r Relation) label() string {
	if r == ShoppingCart {
		return "shopping cart"
	}
	return "favorites"
}

// AddRelation puts the recipe into the user's relation. A missing recipe is a validation error here, not a 404.
func (s *Service) AddRelation(ctx context.Context, rel Relation, userID, recipeID uint) (*models.RecipeShort, error) {
	var short models.RecipeShort
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		recipe, err := dbutil.FindOne[models.Recipe](tx.Where("id = ?", recipeID))
		if err != nil {
			if errors.Is(err, errors.NotFound) {
				return errors.Invalid.Explain("recipe with this id does not exist")
			}
			return err
		}

		exists, err := dbutil.Exists(tx.Model(rel.row(0, 0)).Where("user_id = ? AND recipe_id = ?", userID, recipeID))
		if err != nil {
			return err
		}
		alreadyAdded := errors.Invalid.Explain("recipe already added to %s", rel.label())
		if exists {
			return alreadyAdded
		}

		if err := tx.Create(rel.row(userID, recipeID)).Error; err != nil {
			err = dbutil.WrapError(err)
			if errors.Is(err, errors.Conflict) {
				return alreadyAdded
			}
			return fmt.Errorf("failed to add recipe to %s: %w", rel.label(), err)
		}
		short = models.NewRecipeShort(recipe)
		return nil
	})
	if err != nil {
		return nil, err
	}

	metrics.RecipeRelations.WithLabelValues(string(rel), "add").Inc()
	return &short, nil
}

// RemoveRelation takes the recipe out of the user's relation
func (s *Service) RemoveRelation(ctx context.Context, rel Relation, userID, recipeID uint) error {
	db := s.db.WithContext(ctx)
	exists, err := dbutil.Exists(db.Model(&models.Recipe{}).Where("id = ?", recipeID))
	if err != nil {
		return err
	}
	if !exists {
		return errors.NotFound.Explain("recipe not found")
	}

	result := db.Where("user_id = ? AND recipe_id = ?", userID, recipeID).Delete(rel.row(0, 0))
	if result.Error != nil {
		return fmt.Errorf("failed to remove recipe from %s: %w", rel.label(), result.Error)
	}
	if result.RowsAffected == 0 {
		return errors.Invalid.Explain("recipe is not in %s", rel.label())
	}

	metrics.RecipeRelations.WithLabelValues(string(rel), "remove").Inc()
	return nil
}
