package identities

import (
	"context"
	"fmt"

	"github.com/Aidin1998/foodgram/common/dbutil"
	"github.com/Aidin1998/foodgram/pkg/errors"
	"github.com/Aidin1998/foodgram/pkg/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Subscribe makes userID follow authorID
func (s *Service) Subscribe(ctx context.Context, userID, authorID uint, recipesLimit int) (*models.AuthorResponse, error) {
	var resp *models.AuthorResponse
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		author, err := s.findAuthor(tx, authorID)
		if err != nil {
			return err
		}
		if author.ID == userID {
			return errors.Invalid.Explain("you cannot subscribe to yourself")
		}

		exists, err := dbutil.Exists(tx.Model(&models.Subscription{}).
			Where("user_id = ? AND author_id = ?", userID, authorID))
		if err != nil {
			return err
		}
		if exists {
			return errors.Invalid.Explain("you are already subscribed to this author")
		}

		if err := tx.Create(&models.Subscription{UserID: userID, AuthorID: authorID}).Error; err != nil {
			err = dbutil.WrapError(err)
			if errors.Is(err, errors.Conflict) {
				return errors.Invalid.Explain("you are already subscribed to this author")
			}
			return fmt.Errorf("failed to subscribe: %w", err)
		}

		authorResp, err := s.authorResponse(tx, author, recipesLimit)
		if err != nil {
			return err
		}
		resp = &authorResp
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Debug("subscribed", zap.Uint("user_id", userID), zap.Uint("author_id", authorID))
	return resp, nil
}

// Unsubscribe removes the subscription of userID to authorID
func (s *Service) Unsubscribe(ctx context.Context, userID, authorID uint) error {
	db := s.db.WithContext(ctx)
	if _, err := s.findAuthor(db, authorID); err != nil {
		return err
	}

	result := db.Where("user_id = ? AND author_id = ?", userID, authorID).Delete(&models.Subscription{})
	if result.Error != nil {
		return fmt.Errorf("failed to unsubscribe: %w", dbutil.WrapError(result.Error))
	}
	if result.RowsAffected == 0 {
		return errors.Invalid.Explain("you are not subscribed to this author")
	}
	return nil
}

// ListSubscriptions returns a page of the authors userID follows, each with a preview of their recipes
func (s *Service) ListSubscriptions(ctx context.Context, userID uint, page, limit, recipesLimit int) ([]models.AuthorResponse, int64, error) {
	db := s.db.WithContext(ctx)
	followed := func() *gorm.DB {
		return db.Model(&models.User{}).
			Joins("JOIN subscriptions ON subscriptions.author_id = users.id").
			Where("subscriptions.user_id = ?", userID)
	}

	var total int64
	if err := followed().Count(&total).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to count subscriptions: %w", err)
	}

	var authors []models.User
	if err := followed().Order("users.id").Scopes(dbutil.Paginate(page, limit)).Find(&authors).Error; err != nil {
		return nil, 0, fmt.Errorf("failed to list subscriptions: %w", err)
	}

	result := make([]models.AuthorResponse, 0, len(authors))
	for i := range authors {
		resp, err := s.authorResponse(db, &authors[i], recipesLimit)
		if err != nil {
			return nil, 0, err
		}
		result = append(result, resp)
	}
	return result, total, nil
}

func (s *Service) findAuthor(db *gorm.DB, authorID uint) (*models.User, error) {
	author, err := dbutil.FindOne[models.User](db.Where("id = ?", authorID))
	if err != nil {
		if errors.Is(err, errors.NotFound) {
			return nil, errors.NotFound.Explain("user not found")
		}
		return nil, err
	}
	return author, nil
}

// authorResponse renders a followed author. A non-positive recipesLimit returns every recipe.
func (s *Service) authorResponse(db *gorm.DB, author *models.User, recipesLimit int) (models.AuthorResponse, error) {
	resp := models.AuthorResponse{UserResponse: models.NewUserResponse(author, true)}

	if err := db.Model(&models.Recipe{}).Where("author_id = ?", author.ID).Count(&resp.RecipesCount).Error; err != nil {
		return resp, fmt.Errorf("failed to count recipes: %w", err)
	}

	query := db.Where("author_id = ?", author.ID).Order("created_at DESC, id DESC")
	if recipesLimit > 0 {
		query = query.Limit(recipesLimit)
	}
	var recipes []models.Recipe
	if err := query.Find(&recipes).Error; err != nil {
		return resp, fmt.Errorf("failed to load recipes: %w", err)
	}

	resp.Recipes = make([]models.RecipeShort, 0, len(recipes))
	for i := range recipes {
		resp.Recipes = append(resp.Recipes, models.NewRecipeShort(&recipes[i]))
	}
	return resp, nil
}
