// Package recipes serves tags, ingredients, recipes and the per-user favorite and shopping cart relations.
package recipes

import (
	"context"
	"fmt"
	"strings"

	"github.com/Aidin1998/foodgram/common/dbutil"
	"github.com/Aidin1998/foodgram/pkg/errors"
	"github.com/Aidin1998/foodgram/pkg/models"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// RecipeService defines the catalog and recipe operations.
// A viewer id of 0 means an anonymous caller.
type RecipeService interface {
	ListTags(ctx context.Context) ([]models.Tag, error)
	GetTag(ctx context.Context, id uint) (*models.Tag, error)
	ListIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error)
	GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error)

	ListRecipes(ctx context.Context, viewerID uint, filter *models.RecipeFilter) ([]models.RecipeResponse, int64, error)
	GetRecipe(ctx context.Context, viewerID, id uint) (*models.RecipeResponse, error)
	CreateRecipe(ctx context.Context, authorID uint, req *models.RecipeRequest) (*models.RecipeResponse, error)
	CheckAuthor(ctx context.Context, userID, id uint) error
	UpdateRecipe(ctx context.Context, userID, id uint, req *models.RecipeRequest) (*models.RecipeResponse, error)
	DeleteRecipe(ctx context.Context, userID, id uint) error

	AddRelation(ctx context.Context, rel Relation, userID, recipeID uint) (*models.RecipeShort, error)
	RemoveRelation(ctx context.Context, rel Relation, userID, recipeID uint) error
	ShoppingList(ctx context.Context, userID uint) ([]models.ShoppingListLine, error)
}

// Sanitizer cleans user supplied free text
type Sanitizer interface {
	Sanitize(input string) string
}

// Service implements RecipeService on top of gorm
type Service struct {
	logger    *zap.Logger
	db        *gorm.DB
	sanitizer Sanitizer
}

var _ RecipeService = (*Service)(nil)

// NewService creates a new RecipeService
func NewService(logger *zap.Logger, db *gorm.DB, sanitizer Sanitizer) *Service {
	return &Service{
		logger:    logger,
		db:        db,
		sanitizer: sanitizer,
	}
}

// ListTags returns every tag ordered by id
func (s *Service) ListTags(ctx context.Context) ([]models.Tag, error) {
	var tags []models.Tag
	if err := s.db.WithContext(ctx).Order("id").Find(&tags).Error; err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	return tags, nil
}

func (s *Service) GetTag(ctx context.Context, id uint) (*models.Tag, error) {
	tag, err := dbutil.FindOne[models.Tag](s.db.WithContext(ctx).Where("id = ?", id))
	if errors.Is(err, errors.NotFound) {
		return nil, errors.NotFound.Explain("tag not found")
	}
	return tag, err
}

// ListIngredients returns ingredients ordered by name. A non-empty prefix keeps
// only the ingredients whose name starts with it, ignoring case.
func (s *Service) ListIngredients(ctx context.Context, namePrefix string) ([]models.Ingredient, error) {
	query := s.db.WithContext(ctx).Order("name").Order("id")
	if prefix := strings.TrimSpace(namePrefix); prefix != "" {
		query = query.Where("LOWER(name) LIKE ? ESCAPE '\\'", escapeLike(strings.ToLower(prefix))+"%")
	}

	var ingredients []models.Ingredient
	if err := query.Find(&ingredients).Error; err != nil {
		return nil, fmt.Errorf("failed to list ingredients: %w", err)
	}
	return ingredients, nil
}

func (s *Service) GetIngredient(ctx context.Context, id uint) (*models.Ingredient, error) {
	ingredient, err := dbutil.FindOne[models.Ingredient](s.db.WithContext(ctx).Where("id = ?", id))
	if errors.Is(err, errors.NotFound) {
		return nil, errors.NotFound.Explain("ingredient not found")
	}
	return ingredient, err
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}
