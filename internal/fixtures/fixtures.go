// Package fixtures seeds the ingredient and tag catalogs from JSON or YAML files.
package fixtures

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/Aidin1998/foodgram/pkg/models"
	"github.com/Aidin1998/foodgram/pkg/validation"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Result reports what a load did
type Result struct {
	Created int
	Skipped int
}

// Loader writes fixture rows, skipping the ones that already exist
type Loader struct {
	logger *zap.Logger
	db     *gorm.DB
}

func NewLoader(logger *zap.Logger, db *gorm.DB) *Loader {
	return &Loader{logger: logger, db: db}
}

// decode reads a list from path. Files ending in .yaml or .yml are YAML, everything else JSON.
func decode[T any](path string) ([]T, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read fixture %s: %w", path, err)
	}

	var items []T
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &items)
	default:
		err = json.Unmarshal(data, &items)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to decode fixture %s: %w", path, err)
	}
	return items, nil
}

// LoadIngredients inserts the ingredients listed in path
func (l *Loader) LoadIngredients(ctx context.Context, path string) (*Result, error) {
	items, err := decode[models.Ingredient](path)
	if err != nil {
		return nil, err
	}

	rows := make([]models.Ingredient, 0, len(items))
	for i, item := range items {
		item.ID = 0
		item.Name = strings.TrimSpace(item.Name)
		item.MeasurementUnit = strings.TrimSpace(item.MeasurementUnit)
		if item.Name == "" || item.MeasurementUnit == "" {
			return nil, fmt.Errorf("ingredient #%d: name and measurement_unit are required", i+1)
		}
		rows = append(rows, item)
	}
	return load(ctx, l, "ingredients", rows)
}

// LoadTags inserts the tags listed in path
func (l *Loader) LoadTags(ctx context.Context, path string) (*Result, error) {
	items, err := decode[models.Tag](path)
	if err != nil {
		return nil, err
	}

	rows := make([]models.Tag, 0, len(items))
	for i, item := range items {
		item.ID = 0
		if strings.TrimSpace(item.Name) == "" {
			return nil, fmt.Errorf("tag #%d: name is required", i+1)
		}
		if !validation.IsSlug(item.Slug) {
			return nil, fmt.Errorf("tag %q: invalid slug %q", item.Name, item.Slug)
		}
		if !validation.IsColor(item.Color) {
			return nil, fmt.Errorf("tag %q: invalid color %q", item.Name, item.Color)
		}
		rows = append(rows, item)
	}
	return load(ctx, l, "tags", rows)
}

// load inserts rows in one transaction. Rows hitting a unique index are skipped.
func load[T any](ctx context.Context, l *Loader, kind string, rows []T) (*Result, error) {
	created := 0
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		for i := range rows {
			result := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows[i])
			if result.Error != nil {
				return result.Error
			}
			created += int(result.RowsAffected)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", kind, err)
	}

	res := &Result{Created: created, Skipped: len(rows) - created}
	l.logger.Info("fixtures loaded",
		zap.String("kind", kind),
		zap.Int("created", res.Created),
		zap.Int("skipped", res.Skipped))
	return res, nil
}
