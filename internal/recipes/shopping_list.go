package recipes

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"sort"

	"github.com/Aidin1998/foodgram/pkg/errors"
	"github.com/Aidin1998/foodgram/pkg/metrics"
	"github.com/Aidin1998/foodgram/pkg/models"
	"github.com/shopspring/decimal"
)

// ShoppingListFormat selects how a shopping list is rendered
type ShoppingListFormat string

const (
	FormatText ShoppingListFormat = "txt"
	FormatCSV  ShoppingListFormat = "csv"
)

// ParseShoppingListFormat maps the format query parameter, defaulting to text
func ParseShoppingListFormat(value string) (ShoppingListFormat, error) {
	switch ShoppingListFormat(value) {
	case "", FormatText:
		return FormatText, nil
	case FormatCSV:
		return FormatCSV, nil
	}
	return "", errors.Invalid.Explain("unsupported format %q", value).
		WithField("oneof", "format", "format must be txt or csv")
}

// ShoppingList sums the ingredients of every recipe in the user's cart, grouped by name and unit
func (s *Service) ShoppingList(ctx context.Context, userID uint) ([]models.ShoppingListLine, error) {
	db := s.db.WithContext(ctx)

	var recipeIDs []uint
	if err := db.Model(&models.ShoppingCart{}).Where("user_id = ?", userID).Pluck("recipe_id", &recipeIDs).Error; err != nil {
		return nil, fmt.Errorf("failed to load shopping cart: %w", err)
	}
	if len(recipeIDs) == 0 {
		return []models.ShoppingListLine{}, nil
	}

	var rows []models.RecipeIngredient
	if err := db.Preload("Ingredient").Where("recipe_id IN ?", recipeIDs).Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("failed to load recipe ingredients: %w", err)
	}
	return aggregate(rows), nil
}

type lineKey struct {
	name string
	unit string
}

func aggregate(rows []models.RecipeIngredient) []models.ShoppingListLine {
	totals := make(map[lineKey]decimal.Decimal)
	for _, row := range rows {
		key := lineKey{name: row.Ingredient.Name, unit: row.Ingredient.MeasurementUnit}
		totals[key] = totals[key].Add(row.Amount)
	}

	lines := make([]models.ShoppingListLine, 0, len(totals))
	for key, amount := range totals {
		lines = append(lines, models.ShoppingListLine{Name: key.name, MeasurementUnit: key.unit, Amount: amount})
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Name != lines[j].Name {
			return lines[i].Name < lines[j].Name
		}
		return lines[i].MeasurementUnit < lines[j].MeasurementUnit
	})
	return lines
}

// RenderShoppingList returns the attachment file name, content type and body
func RenderShoppingList(lines []models.ShoppingListLine, format ShoppingListFormat) (string, string, []byte, error) {
	var buf bytes.Buffer
	switch format {
	case FormatCSV:
		w := csv.NewWriter(&buf)
		if err := w.Write([]string{"ingredient", "measurement_unit", "amount"}); err != nil {
			return "", "", nil, fmt.Errorf("failed to write csv: %w", err)
		}
		for _, line := range lines {
			if err := w.Write([]string{line.Name, line.MeasurementUnit, line.Amount.String()}); err != nil {
				return "", "", nil, fmt.Errorf("failed to write csv: %w", err)
			}
		}
		w.Flush()
		if err := w.Error(); err != nil {
			return "", "", nil, fmt.Errorf("failed to write csv: %w", err)
		}
		metrics.ShoppingListDownloads.WithLabelValues(string(FormatCSV)).Inc()
		return "shopping_list.csv", "text/csv; charset=utf-8", buf.Bytes(), nil
	default:
		buf.WriteString("Shopping list\n\n")
		for i, line := range lines {
			fmt.Fprintf(&buf, "%d. %s (%s) - %s\n", i+1, line.Name, line.MeasurementUnit, line.Amount.String())
		}
		metrics.ShoppingListDownloads.WithLabelValues(string(FormatText)).Inc()
		return "shopping_list.txt", "text/plain; charset=utf-8", buf.Bytes(), nil
	}
}
