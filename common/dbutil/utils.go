package dbutil

import (
	"github.com/Aidin1998/foodgram/pkg/errors"
	"gorm.io/gorm"
)

func FindOne[T any](db *gorm.DB) (*T, error) {
	var item T
	result := db.Limit(1).Find(&item)
	if result.Error != nil {
		return nil, WrapError(result.Error)
	}
	if result.RowsAffected == 0 {
		return nil, errors.NotFound
	}
	return &item, nil
}

// Exists reports whether the scoped query matches at least one row.
func Exists(db *gorm.DB) (bool, error) {
	var count int64
	if err := db.Count(&count).Error; err != nil {
		return false, WrapError(err)
	}
	return count > 0, nil
}

// Paginate returns a scope selecting the given 1-based page.
func Paginate(page, limit int) func(*gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		if page < 1 {
			page = 1
		}
		return db.Offset((page - 1) * limit).Limit(limit)
	}
}
