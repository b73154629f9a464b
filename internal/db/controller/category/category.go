// Package category provides read operations and the API document shape for
// material categories. Categories are seeded at startup and never mutated
// through this API.
package category

import (
	"errors"

	"gorm.io/gorm"

	"github.com/materialdesk/materialdesk/internal/db/models"
)

var (
	// ErrCategoryNotFound is returned when a category is not found.
	ErrCategoryNotFound = errors.New("category not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

// Document is the full API representation of a category.
type Document struct {
	ID   uint64 `json:"id"`
	Name string `json:"name"`
}

// ToDocument maps a category row to its API representation.
func ToDocument(c models.Category) Document {
	return Document{
		ID:   c.ID,
		Name: c.Name,
	}
}

// GetAll retrieves all categories ordered by id.
func GetAll(db *gorm.DB) ([]models.Category, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var categories []models.Category

	result := db.Order("id").Find(&categories)
	if result.Error != nil {
		return nil, result.Error
	}

	return categories, nil
}

// GetByID retrieves a category by its ID.
func GetByID(db *gorm.DB, id uint64) (*models.Category, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var c models.Category

	result := db.First(&c, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrCategoryNotFound
		}

		return nil, result.Error
	}

	return &c, nil
}
