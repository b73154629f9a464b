// Package collection manages the material↔user junction rows representing a
// user's personal collection. Collecting is independent of ownership: the
// owner's link is created with the material itself, everyone else's through
// Add.
package collection

import (
	"errors"

	"gorm.io/gorm"

	"github.com/materialdesk/materialdesk/internal/db/models"
)

var (
	// ErrAlreadyCollected is returned when the (material, user) pair already exists.
	// Callers must be able to distinguish this from any other failure.
	ErrAlreadyCollected = errors.New("material is already added")
	// ErrMaterialNotFound is returned when the material does not exist.
	ErrMaterialNotFound = errors.New("material not found")
	// ErrDBNil is returned when the database connection is nil.
	ErrDBNil = errors.New("database connection is nil")
)

const wherePair = "material_id = ? AND user_id = ?"

// Add links a material to a user's collection.
func Add(db *gorm.DB, materialID, userID uint64) error {
	if db == nil {
		return ErrDBNil
	}

	var material models.Material
	if err := db.First(&material, materialID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrMaterialNotFound
		}

		return err
	}

	// Check the pair first for a clean conflict error across drivers
	var existing models.MaterialUser

	err := db.Where(wherePair, materialID, userID).First(&existing).Error
	if err == nil {
		return ErrAlreadyCollected
	}

	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	link := models.MaterialUser{
		MaterialID: materialID,
		UserID:     userID,
	}

	if err := db.Create(&link).Error; err != nil {
		// concurrent add of the same pair loses against the composite key
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return ErrAlreadyCollected
		}

		return err
	}

	return nil
}

// Remove unlinks a material from a user's collection.
// Removing a pair that does not exist is not an error.
func Remove(db *gorm.DB, materialID, userID uint64) error {
	if db == nil {
		return ErrDBNil
	}

	return db.Where(wherePair, materialID, userID).Delete(&models.MaterialUser{}).Error
}

// MaterialIDs returns the ids of all materials in the given user's
// collection, in the order they were collected.
func MaterialIDs(db *gorm.DB, userID uint64) ([]uint64, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var links []models.MaterialUser

	err := db.Where("user_id = ?", userID).Order("created_at").Find(&links).Error
	if err != nil {
		return nil, err
	}

	ids := make([]uint64, 0, len(links))
	for _, link := range links {
		ids = append(ids, link.MaterialID)
	}

	return ids, nil
}
