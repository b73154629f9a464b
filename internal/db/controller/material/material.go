// Package material implements the material lifecycle: filtered listing,
// transactional creation of a material with its owner link and category
// links, and soft deletion.
package material

import (
	"errors"

	"gorm.io/gorm"

	"github.com/materialdesk/materialdesk/internal/db/models"
)

const whereMaterialID = "id = ?"

// GetByID retrieves a material by its ID, regardless of visibility.
// Callers enforce who may see closed or soft-deleted rows.
func GetByID(db *gorm.DB, id uint64) (*models.Material, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var m models.Material

	result := db.Preload("Owner").First(&m, id)
	if result.Error != nil {
		if errors.Is(result.Error, gorm.ErrRecordNotFound) {
			return nil, ErrMaterialNotFound
		}

		return nil, result.Error
	}

	return &m, nil
}

// GetVisibleByID retrieves a material by its ID for the given requester.
// Owners and moderators see their closed and soft-deleted rows; everyone
// else only open, non-deleted ones.
func GetVisibleByID(db *gorm.DB, id, requesterID uint64, requesterLevel int) (*models.Material, error) {
	m, err := GetByID(db, id)
	if err != nil {
		return nil, err
	}

	if m.OwnerID == requesterID || requesterLevel >= models.RoleLevelModerator {
		return m, nil
	}

	if !m.IsOpen || m.Deleted {
		return nil, ErrMaterialNotFound
	}

	return m, nil
}

// Create inserts a material together with its owner collection link and one
// category link per requested category, as a single unit. Any failure rolls
// the whole unit back and no partial rows survive.
func Create(db *gorm.DB, in *CreateInput) (*models.Material, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var id uint64

	err := db.Transaction(func(tx *gorm.DB) error {
		m := models.Material{
			Name:      in.Name,
			Author:    in.Author,
			Type:      in.Type,
			File:      in.File,
			Extension: in.Extension,
			OwnerID:   in.OwnerID,
			IsOpen:    in.IsOpen,
		}

		if err := tx.Create(&m).Error; err != nil {
			return translateWriteError(err)
		}

		ownerLink := models.MaterialUser{
			MaterialID: m.ID,
			UserID:     in.OwnerID,
		}

		if err := tx.Create(&ownerLink).Error; err != nil {
			return translateWriteError(err)
		}

		// Resolve each category inside the unit so a dangling id aborts it
		// on every driver, not only those enforcing foreign keys.
		for _, categoryID := range in.Categories {
			var c models.Category
			if err := tx.First(&c, categoryID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return ErrCategoryNotFound
				}

				return err
			}

			link := models.MaterialCategory{
				MaterialID: m.ID,
				CategoryID: categoryID,
			}

			if err := tx.Create(&link).Error; err != nil {
				return translateWriteError(err)
			}
		}

		id = m.ID

		return nil
	})
	if err != nil {
		return nil, err
	}

	// Re-read the committed row so the response reflects stored state,
	// defaults included, rather than the request payload.
	return GetByID(db, id)
}

// SoftDelete marks a material deleted and removes it from the requester's
// collection. Only the owner or a moderator may delete. The row is returned
// so the caller can clean up the stored file.
func SoftDelete(db *gorm.DB, id, requesterID uint64, requesterLevel int) (*models.Material, error) {
	m, err := GetByID(db, id)
	if err != nil {
		return nil, err
	}

	if m.OwnerID != requesterID && requesterLevel < models.RoleLevelModerator {
		return nil, ErrPermissionDenied
	}

	err = db.Model(&models.Material{}).Where(whereMaterialID, id).Update("deleted", true).Error
	if err != nil {
		return nil, err
	}

	err = db.Where("material_id = ? AND user_id = ?", id, requesterID).Delete(&models.MaterialUser{}).Error
	if err != nil {
		return nil, err
	}

	m.Deleted = true

	return m, nil
}

func translateWriteError(err error) error {
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ErrInvalidReference
	default:
		return err
	}
}
