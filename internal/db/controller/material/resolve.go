package material

import (
	"gorm.io/gorm"

	"github.com/materialdesk/materialdesk/internal/db/models"
)

// MaterialIDsByCategories resolves the category dimension to candidate
// material ids: every material linked to at least one of the categories.
func MaterialIDsByCategories(db *gorm.DB, categoryIDs []uint64) ([]uint64, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var links []models.MaterialCategory

	err := db.Where("category_id IN ?", categoryIDs).Order("id").Find(&links).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[uint64]bool, len(links))
	ids := make([]uint64, 0, len(links))

	for _, link := range links {
		if seen[link.MaterialID] {
			continue
		}

		seen[link.MaterialID] = true
		ids = append(ids, link.MaterialID)
	}

	return ids, nil
}

// CategoriesFor returns the categories linked to a material, in the order
// the links were created.
func CategoriesFor(db *gorm.DB, materialID uint64) ([]models.Category, error) {
	if db == nil {
		return nil, ErrDBNil
	}

	var links []models.MaterialCategory

	err := db.Where("material_id = ?", materialID).Order("id").Find(&links).Error
	if err != nil {
		return nil, err
	}

	categories := make([]models.Category, 0, len(links))

	for _, link := range links {
		var c models.Category
		if err := db.First(&c, link.CategoryID).Error; err != nil {
			return nil, err
		}

		categories = append(categories, c)
	}

	return categories, nil
}
