package models

// MaterialCategory represents the many-to-many relationship between materials
// and categories. Rows are only created as part of a material's transactional
// write; the surrogate ID preserves the order in which links were created so
// the read path can return categories in link order.
type MaterialCategory struct {
	// ID is the unique identifier for the link and defines link order.
	ID uint64 `gorm:"primaryKey"`
	// MaterialID is the ID of the tagged material.
	MaterialID uint64 `gorm:"column:material_id;not null;index"`
	// CategoryID is the ID of the category the material is tagged with.
	CategoryID uint64 `gorm:"column:category_id;not null;index"`
	// Material is the associated material (loaded via foreign key).
	// When a material row is removed, its category links go with it (CASCADE).
	Material Material `gorm:"foreignKey:MaterialID;constraint:OnDelete:CASCADE"`
	// Category is the associated category (loaded via foreign key).
	Category Category `gorm:"foreignKey:CategoryID;constraint:OnDelete:CASCADE"`
}

// TableName specifies the database table name for the MaterialCategory model.
// This overrides GORM's default pluralized table naming.
func (MaterialCategory) TableName() string {
	return "material_categories"
}
