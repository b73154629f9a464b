package models

import "time"

// MaterialUser represents the many-to-many relationship between materials and
// the users who added them to their personal collection. The composite primary
// key enforces that a user can collect a given material only once; a duplicate
// insert must surface as a distinct conflict, not a generic failure.
//
// Collecting a material is independent of owning it: the owner's link is
// created automatically when the material is created, everyone else's through
// the explicit add action.
type MaterialUser struct {
	// MaterialID is the ID of the collected material.
	MaterialID uint64 `gorm:"primaryKey;column:material_id"`
	// UserID is the ID of the collecting user.
	UserID uint64 `gorm:"primaryKey;column:user_id"`
	// Material is the associated material (loaded via foreign key).
	Material Material `gorm:"foreignKey:MaterialID;constraint:OnDelete:CASCADE"`
	// User is the associated user (loaded via foreign key).
	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE"`
	// CreatedAt is the timestamp when the material was collected (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the MaterialUser model.
// This overrides GORM's default pluralized table naming.
func (MaterialUser) TableName() string {
	return "material_users"
}
