package models

import "time"

// Material represents a shareable resource: a stored file plus its metadata.
// A material is exclusively owned by one user but may be collected by many
// users through the MaterialUser junction table. Materials are never hard
// deleted; the Deleted flag hides them from default listings instead.
type Material struct {
	// ID is the unique identifier for the material.
	ID uint64 `gorm:"primaryKey"`
	// Name is the display name of the material.
	Name string `gorm:"size:255;not null"`
	// Author is the author credited for the material's content.
	Author string `gorm:"size:255;not null"`
	// Type is a free-form type tag (e.g. "book", "article", "slides").
	Type string `gorm:"size:100;not null"`
	// File is the public URL of the stored file.
	File string `gorm:"size:512"`
	// Extension is the uppercased file extension derived from the stored
	// filename at creation time. It is read-only through the API.
	Extension string `gorm:"size:16"`
	// OwnerID is the ID of the owning user. The server always sets this
	// from the authenticated identity; client-supplied values are ignored.
	OwnerID uint64 `gorm:"column:owner;not null;index"`
	// Owner is the owning user (loaded via foreign key).
	Owner User `gorm:"foreignKey:OwnerID;references:ID;constraint:OnDelete:RESTRICT"`
	// IsOpen indicates whether the material is visible to users other than
	// its owner. Non-open materials are only listed for their owner. The
	// default is set on write, not as a column default, so an explicit false
	// is stored as-is.
	IsOpen bool `gorm:"column:is_open"`
	// Deleted is the soft-delete flag. Deleted materials stay in storage
	// but are excluded from other users' listings.
	Deleted bool `gorm:"default:false"`
	// AutoDate is the immutable creation timestamp.
	AutoDate time.Time `gorm:"column:auto_date;autoCreateTime"`
}

// TableName specifies the database table name for the Material model.
// This overrides GORM's default pluralized table naming.
func (Material) TableName() string {
	return "materials"
}
