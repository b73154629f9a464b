package models

import "time"

// Category represents a topic materials can be tagged with.
// Categories are seeded at startup and read-only through the API;
// materials reference them via the MaterialCategory junction table.
type Category struct {
	// ID is the unique identifier for the category.
	ID uint64 `gorm:"primaryKey"`
	// Name is the unique display name of the category.
	Name string `gorm:"unique;size:100;not null"`
	// CreatedAt is the timestamp when the category was created (managed by GORM).
	CreatedAt time.Time
}

// TableName specifies the database table name for the Category model.
// This overrides GORM's default pluralized table naming.
func (Category) TableName() string {
	return "categories"
}
