package models

import "time"

// Role levels used for permission checks. A user may act on another user's
// material when their role level is at least RoleLevelModerator.
const (
	// RoleLevelMember is the default level for regular users.
	RoleLevelMember = 1
	// RoleLevelModerator allows managing any user's materials.
	RoleLevelModerator = 50
	// RoleLevelAdmin allows full administrative access.
	RoleLevelAdmin = 100
)

// Role represents a role in the access control system.
// Roles carry a numeric level; permission checks compare levels rather than
// enumerating individual rights.
type Role struct {
	// ID is the unique identifier for the role.
	ID uint `gorm:"primaryKey"`
	// Name is the unique name of the role (e.g., "member", "moderator").
	Name string `gorm:"unique;size:100;not null"`
	// Level is the numeric rank of the role used in permission comparisons.
	Level int `gorm:"not null;default:1"`
	// Description provides a human-readable description of the role's purpose.
	Description string `gorm:"size:255"`
	// CreatedAt is the timestamp when the role was created (managed by GORM).
	CreatedAt time.Time
	// UpdatedAt is the timestamp when the role was last updated (managed by GORM).
	UpdatedAt time.Time
}

// TableName specifies the database table name for the Role model.
// This overrides GORM's default pluralized table naming.
func (Role) TableName() string {
	return "roles"
}
