package auth

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/materialdesk/materialdesk/internal/db/models"
)

// Service provides authentication and role-based authorization.
type Service struct {
	db    *gorm.DB
	local *LocalProvider
}

// NewService creates a new auth service.
func NewService(db *gorm.DB) *Service {
	return &Service{
		db:    db,
		local: NewLocalProvider(db),
	}
}

// Local returns the local authentication provider.
func (s *Service) Local() *LocalProvider {
	return s.local
}

// RoleLevel returns the role level of a user. Higher levels grant wider
// moderation rights; levels never affect a user's own materials.
func (s *Service) RoleLevel(userID uint64) (int, error) {
	var user models.User

	err := s.db.Preload("Role").First(&user, userID).Error
	if err != nil {
		return 0, fmt.Errorf("failed to load user role: %w", err)
	}

	return user.Role.Level, nil
}
