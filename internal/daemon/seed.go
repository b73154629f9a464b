package daemon

import (
	"gorm.io/gorm"

	"github.com/materialdesk/materialdesk/internal/config"
	"github.com/materialdesk/materialdesk/internal/db/models"
)

// seed fills empty tables with the data the service cannot run without:
// the role ladder, a first admin account and a starter category set.
func seed(_ *config.Config, db *gorm.DB) {
	var roleCount int64

	db.Model(&models.Role{}).Count(&roleCount)

	if roleCount == 0 {
		roles := []models.Role{
			{Name: "member", Level: models.RoleLevelMember, Description: "Regular user"},
			{Name: "moderator", Level: models.RoleLevelModerator, Description: "May delete any material"},
			{Name: "admin", Level: models.RoleLevelAdmin, Description: "Full access"},
		}
		for i := range roles {
			db.Create(&roles[i])
		}
	}

	var userCount int64

	db.Model(&models.User{}).Count(&userCount)

	if userCount == 0 {
		var adminRole models.Role

		db.Where("name = ?", "admin").First(&adminRole)

		// change the password after first login
		db.Create(
			&models.User{
				Username: "admin",
				Password: models.HashPassword("changeme"),
				Active:   true,
				RoleID:   adminRole.ID,
			},
		)
	}

	var categoryCount int64

	db.Model(&models.Category{}).Count(&categoryCount)

	if categoryCount == 0 {
		categories := []models.Category{
			{Name: "mathematics"},
			{Name: "physics"},
			{Name: "computer science"},
			{Name: "history"},
			{Name: "literature"},
		}
		for i := range categories {
			db.Create(&categories[i])
		}
	}
}
