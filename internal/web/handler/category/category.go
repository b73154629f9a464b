// Package category implements the category listing endpoint.
package category

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/materialdesk/materialdesk/internal/auth"
	"github.com/materialdesk/materialdesk/internal/config"
	"github.com/materialdesk/materialdesk/internal/db/controller/category"
	"github.com/materialdesk/materialdesk/internal/web/handler"
)

const (
	// Path is the path of the category endpoints.
	Path = "/api/categories"
)

// Service is the category handler service.
type Service struct {
	cfg *config.Config
	db  *gorm.DB
}

// Handler is the category handler.
var Handler = Service{}

// Init initializes the category handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil || authService == nil {
		return errors.New("app, cfg, db or auth service is nil")
	}

	s.cfg = cfg
	s.db = db

	app.Get(Path+handler.RootPath, auth.RequireAuthenticated(authService), s.Get)

	return nil
}

// Get lists all categories.
func (s *Service) Get(c *fiber.Ctx) error {
	categories, err := category.GetAll(s.db)
	if err != nil {
		log.Error().Err(err).Msg("failed to list categories")

		return handler.Internal(c)
	}

	docs := make([]category.Document, 0, len(categories))
	for _, entry := range categories {
		docs = append(docs, category.ToDocument(entry))
	}

	return c.JSON(docs)
}
