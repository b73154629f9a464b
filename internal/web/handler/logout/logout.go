// Package logout implements the logout endpoint.
package logout

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/materialdesk/materialdesk/internal/config"
	"github.com/materialdesk/materialdesk/internal/web/handler"
	"github.com/materialdesk/materialdesk/internal/web/session"
)

const (
	// Path is the path of the logout endpoint.
	Path = "/api/logout"
)

// Service is the logout handler service.
type Service struct {
	cfg *config.Config
}

// Handler is the logout handler.
var Handler = Service{}

// Init initializes the logout handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config) error {
	if app == nil || cfg == nil {
		return errors.New("app or cfg is nil")
	}

	s.cfg = cfg

	app.Post(Path+handler.RootPath, s.Post)

	return nil
}

// Post destroys the requester's session. Logging out without a session is
// not an error; the outcome is the same either way.
func (s *Service) Post(c *fiber.Ctx) error {
	sessionID := c.Cookies(handler.SessionCookieName)
	if sessionID != "" {
		if err := session.Destroy(sessionID); err != nil {
			log.Warn().Err(err).Msg("failed to destroy session")
		}
	}

	c.Cookie(&fiber.Cookie{
		Name:     handler.SessionCookieName,
		Value:    "",
		MaxAge:   -1,
		HTTPOnly: true,
	})

	return c.SendStatus(fiber.StatusNoContent)
}
