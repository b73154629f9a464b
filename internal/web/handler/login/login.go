// Package login implements the login endpoint. A successful login writes a
// server-side session and hands the client an opaque session cookie.
package login

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/materialdesk/materialdesk/internal/auth"
	"github.com/materialdesk/materialdesk/internal/config"
	"github.com/materialdesk/materialdesk/internal/web/handler"
	"github.com/materialdesk/materialdesk/internal/web/session"
)

const (
	// Path is the path of the login endpoint.
	Path = "/api/login"
)

// Service is the login handler service.
type Service struct {
	cfg  *config.Config
	db   *gorm.DB
	auth *auth.Service
}

// Handler is the login handler.
var Handler = Service{}

type credentials struct {
	Username string `json:"username" form:"username"`
	Password string `json:"password" form:"password"`
}

// Init initializes the login handler.
func (s *Service) Init(app *fiber.App, cfg *config.Config, db *gorm.DB, authService *auth.Service) error {
	if app == nil || cfg == nil || db == nil || authService == nil {
		return errors.New("app, cfg, db or auth service is nil")
	}

	s.cfg = cfg
	s.db = db
	s.auth = authService

	app.Post(Path+handler.RootPath, s.Post)

	return nil
}

// Post handles the login request.
func (s *Service) Post(c *fiber.Ctx) error {
	creds := new(credentials)
	if err := c.BodyParser(creds); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "invalid request body",
		})
	}

	user, err := s.auth.Local().Authenticate(creds.Username, creds.Password)
	if err != nil {
		log.Debug().Err(err).Str("username", creds.Username).Msg("login rejected")

		// one answer for every failure mode, nothing to enumerate accounts with
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
			"error": "invalid username or password",
		})
	}

	sessionID, err := session.GenerateSessionID()
	if err != nil {
		log.Error().Err(err).Msg("failed to generate session ID")

		return handler.Internal(c)
	}

	userSession := &session.Data{
		User: *user,
	}

	if err = userSession.Write(sessionID, s.cfg.Webserver.Session.ExpiryTime); err != nil {
		log.Error().Err(err).Msg("failed to write session")

		return handler.Internal(c)
	}

	cookieSettings := &fiber.Cookie{
		Name:     handler.SessionCookieName,
		Value:    sessionID,
		MaxAge:   int(s.cfg.Webserver.Session.ExpiryTime.Seconds()),
		Secure:   true,
		HTTPOnly: true,
		SameSite: "Lax",
	}

	if s.cfg.DevMode {
		cookieSettings.Secure = false
	}

	c.Cookie(cookieSettings)

	return c.JSON(user.Public())
}
