package auth

import (
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/materialdesk/materialdesk/internal/web/session"
)

// Identity is the authenticated requester of the current request.
type Identity struct {
	// ID is the user's row id; writes are always attributed to it.
	ID uint64
	// Username is carried for log context and response documents.
	Username string
	// Level is the user's role level at session read time.
	Level int
}

const identityKey = "identity"

// RequireAuthenticated creates Fiber middleware that resolves the session
// cookie to an Identity and stores it in the request locals. Requests
// without a valid session are rejected.
func RequireAuthenticated(authService *Service) fiber.Handler {
	return func(c *fiber.Ctx) error {
		sessionID := c.Cookies("session")
		if sessionID == "" {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication required",
			})
		}

		sessionData := new(session.Data)
		if err := sessionData.Read(sessionID); err != nil {
			log.Debug().Err(err).Msg("Failed to read session")

			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication required",
			})
		}

		if sessionData.User.ID == 0 {
			return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{
				"error": "authentication required",
			})
		}

		// Role level is read fresh so promotions and demotions apply to
		// live sessions.
		level, err := authService.RoleLevel(sessionData.User.ID)
		if err != nil {
			log.Error().Err(err).Uint64("user_id", sessionData.User.ID).
				Msg("Failed to resolve role level")

			return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
				"error": "internal",
			})
		}

		c.Locals(identityKey, Identity{
			ID:       sessionData.User.ID,
			Username: sessionData.User.Username,
			Level:    level,
		})

		return c.Next()
	}
}

// FromContext returns the Identity stored by RequireAuthenticated.
// The zero Identity means the request was not authenticated.
func FromContext(c *fiber.Ctx) Identity {
	identity, ok := c.Locals(identityKey).(Identity)
	if !ok {
		return Identity{}
	}

	return identity
}
