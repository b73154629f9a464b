package auth

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/materialdesk/materialdesk/internal/db/models"
	"github.com/materialdesk/materialdesk/internal/web/session"
)

func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")
	require.NoError(t, db.AutoMigrate(&models.Role{}, &models.User{}))

	roles := []models.Role{
		{ID: 1, Name: "member", Level: models.RoleLevelMember},
		{ID: 2, Name: "moderator", Level: models.RoleLevelModerator},
	}
	for i := range roles {
		require.NoError(t, db.Create(&roles[i]).Error)
	}

	users := []models.User{
		{ID: 1, Active: true, Username: "alice", Password: models.HashPassword("secret"), RoleID: 1},
		{ID: 2, Active: false, Username: "bob", Password: models.HashPassword("secret"), RoleID: 1},
		{ID: 3, Active: true, Username: "mia", Password: models.HashPassword("secret"), RoleID: 2},
	}
	for i := range users {
		require.NoError(t, db.Create(&users[i]).Error)
	}

	return db
}

func TestAuthenticate(t *testing.T) {
	db := setupTestDB(t)
	provider := NewLocalProvider(db)

	testCases := []struct {
		name        string
		username    string
		password    string
		expectedErr error
	}{
		{name: "valid credentials", username: "alice", password: "secret"},
		{name: "wrong password", username: "alice", password: "nope", expectedErr: ErrInvalidPassword},
		{name: "unknown user", username: "carol", password: "secret", expectedErr: ErrUserNotFound},
		{name: "disabled account", username: "bob", password: "secret", expectedErr: ErrUserAccountDisabled},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			user, err := provider.Authenticate(tc.username, tc.password)

			if tc.expectedErr != nil {
				assert.ErrorIs(t, err, tc.expectedErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.username, user.Username)
			assert.Equal(t, models.RoleLevelMember, user.Role.Level)
		})
	}
}

func TestCreateUser(t *testing.T) {
	db := setupTestDB(t)
	provider := NewLocalProvider(db)

	user, err := provider.CreateUser("carol", "carol@example.com", "secret", 1)
	require.NoError(t, err)
	assert.True(t, user.Active)
	assert.NotEqual(t, "secret", user.Password, "password must be stored hashed")

	_, err = provider.CreateUser("carol", "other@example.com", "secret", 1)
	assert.ErrorIs(t, err, ErrUserNameExists)
}

func TestRoleLevel(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)

	level, err := service.RoleLevel(3)
	require.NoError(t, err)
	assert.Equal(t, models.RoleLevelModerator, level)

	_, err = service.RoleLevel(42)
	assert.Error(t, err)
}

func TestRequireAuthenticated(t *testing.T) {
	db := setupTestDB(t)
	service := NewService(db)
	session.Init(session.NewMemoryStorage())

	app := fiber.New()
	app.Get("/whoami", RequireAuthenticated(service), func(c *fiber.Ctx) error {
		identity := FromContext(c)

		return c.JSON(fiber.Map{"id": identity.ID, "level": identity.Level})
	})

	t.Run("no cookie", func(t *testing.T) {
		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/whoami", nil))
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("unknown session", func(t *testing.T) {
		req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: "bogus"})

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("valid session", func(t *testing.T) {
		sessionID, err := session.GenerateSessionID()
		require.NoError(t, err)

		data := session.Data{User: models.User{ID: 3, Username: "mia"}}
		require.NoError(t, data.Write(sessionID, time.Hour))

		req := httptest.NewRequest(fiber.MethodGet, "/whoami", nil)
		req.AddCookie(&http.Cookie{Name: "session", Value: sessionID})

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, fiber.StatusOK, resp.StatusCode)
	})
}
