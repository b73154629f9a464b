package login

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/materialdesk/materialdesk/internal/auth"
	"github.com/materialdesk/materialdesk/internal/config"
	"github.com/materialdesk/materialdesk/internal/db/models"
	"github.com/materialdesk/materialdesk/internal/web/session"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err, "failed to create test database")
	require.NoError(t, db.AutoMigrate(&models.Role{}, &models.User{}))

	require.NoError(t, db.Create(&models.Role{ID: 1, Name: "member", Level: models.RoleLevelMember}).Error)

	return db
}

func newTestConfig() *config.Config {
	return &config.Config{
		Webserver: config.Webserver{
			URL:     "http://localhost:8080",
			Port:    8080,
			Session: config.Session{ExpiryTime: time.Minute},
		},
	}
}

func setupLogin(t *testing.T, cfg *config.Config) (*fiber.App, *gorm.DB) {
	t.Helper()

	db := newTestDB(t)
	app := fiber.New()

	session.Init(session.NewMemoryStorage())

	authService := auth.NewService(db)

	_, err := authService.Local().CreateUser("alice", "alice@example.com", "secret", 1)
	require.NoError(t, err)

	var s Service
	require.NoError(t, s.Init(app, cfg, db, authService))

	return app, db
}

func performLogin(t *testing.T, app *fiber.App, body string) *http.Response {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, Path+"/", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func TestPostSuccess(t *testing.T) {
	app, _ := setupLogin(t, newTestConfig())

	resp := performLogin(t, app, `{"username": "alice", "password": "secret"}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)

	setCookie := resp.Header.Get("Set-Cookie")
	assert.Contains(t, setCookie, "session=")
	assert.Contains(t, strings.ToLower(setCookie), "secure")
	assert.Contains(t, strings.ToLower(setCookie), "httponly")

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var public models.PublicUser
	require.NoError(t, json.Unmarshal(raw, &public))
	assert.Equal(t, "alice", public.Username)
	assert.NotContains(t, string(raw), "password")
}

func TestPostDevModeDisablesSecure(t *testing.T) {
	cfg := newTestConfig()
	cfg.DevMode = true

	app, _ := setupLogin(t, cfg)

	resp := performLogin(t, app, `{"username": "alice", "password": "secret"}`)
	defer resp.Body.Close()

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.NotContains(t, strings.ToLower(resp.Header.Get("Set-Cookie")), "secure")
}

func TestPostRejections(t *testing.T) {
	app, _ := setupLogin(t, newTestConfig())

	testCases := []struct {
		name           string
		body           string
		expectedStatus int
	}{
		{name: "wrong password", body: `{"username": "alice", "password": "nope"}`, expectedStatus: http.StatusUnauthorized},
		{name: "unknown user", body: `{"username": "carol", "password": "secret"}`, expectedStatus: http.StatusUnauthorized},
		{name: "broken body", body: `{`, expectedStatus: http.StatusBadRequest},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := performLogin(t, app, tc.body)
			defer resp.Body.Close()

			assert.Equal(t, tc.expectedStatus, resp.StatusCode)
			assert.Empty(t, resp.Header.Get("Set-Cookie"))
		})
	}
}

func TestPostDisabledAccount(t *testing.T) {
	app, db := setupLogin(t, newTestConfig())

	require.NoError(t, db.Model(&models.User{}).Where("username = ?", "alice").
		Update("active", false).Error)

	resp := performLogin(t, app, `{"username": "alice", "password": "secret"}`)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}
