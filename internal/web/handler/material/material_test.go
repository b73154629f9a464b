package material

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/materialdesk/materialdesk/internal/auth"
	"github.com/materialdesk/materialdesk/internal/config"
	"github.com/materialdesk/materialdesk/internal/db/controller/collection"
	materialctl "github.com/materialdesk/materialdesk/internal/db/controller/material"
	"github.com/materialdesk/materialdesk/internal/db/models"
	"github.com/materialdesk/materialdesk/internal/media"
	"github.com/materialdesk/materialdesk/internal/pagination"
	"github.com/materialdesk/materialdesk/internal/web/session"
)

type testEnv struct {
	app *fiber.App
	db  *gorm.DB
	cfg *config.Config
}

func newTestEnv(t *testing.T, pageLimit int) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{TranslateError: true})
	require.NoError(t, err, "failed to create test database")

	require.NoError(t, db.AutoMigrate(
		&models.Role{},
		&models.User{},
		&models.Category{},
		&models.Material{},
		&models.MaterialCategory{},
		&models.MaterialUser{},
	))

	roles := []models.Role{
		{ID: 1, Name: "member", Level: models.RoleLevelMember},
		{ID: 2, Name: "moderator", Level: models.RoleLevelModerator},
	}
	for i := range roles {
		require.NoError(t, db.Create(&roles[i]).Error)
	}

	users := []models.User{
		{ID: 1, Active: true, Username: "alice", RoleID: 1},
		{ID: 2, Active: true, Username: "bob", RoleID: 1},
		{ID: 3, Active: true, Username: "mia", RoleID: 2},
	}
	for i := range users {
		require.NoError(t, db.Create(&users[i]).Error)
	}

	categories := []models.Category{
		{ID: 1, Name: "mathematics"},
		{ID: 2, Name: "physics"},
	}
	for i := range categories {
		require.NoError(t, db.Create(&categories[i]).Error)
	}

	cfg := &config.Config{
		Webserver: config.Webserver{
			URL:     "http://localhost:8080",
			Port:    8080,
			Session: config.Session{ExpiryTime: time.Minute},
		},
		Media: config.Media{
			Root:      t.TempDir(),
			BaseURL:   "/media",
			UploadDir: "materials",
		},
		Pagination: config.Pagination{PageLimit: pageLimit},
	}

	session.Init(session.NewMemoryStorage())

	app := fiber.New()

	var s Service
	require.NoError(t, s.Init(app, cfg, db, auth.NewService(db), media.New(cfg.Media)))

	return &testEnv{app: app, db: db, cfg: cfg}
}

func (e *testEnv) sessionCookie(t *testing.T, userID uint64) *http.Cookie {
	t.Helper()

	var user models.User
	require.NoError(t, e.db.First(&user, userID).Error)

	sessionID, err := session.GenerateSessionID()
	require.NoError(t, err)

	data := session.Data{User: user}
	require.NoError(t, data.Write(sessionID, time.Minute))

	return &http.Cookie{Name: "session", Value: sessionID}
}

func (e *testEnv) do(t *testing.T, req *http.Request, userID uint64) *http.Response {
	t.Helper()

	req.AddCookie(e.sessionCookie(t, userID))

	resp, err := e.app.Test(req, -1)
	require.NoError(t, err)

	return resp
}

func decodeBody(t *testing.T, resp *http.Response, out any) {
	t.Helper()

	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(raw, out), "body: %s", raw)
}

func multipartBody(t *testing.T, fields map[string]string, filename string) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	for key, value := range fields {
		require.NoError(t, writer.WriteField(key, value))
	}

	if filename != "" {
		part, err := writer.CreateFormFile("file", filename)
		require.NoError(t, err)

		_, err = part.Write([]byte("file content"))
		require.NoError(t, err)
	}

	require.NoError(t, writer.Close())

	return &buf, writer.FormDataContentType()
}

func (e *testEnv) createMaterial(t *testing.T, userID uint64, fields map[string]string) materialctl.Document {
	t.Helper()

	body, contentType := multipartBody(t, fields, "notes.pdf")

	req := httptest.NewRequest(http.MethodPost, Path+"/", body)
	req.Header.Set("Content-Type", contentType)

	resp := e.do(t, req, userID)
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var doc materialctl.Document
	decodeBody(t, resp, &doc)

	return doc
}

func TestCreateEndpoint(t *testing.T) {
	env := newTestEnv(t, 20)

	doc := env.createMaterial(t, 1, map[string]string{
		"name":       "Linear Algebra",
		"author":     "Axler",
		"type":       "book",
		"categories": `[{"category": 2}, {"category": 1}]`,
	})

	assert.Equal(t, "Linear Algebra", doc.Name)
	assert.Equal(t, "PDF", doc.Extension)
	assert.Equal(t, "alice", doc.Owner.Username)
	assert.True(t, doc.IsOpen)
	require.Len(t, doc.Categories, 2)
	assert.Equal(t, uint64(2), doc.Categories[0].ID)

	// the creator's collection contains the new material
	ids, err := collection.MaterialIDs(env.db, 1)
	require.NoError(t, err)
	assert.Equal(t, []uint64{doc.ID}, ids)
}

func TestCreateEndpointValidation(t *testing.T) {
	env := newTestEnv(t, 20)

	testCases := []struct {
		name          string
		fields        map[string]string
		filename      string
		expectedField string
	}{
		{
			name:          "missing author",
			fields:        map[string]string{"name": "x", "type": "book"},
			filename:      "a.pdf",
			expectedField: "author",
		},
		{
			name:          "missing file",
			fields:        map[string]string{"name": "x", "author": "y", "type": "book"},
			expectedField: "file",
		},
		{
			name: "read-only field",
			fields: map[string]string{
				"name": "x", "author": "y", "type": "book", "deleted": "true",
			},
			filename:      "a.pdf",
			expectedField: "deleted",
		},
		{
			name: "broken categories",
			fields: map[string]string{
				"name": "x", "author": "y", "type": "book", "categories": "not json",
			},
			filename:      "a.pdf",
			expectedField: "categories",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			body, contentType := multipartBody(t, tc.fields, tc.filename)

			req := httptest.NewRequest(http.MethodPost, Path+"/", body)
			req.Header.Set("Content-Type", contentType)

			resp := env.do(t, req, 1)
			require.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var out struct {
				Errors map[string][]string `json:"errors"`
			}
			decodeBody(t, resp, &out)
			assert.NotEmpty(t, out.Errors[tc.expectedField])
		})
	}
}

func TestCreateEndpointUnknownCategoryAborts(t *testing.T) {
	env := newTestEnv(t, 20)

	body, contentType := multipartBody(t, map[string]string{
		"name":       "ghost",
		"author":     "nobody",
		"type":       "book",
		"categories": `[{"category": 999}]`,
	}, "a.pdf")

	req := httptest.NewRequest(http.MethodPost, Path+"/", body)
	req.Header.Set("Content-Type", contentType)

	resp := env.do(t, req, 1)
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)

	var out struct {
		Error string `json:"error"`
	}
	decodeBody(t, resp, &out)
	assert.Equal(t, "invalid_reference", out.Error)

	var count int64
	require.NoError(t, env.db.Model(&models.Material{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestListEndpoint(t *testing.T) {
	env := newTestEnv(t, 20)

	env.createMaterial(t, 1, map[string]string{
		"name": "linear algebra", "author": "Axler", "type": "book",
	})
	env.createMaterial(t, 1, map[string]string{
		"name": "private draft", "author": "alice", "type": "notes", "is_open": "false",
	})
	env.createMaterial(t, 2, map[string]string{
		"name": "modern physics", "author": "Tipler", "type": "book",
		"categories": `[{"category": 2}]`,
	})

	testCases := []struct {
		name          string
		target        string
		requester     uint64
		expectedNames []string
	}{
		{
			name:          "floor hides closed materials from others",
			target:        Path + "/",
			requester:     2,
			expectedNames: []string{"linear algebra", "modern physics"},
		},
		{
			name:          "own collection shows everything collected",
			target:        Path + "/?owner=1",
			requester:     1,
			expectedNames: []string{"linear algebra", "private draft"},
		},
		{
			name:          "type filter",
			target:        Path + "/?type=book",
			requester:     2,
			expectedNames: []string{"linear algebra", "modern physics"},
		},
		{
			name:          "category filter",
			target:        Path + "/?category=2",
			requester:     1,
			expectedNames: []string{"modern physics"},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			resp := env.do(t, httptest.NewRequest(http.MethodGet, tc.target, nil), tc.requester)
			require.Equal(t, http.StatusOK, resp.StatusCode)

			var out struct {
				Count   int64                  `json:"count"`
				Next    *string                `json:"next"`
				Results []materialctl.Document `json:"results"`
			}
			decodeBody(t, resp, &out)

			assert.Equal(t, int64(len(tc.expectedNames)), out.Count)

			names := make([]string, 0, len(out.Results))
			for _, doc := range out.Results {
				names = append(names, doc.Name)
			}

			assert.Equal(t, tc.expectedNames, names)
		})
	}
}

func TestListEndpointRequiresSession(t *testing.T) {
	env := newTestEnv(t, 20)

	resp, err := env.app.Test(httptest.NewRequest(http.MethodGet, Path+"/", nil))
	require.NoError(t, err)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestListEndpointPagination(t *testing.T) {
	env := newTestEnv(t, 2)

	for i := 0; i < 5; i++ {
		env.createMaterial(t, 1, map[string]string{
			"name": fmt.Sprintf("book %d", i), "author": "alice", "type": "book",
		})
	}

	resp := env.do(t, httptest.NewRequest(http.MethodGet, Path+"/?page=2", nil), 1)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out pagination.Envelope
	decodeBody(t, resp, &out)

	assert.Equal(t, int64(5), out.Count)
	require.NotNil(t, out.Next)
	assert.Contains(t, *out.Next, "page=3")

	// the last page has no next link
	resp = env.do(t, httptest.NewRequest(http.MethodGet, Path+"/?page=3", nil), 1)

	var last pagination.Envelope
	decodeBody(t, resp, &last)
	assert.Nil(t, last.Next)
}

func TestGetEndpoint(t *testing.T) {
	env := newTestEnv(t, 20)

	closed := env.createMaterial(t, 1, map[string]string{
		"name": "draft", "author": "alice", "type": "notes", "is_open": "false",
	})

	// owner sees it
	resp := env.do(t, httptest.NewRequest(http.MethodGet, fmt.Sprintf("%s/%d/", Path, closed.ID), nil), 1)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	// another member does not
	resp = env.do(t, httptest.NewRequest(http.MethodGet, fmt.Sprintf("%s/%d/", Path, closed.ID), nil), 2)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	// a moderator does
	resp = env.do(t, httptest.NewRequest(http.MethodGet, fmt.Sprintf("%s/%d/", Path, closed.ID), nil), 3)
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp = env.do(t, httptest.NewRequest(http.MethodGet, Path+"/4242/", nil), 1)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestDeleteEndpoint(t *testing.T) {
	env := newTestEnv(t, 20)

	doc := env.createMaterial(t, 1, map[string]string{
		"name": "to remove", "author": "alice", "type": "book",
	})

	// another member may not delete
	resp := env.do(t, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("%s/%d/", Path, doc.ID), nil), 2)
	assert.Equal(t, http.StatusForbidden, resp.StatusCode)

	// the owner may
	resp = env.do(t, httptest.NewRequest(http.MethodDelete, fmt.Sprintf("%s/%d/", Path, doc.ID), nil), 1)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// the row survives soft-deleted
	var m models.Material
	require.NoError(t, env.db.First(&m, doc.ID).Error)
	assert.True(t, m.Deleted)
}

func TestCollectionEndpoints(t *testing.T) {
	env := newTestEnv(t, 20)

	doc := env.createMaterial(t, 1, map[string]string{
		"name": "shared", "author": "alice", "type": "book",
	})

	addTarget := fmt.Sprintf("%s/%d/add/", Path, doc.ID)

	resp := env.do(t, httptest.NewRequest(http.MethodPost, addTarget, nil), 2)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// a second add is a conflict, not a silent success
	resp = env.do(t, httptest.NewRequest(http.MethodPost, addTarget, nil), 2)
	require.Equal(t, http.StatusConflict, resp.StatusCode)

	var out struct {
		Error  string `json:"error"`
		Detail string `json:"detail"`
	}
	decodeBody(t, resp, &out)
	assert.Equal(t, "conflict", out.Error)
	assert.Equal(t, "material is already added", out.Detail)

	resp = env.do(t, httptest.NewRequest(http.MethodPost, Path+"/4242/add/", nil), 2)
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)

	removeTarget := fmt.Sprintf("%s/%d/remove/", Path, doc.ID)

	resp = env.do(t, httptest.NewRequest(http.MethodPost, removeTarget, nil), 2)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	// removing again stays a no-op
	resp = env.do(t, httptest.NewRequest(http.MethodPost, removeTarget, nil), 2)
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)
}

func TestSearchEndpoint(t *testing.T) {
	env := newTestEnv(t, 20)

	env.createMaterial(t, 1, map[string]string{
		"name": "linear algebra", "author": "Axler", "type": "book",
	})
	env.createMaterial(t, 2, map[string]string{
		"name": "modern physics", "author": "Tipler", "type": "book",
	})

	t.Run("text is required", func(t *testing.T) {
		resp := env.do(t, httptest.NewRequest(http.MethodGet, Path+"/search/", nil), 1)
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		var out struct {
			Errors map[string][]string `json:"errors"`
		}
		decodeBody(t, resp, &out)
		assert.NotEmpty(t, out.Errors["text"])
	})

	t.Run("matches author", func(t *testing.T) {
		resp := env.do(t, httptest.NewRequest(http.MethodGet, Path+"/search/?text=Tipler", nil), 1)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out struct {
			Count   int64                  `json:"count"`
			Results []materialctl.Document `json:"results"`
		}
		decodeBody(t, resp, &out)

		require.Equal(t, int64(1), out.Count)
		assert.Equal(t, "modern physics", out.Results[0].Name)
	})

	t.Run("search composes with type filter", func(t *testing.T) {
		resp := env.do(t, httptest.NewRequest(http.MethodGet, Path+"/search/?text=algebra&type=article", nil), 1)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		var out struct {
			Count int64 `json:"count"`
		}
		decodeBody(t, resp, &out)
		assert.Zero(t, out.Count)
	})
}
