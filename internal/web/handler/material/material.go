// Package material implements the material endpoints: filtered listing,
// multipart creation, retrieval, soft deletion, collection membership and
// text search.
package material

import (
	"errors"
	"net/url"
	"strconv"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"
	"gorm.io/gorm"

	"github.com/materialdesk/materialdesk/internal/auth"
	"github.com/materialdesk/materialdesk/internal/config"
	"github.com/materialdesk/materialdesk/internal/db/controller/material"
	"github.com/materialdesk/materialdesk/internal/db/models"
	"github.com/materialdesk/materialdesk/internal/media"
	"github.com/materialdesk/materialdesk/internal/pagination"
	"github.com/materialdesk/materialdesk/internal/validation"
	"github.com/materialdesk/materialdesk/internal/web/handler"
)

const (
	// Path is the path prefix of the material endpoints.
	Path = "/api/materials"
)

// Service is the material handler service.
type Service struct {
	cfg   *config.Config
	db    *gorm.DB
	store *media.Store
}

// Handler is the material handler.
var Handler = Service{}

// Init initializes the material handler.
func (s *Service) Init(
	app *fiber.App,
	cfg *config.Config,
	db *gorm.DB,
	authService *auth.Service,
	store *media.Store,
) error {
	if app == nil || cfg == nil || db == nil || authService == nil || store == nil {
		return errors.New("app, cfg, db, auth service or media store is nil")
	}

	s.cfg = cfg
	s.db = db
	s.store = store

	authenticated := auth.RequireAuthenticated(authService)

	// "/search/" must be registered before "/:id/"
	app.Route(Path, func(router fiber.Router) {
		router.Get(handler.RootPath, authenticated, s.List)
		router.Post(handler.RootPath, authenticated, s.Create)
		router.Get("/search/", authenticated, s.Search)
		router.Get("/:id/", authenticated, s.Get)
		router.Delete("/:id/", authenticated, s.Delete)
		router.Post("/:id/add/", authenticated, s.Add)
		router.Post("/:id/remove/", authenticated, s.Remove)
	})

	return nil
}

// List lists materials visible to the requester, narrowed by the optional
// owner, category and type query dimensions.
func (s *Service) List(c *fiber.Ctx) error {
	identity := auth.FromContext(c)

	f, errs := s.filterFromQuery(c, identity.ID)
	if !errs.Empty() {
		return handler.ValidationFailed(c, errs)
	}

	return s.listPage(c, f)
}

// Search lists materials matching a required text fragment against name or
// author, narrowed by the same dimensions as List.
func (s *Service) Search(c *fiber.Ctx) error {
	identity := auth.FromContext(c)

	f, errs := s.filterFromQuery(c, identity.ID)

	f.Text = c.Query("text")
	if f.Text == "" {
		errs.Add("text", "This query parameter is required")
	}

	if !errs.Empty() {
		return handler.ValidationFailed(c, errs)
	}

	return s.listPage(c, f)
}

// Get retrieves a single material by id.
func (s *Service) Get(c *fiber.Ctx) error {
	identity := auth.FromContext(c)

	id, ok := paramID(c)
	if !ok {
		return handler.NotFound(c)
	}

	m, err := material.GetVisibleByID(s.db, id, identity.ID, identity.Level)
	if err != nil {
		return s.writeError(c, err)
	}

	doc, err := material.ToDocument(s.db, m)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.JSON(doc)
}

// filterFromQuery parses the listing dimensions from the query string.
func (s *Service) filterFromQuery(c *fiber.Ctx, requesterID uint64) (material.Filter, validation.Errors) {
	errs := validation.Errors{}

	f := material.Filter{
		RequesterID: requesterID,
		Types:       queryAll(c, "type"),
	}

	if raw := c.Query("owner"); raw != "" {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			errs.Add("owner", "Must be an integer")
		} else {
			f.Collector = &id
		}
	}

	for _, raw := range queryAll(c, "category") {
		id, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			errs.Add("category", "Must be an integer")
			continue
		}

		f.Categories = append(f.Categories, id)
	}

	return f, errs
}

// listPage counts, fetches and serializes one page of the filtered listing.
func (s *Service) listPage(c *fiber.Ctx, f material.Filter) error {
	countQuery, err := material.Query(s.db, f)
	if err != nil {
		return s.writeError(c, err)
	}

	var count int64
	if err := countQuery.Count(&count).Error; err != nil {
		return s.writeError(c, err)
	}

	page := pagination.FromRequest(c.Query("page"), s.cfg.Pagination.PageLimit)

	// fresh query; reusing the counted one would carry its statement state
	listQuery, err := material.Query(s.db, f)
	if err != nil {
		return s.writeError(c, err)
	}

	var rows []models.Material

	err = listQuery.Limit(page.Limit).Offset(page.Offset()).Find(&rows).Error
	if err != nil {
		return s.writeError(c, err)
	}

	docs, err := material.ToDocuments(s.db, rows)
	if err != nil {
		return s.writeError(c, err)
	}

	base := s.cfg.Webserver.URL + c.Path()

	query := url.Values{}
	c.Context().QueryArgs().VisitAll(func(key, value []byte) {
		query.Add(string(key), string(value))
	})

	return c.JSON(pagination.Wrap(count, page, base, query, docs))
}

// writeError maps controller errors onto the API error taxonomy.
func (s *Service) writeError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, material.ErrMaterialNotFound):
		return handler.NotFound(c)
	case errors.Is(err, material.ErrPermissionDenied):
		return handler.Forbidden(c)
	case errors.Is(err, material.ErrInvalidReference):
		return handler.InvalidReference(c, err.Error())
	case errors.Is(err, material.ErrConflict):
		return handler.Conflict(c, err.Error())
	default:
		log.Error().Err(err).Str("path", c.Path()).Msg("material request failed")

		return handler.Internal(c)
	}
}

func paramID(c *fiber.Ctx) (uint64, bool) {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil {
		return 0, false
	}

	return id, true
}

func queryAll(c *fiber.Ctx, key string) []string {
	var values []string

	for _, value := range c.Context().QueryArgs().PeekMulti(key) {
		values = append(values, string(value))
	}

	return values
}
