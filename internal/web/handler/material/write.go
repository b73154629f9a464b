package material

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog/log"

	"github.com/materialdesk/materialdesk/internal/auth"
	"github.com/materialdesk/materialdesk/internal/db/controller/collection"
	"github.com/materialdesk/materialdesk/internal/db/controller/material"
	"github.com/materialdesk/materialdesk/internal/web/handler"
)

// Create stores the uploaded file and inserts the material together with its
// owner link and category links as one unit.
func (s *Service) Create(c *fiber.Ctx) error {
	identity := auth.FromContext(c)

	form, err := c.MultipartForm()
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "multipart form required",
		})
	}

	in, errs := material.ParseCreateForm(form.Value, identity.ID)

	files := form.File["file"]
	if len(files) == 0 {
		errs.Add("file", "This field is required")
	}

	if !errs.Empty() {
		return handler.ValidationFailed(c, errs)
	}

	upload, err := files[0].Open()
	if err != nil {
		log.Error().Err(err).Msg("failed to open upload")

		return handler.Internal(c)
	}
	defer upload.Close()

	fileURL, extension, err := s.store.Save(files[0].Filename, upload, time.Now())
	if err != nil {
		log.Error().Err(err).Msg("failed to store upload")

		return handler.Internal(c)
	}

	in.File = fileURL
	in.Extension = extension

	m, err := material.Create(s.db, in)
	if err != nil {
		// the rows rolled back, so the stored file must go too
		if removeErr := s.store.Remove(fileURL); removeErr != nil {
			log.Warn().Err(removeErr).Str("file", fileURL).Msg("failed to remove orphaned upload")
		}

		return s.writeError(c, err)
	}

	doc, err := material.ToDocument(s.db, m)
	if err != nil {
		return s.writeError(c, err)
	}

	return c.Status(fiber.StatusCreated).JSON(doc)
}

// Delete soft-deletes a material and removes its stored file. The row
// itself survives for the owner's collection view.
func (s *Service) Delete(c *fiber.Ctx) error {
	identity := auth.FromContext(c)

	id, ok := paramID(c)
	if !ok {
		return handler.NotFound(c)
	}

	m, err := material.SoftDelete(s.db, id, identity.ID, identity.Level)
	if err != nil {
		return s.writeError(c, err)
	}

	// best effort; a missing file is already the desired state
	if m.File != "" {
		if err := s.store.Remove(m.File); err != nil {
			log.Warn().Err(err).Str("file", m.File).Msg("failed to remove stored file")
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Add puts a material into the requester's collection.
func (s *Service) Add(c *fiber.Ctx) error {
	identity := auth.FromContext(c)

	id, ok := paramID(c)
	if !ok {
		return handler.NotFound(c)
	}

	if err := collection.Add(s.db, id, identity.ID); err != nil {
		switch {
		case errors.Is(err, collection.ErrMaterialNotFound):
			return handler.NotFound(c)
		case errors.Is(err, collection.ErrAlreadyCollected):
			return handler.Conflict(c, err.Error())
		default:
			log.Error().Err(err).Uint64("material_id", id).Msg("failed to add to collection")

			return handler.Internal(c)
		}
	}

	return c.SendStatus(fiber.StatusNoContent)
}

// Remove takes a material out of the requester's collection.
func (s *Service) Remove(c *fiber.Ctx) error {
	identity := auth.FromContext(c)

	id, ok := paramID(c)
	if !ok {
		return handler.NotFound(c)
	}

	if err := collection.Remove(s.db, id, identity.ID); err != nil {
		log.Error().Err(err).Uint64("material_id", id).Msg("failed to remove from collection")

		return handler.Internal(c)
	}

	return c.SendStatus(fiber.StatusNoContent)
}
