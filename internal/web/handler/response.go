// Package handler holds the shared route constants and JSON error responses
// of the API handlers. Write-unit aborts map onto a small stable taxonomy:
// "conflict" for uniqueness violations, "invalid_reference" for writes
// naming missing rows, "internal" for everything else.
package handler

import (
	"github.com/gofiber/fiber/v2"

	"github.com/materialdesk/materialdesk/internal/validation"
)

// ValidationFailed rejects a request with per-field reasons.
func ValidationFailed(c *fiber.Ctx, errs validation.Errors) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"errors": errs,
	})
}

// NotFound rejects a request for a row that does not exist or is not
// visible to the requester.
func NotFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
		"error": "not found",
	})
}

// Forbidden rejects a request the requester may not perform.
func Forbidden(c *fiber.Ctx) error {
	return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
		"error": "permission denied",
	})
}

// Conflict rejects a write that violates a uniqueness constraint.
func Conflict(c *fiber.Ctx, detail string) error {
	return c.Status(fiber.StatusConflict).JSON(fiber.Map{
		"error":  "conflict",
		"detail": detail,
	})
}

// InvalidReference rejects a write unit that names a missing row.
func InvalidReference(c *fiber.Ctx, detail string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"error":  "invalid_reference",
		"detail": detail,
	})
}

// Internal hides an unexpected failure behind a stable response.
func Internal(c *fiber.Ctx) error {
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "internal",
	})
}
