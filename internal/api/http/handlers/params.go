package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	apperrors "github.com/ideationworks/ideation-api/pkg/util"
)

// pathID returns the :id route parameter. Anything that is not a UUID cannot
// exist in storage and is reported as not found.
func pathID(c *fiber.Ctx, resource string) (string, error) {
	raw := c.Params("id")
	id, err := uuid.Parse(raw)
	if err != nil {
		return "", apperrors.NewNotFound(resource, map[string]any{"id": raw})
	}
	return id.String(), nil
}
