package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/ideationworks/ideation-api/internal/api/dto"
	"github.com/ideationworks/ideation-api/internal/auth"
	"github.com/ideationworks/ideation-api/internal/service"
	apperrors "github.com/ideationworks/ideation-api/pkg/util"
)

// OrganizationsHandler exposes organization CRUD.
type OrganizationsHandler struct {
	orgs       *service.OrganizationService
	principals *auth.PrincipalResolver
}

func NewOrganizationsHandler(orgs *service.OrganizationService, principals *auth.PrincipalResolver) *OrganizationsHandler {
	return &OrganizationsHandler{orgs: orgs, principals: principals}
}

// List handles GET /organizations.
func (h *OrganizationsHandler) List(c *fiber.Ctx) error {
	items, err := h.orgs.List(c.UserContext())
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewOrganizationList(items)})
}

// Get handles GET /organizations/:id.
func (h *OrganizationsHandler) Get(c *fiber.Ctx) error {
	id, err := pathID(c, "organization")
	if err != nil {
		return err
	}
	org, err := h.orgs.Get(c.UserContext(), id)
	if err != nil {
		return apperrors.MapError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewOrganizationResponse(org)})
}

// Create handles POST /organizations. Only the subject id is needed, so the
// user record is not loaded.
func (h *OrganizationsHandler) Create(c *fiber.Ctx) error {
	principal, err := h.principals.Subject(c)
	if err != nil {
		return auth.DenyError(err)
	}
	var req dto.OrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	org, err := h.orgs.Create(c.UserContext(), principal, service.OrganizationInput(req))
	if err != nil {
		return auth.DenyError(err)
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewOrganizationResponse(org)})
}

// Update handles PUT /organizations/:id.
func (h *OrganizationsHandler) Update(c *fiber.Ctx) error {
	principal, err := h.principals.Subject(c)
	if err != nil {
		return auth.DenyError(err)
	}
	id, err := pathID(c, "organization")
	if err != nil {
		return err
	}
	var req dto.OrganizationRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	org, err := h.orgs.Update(c.UserContext(), principal, id, service.OrganizationInput(req))
	if err != nil {
		return auth.DenyError(err)
	}
	return c.JSON(fiber.Map{"data": dto.NewOrganizationResponse(org)})
}

// Delete handles DELETE /organizations/:id.
func (h *OrganizationsHandler) Delete(c *fiber.Ctx) error {
	principal, err := h.principals.Subject(c)
	if err != nil {
		return auth.DenyError(err)
	}
	id, err := pathID(c, "organization")
	if err != nil {
		return err
	}
	if err := h.orgs.Delete(c.UserContext(), principal, id); err != nil {
		return auth.DenyError(err)
	}
	return c.SendStatus(http.StatusNoContent)
}
