package dto

import (
	"time"

	"github.com/ideationworks/ideation-api/internal/domain"
)

// OrganizationRequest is the payload for creating or replacing an organization.
type OrganizationRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

type OrganizationResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	OwnerID     string    `json:"ownerId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewOrganizationResponse(o *domain.Organization) OrganizationResponse {
	return OrganizationResponse{
		ID:          o.ID,
		Name:        o.Name,
		Description: o.Description,
		OwnerID:     o.OwnerID,
		CreatedAt:   o.CreatedAt,
		UpdatedAt:   o.UpdatedAt,
	}
}

func NewOrganizationList(items []domain.Organization) []OrganizationResponse {
	out := make([]OrganizationResponse, 0, len(items))
	for i := range items {
		out = append(out, NewOrganizationResponse(&items[i]))
	}
	return out
}
