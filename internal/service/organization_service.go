package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/ideationworks/ideation-api/internal/auth"
	"github.com/ideationworks/ideation-api/internal/domain"
	"github.com/ideationworks/ideation-api/internal/repository"
	apperrors "github.com/ideationworks/ideation-api/pkg/util"
)

// OrganizationInput carries writable organization fields.
type OrganizationInput struct {
	Name        string
	Description string
}

// OrganizationService implements organization CRUD.
type OrganizationService struct {
	orgs repository.OrganizationRepository
}

// NewOrganizationService builds the service.
func NewOrganizationService(orgs repository.OrganizationRepository) *OrganizationService {
	return &OrganizationService{orgs: orgs}
}

func (s *OrganizationService) List(ctx context.Context) ([]domain.Organization, error) {
	return s.orgs.List(ctx)
}

func (s *OrganizationService) Get(ctx context.Context, id string) (*domain.Organization, error) {
	org, err := s.orgs.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("organization", id, err)
	}
	return org, nil
}

// Create stores a new organization owned by the calling principal.
func (s *OrganizationService) Create(ctx context.Context, principal *auth.Principal, in OrganizationInput) (*domain.Organization, error) {
	if principal == nil || principal.SubjectID == "" {
		return nil, auth.ErrUnauthenticated
	}
	name, err := validateOrganization(in)
	if err != nil {
		return nil, err
	}

	org := &domain.Organization{
		Name:        name,
		Description: strings.TrimSpace(in.Description),
		OwnerID:     principal.SubjectID,
	}
	if err := s.orgs.Create(ctx, org); err != nil {
		if errors.Is(err, repository.ErrReferenceMissing) {
			return nil, fmt.Errorf("%w: owner %s", auth.ErrPrincipalNotFound, principal.SubjectID)
		}
		return nil, err
	}
	return org, nil
}

// Update changes an organization. Only its owner may do so.
func (s *OrganizationService) Update(ctx context.Context, principal *auth.Principal, id string, in OrganizationInput) (*domain.Organization, error) {
	org, err := s.owned(ctx, principal, id)
	if err != nil {
		return nil, err
	}
	name, err := validateOrganization(in)
	if err != nil {
		return nil, err
	}
	org.Name = name
	org.Description = strings.TrimSpace(in.Description)
	if err := s.orgs.Update(ctx, org); err != nil {
		return nil, notFound("organization", id, err)
	}
	return org, nil
}

// Delete removes an organization. Only its owner may do so.
func (s *OrganizationService) Delete(ctx context.Context, principal *auth.Principal, id string) error {
	if _, err := s.owned(ctx, principal, id); err != nil {
		return err
	}
	if err := s.orgs.Delete(ctx, id); err != nil {
		return notFound("organization", id, err)
	}
	return nil
}

func (s *OrganizationService) owned(ctx context.Context, principal *auth.Principal, id string) (*domain.Organization, error) {
	if principal == nil || principal.SubjectID == "" {
		return nil, auth.ErrUnauthenticated
	}
	org, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if org.OwnerID != principal.SubjectID {
		return nil, apperrors.NewForbidden("only the owner can modify this organization", nil)
	}
	return org, nil
}

func validateOrganization(in OrganizationInput) (string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return "", apperrors.NewValidationError("invalid organization", map[string]any{"name": "required"})
	}
	return name, nil
}
