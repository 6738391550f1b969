package service

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/ideationworks/ideation-api/internal/domain"
	"github.com/ideationworks/ideation-api/internal/repository"
	apperrors "github.com/ideationworks/ideation-api/pkg/util"
)

// CategoryInput carries writable category fields.
type CategoryInput struct {
	Name        string
	Description string
	ParentID    *string
}

// CategoryService implements category CRUD.
type CategoryService struct {
	categories repository.CategoryRepository
}

// NewCategoryService builds the service.
func NewCategoryService(categories repository.CategoryRepository) *CategoryService {
	return &CategoryService{categories: categories}
}

func (s *CategoryService) List(ctx context.Context) ([]domain.Category, error) {
	return s.categories.List(ctx)
}

func (s *CategoryService) Get(ctx context.Context, id string) (*domain.Category, error) {
	category, err := s.categories.GetByID(ctx, id)
	if err != nil {
		return nil, notFound("category", id, err)
	}
	return category, nil
}

func (s *CategoryService) Create(ctx context.Context, in CategoryInput) (*domain.Category, error) {
	category := &domain.Category{}
	if err := s.apply(ctx, category, in); err != nil {
		return nil, err
	}
	if err := s.categories.Create(ctx, category); err != nil {
		return nil, categoryWriteError(err)
	}
	return category, nil
}

func (s *CategoryService) Update(ctx context.Context, id string, in CategoryInput) (*domain.Category, error) {
	category, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if err := s.apply(ctx, category, in); err != nil {
		return nil, err
	}
	if err := s.categories.Update(ctx, category); err != nil {
		return nil, categoryWriteError(err)
	}
	return category, nil
}

func (s *CategoryService) Delete(ctx context.Context, id string) error {
	if err := s.categories.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrReferenceMissing) {
			return apperrors.NewConflict("category is still referenced", map[string]any{"id": id})
		}
		return notFound("category", id, err)
	}
	return nil
}

func (s *CategoryService) apply(ctx context.Context, category *domain.Category, in CategoryInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return apperrors.NewValidationError("invalid category", map[string]any{"name": "required"})
	}

	var parentID *string
	if in.ParentID != nil && strings.TrimSpace(*in.ParentID) != "" {
		id := strings.TrimSpace(*in.ParentID)
		if _, err := uuid.Parse(id); err != nil {
			return apperrors.NewValidationError("invalid category", map[string]any{"parentId": "unknown category"})
		}
		if category.ID != "" && id == category.ID {
			return apperrors.NewValidationError("invalid category", map[string]any{"parentId": "a category cannot be its own parent"})
		}
		if _, err := s.categories.GetByID(ctx, id); err != nil {
			if errors.Is(err, pgx.ErrNoRows) {
				return apperrors.NewValidationError("invalid category", map[string]any{"parentId": "unknown category"})
			}
			return err
		}
		parentID = &id
	}

	category.Name = name
	category.Description = strings.TrimSpace(in.Description)
	category.ParentID = parentID
	return nil
}

func categoryWriteError(err error) error {
	switch {
	case errors.Is(err, repository.ErrDuplicate):
		return apperrors.NewConflict("category name already exists", nil)
	case errors.Is(err, repository.ErrReferenceMissing):
		return apperrors.NewValidationError("invalid category", map[string]any{"parentId": "unknown category"})
	}
	return apperrors.MapError(err)
}

func notFound(resource, id string, err error) error {
	if errors.Is(err, pgx.ErrNoRows) {
		return apperrors.NewNotFound(resource, map[string]any{"id": id})
	}
	return err
}
