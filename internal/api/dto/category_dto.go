package dto

import (
	"time"

	"github.com/ideationworks/ideation-api/internal/domain"
)

// CategoryRequest is the payload for creating or replacing a category.
type CategoryRequest struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	ParentID    *string `json:"parentId,omitempty"`
}

type CategoryResponse struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description"`
	ParentID    *string   `json:"parentId,omitempty"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func NewCategoryResponse(c *domain.Category) CategoryResponse {
	return CategoryResponse{
		ID:          c.ID,
		Name:        c.Name,
		Description: c.Description,
		ParentID:    c.ParentID,
		CreatedAt:   c.CreatedAt,
		UpdatedAt:   c.UpdatedAt,
	}
}

func NewCategoryList(items []domain.Category) []CategoryResponse {
	out := make([]CategoryResponse, 0, len(items))
	for i := range items {
		out = append(out, NewCategoryResponse(&items[i]))
	}
	return out
}
