package domain

import "time"

// Category groups ideas. Names are unique; a category may have one parent.
type Category struct {
	ID          string
	Name        string
	Description string
	ParentID    *string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
