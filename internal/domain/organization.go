package domain

import "time"

// Organization is a named group owned by the user who created it.
type Organization struct {
	ID          string
	Name        string
	Description string
	OwnerID     string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
