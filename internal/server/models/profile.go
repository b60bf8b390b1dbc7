package models

import "time"

// Profile is one user's profile document. Sections holds the five
// document sections as decoded JSON; the server treats them as opaque.
type Profile struct {
	ID        string
	UserID    string
	Sections  map[string]any
	UpdatedAt time.Time
	CreatedAt time.Time
}
