package models

import "time"

// Link is one saved job-application link. ApplicationSnapshot holds the
// profile document captured at application time, opaque to the server.
type Link struct {
	ID                  string
	UserID              string
	URL                 string
	Title               string
	Description         string
	Category            string
	Tags                []string
	ApplicationStatus   string
	AppliedAt           *time.Time
	ApplicationSnapshot map[string]any
	ApplicationNote     string
	CreatedAt           time.Time
}
