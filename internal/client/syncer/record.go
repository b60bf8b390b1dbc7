package syncer

import (
	"fmt"
	"time"

	"github.com/dkarklins/jobfolio/internal/backend"
)

// Classification constants stamped on every tracked link at creation.
const (
	RecordCategory = "Job Application"
)

// RecordTags returns the fixed tag set for tracked links.
func RecordTags() []string {
	return []string{"job", "application"}
}

// TrackedRecord is one saved job-application link. URL, title and
// description are immutable after creation; the status fields are written
// only by the application flow, and deletion is the only way to clear a
// status once set.
type TrackedRecord struct {
	ID                string
	OwnerID           string
	URL               string
	Title             string
	Description       string
	Category          string
	Tags              []string
	ApplicationStatus string // empty until an application is submitted
	AppliedAt         *time.Time
	CreatedAt         time.Time
}

// Applied reports whether the record has left the not-applied state.
func (r TrackedRecord) Applied() bool {
	return r.ApplicationStatus != ""
}

func (r TrackedRecord) clone() TrackedRecord {
	out := r
	if r.Tags != nil {
		out.Tags = append([]string(nil), r.Tags...)
	}
	if r.AppliedAt != nil {
		at := *r.AppliedAt
		out.AppliedAt = &at
	}
	return out
}

func recordFromRow(row backend.Row) TrackedRecord {
	rec := TrackedRecord{
		ID:                asString(row["id"]),
		OwnerID:           asString(row["user_id"]),
		URL:               asString(row["url"]),
		Title:             asString(row["title"]),
		Description:       asString(row["description"]),
		Category:          asString(row["category"]),
		ApplicationStatus: asString(row["application_status"]),
	}
	rec.Tags = asStrings(row["tags"])
	rec.CreatedAt = asTime(row["created_at"])
	if t := asTime(row["applied_at"]); !t.IsZero() {
		rec.AppliedAt = &t
	}
	return rec
}

func asString(v any) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}

func asStrings(v any) []string {
	switch value := v.(type) {
	case []string:
		return append([]string(nil), value...)
	case []any:
		out := make([]string, 0, len(value))
		for _, item := range value {
			out = append(out, asString(item))
		}
		return out
	default:
		return nil
	}
}

func asTime(v any) time.Time {
	switch value := v.(type) {
	case time.Time:
		return value
	case string:
		if value == "" {
			return time.Time{}
		}
		if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
			return t
		}
		if t, err := time.Parse(time.RFC3339, value); err == nil {
			return t
		}
	}
	return time.Time{}
}
