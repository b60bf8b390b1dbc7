package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/dkarklins/jobfolio/internal/backend"
	"github.com/dkarklins/jobfolio/internal/common"
	"github.com/dkarklins/jobfolio/internal/server/models"
	"github.com/dkarklins/jobfolio/internal/server/repositories/links"
	"github.com/dkarklins/jobfolio/internal/server/repositories/profiles"
)

// StoreService exposes the row-store wire contract over the typed
// repositories. Every operation is scoped to the authenticated owner: the
// handlers pass the verified user id, and filters or rows naming another
// owner are rejected.
type StoreService struct {
	profiles profiles.Repository
	links    links.Repository
}

func NewStoreService(p profiles.Repository, l links.Repository) *StoreService {
	return &StoreService{profiles: p, links: l}
}

func ownerFromFilter(userID string, filter map[string]string) error {
	if owner, ok := filter["user_id"]; ok && owner != userID {
		return fmt.Errorf("%w: filter names another owner", common.ErrUnauthorized)
	}
	return nil
}

func (s *StoreService) Select(ctx context.Context, userID, table string, filter map[string]string, order *backend.Order) ([]map[string]any, error) {
	if err := ownerFromFilter(userID, filter); err != nil {
		return nil, err
	}

	switch table {
	case backend.TableProfiles:
		p, err := s.profiles.GetByUser(ctx, userID)
		if err != nil {
			if errors.Is(err, common.ErrNotFound) {
				return []map[string]any{}, nil
			}
			return nil, common.ErrInternal
		}
		return []map[string]any{profileRow(p)}, nil

	case backend.TableLinks:
		newestFirst := order != nil && order.Column == "created_at" && order.Descending
		list, err := s.links.ListByUser(ctx, userID, newestFirst)
		if err != nil {
			return nil, common.ErrInternal
		}
		rows := make([]map[string]any, 0, len(list))
		for _, l := range list {
			row := linkRow(l)
			if id, ok := filter["id"]; ok && row["id"] != id {
				continue
			}
			rows = append(rows, row)
		}
		return rows, nil

	default:
		return nil, fmt.Errorf("%w: unknown table %q", common.ErrValidation, table)
	}
}

func (s *StoreService) Insert(ctx context.Context, userID, table string, row map[string]any) (map[string]any, error) {
	if table != backend.TableLinks {
		return nil, fmt.Errorf("%w: insert is not supported for %q", common.ErrValidation, table)
	}
	if owner, ok := row["user_id"].(string); ok && owner != userID {
		return nil, fmt.Errorf("%w: row names another owner", common.ErrUnauthorized)
	}

	url, _ := row["url"].(string)
	if url == "" {
		return nil, fmt.Errorf("%w: url is required", common.ErrValidation)
	}

	link := &models.Link{
		UserID:      userID,
		URL:         url,
		Title:       stringField(row, "title"),
		Description: stringField(row, "description"),
		Category:    stringField(row, "category"),
		Tags:        stringsField(row, "tags"),
	}

	created, err := s.links.Create(ctx, link)
	if err != nil {
		return nil, common.ErrInternal
	}
	return linkRow(created), nil
}

// Update supports exactly one patch shape: the application fields of one
// link. Anything else on this surface would bypass the one-way status
// transition, so it is rejected.
func (s *StoreService) Update(ctx context.Context, userID, table string, patch map[string]any, filter map[string]string) ([]map[string]any, error) {
	if table != backend.TableLinks {
		return nil, fmt.Errorf("%w: update is not supported for %q", common.ErrValidation, table)
	}
	if err := ownerFromFilter(userID, filter); err != nil {
		return nil, err
	}
	id, ok := filter["id"]
	if !ok {
		return nil, fmt.Errorf("%w: update requires an id filter", common.ErrValidation)
	}

	status, _ := patch["application_status"].(string)
	if status == "" {
		return nil, fmt.Errorf("%w: only application patches are supported", common.ErrValidation)
	}

	appliedAt := time.Now().UTC()
	if raw, ok := patch["applied_at"].(string); ok {
		if t, err := time.Parse(time.RFC3339Nano, raw); err == nil {
			appliedAt = t
		}
	}

	snapshot, _ := patch["application_snapshot"].(map[string]any)
	note := stringField(patch, "application_note")

	updated, err := s.links.MarkApplied(ctx, userID, id, status, appliedAt, snapshot, note)
	if err != nil {
		return nil, common.ErrInternal
	}

	rows := make([]map[string]any, 0, len(updated))
	for _, l := range updated {
		rows = append(rows, linkRow(l))
	}
	return rows, nil
}

func (s *StoreService) Upsert(ctx context.Context, userID, table string, row map[string]any, conflictKey string) error {
	if table != backend.TableProfiles || conflictKey != "user_id" {
		return fmt.Errorf("%w: upsert is only supported for %s on user_id", common.ErrValidation, backend.TableProfiles)
	}
	if owner, ok := row["user_id"].(string); ok && owner != userID {
		return fmt.Errorf("%w: row names another owner", common.ErrUnauthorized)
	}

	sections := make(map[string]any, len(row))
	for k, v := range row {
		switch k {
		case "id", "user_id", "updated_at", "created_at":
			continue
		}
		sections[k] = v
	}

	if err := s.profiles.Upsert(ctx, &models.Profile{UserID: userID, Sections: sections}); err != nil {
		return common.ErrInternal
	}
	return nil
}

func (s *StoreService) Delete(ctx context.Context, userID, table string, filter map[string]string) error {
	if table != backend.TableLinks {
		return fmt.Errorf("%w: delete is not supported for %q", common.ErrValidation, table)
	}
	if err := ownerFromFilter(userID, filter); err != nil {
		return err
	}
	id, ok := filter["id"]
	if !ok {
		return fmt.Errorf("%w: delete requires an id filter", common.ErrValidation)
	}

	if err := s.links.Delete(ctx, userID, id); err != nil {
		return common.ErrInternal
	}
	return nil
}

func profileRow(p *models.Profile) map[string]any {
	row := map[string]any{
		"id":         p.ID,
		"user_id":    p.UserID,
		"updated_at": p.UpdatedAt.UTC().Format(time.RFC3339Nano),
		"created_at": p.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	for k, v := range p.Sections {
		row[k] = v
	}
	return row
}

func linkRow(l *models.Link) map[string]any {
	row := map[string]any{
		"id":                 l.ID,
		"user_id":            l.UserID,
		"url":                l.URL,
		"title":              l.Title,
		"description":        l.Description,
		"category":           l.Category,
		"tags":               l.Tags,
		"application_status": l.ApplicationStatus,
		"application_note":   l.ApplicationNote,
		"created_at":         l.CreatedAt.UTC().Format(time.RFC3339Nano),
	}
	if l.AppliedAt != nil {
		row["applied_at"] = l.AppliedAt.UTC().Format(time.RFC3339Nano)
	}
	if l.ApplicationSnapshot != nil {
		row["application_snapshot"] = l.ApplicationSnapshot
	}
	return row
}

func stringField(m map[string]any, key string) string {
	s, _ := m[key].(string)
	return s
}

func stringsField(m map[string]any, key string) []string {
	switch v := m[key].(type) {
	case []string:
		return v
	case []any:
		out := make([]string, 0, len(v))
		for _, item := range v {
			if s, ok := item.(string); ok {
				out = append(out, s)
			}
		}
		return out
	default:
		return nil
	}
}
