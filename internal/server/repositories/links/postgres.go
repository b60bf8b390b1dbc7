package links

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/dkarklins/jobfolio/internal/dbx"
	"github.com/dkarklins/jobfolio/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

const linkColumns = `id, user_id, url, title, description, category, tags,
	application_status, applied_at, application_snapshot, application_note, created_at`

func scanLink(row interface{ Scan(...any) error }) (*models.Link, error) {
	l := &models.Link{}
	var tags, snapshot []byte
	var appliedAt sql.NullTime

	err := row.Scan(&l.ID, &l.UserID, &l.URL, &l.Title, &l.Description, &l.Category, &tags,
		&l.ApplicationStatus, &appliedAt, &snapshot, &l.ApplicationNote, &l.CreatedAt)
	if err != nil {
		return nil, err
	}

	if appliedAt.Valid {
		t := appliedAt.Time
		l.AppliedAt = &t
	}
	if err := json.Unmarshal(tags, &l.Tags); err != nil {
		return nil, fmt.Errorf("decoding tags: %w", err)
	}
	if snapshot != nil {
		if err := json.Unmarshal(snapshot, &l.ApplicationSnapshot); err != nil {
			return nil, fmt.Errorf("decoding snapshot: %w", err)
		}
	}
	return l, nil
}

func (r *PostgresRepository) ListByUser(ctx context.Context, userID string, newestFirst bool) ([]*models.Link, error) {
	order := "ASC"
	if newestFirst {
		order = "DESC"
	}
	query := fmt.Sprintf(`SELECT %s FROM user_links WHERE user_id = $1 ORDER BY created_at %s`, linkColumns, order)

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Link, 0)
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating links: %w", err)
	}
	return out, nil
}

func (r *PostgresRepository) Create(ctx context.Context, link *models.Link) (*models.Link, error) {
	tags, err := json.Marshal(link.Tags)
	if err != nil {
		return nil, fmt.Errorf("encoding tags: %w", err)
	}

	query :=
		`INSERT INTO user_links (user_id, url, title, description, category, tags)
         VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING id, created_at
		 `

	err = r.db.QueryRowContext(ctx, query,
		link.UserID, link.URL, link.Title, link.Description, link.Category, tags).
		Scan(&link.ID, &link.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	return link, nil
}

// MarkApplied patches the application fields of one link, scoped to the
// owner, and returns the rows it touched.
func (r *PostgresRepository) MarkApplied(ctx context.Context, userID, id string, status string, appliedAt time.Time, snapshot map[string]any, note string) ([]*models.Link, error) {
	snap, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("encoding snapshot: %w", err)
	}

	query := fmt.Sprintf(
		`UPDATE user_links SET
			application_status = $3,
			applied_at = $4,
			application_snapshot = $5,
			application_note = $6
		 WHERE id = $1 AND user_id = $2
		 RETURNING %s`, linkColumns)

	rows, err := r.db.QueryContext(ctx, query, id, userID, status, appliedAt, snap, note)
	if err != nil {
		return nil, fmt.Errorf("db error: %w", err)
	}
	defer rows.Close()

	out := make([]*models.Link, 0, 1)
	for rows.Next() {
		l, err := scanLink(rows)
		if err != nil {
			return nil, fmt.Errorf("scanning link: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating links: %w", err)
	}
	return out, nil
}

// Delete removes the link only when it belongs to userID. Deleting an
// already-absent link is not an error.
func (r *PostgresRepository) Delete(ctx context.Context, userID, id string) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM user_links WHERE id = $1 AND user_id = $2`, id, userID)
	if err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
