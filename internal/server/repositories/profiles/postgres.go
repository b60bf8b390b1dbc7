package profiles

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dkarklins/jobfolio/internal/common"
	"github.com/dkarklins/jobfolio/internal/dbx"
	"github.com/dkarklins/jobfolio/internal/server/models"
)

type PostgresRepository struct {
	db dbx.DBTX
}

func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetByUser(ctx context.Context, userID string) (*models.Profile, error) {
	query :=
		`SELECT id, user_id, sections, updated_at, created_at FROM user_profiles
		 WHERE user_id = $1
		 `

	p := &models.Profile{}
	var sections []byte
	err := r.db.QueryRowContext(ctx, query, userID).Scan(&p.ID, &p.UserID, &sections, &p.UpdatedAt, &p.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if err := json.Unmarshal(sections, &p.Sections); err != nil {
		return nil, fmt.Errorf("decoding profile sections: %w", err)
	}
	return p, nil
}

// Upsert replaces the user's document wholesale, keyed by owner.
func (r *PostgresRepository) Upsert(ctx context.Context, p *models.Profile) error {
	sections, err := json.Marshal(p.Sections)
	if err != nil {
		return fmt.Errorf("encoding profile sections: %w", err)
	}

	query :=
		`INSERT INTO user_profiles (user_id, sections, updated_at)
         VALUES ($1, $2, now())
		 ON CONFLICT (user_id) DO UPDATE SET
			sections = excluded.sections,
			updated_at = now()
		 RETURNING id
		 `

	if err := r.db.QueryRowContext(ctx, query, p.UserID, sections).Scan(&p.ID); err != nil {
		return fmt.Errorf("db error: %w", err)
	}
	return nil
}
