// Package credcache persists the signed-in credential across CLI runs in
// a local SQLite database, so a fresh process can restore the previous
// session without asking for the password again.
package credcache

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/pressly/goose/v3"

	"github.com/dkarklins/jobfolio/internal/client/credcache/migrations"
)

// Credential is the cached proof of identity. AccessToken may be expired
// by the time it is read back; callers decide whether the refresh token
// is still worth presenting.
type Credential struct {
	UserID       string
	Email        string
	AccessToken  string
	RefreshToken string
	ExpiresAt    time.Time
}

// Expired reports whether the access token's lifetime has passed.
func (c *Credential) Expired() bool {
	return time.Now().After(c.ExpiresAt)
}

// Store is a single-slot credential store: saving replaces whatever was
// cached before.
type Store struct {
	db *sql.DB
}

// Open opens (creating if needed) the cache database at dsn and applies
// the embedded migrations.
func Open(ctx context.Context, dsn string) (*Store, error) {
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening credential cache: %w", err)
	}

	if err := runMigrations(ctx, db); err != nil {
		db.Close()
		return nil, fmt.Errorf("migrating credential cache: %w", err)
	}

	return &Store{db: db}, nil
}

func runMigrations(ctx context.Context, db *sql.DB) error {
	goose.SetBaseFS(migrations.Migrations)
	if err := goose.SetDialect("sqlite3"); err != nil {
		return err
	}
	return goose.UpContext(ctx, db, ".")
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Save replaces the cached credential.
func (s *Store) Save(ctx context.Context, cred Credential) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO credentials (id, user_id, email, access_token, refresh_token, expires_at)
		VALUES (1, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			user_id = excluded.user_id,
			email = excluded.email,
			access_token = excluded.access_token,
			refresh_token = excluded.refresh_token,
			expires_at = excluded.expires_at
	`, cred.UserID, cred.Email, cred.AccessToken, cred.RefreshToken, cred.ExpiresAt.UTC())
	if err != nil {
		return fmt.Errorf("saving credential: %w", err)
	}
	return nil
}

// Load returns the cached credential, or (nil, nil) when none is cached.
func (s *Store) Load(ctx context.Context) (*Credential, error) {
	var cred Credential
	err := s.db.QueryRowContext(ctx, `
		SELECT user_id, email, access_token, refresh_token, expires_at
		FROM credentials WHERE id = 1
	`).Scan(&cred.UserID, &cred.Email, &cred.AccessToken, &cred.RefreshToken, &cred.ExpiresAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading credential: %w", err)
	}
	return &cred, nil
}

// Clear removes the cached credential. Clearing an empty cache is a no-op.
func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM credentials`); err != nil {
		return fmt.Errorf("clearing credential: %w", err)
	}
	return nil
}
