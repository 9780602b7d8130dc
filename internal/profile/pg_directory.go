package profile

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/taahs-backlog/dodgegame-web-portal/internal/db"
)

// PGDirectory is the canonical profile directory, backed by postgres.
type PGDirectory struct {
	db *db.DB
}

func NewPGDirectory(db *db.DB) *PGDirectory {
	return &PGDirectory{db: db}
}

func (d *PGDirectory) LookupByUsername(ctx context.Context, username string) (string, error) {
	var userID string
	err := d.db.QueryRowContext(ctx, `
		SELECT user_id
		FROM profiles
		WHERE username = $1
	`, username).Scan(&userID)

	if errors.Is(err, sql.ErrNoRows) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("profile: lookup %q: %w", username, err)
	}

	return userID, nil
}

func (d *PGDirectory) Upsert(ctx context.Context, userID, username string) error {
	_, err := d.db.ExecContext(ctx, `
		INSERT INTO profiles (user_id, username)
		VALUES ($1, $2)
		ON CONFLICT (user_id)
		DO UPDATE SET username = EXCLUDED.username, updated_at = NOW()
	`, userID, username)
	if err != nil {
		return fmt.Errorf("profile: upsert user %s: %w", userID, err)
	}
	return nil
}
