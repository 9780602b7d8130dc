package db

import (
	"context"
	"database/sql"
)

type DB struct {
	*sql.DB
}

// The profile directory is deliberately tiny: one row per user, keyed by the
// provider-assigned user id. Usernames are unique exactly as stored
// (case-sensitive), which is why the index is on the raw column.
const keystoneMigration = `
CREATE TABLE IF NOT EXISTS profiles (
    user_id uuid PRIMARY KEY,
    username text NOT NULL,
    created_at timestamptz NOT NULL DEFAULT NOW(),
    updated_at timestamptz NOT NULL DEFAULT NOW()
);

CREATE UNIQUE INDEX IF NOT EXISTS profiles_username_unique
ON profiles (username);
`

func RunKeystoneMigration(ctx context.Context, db *sql.DB) error {
	_, err := db.ExecContext(ctx, keystoneMigration)
	return err
}
