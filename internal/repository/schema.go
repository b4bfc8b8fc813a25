package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
    seq           BIGSERIAL,
    id            TEXT PRIMARY KEY,
    full_name     TEXT NOT NULL,
    mobile_number TEXT NOT NULL DEFAULT '',
    profile_photo TEXT NOT NULL DEFAULT '',
    role          TEXT NOT NULL CHECK (role IN ('user', 'admin'))
);

CREATE TABLE IF NOT EXISTS tasks (
    seq            BIGSERIAL,
    id             TEXT PRIMARY KEY,
    title          TEXT NOT NULL,
    description    TEXT NOT NULL,
    progress       INTEGER NOT NULL CHECK (progress BETWEEN 0 AND 100),
    deadline       TIMESTAMPTZ NOT NULL,
    status         TEXT NOT NULL CHECK (status IN ('pending', 'submitted', 'approved', 'rejected')),
    user_id        TEXT NOT NULL REFERENCES users (id),
    photos         TEXT[] NOT NULL DEFAULT '{}',
    created_at     TIMESTAMPTZ NOT NULL,
    admin_comments TEXT
);

CREATE INDEX IF NOT EXISTS tasks_user_id_idx ON tasks (user_id);
`

// EnsureSchema creates the users and tasks tables when they are missing.
func EnsureSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}
