package repository

import (
	"context"
	"database/sql"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"
)

// PostgresSchema creates the tables used by the Postgres repositories
const PostgresSchema = `
CREATE TABLE IF NOT EXISTS users (
    id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
    first_name VARCHAR(50) NOT NULL,
    last_name VARCHAR(50) NOT NULL,
    email VARCHAR(254) UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE TABLE IF NOT EXISTS user_preferences (
    user_id VARCHAR(128) PRIMARY KEY,
    theme VARCHAR(10) NOT NULL CHECK (theme IN ('light', 'dark', 'auto')),
    language VARCHAR(64) NOT NULL,
    notifications JSONB NOT NULL DEFAULT '{}'::jsonb,
    privacy JSONB NOT NULL DEFAULT '{}'::jsonb,
    created_at TIMESTAMPTZ NOT NULL,
    updated_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_user_preferences_updated_at ON user_preferences(updated_at);
`

// SQLiteSchema mirrors PostgresSchema. JSON settings are TEXT and
// timestamps are Unix nanoseconds.
const SQLiteSchema = `
CREATE TABLE IF NOT EXISTS users (
    id TEXT PRIMARY KEY,
    first_name TEXT NOT NULL,
    last_name TEXT NOT NULL,
    email TEXT UNIQUE NOT NULL,
    password_hash TEXT NOT NULL,
    created_at INTEGER NOT NULL
);

CREATE TABLE IF NOT EXISTS user_preferences (
    user_id TEXT PRIMARY KEY,
    theme TEXT NOT NULL CHECK (theme IN ('light', 'dark', 'auto')),
    language TEXT NOT NULL,
    notifications TEXT NOT NULL DEFAULT '{}',
    privacy TEXT NOT NULL DEFAULT '{}',
    created_at INTEGER NOT NULL,
    updated_at INTEGER NOT NULL
);
`

// EnsurePostgresSchema creates missing tables. It is idempotent.
func EnsurePostgresSchema(ctx context.Context, db *pgxpool.Pool) error {
	if _, err := db.Exec(ctx, PostgresSchema); err != nil {
		return errors.Wrap(err, "failed to create postgres schema")
	}
	return nil
}

// EnsureSQLiteSchema creates missing tables. It is idempotent.
func EnsureSQLiteSchema(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, SQLiteSchema); err != nil {
		return errors.Wrap(err, "failed to create sqlite schema")
	}
	return nil
}
