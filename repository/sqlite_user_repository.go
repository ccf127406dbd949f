package repository

import (
	"context"
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"

	"schematics-backend/models"
)

// SQLiteUserRepository stores users in a SQLite database
type SQLiteUserRepository struct {
	db *sql.DB
}

// NewSQLiteUserRepository creates a new SQLite user repository
func NewSQLiteUserRepository(db *sql.DB) *SQLiteUserRepository {
	return &SQLiteUserRepository{db: db}
}

// Create inserts a user
func (r *SQLiteUserRepository) Create(ctx context.Context, user *models.User) error {
	query := `
		INSERT INTO users (id, first_name, last_name, email, password_hash, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`

	_, err := r.db.ExecContext(ctx, query,
		user.ID.String(),
		user.FirstName,
		user.LastName,
		strings.ToLower(user.Email),
		user.PasswordHash,
		user.CreatedAt.UnixNano(),
	)
	if err != nil {
		var sqliteErr sqlite3.Error
		if errors.As(err, &sqliteErr) && sqliteErr.ExtendedCode == sqlite3.ErrConstraintUnique {
			return ErrEmailTaken
		}
		return errors.Wrap(err, "failed to create user")
	}
	return nil
}

// GetByEmail retrieves a user by email
func (r *SQLiteUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	query := `
		SELECT id, first_name, last_name, email, password_hash, created_at
		FROM users
		WHERE email = ?`

	user := &models.User{}
	var id string
	var createdAt int64
	err := r.db.QueryRowContext(ctx, query, strings.ToLower(email)).Scan(
		&id,
		&user.FirstName,
		&user.LastName,
		&user.Email,
		&user.PasswordHash,
		&createdAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrUserNotFound
		}
		return nil, errors.Wrap(err, "failed to query user")
	}

	user.ID, err = uuid.Parse(id)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid user id %q", id)
	}
	user.CreatedAt = time.Unix(0, createdAt).UTC()
	return user, nil
}
