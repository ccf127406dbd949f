package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/pkg/errors"

	"schematics-backend/models"
)

// SQLitePreferenceRepository stores preferences in a SQLite database
type SQLitePreferenceRepository struct {
	db *sql.DB
}

// NewSQLitePreferenceRepository creates a new SQLite preference repository
func NewSQLitePreferenceRepository(db *sql.DB) *SQLitePreferenceRepository {
	return &SQLitePreferenceRepository{db: db}
}

// Get retrieves the preferences for a user
func (r *SQLitePreferenceRepository) Get(ctx context.Context, userID string) (*models.PreferenceRecord, error) {
	query := `
		SELECT user_id, theme, language, notifications, privacy, created_at, updated_at
		FROM user_preferences
		WHERE user_id = ?`

	record := &models.PreferenceRecord{}
	var createdAt, updatedAt int64
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&record.UserID,
		&record.Theme,
		&record.Language,
		&record.Notifications,
		&record.Privacy,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrPreferenceNotFound
		}
		return nil, errors.Wrap(err, "failed to query preferences")
	}

	record.CreatedAt = time.Unix(0, createdAt).UTC()
	record.UpdatedAt = time.Unix(0, updatedAt).UTC()
	return record, nil
}

// Save inserts or overwrites the preferences for record.UserID
func (r *SQLitePreferenceRepository) Save(ctx context.Context, record *models.PreferenceRecord) error {
	notifications, err := record.Notifications.Value()
	if err != nil {
		return errors.Wrap(err, "failed to encode notifications")
	}
	privacy, err := record.Privacy.Value()
	if err != nil {
		return errors.Wrap(err, "failed to encode privacy")
	}

	query := `
		INSERT INTO user_preferences (
			user_id, theme, language, notifications, privacy, created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (user_id) DO UPDATE SET
			theme = excluded.theme,
			language = excluded.language,
			notifications = excluded.notifications,
			privacy = excluded.privacy,
			updated_at = excluded.updated_at`

	_, err = r.db.ExecContext(ctx, query,
		record.UserID,
		string(record.Theme),
		record.Language,
		string(notifications.([]byte)),
		string(privacy.([]byte)),
		record.CreatedAt.UnixNano(),
		record.UpdatedAt.UnixNano(),
	)
	if err != nil {
		return errors.Wrap(err, "failed to save preferences")
	}
	return nil
}

// Delete removes the preferences for a user
func (r *SQLitePreferenceRepository) Delete(ctx context.Context, userID string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM user_preferences WHERE user_id = ?`, userID)
	if err != nil {
		return errors.Wrap(err, "failed to delete preferences")
	}

	n, err := result.RowsAffected()
	if err != nil {
		return errors.Wrap(err, "failed to delete preferences")
	}
	if n == 0 {
		return ErrPreferenceNotFound
	}
	return nil
}
