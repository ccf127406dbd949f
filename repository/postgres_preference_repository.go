package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"schematics-backend/models"
)

// PostgresPreferenceRepository handles database operations for preferences
type PostgresPreferenceRepository struct {
	db *pgxpool.Pool
}

// NewPostgresPreferenceRepository creates a new preference repository
func NewPostgresPreferenceRepository(db *pgxpool.Pool) *PostgresPreferenceRepository {
	return &PostgresPreferenceRepository{db: db}
}

// Get retrieves the preferences for a user
func (r *PostgresPreferenceRepository) Get(ctx context.Context, userID string) (*models.PreferenceRecord, error) {
	record := &models.PreferenceRecord{}
	query := `
		SELECT user_id, theme, language, notifications, privacy, created_at, updated_at
		FROM user_preferences
		WHERE user_id = $1`

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&record.UserID,
		&record.Theme,
		&record.Language,
		&record.Notifications,
		&record.Privacy,
		&record.CreatedAt,
		&record.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrPreferenceNotFound
		}
		return nil, errors.Wrap(err, "failed to query preferences")
	}

	record.CreatedAt = record.CreatedAt.UTC()
	record.UpdatedAt = record.UpdatedAt.UTC()
	return record, nil
}

// Save inserts or overwrites the preferences for record.UserID
func (r *PostgresPreferenceRepository) Save(ctx context.Context, record *models.PreferenceRecord) error {
	query := `
		INSERT INTO user_preferences (
			user_id, theme, language, notifications, privacy, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7
		)
		ON CONFLICT (user_id) DO UPDATE SET
			theme = EXCLUDED.theme,
			language = EXCLUDED.language,
			notifications = EXCLUDED.notifications,
			privacy = EXCLUDED.privacy,
			updated_at = EXCLUDED.updated_at`

	_, err := r.db.Exec(
		ctx, query,
		record.UserID,
		record.Theme,
		record.Language,
		record.Notifications,
		record.Privacy,
		record.CreatedAt,
		record.UpdatedAt,
	)
	if err != nil {
		return errors.Wrap(err, "failed to save preferences")
	}
	return nil
}

// Delete removes the preferences for a user
func (r *PostgresPreferenceRepository) Delete(ctx context.Context, userID string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM user_preferences WHERE user_id = $1`, userID)
	if err != nil {
		return errors.Wrap(err, "failed to delete preferences")
	}
	if tag.RowsAffected() == 0 {
		return ErrPreferenceNotFound
	}
	return nil
}
