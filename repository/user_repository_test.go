package repository

import (
	"context"
	"io"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schematics-backend/models"
)

func stringsReader(s string) io.Reader {
	return strings.NewReader(s)
}

func testUserRepository(t *testing.T, repo UserRepository) {
	ctx := context.Background()
	user := &models.User{
		ID:           uuid.New(),
		FirstName:    "Ada",
		LastName:     "Lovelace",
		Email:        "ada@example.com",
		PasswordHash: "$2a$04$hash",
		CreatedAt:    time.Date(2024, 3, 1, 9, 0, 0, 0, time.UTC),
	}

	_, err := repo.GetByEmail(ctx, user.Email)
	assert.True(t, errors.Is(err, ErrUserNotFound))

	require.NoError(t, repo.Create(ctx, user))

	got, err := repo.GetByEmail(ctx, "ADA@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, got.ID)
	assert.Equal(t, "Ada", got.FirstName)
	assert.Equal(t, "Lovelace", got.LastName)
	assert.Equal(t, user.PasswordHash, got.PasswordHash)
	assert.True(t, user.CreatedAt.Equal(got.CreatedAt))

	dup := *user
	dup.ID = uuid.New()
	dup.Email = "Ada@Example.com"
	err = repo.Create(ctx, &dup)
	assert.True(t, errors.Is(err, ErrEmailTaken))
}

func TestMemoryUserRepository(t *testing.T) {
	testUserRepository(t, NewMemoryUserRepository())
}

func TestSQLiteUserRepository(t *testing.T) {
	db, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	testUserRepository(t, NewSQLiteUserRepository(db))
}
