package repository

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"schematics-backend/models"
	"schematics-backend/storage"
)

func sampleRecord(userID string, at time.Time) *models.PreferenceRecord {
	r := models.DefaultPreferences(userID)
	r.Theme = models.ThemeDark
	r.Language = "fr-CA"
	r.Notifications.SMS = true
	r.Privacy.ShowEmail = true
	r.CreatedAt = at
	r.UpdatedAt = at
	return r
}

// testPreferenceRepository runs the behavior every backend must share
func testPreferenceRepository(t *testing.T, repo PreferenceRepository) {
	ctx := context.Background()
	at := time.Date(2024, 5, 1, 12, 30, 0, 123000, time.UTC)

	t.Run("get missing", func(t *testing.T) {
		_, err := repo.Get(ctx, "nobody")
		assert.True(t, errors.Is(err, ErrPreferenceNotFound))
	})

	t.Run("save and get", func(t *testing.T) {
		want := sampleRecord("u1", at)
		require.NoError(t, repo.Save(ctx, want))

		got, err := repo.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, want, got)
	})

	t.Run("save overwrites", func(t *testing.T) {
		updated := sampleRecord("u1", at)
		updated.Theme = models.ThemeAuto
		updated.Notifications = models.NotificationSettings{}
		updated.UpdatedAt = at.Add(time.Minute)
		require.NoError(t, repo.Save(ctx, updated))

		got, err := repo.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, models.ThemeAuto, got.Theme)
		assert.Equal(t, models.NotificationSettings{}, got.Notifications)
		assert.True(t, got.CreatedAt.Equal(at))
		assert.True(t, got.UpdatedAt.Equal(at.Add(time.Minute)))
	})

	t.Run("keys are independent", func(t *testing.T) {
		require.NoError(t, repo.Save(ctx, sampleRecord("u2", at)))

		u1, err := repo.Get(ctx, "u1")
		require.NoError(t, err)
		assert.Equal(t, models.ThemeAuto, u1.Theme)

		u2, err := repo.Get(ctx, "u2")
		require.NoError(t, err)
		assert.Equal(t, models.ThemeDark, u2.Theme)
	})

	t.Run("delete", func(t *testing.T) {
		require.NoError(t, repo.Delete(ctx, "u1"))

		_, err := repo.Get(ctx, "u1")
		assert.True(t, errors.Is(err, ErrPreferenceNotFound))

		err = repo.Delete(ctx, "u1")
		assert.True(t, errors.Is(err, ErrPreferenceNotFound))

		_, err = repo.Get(ctx, "u2")
		assert.NoError(t, err)
	})
}

func TestMemoryPreferenceRepository(t *testing.T) {
	testPreferenceRepository(t, NewMemoryPreferenceRepository())
}

func TestMemoryPreferenceRepository_StoresCopies(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryPreferenceRepository()

	record := sampleRecord("u1", time.Now().UTC())
	require.NoError(t, repo.Save(ctx, record))
	record.Theme = models.ThemeLight

	got, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, models.ThemeDark, got.Theme)

	got.Language = "de"
	again, err := repo.Get(ctx, "u1")
	require.NoError(t, err)
	assert.Equal(t, "fr-CA", again.Language)
}

func TestDocumentPreferenceRepository(t *testing.T) {
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	testPreferenceRepository(t, NewDocumentPreferenceRepository(store, ""))
}

func TestDocumentPreferenceRepository_PersistsAcrossInstances(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	first := NewDocumentPreferenceRepository(store, "prefs/preferences.json")
	require.NoError(t, first.Save(ctx, sampleRecord("alice", at)))

	second := NewDocumentPreferenceRepository(store, "prefs/preferences.json")
	got, err := second.Get(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, sampleRecord("alice", at), got)

	assert.FileExists(t, filepath.Join(dir, "prefs", "preferences.json"))
}

func TestDocumentPreferenceRepository_DeletingLastRecordRemovesDocument(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	store, err := storage.NewLocalStorage(dir)
	require.NoError(t, err)
	repo := NewDocumentPreferenceRepository(store, "")

	at := time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC)
	require.NoError(t, repo.Save(ctx, sampleRecord("alice", at)))
	require.NoError(t, repo.Save(ctx, sampleRecord("bob", at)))

	require.NoError(t, repo.Delete(ctx, "alice"))
	assert.FileExists(t, filepath.Join(dir, DefaultDocumentKey))

	require.NoError(t, repo.Delete(ctx, "bob"))
	assert.NoFileExists(t, filepath.Join(dir, DefaultDocumentKey))

	_, err = repo.Get(ctx, "bob")
	assert.True(t, errors.Is(err, ErrPreferenceNotFound))

	require.NoError(t, repo.Save(ctx, sampleRecord("carol", at)))
	got, err := repo.Get(ctx, "carol")
	require.NoError(t, err)
	assert.Equal(t, "carol", got.UserID)
}

func TestDocumentPreferenceRepository_EmptyAndCorruptDocuments(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	repo := NewDocumentPreferenceRepository(store, "doc.json")

	require.NoError(t, store.Put(ctx, "doc.json", stringsReader("  \n"), "application/json"))
	_, err = repo.Get(ctx, "u1")
	assert.True(t, errors.Is(err, ErrPreferenceNotFound))

	require.NoError(t, store.Put(ctx, "doc.json", stringsReader("{not json"), "application/json"))
	_, err = repo.Get(ctx, "u1")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrPreferenceNotFound))
}

func TestDocumentPreferenceRepository_KeyComesFromDocument(t *testing.T) {
	ctx := context.Background()
	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	doc := `{"bob": {"userId": "mallory", "theme": "dark", "language": "en",
		"notifications": {"email": true, "push": false, "sms": false},
		"privacy": {"profileVisible": true, "showEmail": false},
		"createdAt": "2024-01-01T00:00:00Z", "updatedAt": "2024-01-01T00:00:00Z"}}`
	require.NoError(t, store.Put(ctx, DefaultDocumentKey, stringsReader(doc), "application/json"))

	got, err := NewDocumentPreferenceRepository(store, "").Get(ctx, "bob")
	require.NoError(t, err)
	assert.Equal(t, "bob", got.UserID)
	assert.Equal(t, models.ThemeDark, got.Theme)
}

func TestSQLitePreferenceRepository(t *testing.T) {
	db, err := OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "prefs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	testPreferenceRepository(t, NewSQLitePreferenceRepository(db))
}
