package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"sync"

	"github.com/pkg/errors"

	"schematics-backend/models"
	"schematics-backend/storage"
)

// DefaultDocumentKey is the object key of the preferences document
const DefaultDocumentKey = "preferences.json"

// DocumentPreferenceRepository keeps every record in a single JSON object,
// keyed by user id, stored as one object in a storage backend. Every write
// rewrites the whole document before returning.
type DocumentPreferenceRepository struct {
	mu    sync.Mutex
	store storage.Storage
	key   string
}

// NewDocumentPreferenceRepository creates a repository over the object at key
func NewDocumentPreferenceRepository(store storage.Storage, key string) *DocumentPreferenceRepository {
	if key == "" {
		key = DefaultDocumentKey
	}
	return &DocumentPreferenceRepository{store: store, key: key}
}

// Get retrieves a record from the document
func (r *DocumentPreferenceRepository) Get(ctx context.Context, userID string) (*models.PreferenceRecord, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load(ctx)
	if err != nil {
		return nil, err
	}

	record, ok := doc[userID]
	if !ok {
		return nil, ErrPreferenceNotFound
	}
	return record, nil
}

// Save writes the record and rewrites the document
func (r *DocumentPreferenceRepository) Save(ctx context.Context, record *models.PreferenceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load(ctx)
	if err != nil {
		return err
	}

	doc[record.UserID] = record.Clone()
	return r.write(ctx, doc)
}

// Delete removes the record and rewrites the document. Removing the last
// record deletes the object itself.
func (r *DocumentPreferenceRepository) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	doc, err := r.load(ctx)
	if err != nil {
		return err
	}

	if _, ok := doc[userID]; !ok {
		return ErrPreferenceNotFound
	}
	delete(doc, userID)
	if len(doc) == 0 {
		if err := r.store.Delete(ctx, r.key); err != nil {
			return errors.Wrap(err, "failed to delete preferences document")
		}
		return nil
	}
	return r.write(ctx, doc)
}

// load reads the whole document. A missing or empty document is an empty mapping.
func (r *DocumentPreferenceRepository) load(ctx context.Context) (map[string]*models.PreferenceRecord, error) {
	doc := make(map[string]*models.PreferenceRecord)

	rc, err := r.store.Get(ctx, r.key)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return doc, nil
		}
		return nil, errors.Wrap(err, "failed to read preferences document")
	}
	defer rc.Close()

	data, err := io.ReadAll(rc)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read preferences document")
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return doc, nil
	}

	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "failed to parse preferences document")
	}
	for userID, record := range doc {
		if record == nil {
			delete(doc, userID)
			continue
		}
		record.UserID = userID
	}
	return doc, nil
}

func (r *DocumentPreferenceRepository) write(ctx context.Context, doc map[string]*models.PreferenceRecord) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode preferences document")
	}

	if err := r.store.Put(ctx, r.key, bytes.NewReader(data), "application/json"); err != nil {
		return errors.Wrap(err, "failed to write preferences document")
	}
	return nil
}
