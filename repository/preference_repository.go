package repository

import (
	"context"
	"sync"

	"github.com/pkg/errors"

	"schematics-backend/models"
)

// ErrPreferenceNotFound is returned when no record exists for a user
var ErrPreferenceNotFound = errors.New("preferences not found")

// PreferenceRepository is the backing map from user id to preference record.
// Implementations must be safe for concurrent use.
type PreferenceRepository interface {
	// Get returns the record for userID or ErrPreferenceNotFound
	Get(ctx context.Context, userID string) (*models.PreferenceRecord, error)

	// Save inserts or fully overwrites the record keyed by record.UserID
	Save(ctx context.Context, record *models.PreferenceRecord) error

	// Delete removes the record for userID or returns ErrPreferenceNotFound
	Delete(ctx context.Context, userID string) error
}

// MemoryPreferenceRepository keeps records in a process-local map
type MemoryPreferenceRepository struct {
	mu      sync.RWMutex
	records map[string]*models.PreferenceRecord
}

// NewMemoryPreferenceRepository creates an empty in-memory repository
func NewMemoryPreferenceRepository() *MemoryPreferenceRepository {
	return &MemoryPreferenceRepository{
		records: make(map[string]*models.PreferenceRecord),
	}
}

// Get retrieves a copy of the stored record
func (r *MemoryPreferenceRepository) Get(ctx context.Context, userID string) (*models.PreferenceRecord, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[userID]
	if !ok {
		return nil, ErrPreferenceNotFound
	}
	return record.Clone(), nil
}

// Save stores a copy of the record
func (r *MemoryPreferenceRepository) Save(ctx context.Context, record *models.PreferenceRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.records[record.UserID] = record.Clone()
	return nil
}

// Delete removes the record
func (r *MemoryPreferenceRepository) Delete(ctx context.Context, userID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.records[userID]; !ok {
		return ErrPreferenceNotFound
	}
	delete(r.records, userID)
	return nil
}
