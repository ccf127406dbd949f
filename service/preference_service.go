package service

import (
	"context"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"schematics-backend/apperrors"
	"schematics-backend/models"
	"schematics-backend/repository"
	"schematics-backend/validation"
)

// MaxUserIDLength bounds the externally supplied user id
const MaxUserIDLength = 128

// OnMissing selects how Replace and Patch treat a user with no stored record
type OnMissing int

const (
	// OnMissingReject fails with NotFound
	OnMissingReject OnMissing = iota
	// OnMissingUpsert starts from the defaults and creates the record
	OnMissingUpsert
)

func (m OnMissing) String() string {
	switch m {
	case OnMissingReject:
		return "reject"
	case OnMissingUpsert:
		return "upsert"
	default:
		return fmt.Sprintf("OnMissing(%d)", int(m))
	}
}

// ParseOnMissing parses "reject" or "upsert"
func ParseOnMissing(s string) (OnMissing, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "reject", "":
		return OnMissingReject, nil
	case "upsert":
		return OnMissingUpsert, nil
	default:
		return 0, errors.Errorf("invalid on-missing policy %q (want reject or upsert)", s)
	}
}

// PreferenceService handles business logic for user preferences
type PreferenceService struct {
	repo      repository.PreferenceRepository
	onMissing OnMissing
	now       func() time.Time
	logger    *zap.Logger
	locks     *keyedMutex
}

// PreferenceServiceOption is a functional option for PreferenceService
type PreferenceServiceOption func(*PreferenceService)

// WithPreferenceRepository sets the preference repository
func WithPreferenceRepository(repo repository.PreferenceRepository) PreferenceServiceOption {
	return func(s *PreferenceService) {
		s.repo = repo
	}
}

// WithOnMissing sets the policy for updates of unknown users
func WithOnMissing(policy OnMissing) PreferenceServiceOption {
	return func(s *PreferenceService) {
		s.onMissing = policy
	}
}

// WithClock overrides the time source used for timestamps
func WithClock(now func() time.Time) PreferenceServiceOption {
	return func(s *PreferenceService) {
		s.now = now
	}
}

// WithLogger sets the logger
func WithLogger(logger *zap.Logger) PreferenceServiceOption {
	return func(s *PreferenceService) {
		s.logger = logger
	}
}

// NewPreferenceService creates a new preference service. Without a
// repository option it keeps records in memory.
func NewPreferenceService(opts ...PreferenceServiceOption) *PreferenceService {
	s := &PreferenceService{
		onMissing: OnMissingReject,
		now:       defaultNow,
		logger:    zap.NewNop(),
		locks:     newKeyedMutex(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.repo == nil {
		s.repo = repository.NewMemoryPreferenceRepository()
	}
	return s
}

func defaultNow() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}

// OnMissing reports the configured policy
func (s *PreferenceService) OnMissing() OnMissing {
	return s.onMissing
}

// GetPreferencesRequest represents a request to read preferences
type GetPreferencesRequest struct {
	UserID string
}

// GetPreferencesResult represents the result of reading preferences
type GetPreferencesResult struct {
	Preferences *models.PreferenceRecord
	// Stored is false when Preferences are unpersisted defaults
	Stored bool
}

// GetPreferences returns the stored record, or the defaults for a user that
// has never written. Defaults are not persisted.
func (s *PreferenceService) GetPreferences(ctx context.Context, req GetPreferencesRequest) (*GetPreferencesResult, error) {
	userID, err := normalizeUserID(req.UserID)
	if err != nil {
		return nil, err
	}

	record, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrPreferenceNotFound) {
			return &GetPreferencesResult{Preferences: models.DefaultPreferences(userID)}, nil
		}
		return nil, s.internal("get", userID, err)
	}

	return &GetPreferencesResult{Preferences: record, Stored: true}, nil
}

// UpdatePreferencesRequest represents a create, replace or patch request
type UpdatePreferencesRequest struct {
	UserID string
	Patch  *models.PreferencePatch
}

// UpdatePreferencesResult represents the result of a write
type UpdatePreferencesResult struct {
	Preferences *models.PreferenceRecord
	// Created is true when the write inserted a new record
	Created bool
}

// CreatePreferences inserts a new record built from the defaults and the
// patch. It fails with Conflict when the user already has one.
func (s *PreferenceService) CreatePreferences(ctx context.Context, req UpdatePreferencesRequest) (*UpdatePreferencesResult, error) {
	return s.mutate(ctx, "create", req, func(userID string, existing *models.PreferenceRecord) (*models.PreferenceRecord, error) {
		if existing != nil {
			return nil, apperrors.Conflict(fmt.Sprintf("preferences for user %q already exist", userID))
		}
		next := models.DefaultPreferences(userID)
		req.Patch.ApplyTo(next)
		return next, nil
	})
}

// ReplacePreferences overwrites every content field with the defaults
// merged with the patch. createdAt is preserved.
func (s *PreferenceService) ReplacePreferences(ctx context.Context, req UpdatePreferencesRequest) (*UpdatePreferencesResult, error) {
	return s.mutate(ctx, "replace", req, func(userID string, existing *models.PreferenceRecord) (*models.PreferenceRecord, error) {
		if existing == nil && s.onMissing == OnMissingReject {
			return nil, notFound(userID)
		}
		next := models.DefaultPreferences(userID)
		req.Patch.ApplyTo(next)
		return next, nil
	})
}

// PatchPreferences merges the patch into the stored record. Nested settings
// are merged key by key.
func (s *PreferenceService) PatchPreferences(ctx context.Context, req UpdatePreferencesRequest) (*UpdatePreferencesResult, error) {
	return s.mutate(ctx, "patch", req, func(userID string, existing *models.PreferenceRecord) (*models.PreferenceRecord, error) {
		var next *models.PreferenceRecord
		switch {
		case existing != nil:
			next = existing.Clone()
		case s.onMissing == OnMissingUpsert:
			next = models.DefaultPreferences(userID)
		default:
			return nil, notFound(userID)
		}
		req.Patch.ApplyTo(next)
		return next, nil
	})
}

// DeletePreferencesRequest represents a request to delete preferences
type DeletePreferencesRequest struct {
	UserID string
}

// DeletePreferencesResult carries the record that was removed
type DeletePreferencesResult struct {
	Preferences *models.PreferenceRecord
}

// DeletePreferences removes the record and returns it
func (s *PreferenceService) DeletePreferences(ctx context.Context, req DeletePreferencesRequest) (*DeletePreferencesResult, error) {
	userID, err := normalizeUserID(req.UserID)
	if err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	record, err := s.repo.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrPreferenceNotFound) {
			return nil, notFound(userID)
		}
		return nil, s.internal("delete", userID, err)
	}

	if err := s.repo.Delete(ctx, userID); err != nil {
		if errors.Is(err, repository.ErrPreferenceNotFound) {
			return nil, notFound(userID)
		}
		return nil, s.internal("delete", userID, err)
	}

	s.logger.Debug("preferences deleted", zap.String("user_id", userID))
	return &DeletePreferencesResult{Preferences: record}, nil
}

type mergeFunc func(userID string, existing *models.PreferenceRecord) (*models.PreferenceRecord, error)

// mutate runs one read-merge-write cycle under the user's lock. Validation
// happens before the lock is taken, so a rejected patch never touches the store.
func (s *PreferenceService) mutate(ctx context.Context, op string, req UpdatePreferencesRequest, merge mergeFunc) (*UpdatePreferencesResult, error) {
	userID, err := normalizeUserID(req.UserID)
	if err != nil {
		return nil, err
	}
	if err := validation.ValidatePatch(req.Patch); err != nil {
		return nil, err
	}

	unlock := s.locks.Lock(userID)
	defer unlock()

	existing, err := s.repo.Get(ctx, userID)
	if err != nil {
		if !errors.Is(err, repository.ErrPreferenceNotFound) {
			return nil, s.internal(op, userID, err)
		}
		existing = nil
	}

	next, err := merge(userID, existing)
	if err != nil {
		return nil, err
	}

	now := s.now()
	next.UserID = userID
	if existing != nil {
		next.CreatedAt = existing.CreatedAt
		if now.Before(existing.UpdatedAt) {
			now = existing.UpdatedAt
		}
	} else {
		next.CreatedAt = now
	}
	next.UpdatedAt = now

	if err := s.repo.Save(ctx, next); err != nil {
		return nil, s.internal(op, userID, err)
	}

	s.logger.Debug("preferences written",
		zap.String("op", op),
		zap.String("user_id", userID),
		zap.Bool("created", existing == nil),
	)

	return &UpdatePreferencesResult{Preferences: next.Clone(), Created: existing == nil}, nil
}

func (s *PreferenceService) internal(op, userID string, err error) error {
	s.logger.Error("preference store failure",
		zap.String("op", op),
		zap.String("user_id", userID),
		zap.Error(err),
	)
	return apperrors.Internal("preference store failure", err)
}

// normalizeUserID trims the id and rejects empty or oversized ones
func normalizeUserID(userID string) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", apperrors.InvalidInput("user id is required")
	}
	if utf8.RuneCountInString(userID) > MaxUserIDLength {
		return "", apperrors.InvalidInput(fmt.Sprintf("user id must be at most %d characters", MaxUserIDLength))
	}
	return userID, nil
}

func notFound(userID string) error {
	return apperrors.NotFound(fmt.Sprintf("no preferences for user %q", userID))
}
