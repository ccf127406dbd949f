package repository

import (
	"context"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"schematics-backend/models"
)

var (
	// ErrUserNotFound is returned when no user has the requested email
	ErrUserNotFound = errors.New("user not found")
	// ErrEmailTaken is returned when inserting a user whose email is registered
	ErrEmailTaken = errors.New("email already registered")
)

// UserRepository stores registered users. Emails are compared lower-cased.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

// MemoryUserRepository keeps users in a process-local map keyed by email
type MemoryUserRepository struct {
	mu    sync.RWMutex
	users map[string]*models.User
}

// NewMemoryUserRepository creates an empty in-memory user repository
func NewMemoryUserRepository() *MemoryUserRepository {
	return &MemoryUserRepository{users: make(map[string]*models.User)}
}

// Create inserts a user
func (r *MemoryUserRepository) Create(ctx context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	key := strings.ToLower(user.Email)
	if _, ok := r.users[key]; ok {
		return ErrEmailTaken
	}
	u := *user
	r.users[key] = &u
	return nil
}

// GetByEmail retrieves a user by email
func (r *MemoryUserRepository) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	user, ok := r.users[strings.ToLower(email)]
	if !ok {
		return nil, ErrUserNotFound
	}
	u := *user
	return &u, nil
}
