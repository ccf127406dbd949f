package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pkg/errors"

	"schematics-backend/storage"
)

// Backend names the store behind the repositories
type Backend string

const (
	BackendMemory   Backend = "memory"
	BackendFile     Backend = "file"
	BackendPostgres Backend = "postgres"
	BackendSQLite   Backend = "sqlite"
)

// ParseBackend validates a backend name
func ParseBackend(s string) (Backend, error) {
	switch b := Backend(s); b {
	case BackendMemory, BackendFile, BackendPostgres, BackendSQLite:
		return b, nil
	default:
		return "", errors.Errorf("unknown store backend %q (want memory, file, postgres or sqlite)", s)
	}
}

// BackendConfig holds the settings needed to open any backend
type BackendConfig struct {
	Backend     Backend
	DatabaseURL string // postgres
	SQLitePath  string // sqlite
	DocumentKey string // file
	Storage     storage.StorageConfig
}

// Stores bundles the repositories opened for one backend
type Stores struct {
	Preferences PreferenceRepository
	Users       UserRepository

	closers []func()
}

// Close releases every connection the stores hold
func (s *Stores) Close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// OpenStores opens the repositories for cfg.Backend. The memory and file
// backends keep users in memory.
func OpenStores(ctx context.Context, cfg BackendConfig) (*Stores, error) {
	switch cfg.Backend {
	case BackendMemory, "":
		return &Stores{
			Preferences: NewMemoryPreferenceRepository(),
			Users:       NewMemoryUserRepository(),
		}, nil

	case BackendFile:
		store, err := storage.NewStorage(ctx, cfg.Storage)
		if err != nil {
			return nil, errors.Wrap(err, "failed to initialize storage")
		}
		return &Stores{
			Preferences: NewDocumentPreferenceRepository(store, cfg.DocumentKey),
			Users:       NewMemoryUserRepository(),
		}, nil

	case BackendPostgres:
		pool, err := OpenPostgres(ctx, cfg.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := EnsurePostgresSchema(ctx, pool); err != nil {
			pool.Close()
			return nil, err
		}
		return &Stores{
			Preferences: NewPostgresPreferenceRepository(pool),
			Users:       NewPostgresUserRepository(pool),
			closers:     []func(){pool.Close},
		}, nil

	case BackendSQLite:
		db, err := OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return &Stores{
			Preferences: NewSQLitePreferenceRepository(db),
			Users:       NewSQLiteUserRepository(db),
			closers:     []func(){func() { db.Close() }},
		}, nil

	default:
		return nil, errors.Errorf("unknown store backend %q", cfg.Backend)
	}
}

// OpenPostgres connects a pool and verifies the connection
func OpenPostgres(ctx context.Context, connString string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, connString)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, errors.Wrap(err, "failed to ping database")
	}

	return pool, nil
}
