package kv

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"path/filepath"
)

const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

type Options struct {
	Backend  string
	Path     string
	DB       *sql.DB
	RedisURL string
}

// Open builds the store selected by opts.Backend. Stores that hold their own
// connections also implement io.Closer.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendMemory:
		return NewMemoryStore(), nil
	case BackendFile:
		return NewFileStore(opts.Path)
	case BackendSQLite:
		return NewSQLiteStore(filepath.Join(opts.Path, "storefront.db"))
	case BackendPostgres:
		if opts.DB == nil {
			return nil, errors.New("kv: postgres backend requires DATABASE_URL")
		}
		s := NewPostgresStore(opts.DB)
		if err := s.EnsureSchema(ctx); err != nil {
			return nil, fmt.Errorf("kv: create kv_store table: %w", err)
		}
		return s, nil
	case BackendRedis:
		client, err := DialRedis(ctx, opts.RedisURL)
		if err != nil {
			return nil, err
		}
		return NewRedisStore(client, DefaultRedisPrefix), nil
	default:
		return nil, fmt.Errorf("kv: unknown backend %q", opts.Backend)
	}
}
