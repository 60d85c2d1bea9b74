package store

import (
	"context"
	"fmt"
)

const (
	BackendFile     = "file"
	BackendSQLite   = "sqlite"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// Options selects and configures a backing.
type Options struct {
	Backend     string
	FilePath    string
	SQLitePath  string
	PostgresURL string
}

// Open builds the Store named by opts.Backend. PostgreSQL schemas are migrated
// before the pool is returned.
func Open(ctx context.Context, opts Options) (Store, error) {
	switch opts.Backend {
	case "", BackendFile:
		return NewFileStore(opts.FilePath), nil
	case BackendMemory:
		return NewMemoryStore(nil), nil
	case BackendSQLite:
		s, err := NewSQLiteStore(opts.SQLitePath)
		if err != nil {
			return nil, err
		}
		return s, nil
	case BackendPostgres:
		if opts.PostgresURL == "" {
			return nil, fmt.Errorf("postgres backend requires a database URL")
		}
		if err := RunMigrations(opts.PostgresURL); err != nil {
			return nil, err
		}
		s, err := NewPostgresStore(ctx, opts.PostgresURL)
		if err != nil {
			return nil, err
		}
		return s, nil
	}
	return nil, fmt.Errorf("unknown store backend %q", opts.Backend)
}
