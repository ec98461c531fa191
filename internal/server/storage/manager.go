// Package storage selects and wires a storage backend for the repositories.
// The backend is chosen explicitly by configuration at startup: "postgres"
// for durable storage, "memory" for an ephemeral in-process store.
package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/dmitrijs2005/stravastats/internal/server/repositories/activities"
	"github.com/dmitrijs2005/stravastats/internal/server/repositories/credentials"
)

const (
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

// RepositoryManager vends repository implementations for one backend.
type RepositoryManager interface {
	// Conn returns the underlying *sql.DB, or nil for non-SQL backends.
	Conn() *sql.DB
	// RunMigrations brings the backend schema up to date.
	RunMigrations(ctx context.Context) error
	Credentials() credentials.Repository
	Activities() activities.Repository
}

// NewRepositoryManager constructs the manager named by backend and runs its
// migrations.
func NewRepositoryManager(ctx context.Context, backend, dsn string) (RepositoryManager, error) {
	var (
		m   RepositoryManager
		err error
	)
	switch backend {
	case BackendMemory:
		m = NewInMemoryRepositoryManager()
	case BackendPostgres:
		m, err = NewPostgresRepositoryManager(dsn)
	default:
		return nil, fmt.Errorf("unknown storage backend: %q", backend)
	}
	if err != nil {
		return nil, err
	}
	if err := m.RunMigrations(ctx); err != nil {
		return nil, fmt.Errorf("migration error: %w", err)
	}
	return m, nil
}
