package storage

import (
	"context"
	"database/sql"

	"github.com/dmitrijs2005/stravastats/internal/server/repositories/activities"
	"github.com/dmitrijs2005/stravastats/internal/server/repositories/credentials"
)

// InMemoryRepositoryManager vends map-backed repositories. Data lives only
// for the lifetime of the process.
type InMemoryRepositoryManager struct {
	credentials credentials.Repository
	activities  activities.Repository
}

func NewInMemoryRepositoryManager() *InMemoryRepositoryManager {
	return &InMemoryRepositoryManager{
		credentials: credentials.NewInMemoryRepository(),
		activities:  activities.NewInMemoryRepository(),
	}
}

func (m *InMemoryRepositoryManager) Conn() *sql.DB {
	return nil
}

func (m *InMemoryRepositoryManager) RunMigrations(ctx context.Context) error {
	return nil
}

func (m *InMemoryRepositoryManager) Credentials() credentials.Repository {
	return m.credentials
}

func (m *InMemoryRepositoryManager) Activities() activities.Repository {
	return m.activities
}
