package activities

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/stravastats/internal/server/models"
)

// InMemoryRepository keeps activities in a map keyed by external id, guarded
// by a mutex. It backs the "memory" storage backend selected in config.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items map[int64]models.Activity
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{items: make(map[int64]models.Activity)}
}

func (r *InMemoryRepository) Upsert(ctx context.Context, userID int64, acts []models.Activity) (int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, a := range acts {
		a.UserID = userID
		r.items[a.ExternalID] = a
	}
	return len(acts), nil
}

func (r *InMemoryRepository) ListForUser(ctx context.Context, userID int64) ([]models.Activity, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var result []models.Activity
	for _, a := range r.items {
		if a.UserID == userID {
			result = append(result, a)
		}
	}
	return result, nil
}
