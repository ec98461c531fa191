package credentials

import (
	"context"
	"sort"
	"sync"

	"github.com/dmitrijs2005/stravastats/internal/common"
	"github.com/dmitrijs2005/stravastats/internal/server/models"
)

// InMemoryRepository keeps credentials in a map guarded by a mutex. It backs
// the "memory" storage backend selected in config; data does not survive a
// restart.
type InMemoryRepository struct {
	mu    sync.RWMutex
	items map[int64]models.Credential
}

func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{items: make(map[int64]models.Credential)}
}

func (r *InMemoryRepository) Get(ctx context.Context, userID int64) (*models.Credential, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	cred, ok := r.items[userID]
	if !ok {
		return nil, common.ErrNotFound
	}
	return &cred, nil
}

func (r *InMemoryRepository) Save(ctx context.Context, cred *models.Credential) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[cred.UserID] = *cred
	return nil
}

func (r *InMemoryRepository) ListUserIDs(ctx context.Context) ([]int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ids := make([]int64, 0, len(r.items))
	for id := range r.items {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids, nil
}
