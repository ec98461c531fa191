package httpapi

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// stateTTL bounds how long a login attempt may sit between the redirect to
// the provider and the callback.
const stateTTL = 10 * time.Minute

// stateStore tracks outstanding OAuth state nonces. A nonce is single-use:
// Consume removes it.
type stateStore struct {
	mu     sync.Mutex
	ttl    time.Duration
	issued map[string]time.Time
}

func newStateStore(ttl time.Duration) *stateStore {
	return &stateStore{ttl: ttl, issued: make(map[string]time.Time)}
}

// Issue creates and remembers a new nonce.
func (s *stateStore) Issue() string {
	state := uuid.NewString()
	s.mu.Lock()
	defer s.mu.Unlock()
	s.issued[state] = time.Now().Add(s.ttl)
	// drop anything already expired while we hold the lock
	now := time.Now()
	for k, deadline := range s.issued {
		if deadline.Before(now) {
			delete(s.issued, k)
		}
	}
	return state
}

// Consume reports whether state is a known, unexpired nonce and forgets it.
func (s *stateStore) Consume(state string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	deadline, ok := s.issued[state]
	if !ok {
		return false
	}
	delete(s.issued, state)
	return deadline.After(time.Now())
}
