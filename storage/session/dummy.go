package session

import (
	"context"
	"sync"
	"time"
)

// dummyStore is an in-memory Store for tests and local development.
// TTLs are honored lazily on read.
type dummyStore struct {
	mu      sync.RWMutex
	revoked map[string]time.Time // sessionID -> expiry
	users   map[string][]string  // userID -> sessionIDs
}

var _ Store = (*dummyStore)(nil)

func NewDummyStore() Store {
	return &dummyStore{
		revoked: make(map[string]time.Time),
		users:   make(map[string][]string),
	}
}

func (store *dummyStore) Touch(ctx context.Context, sessionID, userID string, ttl time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	for _, id := range store.users[userID] {
		if id == sessionID {
			return nil
		}
	}
	store.users[userID] = append(store.users[userID], sessionID)
	return nil
}

func (store *dummyStore) Revoke(ctx context.Context, sessionID string, ttl time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	store.revoked[sessionID] = time.Now().Add(ttl)
	return nil
}

func (store *dummyStore) IsRevoked(ctx context.Context, sessionID string) (bool, error) {
	store.mu.RLock()
	defer store.mu.RUnlock()

	expiry, ok := store.revoked[sessionID]
	if !ok {
		return false, nil
	}
	return time.Now().Before(expiry), nil
}

func (store *dummyStore) RevokeAll(ctx context.Context, userID string, ttl time.Duration) error {
	store.mu.Lock()
	defer store.mu.Unlock()

	expiry := time.Now().Add(ttl)
	for _, id := range store.users[userID] {
		store.revoked[id] = expiry
	}
	return nil
}
