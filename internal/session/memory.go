package session

import (
	"context"
	"sync"

	"github.com/gilbertouk/gamer-support/internal/crypto"
)

// MemoryStore is the process-local fallback used when REDIS_ADDR is not
// configured, and by tests. Sessions do not survive a restart.
type MemoryStore struct {
	mu      sync.RWMutex
	byToken map[string]string
	byUser  map[string]map[string]struct{}
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byToken: make(map[string]string),
		byUser:  make(map[string]map[string]struct{}),
	}
}

func (s *MemoryStore) Save(_ context.Context, userID, token string) error {
	hash := crypto.HashToken(token)
	s.mu.Lock()
	defer s.mu.Unlock()
	s.byToken[hash] = userID
	if s.byUser[userID] == nil {
		s.byUser[userID] = make(map[string]struct{})
	}
	s.byUser[userID][hash] = struct{}{}
	return nil
}

func (s *MemoryStore) Find(_ context.Context, token string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	userID, ok := s.byToken[crypto.HashToken(token)]
	if !ok {
		return "", ErrNotFound
	}
	return userID, nil
}

func (s *MemoryStore) TokensByUser(_ context.Context, userID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	hashes := make([]string, 0, len(s.byUser[userID]))
	for hash := range s.byUser[userID] {
		hashes = append(hashes, hash)
	}
	return hashes, nil
}

func (s *MemoryStore) DeleteByUser(_ context.Context, userID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for hash := range s.byUser[userID] {
		delete(s.byToken, hash)
	}
	delete(s.byUser, userID)
	return nil
}
