package apikey

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryStore is an in-memory Store for tests and single-process setups.
type MemoryStore struct {
	mu     sync.RWMutex
	byID   map[uuid.UUID]*Key
	byFP   map[string]uuid.UUID
}

// NewMemoryStore creates an empty in-memory key store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID: make(map[uuid.UUID]*Key),
		byFP: make(map[string]uuid.UUID),
	}
}

// Create implements Store.
func (s *MemoryStore) Create(_ context.Context, key *Key) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byFP[key.Fingerprint]; exists {
		return ErrDuplicateFingerprint
	}

	cp := *key
	cp.Scopes = append([]string(nil), key.Scopes...)
	s.byID[cp.ID] = &cp
	s.byFP[cp.Fingerprint] = cp.ID
	return nil
}

// GetByFingerprint implements Store.
func (s *MemoryStore) GetByFingerprint(_ context.Context, fingerprint string) (*Key, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byFP[fingerprint]
	if !ok {
		return nil, ErrKeyNotFound
	}
	cp := *s.byID[id]
	cp.Scopes = append([]string(nil), cp.Scopes...)
	return &cp, nil
}

// ListByOrganization implements Store.
func (s *MemoryStore) ListByOrganization(_ context.Context, orgID uuid.UUID) ([]*Key, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var keys []*Key
	for _, key := range s.byID {
		if key.OrgID != orgID {
			continue
		}
		cp := *key
		cp.Scopes = append([]string(nil), key.Scopes...)
		keys = append(keys, &cp)
	}
	return keys, nil
}

// Revoke implements Store.
func (s *MemoryStore) Revoke(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, ok := s.byID[id]
	if !ok {
		return ErrKeyNotFound
	}
	if key.RevokedAt == nil {
		key.RevokedAt = &at
	}
	return nil
}

// TouchLastUsed implements Store.
func (s *MemoryStore) TouchLastUsed(_ context.Context, id uuid.UUID, at time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	key, ok := s.byID[id]
	if !ok {
		return ErrKeyNotFound
	}
	key.LastUsedAt = &at
	return nil
}
