package tenant

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type membershipKey struct {
	orgID       uuid.UUID
	principalID uuid.UUID
}

// MemoryStore is an in-memory organization and membership source, intended
// for tests and local development.
type MemoryStore struct {
	mu          sync.RWMutex
	orgs        map[uuid.UUID]*Organization
	memberships map[membershipKey]*Membership
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		orgs:        make(map[uuid.UUID]*Organization),
		memberships: make(map[membershipKey]*Membership),
	}
}

// PutOrganization inserts or replaces an organization.
func (s *MemoryStore) PutOrganization(org *Organization) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *org
	s.orgs[org.ID] = &cp
}

// PutMembership inserts or replaces a membership.
func (s *MemoryStore) PutMembership(m *Membership) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cp := *m
	s.memberships[membershipKey{orgID: m.OrgID, principalID: m.PrincipalID}] = &cp
}

// GetByID implements OrganizationSource.
func (s *MemoryStore) GetByID(ctx context.Context, id uuid.UUID) (*Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, ok := s.orgs[id]
	if !ok {
		return nil, ErrOrganizationNotFound
	}
	cp := *org
	return &cp, nil
}

// GetMembership implements MembershipSource.
func (s *MemoryStore) GetMembership(ctx context.Context, orgID, principalID uuid.UUID) (*Membership, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	m, ok := s.memberships[membershipKey{orgID: orgID, principalID: principalID}]
	if !ok {
		return nil, ErrMembershipNotFound
	}
	cp := *m
	return &cp, nil
}
