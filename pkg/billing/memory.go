package billing

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"github.com/christiananese/hustle-starter/pkg/tenant"
)

// MemoryEventStore is an in-memory EventStore. Insert holds one mutex
// across the existence check and the write, giving the same atomicity as
// a unique index.
type MemoryEventStore struct {
	mu      sync.Mutex
	records map[string]*EventRecord
}

// NewMemoryEventStore creates an empty in-memory event store.
func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{records: make(map[string]*EventRecord)}
}

// Insert implements EventStore.
func (s *MemoryEventStore) Insert(_ context.Context, record *EventRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[record.EventID]; exists {
		return ErrDuplicateEvent
	}
	cp := *record
	cp.Payload = append([]byte(nil), record.Payload...)
	s.records[record.EventID] = &cp
	return nil
}

// RecordFailure implements EventStore.
func (s *MemoryEventStore) RecordFailure(_ context.Context, eventID, message string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[eventID]
	if !ok {
		return ErrEventNotFound
	}
	record.Error = message
	record.RetryCount++
	return nil
}

// Get implements EventStore.
func (s *MemoryEventStore) Get(_ context.Context, eventID string) (*EventRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.records[eventID]
	if !ok {
		return nil, ErrEventNotFound
	}
	cp := *record
	cp.Payload = append([]byte(nil), record.Payload...)
	return &cp, nil
}

// MemoryOrganizationStore is an in-memory OrganizationStore for tests and
// local development.
type MemoryOrganizationStore struct {
	mu   sync.RWMutex
	orgs map[uuid.UUID]*tenant.Organization
}

// NewMemoryOrganizationStore creates an empty in-memory organization
// store.
func NewMemoryOrganizationStore() *MemoryOrganizationStore {
	return &MemoryOrganizationStore{orgs: make(map[uuid.UUID]*tenant.Organization)}
}

// Put inserts or replaces an organization.
func (s *MemoryOrganizationStore) Put(org *tenant.Organization) {
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *org
	s.orgs[org.ID] = &cp
}

// GetByID implements OrganizationStore.
func (s *MemoryOrganizationStore) GetByID(_ context.Context, id uuid.UUID) (*tenant.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	org, ok := s.orgs[id]
	if !ok {
		return nil, tenant.ErrOrganizationNotFound
	}
	cp := *org
	return &cp, nil
}

// GetBySubscriptionID implements OrganizationStore.
func (s *MemoryOrganizationStore) GetBySubscriptionID(_ context.Context, subscriptionID string) (*tenant.Organization, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if subscriptionID == "" {
		return nil, tenant.ErrOrganizationNotFound
	}
	for _, org := range s.orgs {
		if org.BillingSubscriptionID == subscriptionID {
			cp := *org
			return &cp, nil
		}
	}
	return nil, tenant.ErrOrganizationNotFound
}

// UpdateBilling implements OrganizationStore.
func (s *MemoryOrganizationStore) UpdateBilling(_ context.Context, id uuid.UUID, state BillingState) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	org, ok := s.orgs[id]
	if !ok {
		return tenant.ErrOrganizationNotFound
	}
	org.SubscriptionTier = string(state.Tier)
	org.SubscriptionStatus = string(state.Status)
	org.BillingCustomerID = state.CustomerID
	org.BillingSubscriptionID = state.SubscriptionID
	return nil
}
