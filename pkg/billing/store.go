package billing

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/christiananese/hustle-starter/pkg/tenant"
)

// EventRecord is the durable trace of a received webhook event. The
// unique event id is the idempotency anchor; the raw payload is kept for
// audit and replay.
type EventRecord struct {
	EventID     string
	Type        string
	Payload     []byte
	ProcessedAt time.Time
	Error       string
	RetryCount  int
}

// EventStore persists webhook event records.
type EventStore interface {
	// Insert durably records the event. The write must be a single atomic
	// unique-constrained insert: when the event id already exists it
	// returns ErrDuplicateEvent, and under concurrent duplicate delivery
	// exactly one caller succeeds. Never implemented as a lookup followed
	// by an insert.
	Insert(ctx context.Context, record *EventRecord) error

	// RecordFailure stamps a processing error onto an existing record and
	// increments its retry count.
	RecordFailure(ctx context.Context, eventID, message string) error

	// Get returns the record for an event id, or ErrEventNotFound.
	Get(ctx context.Context, eventID string) (*EventRecord, error)
}

// BillingState is everything the webhook processor may write onto an
// organization. Tier and status always travel together so the tenant
// record can never hold a tier from one subscription and a status from
// another.
type BillingState struct {
	Tier           Tier
	Status         Status
	CustomerID     string
	SubscriptionID string
}

// OrganizationStore is the processor's view of tenant records.
type OrganizationStore interface {
	// GetByID returns the organization or tenant.ErrOrganizationNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*tenant.Organization, error)

	// GetBySubscriptionID locates an organization through its billing
	// subscription reference. Fallback lookup for events without an
	// organization correlator.
	GetBySubscriptionID(ctx context.Context, subscriptionID string) (*tenant.Organization, error)

	// UpdateBilling replaces the organization's billing fields in one
	// write. An empty SubscriptionID clears the reference.
	UpdateBilling(ctx context.Context, id uuid.UUID, state BillingState) error
}
