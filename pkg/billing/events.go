package billing

import (
	"time"

	"github.com/google/uuid"
)

// Event is a provider webhook event decoded into a typed variant at the
// boundary. Each variant carries only the fields its event type
// guarantees; handlers switch on the concrete type instead of digging
// through raw maps.
type Event interface {
	Meta() EventMeta
}

// EventMeta is the envelope shared by all event variants. ID is the
// provider-assigned event id that anchors idempotency.
type EventMeta struct {
	ID         string
	Type       string
	OccurredAt time.Time
}

func (m EventMeta) Meta() EventMeta { return m }

// CheckoutCompleted signals a finished checkout. OrgID is the correlator
// the checkout session was created with; without it the event cannot be
// attributed to a tenant.
type CheckoutCompleted struct {
	EventMeta
	OrgID          uuid.UUID
	CustomerID     string
	SubscriptionID string
	PriceID        string
}

// SubscriptionUpdated signals a status or plan change on an existing
// subscription. OrgID may be absent (uuid.Nil); the processor then falls
// back to locating the organization by subscription id.
type SubscriptionUpdated struct {
	EventMeta
	OrgID          uuid.UUID
	SubscriptionID string
	Status         Status
	PriceID        string
}

// SubscriptionDeleted signals the end of a subscription.
type SubscriptionDeleted struct {
	EventMeta
	SubscriptionID string
}

// PaymentSucceeded is recorded for audit; state changes arrive separately
// as SubscriptionUpdated.
type PaymentSucceeded struct {
	EventMeta
	SubscriptionID string
}

// PaymentFailed is recorded for audit.
type PaymentFailed struct {
	EventMeta
	SubscriptionID string
}

// UnknownEvent is any verified event type the processor does not act on.
// It is recorded and acknowledged, never an error.
type UnknownEvent struct {
	EventMeta
}
