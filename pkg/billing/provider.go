package billing

import "context"

// Provider abstracts the payment provider. One implementation per vendor;
// the processor never sees vendor payload shapes, only typed events.
type Provider interface {
	// SignatureHeader names the HTTP header carrying the webhook
	// signature.
	SignatureHeader() string

	// ParseWebhook verifies the signature and decodes the payload into a
	// typed event. Returns ErrInvalidSignature before any payload
	// interpretation when verification fails.
	ParseWebhook(ctx context.Context, payload []byte, signature string) (Event, error)

	// GetSubscription fetches the authoritative subscription state. Used
	// after checkout, when the event alone does not carry everything the
	// tenant record needs.
	GetSubscription(ctx context.Context, subscriptionID string) (*Subscription, error)
}

// Subscription is the provider's view of a subscription, reduced to the
// fields the tenant record tracks.
type Subscription struct {
	ID         string
	CustomerID string
	PriceID    string
	Status     Status
}
