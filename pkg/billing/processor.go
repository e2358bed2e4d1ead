package billing

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/christiananese/hustle-starter/pkg/tenant"
)

// Processor applies verified billing events to tenant records exactly
// once. The idempotency gate is the atomic insert of the event record:
// whoever wins the insert applies the side effects, everyone else
// acknowledges and does nothing.
type Processor struct {
	events   EventStore
	orgs     OrganizationStore
	provider Provider
	catalog  *Catalog
	logger   *slog.Logger
	now      func() time.Time
}

// ProcessorOption configures a Processor.
type ProcessorOption func(*Processor)

// WithLogger sets the processor's logger.
func WithLogger(logger *slog.Logger) ProcessorOption {
	return func(p *Processor) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewProcessor creates a webhook event processor.
func NewProcessor(events EventStore, orgs OrganizationStore, provider Provider, catalog *Catalog, opts ...ProcessorOption) (*Processor, error) {
	if events == nil || orgs == nil || provider == nil || catalog == nil {
		return nil, errors.New("billing: processor requires event store, organization store, provider and catalog")
	}

	p := &Processor{
		events:   events,
		orgs:     orgs,
		provider: provider,
		catalog:  catalog,
		logger:   slog.New(slog.DiscardHandler),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Process records the event and applies its side effects. Returning nil
// means the delivery may be acknowledged: the event was either applied,
// recognized as a duplicate, or intentionally ignored. Errors wrapping
// ErrEventFatal are recorded but also acknowledgeable; anything else is
// retryable and the transport should signal the provider accordingly.
func (p *Processor) Process(ctx context.Context, event Event, payload []byte) error {
	meta := event.Meta()
	if meta.ID == "" {
		return fmt.Errorf("%w: event has no id", ErrEventFatal)
	}

	err := p.events.Insert(ctx, &EventRecord{
		EventID:     meta.ID,
		Type:        meta.Type,
		Payload:     payload,
		ProcessedAt: p.now().UTC(),
	})
	if errors.Is(err, ErrDuplicateEvent) {
		// Someone already owns this event, whether a previous delivery or
		// a concurrent one. Acknowledging is the only correct response.
		p.logger.InfoContext(ctx, "duplicate webhook event skipped",
			slog.String("event_id", meta.ID),
			slog.String("event_type", meta.Type))
		return nil
	}
	if err != nil {
		return fmt.Errorf("billing: record event %s: %w", meta.ID, err)
	}

	if err := p.apply(ctx, event); err != nil {
		if recErr := p.events.RecordFailure(ctx, meta.ID, err.Error()); recErr != nil {
			p.logger.ErrorContext(ctx, "failed to record event failure",
				slog.String("event_id", meta.ID),
				slog.Any("error", recErr))
		}
		p.logger.ErrorContext(ctx, "webhook event processing failed",
			slog.String("event_id", meta.ID),
			slog.String("event_type", meta.Type),
			slog.Any("error", err))
		return err
	}

	return nil
}

func (p *Processor) apply(ctx context.Context, event Event) error {
	switch e := event.(type) {
	case *CheckoutCompleted:
		return p.applyCheckoutCompleted(ctx, e)
	case *SubscriptionUpdated:
		return p.applySubscriptionUpdated(ctx, e)
	case *SubscriptionDeleted:
		return p.applySubscriptionDeleted(ctx, e)
	case *PaymentSucceeded:
		p.logger.InfoContext(ctx, "payment succeeded",
			slog.String("event_id", e.ID),
			slog.String("subscription_id", e.SubscriptionID))
		return nil
	case *PaymentFailed:
		p.logger.WarnContext(ctx, "payment failed",
			slog.String("event_id", e.ID),
			slog.String("subscription_id", e.SubscriptionID))
		return nil
	case *UnknownEvent:
		p.logger.InfoContext(ctx, "unhandled webhook event acknowledged",
			slog.String("event_id", e.ID),
			slog.String("event_type", e.Type))
		return nil
	default:
		return fmt.Errorf("%w: unsupported event %T", ErrEventFatal, event)
	}
}

func (p *Processor) applyCheckoutCompleted(ctx context.Context, e *CheckoutCompleted) error {
	if e.OrgID == uuid.Nil {
		return fmt.Errorf("%w: checkout %s", ErrMissingCorrelator, e.ID)
	}

	org, err := p.orgs.GetByID(ctx, e.OrgID)
	if err != nil {
		if errors.Is(err, tenant.ErrOrganizationNotFound) {
			return fmt.Errorf("%w: checkout %s for unknown organization %s", ErrEventFatal, e.ID, e.OrgID)
		}
		return err
	}

	// The checkout event alone does not carry the subscription's status,
	// so the provider remains the source of truth.
	sub, err := p.provider.GetSubscription(ctx, e.SubscriptionID)
	if err != nil {
		return fmt.Errorf("billing: fetch subscription %s: %w", e.SubscriptionID, err)
	}

	priceID := sub.PriceID
	if priceID == "" {
		priceID = e.PriceID
	}
	plan, err := p.catalog.ByPriceID(priceID)
	if err != nil {
		return fmt.Errorf("%w: checkout %s: %s", ErrEventFatal, e.ID, err)
	}

	if err := p.transition(org, sub.Status); err != nil {
		return err
	}

	customerID := sub.CustomerID
	if customerID == "" {
		customerID = e.CustomerID
	}

	return p.orgs.UpdateBilling(ctx, org.ID, BillingState{
		Tier:           plan.Tier,
		Status:         sub.Status,
		CustomerID:     customerID,
		SubscriptionID: sub.ID,
	})
}

func (p *Processor) applySubscriptionUpdated(ctx context.Context, e *SubscriptionUpdated) error {
	org, err := p.locate(ctx, e.OrgID, e.SubscriptionID)
	if err != nil {
		return err
	}

	// Tier follows the plan only when the event names a price the catalog
	// knows; otherwise the current tier stands.
	tier := Tier(org.SubscriptionTier)
	if e.PriceID != "" {
		plan, err := p.catalog.ByPriceID(e.PriceID)
		if err != nil {
			p.logger.WarnContext(ctx, "subscription update references unknown price, keeping tier",
				slog.String("event_id", e.ID),
				slog.String("price_id", e.PriceID))
		} else {
			tier = plan.Tier
		}
	}

	if err := p.transition(org, e.Status); err != nil {
		return err
	}

	return p.orgs.UpdateBilling(ctx, org.ID, BillingState{
		Tier:           tier,
		Status:         e.Status,
		CustomerID:     org.BillingCustomerID,
		SubscriptionID: e.SubscriptionID,
	})
}

func (p *Processor) applySubscriptionDeleted(ctx context.Context, e *SubscriptionDeleted) error {
	org, err := p.locate(ctx, uuid.Nil, e.SubscriptionID)
	if err != nil {
		return err
	}

	if err := p.transition(org, StatusCanceled); err != nil {
		return err
	}

	// Back to the baseline: free tier, no subscription reference. The
	// customer reference is kept so a later checkout reuses it.
	return p.orgs.UpdateBilling(ctx, org.ID, BillingState{
		Tier:           TierFree,
		Status:         StatusCanceled,
		CustomerID:     org.BillingCustomerID,
		SubscriptionID: "",
	})
}

// locate finds the organization by correlator when present, by
// subscription reference otherwise.
func (p *Processor) locate(ctx context.Context, orgID uuid.UUID, subscriptionID string) (*tenant.Organization, error) {
	if orgID != uuid.Nil {
		org, err := p.orgs.GetByID(ctx, orgID)
		if errors.Is(err, tenant.ErrOrganizationNotFound) {
			return nil, fmt.Errorf("%w: unknown organization %s", ErrEventFatal, orgID)
		}
		return org, err
	}

	org, err := p.orgs.GetBySubscriptionID(ctx, subscriptionID)
	if errors.Is(err, tenant.ErrOrganizationNotFound) {
		return nil, fmt.Errorf("%w: no organization for subscription %q", ErrEventFatal, subscriptionID)
	}
	return org, err
}

// transition validates the status change against the transition table.
func (p *Processor) transition(org *tenant.Organization, next Status) error {
	current := Status(org.SubscriptionStatus)
	if current == "" {
		current = StatusNone
	}
	if !next.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownStatus, next)
	}
	if err := Transitions().Step(current, next); err != nil {
		return fmt.Errorf("billing: organization %s: %w", org.ID, err)
	}
	return nil
}
