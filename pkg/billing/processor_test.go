package billing_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christiananese/hustle-starter/pkg/billing"
	"github.com/christiananese/hustle-starter/pkg/statemachine"
	"github.com/christiananese/hustle-starter/pkg/tenant"
)

const catalogYAML = `
plans:
  - price_id: price_starter_monthly
    tier: starter
    name: Starter
    interval: monthly
    amount: 900
    currency: USD
  - price_id: price_pro_monthly
    tier: pro
    name: Pro
    interval: monthly
    amount: 2900
    currency: USD
    trial_days: 14
`

// stubProvider serves subscription lookups from a map. ParseWebhook is
// unused by processor tests.
type stubProvider struct {
	subs    map[string]*billing.Subscription
	lookErr error
}

func (p *stubProvider) SignatureHeader() string { return "X-Billing-Signature" }

func (p *stubProvider) ParseWebhook(context.Context, []byte, string) (billing.Event, error) {
	return nil, errors.New("not implemented")
}

func (p *stubProvider) GetSubscription(_ context.Context, id string) (*billing.Subscription, error) {
	if p.lookErr != nil {
		return nil, p.lookErr
	}
	sub, ok := p.subs[id]
	if !ok {
		return nil, fmt.Errorf("unknown subscription %q", id)
	}
	return sub, nil
}

// countingOrgStore counts billing updates to assert exactly-once side
// effects.
type countingOrgStore struct {
	*billing.MemoryOrganizationStore
	updates atomic.Int64
}

func (s *countingOrgStore) UpdateBilling(ctx context.Context, id uuid.UUID, state billing.BillingState) error {
	s.updates.Add(1)
	return s.MemoryOrganizationStore.UpdateBilling(ctx, id, state)
}

type fixture struct {
	events   *billing.MemoryEventStore
	orgs     *countingOrgStore
	provider *stubProvider
	proc     *billing.Processor
	org      *tenant.Organization
}

func newFixture(t *testing.T, status string) *fixture {
	t.Helper()

	catalog, err := billing.ParseCatalog([]byte(catalogYAML))
	require.NoError(t, err)

	org := &tenant.Organization{
		ID:                 uuid.New(),
		Slug:               "acme",
		Name:               "Acme",
		SubscriptionTier:   "free",
		SubscriptionStatus: status,
		CreatedAt:          time.Now(),
		UpdatedAt:          time.Now(),
	}

	f := &fixture{
		events:   billing.NewMemoryEventStore(),
		orgs:     &countingOrgStore{MemoryOrganizationStore: billing.NewMemoryOrganizationStore()},
		provider: &stubProvider{subs: map[string]*billing.Subscription{}},
		org:      org,
	}
	f.orgs.Put(org)

	f.proc, err = billing.NewProcessor(f.events, f.orgs, f.provider, catalog)
	require.NoError(t, err)
	return f
}

func checkoutEvent(orgID uuid.UUID) *billing.CheckoutCompleted {
	return &billing.CheckoutCompleted{
		EventMeta: billing.EventMeta{
			ID:         "evt_" + uuid.NewString(),
			Type:       "transaction.completed",
			OccurredAt: time.Now(),
		},
		OrgID:          orgID,
		CustomerID:     "ctm_123",
		SubscriptionID: "sub_123",
	}
}

func TestProcessCheckoutCompleted(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "none")
	f.provider.subs["sub_123"] = &billing.Subscription{
		ID:         "sub_123",
		CustomerID: "ctm_123",
		PriceID:    "price_pro_monthly",
		Status:     billing.StatusActive,
	}

	event := checkoutEvent(f.org.ID)
	require.NoError(t, f.proc.Process(context.Background(), event, []byte(`{}`)))

	org, err := f.orgs.GetByID(context.Background(), f.org.ID)
	require.NoError(t, err)
	assert.Equal(t, "pro", org.SubscriptionTier)
	assert.Equal(t, "active", org.SubscriptionStatus)
	assert.Equal(t, "ctm_123", org.BillingCustomerID)
	assert.Equal(t, "sub_123", org.BillingSubscriptionID)

	record, err := f.events.Get(context.Background(), event.ID)
	require.NoError(t, err)
	assert.Equal(t, "transaction.completed", record.Type)
	assert.Empty(t, record.Error)
}

func TestProcessDuplicateEvent(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "none")
	f.provider.subs["sub_123"] = &billing.Subscription{
		ID: "sub_123", PriceID: "price_starter_monthly", Status: billing.StatusActive,
	}

	event := checkoutEvent(f.org.ID)
	require.NoError(t, f.proc.Process(context.Background(), event, []byte(`{}`)))
	require.NoError(t, f.proc.Process(context.Background(), event, []byte(`{}`)),
		"a duplicate delivery must be acknowledged, not retried")

	assert.Equal(t, int64(1), f.orgs.updates.Load(), "side effects applied exactly once")
}

func TestProcessConcurrentDuplicates(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "none")
	f.provider.subs["sub_123"] = &billing.Subscription{
		ID: "sub_123", PriceID: "price_starter_monthly", Status: billing.StatusActive,
	}

	event := checkoutEvent(f.org.ID)

	var wg sync.WaitGroup
	errs := make([]error, 20)
	for i := range errs {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = f.proc.Process(context.Background(), event, []byte(`{}`))
		}()
	}
	wg.Wait()

	for i, err := range errs {
		assert.NoError(t, err, "delivery %d", i)
	}
	assert.Equal(t, int64(1), f.orgs.updates.Load(), "exactly one delivery applies the transition")
}

func TestCheckoutMissingCorrelator(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "none")

	event := checkoutEvent(uuid.Nil)
	err := f.proc.Process(context.Background(), event, []byte(`{}`))
	assert.ErrorIs(t, err, billing.ErrMissingCorrelator)
	assert.ErrorIs(t, err, billing.ErrEventFatal)

	record, getErr := f.events.Get(context.Background(), event.ID)
	require.NoError(t, getErr)
	assert.NotEmpty(t, record.Error, "failure persisted on the event record")
	assert.Equal(t, 1, record.RetryCount)
}

func TestCheckoutUnknownPrice(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "none")
	f.provider.subs["sub_123"] = &billing.Subscription{
		ID: "sub_123", PriceID: "price_not_in_catalog", Status: billing.StatusActive,
	}

	err := f.proc.Process(context.Background(), checkoutEvent(f.org.ID), []byte(`{}`))
	assert.ErrorIs(t, err, billing.ErrEventFatal)
	assert.ErrorIs(t, err, billing.ErrUnknownPrice)
}

func TestSubscriptionUpdatedFallbackLookup(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "active")
	f.org.BillingSubscriptionID = "sub_123"
	f.org.SubscriptionTier = "pro"
	f.orgs.Put(f.org)

	// No correlator: the processor must locate the org by subscription
	// reference.
	event := &billing.SubscriptionUpdated{
		EventMeta:      billing.EventMeta{ID: "evt_upd_1", Type: "subscription.updated", OccurredAt: time.Now()},
		SubscriptionID: "sub_123",
		Status:         billing.StatusPastDue,
	}
	require.NoError(t, f.proc.Process(context.Background(), event, []byte(`{}`)))

	org, err := f.orgs.GetByID(context.Background(), f.org.ID)
	require.NoError(t, err)
	assert.Equal(t, "past_due", org.SubscriptionStatus)
	assert.Equal(t, "pro", org.SubscriptionTier, "tier unchanged without a price id")
}

func TestSubscriptionUpdatedPlanChange(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "active")
	f.org.BillingSubscriptionID = "sub_123"
	f.org.SubscriptionTier = "starter"
	f.orgs.Put(f.org)

	event := &billing.SubscriptionUpdated{
		EventMeta:      billing.EventMeta{ID: "evt_upd_2", Type: "subscription.updated", OccurredAt: time.Now()},
		SubscriptionID: "sub_123",
		Status:         billing.StatusActive,
		PriceID:        "price_pro_monthly",
	}
	require.NoError(t, f.proc.Process(context.Background(), event, []byte(`{}`)))

	org, err := f.orgs.GetByID(context.Background(), f.org.ID)
	require.NoError(t, err)
	assert.Equal(t, "pro", org.SubscriptionTier)
}

func TestCheckoutThenDeleted(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "none")
	f.provider.subs["sub_123"] = &billing.Subscription{
		ID: "sub_123", CustomerID: "ctm_123", PriceID: "price_pro_monthly", Status: billing.StatusActive,
	}

	require.NoError(t, f.proc.Process(context.Background(), checkoutEvent(f.org.ID), []byte(`{}`)))

	deleted := &billing.SubscriptionDeleted{
		EventMeta:      billing.EventMeta{ID: "evt_del_1", Type: "subscription.canceled", OccurredAt: time.Now()},
		SubscriptionID: "sub_123",
	}
	require.NoError(t, f.proc.Process(context.Background(), deleted, []byte(`{}`)))

	org, err := f.orgs.GetByID(context.Background(), f.org.ID)
	require.NoError(t, err)
	assert.Equal(t, "canceled", org.SubscriptionStatus)
	assert.Equal(t, "free", org.SubscriptionTier, "deletion resets to the baseline tier")
	assert.Empty(t, org.BillingSubscriptionID, "subscription reference cleared")
	assert.Equal(t, "ctm_123", org.BillingCustomerID, "customer reference survives for future checkouts")
}

func TestInvalidTransitionIsRetryable(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "canceled")
	f.org.BillingSubscriptionID = "sub_123"
	f.orgs.Put(f.org)

	event := &billing.SubscriptionUpdated{
		EventMeta:      billing.EventMeta{ID: "evt_bad_1", Type: "subscription.updated", OccurredAt: time.Now()},
		SubscriptionID: "sub_123",
		Status:         billing.StatusPastDue,
	}
	err := f.proc.Process(context.Background(), event, []byte(`{}`))
	assert.ErrorIs(t, err, statemachine.ErrInvalidTransition)
	assert.NotErrorIs(t, err, billing.ErrEventFatal)

	org, getErr := f.orgs.GetByID(context.Background(), f.org.ID)
	require.NoError(t, getErr)
	assert.Equal(t, "canceled", org.SubscriptionStatus, "illegal transition leaves state untouched")
}

func TestPaymentEventsAreAuditOnly(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "active")

	for _, event := range []billing.Event{
		&billing.PaymentSucceeded{
			EventMeta:      billing.EventMeta{ID: "evt_pay_1", Type: "transaction.payment_succeeded"},
			SubscriptionID: "sub_123",
		},
		&billing.PaymentFailed{
			EventMeta:      billing.EventMeta{ID: "evt_pay_2", Type: "transaction.payment_failed"},
			SubscriptionID: "sub_123",
		},
		&billing.UnknownEvent{
			EventMeta: billing.EventMeta{ID: "evt_misc_1", Type: "address.updated"},
		},
	} {
		require.NoError(t, f.proc.Process(context.Background(), event, []byte(`{}`)))
	}

	assert.Equal(t, int64(0), f.orgs.updates.Load(), "no tenant mutation for audit-only events")

	record, err := f.events.Get(context.Background(), "evt_pay_1")
	require.NoError(t, err)
	assert.Equal(t, "transaction.payment_succeeded", record.Type)
}

func TestTransientFailureIsRetryable(t *testing.T) {
	t.Parallel()

	f := newFixture(t, "none")
	f.provider.lookErr = errors.New("provider unavailable")

	err := f.proc.Process(context.Background(), checkoutEvent(f.org.ID), []byte(`{}`))
	require.Error(t, err)
	assert.NotErrorIs(t, err, billing.ErrEventFatal)
}
