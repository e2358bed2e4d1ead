package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/christiananese/hustle-starter/pkg/tenant"
)

// PostgresStore implements EventStore and OrganizationStore on top of
// pgx. Event idempotency rides on the primary key of webhook_events: the
// insert uses ON CONFLICT DO NOTHING and reads the affected row count, so
// concurrent duplicate deliveries race on the index, not on application
// logic.
type PostgresStore struct {
	pool *pgxpool.Pool
	orgs *tenant.PostgresStore
}

// NewPostgresStore creates a store backed by the given connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool, orgs: tenant.NewPostgresStore(pool)}
}

// Insert implements EventStore.
func (s *PostgresStore) Insert(ctx context.Context, record *EventRecord) error {
	const query = `
		INSERT INTO webhook_events (event_id, event_type, payload, processed_at, error, retry_count)
		VALUES ($1, $2, $3, $4, NULLIF($5, ''), $6)
		ON CONFLICT (event_id) DO NOTHING`

	tag, err := s.pool.Exec(ctx, query,
		record.EventID, record.Type, record.Payload, record.ProcessedAt, record.Error, record.RetryCount,
	)
	if err != nil {
		return fmt.Errorf("billing: insert event: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrDuplicateEvent
	}
	return nil
}

// RecordFailure implements EventStore.
func (s *PostgresStore) RecordFailure(ctx context.Context, eventID, message string) error {
	const query = `
		UPDATE webhook_events
		SET error = $2, retry_count = retry_count + 1
		WHERE event_id = $1`

	tag, err := s.pool.Exec(ctx, query, eventID, message)
	if err != nil {
		return fmt.Errorf("billing: record event failure: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return ErrEventNotFound
	}
	return nil
}

// Get implements EventStore.
func (s *PostgresStore) Get(ctx context.Context, eventID string) (*EventRecord, error) {
	const query = `
		SELECT event_id, event_type, payload, processed_at, COALESCE(error, ''), retry_count
		FROM webhook_events
		WHERE event_id = $1`

	var record EventRecord
	err := s.pool.QueryRow(ctx, query, eventID).Scan(
		&record.EventID, &record.Type, &record.Payload,
		&record.ProcessedAt, &record.Error, &record.RetryCount,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrEventNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("billing: query event: %w", err)
	}
	return &record, nil
}

// GetByID implements OrganizationStore.
func (s *PostgresStore) GetByID(ctx context.Context, id uuid.UUID) (*tenant.Organization, error) {
	return s.orgs.GetByID(ctx, id)
}

// GetBySubscriptionID implements OrganizationStore.
func (s *PostgresStore) GetBySubscriptionID(ctx context.Context, subscriptionID string) (*tenant.Organization, error) {
	const query = `
		SELECT id, slug, name, subscription_tier, subscription_status,
		       billing_customer_id, billing_subscription_id, created_at, updated_at
		FROM organizations
		WHERE billing_subscription_id = $1 AND deleted_at IS NULL`

	var org tenant.Organization
	err := s.pool.QueryRow(ctx, query, subscriptionID).Scan(
		&org.ID, &org.Slug, &org.Name,
		&org.SubscriptionTier, &org.SubscriptionStatus,
		&org.BillingCustomerID, &org.BillingSubscriptionID,
		&org.CreatedAt, &org.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, tenant.ErrOrganizationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("billing: query organization by subscription: %w", err)
	}
	return &org, nil
}

// UpdateBilling implements OrganizationStore.
func (s *PostgresStore) UpdateBilling(ctx context.Context, id uuid.UUID, state BillingState) error {
	const query = `
		UPDATE organizations
		SET subscription_tier = $2,
		    subscription_status = $3,
		    billing_customer_id = $4,
		    billing_subscription_id = $5,
		    updated_at = now()
		WHERE id = $1 AND deleted_at IS NULL`

	tag, err := s.pool.Exec(ctx, query, id,
		string(state.Tier), string(state.Status), state.CustomerID, state.SubscriptionID,
	)
	if err != nil {
		return fmt.Errorf("billing: update organization billing: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return tenant.ErrOrganizationNotFound
	}
	return nil
}
