package tenant

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/christiananese/hustle-starter/pkg/authz"
)

// PostgresStore implements OrganizationSource and MembershipSource on top
// of pgx. Both lookups are single-row reads on indexed keys.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store backed by the given connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// GetByID implements OrganizationSource.
func (s *PostgresStore) GetByID(ctx context.Context, id uuid.UUID) (*Organization, error) {
	const query = `
		SELECT id, slug, name, subscription_tier, subscription_status,
		       billing_customer_id, billing_subscription_id, created_at, updated_at
		FROM organizations
		WHERE id = $1 AND deleted_at IS NULL`

	var org Organization
	err := s.pool.QueryRow(ctx, query, id).Scan(
		&org.ID, &org.Slug, &org.Name,
		&org.SubscriptionTier, &org.SubscriptionStatus,
		&org.BillingCustomerID, &org.BillingSubscriptionID,
		&org.CreatedAt, &org.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrOrganizationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("tenant: query organization: %w", err)
	}

	return &org, nil
}

// GetMembership implements MembershipSource.
func (s *PostgresStore) GetMembership(ctx context.Context, orgID, principalID uuid.UUID) (*Membership, error) {
	const query = `
		SELECT organization_id, principal_id, role, created_at
		FROM memberships
		WHERE organization_id = $1 AND principal_id = $2`

	var (
		m        Membership
		roleName string
	)
	err := s.pool.QueryRow(ctx, query, orgID, principalID).Scan(
		&m.OrgID, &m.PrincipalID, &roleName, &m.CreatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrMembershipNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("tenant: query membership: %w", err)
	}

	m.Role, err = authz.ParseRole(roleName)
	if err != nil {
		// Fail closed on storage corruption rather than granting an
		// unknown role.
		return nil, fmt.Errorf("tenant: membership %s/%s: %w", orgID, principalID, err)
	}

	return &m, nil
}
