package tenant

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/christiananese/hustle-starter/pkg/authz"
)

// Organization is the unit of data isolation and billing. The subscription
// fields are mutated only by the billing webhook processor; status and
// tier are always written together from provider truth, never inferred
// locally.
type Organization struct {
	ID                    uuid.UUID  `json:"id"`
	Slug                  string     `json:"slug"`
	Name                  string     `json:"name"`
	SubscriptionTier      string     `json:"subscription_tier"`
	SubscriptionStatus    string     `json:"subscription_status"`
	BillingCustomerID     string     `json:"-"`
	BillingSubscriptionID string     `json:"-"`
	CreatedAt             time.Time  `json:"created_at"`
	UpdatedAt             time.Time  `json:"updated_at"`
	DeletedAt             *time.Time `json:"-"`
}

// Membership is the (organization, principal) relation granting
// session-based access. Exactly one membership exists per pair, and every
// organization has exactly one owner.
type Membership struct {
	OrgID       uuid.UUID  `json:"organization_id"`
	PrincipalID uuid.UUID  `json:"principal_id"`
	Role        authz.Role `json:"role"`
	CreatedAt   time.Time  `json:"created_at"`
}

// MembershipSource resolves memberships during request handling. Lookups
// are read-only and may run fully in parallel.
type MembershipSource interface {
	// GetMembership returns the membership for (orgID, principalID).
	// Returns ErrMembershipNotFound when the principal has no membership
	// in the organization.
	GetMembership(ctx context.Context, orgID, principalID uuid.UUID) (*Membership, error)
}

// OrganizationSource loads organizations by identifier.
type OrganizationSource interface {
	// GetByID returns the organization or ErrOrganizationNotFound.
	GetByID(ctx context.Context, id uuid.UUID) (*Organization, error)
}
