package apikey

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Store persists API keys. GetByFingerprint is the hot path: one indexed
// lookup per authenticated request.
type Store interface {
	// Create persists a new key. Returns ErrDuplicateFingerprint if the
	// fingerprint already exists.
	Create(ctx context.Context, key *Key) error

	// GetByFingerprint returns the key matching the SHA-256 fingerprint of a
	// presented secret, or ErrKeyNotFound. Revoked, inactive and expired
	// keys are still returned; the authenticator decides usability.
	GetByFingerprint(ctx context.Context, fingerprint string) (*Key, error)

	// ListByOrganization returns all keys belonging to an organization.
	ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*Key, error)

	// Revoke marks the key revoked at the given time. Idempotent: revoking
	// an already-revoked key keeps the original timestamp.
	Revoke(ctx context.Context, id uuid.UUID, at time.Time) error

	// TouchLastUsed records the most recent successful use of the key.
	// Best-effort bookkeeping; failures never affect request outcomes.
	TouchLastUsed(ctx context.Context, id uuid.UUID, at time.Time) error
}
