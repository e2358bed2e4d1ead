package tenant

import "errors"

var (
	// ErrOrganizationNotFound is returned when no organization matches the
	// identifier.
	ErrOrganizationNotFound = errors.New("tenant: organization not found")

	// ErrMembershipNotFound is returned when the principal has no
	// membership in the selected organization. Guards translate this to
	// Forbidden, never NotFound, to avoid leaking tenant existence.
	ErrMembershipNotFound = errors.New("tenant: membership not found")

	// ErrInvalidIdentifier is returned when the selector header does not
	// carry a well-formed organization id.
	ErrInvalidIdentifier = errors.New("tenant: invalid organization identifier")
)
