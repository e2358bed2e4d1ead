package apikey

import "errors"

var (
	// ErrInvalidCredential covers every authentication failure visible to the
	// caller: unknown secret, hash mismatch, inactive, revoked, or expired
	// key. Callers must not be able to distinguish these classes; the
	// specific cause is logged server-side only.
	ErrInvalidCredential = errors.New("apikey: invalid credential")

	// ErrKeyNotFound is returned by stores when no key matches a lookup.
	ErrKeyNotFound = errors.New("apikey: key not found")

	// ErrDuplicateFingerprint is returned when a generated secret collides
	// with an existing key's fingerprint.
	ErrDuplicateFingerprint = errors.New("apikey: duplicate fingerprint")

	// ErrStoreRequired is returned when an authenticator is constructed
	// without a backing store.
	ErrStoreRequired = errors.New("apikey: store is required")

	// ErrNoAccess is returned when no API key access is present in context.
	ErrNoAccess = errors.New("apikey: no access in context")
)
