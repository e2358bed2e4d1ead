package authz

import "errors"

var (
	// ErrUnknownRole is returned when a stored role name does not map to a
	// known ordinal.
	ErrUnknownRole = errors.New("authz: unknown role")

	// ErrOwnerImmutable is returned for mutations that would change or
	// remove an owner membership.
	ErrOwnerImmutable = errors.New("authz: owner membership is immutable")

	// ErrNoPrincipal is returned when an operation requires an
	// authenticated principal and none is present in the context.
	ErrNoPrincipal = errors.New("authz: no principal in context")

	// ErrInvalidSession is returned by session verifiers for credentials
	// that do not resolve to a principal.
	ErrInvalidSession = errors.New("authz: invalid session")
)
