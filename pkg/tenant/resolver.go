package tenant

import (
	"net/http"

	"github.com/google/uuid"
)

// DefaultOrgHeader is the organization selector header every tenant-scoped
// session request must carry.
const DefaultOrgHeader = "X-Organization-ID"

// Resolver extracts the selected organization id from an HTTP request.
// Returns uuid.Nil with a nil error when no selector is present, and
// ErrInvalidIdentifier when a selector is present but malformed.
type Resolver interface {
	Resolve(r *http.Request) (uuid.UUID, error)
}

// HeaderResolver reads the organization id from a request header.
type HeaderResolver struct {
	Header string
}

// NewHeaderResolver creates a resolver for the given header name,
// defaulting to DefaultOrgHeader.
func NewHeaderResolver(header string) *HeaderResolver {
	if header == "" {
		header = DefaultOrgHeader
	}
	return &HeaderResolver{Header: header}
}

// Resolve extracts and validates the selector header value.
func (hr *HeaderResolver) Resolve(r *http.Request) (uuid.UUID, error) {
	value := r.Header.Get(hr.Header)
	if value == "" {
		return uuid.Nil, nil
	}

	id, err := uuid.Parse(value)
	if err != nil {
		return uuid.Nil, ErrInvalidIdentifier
	}

	return id, nil
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(r *http.Request) (uuid.UUID, error)

// Resolve calls the function.
func (f ResolverFunc) Resolve(r *http.Request) (uuid.UUID, error) {
	return f(r)
}
