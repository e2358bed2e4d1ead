// Package core defines the HTTP error taxonomy shared by every guard and
// handler in the access-control chain, plus the JSON response helpers that
// keep error bodies uniform.
//
// The taxonomy is deliberately small: BadRequest for malformed requests
// (e.g. a missing organization selector), Unauthorized for absent or invalid
// credentials, Forbidden for valid credentials with insufficient access,
// NotFound where existence leakage is acceptable, Conflict for invariant
// violations, TooManyRequests for exhausted rate budgets, and
// InternalServerError for everything unexpected.
package core
