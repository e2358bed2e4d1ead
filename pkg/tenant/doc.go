// Package tenant resolves the organization half of the access context for
// session-based requests.
//
// Every tenant-scoped request carries the X-Organization-ID selector
// header. The Resolve middleware records the selected organization id and,
// when the authenticated principal holds a membership there, the membership
// role, both into the request context consumed by the authz guard chain.
// The middleware itself never denies for a missing membership: that
// decision belongs to the guards, which distinguish a malformed request
// (no selector: 400) from a denial (selector without membership: 403).
//
// Organizations and memberships are read through narrow source interfaces
// with Postgres and in-memory implementations in this package.
package tenant
