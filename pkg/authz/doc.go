// Package authz implements the hierarchical authorization chain for
// organization-scoped requests.
//
// Roles form a total order (owner > admin > member > viewer) compared only
// through their ordinals, and operations declare the minimal access Level
// they need: Public ⊂ Authenticated ⊂ TenantScoped ⊂ AdminOrAbove ⊂
// OwnerOnly. The Require middleware evaluates the chain in order and
// short-circuits on the first failure, mapping each failure class to a
// distinct HTTP error: a missing organization selector is a malformed
// request (400), a missing or invalid credential is 401, and a missing
// membership or insufficient role is 403, never 404, so tenant existence
// is not leaked.
//
// Identity resolution is delegated: Authenticate extracts the opaque
// session credential (cookie or bearer token) and hands it to a
// SessionVerifier backed by the external auth provider. A credential that
// fails verification produces an anonymous context rather than an error;
// rejection is the job of the first guard that requires authentication.
//
//	r.Use(authz.Authenticate(verifier))
//	r.Use(tenant.Resolve(memberships))
//	r.With(authz.Require(authz.LevelAdminOrAbove)).Post("/settings", h)
package authz
