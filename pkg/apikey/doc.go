// Package apikey authenticates machine traffic with long-lived secrets.
//
// A secret is generated once, shown once, and stored twice: a bcrypt hash
// for verification and a SHA-256 fingerprint for O(1) lookup. Presented
// secrets are resolved by fingerprint and then verified against the hash.
//
// Every rejection, whether the key is unknown, inactive, revoked or
// expired, yields the same ErrInvalidCredential and the same 401 on the
// wire. The distinction exists only in server-side logs, so responses leak
// nothing about which keys exist.
//
// Successful authentication updates the key's last-used timestamp in the
// background; the request never waits on that write and never fails
// because of it.
package apikey
