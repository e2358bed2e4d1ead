// Package async provides a small Future type for fire-and-forget work
// that callers may still observe, such as best-effort bookkeeping writes
// that must not block a request.
package async
