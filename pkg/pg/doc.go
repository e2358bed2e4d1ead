// Package pg owns the Postgres connection lifecycle: pooled connects
// with retry, goose migrations, and a readiness probe. Query code lives
// with the domain packages, not here.
package pg
