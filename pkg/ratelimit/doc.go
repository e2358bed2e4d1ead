// Package ratelimit implements fixed-window request limiting keyed by
// credential identity.
//
// Windows are wall-clock aligned to the configured duration
// (time.Truncate), not sliding. The counter store exposes a single atomic
// increment-and-read operation, never a read-then-write pair, so two
// concurrent requests can never both observe limit-1 and proceed. Rejected
// requests still count against the budget, preventing retry storms from
// holding a window open.
//
// Two stores ship with the package: an in-process MemoryStore whose loss
// only resets transient budgets, and a RedisStore sharing budgets across
// instances via an INCR + EXPIRE NX pipeline.
package ratelimit
