// Package redis owns the Redis connection lifecycle: connect with retry
// and a readiness probe. The shared client backs cross-instance rate
// limit counters.
package redis
