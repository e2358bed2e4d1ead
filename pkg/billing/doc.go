// Package billing ingests payment provider webhooks and drives the
// subscription state of organizations.
//
// Events arrive at-least-once. Exactly-once side effects rest on a single
// atomic unique-constrained insert of the provider event id: the caller
// that wins the insert applies the transition, every other delivery of
// the same id is acknowledged as a duplicate. There is no separate
// existence check before the insert.
//
// Subscription status moves through a declared transition table
// (none, trialing, active, past_due, unpaid, canceled); tier and status
// are always written together and always originate from the provider,
// never from local inference.
package billing
