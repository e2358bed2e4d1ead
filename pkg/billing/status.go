package billing

import (
	"github.com/christiananese/hustle-starter/pkg/statemachine"
)

// Status is the subscription state of an organization as reported by the
// billing provider. It is never inferred locally; every value written to
// storage originates from a provider event.
type Status string

const (
	StatusNone     Status = "none"
	StatusTrialing Status = "trialing"
	StatusActive   Status = "active"
	StatusPastDue  Status = "past_due"
	StatusUnpaid   Status = "unpaid"
	StatusCanceled Status = "canceled"
)

func (s Status) Name() string { return string(s) }

// Valid reports whether the status is one of the known values.
func (s Status) Valid() bool {
	switch s {
	case StatusNone, StatusTrialing, StatusActive, StatusPastDue, StatusUnpaid, StatusCanceled:
		return true
	}
	return false
}

// ParseStatus converts a provider status string to a Status, failing
// closed on anything unknown.
func ParseStatus(name string) (Status, error) {
	s := Status(name)
	if !s.Valid() {
		return "", ErrUnknownStatus
	}
	return s, nil
}

// Tier is the feature tier an organization is entitled to. Tiers come
// from the plan catalog; TierFree is the baseline every organization
// falls back to when its subscription ends.
type Tier string

// TierFree is the baseline tier for organizations without a paid
// subscription.
const TierFree Tier = "free"

// transitions declares every legal status change. A subscription starts
// at none, cycles between active and the dunning states, and can be
// canceled from anywhere. Canceled is terminal until a new checkout
// restarts the cycle. Self-transitions are implicitly allowed, so a
// re-delivered status is never a violation.
var transitions = statemachine.New().
	Allow(StatusNone, StatusTrialing).
	Allow(StatusNone, StatusActive).
	Allow(StatusTrialing, StatusActive).
	Allow(StatusTrialing, StatusPastDue).
	Allow(StatusActive, StatusPastDue).
	Allow(StatusPastDue, StatusActive).
	Allow(StatusPastDue, StatusUnpaid).
	Allow(StatusUnpaid, StatusPastDue).
	Allow(StatusUnpaid, StatusActive).
	Allow(StatusCanceled, StatusTrialing).
	Allow(StatusCanceled, StatusActive).
	AllowFromAny(StatusCanceled).
	Build()

// Transitions exposes the status transition table.
func Transitions() *statemachine.Machine {
	return transitions
}
