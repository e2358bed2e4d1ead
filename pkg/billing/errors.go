package billing

import "errors"

var (
	// ErrDuplicateEvent means the event id was already recorded. Not a
	// failure: the delivery is acknowledged without reprocessing.
	ErrDuplicateEvent = errors.New("billing: event already recorded")

	// ErrEventNotFound is returned by event stores on unknown event ids.
	ErrEventNotFound = errors.New("billing: event not found")

	// ErrInvalidSignature means the webhook payload failed verification.
	ErrInvalidSignature = errors.New("billing: invalid webhook signature")

	// ErrUnknownStatus means the provider reported a status outside the
	// known vocabulary.
	ErrUnknownStatus = errors.New("billing: unknown subscription status")

	// ErrUnknownPrice means the event references a price id absent from
	// the plan catalog.
	ErrUnknownPrice = errors.New("billing: price not in catalog")

	// ErrMissingCorrelator means a checkout event carried no organization
	// reference, so there is no tenant to apply it to.
	ErrMissingCorrelator = errors.New("billing: event missing organization correlator")

	// ErrEventFatal wraps processing errors that a provider retry cannot
	// fix. The transport acknowledges these so the provider stops
	// redelivering; the failure stays on the event record.
	ErrEventFatal = errors.New("billing: fatal event error")
)
