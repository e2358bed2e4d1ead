package config

import "errors"

var (
	// ErrNilPointer is returned when Load receives a nil destination.
	ErrNilPointer = errors.New("config: nil destination")

	// ErrParsing wraps env tag parsing failures, including missing
	// required variables.
	ErrParsing = errors.New("config: failed to parse environment")
)
