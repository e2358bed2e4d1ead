package statemachine

import (
	"errors"
	"fmt"
)

// ErrInvalidTransition is the sentinel matched by every *TransitionError
// under errors.Is.
var ErrInvalidTransition = errors.New("statemachine: invalid transition")

// TransitionError reports a rejected state change.
type TransitionError struct {
	From string
	To   string
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("statemachine: invalid transition from %q to %q", e.From, e.To)
}

func (e *TransitionError) Is(target error) bool {
	return target == ErrInvalidTransition
}
