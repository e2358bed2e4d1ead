package scopes

import (
	"errors"
	"fmt"
)

// ErrScopeNotAllowed is returned when a scope is outside the allow-list.
var ErrScopeNotAllowed = errors.New("scopes: scope not in allowed list")

// NotAllowedError carries the offending scope. It matches
// ErrScopeNotAllowed under errors.Is.
type NotAllowedError struct {
	Scope string
}

func (e *NotAllowedError) Error() string {
	return fmt.Sprintf("scopes: scope %q not in allowed list", e.Scope)
}

func (e *NotAllowedError) Is(target error) bool {
	return target == ErrScopeNotAllowed
}
