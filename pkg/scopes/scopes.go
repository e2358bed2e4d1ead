package scopes

import (
	"sort"
	"strings"
)

const (
	// Separator splits a scope list string into individual scopes.
	Separator = " "

	// Wildcard matches everything, either alone ("*") or as a hierarchy
	// suffix ("projects.*").
	Wildcard = "*"

	// Delimiter separates hierarchy levels inside a scope ("projects.read").
	Delimiter = "."
)

// Parse converts a space-separated scope list into a slice. Empty entries
// are dropped; empty input yields nil.
func Parse(list string) []string {
	fields := strings.Fields(list)
	if len(fields) == 0 {
		return nil
	}
	return fields
}

// Join converts a scope slice back to its canonical string form.
func Join(granted []string) string {
	return strings.Join(granted, Separator)
}

// Matches reports whether a single granted scope satisfies the required
// one. A grant of "*" satisfies anything; "projects.*" satisfies
// "projects" and every scope under "projects.".
func Matches(required, granted string) bool {
	if granted == Wildcard || granted == required {
		return true
	}
	if prefix, ok := strings.CutSuffix(granted, Delimiter+Wildcard); ok {
		return required == prefix || strings.HasPrefix(required, prefix+Delimiter)
	}
	return false
}

// Has reports whether the grant satisfies a single required scope.
func Has(granted []string, required string) bool {
	for _, g := range granted {
		if Matches(required, g) {
			return true
		}
	}
	return false
}

// HasAll reports whether the grant satisfies every required scope. An
// empty requirement is always satisfied.
func HasAll(granted, required []string) bool {
	for _, req := range required {
		if !Has(granted, req) {
			return false
		}
	}
	return true
}

// HasAny reports whether the grant satisfies at least one required scope.
// An empty requirement is always satisfied.
func HasAny(granted, required []string) bool {
	if len(required) == 0 {
		return true
	}
	for _, req := range required {
		if Has(granted, req) {
			return true
		}
	}
	return false
}

// Validate checks every scope against an allow-list, with wildcards
// honored in the allow-list. Returns ErrScopeNotAllowed naming the first
// offending scope.
func Validate(granted, allowed []string) error {
	for _, g := range granted {
		if !Has(allowed, g) {
			return &NotAllowedError{Scope: g}
		}
	}
	return nil
}

// Normalize deduplicates and sorts a scope slice. Returns nil for empty
// input so normalized scopes compare cleanly.
func Normalize(granted []string) []string {
	if len(granted) == 0 {
		return nil
	}

	seen := make(map[string]struct{}, len(granted))
	out := make([]string, 0, len(granted))
	for _, g := range granted {
		if g == "" {
			continue
		}
		if _, dup := seen[g]; dup {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	if len(out) == 0 {
		return nil
	}
	sort.Strings(out)
	return out
}
