// Package scopes implements the permission strings attached to API keys.
//
// A scope is an opaque dot-delimited token such as "projects.read". Grants
// may use wildcards: "*" matches everything, "projects.*" matches
// "projects" and all of its children. Matching is string-based and
// allocation-free on the read path.
package scopes
