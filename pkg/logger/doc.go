// Package logger builds the application's slog.Logger from environment
// configuration and enriches records with request-scoped context
// attributes.
package logger
