package httpserver

import (
	"context"
	"log/slog"
	"net/http"
)

// HealthHandler serves liveness and readiness probes. With no checks it
// always reports alive; with checks it runs each one and reports ready
// only when all pass.
func HealthHandler(logger *slog.Logger, checks ...func(context.Context) error) http.HandlerFunc {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return func(w http.ResponseWriter, r *http.Request) {
		if len(checks) == 0 {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("ALIVE"))
			return
		}

		for _, check := range checks {
			if err := check(r.Context()); err != nil {
				logger.ErrorContext(r.Context(), "readiness check failed", slog.Any("error", err))
				w.WriteHeader(http.StatusInternalServerError)
				_, _ = w.Write([]byte("NOT_READY"))
				return
			}
		}

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("READY"))
	}
}
