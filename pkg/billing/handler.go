package billing

import (
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/christiananese/hustle-starter/core"
)

// maxWebhookBody caps the accepted payload size.
const maxWebhookBody = 1 << 20

// WebhookHandler exposes the processor as the single provider-facing POST
// endpoint. Response policy:
//
//	400 - missing or invalid signature, or an undecodable payload
//	200 - event durably recorded: newly processed, duplicate, or a
//	      recorded fatal failure a retry cannot fix
//	500 - transient processing failure; the provider should retry
func WebhookHandler(p *Processor, logger *slog.Logger) http.Handler {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		signature := r.Header.Get(p.provider.SignatureHeader())
		if signature == "" {
			core.RespondError(w, core.ErrBadRequest)
			return
		}

		payload, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxWebhookBody))
		if err != nil {
			core.RespondError(w, core.ErrBadRequest)
			return
		}

		event, err := p.provider.ParseWebhook(r.Context(), payload, signature)
		if err != nil {
			// Verification happens before any payload interpretation, so
			// every parse failure is the sender's problem.
			logger.WarnContext(r.Context(), "webhook rejected",
				slog.Any("error", err))
			core.RespondError(w, core.ErrBadRequest)
			return
		}

		if err := p.Process(r.Context(), event, payload); err != nil {
			if errors.Is(err, ErrEventFatal) {
				// Recorded with its error; a redelivery cannot succeed, so
				// do not invite one.
				core.RespondJSON(w, http.StatusOK, map[string]string{"status": "acknowledged"})
				return
			}
			core.RespondError(w, core.ErrInternalServerError)
			return
		}

		core.RespondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
}
