package core

import (
	"encoding/json"
	"errors"
	"net/http"
)

// errorResponse is the uniform JSON error body. Only the stable key and an
// optional human-readable message are exposed; internal error chains never
// leak to clients.
type errorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}

// RespondError writes err as a JSON error response. HTTPError values (found
// anywhere in the chain via errors.As) map to their status code; anything
// else becomes a 500 with a generic body.
func RespondError(w http.ResponseWriter, err error) {
	httpErr := ErrInternalServerError
	var he HTTPError
	if errors.As(err, &he) {
		httpErr = he
	}
	RespondErrorMessage(w, httpErr, "")
}

// RespondErrorMessage writes the given HTTPError with an explicit message.
// Use it where the body must carry detail, e.g. rate limit rejections that
// state the configured limit and window.
func RespondErrorMessage(w http.ResponseWriter, httpErr HTTPError, message string) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(httpErr.Code)
	_ = json.NewEncoder(w).Encode(errorResponse{Error: httpErr.Key, Message: message})
}

// RespondJSON writes v as a JSON response with the given status code.
func RespondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// DecodeJSON reads the request body into v, rejecting unknown fields.
func DecodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
