package core_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/christiananese/hustle-starter/core"
)

func TestRespondError(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		wantCode int
		wantKey  string
	}{
		{
			name:     "plain http error",
			err:      core.ErrForbidden,
			wantCode: 403,
			wantKey:  "forbidden",
		},
		{
			name:     "wrapped http error",
			err:      fmt.Errorf("membership lookup: %w", core.ErrUnauthorized),
			wantCode: 401,
			wantKey:  "unauthorized",
		},
		{
			name:     "unknown error maps to internal",
			err:      errors.New("pg: connection refused"),
			wantCode: 500,
			wantKey:  "internal_server_error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			core.RespondError(rec, tt.err)

			assert.Equal(t, tt.wantCode, rec.Code)

			var body map[string]string
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantKey, body["error"])
		})
	}
}

func TestRespondErrorMessage(t *testing.T) {
	rec := httptest.NewRecorder()
	core.RespondErrorMessage(rec, core.ErrTooManyRequests, "rate limit exceeded: 10 requests per 5m0s")

	assert.Equal(t, 429, rec.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "too_many_requests", body["error"])
	assert.Contains(t, body["message"], "10 requests per 5m0s")
}
