package billing

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Provider-agnostic HMAC signing for webhook payloads. Used by provider
// implementations that follow the common timestamp-bound scheme and for
// emitting verifiable payloads in local development.
//
// Signature format: "t=<unix>,v1=<hex hmac>" over "<unix>.<payload>".

// SignPayload computes a timestamp-bound HMAC-SHA256 signature.
func SignPayload(secret string, payload []byte, at time.Time) string {
	ts := at.Unix()
	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	return fmt.Sprintf("t=%d,v1=%s", ts, hex.EncodeToString(mac.Sum(nil)))
}

// VerifyPayload checks a signature produced by SignPayload. The
// comparison is constant-time; maxAge of zero disables the replay
// window check.
func VerifyPayload(secret string, payload []byte, signature string, maxAge time.Duration) error {
	var ts int64
	var gotMAC string
	for part := range strings.SplitSeq(signature, ",") {
		if v, ok := strings.CutPrefix(part, "t="); ok {
			parsed, err := strconv.ParseInt(v, 10, 64)
			if err != nil {
				return ErrInvalidSignature
			}
			ts = parsed
		}
		if v, ok := strings.CutPrefix(part, "v1="); ok {
			gotMAC = v
		}
	}
	if ts == 0 || gotMAC == "" {
		return ErrInvalidSignature
	}

	if maxAge > 0 && time.Since(time.Unix(ts, 0)) > maxAge {
		return fmt.Errorf("%w: signature expired", ErrInvalidSignature)
	}

	mac := hmac.New(sha256.New, []byte(secret))
	fmt.Fprintf(mac, "%d.%s", ts, payload)
	want := hex.EncodeToString(mac.Sum(nil))

	if !hmac.Equal([]byte(want), []byte(gotMAC)) {
		return ErrInvalidSignature
	}
	return nil
}
