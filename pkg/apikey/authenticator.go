package apikey

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/christiananese/hustle-starter/pkg/async"
)

// Authenticator verifies presented secrets against stored keys. Every
// failure mode returns ErrInvalidCredential so the response cannot be used
// to probe which keys exist or in what state they are.
type Authenticator struct {
	store        Store
	logger       *slog.Logger
	touchTimeout time.Duration
	now          func() time.Time
}

// AuthenticatorOption configures an Authenticator.
type AuthenticatorOption func(*Authenticator)

// WithLogger sets the logger used for server-side failure diagnostics.
func WithLogger(logger *slog.Logger) AuthenticatorOption {
	return func(a *Authenticator) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithTouchTimeout bounds the background last-used update.
func WithTouchTimeout(d time.Duration) AuthenticatorOption {
	return func(a *Authenticator) {
		if d > 0 {
			a.touchTimeout = d
		}
	}
}

// withClock overrides the time source in tests.
func withClock(now func() time.Time) AuthenticatorOption {
	return func(a *Authenticator) {
		a.now = now
	}
}

// NewAuthenticator creates an authenticator backed by the given store.
func NewAuthenticator(store Store, opts ...AuthenticatorOption) (*Authenticator, error) {
	if store == nil {
		return nil, ErrStoreRequired
	}

	a := &Authenticator{
		store:        store,
		logger:       slog.New(slog.DiscardHandler),
		touchTimeout: 5 * time.Second,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a, nil
}

// Authenticate verifies the presented secret and returns the matching key.
// The lookup goes through the SHA-256 fingerprint index; the actual
// comparison is bcrypt against the stored hash, which is constant-time on
// the secret. On success the key's last-used timestamp is updated in the
// background without delaying the caller.
func (a *Authenticator) Authenticate(ctx context.Context, secret string) (*Key, error) {
	if !strings.HasPrefix(secret, SecretPrefix) {
		a.logger.DebugContext(ctx, "api key rejected", slog.String("reason", "malformed secret"))
		return nil, ErrInvalidCredential
	}

	key, err := a.store.GetByFingerprint(ctx, Fingerprint(secret))
	if err != nil {
		a.logger.DebugContext(ctx, "api key rejected", slog.String("reason", "unknown key"))
		return nil, ErrInvalidCredential
	}

	if err := bcrypt.CompareHashAndPassword(key.SecretHash, []byte(secret)); err != nil {
		// Fingerprint matched but the hash did not: either a fingerprint
		// collision or tampered storage. Worth more than debug level.
		a.logger.WarnContext(ctx, "api key rejected",
			slog.String("reason", "hash mismatch"),
			slog.String("key_id", key.ID.String()))
		return nil, ErrInvalidCredential
	}

	now := a.now().UTC()
	switch {
	case !key.Active:
		a.logger.InfoContext(ctx, "api key rejected",
			slog.String("reason", "inactive"),
			slog.String("key_id", key.ID.String()))
		return nil, ErrInvalidCredential
	case key.Revoked():
		a.logger.InfoContext(ctx, "api key rejected",
			slog.String("reason", "revoked"),
			slog.String("key_id", key.ID.String()))
		return nil, ErrInvalidCredential
	case key.Expired(now):
		a.logger.InfoContext(ctx, "api key rejected",
			slog.String("reason", "expired"),
			slog.String("key_id", key.ID.String()))
		return nil, ErrInvalidCredential
	}

	a.touchLastUsed(ctx, key, now)

	return key, nil
}

// touchLastUsed updates the key's last-used timestamp off the request path.
// The update survives request cancellation but is bounded by touchTimeout;
// a failure is logged and otherwise ignored.
func (a *Authenticator) touchLastUsed(ctx context.Context, key *Key, at time.Time) {
	detached := context.WithoutCancel(ctx)

	future := async.Async(detached, key.ID, func(ctx context.Context, id uuid.UUID) (struct{}, error) {
		return struct{}{}, a.store.TouchLastUsed(ctx, id, at)
	})

	go func() {
		if _, err := future.AwaitWithTimeout(a.touchTimeout); err != nil {
			a.logger.WarnContext(detached, "api key last-used update failed",
				slog.String("key_id", key.ID.String()),
				slog.Any("error", err))
		}
	}()
}
