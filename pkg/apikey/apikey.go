package apikey

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"encoding/hex"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	// SecretPrefix identifies hustle API keys in logs and error reports
	// without revealing anything about the secret itself.
	SecretPrefix = "hsk_"

	// secretEntropy is the number of random bytes behind each secret.
	secretEntropy = 32

	// displayPrefixLen is how many characters of the secret (including
	// SecretPrefix) are retained for display after creation.
	displayPrefixLen = 12
)

// Key is a long-lived machine credential scoped to exactly one
// organization. Only the bcrypt hash of the secret is retained; the
// SHA-256 fingerprint exists purely for O(1) lookup and is never used as
// the authentication comparison.
type Key struct {
	ID          uuid.UUID  `json:"id"`
	OrgID       uuid.UUID  `json:"organization_id"`
	Name        string     `json:"name"`
	SecretHash  []byte     `json:"-"`
	Fingerprint string     `json:"-"`
	Prefix      string     `json:"key_prefix"`
	Scopes      []string   `json:"scopes"`
	Active      bool       `json:"active"`
	ExpiresAt   *time.Time `json:"expires_at,omitempty"`
	RevokedAt   *time.Time `json:"revoked_at,omitempty"`
	LastUsedAt  *time.Time `json:"last_used_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
}

// Expired reports whether the key is past its expiration at the given time.
func (k *Key) Expired(now time.Time) bool {
	return k.ExpiresAt != nil && now.After(*k.ExpiresAt)
}

// Revoked reports whether the key has been revoked.
func (k *Key) Revoked() bool {
	return k.RevokedAt != nil
}

// GenerateOption configures key generation.
type GenerateOption func(*Key)

// WithScopes restricts the key to the given scopes. Keys generated without
// scopes receive the full-access wildcard.
func WithScopes(scopes ...string) GenerateOption {
	return func(k *Key) {
		if len(scopes) > 0 {
			k.Scopes = scopes
		}
	}
}

// WithExpiresAt sets an expiration timestamp on the key.
func WithExpiresAt(t time.Time) GenerateOption {
	return func(k *Key) {
		k.ExpiresAt = &t
	}
}

// Generate creates a new API key for the organization and returns the key
// record together with the plaintext secret. The secret is shown to the
// caller exactly once; only the hash and fingerprint are persisted.
func Generate(orgID uuid.UUID, name string, opts ...GenerateOption) (*Key, string, error) {
	raw := make([]byte, secretEntropy)
	if _, err := rand.Read(raw); err != nil {
		return nil, "", err
	}
	secret := SecretPrefix + base64.RawURLEncoding.EncodeToString(raw)

	hash, err := bcrypt.GenerateFromPassword([]byte(secret), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", err
	}

	now := time.Now().UTC()
	key := &Key{
		ID:          uuid.New(),
		OrgID:       orgID,
		Name:        name,
		SecretHash:  hash,
		Fingerprint: Fingerprint(secret),
		Prefix:      secret[:displayPrefixLen],
		Scopes:      []string{"*"},
		Active:      true,
		CreatedAt:   now,
	}

	for _, opt := range opts {
		opt(key)
	}

	return key, secret, nil
}

// Fingerprint computes the SHA-256 lookup hash of a presented secret.
func Fingerprint(secret string) string {
	sum := sha256.Sum256([]byte(secret))
	return hex.EncodeToString(sum[:])
}
