package apikey

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresStore implements Store on top of pgx. GetByFingerprint hits the
// unique index on the fingerprint column.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore creates a store backed by the given connection pool.
func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

const keyColumns = `id, organization_id, name, secret_hash, fingerprint, key_prefix,
	scopes, active, expires_at, revoked_at, last_used_at, created_at`

// Create implements Store.
func (s *PostgresStore) Create(ctx context.Context, key *Key) error {
	const query = `
		INSERT INTO api_keys (` + keyColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`

	_, err := s.pool.Exec(ctx, query,
		key.ID, key.OrgID, key.Name, key.SecretHash, key.Fingerprint, key.Prefix,
		key.Scopes, key.Active, key.ExpiresAt, key.RevokedAt, key.LastUsedAt, key.CreatedAt,
	)
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return ErrDuplicateFingerprint
	}
	if err != nil {
		return fmt.Errorf("apikey: insert key: %w", err)
	}
	return nil
}

// GetByFingerprint implements Store.
func (s *PostgresStore) GetByFingerprint(ctx context.Context, fingerprint string) (*Key, error) {
	const query = `SELECT ` + keyColumns + ` FROM api_keys WHERE fingerprint = $1`

	key, err := scanKey(s.pool.QueryRow(ctx, query, fingerprint))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrKeyNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("apikey: query key: %w", err)
	}
	return key, nil
}

// ListByOrganization implements Store.
func (s *PostgresStore) ListByOrganization(ctx context.Context, orgID uuid.UUID) ([]*Key, error) {
	const query = `SELECT ` + keyColumns + `
		FROM api_keys WHERE organization_id = $1 ORDER BY created_at DESC`

	rows, err := s.pool.Query(ctx, query, orgID)
	if err != nil {
		return nil, fmt.Errorf("apikey: list keys: %w", err)
	}
	defer rows.Close()

	var keys []*Key
	for rows.Next() {
		key, err := scanKey(rows)
		if err != nil {
			return nil, fmt.Errorf("apikey: scan key: %w", err)
		}
		keys = append(keys, key)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("apikey: list keys: %w", err)
	}
	return keys, nil
}

// Revoke implements Store.
func (s *PostgresStore) Revoke(ctx context.Context, id uuid.UUID, at time.Time) error {
	const query = `
		UPDATE api_keys SET revoked_at = $2
		WHERE id = $1 AND revoked_at IS NULL`

	tag, err := s.pool.Exec(ctx, query, id, at)
	if err != nil {
		return fmt.Errorf("apikey: revoke key: %w", err)
	}
	if tag.RowsAffected() == 0 {
		// Already revoked or unknown. Distinguish for the caller.
		var exists bool
		if err := s.pool.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM api_keys WHERE id = $1)`, id).Scan(&exists); err != nil {
			return fmt.Errorf("apikey: revoke key: %w", err)
		}
		if !exists {
			return ErrKeyNotFound
		}
	}
	return nil
}

// TouchLastUsed implements Store.
func (s *PostgresStore) TouchLastUsed(ctx context.Context, id uuid.UUID, at time.Time) error {
	const query = `UPDATE api_keys SET last_used_at = $2 WHERE id = $1`

	if _, err := s.pool.Exec(ctx, query, id, at); err != nil {
		return fmt.Errorf("apikey: touch last used: %w", err)
	}
	return nil
}

func scanKey(row pgx.Row) (*Key, error) {
	var key Key
	err := row.Scan(
		&key.ID, &key.OrgID, &key.Name, &key.SecretHash, &key.Fingerprint, &key.Prefix,
		&key.Scopes, &key.Active, &key.ExpiresAt, &key.RevokedAt, &key.LastUsedAt, &key.CreatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &key, nil
}
