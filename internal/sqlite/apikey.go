package sqlite

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rpggio/gridview/internal/repository"
)

const tokenPrefix = "gv_"

// APIKey describes a stored key. The token itself is never stored.
type APIKey struct {
	Hash        string
	TenantID    string
	Description string
	CreatedAt   time.Time
	LastUsed    *time.Time
}

// APIKeyRepository stores hashed bearer tokens per tenant
type APIKeyRepository struct {
	db  *DB
	now func() time.Time
}

// NewAPIKeyRepository creates a new APIKeyRepository
func NewAPIKeyRepository(db *DB) *APIKeyRepository {
	return &APIKeyRepository{db: db, now: time.Now}
}

// Create issues a token for tenantID and returns it. Only its hash is kept.
func (r *APIKeyRepository) Create(ctx context.Context, tenantID, description string) (string, error) {
	tenantID = strings.TrimSpace(tenantID)
	if tenantID == "" {
		return "", fmt.Errorf("%w: tenant is required", repository.ErrInvalidInput)
	}

	token := tokenPrefix + strings.ReplaceAll(uuid.NewString(), "-", "")
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO api_keys (key_hash, tenant_id, created_at, description) VALUES (?, ?, ?, ?)`,
		HashToken(token), tenantID, r.now().UTC(), description)
	if isUniqueViolation(err) {
		return "", repository.ErrConflict
	}
	if err != nil {
		return "", fmt.Errorf("failed to create api key: %w", err)
	}
	return token, nil
}

// ResolveTenant returns the tenant owning token and stamps its last use.
func (r *APIKeyRepository) ResolveTenant(ctx context.Context, token string) (string, error) {
	hash := HashToken(token)
	var tenantID string
	err := r.db.QueryRowContext(ctx, `SELECT tenant_id FROM api_keys WHERE key_hash = ?`, hash).Scan(&tenantID)
	if err == sql.ErrNoRows || (err == nil && tenantID == "") {
		return "", repository.ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve api key: %w", err)
	}

	if _, err := r.db.ExecContext(ctx, `UPDATE api_keys SET last_used = ? WHERE key_hash = ?`, r.now().UTC(), hash); err != nil {
		return "", fmt.Errorf("failed to touch api key: %w", err)
	}
	return tenantID, nil
}

// List returns the keys of a tenant, oldest first
func (r *APIKeyRepository) List(ctx context.Context, tenantID string) ([]APIKey, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT key_hash, tenant_id, COALESCE(description, ''), created_at, last_used
		FROM api_keys
		WHERE tenant_id = ?
		ORDER BY created_at ASC
	`, tenantID)
	if err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	defer rows.Close()

	var keys []APIKey
	for rows.Next() {
		var key APIKey
		var lastUsed sql.NullTime
		if err := rows.Scan(&key.Hash, &key.TenantID, &key.Description, &key.CreatedAt, &lastUsed); err != nil {
			return nil, fmt.Errorf("failed to scan api key: %w", err)
		}
		if lastUsed.Valid {
			key.LastUsed = &lastUsed.Time
		}
		keys = append(keys, key)
	}
	return keys, rows.Err()
}

// Revoke deletes a key by its hash
func (r *APIKeyRepository) Revoke(ctx context.Context, tenantID, hash string) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM api_keys WHERE key_hash = ? AND tenant_id = ?`, hash, tenantID)
	if err != nil {
		return fmt.Errorf("failed to revoke api key: %w", err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to revoke api key: %w", err)
	}
	if n == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// HashToken returns the stored form of a bearer token.
func HashToken(token string) string {
	sum := sha256.Sum256([]byte(token))
	return hex.EncodeToString(sum[:])
}
