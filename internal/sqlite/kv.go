package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rpggio/gridview/internal/repository"
)

// KVStore implements repository.KVStore for SQLite. Values are JSON documents.
type KVStore struct {
	db *DB
}

// NewKVStore creates a new KVStore
func NewKVStore(db *DB) *KVStore {
	return &KVStore{db: db}
}

// Get returns the document stored under namespace
func (s *KVStore) Get(ctx context.Context, namespace string) ([]byte, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM kv_entries WHERE namespace = ?`,
		namespace).Scan(&data)
	if err == sql.ErrNoRows {
		return nil, repository.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get %s: %w", namespace, err)
	}
	return []byte(data), nil
}

// Set stores data under namespace, replacing any previous document
func (s *KVStore) Set(ctx context.Context, namespace string, data []byte) error {
	query := `
		INSERT INTO kv_entries (namespace, data, updated_at)
		VALUES (?, ?, CURRENT_TIMESTAMP)
		ON CONFLICT(namespace) DO UPDATE SET
			data = excluded.data,
			updated_at = excluded.updated_at
	`
	if _, err := s.db.ExecContext(ctx, query, namespace, string(data)); err != nil {
		return fmt.Errorf("failed to set %s: %w", namespace, err)
	}
	return nil
}

// Remove deletes the document stored under namespace. Removing a missing
// namespace is not an error.
func (s *KVStore) Remove(ctx context.Context, namespace string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM kv_entries WHERE namespace = ?`, namespace); err != nil {
		return fmt.Errorf("failed to remove %s: %w", namespace, err)
	}
	return nil
}

// List returns the namespaces starting with prefix, in order. The prefix is
// matched as a byte range under the column's binary collation.
func (s *KVStore) List(ctx context.Context, prefix string) ([]string, error) {
	query := `SELECT namespace FROM kv_entries WHERE namespace >= ? ORDER BY namespace`
	args := []any{prefix}
	if upper, ok := prefixEnd(prefix); ok {
		query = `SELECT namespace FROM kv_entries WHERE namespace >= ? AND namespace < ? ORDER BY namespace`
		args = append(args, upper)
	}
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list %s: %w", prefix, err)
	}
	defer rows.Close()

	var out []string
	for rows.Next() {
		var ns string
		if err := rows.Scan(&ns); err != nil {
			return nil, fmt.Errorf("failed to scan namespace: %w", err)
		}
		out = append(out, ns)
	}
	return out, rows.Err()
}

// prefixEnd returns the smallest string greater than every string starting
// with prefix. ok is false when no such bound exists, as for "".
func prefixEnd(prefix string) (string, bool) {
	end := []byte(prefix)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return string(end[:i+1]), true
		}
	}
	return "", false
}
