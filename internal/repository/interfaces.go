package repository

import "context"

// KVStore persists JSON documents by namespace. Get returns ErrNotFound for
// a namespace that was never set or has been removed.
type KVStore interface {
	Get(ctx context.Context, namespace string) ([]byte, error)
	Set(ctx context.Context, namespace string, data []byte) error
	Remove(ctx context.Context, namespace string) error
}

// KVLister enumerates namespaces under a prefix.
type KVLister interface {
	List(ctx context.Context, prefix string) ([]string, error)
}
