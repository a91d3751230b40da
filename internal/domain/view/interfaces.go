package view

import "context"

// Store persists JSON documents by namespace.
type Store interface {
	Get(ctx context.Context, namespace string) ([]byte, error)
	Set(ctx context.Context, namespace string, data []byte) error
	Remove(ctx context.Context, namespace string) error
}
