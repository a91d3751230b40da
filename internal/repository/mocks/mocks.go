package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

// KVStore is a mock for repository.KVStore.
type KVStore struct {
	mock.Mock
}

func (m *KVStore) Get(ctx context.Context, namespace string) ([]byte, error) {
	args := m.Called(ctx, namespace)
	if data, ok := args.Get(0).([]byte); ok {
		return data, args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *KVStore) Set(ctx context.Context, namespace string, data []byte) error {
	args := m.Called(ctx, namespace, data)
	return args.Error(0)
}

func (m *KVStore) Remove(ctx context.Context, namespace string) error {
	args := m.Called(ctx, namespace)
	return args.Error(0)
}
