package repository_test

import (
	"context"
	"testing"

	"github.com/rpggio/gridview/internal/repository"
	"github.com/stretchr/testify/require"
)

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()

	_, err := store.Get(ctx, "t/views")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, store.Set(ctx, "t/views", []byte(`[]`)))
	data, err := store.Get(ctx, "t/views")
	require.NoError(t, err)
	require.Equal(t, `[]`, string(data))

	names, err := store.List(ctx, "t/")
	require.NoError(t, err)
	require.Equal(t, []string{"t/views"}, names)

	require.NoError(t, store.Remove(ctx, "t/views"))
	_, err = store.Get(ctx, "t/views")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.ErrorIs(t, store.Set(ctx, "", nil), repository.ErrInvalidInput)
}
