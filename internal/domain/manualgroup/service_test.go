package manualgroup_test

import (
	"context"
	"errors"
	"testing"

	"github.com/rpggio/gridview/internal/domain/manualgroup"
	"github.com/rpggio/gridview/internal/domain/notice"
	"github.com/rpggio/gridview/internal/repository"
	"github.com/rpggio/gridview/internal/repository/mocks"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func newService(t *testing.T) (*manualgroup.Service, *repository.MemoryStore, *notice.Recorder) {
	t.Helper()
	store := repository.NewMemoryStore()
	rec := &notice.Recorder{}
	svc := manualgroup.NewService(store, "tenant1/trades", rec, nil)
	require.NoError(t, svc.Load(context.Background()))
	return svc, store, rec
}

func TestManualGroupService_CreateAndPersist(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)

	g, err := svc.Create(ctx, "Hedges", []string{"1", "2", "2"})
	require.NoError(t, err)
	require.NotEmpty(t, g.ID)
	require.Equal(t, []string{"1", "2"}, g.RowIDs)
	require.Equal(t, 2, g.Count())

	reloaded := manualgroup.NewService(store, "tenant1/trades", nil, nil)
	require.NoError(t, reloaded.Load(ctx))
	require.Len(t, reloaded.Groups(), 1)
	require.Equal(t, g.ID, reloaded.Groups()[0].ID)
}

func TestManualGroupService_CreateValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	_, err := svc.Create(ctx, " ", []string{"1"})
	require.ErrorIs(t, err, manualgroup.ErrInvalidInput)

	_, err = svc.Create(ctx, "Empty", nil)
	require.ErrorIs(t, err, manualgroup.ErrInvalidInput)
	require.Empty(t, svc.Groups())
}

func TestManualGroupService_AddMovesRow(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	first, err := svc.Create(ctx, "First", []string{"1", "2"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, "Second", []string{"3"})
	require.NoError(t, err)

	updated, err := svc.Add(ctx, second.ID, []string{"2", "3"})
	require.NoError(t, err)
	require.Equal(t, []string{"3", "2"}, updated.RowIDs)

	got, err := svc.Get(first.ID)
	require.NoError(t, err)
	require.Equal(t, []string{"1"}, got.RowIDs)

	groupID, ok := svc.GroupOf("2")
	require.True(t, ok)
	require.Equal(t, second.ID, groupID)
}

func TestManualGroupService_AddPrunesEmptiedGroup(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := newService(t)

	first, err := svc.Create(ctx, "First", []string{"1"})
	require.NoError(t, err)
	second, err := svc.Create(ctx, "Second", []string{"2"})
	require.NoError(t, err)

	_, err = svc.Add(ctx, second.ID, []string{"1"})
	require.NoError(t, err)

	_, err = svc.Get(first.ID)
	require.ErrorIs(t, err, manualgroup.ErrGroupNotFound)
	require.Len(t, svc.Groups(), 1)
}

func TestManualGroupService_AddStaleGroup(t *testing.T) {
	svc, _, _ := newService(t)
	_, err := svc.Add(context.Background(), "mg-missing", []string{"1"})
	require.ErrorIs(t, err, manualgroup.ErrGroupNotFound)
}

func TestManualGroupService_RemoveLastRowDeletesGroup(t *testing.T) {
	ctx := context.Background()
	svc, store, _ := newService(t)

	g, err := svc.Create(ctx, "Solo", []string{"1"})
	require.NoError(t, err)

	require.ErrorIs(t, svc.Remove(ctx, g.ID, "9"), manualgroup.ErrNotMember)
	require.NoError(t, svc.Remove(ctx, g.ID, "1"))
	require.Empty(t, svc.Groups())

	_, err = store.Get(ctx, "tenant1/trades/manual-groups")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestManualGroupService_CorruptStateResets(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	require.NoError(t, store.Set(ctx, "t/manual-groups", []byte(`{not json`)))

	rec := &notice.Recorder{}
	svc := manualgroup.NewService(store, "t", rec, nil)
	require.NoError(t, svc.Load(ctx))
	require.Empty(t, svc.Groups())

	notices := rec.Drain()
	require.Len(t, notices, 1)
	require.Equal(t, notice.LevelWarning, notices[0].Level)
	require.Equal(t, "corrupt_manual_groups", notices[0].Code)
}

func TestManualGroupService_UnreadableStoreStartsEmpty(t *testing.T) {
	ctx := context.Background()
	store := &mocks.KVStore{}
	store.On("Get", ctx, "t/manual-groups").Return(nil, errors.New("disk I/O error"))

	rec := &notice.Recorder{}
	svc := manualgroup.NewService(store, "t", rec, nil)
	require.NoError(t, svc.Load(ctx))
	require.Empty(t, svc.Groups())

	notices := rec.Drain()
	require.Len(t, notices, 1)
	require.Equal(t, notice.LevelError, notices[0].Level)
	require.Equal(t, "persist_failed", notices[0].Code)
	store.AssertExpectations(t)
}

func TestManualGroupService_PersistFailureKeepsMemory(t *testing.T) {
	ctx := context.Background()
	store := &mocks.KVStore{}
	store.On("Get", ctx, "t/manual-groups").Return(nil, repository.ErrNotFound)
	store.On("Set", ctx, "t/manual-groups", mock.Anything).Return(errors.New("quota exceeded"))

	svc := manualgroup.NewService(store, "t", nil, nil)
	require.NoError(t, svc.Load(ctx))

	_, err := svc.Create(ctx, "Hedges", []string{"1"})
	require.ErrorIs(t, err, manualgroup.ErrPersist)
	require.Len(t, svc.Groups(), 1)
	store.AssertExpectations(t)
}
