package tables

import (
	"context"
	"sync"
	"testing"

	"github.com/rpggio/gridview/internal/controller"
	"github.com/rpggio/gridview/internal/domain/table"
	"github.com/rpggio/gridview/internal/repository"
	"github.com/stretchr/testify/require"
)

func testRegistry(store controller.Store) *Registry {
	return NewRegistry([]Definition{{
		Name:  "trades",
		Title: "Trades",
		Columns: []table.Column{
			{Key: "id", Title: "ID", Sortable: true, Type: table.TypeString},
			{Key: "desk", Title: "Desk", Sortable: true, Type: table.TypeString},
		},
		Flags: controller.AllFeatures(),
		Rows: []table.Row{
			table.NewRow("1", map[string]any{"desk": "Rates"}),
			table.NewRow("2", map[string]any{"desk": "FX"}),
		},
	}}, store, "en-US", nil)
}

func TestRegistry_UnknownTable(t *testing.T) {
	r := testRegistry(nil)
	err := r.With(context.Background(), "tenant1", "orders", func(*controller.Table) error { return nil })
	require.ErrorIs(t, err, ErrTableNotFound)
}

func TestRegistry_TenantsAreIsolated(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	r := testRegistry(store)

	require.NoError(t, r.With(ctx, "tenant1", "trades", func(tbl *controller.Table) error {
		_, err := tbl.SaveView(ctx, "Mine")
		return err
	}))
	require.NoError(t, r.With(ctx, "tenant2", "trades", func(tbl *controller.Table) error {
		require.Empty(t, tbl.ListViews())
		return nil
	}))

	namespaces, err := store.List(ctx, "tenant1/")
	require.NoError(t, err)
	require.Equal(t, []string{"tenant1/trades/current-view", "tenant1/trades/views"}, namespaces)
}

func TestRegistry_ReusesController(t *testing.T) {
	ctx := context.Background()
	r := testRegistry(nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_ = r.With(ctx, "tenant1", "trades", func(tbl *controller.Table) error {
				tbl.Select("1", true)
				return nil
			})
		}()
	}
	wg.Wait()

	require.NoError(t, r.With(ctx, "tenant1", "trades", func(tbl *controller.Table) error {
		require.Len(t, tbl.SelectedRows(), 1)
		return nil
	}))
	require.Equal(t, []string{"trades"}, r.Names())
}

func TestRegistry_Tenants(t *testing.T) {
	ctx := context.Background()
	store := repository.NewMemoryStore()
	r := testRegistry(store)

	for _, tenant := range []string{"tenant1", "org/team"} {
		require.NoError(t, r.With(ctx, tenant, "trades", func(tbl *controller.Table) error {
			_, err := tbl.SaveView(ctx, "Mine")
			return err
		}))
	}
	require.NoError(t, store.Set(ctx, "tenant3/orders/views", []byte("[]")))

	tenants, err := r.Tenants(ctx)
	require.NoError(t, err)
	require.Equal(t, map[string][]string{
		"tenant1":  {"trades"},
		"org/team": {"trades"},
	}, tenants)

	_, err = testRegistry(nil).Tenants(ctx)
	require.ErrorIs(t, err, ErrNotListable)
}
