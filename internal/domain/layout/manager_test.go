package layout_test

import (
	"testing"

	"github.com/rpggio/gridview/internal/domain/layout"
	"github.com/rpggio/gridview/internal/domain/table"
	"github.com/stretchr/testify/require"
)

func columns() []table.Column {
	return []table.Column{
		{Key: "id", Title: "ID", Width: 6, Type: table.TypeString},
		{Key: "buySell", Title: "Side", Width: 8, Sortable: true, Type: table.TypeString},
		{Key: "desk", Title: "Desk", Sortable: true, Type: table.TypeString},
		{Key: "amount", Title: "Amount", Width: 14, Sortable: true, Type: table.TypeNumber},
	}
}

func newManager(t *testing.T) *layout.Manager {
	t.Helper()
	m, err := layout.NewManager(columns(), []string{"id"})
	require.NoError(t, err)
	return m
}

func keys(cols []table.Column) []string {
	return table.Keys(cols)
}

func TestNewManager_UnknownPinned(t *testing.T) {
	_, err := layout.NewManager(columns(), []string{"nope"})
	require.ErrorIs(t, err, layout.ErrInvalidLayout)
}

func TestUpdateColumns_Atomic(t *testing.T) {
	m := newManager(t)
	m.SetBestFit(true)

	err := m.UpdateColumns([]string{"id", "amount"}, []string{"amount", "id"})
	require.ErrorIs(t, err, layout.ErrInvalidLayout)
	require.Equal(t, []string{"id", "buySell", "desk", "amount"}, m.Visible())
	require.True(t, m.BestFit())

	err = m.UpdateColumns([]string{"ghost"}, m.Order())
	require.ErrorIs(t, err, layout.ErrInvalidLayout)

	require.NoError(t, m.UpdateColumns([]string{"amount", "id"}, []string{"id", "amount", "desk", "buySell"}))
	require.Equal(t, []string{"id", "amount"}, m.Visible())
	require.Equal(t, []string{"id", "amount", "desk", "buySell"}, m.Order())
	require.False(t, m.BestFit())
}

func TestSetVisible_ResetsBestFit(t *testing.T) {
	m := newManager(t)
	require.True(t, m.ToggleBestFit())
	require.NoError(t, m.SetVisible("desk", false))
	require.False(t, m.BestFit())
	require.Equal(t, []string{"id", "buySell", "amount"}, keys(m.DisplayColumns()))
	require.ErrorIs(t, m.SetVisible("ghost", true), layout.ErrUnknownColumn)
}

func TestMove(t *testing.T) {
	m := newManager(t)
	require.True(t, m.Move("amount", "buySell"))
	require.Equal(t, []string{"id", "amount", "buySell", "desk"}, m.Order())

	require.True(t, m.Move("id", "desk"))
	require.Equal(t, []string{"amount", "buySell", "id", "desk"}, m.Order())

	require.False(t, m.Move("desk", "desk"))
	require.False(t, m.Move("ghost", "desk"))
	require.False(t, m.Move("desk", "ghost"))
}

func TestDisplayColumns_PinnedFirst(t *testing.T) {
	m := newManager(t)
	require.True(t, m.Move("id", "desk"))
	require.Equal(t, []string{"buySell", "id", "desk", "amount"}, m.Order())
	require.Equal(t, []string{"id", "buySell", "desk", "amount"}, keys(m.DisplayColumns()))
}

func TestDragStateMachine(t *testing.T) {
	m := newManager(t)
	require.Equal(t, layout.DragIdle, m.DragState())

	require.ErrorIs(t, m.DragStart("id"), layout.ErrPinnedColumn)
	require.ErrorIs(t, m.DragStart("ghost"), layout.ErrUnknownColumn)

	require.NoError(t, m.DragStart("amount"))
	require.Equal(t, layout.DragDragging, m.DragState())
	require.False(t, m.AllowHeaderClick())

	m.DragOver("buySell")
	require.True(t, m.Drop("buySell"))
	require.Equal(t, layout.DragDropped, m.DragState())
	require.Equal(t, []string{"id", "amount", "buySell", "desk"}, m.Order())

	// The release click after a drop is swallowed once.
	require.False(t, m.AllowHeaderClick())
	require.Equal(t, layout.DragIdle, m.DragState())
	require.True(t, m.AllowHeaderClick())
}

func TestDragEnd_CancelsAndSettle(t *testing.T) {
	m := newManager(t)
	require.NoError(t, m.DragStart("desk"))
	m.DragEnd()
	require.Equal(t, layout.DragIdle, m.DragState())
	require.False(t, m.Drop("amount"))

	require.NoError(t, m.DragStart("desk"))
	require.False(t, m.Drop("id"))
	m.DragEnd()
	require.Equal(t, layout.DragDropped, m.DragState())
	m.Settle()
	require.Equal(t, layout.DragIdle, m.DragState())
	require.Equal(t, []string{"id", "buySell", "desk", "amount"}, m.Order())
}

func TestRestore_Lenient(t *testing.T) {
	m := newManager(t)
	m.Restore([]string{"desk", "ghost"}, []string{"desk", "ghost", "desk", "id"}, nil)
	require.Equal(t, []string{"desk"}, m.Visible())
	require.Equal(t, []string{"desk", "id", "buySell", "amount"}, m.Order())
	require.Equal(t, []string{"id"}, m.Pinned())
}

func TestWidths(t *testing.T) {
	m := newManager(t)
	rows := []table.Row{
		table.NewRow("1", map[string]any{"buySell": "Buy", "desk": "東京デスク", "amount": 1234567.0}),
	}
	text := func(col table.Column, row table.Row) string { return table.Text(row.Get(col.Key)) }

	widths := m.Widths(rows, text)
	require.Equal(t, 8, widths["buySell"])
	require.Equal(t, layout.DefaultWidth, widths["desk"])

	m.ToggleBestFit()
	widths = m.Widths(rows, text)
	require.Equal(t, 4+2, widths["buySell"])
	require.Equal(t, 10+2, widths["desk"])
	require.Equal(t, 7+2, widths["amount"])
}
