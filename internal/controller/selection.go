package controller

import "github.com/rpggio/gridview/internal/domain/table"

// Select adds or removes one data row. Group header ids and unknown ids are
// ignored.
func (t *Table) Select(rowID string, included bool) {
	if _, ok := t.rowIndex[rowID]; !ok {
		return
	}
	t.selection.Select(rowID, included)
}

// SelectAll selects every filtered and sorted row, collapsed or not.
// SelectAll(false) empties the selection.
func (t *Table) SelectAll(included bool) {
	if !included {
		t.selection.Clear()
		return
	}
	rows := t.ProcessedRows()
	ids := make([]string, len(rows))
	for i, row := range rows {
		ids[i] = row.ID
	}
	t.selection.Replace(ids)
}

// ClearSelection empties the selection.
func (t *Table) ClearSelection() {
	t.selection.Clear()
}

// SelectedRows returns the selected rows in selection order.
func (t *Table) SelectedRows() []table.Row {
	return t.rowsOf(t.selection.IDs())
}

// SubscribeSelection calls fn with the selected rows after every selection
// change. The returned func unsubscribes.
func (t *Table) SubscribeSelection(fn func([]table.Row)) func() {
	return t.selection.Subscribe(func(ids []string) {
		fn(t.rowsOf(ids))
	})
}

// pruneSelection deselects rows the active filters exclude.
func (t *Table) pruneSelection() {
	if t.selection.Len() == 0 {
		return
	}
	passing := make(map[string]struct{})
	for _, row := range t.ProcessedRows() {
		passing[row.ID] = struct{}{}
	}
	t.selection.Retain(func(id string) bool {
		_, ok := passing[id]
		return ok
	})
}

func (t *Table) rowsOf(ids []string) []table.Row {
	out := make([]table.Row, 0, len(ids))
	for _, id := range ids {
		if row, ok := t.Row(id); ok {
			out = append(out, row)
		}
	}
	return out
}
