package controller

import (
	"errors"

	"github.com/rpggio/gridview/internal/domain/layout"
	"github.com/rpggio/gridview/internal/domain/table"
)

// ColumnsState is the column layout as seen by a column chooser.
type ColumnsState struct {
	Visible []string         `json:"visible"`
	Order   []string         `json:"order"`
	Pinned  []string         `json:"pinned"`
	BestFit bool             `json:"best_fit"`
	Drag    layout.DragState `json:"drag"`
	// DragSource is the column being dragged while Drag is "dragging".
	DragSource string `json:"drag_source,omitempty"`
}

// ColumnsState returns the current layout.
func (t *Table) ColumnsState() ColumnsState {
	return ColumnsState{
		Visible:    orEmpty(t.layout.Visible()),
		Order:      orEmpty(t.layout.Order()),
		Pinned:     orEmpty(t.layout.Pinned()),
		BestFit:    t.layout.BestFit(),
		Drag:       t.layout.DragState(),
		DragSource: t.layout.DragSource(),
	}
}

// DisplayColumns returns the rendered columns, pinned first.
func (t *Table) DisplayColumns() []table.Column {
	return t.layout.DisplayColumns()
}

// ColumnWidths returns each displayed column's width in character cells.
func (t *Table) ColumnWidths() map[string]int {
	return t.layout.Widths(t.ProcessedRows(), t.formats.Cell)
}

// UpdateColumns replaces visibility and order at once.
func (t *Table) UpdateColumns(visible, order []string) error {
	return t.layout.UpdateColumns(visible, order)
}

// SetColumnVisible shows or hides one column.
func (t *Table) SetColumnVisible(key string, visible bool) error {
	return t.layout.SetVisible(key, visible)
}

// ToggleBestFit flips best-fit widths and returns the new mode.
func (t *Table) ToggleBestFit() bool {
	return t.layout.ToggleBestFit()
}

// DragStart begins a header drag. Pinned columns refuse with a warning.
func (t *Table) DragStart(key string) error {
	if !t.flags.EnableColumnReordering {
		return nil
	}
	err := t.layout.DragStart(key)
	switch {
	case errors.Is(err, layout.ErrPinnedColumn):
		t.warn("column_pinned", "column %q is pinned", key)
		return nil
	case errors.Is(err, layout.ErrUnknownColumn):
		return ErrUnknownColumn
	}
	return err
}

// DragOver records the header under the pointer.
func (t *Table) DragOver(key string) {
	if !t.flags.EnableColumnReordering {
		return
	}
	t.layout.DragOver(key)
}

// Drop finishes the drag on toKey and reports whether the order changed.
func (t *Table) Drop(toKey string) bool {
	if !t.flags.EnableColumnReordering {
		return false
	}
	return t.layout.Drop(toKey)
}

// DragEnd cancels an unfinished drag.
func (t *Table) DragEnd() {
	t.layout.DragEnd()
}

// SettleDrag returns a dropped gesture to idle once drop handling is done.
func (t *Table) SettleDrag() {
	t.layout.Settle()
}

// MoveColumn reinserts from just before to. Pinned columns don't move.
func (t *Table) MoveColumn(from, to string) bool {
	if !t.flags.EnableColumnReordering {
		return false
	}
	if t.layout.IsPinned(from) || t.layout.IsPinned(to) {
		t.warn("column_pinned", "pinned columns cannot be reordered")
		return false
	}
	return t.layout.Move(from, to)
}
