package layout

import (
	"fmt"
	"slices"

	"github.com/mattn/go-runewidth"
	"github.com/rpggio/gridview/internal/domain/table"
)

const (
	// DefaultWidth is used for columns without a declared width.
	DefaultWidth = 12
	cellPadding  = 2
)

// Manager tracks column visibility, order and pinning. It never touches row data.
type Manager struct {
	columns []table.Column
	byKey   map[string]table.Column
	visible map[string]struct{}
	order   []string
	pinned  []string
	bestFit bool
	drag    drag
}

// NewManager creates a layout with every column visible in definition order.
func NewManager(cols []table.Column, pinned []string) (*Manager, error) {
	m := &Manager{
		columns: slices.Clone(cols),
		byKey:   make(map[string]table.Column, len(cols)),
		visible: make(map[string]struct{}, len(cols)),
	}
	for _, col := range cols {
		m.byKey[col.Key] = col
		m.visible[col.Key] = struct{}{}
		m.order = append(m.order, col.Key)
	}
	if err := m.SetPinned(pinned); err != nil {
		return nil, err
	}
	return m, nil
}

// Visible returns the visible keys in display order.
func (m *Manager) Visible() []string {
	out := make([]string, 0, len(m.visible))
	for _, key := range m.order {
		if _, ok := m.visible[key]; ok {
			out = append(out, key)
		}
	}
	return out
}

// IsVisible reports whether key is shown.
func (m *Manager) IsVisible(key string) bool {
	_, ok := m.visible[key]
	return ok
}

// Order returns the full column order.
func (m *Manager) Order() []string {
	return slices.Clone(m.order)
}

// Pinned returns pinned keys in pin order.
func (m *Manager) Pinned() []string {
	return slices.Clone(m.pinned)
}

// IsPinned reports whether key is pinned.
func (m *Manager) IsPinned(key string) bool {
	return slices.Contains(m.pinned, key)
}

// BestFit reports whether widths follow content.
func (m *Manager) BestFit() bool {
	return m.bestFit
}

// ToggleBestFit flips best-fit mode and returns the new value.
func (m *Manager) ToggleBestFit() bool {
	m.bestFit = !m.bestFit
	return m.bestFit
}

// SetBestFit sets best-fit mode.
func (m *Manager) SetBestFit(on bool) {
	m.bestFit = on
}

// UpdateColumns replaces visibility and order together. Nothing changes
// unless both are valid. Best-fit is reset.
func (m *Manager) UpdateColumns(visible, order []string) error {
	if err := m.validateVisible(visible); err != nil {
		return err
	}
	if err := m.validateOrder(order); err != nil {
		return err
	}
	m.setVisible(visible)
	m.order = slices.Clone(order)
	m.bestFit = false
	return nil
}

// SetVisible shows or hides one column. Best-fit is reset.
func (m *Manager) SetVisible(key string, visible bool) error {
	if _, ok := m.byKey[key]; !ok {
		return fmt.Errorf("%w: %q", ErrUnknownColumn, key)
	}
	if visible {
		m.visible[key] = struct{}{}
	} else {
		delete(m.visible, key)
	}
	m.bestFit = false
	return nil
}

// SetPinned replaces the pinned set.
func (m *Manager) SetPinned(keys []string) error {
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, ok := m.byKey[key]; !ok {
			return fmt.Errorf("%w: pinned column %q", ErrInvalidLayout, key)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: pinned column %q repeated", ErrInvalidLayout, key)
		}
		seen[key] = struct{}{}
	}
	m.pinned = slices.Clone(keys)
	return nil
}

// Restore applies saved layout fields leniently: unknown keys are dropped and
// the order is completed with missing keys. Nil arguments are left untouched.
func (m *Manager) Restore(visible, order, pinned []string) {
	if visible != nil {
		known := make([]string, 0, len(visible))
		for _, key := range visible {
			if _, ok := m.byKey[key]; ok {
				known = append(known, key)
			}
		}
		m.setVisible(known)
	}
	if order != nil {
		m.order = m.normalizeOrder(order)
	}
	if pinned != nil {
		known := make([]string, 0, len(pinned))
		for _, key := range pinned {
			if _, ok := m.byKey[key]; ok && !slices.Contains(known, key) {
				known = append(known, key)
			}
		}
		m.pinned = known
	}
}

// Move removes from and reinserts it just before to. It is a no-op when the
// keys are equal or either is unknown. Best-fit is reset on change.
func (m *Manager) Move(from, to string) bool {
	if from == to {
		return false
	}
	fromIdx := slices.Index(m.order, from)
	if fromIdx < 0 || !slices.Contains(m.order, to) {
		return false
	}
	next := slices.Delete(slices.Clone(m.order), fromIdx, fromIdx+1)
	toIdx := slices.Index(next, to)
	m.order = slices.Insert(next, toIdx, from)
	m.bestFit = false
	return true
}

// DisplayColumns returns visible pinned columns in pin order followed by the
// remaining visible columns in order.
func (m *Manager) DisplayColumns() []table.Column {
	out := make([]table.Column, 0, len(m.visible))
	for _, key := range m.pinned {
		if m.IsVisible(key) {
			out = append(out, m.byKey[key])
		}
	}
	for _, key := range m.order {
		if m.IsVisible(key) && !m.IsPinned(key) {
			out = append(out, m.byKey[key])
		}
	}
	return out
}

// Widths returns the width of each displayed column in character cells.
// In best-fit mode widths follow the widest title or cell text.
func (m *Manager) Widths(rows []table.Row, text func(table.Column, table.Row) string) map[string]int {
	cols := m.DisplayColumns()
	out := make(map[string]int, len(cols))
	for _, col := range cols {
		if !m.bestFit {
			width := col.Width
			if width <= 0 {
				width = DefaultWidth
			}
			out[col.Key] = width
			continue
		}
		width := runewidth.StringWidth(col.Title)
		for _, row := range rows {
			if w := runewidth.StringWidth(text(col, row)); w > width {
				width = w
			}
		}
		out[col.Key] = width + cellPadding
	}
	return out
}

func (m *Manager) setVisible(keys []string) {
	m.visible = make(map[string]struct{}, len(keys))
	for _, key := range keys {
		m.visible[key] = struct{}{}
	}
}

func (m *Manager) validateVisible(keys []string) error {
	seen := make(map[string]struct{}, len(keys))
	for _, key := range keys {
		if _, ok := m.byKey[key]; !ok {
			return fmt.Errorf("%w: unknown visible column %q", ErrInvalidLayout, key)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: visible column %q repeated", ErrInvalidLayout, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func (m *Manager) validateOrder(order []string) error {
	if len(order) != len(m.columns) {
		return fmt.Errorf("%w: order has %d keys, table has %d", ErrInvalidLayout, len(order), len(m.columns))
	}
	seen := make(map[string]struct{}, len(order))
	for _, key := range order {
		if _, ok := m.byKey[key]; !ok {
			return fmt.Errorf("%w: unknown column %q in order", ErrInvalidLayout, key)
		}
		if _, dup := seen[key]; dup {
			return fmt.Errorf("%w: column %q repeated in order", ErrInvalidLayout, key)
		}
		seen[key] = struct{}{}
	}
	return nil
}

func (m *Manager) normalizeOrder(order []string) []string {
	out := make([]string, 0, len(m.columns))
	for _, key := range order {
		if _, ok := m.byKey[key]; ok && !slices.Contains(out, key) {
			out = append(out, key)
		}
	}
	for _, col := range m.columns {
		if !slices.Contains(out, col.Key) {
			out = append(out, col.Key)
		}
	}
	return out
}
