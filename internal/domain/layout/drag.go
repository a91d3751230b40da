package layout

// DragState is the header interaction state.
type DragState string

const (
	DragIdle     DragState = "idle"
	DragDragging DragState = "dragging"
	// DragDropped holds until the release click is consumed or the gesture settles.
	DragDropped DragState = "dropped"
)

type drag struct {
	state  DragState
	source string
	over   string
}

// DragState returns the current interaction state.
func (m *Manager) DragState() DragState {
	if m.drag.state == "" {
		return DragIdle
	}
	return m.drag.state
}

// DragSource returns the key being dragged, if any.
func (m *Manager) DragSource() string {
	return m.drag.source
}

// DragStart begins a drag on key. Pinned columns cannot be dragged.
func (m *Manager) DragStart(key string) error {
	if _, ok := m.byKey[key]; !ok {
		return ErrUnknownColumn
	}
	if m.IsPinned(key) {
		return ErrPinnedColumn
	}
	m.drag = drag{state: DragDragging, source: key}
	return nil
}

// DragOver records the column under the pointer.
func (m *Manager) DragOver(key string) {
	if m.DragState() != DragDragging {
		return
	}
	m.drag.over = key
}

// Drop finishes the drag over toKey and reports whether the order changed.
// The state moves to dropped even when nothing moved.
func (m *Manager) Drop(toKey string) bool {
	if m.DragState() != DragDragging {
		return false
	}
	from := m.drag.source
	m.drag = drag{state: DragDropped}
	if m.IsPinned(toKey) {
		return false
	}
	return m.Move(from, toKey)
}

// DragEnd cancels an unfinished drag. A completed drop stays in the dropped
// state until Settle or the next header click.
func (m *Manager) DragEnd() {
	if m.DragState() == DragDragging {
		m.drag = drag{state: DragIdle}
	}
}

// Settle returns a dropped gesture to idle.
func (m *Manager) Settle() {
	if m.DragState() == DragDropped {
		m.drag = drag{state: DragIdle}
	}
}

// AllowHeaderClick guards sort clicks. Clicks during a drag are refused and
// the release click after a drop is swallowed.
func (m *Manager) AllowHeaderClick() bool {
	switch m.DragState() {
	case DragDragging:
		return false
	case DragDropped:
		m.drag = drag{state: DragIdle}
		return false
	}
	return true
}
