package selection

import "slices"

// Listener observes the selected ids after every mutation.
type Listener func(ids []string)

// Manager tracks selected row ids in selection order.
type Manager struct {
	ids       []string
	listeners map[int]Listener
	nextID    int
}

// NewManager creates an empty selection.
func NewManager() *Manager {
	return &Manager{listeners: make(map[int]Listener)}
}

// Subscribe registers fn and returns a function that removes it.
func (m *Manager) Subscribe(fn Listener) func() {
	id := m.nextID
	m.nextID++
	m.listeners[id] = fn
	return func() { delete(m.listeners, id) }
}

// Select adds or removes one id.
func (m *Manager) Select(id string, included bool) {
	idx := slices.Index(m.ids, id)
	switch {
	case included && idx < 0:
		m.ids = append(m.ids, id)
	case !included && idx >= 0:
		m.ids = slices.Delete(m.ids, idx, idx+1)
	}
	m.notify()
}

// Replace sets the selection to ids.
func (m *Manager) Replace(ids []string) {
	m.ids = slices.Clone(ids)
	m.notify()
}

// Clear empties the selection.
func (m *Manager) Clear() {
	m.ids = nil
	m.notify()
}

// Retain drops ids for which keep returns false. Listeners are notified only
// when something was dropped.
func (m *Manager) Retain(keep func(id string) bool) {
	n := len(m.ids)
	m.ids = slices.DeleteFunc(m.ids, func(id string) bool { return !keep(id) })
	if len(m.ids) != n {
		m.notify()
	}
}

// IDs returns the selected ids.
func (m *Manager) IDs() []string {
	return slices.Clone(m.ids)
}

// Len returns the number of selected ids.
func (m *Manager) Len() int {
	return len(m.ids)
}

// Contains reports whether id is selected.
func (m *Manager) Contains(id string) bool {
	return slices.Contains(m.ids, id)
}

func (m *Manager) notify() {
	if len(m.listeners) == 0 {
		return
	}
	ids := m.IDs()
	keys := make([]int, 0, len(m.listeners))
	for k := range m.listeners {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	for _, k := range keys {
		m.listeners[k](ids)
	}
}
