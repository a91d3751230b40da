package grouping

import (
	"fmt"
	"slices"

	"github.com/rpggio/gridview/internal/domain/table"
	"github.com/shopspring/decimal"
)

// DefaultTotalFields are the row fields summed into a group's aggregate total.
// The first numeric non-zero field of a row wins.
var DefaultTotalFields = []string{"amount", "extendedAmount"}

// Engine owns the active group list and the expanded set.
type Engine struct {
	columns     []string
	expanded    map[string]struct{}
	totalFields []string
}

// NewEngine creates an engine. Empty totalFields selects DefaultTotalFields.
func NewEngine(totalFields []string) *Engine {
	if len(totalFields) == 0 {
		totalFields = DefaultTotalFields
	}
	return &Engine{
		expanded:    make(map[string]struct{}),
		totalFields: slices.Clone(totalFields),
	}
}

// Columns returns the active group list, outermost first.
func (e *Engine) Columns() []string {
	return slices.Clone(e.columns)
}

// IsGrouped reports whether key is in the active group list.
func (e *Engine) IsGrouped(key string) bool {
	return slices.Contains(e.columns, key)
}

// GroupByColumn appends key to the active group list. It reports false if
// key was already grouped.
func (e *Engine) GroupByColumn(key string) bool {
	if e.IsGrouped(key) {
		return false
	}
	e.columns = append(e.columns, key)
	return true
}

// UngroupByColumn removes key and drops expanded ids whose path includes it.
func (e *Engine) UngroupByColumn(key string) error {
	idx := slices.Index(e.columns, key)
	if idx < 0 {
		return fmt.Errorf("%w: %q", ErrNotGrouped, key)
	}
	e.columns = slices.Delete(e.columns, idx, idx+1)
	for id := range e.expanded {
		if slices.Contains(pathKeys(id), key) {
			delete(e.expanded, id)
		}
	}
	return nil
}

// SetColumns replaces the active group list, dropping duplicates.
func (e *Engine) SetColumns(keys []string) {
	cols := make([]string, 0, len(keys))
	for _, key := range keys {
		if !slices.Contains(cols, key) {
			cols = append(cols, key)
		}
	}
	e.columns = cols
}

// ClearAll resets the active group list and the expanded set.
func (e *Engine) ClearAll() {
	e.columns = nil
	e.expanded = make(map[string]struct{})
}

// Expanded returns the expanded ids in sorted order.
func (e *Engine) Expanded() []string {
	out := make([]string, 0, len(e.expanded))
	for id := range e.expanded {
		out = append(out, id)
	}
	slices.Sort(out)
	return out
}

// SetExpanded replaces the expanded set.
func (e *Engine) SetExpanded(ids []string) {
	e.expanded = make(map[string]struct{}, len(ids))
	for _, id := range ids {
		e.expanded[id] = struct{}{}
	}
}

// IsExpanded reports whether id is expanded.
func (e *Engine) IsExpanded(id string) bool {
	_, ok := e.expanded[id]
	return ok
}

// Expand marks id expanded.
func (e *Engine) Expand(id string) {
	e.expanded[id] = struct{}{}
}

// Collapse removes id and every descendant id from the expanded set.
func (e *Engine) Collapse(id string) {
	delete(e.expanded, id)
	for other := range e.expanded {
		if IsDescendant(other, id) {
			delete(e.expanded, other)
		}
	}
}

// Toggle flips id and reports whether it is now expanded.
func (e *Engine) Toggle(id string) bool {
	if e.IsExpanded(id) {
		e.Collapse(id)
		return false
	}
	e.Expand(id)
	return true
}

// ExpandAll expands every group node derivable from rows.
func (e *Engine) ExpandAll(rows []table.Row) {
	for _, node := range e.Nodes(rows) {
		e.expanded[node.ID] = struct{}{}
	}
}

// CollapseAll empties the expanded set.
func (e *Engine) CollapseAll() {
	e.expanded = make(map[string]struct{})
}

// Nodes returns every group node for rows, ignoring expansion, in display order.
func (e *Engine) Nodes(rows []table.Row) []Node {
	var out []Node
	e.walk(rows, 0, "", func(node Node, _ []table.Row) bool {
		out = append(out, node)
		return true
	})
	return out
}

// Build materializes the display sequence. Without active group columns the
// rows pass through unchanged. Otherwise each bucket emits a header, followed
// by its subtree only when the header is expanded.
func (e *Engine) Build(rows []table.Row) []Entry {
	out := make([]Entry, 0, len(rows))
	if len(e.columns) == 0 {
		for i := range rows {
			out = append(out, Entry{Kind: KindData, Row: &rows[i]})
		}
		return out
	}
	e.build(&out, rows, 0, "", nil)
	return out
}

func (e *Engine) build(out *[]Entry, rows []table.Row, depth int, parentID string, path []PathElement) {
	if depth == len(e.columns) {
		for i := range rows {
			*out = append(*out, Entry{Kind: KindData, Level: depth, Row: &rows[i], Path: path})
		}
		return
	}

	key := e.columns[depth]
	b := bucketize(rows, key)
	for _, value := range b.keys {
		members := b.get(value)
		node := e.node(members, depth, key, value, parentID)
		expanded := e.IsExpanded(node.ID)
		*out = append(*out, Entry{Kind: KindGroup, Level: depth, Node: &node, Expanded: expanded, Path: path})
		if !expanded {
			continue
		}
		child := append(slices.Clip(path), PathElement{Key: key, Value: value, GroupID: node.ID})
		e.build(out, members, depth+1, node.ID, child)
	}
}

// walk visits every node depth first. visit returns false to skip a subtree.
func (e *Engine) walk(rows []table.Row, depth int, parentID string, visit func(Node, []table.Row) bool) {
	if depth >= len(e.columns) {
		return
	}
	key := e.columns[depth]
	b := bucketize(rows, key)
	for _, value := range b.keys {
		members := b.get(value)
		node := e.node(members, depth, key, value, parentID)
		if visit(node, members) {
			e.walk(members, depth+1, node.ID, visit)
		}
	}
}

func (e *Engine) node(members []table.Row, depth int, key, value, parentID string) Node {
	return Node{
		ID:             NodeID(parentID, depth, key, value),
		Level:          depth,
		ColumnKey:      key,
		Value:          value,
		ItemCount:      len(members),
		AggregateTotal: e.Total(members),
		ParentID:       parentID,
	}
}

// Total sums the configured total fields over rows.
func (e *Engine) Total(rows []table.Row) float64 {
	sum := decimal.Zero
	for _, row := range rows {
		for _, field := range e.totalFields {
			if v, ok := table.Numeric(row.Get(field)); ok && v != 0 {
				sum = sum.Add(decimal.NewFromFloat(v))
				break
			}
		}
	}
	return sum.InexactFloat64()
}
