package controller

import (
	"fmt"
	"maps"
	"slices"

	"github.com/rpggio/gridview/internal/domain/aggregate"
	"github.com/rpggio/gridview/internal/domain/export"
	"github.com/rpggio/gridview/internal/domain/filter"
	"github.com/rpggio/gridview/internal/domain/grouping"
	"github.com/rpggio/gridview/internal/domain/sorting"
	"github.com/rpggio/gridview/internal/domain/table"
)

// ProcessedRows returns the filtered, then sorted, dataset.
func (t *Table) ProcessedRows() []table.Row {
	return sorting.Sort(filter.Apply(t.rows, t.filters), t.sort, t.collator)
}

// SortConfig returns the active sort.
func (t *Table) SortConfig() sorting.Config {
	return t.sort
}

// SortBy toggles the sort on key. Non-sortable columns are ignored with a warning.
func (t *Table) SortBy(key string) error {
	col, err := t.Column(key)
	if err != nil {
		return err
	}
	if !col.Sortable {
		t.warn("column_not_sortable", "column %q is not sortable", key)
		return nil
	}
	t.sort = t.sort.Toggle(key)
	return nil
}

// SetSort replaces the sort. An empty key clears it.
func (t *Table) SetSort(cfg sorting.Config) error {
	if !cfg.Active() {
		t.sort = sorting.Config{}
		return nil
	}
	if _, err := t.Column(cfg.Key); err != nil {
		return err
	}
	if cfg.Direction != sorting.Descending {
		cfg.Direction = sorting.Ascending
	}
	t.sort = cfg
	return nil
}

// HeaderClick sorts by key unless a drag gesture claims the click. It
// reports whether the click reached the sort.
func (t *Table) HeaderClick(key string) (bool, error) {
	if !t.layout.AllowHeaderClick() {
		return false, nil
	}
	return true, t.SortBy(key)
}

// Filters returns the active filters.
func (t *Table) Filters() filter.Filters {
	return t.filters.Clone()
}

// ApplyFilter validates raw input and sets key's filter. Invalid input leaves
// every filter unchanged.
func (t *Table) ApplyFilter(key, op, raw string) error {
	if _, err := t.Column(key); err != nil {
		return err
	}
	cond, err := filter.Parse(op, raw)
	if err != nil {
		return err
	}
	t.filters[key] = cond
	t.pruneSelection()
	return nil
}

// SetFilter sets a typed condition on key.
func (t *Table) SetFilter(key string, cond filter.Condition) error {
	if _, err := t.Column(key); err != nil {
		return err
	}
	cond, err := filter.New(cond.Op, cond.Value)
	if err != nil {
		return err
	}
	t.filters[key] = cond
	t.pruneSelection()
	return nil
}

// RemoveFilter drops key's filter.
func (t *Table) RemoveFilter(key string) {
	if _, ok := t.filters[key]; !ok {
		t.warn("filter_not_set", "no filter on column %q", key)
		return
	}
	delete(t.filters, key)
}

// ClearFilters drops every filter.
func (t *Table) ClearFilters() {
	t.filters = filter.Filters{}
}

// Aggregate computes op over key on the processed rows and stores the result.
// ok is false when aggregation is disabled or the column is not numeric.
func (t *Table) Aggregate(key string, op aggregate.Op) (aggregate.Result, bool, error) {
	if !t.flags.EnableAggregation {
		return aggregate.Result{}, false, nil
	}
	col, err := t.Column(key)
	if err != nil {
		return aggregate.Result{}, false, err
	}
	res, ok := t.aggEngine.Compute(t.ProcessedRows(), col, op)
	if !ok {
		return aggregate.Result{}, false, nil
	}
	t.aggregations[key] = res
	return res, true, nil
}

// RemoveAggregation drops key's aggregation.
func (t *Table) RemoveAggregation(key string) {
	delete(t.aggregations, key)
}

// Aggregations returns the stored results. They are not refreshed when the
// row set changes; see RefreshAggregations.
func (t *Table) Aggregations() aggregate.Set {
	return t.aggregations.Clone()
}

// RefreshAggregations recomputes every stored aggregation.
func (t *Table) RefreshAggregations() aggregate.Set {
	rows := t.ProcessedRows()
	for _, key := range slices.Sorted(maps.Keys(t.aggregations)) {
		res, ok := t.aggEngine.Compute(rows, t.byKey[key], t.aggregations[key].Op)
		if !ok {
			delete(t.aggregations, key)
			continue
		}
		t.aggregations[key] = res
	}
	return t.Aggregations()
}

// DisplaySequence returns what the renderer shows: manual groups first, each
// header followed by its member rows, then the column-grouped remainder.
func (t *Table) DisplaySequence() []grouping.Entry {
	rows := t.ProcessedRows()
	if !t.flags.EnableGrouping {
		return t.groups.Build(rows)
	}
	manual := t.manual.Groups()
	if len(manual) == 0 {
		return t.groups.Build(rows)
	}

	owner := make(map[string]string)
	for _, g := range manual {
		for _, id := range g.RowIDs {
			owner[id] = g.ID
		}
	}
	members := make(map[string][]table.Row, len(manual))
	rest := make([]table.Row, 0, len(rows))
	for _, row := range rows {
		if gid, ok := owner[row.ID]; ok {
			members[gid] = append(members[gid], row)
			continue
		}
		rest = append(rest, row)
	}

	var out []grouping.Entry
	for _, g := range manual {
		rows := members[g.ID]
		if len(rows) == 0 {
			continue
		}
		node := grouping.Node{
			ID:             g.ID,
			Value:          g.Name,
			ItemCount:      len(rows),
			AggregateTotal: t.groups.Total(rows),
		}
		out = append(out, grouping.Entry{Kind: grouping.KindManual, Node: &node, Expanded: true})
		for i := range rows {
			out = append(out, grouping.Entry{Kind: grouping.KindData, Level: 1, Row: &rows[i], ManualGroupID: g.ID})
		}
	}
	return append(out, t.groups.Build(rest)...)
}

// FormatCell renders one cell with the column's formatter.
func (t *Table) FormatCell(key, rowID string) (string, error) {
	col, err := t.Column(key)
	if err != nil {
		return "", err
	}
	row, ok := t.Row(rowID)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownRow, rowID)
	}
	return t.formats.Cell(col, row), nil
}

// Export projects the processed rows onto the displayed columns.
func (t *Table) Export() export.Projection {
	return export.Project(t.layout.DisplayColumns(), t.ProcessedRows(), t.formats)
}
