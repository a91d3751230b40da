package controller

import (
	"context"
	"errors"

	"github.com/rpggio/gridview/internal/domain/grouping"
	"github.com/rpggio/gridview/internal/domain/manualgroup"
)

// ActiveGroups returns the group columns, outermost first.
func (t *Table) ActiveGroups() []string {
	return t.groups.Columns()
}

// GroupBy appends key to the group columns. Grouping an already grouped column
// does nothing.
func (t *Table) GroupBy(key string) error {
	if !t.flags.EnableGrouping {
		return nil
	}
	if _, err := t.Column(key); err != nil {
		return err
	}
	t.groups.GroupByColumn(key)
	return nil
}

// Ungroup removes key from the group columns.
func (t *Table) Ungroup(key string) error {
	if !t.flags.EnableGrouping {
		return nil
	}
	if err := t.groups.UngroupByColumn(key); err != nil {
		if errors.Is(err, grouping.ErrNotGrouped) {
			t.warn("not_grouped", "column %q is not grouped", key)
			return nil
		}
		return err
	}
	return nil
}

// ToggleGroup groups by key, or ungroups it when already grouped.
func (t *Table) ToggleGroup(key string) error {
	if t.groups.IsGrouped(key) {
		return t.Ungroup(key)
	}
	return t.GroupBy(key)
}

// ClearGroups drops every group column and collapses everything.
func (t *Table) ClearGroups() {
	if !t.flags.EnableGrouping {
		return
	}
	t.groups.ClearAll()
}

// ExpandedGroups returns the expanded group ids.
func (t *Table) ExpandedGroups() []string {
	return t.groups.Expanded()
}

// GroupNodes returns every group node over the processed rows, regardless of
// expansion.
func (t *Table) GroupNodes() []grouping.Node {
	return t.groups.Nodes(t.ProcessedRows())
}

// ExpandGroup expands one group node. Ids that match no current node are
// reported and ignored.
func (t *Table) ExpandGroup(id string) {
	if !t.flags.EnableGrouping {
		return
	}
	if !t.knownNode(id) {
		t.warn("unknown_group", "group %q does not exist", id)
		return
	}
	t.groups.Expand(id)
}

// CollapseGroup collapses id and everything below it.
func (t *Table) CollapseGroup(id string) {
	if !t.flags.EnableGrouping {
		return
	}
	if !t.groups.IsExpanded(id) && !t.knownNode(id) {
		t.warn("unknown_group", "group %q does not exist", id)
		return
	}
	t.groups.Collapse(id)
}

// ToggleExpanded flips id and reports whether it is now expanded.
func (t *Table) ToggleExpanded(id string) bool {
	if t.groups.IsExpanded(id) {
		t.CollapseGroup(id)
		return false
	}
	t.ExpandGroup(id)
	return t.groups.IsExpanded(id)
}

// ExpandAll expands every node derivable from the processed rows.
func (t *Table) ExpandAll() {
	if !t.flags.EnableGrouping {
		return
	}
	t.groups.ExpandAll(t.ProcessedRows())
}

// CollapseAll empties the expanded set.
func (t *Table) CollapseAll() {
	if !t.flags.EnableGrouping {
		return
	}
	t.groups.CollapseAll()
}

func (t *Table) knownNode(id string) bool {
	for _, node := range t.GroupNodes() {
		if node.ID == id {
			return true
		}
	}
	return false
}

// ManualGroups returns the manual groups in creation order.
func (t *Table) ManualGroups() []manualgroup.Group {
	return t.manual.Groups()
}

// CreateManualGroup groups rowIDs under name. Unknown row ids are dropped with
// a warning.
func (t *Table) CreateManualGroup(ctx context.Context, name string, rowIDs []string) (manualgroup.Group, error) {
	if !t.flags.EnableGrouping {
		return manualgroup.Group{}, nil
	}
	g, err := t.manual.Create(ctx, name, t.knownRows(rowIDs))
	if err := t.persisted(err); err != nil {
		return manualgroup.Group{}, err
	}
	return g, nil
}

// AddToManualGroup moves rowIDs into an existing manual group.
func (t *Table) AddToManualGroup(ctx context.Context, groupID string, rowIDs []string) error {
	if !t.flags.EnableGrouping {
		return nil
	}
	_, err := t.manual.Add(ctx, groupID, t.knownRows(rowIDs))
	if errors.Is(err, manualgroup.ErrGroupNotFound) {
		t.warn("unknown_manual_group", "manual group %q does not exist", groupID)
		return nil
	}
	return t.persisted(err)
}

// RemoveFromManualGroup takes one row out of a manual group. The group is
// deleted once empty.
func (t *Table) RemoveFromManualGroup(ctx context.Context, groupID, rowID string) error {
	if !t.flags.EnableGrouping {
		return nil
	}
	err := t.manual.Remove(ctx, groupID, rowID)
	switch {
	case errors.Is(err, manualgroup.ErrGroupNotFound):
		t.warn("unknown_manual_group", "manual group %q does not exist", groupID)
		return nil
	case errors.Is(err, manualgroup.ErrNotMember):
		t.warn("not_a_member", "row %q is not in manual group %q", rowID, groupID)
		return nil
	}
	return t.persisted(err)
}

func (t *Table) knownRows(ids []string) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		if _, ok := t.rowIndex[id]; !ok {
			t.warn("unknown_row", "row %q does not exist", id)
			continue
		}
		out = append(out, id)
	}
	return out
}
