package controller

import (
	"context"
	"errors"

	"github.com/rpggio/gridview/internal/domain/aggregate"
	"github.com/rpggio/gridview/internal/domain/filter"
	"github.com/rpggio/gridview/internal/domain/sorting"
	"github.com/rpggio/gridview/internal/domain/view"
)

// CaptureSnapshot reads the current view state. Selection is not part of it.
func (t *Table) CaptureSnapshot() view.Snapshot {
	sortCfg := t.sort
	bestFit := t.layout.BestFit()
	return view.Snapshot{
		VisibleColumnKeys: orEmpty(t.layout.Visible()),
		ColumnOrder:       orEmpty(t.layout.Order()),
		PinnedColumnKeys:  orEmpty(t.layout.Pinned()),
		Sort:              &sortCfg,
		ActiveGroups:      orEmpty(t.groups.Columns()),
		ExpandedGroupIDs:  orEmpty(t.groups.Expanded()),
		Aggregations:      t.aggregations.Clone(),
		Filters:           t.filters.Clone(),
		BestFit:           &bestFit,
	}
}

// ApplySnapshot restores each present field of snap independently. Absent
// fields leave the current state alone; unknown columns are dropped.
func (t *Table) ApplySnapshot(snap view.Snapshot) {
	t.layout.Restore(snap.VisibleColumnKeys, snap.ColumnOrder, snap.PinnedColumnKeys)

	if snap.Sort != nil {
		if err := t.SetSort(*snap.Sort); err != nil {
			t.warn("stale_view_sort", "view sorts by unknown column %q", snap.Sort.Key)
			t.sort = sorting.Config{}
		}
	}
	if snap.ActiveGroups != nil && t.flags.EnableGrouping {
		t.groups.SetColumns(t.knownColumns(snap.ActiveGroups))
	}
	if snap.ExpandedGroupIDs != nil && t.flags.EnableGrouping {
		t.groups.SetExpanded(snap.ExpandedGroupIDs)
	}
	if snap.Aggregations != nil {
		aggs := aggregate.Set{}
		for key, res := range snap.Aggregations {
			col, ok := t.byKey[key]
			if !ok || !col.IsNumeric() || !res.Op.Valid() {
				continue
			}
			if res.FormattedValue == "" {
				res = t.aggEngine.Reformat(res.Op, res.Value)
			}
			aggs[key] = res
		}
		t.aggregations = aggs
	}
	if snap.Filters != nil {
		filters := filter.Filters{}
		for key, cond := range snap.Filters {
			if _, ok := t.byKey[key]; !ok {
				continue
			}
			if cond, err := filter.New(cond.Op, cond.Value); err == nil {
				filters[key] = cond
			}
		}
		t.filters = filters
	}
	if snap.BestFit != nil {
		t.layout.SetBestFit(*snap.BestFit)
	}
}

// SaveView stores the current state under name, replacing a view of the same
// name, and makes it the current view.
func (t *Table) SaveView(ctx context.Context, name string) (view.Snapshot, error) {
	snap := t.CaptureSnapshot()
	snap.Name = name
	saved, err := t.views.Save(ctx, snap)
	if err := t.persisted(err); err != nil {
		return view.Snapshot{}, err
	}
	if err := t.persisted(t.views.SetCurrent(ctx, saved.ID)); err != nil {
		return view.Snapshot{}, err
	}
	t.logger.Info("view saved", "table", t.title, "view", saved.Name)
	return saved, nil
}

// LoadView applies a saved view and makes it current.
func (t *Table) LoadView(ctx context.Context, id string) error {
	snap, err := t.views.Get(id)
	if errors.Is(err, view.ErrViewNotFound) {
		t.warn("unknown_view", "view %q does not exist", id)
		return nil
	}
	if err != nil {
		return err
	}
	t.ApplySnapshot(snap)
	return t.persisted(t.views.SetCurrent(ctx, id))
}

// DeleteView removes a saved view. The displayed state is kept.
func (t *Table) DeleteView(ctx context.Context, id string) error {
	err := t.views.Delete(ctx, id)
	if errors.Is(err, view.ErrViewNotFound) {
		t.warn("unknown_view", "view %q does not exist", id)
		return nil
	}
	return t.persisted(err)
}

// ListViews returns the saved views in save order.
func (t *Table) ListViews() []view.Summary {
	return t.views.List()
}

// ClearViews removes every saved view.
func (t *Table) ClearViews(ctx context.Context) error {
	return t.persisted(t.views.Clear(ctx))
}

// FindView returns the saved view named name.
func (t *Table) FindView(name string) (view.Snapshot, bool) {
	return t.views.FindByName(name)
}

// CurrentView returns the view last saved or loaded.
func (t *Table) CurrentView() (view.Snapshot, bool) {
	return t.views.Current()
}

// ResetToDefault restores the state the table had when it was built and
// forgets the current view.
func (t *Table) ResetToDefault(ctx context.Context) error {
	t.ApplySnapshot(t.defaults)
	return t.persisted(t.views.ResetCurrent(ctx))
}

func (t *Table) knownColumns(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, key := range keys {
		if _, ok := t.byKey[key]; ok {
			out = append(out, key)
		}
	}
	return out
}

func orEmpty(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
