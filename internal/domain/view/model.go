package view

import (
	"slices"
	"time"

	"github.com/rpggio/gridview/internal/domain/aggregate"
	"github.com/rpggio/gridview/internal/domain/filter"
	"github.com/rpggio/gridview/internal/domain/sorting"
)

// Snapshot captures a table's view state, excluding selection. Nil fields are
// absent: applying the snapshot leaves the matching state untouched.
type Snapshot struct {
	ID        string    `json:"id,omitempty"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	VisibleColumnKeys []string        `json:"visible_column_keys"`
	ColumnOrder       []string        `json:"column_order"`
	PinnedColumnKeys  []string        `json:"pinned_column_keys"`
	Sort              *sorting.Config `json:"sort"`
	ActiveGroups      []string        `json:"active_groups"`
	ExpandedGroupIDs  []string        `json:"expanded_group_ids"`
	Aggregations      aggregate.Set   `json:"aggregations"`
	Filters           filter.Filters  `json:"filters"`
	BestFit           *bool           `json:"best_fit,omitempty"`
}

// Clone returns a deep copy.
func (s Snapshot) Clone() Snapshot {
	out := s
	out.VisibleColumnKeys = slices.Clone(s.VisibleColumnKeys)
	out.ColumnOrder = slices.Clone(s.ColumnOrder)
	out.PinnedColumnKeys = slices.Clone(s.PinnedColumnKeys)
	out.ActiveGroups = slices.Clone(s.ActiveGroups)
	out.ExpandedGroupIDs = slices.Clone(s.ExpandedGroupIDs)
	out.Aggregations = s.Aggregations.Clone()
	out.Filters = s.Filters.Clone()
	if s.Sort != nil {
		sortCfg := *s.Sort
		out.Sort = &sortCfg
	}
	if s.BestFit != nil {
		bestFit := *s.BestFit
		out.BestFit = &bestFit
	}
	return out
}

// Summary is a list entry for saved views.
type Summary struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Current   bool      `json:"current"`
}
