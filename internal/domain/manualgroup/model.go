package manualgroup

import (
	"slices"
	"time"
)

// Group is a user-defined collection of rows, independent of column grouping.
type Group struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	RowIDs    []string  `json:"row_ids"`
	CreatedAt time.Time `json:"created_at"`
}

// Count returns the number of member rows.
func (g Group) Count() int {
	return len(g.RowIDs)
}

// Contains reports whether rowID is a member.
func (g Group) Contains(rowID string) bool {
	return slices.Contains(g.RowIDs, rowID)
}

func (g Group) clone() Group {
	g.RowIDs = slices.Clone(g.RowIDs)
	return g
}
