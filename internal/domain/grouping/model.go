package grouping

import "github.com/rpggio/gridview/internal/domain/table"

// UnknownValue is the bucket for rows with no value in the grouped column.
const UnknownValue = "Unknown"

// Kind tags display entries.
type Kind string

const (
	KindData   Kind = "data"
	KindGroup  Kind = "group"
	KindManual Kind = "manual"
)

// Node is a synthetic group header.
type Node struct {
	ID             string  `json:"id"`
	Level          int     `json:"level"`
	ColumnKey      string  `json:"column_key,omitempty"`
	Value          string  `json:"value"`
	ItemCount      int     `json:"item_count"`
	AggregateTotal float64 `json:"aggregate_total"`
	ParentID       string  `json:"parent_id,omitempty"`
}

// PathElement is one ancestor of a data row.
type PathElement struct {
	Key     string `json:"key"`
	Value   string `json:"value"`
	GroupID string `json:"group_id"`
}

// Entry is one line of the display sequence.
type Entry struct {
	Kind     Kind          `json:"kind"`
	Level    int           `json:"level"`
	Row      *table.Row    `json:"row,omitempty"`
	Node     *Node         `json:"node,omitempty"`
	Expanded bool          `json:"expanded,omitempty"`
	Path     []PathElement `json:"path,omitempty"`
	// ManualGroupID is set on data rows that belong to a manual group.
	ManualGroupID string `json:"manual_group_id,omitempty"`
}

// IsDataRow reports whether the entry is a selectable data row.
func (e Entry) IsDataRow() bool {
	return e.Kind == KindData
}
