package mcp

import (
	"github.com/rpggio/gridview/internal/controller"
	"github.com/rpggio/gridview/internal/domain/aggregate"
	"github.com/rpggio/gridview/internal/domain/filter"
	"github.com/rpggio/gridview/internal/domain/grouping"
	"github.com/rpggio/gridview/internal/domain/manualgroup"
	"github.com/rpggio/gridview/internal/domain/notice"
	"github.com/rpggio/gridview/internal/domain/sorting"
	"github.com/rpggio/gridview/internal/domain/table"
	"github.com/rpggio/gridview/internal/domain/view"
)

// ToolDefinition describes one tool in the catalog.
type ToolDefinition struct {
	Name        string         `json:"name"`
	Description string         `json:"description"`
	InputSchema map[string]any `json:"inputSchema"`
}

// TableParams names the table every table tool acts on.
type TableParams struct {
	Table string `json:"table"`
}

type ColumnParams struct {
	TableParams
	Key string `json:"key"`
}

type SetSortParams struct {
	TableParams
	Key       string            `json:"key"`
	Direction sorting.Direction `json:"direction"`
}

type ApplyFilterParams struct {
	TableParams
	Key   string `json:"key"`
	Op    string `json:"op"`
	Value string `json:"value"`
}

type AggregateParams struct {
	TableParams
	Key string       `json:"key"`
	Op  aggregate.Op `json:"op"`
}

type GroupIDParams struct {
	TableParams
	ID string `json:"id"`
}

type CreateManualGroupParams struct {
	TableParams
	Name   string   `json:"name"`
	RowIDs []string `json:"row_ids"`
}

type AddToManualGroupParams struct {
	TableParams
	GroupID string   `json:"group_id"`
	RowIDs  []string `json:"row_ids"`
}

type RemoveFromManualGroupParams struct {
	TableParams
	GroupID string `json:"group_id"`
	RowID   string `json:"row_id"`
}

type UpdateColumnsParams struct {
	TableParams
	Visible []string `json:"visible"`
	Order   []string `json:"order"`
}

type SetColumnVisibleParams struct {
	TableParams
	Key     string `json:"key"`
	Visible bool   `json:"visible"`
}

type MoveColumnParams struct {
	TableParams
	From string `json:"from"`
	To   string `json:"to"`
}

// DragEvent names one step of a header drag gesture.
type DragEvent string

const (
	DragStart  DragEvent = "start"
	DragOver   DragEvent = "over"
	DragDrop   DragEvent = "drop"
	DragEnd    DragEvent = "end"
	DragSettle DragEvent = "settle"
)

type DragParams struct {
	TableParams
	Event DragEvent `json:"event"`
	Key   string    `json:"key,omitempty"`
}

type SelectRowsParams struct {
	TableParams
	RowIDs   []string `json:"row_ids"`
	Included *bool    `json:"included,omitempty"`
}

type SelectAllParams struct {
	TableParams
	Included *bool `json:"included,omitempty"`
}

type SaveViewParams struct {
	TableParams
	Name string `json:"name"`
}

type ViewIDParams struct {
	TableParams
	ID string `json:"id"`
}

type MenuActionsParams struct {
	TableParams
	controller.MenuRequest
}

type RunMenuActionParams struct {
	TableParams
	Action controller.MenuAction `json:"action"`
}

type FormatCellParams struct {
	TableParams
	Key   string `json:"key"`
	RowID string `json:"row_id"`
}

// Response is the envelope of every table tool. Notices carries the warnings
// and errors the call raised.
type Response struct {
	Result  any             `json:"result,omitempty"`
	Notices []notice.Notice `json:"notices"`
}

type TableSummaryResponse struct {
	Name    string           `json:"name"`
	Title   string           `json:"title"`
	Columns int              `json:"columns"`
	Rows    int              `json:"rows"`
	Flags   controller.Flags `json:"flags"`
}

type ListTablesResponse struct {
	Tables []TableSummaryResponse `json:"tables"`
}

// TableStateResponse is everything a renderer keeps besides the rows.
type TableStateResponse struct {
	Title          string                  `json:"title"`
	Flags          controller.Flags        `json:"flags"`
	Columns        []table.Column          `json:"columns"`
	Layout         controller.ColumnsState `json:"layout"`
	Sort           sorting.Config          `json:"sort"`
	Filters        filter.Filters          `json:"filters"`
	Aggregations   aggregate.Set           `json:"aggregations"`
	ActiveGroups   []string                `json:"active_groups"`
	ExpandedGroups []string                `json:"expanded_groups"`
	ManualGroups   []manualgroup.Group     `json:"manual_groups"`
	SelectedRowIDs []string                `json:"selected_row_ids"`
	CurrentView    string                  `json:"current_view,omitempty"`
	Views          []view.Summary          `json:"views"`
}

// DisplayEntryResponse is one rendered line: a group header or a data row
// with its cells formatted in display column order.
type DisplayEntryResponse struct {
	Kind          grouping.Kind  `json:"kind"`
	Level         int            `json:"level"`
	RowID         string         `json:"row_id,omitempty"`
	Cells         []string       `json:"cells,omitempty"`
	Group         *grouping.Node `json:"group,omitempty"`
	Expanded      bool           `json:"expanded,omitempty"`
	ManualGroupID string         `json:"manual_group_id,omitempty"`
}

type DisplayResponse struct {
	Columns      []table.Column         `json:"columns"`
	Widths       map[string]int         `json:"widths,omitempty"`
	Entries      []DisplayEntryResponse `json:"entries"`
	Aggregations aggregate.Set          `json:"aggregations"`
}

type ExportResponse struct {
	FileName string     `json:"file_name"`
	Header   []string   `json:"header"`
	Rows     [][]string `json:"rows"`
	Content  string     `json:"content"`
}
