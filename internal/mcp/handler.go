package mcp

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/rpggio/gridview/internal/controller"
	"github.com/rpggio/gridview/internal/domain/export"
	"github.com/rpggio/gridview/internal/domain/grouping"
	"github.com/rpggio/gridview/internal/domain/notice"
	"github.com/rpggio/gridview/internal/domain/sorting"
	"github.com/rpggio/gridview/internal/domain/table"
	"github.com/rpggio/gridview/internal/tables"
)

// TableService defines the table access needed by MCP.
type TableService interface {
	Names() []string
	Definition(name string) (tables.Definition, bool)
	With(ctx context.Context, tenantID, name string, fn func(*controller.Table) error) error
}

// tableOp runs one tool against a locked table.
type tableOp func(ctx context.Context, t *controller.Table) (any, error)

// Handler dispatches MCP commands.
type Handler struct {
	tables   TableService
	exporter export.Exporter
	now      func() time.Time
}

// NewHandler creates a new MCP handler.
func NewHandler(tables TableService) *Handler {
	return &Handler{
		tables:   tables,
		exporter: export.CSV{},
		now:      time.Now,
	}
}

// Handle dispatches MCP requests to the tenant's tables. Every table tool
// answers with a Response carrying the notices the call raised. When the tool
// fails, those notices travel in the error's details instead.
func (h *Handler) Handle(ctx context.Context, tenantID, method string, params json.RawMessage) (any, error) {
	if method == "list_tables" {
		return h.listTables(), nil
	}

	var target TableParams
	if err := decodeParams(params, &target); err != nil {
		return nil, mapError(err)
	}
	if target.Table == "" {
		return nil, mapError(fmt.Errorf("%w: table is required", ErrInvalidParams))
	}
	op, err := h.operation(method, params)
	if err != nil {
		return nil, mapError(err)
	}

	resp := Response{Notices: []notice.Notice{}}
	err = h.tables.With(ctx, tenantID, target.Table, func(t *controller.Table) error {
		defer func() {
			if drained := t.Notices(); len(drained) > 0 {
				resp.Notices = drained
			}
		}()
		result, err := op(ctx, t)
		if err != nil {
			return err
		}
		resp.Result = result
		return nil
	})
	if err != nil {
		return nil, withNotices(mapError(err), resp.Notices)
	}
	return resp, nil
}

// WriteExport encodes the table's processed rows to w and returns the
// suggested file name.
func (h *Handler) WriteExport(ctx context.Context, tenantID, name string, w io.Writer) (string, error) {
	var fileName string
	err := h.tables.With(ctx, tenantID, name, func(t *controller.Table) error {
		fileName = export.FileName(t.Title(), h.now(), h.exporter.Extension())
		return h.exporter.Export(w, t.Export())
	})
	if err != nil {
		return "", mapError(err)
	}
	return fileName, nil
}

func (h *Handler) listTables() ListTablesResponse {
	names := h.tables.Names()
	resp := ListTablesResponse{Tables: make([]TableSummaryResponse, 0, len(names))}
	for _, name := range names {
		def, ok := h.tables.Definition(name)
		if !ok {
			continue
		}
		resp.Tables = append(resp.Tables, TableSummaryResponse{
			Name:    def.Name,
			Title:   def.Title,
			Columns: len(def.Columns),
			Rows:    len(def.Rows),
			Flags:   def.Flags,
		})
	}
	return resp
}

func (h *Handler) operation(method string, params json.RawMessage) (tableOp, error) {
	switch method {
	// State
	case "get_state":
		return func(_ context.Context, t *controller.Table) (any, error) {
			return tableState(t), nil
		}, nil
	case "get_display":
		return func(_ context.Context, t *controller.Table) (any, error) {
			return display(t), nil
		}, nil
	case "format_cell":
		var req FormatCellParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return func(_ context.Context, t *controller.Table) (any, error) {
			return t.FormatCell(req.Key, req.RowID)
		}, nil

	// Sorting
	case "sort_by":
		var req ColumnParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return func(_ context.Context, t *controller.Table) (any, error) {
			if err := t.SortBy(req.Key); err != nil {
				return nil, err
			}
			return t.SortConfig(), nil
		}, nil
	case "set_sort":
		var req SetSortParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if req.Key != "" && req.Direction != sorting.Ascending && req.Direction != sorting.Descending {
			return nil, fmt.Errorf("%w: direction must be asc or desc", ErrInvalidParams)
		}
		return func(_ context.Context, t *controller.Table) (any, error) {
			if err := t.SetSort(sorting.Config{Key: req.Key, Direction: req.Direction}); err != nil {
				return nil, err
			}
			return t.SortConfig(), nil
		}, nil
	case "header_click":
		var req ColumnParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return func(_ context.Context, t *controller.Table) (any, error) {
			sorted, err := t.HeaderClick(req.Key)
			if err != nil {
				return nil, err
			}
			return map[string]any{"sorted": sorted, "sort": t.SortConfig()}, nil
		}, nil

	// Filtering
	case "apply_filter":
		var req ApplyFilterParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return func(_ context.Context, t *controller.Table) (any, error) {
			if err := t.ApplyFilter(req.Key, req.Op, req.Value); err != nil {
				return nil, err
			}
			return t.Filters(), nil
		}, nil
	case "remove_filter":
		var req ColumnParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return func(_ context.Context, t *controller.Table) (any, error) {
			t.RemoveFilter(req.Key)
			return t.Filters(), nil
		}, nil
	case "clear_filters":
		return func(_ context.Context, t *controller.Table) (any, error) {
			t.ClearFilters()
			return t.Filters(), nil
		}, nil

	// Aggregation
	case "aggregate":
		var req AggregateParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		if !req.Op.Valid() {
			return nil, fmt.Errorf("%w: op must be sum or average", ErrInvalidParams)
		}
		return func(_ context.Context, t *controller.Table) (any, error) {
			if _, _, err := t.Aggregate(req.Key, req.Op); err != nil {
				return nil, err
			}
			return t.Aggregations(), nil
		}, nil
	case "remove_aggregation":
		var req ColumnParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return func(_ context.Context, t *controller.Table) (any, error) {
			t.RemoveAggregation(req.Key)
			return t.Aggregations(), nil
		}, nil
	case "refresh_aggregations":
		return func(_ context.Context, t *controller.Table) (any, error) {
			return t.RefreshAggregations(), nil
		}, nil

	// Grouping
	case "group_by", "ungroup", "toggle_group":
		var req ColumnParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return func(_ context.Context, t *controller.Table) (any, error) {
			var err error
			switch method {
			case "group_by":
				err = t.GroupBy(req.Key)
			case "ungroup":
				err = t.Ungroup(req.Key)
			default:
				err = t.ToggleGroup(req.Key)
			}
			if err != nil {
				return nil, err
			}
			return t.ActiveGroups(), nil
		}, nil
	case "clear_groups":
		return func(_ context.Context, t *controller.Table) (any, error) {
			t.ClearGroups()
			return t.ActiveGroups(), nil
		}, nil
	case "expand_group", "collapse_group", "toggle_expanded":
		var req GroupIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return func(_ context.Context, t *controller.Table) (any, error) {
			switch method {
			case "expand_group":
				t.ExpandGroup(req.ID)
			case "collapse_group":
				t.CollapseGroup(req.ID)
			default:
				t.ToggleExpanded(req.ID)
			}
			return t.ExpandedGroups(), nil
		}, nil
	case "expand_all":
		return func(_ context.Context, t *controller.Table) (any, error) {
			t.ExpandAll()
			return t.ExpandedGroups(), nil
		}, nil
	case "collapse_all":
		return func(_ context.Context, t *controller.Table) (any, error) {
			t.CollapseAll()
			return t.ExpandedGroups(), nil
		}, nil

	// Manual groups
	case "list_manual_groups":
		return func(_ context.Context, t *controller.Table) (any, error) {
			return t.ManualGroups(), nil
		}, nil
	case "create_manual_group":
		var req CreateManualGroupParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return func(ctx context.Context, t *controller.Table) (any, error) {
			return t.CreateManualGroup(ctx, req.Name, req.RowIDs)
		}, nil
	case "add_to_manual_group":
		var req AddToManualGroupParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return func(ctx context.Context, t *controller.Table) (any, error) {
			if err := t.AddToManualGroup(ctx, req.GroupID, req.RowIDs); err != nil {
				return nil, err
			}
			return t.ManualGroups(), nil
		}, nil
	case "remove_from_manual_group":
		var req RemoveFromManualGroupParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return func(ctx context.Context, t *controller.Table) (any, error) {
			if err := t.RemoveFromManualGroup(ctx, req.GroupID, req.RowID); err != nil {
				return nil, err
			}
			return t.ManualGroups(), nil
		}, nil

	// Columns
	case "update_columns":
		var req UpdateColumnsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return func(_ context.Context, t *controller.Table) (any, error) {
			if err := t.UpdateColumns(req.Visible, req.Order); err != nil {
				return nil, err
			}
			return t.ColumnsState(), nil
		}, nil
	case "set_column_visible":
		var req SetColumnVisibleParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return func(_ context.Context, t *controller.Table) (any, error) {
			if err := t.SetColumnVisible(req.Key, req.Visible); err != nil {
				return nil, err
			}
			return t.ColumnsState(), nil
		}, nil
	case "move_column":
		var req MoveColumnParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return func(_ context.Context, t *controller.Table) (any, error) {
			t.MoveColumn(req.From, req.To)
			return t.ColumnsState(), nil
		}, nil
	case "toggle_best_fit":
		return func(_ context.Context, t *controller.Table) (any, error) {
			t.ToggleBestFit()
			return t.ColumnsState(), nil
		}, nil
	case "drag":
		var req DragParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return dragOp(req)

	// Selection
	case "select_rows":
		var req SelectRowsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return func(_ context.Context, t *controller.Table) (any, error) {
			for _, id := range req.RowIDs {
				t.Select(id, boolOr(req.Included, true))
			}
			return rowIDs(t.SelectedRows()), nil
		}, nil
	case "select_all":
		var req SelectAllParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return func(_ context.Context, t *controller.Table) (any, error) {
			t.SelectAll(boolOr(req.Included, true))
			return rowIDs(t.SelectedRows()), nil
		}, nil
	case "clear_selection":
		return func(_ context.Context, t *controller.Table) (any, error) {
			t.ClearSelection()
			return rowIDs(t.SelectedRows()), nil
		}, nil
	case "get_selection":
		return func(_ context.Context, t *controller.Table) (any, error) {
			return t.SelectedRows(), nil
		}, nil

	// Views
	case "save_view":
		var req SaveViewParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return func(ctx context.Context, t *controller.Table) (any, error) {
			return t.SaveView(ctx, req.Name)
		}, nil
	case "load_view", "delete_view":
		var req ViewIDParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return func(ctx context.Context, t *controller.Table) (any, error) {
			var err error
			if method == "load_view" {
				err = t.LoadView(ctx, req.ID)
			} else {
				err = t.DeleteView(ctx, req.ID)
			}
			if err != nil {
				return nil, err
			}
			return t.ListViews(), nil
		}, nil
	case "list_views":
		return func(_ context.Context, t *controller.Table) (any, error) {
			return t.ListViews(), nil
		}, nil
	case "clear_views":
		return func(ctx context.Context, t *controller.Table) (any, error) {
			if err := t.ClearViews(ctx); err != nil {
				return nil, err
			}
			return t.ListViews(), nil
		}, nil
	case "reset_view":
		return func(ctx context.Context, t *controller.Table) (any, error) {
			if err := t.ResetToDefault(ctx); err != nil {
				return nil, err
			}
			return tableState(t), nil
		}, nil

	// Menus
	case "menu_actions":
		var req MenuActionsParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return func(_ context.Context, t *controller.Table) (any, error) {
			return t.MenuActions(req.MenuRequest)
		}, nil
	case "run_menu_action":
		var req RunMenuActionParams
		if err := decodeParams(params, &req); err != nil {
			return nil, err
		}
		return func(ctx context.Context, t *controller.Table) (any, error) {
			if err := t.RunMenuAction(ctx, req.Action); err != nil {
				return nil, err
			}
			return tableState(t), nil
		}, nil

	// Export
	case "export":
		return func(_ context.Context, t *controller.Table) (any, error) {
			p := t.Export()
			var buf bytes.Buffer
			if err := h.exporter.Export(&buf, p); err != nil {
				return nil, err
			}
			return ExportResponse{
				FileName: export.FileName(t.Title(), h.now(), h.exporter.Extension()),
				Header:   p.Header,
				Rows:     p.Rows,
				Content:  buf.String(),
			}, nil
		}, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnknownMethod, method)
	}
}

func dragOp(req DragParams) (tableOp, error) {
	switch req.Event {
	case DragStart, DragOver, DragDrop, DragEnd, DragSettle:
	default:
		return nil, fmt.Errorf("%w: unknown drag event %q", ErrInvalidParams, req.Event)
	}
	return func(_ context.Context, t *controller.Table) (any, error) {
		switch req.Event {
		case DragStart:
			if err := t.DragStart(req.Key); err != nil {
				return nil, err
			}
		case DragOver:
			t.DragOver(req.Key)
		case DragDrop:
			t.Drop(req.Key)
		case DragEnd:
			t.DragEnd()
		case DragSettle:
			t.SettleDrag()
		}
		return t.ColumnsState(), nil
	}, nil
}

func tableState(t *controller.Table) TableStateResponse {
	state := TableStateResponse{
		Title:          t.Title(),
		Flags:          t.Flags(),
		Columns:        t.Columns(),
		Layout:         t.ColumnsState(),
		Sort:           t.SortConfig(),
		Filters:        t.Filters(),
		Aggregations:   t.Aggregations(),
		ActiveGroups:   t.ActiveGroups(),
		ExpandedGroups: t.ExpandedGroups(),
		ManualGroups:   t.ManualGroups(),
		SelectedRowIDs: rowIDs(t.SelectedRows()),
		Views:          t.ListViews(),
	}
	if current, ok := t.CurrentView(); ok {
		state.CurrentView = current.ID
	}
	return state
}

func display(t *controller.Table) DisplayResponse {
	cols := t.DisplayColumns()
	resp := DisplayResponse{
		Columns:      cols,
		Aggregations: t.Aggregations(),
	}
	if t.ColumnsState().BestFit {
		resp.Widths = t.ColumnWidths()
	}
	entries := t.DisplaySequence()
	resp.Entries = make([]DisplayEntryResponse, 0, len(entries))
	for _, entry := range entries {
		out := DisplayEntryResponse{
			Kind:          entry.Kind,
			Level:         entry.Level,
			Group:         entry.Node,
			Expanded:      entry.Expanded,
			ManualGroupID: entry.ManualGroupID,
		}
		if entry.Kind == grouping.KindData && entry.Row != nil {
			out.RowID = entry.Row.ID
			out.Cells = cells(t, cols, entry.Row.ID)
		}
		resp.Entries = append(resp.Entries, out)
	}
	return resp
}

func cells(t *controller.Table, cols []table.Column, rowID string) []string {
	out := make([]string, 0, len(cols))
	for _, col := range cols {
		cell, err := t.FormatCell(col.Key, rowID)
		if err != nil {
			cell = ""
		}
		out = append(out, cell)
	}
	return out
}

func rowIDs(rows []table.Row) []string {
	out := make([]string, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.ID)
	}
	return out
}

func boolOr(v *bool, fallback bool) bool {
	if v == nil {
		return fallback
	}
	return *v
}

func decodeParams(params json.RawMessage, out any) error {
	if len(params) == 0 {
		return nil
	}
	if err := json.Unmarshal(params, out); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidParams, err)
	}
	return nil
}
