package mcp

import (
	"context"
	"encoding/json"
	"errors"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

func stringProp(description string) map[string]any {
	return map[string]any{"type": "string", "description": description}
}

func stringListProp(description string) map[string]any {
	return map[string]any{
		"type":        "array",
		"items":       map[string]any{"type": "string"},
		"description": description,
	}
}

func enumProp(description string, values ...string) map[string]any {
	return map[string]any{"type": "string", "enum": values, "description": description}
}

// tableSchema builds an input schema whose first property is the table name.
func tableSchema(props map[string]any, required ...string) map[string]any {
	properties := map[string]any{
		"table": stringProp("Configured table name (see list_tables)"),
	}
	for name, prop := range props {
		properties[name] = prop
	}
	return map[string]any{
		"type":       "object",
		"properties": properties,
		"required":   append([]string{"table"}, required...),
	}
}

var columnKeyProp = map[string]any{"key": stringProp("Column key")}

// buildToolCatalog returns all available MCP tools
func buildToolCatalog() []ToolDefinition {
	return []ToolDefinition{
		// Tables
		{
			Name:        "list_tables",
			Description: "List configured tables with their size and enabled features",
			InputSchema: map[string]any{
				"type":       "object",
				"properties": map[string]any{},
			},
		},
		{
			Name:        "get_state",
			Description: "Get a table's view state: layout, sort, filters, aggregations, groups, selection and saved views",
			InputSchema: tableSchema(nil),
		},
		{
			Name:        "get_display",
			Description: "Get the rendered display sequence: group headers and formatted data rows in display column order",
			InputSchema: tableSchema(nil),
		},
		{
			Name:        "format_cell",
			Description: "Format one cell with its column's formatter",
			InputSchema: tableSchema(map[string]any{
				"key":    stringProp("Column key"),
				"row_id": stringProp("Row id"),
			}, "key", "row_id"),
		},

		// Sorting
		{
			Name:        "sort_by",
			Description: "Sort by a column; repeating the same column flips the direction",
			InputSchema: tableSchema(columnKeyProp, "key"),
		},
		{
			Name:        "set_sort",
			Description: "Set the sort column and direction; an empty key clears sorting",
			InputSchema: tableSchema(map[string]any{
				"key":       stringProp("Column key, empty to clear"),
				"direction": enumProp("Sort direction", "asc", "desc"),
			}),
		},
		{
			Name:        "header_click",
			Description: "Handle a header click; clicks right after a column drop are swallowed",
			InputSchema: tableSchema(columnKeyProp, "key"),
		},

		// Filtering
		{
			Name:        "apply_filter",
			Description: "Filter a column numerically; filters on different columns combine with AND",
			InputSchema: tableSchema(map[string]any{
				"key":   stringProp("Column key"),
				"op":    enumProp("Comparison", "equal", "less", "greater"),
				"value": stringProp("Numeric value"),
			}, "key", "op", "value"),
		},
		{
			Name:        "remove_filter",
			Description: "Remove the filter on a column",
			InputSchema: tableSchema(columnKeyProp, "key"),
		},
		{
			Name:        "clear_filters",
			Description: "Remove every filter",
			InputSchema: tableSchema(nil),
		},

		// Aggregation
		{
			Name:        "aggregate",
			Description: "Sum or average a numeric column over the filtered rows",
			InputSchema: tableSchema(map[string]any{
				"key": stringProp("Numeric column key"),
				"op":  enumProp("Aggregation", "sum", "average"),
			}, "key", "op"),
		},
		{
			Name:        "remove_aggregation",
			Description: "Remove a column's aggregation",
			InputSchema: tableSchema(columnKeyProp, "key"),
		},
		{
			Name:        "refresh_aggregations",
			Description: "Recompute every aggregation over the current filtered rows",
			InputSchema: tableSchema(nil),
		},

		// Grouping
		{
			Name:        "group_by",
			Description: "Add a column to the grouping hierarchy",
			InputSchema: tableSchema(columnKeyProp, "key"),
		},
		{
			Name:        "ungroup",
			Description: "Remove a column from the grouping hierarchy",
			InputSchema: tableSchema(columnKeyProp, "key"),
		},
		{
			Name:        "toggle_group",
			Description: "Group by a column, or ungroup it if already grouped",
			InputSchema: tableSchema(columnKeyProp, "key"),
		},
		{
			Name:        "clear_groups",
			Description: "Remove all column grouping",
			InputSchema: tableSchema(nil),
		},
		{
			Name:        "expand_group",
			Description: "Expand a group header",
			InputSchema: tableSchema(map[string]any{"id": stringProp("Group id from get_display")}, "id"),
		},
		{
			Name:        "collapse_group",
			Description: "Collapse a group header and everything below it",
			InputSchema: tableSchema(map[string]any{"id": stringProp("Group id from get_display")}, "id"),
		},
		{
			Name:        "toggle_expanded",
			Description: "Expand or collapse a group header",
			InputSchema: tableSchema(map[string]any{"id": stringProp("Group id from get_display")}, "id"),
		},
		{
			Name:        "expand_all",
			Description: "Expand every group at every level",
			InputSchema: tableSchema(nil),
		},
		{
			Name:        "collapse_all",
			Description: "Collapse every group",
			InputSchema: tableSchema(nil),
		},

		// Manual groups
		{
			Name:        "list_manual_groups",
			Description: "List user-defined row groups",
			InputSchema: tableSchema(nil),
		},
		{
			Name:        "create_manual_group",
			Description: "Create a named group from rows; rows leave any group they were in",
			InputSchema: tableSchema(map[string]any{
				"name":    stringProp("Group name"),
				"row_ids": stringListProp("Row ids"),
			}, "name", "row_ids"),
		},
		{
			Name:        "add_to_manual_group",
			Description: "Move rows into an existing manual group",
			InputSchema: tableSchema(map[string]any{
				"group_id": stringProp("Manual group id"),
				"row_ids":  stringListProp("Row ids"),
			}, "group_id", "row_ids"),
		},
		{
			Name:        "remove_from_manual_group",
			Description: "Remove a row from its manual group; an emptied group is deleted",
			InputSchema: tableSchema(map[string]any{
				"group_id": stringProp("Manual group id"),
				"row_id":   stringProp("Row id"),
			}, "group_id", "row_id"),
		},

		// Columns
		{
			Name:        "update_columns",
			Description: "Replace column visibility and order",
			InputSchema: tableSchema(map[string]any{
				"visible": stringListProp("Visible column keys"),
				"order":   stringListProp("Every column key in display order"),
			}, "visible", "order"),
		},
		{
			Name:        "set_column_visible",
			Description: "Show or hide one column",
			InputSchema: tableSchema(map[string]any{
				"key":     stringProp("Column key"),
				"visible": map[string]any{"type": "boolean"},
			}, "key", "visible"),
		},
		{
			Name:        "move_column",
			Description: "Move a column to just before another; pinned columns stay put",
			InputSchema: tableSchema(map[string]any{
				"from": stringProp("Column to move"),
				"to":   stringProp("Column to insert before"),
			}, "from", "to"),
		},
		{
			Name:        "toggle_best_fit",
			Description: "Switch best-fit column widths on or off",
			InputSchema: tableSchema(nil),
		},
		{
			Name:        "drag",
			Description: "Drive a header drag gesture: start, over, drop, end or settle",
			InputSchema: tableSchema(map[string]any{
				"event": enumProp("Gesture step", "start", "over", "drop", "end", "settle"),
				"key":   stringProp("Column key under the pointer"),
			}, "event"),
		},

		// Selection
		{
			Name:        "select_rows",
			Description: "Select or deselect rows by id; group ids are ignored",
			InputSchema: tableSchema(map[string]any{
				"row_ids":  stringListProp("Row ids"),
				"included": map[string]any{"type": "boolean", "description": "false deselects (default true)"},
			}, "row_ids"),
		},
		{
			Name:        "select_all",
			Description: "Select every filtered row, or clear the selection",
			InputSchema: tableSchema(map[string]any{
				"included": map[string]any{"type": "boolean", "description": "false clears (default true)"},
			}),
		},
		{
			Name:        "clear_selection",
			Description: "Clear the selection",
			InputSchema: tableSchema(nil),
		},
		{
			Name:        "get_selection",
			Description: "Get the selected rows",
			InputSchema: tableSchema(nil),
		},

		// Views
		{
			Name:        "save_view",
			Description: "Save the current view state under a name, replacing a view of the same name",
			InputSchema: tableSchema(map[string]any{"name": stringProp("View name")}, "name"),
		},
		{
			Name:        "load_view",
			Description: "Apply a saved view",
			InputSchema: tableSchema(map[string]any{"id": stringProp("View id")}, "id"),
		},
		{
			Name:        "delete_view",
			Description: "Delete a saved view",
			InputSchema: tableSchema(map[string]any{"id": stringProp("View id")}, "id"),
		},
		{
			Name:        "list_views",
			Description: "List saved views",
			InputSchema: tableSchema(nil),
		},
		{
			Name:        "clear_views",
			Description: "Delete every saved view",
			InputSchema: tableSchema(nil),
		},
		{
			Name:        "reset_view",
			Description: "Return to the default view state",
			InputSchema: tableSchema(nil),
		},

		// Menus
		{
			Name:        "menu_actions",
			Description: "List the context menu entries for a header or for rows",
			InputSchema: tableSchema(map[string]any{
				"kind":       enumProp("Menu target", "header", "row"),
				"column_key": stringProp("Header menu column"),
				"target_ids": stringListProp("Row menu targets"),
				"clicked_id": stringProp("Row the menu was opened on"),
			}, "kind"),
		},
		{
			Name:        "run_menu_action",
			Description: "Run an entry returned by menu_actions; set name for create_manual_group and group_id for add_to_manual_group",
			InputSchema: tableSchema(map[string]any{
				"action": map[string]any{"type": "object", "description": "Menu action"},
			}, "action"),
		},

		// Export
		{
			Name:        "export",
			Description: "Export the filtered and sorted rows as CSV over the visible columns",
			InputSchema: tableSchema(nil),
		},
	}
}

// registerTools adds every catalog tool to server, dispatching to h.
func registerTools(server *sdkmcp.Server, h *Handler) {
	for _, def := range buildToolCatalog() {
		name := def.Name
		server.AddTool(&sdkmcp.Tool{
			Name:        def.Name,
			Description: def.Description,
			InputSchema: def.InputSchema,
		}, func(ctx context.Context, req *sdkmcp.CallToolRequest) (*sdkmcp.CallToolResult, error) {
			var args json.RawMessage
			if req != nil && req.Params != nil {
				args = req.Params.Arguments
			}
			result, err := h.Handle(ctx, getTenantID(ctx), name, args)
			if err != nil {
				return errorResult(err), nil
			}
			data, err := json.Marshal(result)
			if err != nil {
				return nil, err
			}
			return &sdkmcp.CallToolResult{
				Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
			}, nil
		})
	}
}

func errorResult(err error) *sdkmcp.CallToolResult {
	payload := any(map[string]string{"code": "INTERNAL", "message": err.Error()})
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		payload = apiErr
	}
	data, _ := json.Marshal(payload)
	return &sdkmcp.CallToolResult{
		IsError: true,
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(data)}},
	}
}
