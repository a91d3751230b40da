package mcp

import (
	"context"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"
)

const serverInstructions = `gridview serves configured data tables and keeps a view state per table:
column layout, sort, filters, grouping, aggregations, selection and saved views.

Core concepts:
- Table: a fixed dataset with typed columns. Every tool except list_tables takes "table".
- Pipeline: filter, then sort, then group, then aggregate. get_display returns the result.
- Group id: opaque string returned by get_display; pass it back to expand_group/collapse_group.
- Manual group: a named set of rows shown ahead of column groups. A row is in at most one.
- View: a saved snapshot of the view state (not the selection), persisted per tenant.
- Notices: every table tool answers {result, notices}. Warnings flag stale ids or disabled
  features; an error notice "persist_failed" means the change holds in memory only.

Default workflow:
1) list_tables, then get_state for the table you care about.
2) Shape the view: apply_filter, sort_by, group_by, aggregate.
3) Read it: get_display (formatted cells in display column order).
4) Keep it: save_view; later load_view or reset_view.
5) Export: export returns CSV of the filtered, sorted rows over visible columns.

Docs:
- gridview://docs/index
- gridview://docs/concepts
- gridview://docs/workflows
`

type docResource struct {
	URI         string
	Name        string
	Title       string
	Description string
	Content     string
}

var docResources = []docResource{
	{
		URI:         "gridview://docs/index",
		Name:        "docs_index",
		Title:       "gridview docs index",
		Description: "Entry point: what the tools do and which doc to read next.",
		Content: `# gridview: Docs Index

## Quick start

1. list_tables
2. get_state { "table": "trades" }
3. get_display { "table": "trades" }

## Tool families

- State: get_state, get_display, format_cell
- Sorting: sort_by, set_sort, header_click
- Filtering: apply_filter, remove_filter, clear_filters
- Aggregation: aggregate, remove_aggregation, refresh_aggregations
- Grouping: group_by, ungroup, toggle_group, clear_groups, expand_group, collapse_group, toggle_expanded, expand_all, collapse_all
- Manual groups: list_manual_groups, create_manual_group, add_to_manual_group, remove_from_manual_group
- Columns: update_columns, set_column_visible, move_column, toggle_best_fit, drag
- Selection: select_rows, select_all, clear_selection, get_selection
- Views: save_view, load_view, delete_view, list_views, clear_views, reset_view
- Menus: menu_actions, run_menu_action
- Export: export

## Read next

- gridview://docs/concepts for the data model and its rules.
- gridview://docs/workflows for common sequences.
`,
	},
	{
		URI:         "gridview://docs/concepts",
		Name:        "docs_concepts",
		Title:       "gridview concepts",
		Description: "Data model and the rules each stage follows.",
		Content: `# gridview: Concepts

## Columns

Each column has a key, a title, a type (string, number or date), a sortable
flag and an optional named format such as "currency". Pinned columns always
render first and cannot be reordered.

## Sorting

One sort column at a time. Sorting the same column again flips asc/desc.
Missing values sort last in both directions. Strings compare with locale rules.

## Filtering

Numeric only: equal, less, greater. Filters on different columns combine with
AND. A row whose value is missing or not numeric never matches.

## Grouping

Columns group in the order they were added. Buckets keep first-seen order;
missing values land in "Unknown". Groups start collapsed; collapsing a group
hides everything below it. Ungrouping a column drops expansion state for
every group at or below that level.

## Aggregation

Sum or average over the filtered rows of a numeric column. Values are
formatted with thousands separators; averages keep two decimals.

## Manual groups

Named row sets created from a selection. A row belongs to at most one manual
group; adding it elsewhere moves it. Manual groups render before column
groups, always expanded.

## Views

A view captures layout, sort, filters, groups, expanded ids, aggregations and
best-fit. Selection is never saved. Loading a view that references missing
columns applies what still fits.

## Notices

Warnings: stale ids (unknown_group, unknown_view, not_grouped, ...) and
refusals (column_pinned, column_not_sortable). Error: persist_failed.
`,
	},
	{
		URI:         "gridview://docs/workflows",
		Name:        "docs_workflows",
		Title:       "gridview workflows",
		Description: "Common tool sequences.",
		Content: `# gridview: Workflows

## Totals by desk

1. group_by { "key": "desk" }
2. aggregate { "key": "extendedAmount", "op": "sum" }
3. get_display; group headers carry item_count and aggregate_total.

## Drill into one group

1. get_display and pick a group id.
2. expand_group { "id": "<group id>" }
3. get_display again.

## Hand-pick rows

1. select_rows { "row_ids": ["1", "2"] }
2. menu_actions { "kind": "row", "target_ids": ["1", "2"], "clicked_id": "1" }
3. run_menu_action with the "Create New Group" entry and a "name".

## Save and restore

1. save_view { "name": "Big trades" } returns the view id.
2. reset_view returns to defaults.
3. load_view { "id": "<view id>" }

## Export

export returns file_name plus CSV content. Only visible columns and rows that
pass the filters are included, in the current sort order.
`,
	},
}

func registerDocResources(server *sdkmcp.Server) {
	for _, doc := range docResources {
		server.AddResource(&sdkmcp.Resource{
			URI:         doc.URI,
			Name:        doc.Name,
			Title:       doc.Title,
			Description: doc.Description,
			MIMEType:    "text/markdown",
			Size:        int64(len(doc.Content)),
		}, func(_ context.Context, req *sdkmcp.ReadResourceRequest) (*sdkmcp.ReadResourceResult, error) {
			uri := doc.URI
			if req != nil && req.Params != nil && req.Params.URI != "" {
				uri = req.Params.URI
			}
			return &sdkmcp.ReadResourceResult{
				Contents: []*sdkmcp.ResourceContents{{
					URI:      uri,
					MIMEType: "text/markdown",
					Text:     doc.Content,
				}},
			}, nil
		})
	}
}
