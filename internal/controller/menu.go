package controller

import (
	"context"
	"fmt"

	"github.com/rpggio/gridview/internal/domain/aggregate"
	"github.com/rpggio/gridview/internal/domain/manualgroup"
)

// MenuKind is the context menu target.
type MenuKind string

const (
	MenuHeader MenuKind = "header"
	MenuRow    MenuKind = "row"
)

// Action names a menu command.
type Action string

const (
	ActionToggleBestFit         Action = "toggle_best_fit"
	ActionGroup                 Action = "group"
	ActionUngroup               Action = "ungroup"
	ActionAggregate             Action = "aggregate"
	ActionCreateManualGroup     Action = "create_manual_group"
	ActionAddToManualGroup      Action = "add_to_manual_group"
	ActionRemoveFromManualGroup Action = "remove_from_manual_group"
)

// HeaderMenuState is what a header menu needs to know about one column.
type HeaderMenuState struct {
	ColumnKey    string `json:"column_key"`
	Title        string `json:"title"`
	Grouped      bool   `json:"grouped"`
	CanGroup     bool   `json:"can_group"`
	CanAggregate bool   `json:"can_aggregate"`
	BestFit      bool   `json:"best_fit"`
}

// RowMenuState is what a row menu needs to know about its targets.
type RowMenuState struct {
	TargetIDs    []string            `json:"target_ids"`
	ClickedID    string              `json:"clicked_id"`
	CanGroup     bool                `json:"can_group"`
	ManualGroups []manualgroup.Group `json:"manual_groups"`
	// ClickedGroupID is the manual group holding the clicked row, if any.
	ClickedGroupID string `json:"clicked_group_id,omitempty"`
}

// MenuRequest describes a context menu opening.
type MenuRequest struct {
	Kind      MenuKind `json:"kind"`
	ColumnKey string   `json:"column_key,omitempty"`
	TargetIDs []string `json:"target_ids,omitempty"`
	ClickedID string   `json:"clicked_id,omitempty"`
}

// MenuAction is one menu entry. Name and GroupID are filled in by the caller
// for the manual group actions that need them.
type MenuAction struct {
	Label     string       `json:"label"`
	Action    Action       `json:"action"`
	ColumnKey string       `json:"column_key,omitempty"`
	Op        aggregate.Op `json:"op,omitempty"`
	RowIDs    []string     `json:"row_ids,omitempty"`
	GroupID   string       `json:"group_id,omitempty"`
	Name      string       `json:"name,omitempty"`
}

// HeaderMenu returns the state behind a header menu for key.
func (t *Table) HeaderMenu(key string) (HeaderMenuState, error) {
	col, err := t.Column(key)
	if err != nil {
		return HeaderMenuState{}, err
	}
	return HeaderMenuState{
		ColumnKey:    key,
		Title:        col.Title,
		Grouped:      t.groups.IsGrouped(key),
		CanGroup:     t.flags.EnableGrouping,
		CanAggregate: t.flags.EnableAggregation && col.IsNumeric(),
		BestFit:      t.layout.BestFit(),
	}, nil
}

// RowMenu returns the state behind a row menu. Unknown ids are dropped.
func (t *Table) RowMenu(targetIDs []string, clickedID string) RowMenuState {
	state := RowMenuState{
		TargetIDs:    make([]string, 0, len(targetIDs)),
		CanGroup:     t.flags.EnableGrouping,
		ManualGroups: t.manual.Groups(),
	}
	for _, id := range targetIDs {
		if _, ok := t.rowIndex[id]; ok {
			state.TargetIDs = append(state.TargetIDs, id)
		}
	}
	if _, ok := t.rowIndex[clickedID]; ok {
		state.ClickedID = clickedID
		state.ClickedGroupID, _ = t.manual.GroupOf(clickedID)
	}
	return state
}

// MenuActions lists the entries for a context menu.
func (t *Table) MenuActions(req MenuRequest) ([]MenuAction, error) {
	switch req.Kind {
	case MenuHeader:
		hm, err := t.HeaderMenu(req.ColumnKey)
		if err != nil {
			return nil, err
		}
		return headerActions(hm), nil
	case MenuRow:
		return rowActions(t.RowMenu(req.TargetIDs, req.ClickedID)), nil
	}
	return nil, fmt.Errorf("%w: menu kind %q", ErrUnknownAction, req.Kind)
}

func headerActions(hm HeaderMenuState) []MenuAction {
	label := "Enable Best Fit"
	if hm.BestFit {
		label = "Disable Best Fit"
	}
	actions := []MenuAction{{Label: label, Action: ActionToggleBestFit}}
	if hm.CanGroup {
		if hm.Grouped {
			actions = append(actions, MenuAction{Label: "Ungroup by " + hm.Title, Action: ActionUngroup, ColumnKey: hm.ColumnKey})
		} else {
			actions = append(actions, MenuAction{Label: "Group by " + hm.Title, Action: ActionGroup, ColumnKey: hm.ColumnKey})
		}
	}
	if hm.CanAggregate {
		actions = append(actions,
			MenuAction{Label: "Sum " + hm.Title, Action: ActionAggregate, ColumnKey: hm.ColumnKey, Op: aggregate.OpSum},
			MenuAction{Label: "Average " + hm.Title, Action: ActionAggregate, ColumnKey: hm.ColumnKey, Op: aggregate.OpAverage},
		)
	}
	return actions
}

func rowActions(rm RowMenuState) []MenuAction {
	if !rm.CanGroup {
		return nil
	}
	var actions []MenuAction
	if len(rm.TargetIDs) > 1 {
		actions = append(actions, MenuAction{Label: "Create New Group", Action: ActionCreateManualGroup, RowIDs: rm.TargetIDs})
		if len(rm.ManualGroups) > 0 {
			actions = append(actions, MenuAction{Label: "Add to Existing Group", Action: ActionAddToManualGroup, RowIDs: rm.TargetIDs})
		}
	}
	if rm.ClickedGroupID != "" {
		actions = append(actions, MenuAction{
			Label:   "Remove from Group",
			Action:  ActionRemoveFromManualGroup,
			RowIDs:  []string{rm.ClickedID},
			GroupID: rm.ClickedGroupID,
		})
	}
	return actions
}

// RunMenuAction executes an entry returned by MenuActions.
func (t *Table) RunMenuAction(ctx context.Context, a MenuAction) error {
	switch a.Action {
	case ActionToggleBestFit:
		t.ToggleBestFit()
		return nil
	case ActionGroup:
		return t.GroupBy(a.ColumnKey)
	case ActionUngroup:
		return t.Ungroup(a.ColumnKey)
	case ActionAggregate:
		_, _, err := t.Aggregate(a.ColumnKey, a.Op)
		return err
	case ActionCreateManualGroup:
		_, err := t.CreateManualGroup(ctx, a.Name, a.RowIDs)
		return err
	case ActionAddToManualGroup:
		return t.AddToManualGroup(ctx, a.GroupID, a.RowIDs)
	case ActionRemoveFromManualGroup:
		for _, id := range a.RowIDs {
			if err := t.RemoveFromManualGroup(ctx, a.GroupID, id); err != nil {
				return err
			}
		}
		return nil
	}
	return fmt.Errorf("%w: %q", ErrUnknownAction, a.Action)
}
