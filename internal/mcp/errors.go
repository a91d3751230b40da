package mcp

import (
	"errors"
	"fmt"

	"github.com/rpggio/gridview/internal/controller"
	"github.com/rpggio/gridview/internal/domain/filter"
	"github.com/rpggio/gridview/internal/domain/layout"
	"github.com/rpggio/gridview/internal/domain/manualgroup"
	"github.com/rpggio/gridview/internal/domain/notice"
	"github.com/rpggio/gridview/internal/domain/table"
	"github.com/rpggio/gridview/internal/domain/view"
	"github.com/rpggio/gridview/internal/tables"
)

var (
	// ErrUnknownMethod indicates a tool name the handler does not serve.
	ErrUnknownMethod = errors.New("unknown method")
	// ErrInvalidParams indicates arguments that don't decode or miss a field.
	ErrInvalidParams = errors.New("invalid params")
	// ErrUnauthorized is returned for MCP requests without a usable bearer token.
	ErrUnauthorized  = errors.New("unauthorized")
)

// APIError represents an MCP error response.
type APIError struct {
	Code         string `json:"code"`
	Message      string `json:"message"`
	Details      any    `json:"details,omitempty"`
	RecoveryHint string `json:"recovery_hint,omitempty"`
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) CodeValue() string {
	return e.Code
}

func (e *APIError) MessageValue() string {
	return e.Message
}

func (e *APIError) DetailsValue() any {
	return e.Details
}

func (e *APIError) RecoveryHintValue() string {
	return e.RecoveryHint
}

// MapError maps domain errors to MCP error codes.
func MapError(err error) *APIError {
	if err == nil {
		return nil
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr
	}
	switch {
	case errors.Is(err, tables.ErrTableNotFound):
		return &APIError{Code: "TABLE_NOT_FOUND", Message: err.Error(), RecoveryHint: "Call list_tables for configured names"}
	case errors.Is(err, table.ErrUnknownColumn), errors.Is(err, layout.ErrUnknownColumn):
		return &APIError{Code: "UNKNOWN_COLUMN", Message: err.Error(), RecoveryHint: "Use a column key from get_state"}
	case errors.Is(err, controller.ErrUnknownRow):
		return &APIError{Code: "UNKNOWN_ROW", Message: err.Error(), RecoveryHint: "Use a row id from get_display"}
	case errors.Is(err, filter.ErrInvalidFilter):
		return &APIError{Code: "INVALID_FILTER", Message: err.Error(), RecoveryHint: "Use op equal, less or greater with a numeric value"}
	case errors.Is(err, layout.ErrInvalidLayout):
		return &APIError{Code: "INVALID_LAYOUT", Message: err.Error(), RecoveryHint: "Visible keys must be a subset of the order, which must list every column"}
	case errors.Is(err, view.ErrInvalidName):
		return &APIError{Code: "INVALID_VIEW_NAME", Message: err.Error(), RecoveryHint: "Pass a non-empty name"}
	case errors.Is(err, manualgroup.ErrInvalidInput):
		return &APIError{Code: "INVALID_MANUAL_GROUP", Message: err.Error(), RecoveryHint: "Pass a name and at least one known row id"}
	case errors.Is(err, controller.ErrUnknownAction):
		return &APIError{Code: "UNKNOWN_ACTION", Message: err.Error(), RecoveryHint: "Run an action returned by menu_actions"}
	case errors.Is(err, ErrUnknownMethod):
		return &APIError{Code: "UNKNOWN_METHOD", Message: err.Error()}
	case errors.Is(err, ErrInvalidParams):
		return &APIError{Code: "INVALID_PARAMS", Message: err.Error(), RecoveryHint: "Check the tool's input schema"}
	default:
		return nil
	}
}

// NoticeDetails is the Details payload of a failed tool call that raised
// notices before failing.
type NoticeDetails struct {
	Notices []notice.Notice `json:"notices"`
}

// withNotices attaches notices to a mapped error. The APIError is copied so
// shared values are never mutated.
func withNotices(err error, notices []notice.Notice) error {
	if len(notices) == 0 {
		return err
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.Details != nil {
		return err
	}
	withDetails := *apiErr
	withDetails.Details = NoticeDetails{Notices: notices}
	return &withDetails
}

func mapError(err error) error {
	if apiErr := MapError(err); apiErr != nil {
		return apiErr
	}
	return err
}
