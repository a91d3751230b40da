package controller

import (
	"context"
	"log/slog"

	"github.com/rpggio/gridview/internal/domain/format"
	"github.com/rpggio/gridview/internal/domain/notice"
	"github.com/rpggio/gridview/internal/domain/table"
)

// Flags switch optional features. Operations of a disabled feature are no-ops.
type Flags struct {
	EnableGrouping         bool `json:"enable_grouping"`
	EnableAggregation      bool `json:"enable_aggregation"`
	EnableColumnReordering bool `json:"enable_column_reordering"`
}

// AllFeatures enables every optional feature.
func AllFeatures() Flags {
	return Flags{EnableGrouping: true, EnableAggregation: true, EnableColumnReordering: true}
}

// Store persists JSON documents by namespace.
type Store interface {
	Get(ctx context.Context, namespace string) ([]byte, error)
	Set(ctx context.Context, namespace string, data []byte) error
	Remove(ctx context.Context, namespace string) error
}

// Options configures a Table.
type Options struct {
	// Namespace scopes persisted views and manual groups.
	Namespace string
	Title     string
	Columns   []table.Column
	Pinned    []string
	// TotalFields feed group header totals. Empty selects the grouping defaults.
	TotalFields []string
	Flags       Flags
	Locale      string
	Store       Store
	Formatters  map[string]format.Func
	Notices     notice.Sink
	Logger      *slog.Logger
}
