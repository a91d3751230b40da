package controller

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/rpggio/gridview/internal/domain/aggregate"
	"github.com/rpggio/gridview/internal/domain/filter"
	"github.com/rpggio/gridview/internal/domain/format"
	"github.com/rpggio/gridview/internal/domain/grouping"
	"github.com/rpggio/gridview/internal/domain/layout"
	"github.com/rpggio/gridview/internal/domain/manualgroup"
	"github.com/rpggio/gridview/internal/domain/notice"
	"github.com/rpggio/gridview/internal/domain/selection"
	"github.com/rpggio/gridview/internal/domain/sorting"
	"github.com/rpggio/gridview/internal/domain/table"
	"github.com/rpggio/gridview/internal/domain/view"
)

// Table composes the view pipeline (filter, sort, group, aggregate) over one
// dataset. It is not safe for concurrent use.
type Table struct {
	title    string
	columns  []table.Column
	byKey    map[string]table.Column
	rows     []table.Row
	rowIndex map[string]int
	flags    Flags

	sort         sorting.Config
	filters      filter.Filters
	aggregations aggregate.Set

	collator  sorting.StringComparer
	aggEngine *aggregate.Engine
	formats   *format.Registry

	groups    *grouping.Engine
	manual    *manualgroup.Service
	layout    *layout.Manager
	selection *selection.Manager
	views     *view.Service

	notices  notice.Recorder
	external notice.Sink
	defaults view.Snapshot
	logger   *slog.Logger
}

// New builds a table over rows and loads persisted views and manual groups.
// The last applied view, if any, is restored.
func New(ctx context.Context, rows []table.Row, opts Options) (*Table, error) {
	if err := table.ValidateColumns(opts.Columns); err != nil {
		return nil, err
	}
	if err := table.ValidateRows(rows); err != nil {
		return nil, err
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	locale := opts.Locale
	if locale == "" {
		locale = "en-US"
	}

	lm, err := layout.NewManager(opts.Columns, opts.Pinned)
	if err != nil {
		return nil, err
	}

	t := &Table{
		title:        opts.Title,
		columns:      slices.Clone(opts.Columns),
		byKey:        make(map[string]table.Column, len(opts.Columns)),
		rows:         slices.Clone(rows),
		rowIndex:     make(map[string]int, len(rows)),
		flags:        opts.Flags,
		filters:      filter.Filters{},
		aggregations: aggregate.Set{},
		collator:     sorting.NewCollator(locale),
		aggEngine:    aggregate.NewEngine(locale),
		formats:      format.NewRegistry(locale),
		groups:       grouping.NewEngine(opts.TotalFields),
		layout:       lm,
		selection:    selection.NewManager(),
		external:     opts.Notices,
		logger:       logger,
	}
	for _, col := range t.columns {
		t.byKey[col.Key] = col
	}
	for i, row := range t.rows {
		t.rowIndex[row.ID] = i
	}
	for key, fn := range opts.Formatters {
		t.formats.Register(key, fn)
	}

	sink := notice.SinkFunc(t.notify)
	t.manual = manualgroup.NewService(opts.Store, opts.Namespace, sink, logger)
	t.views = view.NewService(opts.Store, opts.Namespace, sink, logger)
	if err := t.manual.Load(ctx); err != nil {
		return nil, fmt.Errorf("loading table %q: %w", opts.Namespace, err)
	}
	if err := t.views.Load(ctx); err != nil {
		return nil, fmt.Errorf("loading table %q: %w", opts.Namespace, err)
	}

	t.defaults = t.CaptureSnapshot()
	if current, ok := t.views.Current(); ok {
		t.ApplySnapshot(current)
	}
	return t, nil
}

// Title returns the table title.
func (t *Table) Title() string {
	return t.title
}

// Flags returns the enabled features.
func (t *Table) Flags() Flags {
	return t.flags
}

// Columns returns the column descriptors in definition order.
func (t *Table) Columns() []table.Column {
	return slices.Clone(t.columns)
}

// Column returns one descriptor.
func (t *Table) Column(key string) (table.Column, error) {
	col, ok := t.byKey[key]
	if !ok {
		return table.Column{}, fmt.Errorf("%w: %q", ErrUnknownColumn, key)
	}
	return col, nil
}

// Rows returns the unfiltered dataset.
func (t *Table) Rows() []table.Row {
	return slices.Clone(t.rows)
}

// Row returns a row by id.
func (t *Table) Row(id string) (table.Row, bool) {
	idx, ok := t.rowIndex[id]
	if !ok {
		return table.Row{}, false
	}
	return t.rows[idx], true
}

// Notices drains notices raised since the last call.
func (t *Table) Notices() []notice.Notice {
	return t.notices.Drain()
}

func (t *Table) notify(n notice.Notice) {
	t.notices.Notify(n)
	if t.external != nil {
		t.external.Notify(n)
	}
}

func (t *Table) warn(code, msgFmt string, args ...any) {
	msg := fmt.Sprintf(msgFmt, args...)
	t.logger.Warn(msg, "code", code, "table", t.title)
	t.notify(notice.Warn(code, msg))
}

// persisted downgrades store write failures to an error notice. The in-memory
// change stands.
func (t *Table) persisted(err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, view.ErrPersist) || errors.Is(err, manualgroup.ErrPersist) {
		t.logger.Error("persist failed", "table", t.title, "error", err)
		t.notify(notice.Error("persist_failed", err.Error()))
		return nil
	}
	return err
}
