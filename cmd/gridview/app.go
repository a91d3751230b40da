package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/rpggio/gridview/internal/config"
	"github.com/rpggio/gridview/internal/controller"
	"github.com/rpggio/gridview/internal/dataset"
	"github.com/rpggio/gridview/internal/sqlite"
	"github.com/rpggio/gridview/internal/tables"
)

var tenantFlag string

// app holds what every command needs: config, logger, database and tables.
type app struct {
	cfg      config.Config
	logger   *slog.Logger
	db       *sqlite.DB
	registry *tables.Registry
	closers  []io.Closer
}

// openApp loads configuration, opens the database and loads every dataset.
// Logs go to stdout only for the HTTP server; stdio mode and one-shot
// commands keep stdout for their output.
func openApp(ctx context.Context, serving bool) (*app, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	a := &app{cfg: cfg}

	logWriter := io.Writer(os.Stderr)
	if serving && cfg.Transport.Mode == "http" {
		logWriter = os.Stdout
	}

	if logPath := os.Getenv("GRIDVIEW_LOG_PATH"); logPath != "" {
		fileWriter, file, err := newLogFileWriter(logPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "log file error: %v\n", err)
		} else {
			a.closers = append(a.closers, file)
			logWriter = fileWriter
		}
	}
	a.logger = slog.New(slog.NewTextHandler(logWriter, &slog.HandlerOptions{
		Level: parseLogLevel(cfg.Log.Level),
	}))

	if err := ensureDBDir(cfg.DB.Path); err != nil {
		a.Close()
		return nil, fmt.Errorf("prepare database path: %w", err)
	}
	a.db, err = sqlite.New(cfg.DB.Path)
	if err != nil {
		a.Close()
		return nil, fmt.Errorf("open database: %w", err)
	}
	a.closers = append(a.closers, a.db)
	if err := a.db.RunMigrations(); err != nil {
		a.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	defs, err := definitions(ctx, cfg)
	if err != nil {
		a.Close()
		return nil, err
	}
	a.registry = tables.NewRegistry(defs, sqlite.NewKVStore(a.db), cfg.Locale, a.logger)
	a.logger.Info("tables loaded", "count", len(defs), "db", cfg.DB.Path)
	return a, nil
}

func (a *app) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		_ = a.closers[i].Close()
	}
}

// definitions reads every configured dataset concurrently.
func definitions(ctx context.Context, cfg config.Config) ([]tables.Definition, error) {
	sources := make([]dataset.Source, 0, len(cfg.Tables))
	for _, tc := range cfg.Tables {
		sources = append(sources, dataset.Source{Name: tc.Name, Path: tc.Data, Columns: tc.Columns})
	}
	rows, err := dataset.LoadAll(ctx, sources)
	if err != nil {
		return nil, fmt.Errorf("load datasets: %w", err)
	}

	defs := make([]tables.Definition, 0, len(cfg.Tables))
	for _, tc := range cfg.Tables {
		title := tc.Title
		if title == "" {
			title = tc.Name
		}
		defs = append(defs, tables.Definition{
			Name:        tc.Name,
			Title:       title,
			Columns:     tc.Columns,
			Pinned:      tc.Pinned,
			TotalFields: tc.TotalFields,
			Flags: controller.Flags{
				EnableGrouping:         tc.Features.Grouping,
				EnableAggregation:      tc.Features.Aggregation,
				EnableColumnReordering: tc.Features.ColumnReordering,
			},
			Rows: rows[tc.Name],
		})
	}
	return defs, nil
}

func ensureDBDir(path string) error {
	if path == ":memory:" || path == "" {
		return nil
	}
	dir := filepath.Dir(path)
	if dir == "." {
		return nil
	}
	return os.MkdirAll(dir, 0o755)
}

func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
