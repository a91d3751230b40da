package main

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/rpggio/gridview/internal/controller"
	"github.com/rpggio/gridview/internal/domain/export"
	"github.com/spf13/cobra"
)

var (
	exportView   string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <table>",
	Short: "Export a table's processed rows as CSV",
	Long: "Export writes the table's rows after the tenant's filters and sort are applied. " +
		"With --view the saved view is loaded first and becomes the current view. " +
		"Without -o the file is written to the working directory under the generated export name; " +
		"-o - writes to stdout.",
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp(cmd.Context(), false)
		if err != nil {
			return err
		}
		defer a.Close()

		ctx := cmd.Context()
		var (
			projection export.Projection
			title      string
		)
		err = a.registry.With(ctx, tenantFlag, args[0], func(t *controller.Table) error {
			if exportView != "" {
				v, ok := t.FindView(exportView)
				if !ok {
					return fmt.Errorf("no saved view named %q", exportView)
				}
				if err := t.LoadView(ctx, v.ID); err != nil {
					return err
				}
			}
			projection = t.Export()
			title = t.Title()
			return nil
		})
		if err != nil {
			return err
		}
		if projection.Empty() {
			fmt.Fprintln(cmd.ErrOrStderr(), "Nothing to export: no visible columns.")
			return nil
		}

		exporter := export.CSV{}
		var w io.Writer
		target := exportOutput
		switch target {
		case "-":
			w = cmd.OutOrStdout()
		default:
			if target == "" {
				target = export.FileName(title, time.Now(), exporter.Extension())
			}
			if dir := filepath.Dir(target); dir != "." {
				if err := os.MkdirAll(dir, 0o755); err != nil {
					return fmt.Errorf("create output dir: %w", err)
				}
			}
			f, err := os.Create(target)
			if err != nil {
				return fmt.Errorf("create output: %w", err)
			}
			defer f.Close()
			w = f
		}

		if err := exporter.Export(w, projection); err != nil {
			return fmt.Errorf("export %s: %w", args[0], err)
		}
		if target != "-" {
			fmt.Fprintf(cmd.ErrOrStderr(), "Exported %d rows to %s\n", len(projection.Rows), target)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVar(&exportView, "view", "", "saved view to load before exporting")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file, or - for stdout")
}
