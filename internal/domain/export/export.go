package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/rpggio/gridview/internal/domain/table"
)

// CellFormatter renders one cell for export.
type CellFormatter interface {
	Cell(col table.Column, row table.Row) string
}

// Projection is the formatted, visible-column-ordered view of a row set.
type Projection struct {
	Columns []table.Column `json:"columns"`
	Header  []string       `json:"header"`
	Rows    [][]string     `json:"rows"`
}

// Empty reports whether there is nothing to export.
func (p Projection) Empty() bool {
	return len(p.Columns) == 0
}

// Project formats rows for the given columns. With no columns the projection
// is empty; with no rows it carries only the header.
func Project(cols []table.Column, rows []table.Row, f CellFormatter) Projection {
	if len(cols) == 0 {
		return Projection{}
	}
	p := Projection{
		Columns: cols,
		Header:  make([]string, 0, len(cols)),
		Rows:    make([][]string, 0, len(rows)),
	}
	for _, col := range cols {
		title := col.Title
		if title == "" {
			title = col.Key
		}
		p.Header = append(p.Header, title)
	}
	for _, row := range rows {
		line := make([]string, 0, len(cols))
		for _, col := range cols {
			line = append(line, f.Cell(col, row))
		}
		p.Rows = append(p.Rows, line)
	}
	return p
}

// Exporter encodes a projection.
type Exporter interface {
	Export(w io.Writer, p Projection) error
	Extension() string
}

// CSV writes projections as comma separated values.
type CSV struct{}

func (CSV) Extension() string { return "csv" }

func (CSV) Export(w io.Writer, p Projection) error {
	if p.Empty() {
		return nil
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(p.Header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	if err := cw.WriteAll(p.Rows); err != nil {
		return fmt.Errorf("write rows: %w", err)
	}
	return nil
}

// FileName builds "<title>_export_<date>.<ext>".
func FileName(title string, now time.Time, ext string) string {
	title = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '_'
		}
		return r
	}, strings.TrimSpace(title))
	if title == "" {
		title = "table"
	}
	return fmt.Sprintf("%s_export_%s.%s", title, now.Format("2006-01-02"), ext)
}
