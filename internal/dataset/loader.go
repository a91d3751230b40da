// Package dataset loads the row sets served by the engine from JSON or CSV
// files.
package dataset

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/rpggio/gridview/internal/domain/table"
	"golang.org/x/sync/errgroup"
)

// Source names one file to load and the columns it feeds.
type Source struct {
	Name    string
	Path    string
	Columns []table.Column
}

// LoadFile reads rows from path. The format follows the file extension.
func LoadFile(path string, cols []table.Column) ([]table.Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	var rows []table.Row
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		rows, err = ReadJSON(f)
	case ".csv":
		rows, err = ReadCSV(f, cols)
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	if err := table.ValidateRows(rows); err != nil {
		return nil, fmt.Errorf("read %s: %w", path, err)
	}
	return rows, nil
}

// ReadJSON decodes an array of flat row objects.
func ReadJSON(r io.Reader) ([]table.Row, error) {
	var rows []table.Row
	if err := json.NewDecoder(r).Decode(&rows); err != nil {
		return nil, err
	}
	return rows, nil
}

// ReadCSV decodes a header row followed by records. Empty cells are null and
// cells of number columns become json.Number when they parse.
func ReadCSV(r io.Reader, cols []table.Column) ([]table.Row, error) {
	cr := csv.NewReader(r)
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if err == io.EOF {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	idIdx := slices.Index(header, "id")
	if idIdx < 0 {
		return nil, ErrMissingIDColumn
	}
	numeric := make(map[string]bool, len(cols))
	for _, col := range cols {
		numeric[col.Key] = col.IsNumeric()
	}

	var rows []table.Row
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		fields := make(map[string]any, len(header))
		for i, key := range header {
			if i == idIdx || i >= len(record) {
				continue
			}
			fields[key] = cell(record[i], numeric[key])
		}
		rows = append(rows, table.NewRow(strings.TrimSpace(record[idIdx]), fields))
	}
	return rows, nil
}

func cell(raw string, numeric bool) any {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil
	}
	if numeric {
		if _, err := strconv.ParseFloat(s, 64); err == nil {
			return json.Number(s)
		}
	}
	return raw
}

// LoadAll loads every source concurrently. The first failure cancels the rest.
func LoadAll(ctx context.Context, sources []Source) (map[string][]table.Row, error) {
	var mu sync.Mutex
	out := make(map[string][]table.Row, len(sources))

	group, ctx := errgroup.WithContext(ctx)
	for _, src := range sources {
		group.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			rows, err := LoadFile(src.Path, src.Columns)
			if err != nil {
				return fmt.Errorf("table %s: %w", src.Name, err)
			}
			mu.Lock()
			out[src.Name] = rows
			mu.Unlock()
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}
	return out, nil
}
