package table

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// ColumnType drives default formatting and which aggregations are legal.
type ColumnType string

const (
	TypeString ColumnType = "string"
	TypeNumber ColumnType = "number"
	TypeDate   ColumnType = "date"
)

// Valid reports whether t is a known column type.
func (t ColumnType) Valid() bool {
	switch t {
	case TypeString, TypeNumber, TypeDate:
		return true
	}
	return false
}

// Column describes one field of a table.
type Column struct {
	Key      string     `json:"key" yaml:"key"`
	Title    string     `json:"title" yaml:"title"`
	Width    int        `json:"width,omitempty" yaml:"width"`
	Sortable bool       `json:"sortable" yaml:"sortable"`
	Type     ColumnType `json:"type" yaml:"type"`
	// Format selects a named formatter, e.g. "currency".
	Format string `json:"format,omitempty" yaml:"format"`
}

// IsNumeric reports whether the column supports sum and average.
func (c Column) IsNumeric() bool {
	return c.Type == TypeNumber
}

// Row is an opaque record with a mandatory unique id.
type Row struct {
	ID     string
	Fields map[string]any
}

// NewRow builds a row, copying fields.
func NewRow(id string, fields map[string]any) Row {
	copied := make(map[string]any, len(fields))
	for k, v := range fields {
		if k == "id" {
			continue
		}
		copied[k] = v
	}
	return Row{ID: id, Fields: copied}
}

// Get returns the value of a field. The "id" key resolves to the row id.
func (r Row) Get(key string) any {
	if key == "id" {
		return r.ID
	}
	if r.Fields == nil {
		return nil
	}
	return r.Fields[key]
}

// MarshalJSON renders the row as a flat object.
func (r Row) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(r.Fields)+1)
	for k, v := range r.Fields {
		out[k] = v
	}
	out["id"] = r.ID
	return json.Marshal(out)
}

// UnmarshalJSON accepts a flat object with a string or numeric id.
func (r *Row) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var raw map[string]any
	if err := dec.Decode(&raw); err != nil {
		return err
	}
	id, err := rowID(raw["id"])
	if err != nil {
		return err
	}
	*r = NewRow(id, raw)
	return nil
}

func rowID(v any) (string, error) {
	switch id := v.(type) {
	case string:
		if strings.TrimSpace(id) == "" {
			return "", ErrMissingRowID
		}
		return id, nil
	case json.Number:
		return id.String(), nil
	case float64:
		return fmt.Sprint(id), nil
	case int:
		return fmt.Sprint(id), nil
	case int64:
		return fmt.Sprint(id), nil
	case nil:
		return "", ErrMissingRowID
	default:
		return "", fmt.Errorf("%w: unsupported id type %T", ErrMissingRowID, v)
	}
}
