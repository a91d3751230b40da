package table

import (
	"fmt"
	"strings"
)

// ValidateColumns checks descriptors for empty keys, unknown types and duplicates.
func ValidateColumns(cols []Column) error {
	seen := make(map[string]struct{}, len(cols))
	for i, col := range cols {
		if strings.TrimSpace(col.Key) == "" {
			return fmt.Errorf("%w: column %d has no key", ErrInvalidColumn, i)
		}
		if !col.Type.Valid() {
			return fmt.Errorf("%w: column %q has type %q", ErrInvalidColumn, col.Key, col.Type)
		}
		if _, ok := seen[col.Key]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateColumn, col.Key)
		}
		seen[col.Key] = struct{}{}
	}
	return nil
}

// ValidateRows checks that every row has a unique, non-empty id.
func ValidateRows(rows []Row) error {
	seen := make(map[string]struct{}, len(rows))
	for _, row := range rows {
		if strings.TrimSpace(row.ID) == "" {
			return ErrMissingRowID
		}
		if _, ok := seen[row.ID]; ok {
			return fmt.Errorf("%w: %q", ErrDuplicateRowID, row.ID)
		}
		seen[row.ID] = struct{}{}
	}
	return nil
}

// Keys returns the column keys in definition order.
func Keys(cols []Column) []string {
	keys := make([]string, 0, len(cols))
	for _, col := range cols {
		keys = append(keys, col.Key)
	}
	return keys
}
