package grouping

import (
	"strconv"

	"github.com/rpggio/gridview/internal/domain/table"
)

// buckets partitions rows by value, remembering first-seen order.
type buckets struct {
	keys   []string
	values map[string][]table.Row
}

func newBuckets() *buckets {
	return &buckets{values: make(map[string][]table.Row)}
}

func (b *buckets) add(key string, row table.Row) {
	if _, ok := b.values[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.values[key] = append(b.values[key], row)
}

func (b *buckets) get(key string) []table.Row {
	return b.values[key]
}

func bucketize(rows []table.Row, column string) *buckets {
	b := newBuckets()
	for _, row := range rows {
		b.add(BucketValue(row.Get(column)), row)
	}
	return b
}

// BucketValue returns the group value for a cell. Missing and empty values
// share the Unknown bucket. Numbers are keyed by value, so 1, 1.0 and 1e0
// fall in one bucket.
func BucketValue(v any) string {
	if _, isString := v.(string); !isString {
		if f, ok := table.Numeric(v); ok {
			return strconv.FormatFloat(f, 'f', -1, 64)
		}
	}
	s := table.Text(v)
	if s == "" {
		return UnknownValue
	}
	return s
}
