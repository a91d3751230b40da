package grouping

import (
	"net/url"
	"strconv"
	"strings"
)

const rootPrefix = "grp"

// NodeID derives a group id from its parent id, level, column and value.
// Ids are prefix closed: every descendant id starts with its ancestor's id
// followed by "/".
func NodeID(parentID string, level int, key, value string) string {
	prefix := parentID
	if prefix == "" {
		prefix = rootPrefix
	}
	return prefix + "/" + strconv.Itoa(level) + "/" + url.QueryEscape(key) + "=" + url.QueryEscape(value)
}

// IsDescendant reports whether id lies strictly below ancestor.
func IsDescendant(id, ancestor string) bool {
	return strings.HasPrefix(id, ancestor+"/")
}

// ParentID returns the id of the enclosing group, or "" for a top-level group.
func ParentID(id string) string {
	parts := strings.Split(id, "/")
	if len(parts) <= 3 {
		return ""
	}
	return strings.Join(parts[:len(parts)-2], "/")
}

// pathKeys returns the column keys encoded in id, outermost first.
func pathKeys(id string) []string {
	parts := strings.Split(id, "/")
	if len(parts) < 3 || parts[0] != rootPrefix {
		return nil
	}
	var keys []string
	for i := 2; i < len(parts); i += 2 {
		encoded, _, ok := strings.Cut(parts[i], "=")
		if !ok {
			return nil
		}
		key, err := url.QueryUnescape(encoded)
		if err != nil {
			return nil
		}
		keys = append(keys, key)
	}
	return keys
}
