package dialect

import (
	"strings"
)

// DefaultNormalizeType lowercases a native type and strips any length or
// precision suffix, e.g. "VARCHAR(255)" becomes "varchar".
func DefaultNormalizeType(sqlType string) string {
	t := strings.ToLower(strings.TrimSpace(sqlType))
	if i := strings.IndexByte(t, '('); i >= 0 {
		t = strings.TrimSpace(t[:i])
	}
	return t
}

// DefaultGetSchemaName is a default implementation for Getting Schema Name (identity).
func DefaultGetSchemaName(input string) string {
	return input
}

// lookupType resolves a normalized native type through a dialect table.
func lookupType(table map[string]string, sqlType string) string {
	if st, ok := table[DefaultNormalizeType(sqlType)]; ok {
		return st
	}
	return "unknown"
}
