package predicate

import (
	"fmt"
	"strings"
)

// SelectStatement assembles "SELECT <columns> FROM <tables> <where>
// [LIMIT n]". Tables are listed comma-separated; join conditions belong in
// the WHERE clause. Empty columns select *. A limit of zero is omitted.
func SelectStatement(tables, columns []string, where string, limit int) (string, error) {
	if len(tables) == 0 {
		return "", fmt.Errorf("%w: no tables", ErrInvalidIdentifier)
	}
	for _, t := range tables {
		if !identifier.MatchString(t) {
			return "", fmt.Errorf("%w: table %q", ErrInvalidIdentifier, t)
		}
	}
	cols := "*"
	if len(columns) > 0 {
		for _, c := range columns {
			if !identifier.MatchString(c) {
				return "", fmt.Errorf("%w: column %q", ErrInvalidIdentifier, c)
			}
		}
		cols = strings.Join(columns, ", ")
	}
	if limit < 0 {
		return "", fmt.Errorf("limit must not be negative: %d", limit)
	}

	var sb strings.Builder
	sb.WriteString("SELECT ")
	sb.WriteString(cols)
	sb.WriteString(" FROM ")
	sb.WriteString(strings.Join(tables, ", "))
	if where != "" {
		sb.WriteString(" ")
		sb.WriteString(where)
	}
	if limit > 0 {
		fmt.Fprintf(&sb, " LIMIT %d", limit)
	}
	return sb.String(), nil
}
