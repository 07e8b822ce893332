package guard

import "regexp"

var (
	singleQuoted = regexp.MustCompile(`'[^']*'`)
	doubleQuoted = regexp.MustCompile(`"[^"]*"`)
)

// StripLiterals replaces every quoted run with an empty literal of the same
// quote type. Single-quoted runs are stripped before double-quoted ones.
func StripLiterals(sql string) string {
	out := singleQuoted.ReplaceAllString(sql, "''")
	return doubleQuoted.ReplaceAllString(out, `""`)
}
