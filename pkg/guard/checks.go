package guard

import (
	"regexp"
	"strings"
)

// Rejection reasons.
const (
	ReasonEmpty             = "Empty SQL statement"
	ReasonKeywordPrefix     = "Query contains potentially dangerous keyword: "
	ReasonMultipleStatement = "Multiple SQL statements detected. Only single statements are allowed."
	ReasonComment           = "SQL comments detected. Comments are not allowed for security."
	ReasonUnbalancedQuotes  = "Unbalanced quotes detected. Possible SQL injection attempt."
	ReasonSuspiciousPattern = "Suspicious pattern detected: possible SQL injection attempt"
)

var defaultKeywords = []string{
	"DROP", "TRUNCATE", "EXEC", "EXECUTE",
	"SCRIPT", "SHUTDOWN", "GRANT", "REVOKE",
}

var suspiciousPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)union\s+select`),
	regexp.MustCompile(`(?i);\s*drop`),
	regexp.MustCompile(`(?i);\s*delete`),
	regexp.MustCompile(`(?i);\s*update`),
	regexp.MustCompile(`(?i);\s*insert`),
	regexp.MustCompile(`1\s*=\s*1`),
	regexp.MustCompile(`(?i)'.*or.*'.*=.*'`),
}

// DangerousKeywords returns a copy of the default keyword denylist.
func DangerousKeywords() []string {
	return append([]string(nil), defaultKeywords...)
}

// CheckKeywords rejects text containing any keyword, matched as a
// case-insensitive substring. Keywords are tried in list order.
func CheckKeywords(sql string, keywords []string) (string, bool) {
	upper := strings.ToUpper(sql)
	for _, kw := range keywords {
		if strings.Contains(upper, strings.ToUpper(kw)) {
			return ReasonKeywordPrefix + kw, false
		}
	}
	return "", true
}

// CheckSingleStatement rejects text with a semicolon outside string literals
// anywhere other than as the final character.
func CheckSingleStatement(sql string) (string, bool) {
	cleaned := strings.TrimSpace(StripLiterals(sql))
	body := strings.TrimSuffix(cleaned, ";")
	if strings.Contains(body, ";") {
		return ReasonMultipleStatement, false
	}
	return "", true
}

// CheckComments rejects line and block comment markers anywhere in the text.
func CheckComments(sql string) (string, bool) {
	if strings.Contains(sql, "--") || strings.Contains(sql, "/*") {
		return ReasonComment, false
	}
	return "", true
}

// CheckQuotes rejects text with an odd number of unescaped single or double
// quotes. Backslash-escaped quotes are not counted.
func CheckQuotes(sql string) (string, bool) {
	single := strings.Count(sql, "'") - strings.Count(sql, `\'`)
	double := strings.Count(sql, `"`) - strings.Count(sql, `\"`)
	if single%2 != 0 || double%2 != 0 {
		return ReasonUnbalancedQuotes, false
	}
	return "", true
}

// CheckPatterns rejects text matching a known injection shape.
func CheckPatterns(sql string) (string, bool) {
	for _, re := range suspiciousPatterns {
		if re.MatchString(sql) {
			return ReasonSuspiciousPattern, false
		}
	}
	return "", true
}
