package predicate

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the format of bound date parameters.
const DateLayout = "2006-01-02"

// DateExpander turns a date condition into a predicate. Returning ok=false
// drops the condition.
type DateExpander interface {
	Expand(field, value string) (clause string, params []any, ok bool)
}

// DateExpanderFunc adapts a function to DateExpander.
type DateExpanderFunc func(field, value string) (string, []any, bool)

// Expand calls f.
func (f DateExpanderFunc) Expand(field, value string) (string, []any, bool) {
	return f(field, value)
}

var (
	lastNDays = regexp.MustCompile(`^last\s+(\d+)\s+days?$`)
	dateRange = regexp.MustCompile(`^(\d{4}-\d{2}-\d{2})\s+to\s+(\d{4}-\d{2}-\d{2})$`)
)

// RelativeDates expands calendar phrases relative to Now. Weeks start on
// Monday. A nil Now means time.Now.
//
// Recognized values: today, yesterday, this/last week, this/last month,
// this/last year, "last N days", YYYY-MM-DD and "YYYY-MM-DD to YYYY-MM-DD".
type RelativeDates struct {
	Now func() time.Time
}

// Expand implements DateExpander. Single days bind with "=", spans with
// BETWEEN.
func (r RelativeDates) Expand(field, value string) (string, []any, bool) {
	from, to, ok := r.Range(value)
	if !ok {
		return "", nil, false
	}
	if from.Equal(to) {
		return field + " = ?", []any{from.Format(DateLayout)}, true
	}
	return field + " BETWEEN ? AND ?", []any{from.Format(DateLayout), to.Format(DateLayout)}, true
}

// Range resolves value to an inclusive day range.
func (r RelativeDates) Range(value string) (time.Time, time.Time, bool) {
	now := time.Now()
	if r.Now != nil {
		now = r.Now()
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	phrase := strings.Join(strings.Fields(strings.ToLower(value)), " ")

	switch phrase {
	case "today":
		return today, today, true
	case "yesterday":
		y := today.AddDate(0, 0, -1)
		return y, y, true
	case "this week":
		start := weekStart(today)
		return start, start.AddDate(0, 0, 6), true
	case "last week":
		start := weekStart(today).AddDate(0, 0, -7)
		return start, start.AddDate(0, 0, 6), true
	case "this month":
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return first, first.AddDate(0, 1, -1), true
	case "last month":
		first := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return first.AddDate(0, -1, 0), first.AddDate(0, 0, -1), true
	case "this year":
		return yearSpan(today.Year(), today.Location())
	case "last year":
		return yearSpan(today.Year()-1, today.Location())
	}

	if m := lastNDays.FindStringSubmatch(phrase); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n <= 0 {
			return time.Time{}, time.Time{}, false
		}
		return today.AddDate(0, 0, -n), today, true
	}
	if m := dateRange.FindStringSubmatch(phrase); m != nil {
		from, err1 := time.ParseInLocation(DateLayout, m[1], today.Location())
		to, err2 := time.ParseInLocation(DateLayout, m[2], today.Location())
		if err1 != nil || err2 != nil || to.Before(from) {
			return time.Time{}, time.Time{}, false
		}
		return from, to, true
	}
	if d, err := time.ParseInLocation(DateLayout, phrase, today.Location()); err == nil {
		return d, d, true
	}
	return time.Time{}, time.Time{}, false
}

func weekStart(day time.Time) time.Time {
	offset := (int(day.Weekday()) + 6) % 7
	return day.AddDate(0, 0, -offset)
}

func yearSpan(year int, loc *time.Location) (time.Time, time.Time, bool) {
	return time.Date(year, time.January, 1, 0, 0, 0, 0, loc),
		time.Date(year, time.December, 31, 0, 0, 0, 0, loc), true
}
