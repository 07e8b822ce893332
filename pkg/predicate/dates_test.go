package predicate

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestRelativeDates_Range(t *testing.T) {
	// Wednesday.
	rd := RelativeDates{Now: func() time.Time { return time.Date(2024, 3, 13, 9, 30, 0, 0, time.UTC) }}

	tests := []struct {
		value    string
		from, to string
		ok       bool
	}{
		{"today", "2024-03-13", "2024-03-13", true},
		{" Yesterday ", "2024-03-12", "2024-03-12", true},
		{"this week", "2024-03-11", "2024-03-17", true},
		{"last week", "2024-03-04", "2024-03-10", true},
		{"this month", "2024-03-01", "2024-03-31", true},
		{"last month", "2024-02-01", "2024-02-29", true},
		{"this year", "2024-01-01", "2024-12-31", true},
		{"last year", "2023-01-01", "2023-12-31", true},
		{"last 7 days", "2024-03-06", "2024-03-13", true},
		{"last 1 day", "2024-03-12", "2024-03-13", true},
		{"2024-01-15", "2024-01-15", "2024-01-15", true},
		{"2024-01-01 to 2024-01-31", "2024-01-01", "2024-01-31", true},
		{"2024-02-01 to 2024-01-01", "", "", false},
		{"last 0 days", "", "", false},
		{"next tuesday", "", "", false},
		{"2024-13-01", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.value, func(t *testing.T) {
			from, to, ok := rd.Range(tt.value)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.Equal(t, tt.from, from.Format(DateLayout))
				assert.Equal(t, tt.to, to.Format(DateLayout))
			}
		})
	}
}

func TestRelativeDates_Expand(t *testing.T) {
	rd := RelativeDates{Now: func() time.Time { return time.Date(2024, 3, 13, 0, 0, 0, 0, time.UTC) }}

	clause, params, ok := rd.Expand("voucher_date", "this month")
	assert.True(t, ok)
	assert.Equal(t, "voucher_date BETWEEN ? AND ?", clause)
	assert.Equal(t, []any{"2024-03-01", "2024-03-31"}, params)

	clause, params, ok = rd.Expand("voucher_date", "today")
	assert.True(t, ok)
	assert.Equal(t, "voucher_date = ?", clause)
	assert.Equal(t, []any{"2024-03-13"}, params)

	_, _, ok = rd.Expand("voucher_date", "whenever")
	assert.False(t, ok)
}
