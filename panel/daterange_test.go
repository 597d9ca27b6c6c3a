package panel

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Wednesday, June 18 2025.
var fixedNow = time.Date(2025, time.June, 18, 15, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestParseDateRange(t *testing.T) {
	tests := []struct {
		name  string
		text  string
		start time.Time
		end   time.Time
	}{
		{"all time", "my earnings for all time", AllTimeStart, day(2025, time.June, 18)},
		{"lifetime", "lifetime earnings please", AllTimeStart, day(2025, time.June, 18)},
		{"last month", "how much did I earn last month", day(2025, time.May, 1), day(2025, time.May, 31)},
		{"last year", "earnings last year", day(2024, time.January, 1), day(2024, time.December, 31)},
		{"last week", "surveys last week", day(2025, time.June, 9), day(2025, time.June, 15)},
		{"this month", "payments this month", day(2025, time.June, 1), day(2025, time.June, 18)},
		{"this year", "income this year", day(2025, time.January, 1), day(2025, time.June, 18)},
		{"this week", "surveys this week", day(2025, time.June, 16), day(2025, time.June, 18)},
		{"last n days", "earnings in the last 10 days", day(2025, time.June, 8), day(2025, time.June, 18)},
		{"last n weeks", "activity over the last 2 weeks", day(2025, time.June, 4), day(2025, time.June, 18)},
		{"last n months", "earnings for the last 3 months", day(2025, time.March, 1), day(2025, time.June, 18)},
		{"month and year", "earnings in April 2025", day(2025, time.April, 1), day(2025, time.April, 30)},
		{"abbreviated month", "payments in feb 2024", day(2024, time.February, 1), day(2024, time.February, 29)},
		{"bare year", "show my earnings for 2024", day(2024, time.January, 1), day(2024, time.December, 31)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, ok := ParseDateRange(tt.text, fixedNow)
			require.True(t, ok)
			assert.Equal(t, tt.start, r.Start)
			assert.Equal(t, tt.end, r.End)
		})
	}
}

func TestParseDateRange_NoScope(t *testing.T) {
	_, ok := ParseDateRange("how much have I earned", fixedNow)
	assert.False(t, ok)
}

func TestParseDateRange_LastNBeatsPlainRelative(t *testing.T) {
	// "last 6 months" must not be read as "last month"
	r, ok := ParseDateRange("earnings over the last 6 months", fixedNow)
	require.True(t, ok)
	assert.Equal(t, day(2024, time.December, 1), r.Start)
	assert.Equal(t, day(2025, time.June, 18), r.End)
}

func TestDateRangeOrDefault_FallsBackToAllTime(t *testing.T) {
	r := DateRangeOrDefault("how much have I earned", fixedNow)
	assert.True(t, r.AllTime())
	assert.Equal(t, day(2025, time.June, 18), r.End)
}

func TestDateRange_AllTime(t *testing.T) {
	assert.True(t, DateRange{Start: AllTimeStart, End: fixedNow}.AllTime())
	assert.False(t, DateRange{Start: day(2024, time.January, 1), End: fixedNow}.AllTime())
}
