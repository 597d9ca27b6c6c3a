package panel

import (
	"regexp"
	"strconv"
	"strings"
	"time"
)

// AllTimeStart is the conventional beginning of panel history, used when a
// query asks for lifetime totals or gives no usable time scope.
var AllTimeStart = time.Date(2000, time.January, 1, 0, 0, 0, 0, time.UTC)

// DateRange is a closed [Start, End] interval in whole days.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// AllTime reports whether the range covers the whole panel history.
func (r DateRange) AllTime() bool {
	return r.Start.Equal(AllTimeStart)
}

var (
	lastXRe    = regexp.MustCompile(`last\s+(\d+)\s+(day|days|week|weeks|month|months)`)
	bareYearRe = regexp.MustCompile(`(?:^|\s)(\d{4})(?:\s|$)`)
	monthRe    = regexp.MustCompile(`(jan(?:uary)?|feb(?:ruary)?|mar(?:ch)?|apr(?:il)?|may|jun(?:e)?|jul(?:y)?|aug(?:ust)?|sep(?:tember)?|oct(?:ober)?|nov(?:ember)?|dec(?:ember)?)\s+(\d{4})`)
)

var monthsByPrefix = map[string]time.Month{
	"jan": time.January, "feb": time.February, "mar": time.March,
	"apr": time.April, "may": time.May, "jun": time.June,
	"jul": time.July, "aug": time.August, "sep": time.September,
	"oct": time.October, "nov": time.November, "dec": time.December,
}

// ParseDateRange extracts a date range from natural-language text.
// Supported scopes: "all time"/"lifetime", "last month/year/week",
// "this month/year/week", "last N days/weeks/months", "April 2025",
// and bare years like "2024". Returns ok=false when no scope is present.
func ParseDateRange(text string, now time.Time) (DateRange, bool) {
	t := strings.ToLower(text)
	today := truncateDay(now)

	if strings.Contains(t, "all time") || strings.Contains(t, "all-time") || strings.Contains(t, "lifetime") {
		return DateRange{Start: AllTimeStart, End: today}, true
	}

	// "last N days/weeks/months" wins over the plain relative scopes so
	// "last 3 months" is not read as "last month"
	if m := lastXRe.FindStringSubmatch(t); m != nil {
		n, _ := strconv.Atoi(m[1])
		var start time.Time
		switch {
		case strings.HasPrefix(m[2], "day"):
			start = today.AddDate(0, 0, -n)
		case strings.HasPrefix(m[2], "week"):
			start = today.AddDate(0, 0, -7*n)
		default:
			start = time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, -n, 0)
		}
		return DateRange{Start: start, End: today}, true
	}

	switch {
	case strings.Contains(t, "last month"):
		firstOfThis := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		end := firstOfThis.AddDate(0, 0, -1)
		start := time.Date(end.Year(), end.Month(), 1, 0, 0, 0, 0, end.Location())
		return DateRange{Start: start, End: end}, true
	case strings.Contains(t, "last year"):
		y := today.Year() - 1
		return DateRange{
			Start: time.Date(y, time.January, 1, 0, 0, 0, 0, today.Location()),
			End:   time.Date(y, time.December, 31, 0, 0, 0, 0, today.Location()),
		}, true
	case strings.Contains(t, "last week"):
		start := startOfWeek(today).AddDate(0, 0, -7)
		return DateRange{Start: start, End: start.AddDate(0, 0, 6)}, true
	case strings.Contains(t, "this month"):
		start := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
		return DateRange{Start: start, End: today}, true
	case strings.Contains(t, "this year"):
		start := time.Date(today.Year(), time.January, 1, 0, 0, 0, 0, today.Location())
		return DateRange{Start: start, End: today}, true
	case strings.Contains(t, "this week"):
		return DateRange{Start: startOfWeek(today), End: today}, true
	}

	if m := monthRe.FindStringSubmatch(t); m != nil {
		month := monthsByPrefix[m[1][:3]]
		year, _ := strconv.Atoi(m[2])
		start := time.Date(year, month, 1, 0, 0, 0, 0, today.Location())
		return DateRange{Start: start, End: start.AddDate(0, 1, -1)}, true
	}

	if m := bareYearRe.FindStringSubmatch(t); m != nil {
		year, _ := strconv.Atoi(m[1])
		return DateRange{
			Start: time.Date(year, time.January, 1, 0, 0, 0, 0, today.Location()),
			End:   time.Date(year, time.December, 31, 0, 0, 0, 0, today.Location()),
		}, true
	}

	return DateRange{}, false
}

// DateRangeOrDefault parses a range from text, falling back to all-time
// when no time scope is present.
func DateRangeOrDefault(text string, now time.Time) DateRange {
	if r, ok := ParseDateRange(text, now); ok {
		return r
	}
	return DateRange{Start: AllTimeStart, End: truncateDay(now)}
}

// truncateDay drops the time-of-day component.
func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// startOfWeek returns the Monday of the week containing t.
func startOfWeek(t time.Time) time.Time {
	weekday := int(t.Weekday())
	if weekday == 0 {
		weekday = 7 // Sunday
	}
	return t.AddDate(0, 0, -(weekday - 1))
}
