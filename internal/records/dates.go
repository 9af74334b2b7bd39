package records

import (
	"strconv"
	"time"

	"invoiceparts/internal"
)

const (
	dateLayout = "02/01/2006"

	// UnknownYear is the group key for records without a parseable date.
	UnknownYear = "Unknown"
)

// ParseDate parses a record date in DD/MM/YYYY form. Impossible calendar dates,
// year 0000 and the "Unknown Date" sentinel report false.
func ParseDate(value string) (time.Time, bool) {
	t, err := time.ParseInLocation(dateLayout, value, time.UTC)
	if err != nil || t.Year() < 1 {
		return time.Time{}, false
	}
	return t, true
}

// Year returns the calendar year of the record date, 0 when it does not parse.
// Parsed years start at 1, so 0 never names a real group.
func Year(r internal.Record) int {
	t, ok := ParseDate(r.Date)
	if !ok {
		return 0
	}
	return t.Year()
}

func YearKey(r internal.Record) string {
	year := Year(r)
	if year == 0 {
		return UnknownYear
	}
	return strconv.Itoa(year)
}
