package records

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"invoiceparts/internal"
)

type SortKey string

const (
	SortDate        SortKey = "date"
	SortYear        SortKey = "year"
	SortPartNumber  SortKey = "part"
	SortDescription SortKey = "description"
)

type SortSpec struct {
	Key       SortKey
	Ascending bool
}

func ParseSortKey(value string) (SortKey, error) {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "date":
		return SortDate, nil
	case "year":
		return SortYear, nil
	case "part", "part_number", "partnumber", "part-number":
		return SortPartNumber, nil
	case "description", "desc":
		return SortDescription, nil
	default:
		return "", fmt.Errorf("unsupported sort key: %q", value)
	}
}

// ParseSortSpecs parses a comma separated key list such as "year,part".
// Every key gets the same direction.
func ParseSortSpecs(value string, ascending bool) ([]SortSpec, error) {
	var specs []SortSpec
	for _, part := range strings.Split(value, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		key, err := ParseSortKey(part)
		if err != nil {
			return nil, err
		}
		specs = append(specs, SortSpec{Key: key, Ascending: ascending})
	}
	if len(specs) == 0 {
		return nil, fmt.Errorf("no sort key in %q", value)
	}
	return specs, nil
}

// sortEntry carries the values derived from a record for one sort pass.
type sortEntry struct {
	record internal.Record
	date   time.Time
	dated  bool
	year   int
}

func newSortEntry(r internal.Record) sortEntry {
	t, ok := ParseDate(r.Date)
	e := sortEntry{record: r, date: t, dated: ok}
	if ok {
		e.year = t.Year()
	}
	return e
}

func compareEntries(key SortKey, a, b sortEntry) int {
	switch key {
	case SortDate:
		// undated entries sit at the minimum
		switch {
		case !a.dated && !b.dated:
			return 0
		case !a.dated:
			return -1
		case !b.dated:
			return 1
		}
		return a.date.Compare(b.date)
	case SortYear:
		return compareInts(a.year, b.year)
	case SortPartNumber:
		return strings.Compare(a.record.PartNumber, b.record.PartNumber)
	case SortDescription:
		return strings.Compare(a.record.Description, b.record.Description)
	}
	return 0
}

func compareInts(a, b int) int {
	switch {
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// sortRecords returns a stably sorted copy. Records equal under every sort key
// keep their input order, whatever the direction.
func sortRecords(in []internal.Record, specs []SortSpec) []internal.Record {
	entries := make([]sortEntry, len(in))
	for i, r := range in {
		entries[i] = newSortEntry(r)
	}

	sort.SliceStable(entries, func(i, j int) bool {
		for _, spec := range specs {
			c := compareEntries(spec.Key, entries[i], entries[j])
			if c == 0 {
				continue
			}
			if spec.Ascending {
				return c < 0
			}
			return c > 0
		}
		return false
	})

	out := make([]internal.Record, len(entries))
	for i, e := range entries {
		out[i] = e.record
	}
	return out
}
