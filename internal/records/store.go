package records

import "invoiceparts/internal"

// Store is the ordered record set across processed documents. It is not safe
// for concurrent use; one goroutine owns it.
type Store struct {
	records []internal.Record
}

type YearGroup struct {
	Key     string
	Year    int
	Records []internal.Record
}

func NewStore(initial ...internal.Record) *Store {
	s := &Store{records: make([]internal.Record, 0, len(initial))}
	s.records = append(s.records, initial...)
	return s
}

// AppendDocument adds one record per item, all sharing the document date.
func (s *Store) AppendDocument(date string, items []internal.LineItem) {
	for _, item := range items {
		s.records = append(s.records, internal.Record{
			Date:        date,
			PartNumber:  item.PartNumber,
			Description: item.Description,
		})
	}
}

func (s *Store) Len() int {
	return len(s.records)
}

// Records returns a copy in store order.
func (s *Store) Records() []internal.Record {
	out := make([]internal.Record, len(s.records))
	copy(out, s.records)
	return out
}

func (s *Store) SortedView(key SortKey, ascending bool) []internal.Record {
	return s.SortedViewBy(SortSpec{Key: key, Ascending: ascending})
}

// SortedViewBy sorts a snapshot by several keys, the first one dominating.
// The store itself is left untouched.
func (s *Store) SortedViewBy(specs ...SortSpec) []internal.Record {
	return sortRecords(s.records, specs)
}

// Resort replaces the store contents with the sorted order.
func (s *Store) Resort(specs ...SortSpec) {
	s.records = sortRecords(s.records, specs)
}

// YearGroupedView partitions the records by year. Groups come in ascending
// year order with the Unknown group first; inside a group records follow key
// in the requested direction.
func (s *Store) YearGroupedView(key SortKey, ascending bool) []YearGroup {
	return s.YearGroupedViewBy(SortSpec{Key: key, Ascending: ascending})
}

// YearGroupedViewBy is YearGroupedView with several keys inside each group.
func (s *Store) YearGroupedViewBy(specs ...SortSpec) []YearGroup {
	sorted := sortRecords(s.records, append([]SortSpec{{Key: SortYear, Ascending: true}}, specs...))

	var groups []YearGroup
	for _, r := range sorted {
		year := Year(r)
		if n := len(groups); n > 0 && groups[n-1].Year == year {
			groups[n-1].Records = append(groups[n-1].Records, r)
			continue
		}
		groups = append(groups, YearGroup{Key: YearKey(r), Year: year, Records: []internal.Record{r}})
	}
	return groups
}

// Flatten concatenates group records in group order.
func Flatten(groups []YearGroup) []internal.Record {
	var out []internal.Record
	for _, g := range groups {
		out = append(out, g.Records...)
	}
	return out
}
