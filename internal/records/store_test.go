package records

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"invoiceparts/internal"
)

func rec(date, part, desc string) internal.Record {
	return internal.Record{Date: date, PartNumber: part, Description: desc}
}

func sampleStore() *Store {
	s := NewStore()
	s.AppendDocument("15/06/2023", []internal.LineItem{
		{PartNumber: "33333CCCCC", Description: "Hinge"},
		{PartNumber: "11111AAAAA", Description: "Bracket"},
	})
	s.AppendDocument(internal.UnknownDate, []internal.LineItem{
		{PartNumber: "22222BBBBB", Description: "Seal"},
	})
	s.AppendDocument("02/01/2022", []internal.LineItem{
		{PartNumber: "44444DDDDD", Description: "Axle"},
	})
	s.AppendDocument("31/02/2023", []internal.LineItem{
		{PartNumber: "55555EEEEE", Description: "Panel"},
	})
	return s
}

func TestAppendDocumentKeepsOrder(t *testing.T) {
	s := sampleStore()

	require.Equal(t, 5, s.Len())
	assert.Equal(t, []internal.Record{
		rec("15/06/2023", "33333CCCCC", "Hinge"),
		rec("15/06/2023", "11111AAAAA", "Bracket"),
		rec(internal.UnknownDate, "22222BBBBB", "Seal"),
		rec("02/01/2022", "44444DDDDD", "Axle"),
		rec("31/02/2023", "55555EEEEE", "Panel"),
	}, s.Records())
}

func TestAppendDocumentEmpty(t *testing.T) {
	s := NewStore()
	s.AppendDocument("01/01/2020", nil)
	assert.Equal(t, 0, s.Len())
}

func TestSortedViewDate(t *testing.T) {
	s := sampleStore()

	asc := s.SortedView(SortDate, true)
	assert.Equal(t, []string{"22222BBBBB", "55555EEEEE", "44444DDDDD", "33333CCCCC", "11111AAAAA"}, parts(asc))

	desc := s.SortedView(SortDate, false)
	assert.Equal(t, []string{"33333CCCCC", "11111AAAAA", "44444DDDDD", "22222BBBBB", "55555EEEEE"}, parts(desc))
}

func TestSortedViewStableForEqualDates(t *testing.T) {
	s := NewStore(
		rec("01/02/2023", "B", "second"),
		rec("01/01/2020", "Z", "older"),
		rec("01/02/2023", "A", "third"),
	)

	asc := s.SortedView(SortDate, true)
	assert.Equal(t, []string{"Z", "B", "A"}, parts(asc))

	desc := s.SortedView(SortDate, false)
	assert.Equal(t, []string{"B", "A", "Z"}, parts(desc))
}

func TestSortedViewDoesNotMutateStore(t *testing.T) {
	s := sampleStore()
	before := s.Records()

	_ = s.SortedView(SortPartNumber, true)
	_ = s.YearGroupedView(SortDescription, false)

	assert.Equal(t, before, s.Records())
}

func TestSortedViewKeys(t *testing.T) {
	s := sampleStore()

	assert.Equal(t, []string{"11111AAAAA", "22222BBBBB", "33333CCCCC", "44444DDDDD", "55555EEEEE"}, parts(s.SortedView(SortPartNumber, true)))
	assert.Equal(t, []string{"Axle", "Bracket", "Hinge", "Panel", "Seal"}, descriptions(s.SortedView(SortDescription, true)))
	assert.Equal(t, []string{"Seal", "Panel", "Hinge", "Bracket", "Axle"}, descriptions(s.SortedView(SortDescription, false)))

	byYear := s.SortedView(SortYear, true)
	assert.Equal(t, []string{"22222BBBBB", "55555EEEEE", "44444DDDDD", "33333CCCCC", "11111AAAAA"}, parts(byYear))
}

func TestSortedViewByMultipleKeys(t *testing.T) {
	s := sampleStore()

	got := s.SortedViewBy(SortSpec{Key: SortYear, Ascending: false}, SortSpec{Key: SortPartNumber, Ascending: true})
	assert.Equal(t, []string{"11111AAAAA", "33333CCCCC", "44444DDDDD", "22222BBBBB", "55555EEEEE"}, parts(got))
}

func TestResortReplacesContents(t *testing.T) {
	s := sampleStore()
	s.Resort(SortSpec{Key: SortPartNumber, Ascending: true})

	assert.Equal(t, []string{"11111AAAAA", "22222BBBBB", "33333CCCCC", "44444DDDDD", "55555EEEEE"}, parts(s.Records()))

	s.AppendDocument("01/01/2024", []internal.LineItem{{PartNumber: "00000ZZZZZ", Description: "Late"}})
	assert.Equal(t, "00000ZZZZZ", s.Records()[5].PartNumber)
}

func TestYearGroupedView(t *testing.T) {
	s := sampleStore()

	groups := s.YearGroupedView(SortDate, true)
	require.Len(t, groups, 3)

	assert.Equal(t, UnknownYear, groups[0].Key)
	assert.Equal(t, 0, groups[0].Year)
	assert.Equal(t, []string{"22222BBBBB", "55555EEEEE"}, parts(groups[0].Records))

	assert.Equal(t, "2022", groups[1].Key)
	assert.Equal(t, []string{"44444DDDDD"}, parts(groups[1].Records))

	assert.Equal(t, "2023", groups[2].Key)
	assert.Equal(t, []string{"33333CCCCC", "11111AAAAA"}, parts(groups[2].Records))
}

func TestYearGroupedViewWithinGroupOrder(t *testing.T) {
	s := sampleStore()

	groups := s.YearGroupedView(SortPartNumber, false)
	require.Len(t, groups, 3)
	assert.Equal(t, []string{"2023"}, []string{groups[2].Key})
	assert.Equal(t, []string{"33333CCCCC", "11111AAAAA"}, parts(groups[2].Records))
	assert.Equal(t, []string{"55555EEEEE", "22222BBBBB"}, parts(groups[0].Records))
}

func TestYearGroupedViewByMultipleKeys(t *testing.T) {
	s := NewStore(
		rec("01/01/2020", "B", "same"),
		rec("05/05/2020", "A", "same"),
		rec("03/03/2020", "C", "other"),
	)

	groups := s.YearGroupedViewBy(
		SortSpec{Key: SortDescription, Ascending: false},
		SortSpec{Key: SortPartNumber, Ascending: true},
	)
	require.Len(t, groups, 1)
	assert.Equal(t, []string{"A", "B", "C"}, parts(groups[0].Records))
}

func TestYearGroupedViewCompleteness(t *testing.T) {
	s := sampleStore()
	s.AppendDocument("15/06/2023", []internal.LineItem{{PartNumber: "33333CCCCC", Description: "Hinge"}})

	groups := s.YearGroupedView(SortDate, true)

	seen := map[string]bool{}
	counts := map[internal.Record]int{}
	for _, g := range groups {
		assert.False(t, seen[g.Key], "group %s emitted twice", g.Key)
		seen[g.Key] = true
		for _, r := range g.Records {
			assert.Equal(t, g.Key, YearKey(r))
			counts[r]++
		}
	}

	want := map[internal.Record]int{}
	for _, r := range s.Records() {
		want[r]++
	}
	assert.Equal(t, want, counts)
	assert.Len(t, Flatten(groups), s.Len())
}

func TestYearGroupedViewEmpty(t *testing.T) {
	assert.Empty(t, NewStore().YearGroupedView(SortDate, true))
}

func TestParseSortSpecs(t *testing.T) {
	specs, err := ParseSortSpecs("year, Part ,description", false)
	require.NoError(t, err)
	assert.Equal(t, []SortSpec{
		{Key: SortYear, Ascending: false},
		{Key: SortPartNumber, Ascending: false},
		{Key: SortDescription, Ascending: false},
	}, specs)

	_, err = ParseSortSpecs("price", true)
	assert.Error(t, err)

	_, err = ParseSortSpecs(" , ", true)
	assert.Error(t, err)
}

func parts(in []internal.Record) []string {
	out := make([]string, 0, len(in))
	for _, r := range in {
		out = append(out, r.PartNumber)
	}
	return out
}

func descriptions(in []internal.Record) []string {
	out := make([]string, 0, len(in))
	for _, r := range in {
		out = append(out, r.Description)
	}
	return out
}
