package main

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"invoiceparts/internal"
	"invoiceparts/internal/records"
)

func TestRenderGroups(t *testing.T) {
	store := records.NewStore(
		internal.Record{Date: "01/02/2023", PartNumber: "12345ABCDE", Description: "Bolt"},
		internal.Record{Date: internal.UnknownDate, PartNumber: "67890FGHIJ", Description: "Nut"},
	)

	var buf bytes.Buffer
	renderGroups(&buf, store.YearGroupedView(records.SortDate, true))
	out := buf.String()

	unknown := strings.Index(out, "Year: Unknown")
	year := strings.Index(out, "Year: 2023")
	assert.True(t, unknown >= 0 && year > unknown, out)
	assert.Contains(t, out, "12345ABCDE")
	assert.Contains(t, out, "67890FGHIJ")
}

func TestRenderDocuments(t *testing.T) {
	var buf bytes.Buffer
	renderDocuments(&buf, []internal.DocumentRow{
		{ID: 1, Path: "in/a.pdf", DocDate: "01/02/2023", Status: internal.DocumentProcessed, RecordCount: 2},
	})
	assert.Contains(t, buf.String(), "in/a.pdf")
	assert.Contains(t, buf.String(), "processed")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"a.pdf", "dir"}, splitList(" a.pdf, ,dir "))
	assert.Empty(t, splitList(""))
}
