package main

import (
	"io"
	"strconv"

	"github.com/olekukonko/tablewriter"

	"invoiceparts/internal"
	"invoiceparts/internal/records"
)

// renderGroups prints one heading row per year followed by its records and a
// blank spacer row. Heading and spacer rows never reach the exports.
func renderGroups(w io.Writer, groups []records.YearGroup) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Date", "Part Number", "Description"})
	table.SetAutoWrapText(false)

	for i, g := range groups {
		table.Append([]string{"Year: " + g.Key, "", strconv.Itoa(len(g.Records)) + " records"})
		for _, r := range g.Records {
			table.Append([]string{r.Date, r.PartNumber, r.Description})
		}
		if i < len(groups)-1 {
			table.Append([]string{"", "", ""})
		}
	}
	table.Render()
}

func renderDocuments(w io.Writer, docs []internal.DocumentRow) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Path", "Date", "Status", "Records", "Error"})
	table.SetAutoWrapText(false)

	for _, d := range docs {
		table.Append([]string{
			strconv.Itoa(d.ID), d.Path, d.DocDate, string(d.Status), strconv.Itoa(d.RecordCount), d.Error,
		})
	}
	table.Render()
}
