package pipeline

import (
	"regexp"

	"invoiceparts/internal"
	"invoiceparts/internal/util"
)

var (
	// part number: 5 digits, 5-9 alphanumerics, optional "-suffix"; the
	// description runs to the end of the line. The separator class matches the
	// same whitespace util.CollapseSpaces does, NBSP and \v included.
	linePattern = regexp.MustCompile(`(\d{5}[A-Za-z\d]{5,9}(?:-[A-Za-z\d]+)?)[\s\v\p{Z}\x1c-\x1f\x85]+([^\n]+)`)
	datePattern = regexp.MustCompile(`\d{2}/\d{2}/\d{4}`)
)

// ExtractInfo scans document text for its date and part-number lines.
// Every item shares the single document date.
func ExtractInfo(text string) internal.ExtractedDocument {
	doc := internal.ExtractedDocument{
		Date:  ExtractDate(text),
		Items: []internal.LineItem{},
	}

	for _, m := range linePattern.FindAllStringSubmatch(text, -1) {
		description := util.CleanDescription(m[2])
		if !IsValidEntry(description) {
			continue
		}
		doc.Items = append(doc.Items, internal.LineItem{PartNumber: m[1], Description: description})
	}
	return doc
}

// ExtractDate returns the first DD/MM/YYYY token in text. The token is not
// checked against the calendar.
func ExtractDate(text string) string {
	if date := datePattern.FindString(text); date != "" {
		return date
	}
	return internal.UnknownDate
}
