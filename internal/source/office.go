package source

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// readXLSX renders every sheet row as one line of space separated cells.
func readXLSX(content []byte) (string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return "", err
	}
	defer f.Close()

	return sheetsText(f.GetSheetList(), func(sheet string) ([][]string, error) {
		return f.GetRows(sheet)
	})
}

// sheetsText joins the rows of each sheet in order. A sheet that cannot be
// read fails the whole workbook.
func sheetsText(sheets []string, rowsOf func(sheet string) ([][]string, error)) (string, error) {
	var lines []string
	for _, sheet := range sheets {
		rows, err := rowsOf(sheet)
		if err != nil {
			return "", fmt.Errorf("sheet %q: %w", sheet, err)
		}
		for _, row := range rows {
			if line := joinCells(row); line != "" {
				lines = append(lines, line)
			}
		}
	}
	return strings.Join(lines, "\n"), nil
}

func joinCells(row []string) string {
	cells := make([]string, 0, len(row))
	for _, c := range row {
		c = strings.TrimSpace(c)
		if c != "" {
			cells = append(cells, c)
		}
	}
	return strings.Join(cells, " ")
}
