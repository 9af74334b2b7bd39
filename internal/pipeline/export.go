package pipeline

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	"invoiceparts/internal"
	"invoiceparts/internal/records"
)

var exportHeader = []string{"Date", "Part Number", "Description"}

// WriteCSV writes the header row and one row per record in the given order.
func WriteCSV(w io.Writer, recs []internal.Record) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(exportHeader); err != nil {
		return err
	}
	for _, r := range recs {
		if err := cw.Write([]string{r.Date, r.PartNumber, r.Description}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func ExportRecordsToCSV(recs []internal.Record, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return &internal.ExportTargetError{Path: outputPath, Cause: err}
	}
	f, err := os.Create(outputPath)
	if err != nil {
		return &internal.ExportTargetError{Path: outputPath, Cause: err}
	}
	if err := WriteCSV(f, recs); err != nil {
		_ = f.Close()
		return &internal.ExportTargetError{Path: outputPath, Cause: err}
	}
	if err := f.Close(); err != nil {
		return &internal.ExportTargetError{Path: outputPath, Cause: err}
	}
	return nil
}

// ReadCSV parses a file produced by WriteCSV.
func ReadCSV(r io.Reader) ([]internal.Record, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = len(exportHeader)
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("missing header row")
	}
	if !isExportHeader(rows[0]) {
		return nil, fmt.Errorf("unexpected header: %v", rows[0])
	}

	out := make([]internal.Record, 0, len(rows)-1)
	for _, row := range rows[1:] {
		out = append(out, internal.Record{Date: row[0], PartNumber: row[1], Description: row[2]})
	}
	return out, nil
}

func ExportRecordsToXLSX(recs []internal.Record, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := writeSheet(f, f.GetSheetName(0), recs); err != nil {
		return &internal.ExportTargetError{Path: outputPath, Cause: err}
	}
	return saveWorkbook(f, outputPath)
}

// ExportGroupsToXLSX writes one sheet per year group, named after the group key.
func ExportGroupsToXLSX(groups []records.YearGroup, outputPath string) error {
	f := excelize.NewFile()
	defer f.Close()

	first := f.GetSheetName(0)
	for i, g := range groups {
		sheet := g.Key
		if i == 0 {
			if err := f.SetSheetName(first, sheet); err != nil {
				return &internal.ExportTargetError{Path: outputPath, Cause: err}
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return &internal.ExportTargetError{Path: outputPath, Cause: err}
		}
		if err := writeSheet(f, sheet, g.Records); err != nil {
			return &internal.ExportTargetError{Path: outputPath, Cause: err}
		}
	}
	if len(groups) == 0 {
		if err := writeSheet(f, first, nil); err != nil {
			return &internal.ExportTargetError{Path: outputPath, Cause: err}
		}
	}
	return saveWorkbook(f, outputPath)
}

// ReadRecordsXLSX reads every sheet written by the XLSX exporters back into
// records, sheet by sheet.
func ReadRecordsXLSX(content []byte) ([]internal.Record, error) {
	f, err := excelize.OpenReader(bytes.NewReader(content))
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var out []internal.Record
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			return nil, fmt.Errorf("sheet %s: %w", sheet, err)
		}
		for i, row := range rows {
			if i == 0 && isExportHeader(row) {
				continue
			}
			if len(row) == 0 {
				continue
			}
			out = append(out, internal.Record{
				Date:        cellAt(row, 0),
				PartNumber:  cellAt(row, 1),
				Description: cellAt(row, 2),
			})
		}
	}
	return out, nil
}

// ReadRecordsFile loads a previously exported .csv or .xlsx dataset.
func ReadRecordsFile(path string) ([]internal.Record, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		f, err := os.Open(path)
		if err != nil {
			return nil, err
		}
		defer f.Close()
		return ReadCSV(f)
	case ".xlsx":
		blob, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return ReadRecordsXLSX(blob)
	default:
		return nil, fmt.Errorf("%s: %w", path, internal.ErrUnsupportedFormat)
	}
}

// ExportRecords picks the writer from the output extension; .xlsx gets one
// sheet per year when groups is non-nil.
func ExportRecords(recs []internal.Record, groups []records.YearGroup, outputPath string) error {
	switch strings.ToLower(filepath.Ext(outputPath)) {
	case ".xlsx":
		if groups != nil {
			return ExportGroupsToXLSX(groups, outputPath)
		}
		return ExportRecordsToXLSX(recs, outputPath)
	case ".csv":
		return ExportRecordsToCSV(recs, outputPath)
	default:
		return &internal.ExportTargetError{Path: outputPath, Cause: internal.ErrUnsupportedFormat}
	}
}

func writeSheet(f *excelize.File, sheet string, recs []internal.Record) error {
	for i, h := range exportHeader {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellStr(sheet, cell, h); err != nil {
			return err
		}
	}

	for i, r := range recs {
		row := i + 2
		for col, value := range []string{r.Date, r.PartNumber, r.Description} {
			cell, _ := excelize.CoordinatesToCellName(col+1, row)
			if err := f.SetCellStr(sheet, cell, value); err != nil {
				return err
			}
		}
	}
	return nil
}

func saveWorkbook(f *excelize.File, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return &internal.ExportTargetError{Path: outputPath, Cause: err}
	}
	if err := f.SaveAs(outputPath); err != nil {
		return &internal.ExportTargetError{Path: outputPath, Cause: err}
	}
	return nil
}

func isExportHeader(row []string) bool {
	if len(row) < len(exportHeader) {
		return false
	}
	for i, h := range exportHeader {
		if strings.TrimSpace(row[i]) != h {
			return false
		}
	}
	return true
}

func cellAt(row []string, idx int) string {
	if idx < len(row) {
		return row[idx]
	}
	return ""
}
