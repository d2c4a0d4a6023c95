package ingest

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads the first worksheet whose header row resolves at least one
// known column. When no sheet qualifies the first non-empty sheet is used so
// the normalizer can still report every row as rejected.
func ReadXLSX(r io.Reader, name string) (*Table, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook %s: %w", name, err)
	}
	defer f.Close()

	var fallback *Table
	for _, sheet := range f.GetSheetList() {
		rows, err := f.GetRows(sheet)
		if err != nil {
			continue
		}
		t := tableFromRows(name, rows)
		if t == nil {
			continue
		}
		if recognizes(t.Header) {
			return t, nil
		}
		if fallback == nil {
			fallback = t
		}
	}
	if fallback == nil {
		return nil, fmt.Errorf("%s: %w", name, ErrNoHeader)
	}
	return fallback, nil
}

func tableFromRows(name string, rows [][]string) *Table {
	for i, row := range rows {
		if blankRow(row) {
			continue
		}
		t := &Table{Name: name, Format: FormatXLSX, Header: trimHeader(row)}
		for _, r := range rows[i+1:] {
			if !blankRow(r) {
				t.Rows = append(t.Rows, r)
			}
		}
		return t
	}
	return nil
}
