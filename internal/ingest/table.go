// Package ingest reads CSV/XLSX tracking exports and normalizes their rows
// into model.Event values.
package ingest

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Sentinel errors for source files that cannot be used at all.
var (
	ErrUnsupportedFormat = errors.New("unsupported file format")
	ErrNoHeader          = errors.New("no header row")
)

// Format tags the container a table was read from.
type Format int

const (
	FormatUnknown Format = 0
	FormatCSV     Format = 1
	FormatXLSX    Format = 2
)

func (f Format) String() string {
	switch f {
	case FormatCSV:
		return "csv"
	case FormatXLSX:
		return "xlsx"
	default:
		return "?"
	}
}

// Table is one raw source: a header and its rows as cell strings.
// Rows may be shorter or longer than Header.
type Table struct {
	Name   string
	Format Format
	Header []string
	Rows   [][]string
}

// FormatOf returns the format implied by a file name's extension.
func FormatOf(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".tsv":
		return FormatCSV
	case ".xlsx", ".xlsm":
		return FormatXLSX
	default:
		return FormatUnknown
	}
}

// ReadFile opens path and reads it as a Table according to its extension.
func ReadFile(path string) (*Table, error) {
	format := FormatOf(path)
	if format == FormatUnknown {
		return nil, fmt.Errorf("%s: %w", path, ErrUnsupportedFormat)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open source: %w", err)
	}
	defer f.Close()

	name := filepath.Base(path)
	if format == FormatXLSX {
		return ReadXLSX(f, name)
	}
	return ReadCSV(f, name)
}

// cell returns row[i] trimmed, or "" when the row is too short.
func cell(row []string, i int) string {
	if i < 0 || i >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[i])
}

func blankRow(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}
	return true
}
