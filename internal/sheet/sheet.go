// Package sheet reads raw tabular question sources into rows of cells.
//
// Only the first worksheet of a workbook is read. Cells are kept in column
// order; interpreting them is the job of the bank loader.
package sheet

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

// Cell is one raw cell. Text converts it to a string or reports why it can't.
type Cell interface {
	Text() (string, error)
}

// Row is an ordered sequence of raw cells.
type Row []Cell

// StringCell is a cell that already holds text.
type StringCell string

// Text returns the cell contents.
func (c StringCell) Text() (string, error) { return string(c), nil }

// ErrNoSheet is returned when a workbook has no worksheets.
var ErrNoSheet = errors.New("workbook has no worksheets")

// ErrUnsupportedFormat is returned by Open for unknown file extensions.
var ErrUnsupportedFormat = errors.New("unsupported question bank format")

// Open reads the rows of a question source, choosing the reader by file extension.
func Open(path string) ([]Row, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		return ReadXLSX(path)
	case ".csv":
		return ReadCSVFile(path)
	case ".yaml", ".yml", ".json":
		return ReadYAMLFile(path)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, ext)
	}
}

// FromStrings wraps plain string records as rows.
func FromStrings(records [][]string) []Row {
	rows := make([]Row, 0, len(records))
	for _, rec := range records {
		row := make(Row, 0, len(rec))
		for _, v := range rec {
			row = append(row, StringCell(v))
		}
		rows = append(rows, row)
	}
	return rows
}

// Strings converts rows back to plain records. It fails on the first cell
// whose conversion fails.
func Strings(rows []Row) ([][]string, error) {
	out := make([][]string, 0, len(rows))
	for i, row := range rows {
		rec := make([]string, 0, len(row))
		for j, c := range row {
			s, err := c.Text()
			if err != nil {
				return nil, fmt.Errorf("row %d column %d: %w", i+1, j+1, err)
			}
			rec = append(rec, s)
		}
		out = append(out, rec)
	}
	return out, nil
}
