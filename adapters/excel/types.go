package excel

import (
	"fmt"
	"slices"
)

// Table is a header row plus string cells, as read from a sheet or CSV file
type Table struct {
	Headers []string   // Column headers
	Rows    [][]string // Data rows; short rows are padded with ""
}

// ColumnIndex returns the position of the named column
func (t *Table) ColumnIndex(name string) (int, error) {
	idx := slices.Index(t.Headers, name)
	if idx < 0 {
		return -1, fmt.Errorf("column %q not found (have %v)", name, t.Headers)
	}
	return idx, nil
}

// Column returns the cells of the named column
func (t *Table) Column(name string) ([]string, error) {
	idx, err := t.ColumnIndex(name)
	if err != nil {
		return nil, err
	}
	cells := make([]string, len(t.Rows))
	for i, row := range t.Rows {
		cells[i] = row[idx]
	}
	return cells, nil
}
