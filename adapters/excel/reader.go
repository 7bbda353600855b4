// Package excel loads response and label columns from XLSX or CSV files.
package excel

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"

	"gostrata/internal"
	"gostrata/internal/errors"
)

// DefaultSheet is read when no sheet is configured
const DefaultSheet = "Sheet1"

// DataReader handles reading Excel and CSV files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	sheet    string
	logger   *internal.Logger
}

// ReaderOption configures a DataReader
type ReaderOption func(*DataReader)

// WithSheet selects the worksheet of an XLSX file
func WithSheet(sheet string) ReaderOption {
	return func(r *DataReader) {
		r.sheet = sheet
	}
}

// WithLogger sets the reader logger
func WithLogger(logger *internal.Logger) ReaderOption {
	return func(r *DataReader) {
		r.logger = logger
	}
}

// NewDataReader creates a data reader; the file type follows the extension
func NewDataReader(filePath string, opts ...ReaderOption) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	r := &DataReader{filePath: filePath, fileType: fileType, sheet: DefaultSheet}
	for _, opt := range opts {
		opt(r)
	}
	if r.logger == nil {
		r.logger = internal.NewDiscardLogger()
	}
	return r
}

// ReadTable reads the whole file
func (r *DataReader) ReadTable() (*Table, error) {
	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.NotFound(fmt.Sprintf("%s file %s", strings.ToUpper(r.fileType), r.filePath))
	}

	var (
		rows [][]string
		err  error
	)
	readStart := time.Now()
	switch r.fileType {
	case "csv":
		rows, err = r.readCSVRows()
	default:
		rows, err = r.readExcelRows()
	}
	if err != nil {
		return nil, err
	}
	r.logger.Debug("%s file %s read in %s (%d rows)", r.fileType, r.filePath, time.Since(readStart), len(rows))

	if len(rows) < 2 {
		return nil, errors.InvalidInput(fmt.Sprintf("%s must have a header row and at least one data row", r.filePath))
	}
	return processRows(rows), nil
}

func (r *DataReader) readExcelRows() ([][]string, error) {
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("open Excel file: %w", err))
	}
	defer f.Close()

	rows, err := f.GetRows(r.sheet)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("read sheet %s: %w", r.sheet, err))
	}
	return rows, nil
}

func (r *DataReader) readCSVRows() ([][]string, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("open CSV file: %w", err))
	}
	defer file.Close()

	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	rows, err := reader.ReadAll()
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("read CSV file: %w", err))
	}
	return rows, nil
}

// processRows trims cells and pads every data row to the header width.
// Trailing blank rows (excelize drops them, CSV may not) are removed.
func processRows(rows [][]string) *Table {
	headers := make([]string, len(rows[0]))
	for i, header := range rows[0] {
		headers[i] = strings.TrimSpace(header)
	}

	data := make([][]string, 0, len(rows)-1)
	for _, row := range rows[1:] {
		cells := make([]string, len(headers))
		blank := true
		for j := range headers {
			if j < len(row) {
				cells[j] = strings.TrimSpace(row[j])
			}
			if cells[j] != "" {
				blank = false
			}
		}
		if !blank {
			data = append(data, cells)
		}
	}

	return &Table{Headers: headers, Rows: data}
}

// Floats parses the named column as real numbers
func (t *Table) Floats(name string) ([]float64, error) {
	cells, err := t.Column(name)
	if err != nil {
		return nil, errors.WithCode(errors.CodeInvalidInput, err)
	}
	values := make([]float64, len(cells))
	for i, cell := range cells {
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			// +2: one for the header, one for 1-based rows
			return nil, errors.InvalidInput(fmt.Sprintf("column %q row %d: %q is not a finite number", name, i+2, cell))
		}
		values[i] = v
	}
	return values, nil
}

// Labels parses the named column as integer codes. A column that is not
// entirely integers is treated as categorical: distinct strings are coded
// 0..k-1 in ascending order. The returned names map each code back to its
// cell text; it is nil for integer columns.
func (t *Table) Labels(name string) ([]int, []string, error) {
	cells, err := t.Column(name)
	if err != nil {
		return nil, nil, errors.WithCode(errors.CodeInvalidInput, err)
	}

	codes := make([]int, len(cells))
	integers := true
	for i, cell := range cells {
		v, err := strconv.Atoi(cell)
		if err != nil {
			integers = false
			break
		}
		codes[i] = v
	}
	if integers {
		return codes, nil, nil
	}

	names := slices.Clone(cells)
	slices.Sort(names)
	names = slices.Compact(names)
	for i, cell := range cells {
		codes[i], _ = slices.BinarySearch(names, cell)
	}
	return codes, names, nil
}
