package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	apierrors "github.com/xinwork/repair-order-api/internal/errors"
	"github.com/xuri/excelize/v2"
)

// Format is the tabular container of an upload
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat accepts "csv" or "xlsx"; empty defaults to csv
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx":
		return FormatXLSX, nil
	default:
		return "", apierrors.NewValidation("unsupported format %q, expected csv or xlsx", s)
	}
}

// FormatFromFilename picks the format from the file extension
func FormatFromFilename(name string) (Format, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".csv", ".txt":
		return FormatCSV, nil
	case ".xlsx":
		return FormatXLSX, nil
	default:
		return "", apierrors.NewValidation("unsupported file type %q, expected .csv or .xlsx", filepath.Ext(name))
	}
}

// Row is one non-blank data row keyed by trimmed header names
type Row struct {
	// Line is the 1-based line (csv) or row number (xlsx) in the source file
	Line   int
	Values map[string]string
}

// Get returns the trimmed value of column, or "" when absent
func (r Row) Get(column string) string {
	return r.Values[column]
}

// Table is a parsed file: its header and the rows that carry data
type Table struct {
	Header   []string
	Rows     []Row
	Encoding Encoding
}

// HasColumn reports whether the header contains column
func (t *Table) HasColumn(column string) bool {
	for _, h := range t.Header {
		if h == column {
			return true
		}
	}
	return false
}

// Parse reads raw bytes as a table. The first row is the header.
// Rows whose values are all blank after trimming are dropped.
func Parse(raw []byte, format Format) (*Table, error) {
	switch format {
	case FormatXLSX:
		return parseXLSX(raw)
	default:
		return parseCSV(raw)
	}
}

func parseCSV(raw []byte) (*Table, error) {
	text, encoding := DecodeText(raw)

	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1
	r.LazyQuotes = true

	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return &Table{Encoding: encoding}, nil
	}
	if err != nil {
		return nil, apierrors.NewValidation("invalid csv header: %v", err)
	}

	table := &Table{Header: trimHeader(header), Encoding: encoding}
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, apierrors.NewValidation("invalid csv: %v", err)
		}
		line, _ := r.FieldPos(0)
		if row, ok := buildRow(table.Header, record, line); ok {
			table.Rows = append(table.Rows, row)
		}
	}
	return table, nil
}

func parseXLSX(raw []byte) (*Table, error) {
	f, err := excelize.OpenReader(bytes.NewReader(raw))
	if err != nil {
		return nil, apierrors.NewValidation("invalid xlsx file: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return &Table{Encoding: EncodingUTF8}, nil
	}

	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apierrors.NewValidation("invalid xlsx sheet %q: %v", sheets[0], err)
	}
	if len(records) == 0 {
		return &Table{Encoding: EncodingUTF8}, nil
	}

	table := &Table{Header: trimHeader(records[0]), Encoding: EncodingUTF8}
	for i, record := range records[1:] {
		if row, ok := buildRow(table.Header, record, i+2); ok {
			table.Rows = append(table.Rows, row)
		}
	}
	return table, nil
}

func trimHeader(header []string) []string {
	out := make([]string, len(header))
	for i, h := range header {
		out[i] = strings.TrimSpace(h)
	}
	return out
}

// buildRow zips a record with the header; ok is false for all-blank rows
func buildRow(header, record []string, line int) (Row, bool) {
	values := make(map[string]string, len(header))
	hasData := false
	for i, name := range header {
		if name == "" {
			continue
		}
		var value string
		if i < len(record) {
			value = strings.TrimSpace(record[i])
		}
		if value != "" {
			hasData = true
		}
		values[name] = value
	}
	return Row{Line: line, Values: values}, hasData
}

// rowError prefixes err with the row position
func rowError(row Row, err error) string {
	return fmt.Sprintf("row %d: %v", row.Line, err)
}
