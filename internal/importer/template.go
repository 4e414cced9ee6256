package importer

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

const templateSheet = "Sheet1"

// WriteTemplate writes a header-only import template
func WriteTemplate(w io.Writer, format Format, columns []string) error {
	switch format {
	case FormatXLSX:
		return writeXLSXTemplate(w, columns)
	default:
		return writeCSVTemplate(w, columns)
	}
}

// ContentType returns the MIME type of a template in format
func ContentType(format Format) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

func writeCSVTemplate(w io.Writer, columns []string) error {
	// spreadsheet apps need the BOM to detect UTF-8
	if _, err := w.Write(utf8BOM); err != nil {
		return err
	}
	cw := csv.NewWriter(w)
	if err := cw.Write(columns); err != nil {
		return err
	}
	cw.Flush()
	return cw.Error()
}

func writeXLSXTemplate(w io.Writer, columns []string) error {
	f := excelize.NewFile()
	defer f.Close()

	header := make([]interface{}, len(columns))
	for i, c := range columns {
		header[i] = c
	}
	if err := f.SetSheetRow(templateSheet, "A1", &header); err != nil {
		return fmt.Errorf("failed to write template header: %w", err)
	}

	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	last, err := excelize.CoordinatesToCellName(len(columns), 1)
	if err != nil {
		return err
	}
	if err := f.SetCellStyle(templateSheet, "A1", last, style); err != nil {
		return fmt.Errorf("failed to style template header: %w", err)
	}

	_, err = f.WriteTo(w)
	return err
}
