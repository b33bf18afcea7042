// Package export writes ledger tables as standalone files.
package export

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/repository/csvstore"
)

// Supported export formats.
const (
	FormatCSV  = "csv"
	FormatXLSX = "xlsx"
)

// ErrUnknownFormat is returned for a format other than csv or xlsx.
var ErrUnknownFormat = errors.New("unknown export format")

// ContentType returns the MIME type of the format.
func ContentType(format string) string {
	if format == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// FileName returns e.g. "sales-export.xlsx". The suffix keeps a default
// export from landing on a CSV store file.
func FileName(kind models.Kind, format string) string {
	return strings.TrimSuffix(kind.FileName(), ".csv") + "-export." + format
}

// Write encodes table into w using the named format.
func Write(w io.Writer, table models.Table, format string) error {
	switch strings.ToLower(format) {
	case "", FormatCSV:
		return CSV(w, table)
	case FormatXLSX:
		return XLSX(w, table)
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// CSV writes the table byte-for-byte as the CSV store persists it.
func CSV(w io.Writer, table models.Table) error {
	return csvstore.WriteTable(w, table)
}

// XLSX writes the table as a workbook with a single sheet named after its kind.
// Numeric columns are written as numbers, everything else as text.
func XLSX(w io.Writer, table models.Table) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := string(table.Kind)
	if err := f.SetSheetName("Sheet1", sheet); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}

	if err := setRow(f, sheet, 1, toCells(table.Columns, nil)); err != nil {
		return err
	}

	numeric := numericColumns(table.Columns)
	for i, row := range table.Rows {
		if err := setRow(f, sheet, i+2, toCells(row, numeric)); err != nil {
			return err
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func setRow(f *excelize.File, sheet string, row int, values []interface{}) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("set row %d: %w", row, err)
	}
	return nil
}

func numericColumns(columns []string) map[int]bool {
	numeric := make(map[int]bool)
	for i, name := range columns {
		switch name {
		case "Quantity", "UnitPrice", "SellingPrice", "Total", "Amount":
			numeric[i] = true
		}
	}
	return numeric
}

func toCells(row []string, numeric map[int]bool) []interface{} {
	cells := make([]interface{}, len(row))
	for i, value := range row {
		cells[i] = value
		if !numeric[i] {
			continue
		}
		if d, err := decimal.NewFromString(value); err == nil {
			cells[i] = d.InexactFloat64()
		}
	}
	return cells
}
