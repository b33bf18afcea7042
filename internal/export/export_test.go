package export

import (
	"bytes"
	"errors"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/mamadbah2/stockbook/internal/domain/models"
)

func salesTable() models.Table {
	table := models.EmptyTable(models.KindSales)
	table.Rows = append(table.Rows, []string{"2024-01-02", "Widget", "4", "5.5", "22"})
	return table
}

func TestCSVMatchesPersistedLayout(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, salesTable(), "csv"); err != nil {
		t.Fatalf("Write(csv) unexpected error: %v", err)
	}
	want := "Date,Item,Quantity,SellingPrice,Total\n2024-01-02,Widget,4,5.5,22\n"
	if buf.String() != want {
		t.Errorf("csv = %q, want %q", buf.String(), want)
	}
}

func TestXLSX(t *testing.T) {
	var buf bytes.Buffer
	if err := Write(&buf, salesTable(), "XLSX"); err != nil {
		t.Fatalf("Write(xlsx) unexpected error: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer f.Close()

	rows, err := f.GetRows("Sales")
	if err != nil {
		t.Fatalf("GetRows(Sales): %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0][3] != "SellingPrice" || rows[1][1] != "Widget" || rows[1][3] != "5.5" {
		t.Errorf("unexpected rows %v", rows)
	}
}

func TestUnknownFormat(t *testing.T) {
	err := Write(&bytes.Buffer{}, salesTable(), "pdf")
	if !errors.Is(err, ErrUnknownFormat) {
		t.Fatalf("expected ErrUnknownFormat, got %v", err)
	}
}

func TestFileName(t *testing.T) {
	if got := FileName(models.KindExpenses, FormatXLSX); got != "expenses-export.xlsx" {
		t.Errorf("FileName = %s", got)
	}
}
