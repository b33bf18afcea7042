package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Kind identifies one of the three ledger tables.
type Kind string

const (
	KindPurchases Kind = "Purchases"
	KindSales     Kind = "Sales"
	KindExpenses  Kind = "Expenses"
)

// Kinds lists every table kind in persistence order.
var Kinds = []Kind{KindPurchases, KindSales, KindExpenses}

var schemas = map[Kind][]string{
	KindPurchases: {"Date", "Item", "Quantity", "UnitPrice", "Total"},
	KindSales:     {"Date", "Item", "Quantity", "SellingPrice", "Total"},
	KindExpenses:  {"Date", "Category", "Amount"},
}

// ParseKind resolves a kind from user input such as "sales" or "Sales".
func ParseKind(value string) (Kind, error) {
	normalized := strings.TrimSpace(value)
	for _, kind := range Kinds {
		if strings.EqualFold(normalized, string(kind)) {
			return kind, nil
		}
	}
	return "", fmt.Errorf("unknown table kind %q", value)
}

// Columns returns a copy of the fixed column schema of the kind.
func (k Kind) Columns() []string {
	return append([]string(nil), schemas[k]...)
}

// FileName is the conventional file name of the kind's standalone table.
func (k Kind) FileName() string {
	return strings.ToLower(string(k)) + ".csv"
}

// Table is the tabular form of one ledger table: a header row followed by
// one row of cells per record, in insertion order.
type Table struct {
	Kind    Kind
	Columns []string
	Rows    [][]string
	// Lines optionally holds the 1-based source line each row starts on.
	// Without it rows are assumed to be one line each after the header.
	Lines []int
}

func (t Table) line(i int) int {
	if i < len(t.Lines) {
		return t.Lines[i]
	}
	return i + 2
}

// EmptyTable returns a table of the given kind with its schema and no rows.
func EmptyTable(kind Kind) Table {
	return Table{Kind: kind, Columns: kind.Columns(), Rows: [][]string{}}
}

// HasSchema reports whether header matches the kind's columns exactly.
func (k Kind) HasSchema(header []string) bool {
	want := schemas[k]
	if len(header) != len(want) {
		return false
	}
	for i := range want {
		if strings.TrimSpace(header[i]) != want[i] {
			return false
		}
	}
	return true
}

// Table encodes one of the ledger tables into its tabular form.
func (l *Ledger) Table(kind Kind) Table {
	table := EmptyTable(kind)
	switch kind {
	case KindPurchases:
		for _, r := range l.Purchases {
			table.Rows = append(table.Rows, []string{r.Date.Format(DateLayout), r.Item, r.Quantity.String(), r.UnitPrice.String(), r.Total.String()})
		}
	case KindSales:
		for _, r := range l.Sales {
			table.Rows = append(table.Rows, []string{r.Date.Format(DateLayout), r.Item, r.Quantity.String(), r.SellingPrice.String(), r.Total.String()})
		}
	case KindExpenses:
		for _, r := range l.Expenses {
			table.Rows = append(table.Rows, []string{r.Date.Format(DateLayout), string(r.Category), r.Amount.String()})
		}
	}
	return table
}

// RowError describes a row that could not be decoded into a record.
type RowError struct {
	Line int // 1-based source line, the header is line 1
	Err  error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

// SetTable decodes table rows into the matching ledger table, replacing it.
// The ledger is left untouched when any row fails to decode.
func (l *Ledger) SetTable(table Table) error {
	if !table.Kind.HasSchema(table.Columns) {
		return fmt.Errorf("%s: header %v does not match %v", table.Kind, table.Columns, schemas[table.Kind])
	}

	switch table.Kind {
	case KindPurchases:
		records := make([]PurchaseRecord, 0, len(table.Rows))
		for i, row := range table.Rows {
			record, err := decodePurchase(row)
			if err != nil {
				return &RowError{Line: table.line(i), Err: err}
			}
			records = append(records, record)
		}
		l.Purchases = records
	case KindSales:
		records := make([]SaleRecord, 0, len(table.Rows))
		for i, row := range table.Rows {
			record, err := decodeSale(row)
			if err != nil {
				return &RowError{Line: table.line(i), Err: err}
			}
			records = append(records, record)
		}
		l.Sales = records
	case KindExpenses:
		records := make([]ExpenseRecord, 0, len(table.Rows))
		for i, row := range table.Rows {
			record, err := decodeExpense(row)
			if err != nil {
				return &RowError{Line: table.line(i), Err: err}
			}
			records = append(records, record)
		}
		l.Expenses = records
	default:
		return fmt.Errorf("unknown table kind %q", table.Kind)
	}
	return nil
}

func decodePurchase(row []string) (PurchaseRecord, error) {
	if len(row) != 5 {
		return PurchaseRecord{}, fmt.Errorf("expected 5 cells, got %d", len(row))
	}
	date, err := ParseDate(row[0])
	if err != nil {
		return PurchaseRecord{}, err
	}
	values, err := parseAmounts(row[2:], []string{"Quantity", "UnitPrice", "Total"})
	if err != nil {
		return PurchaseRecord{}, err
	}
	return PurchaseRecord{Date: date, Item: row[1], Quantity: values[0], UnitPrice: values[1], Total: values[2]}, nil
}

func decodeSale(row []string) (SaleRecord, error) {
	if len(row) != 5 {
		return SaleRecord{}, fmt.Errorf("expected 5 cells, got %d", len(row))
	}
	date, err := ParseDate(row[0])
	if err != nil {
		return SaleRecord{}, err
	}
	values, err := parseAmounts(row[2:], []string{"Quantity", "SellingPrice", "Total"})
	if err != nil {
		return SaleRecord{}, err
	}
	return SaleRecord{Date: date, Item: row[1], Quantity: values[0], SellingPrice: values[1], Total: values[2]}, nil
}

func decodeExpense(row []string) (ExpenseRecord, error) {
	if len(row) != 3 {
		return ExpenseRecord{}, fmt.Errorf("expected 3 cells, got %d", len(row))
	}
	date, err := ParseDate(row[0])
	if err != nil {
		return ExpenseRecord{}, err
	}
	category := ExpenseCategory(strings.TrimSpace(row[1]))
	if !category.Valid() {
		return ExpenseRecord{}, fmt.Errorf("Category: unknown value %q", row[1])
	}
	values, err := parseAmounts(row[2:], []string{"Amount"})
	if err != nil {
		return ExpenseRecord{}, err
	}
	return ExpenseRecord{Date: date, Category: category, Amount: values[0]}, nil
}

// ParseDate reads a calendar day, ignoring any time-of-day suffix.
func ParseDate(value string) (time.Time, error) {
	str := strings.TrimSpace(value)
	if str == "" {
		return time.Time{}, fmt.Errorf("Date: empty value")
	}
	if len(str) > 10 {
		str = str[:10]
	}
	date, err := time.Parse(DateLayout, str)
	if err != nil {
		return time.Time{}, fmt.Errorf("Date: %w", err)
	}
	return date, nil
}

func parseAmounts(cells []string, names []string) ([]decimal.Decimal, error) {
	values := make([]decimal.Decimal, len(cells))
	for i, cell := range cells {
		value, err := decimal.NewFromString(strings.TrimSpace(cell))
		if err != nil {
			return nil, fmt.Errorf("%s: %w", names[i], err)
		}
		if value.IsNegative() {
			return nil, fmt.Errorf("%s: negative value %s", names[i], cell)
		}
		values[i] = value
	}
	return values, nil
}
