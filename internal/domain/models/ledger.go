package models

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day format used on every persisted table.
const DateLayout = "2006-01-02"

// ExpenseCategory enumerates the accepted operating expense buckets.
type ExpenseCategory string

const (
	CategoryEmployees   ExpenseCategory = "Employees"
	CategoryElectricity ExpenseCategory = "Electricity"
	CategoryWater       ExpenseCategory = "Water"
	CategoryRent        ExpenseCategory = "Rent"
	CategoryOther       ExpenseCategory = "Other"
)

// ExpenseCategories lists the categories in presentation order.
var ExpenseCategories = []ExpenseCategory{
	CategoryEmployees,
	CategoryElectricity,
	CategoryWater,
	CategoryRent,
	CategoryOther,
}

// Valid reports whether c is one of the canonical categories.
func (c ExpenseCategory) Valid() bool {
	for _, known := range ExpenseCategories {
		if c == known {
			return true
		}
	}
	return false
}

// ParseExpenseCategory matches free-form input against the known categories,
// ignoring case and surrounding whitespace.
func ParseExpenseCategory(value string) (ExpenseCategory, error) {
	normalized := strings.TrimSpace(value)
	for _, known := range ExpenseCategories {
		if strings.EqualFold(normalized, string(known)) {
			return known, nil
		}
	}
	return "", fmt.Errorf("unknown expense category %q", value)
}

// PurchaseRecord captures stock bought from a supplier.
type PurchaseRecord struct {
	Date      time.Time       `json:"date"`
	Item      string          `json:"item"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Total     decimal.Decimal `json:"total"` // Quantity * UnitPrice
}

// SaleRecord captures stock sold to a customer.
type SaleRecord struct {
	Date         time.Time       `json:"date"`
	Item         string          `json:"item"`
	Quantity     decimal.Decimal `json:"quantity"`
	SellingPrice decimal.Decimal `json:"selling_price"`
	Total        decimal.Decimal `json:"total"` // Quantity * SellingPrice
}

// ExpenseRecord captures operating expenses.
type ExpenseRecord struct {
	Date     time.Time       `json:"date"`
	Category ExpenseCategory `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// Ledger groups the three tables of a bookkeeping session.
type Ledger struct {
	Purchases []PurchaseRecord
	Sales     []SaleRecord
	Expenses  []ExpenseRecord
}

// Clone returns a ledger whose tables share no backing arrays with l.
func (l *Ledger) Clone() *Ledger {
	if l == nil {
		return &Ledger{}
	}
	return &Ledger{
		Purchases: append([]PurchaseRecord(nil), l.Purchases...),
		Sales:     append([]SaleRecord(nil), l.Sales...),
		Expenses:  append([]ExpenseRecord(nil), l.Expenses...),
	}
}

// Day truncates t to midnight UTC of its calendar day.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
