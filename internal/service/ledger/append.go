package ledger

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/stockbook/internal/domain/models"
)

// PurchaseInput is a purchase entry as typed by a user.
type PurchaseInput struct {
	Date      time.Time
	Item      string
	Quantity  decimal.Decimal
	UnitPrice decimal.Decimal
}

// SaleInput is a sale entry as typed by a user.
type SaleInput struct {
	Date         time.Time
	Item         string
	Quantity     decimal.Decimal
	SellingPrice decimal.Decimal
}

// ExpenseInput is an expense entry as typed by a user. Category is matched
// case-insensitively against models.ExpenseCategories.
type ExpenseInput struct {
	Date     time.Time
	Category string
	Amount   decimal.Decimal
}

// AppendPurchase validates in and returns a new table with the purchase
// appended. The input table is never modified.
func AppendPurchase(table []models.PurchaseRecord, in PurchaseInput) ([]models.PurchaseRecord, error) {
	item := strings.TrimSpace(in.Item)
	if err := validateLine(item, in.Quantity, "UnitPrice", in.UnitPrice); err != nil {
		return table, err
	}

	record := models.PurchaseRecord{
		Date:      models.Day(in.Date),
		Item:      item,
		Quantity:  in.Quantity,
		UnitPrice: in.UnitPrice,
		Total:     in.Quantity.Mul(in.UnitPrice),
	}

	next := make([]models.PurchaseRecord, len(table), len(table)+1)
	copy(next, table)
	return append(next, record), nil
}

// AppendSale validates in and returns a new table with the sale appended.
func AppendSale(table []models.SaleRecord, in SaleInput) ([]models.SaleRecord, error) {
	item := strings.TrimSpace(in.Item)
	if err := validateLine(item, in.Quantity, "SellingPrice", in.SellingPrice); err != nil {
		return table, err
	}

	record := models.SaleRecord{
		Date:         models.Day(in.Date),
		Item:         item,
		Quantity:     in.Quantity,
		SellingPrice: in.SellingPrice,
		Total:        in.Quantity.Mul(in.SellingPrice),
	}

	next := make([]models.SaleRecord, len(table), len(table)+1)
	copy(next, table)
	return append(next, record), nil
}

// AppendExpense validates in and returns a new table with the expense appended.
func AppendExpense(table []models.ExpenseRecord, in ExpenseInput) ([]models.ExpenseRecord, error) {
	category, err := models.ParseExpenseCategory(in.Category)
	if err != nil {
		return table, &ValidationError{Field: "Category", Reason: "must be one of Employees, Electricity, Water, Rent, Other"}
	}
	if !in.Amount.IsPositive() {
		return table, &ValidationError{Field: "Amount", Reason: "must be greater than zero"}
	}

	record := models.ExpenseRecord{
		Date:     models.Day(in.Date),
		Category: category,
		Amount:   in.Amount,
	}

	next := make([]models.ExpenseRecord, len(table), len(table)+1)
	copy(next, table)
	return append(next, record), nil
}

func validateLine(item string, quantity decimal.Decimal, priceField string, price decimal.Decimal) error {
	switch {
	case item == "":
		return &ValidationError{Field: "Item", Reason: "must not be empty"}
	case !quantity.IsPositive():
		return &ValidationError{Field: "Quantity", Reason: "must be greater than zero"}
	case !price.IsPositive():
		return &ValidationError{Field: priceField, Reason: "must be greater than zero"}
	}
	return nil
}
