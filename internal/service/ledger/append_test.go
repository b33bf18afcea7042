package ledger

import (
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/stockbook/internal/domain/models"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func day(s string) time.Time {
	d, err := time.Parse(models.DateLayout, s)
	if err != nil {
		panic(err)
	}
	return d
}

func TestAppendPurchaseComputesTotalAndKeepsOrder(t *testing.T) {
	existing := []models.PurchaseRecord{
		{Date: day("2024-01-01"), Item: "Bolt", Quantity: dec("3"), UnitPrice: dec("0.5"), Total: dec("1.5")},
	}

	next, err := AppendPurchase(existing, PurchaseInput{Date: day("2024-01-02"), Item: " Widget ", Quantity: dec("2.5"), UnitPrice: dec("1.20")})
	if err != nil {
		t.Fatalf("AppendPurchase() unexpected error: %v", err)
	}

	if len(next) != 2 {
		t.Fatalf("len = %d, want 2", len(next))
	}
	if next[0] != existing[0] {
		t.Errorf("prior row changed: %+v", next[0])
	}
	got := next[1]
	if got.Item != "Widget" {
		t.Errorf("Item = %q, want trimmed Widget", got.Item)
	}
	if !got.Total.Equal(dec("3")) {
		t.Errorf("Total = %s, want 3", got.Total)
	}
	if !got.Date.Equal(day("2024-01-02")) {
		t.Errorf("Date = %s", got.Date)
	}
	if len(existing) != 1 {
		t.Errorf("input table changed length to %d", len(existing))
	}
}

func TestAppendPurchaseRejects(t *testing.T) {
	existing := []models.PurchaseRecord{
		{Date: day("2024-01-01"), Item: "Bolt", Quantity: dec("3"), UnitPrice: dec("0.5"), Total: dec("1.5")},
	}

	tests := []struct {
		name  string
		in    PurchaseInput
		field string
	}{
		{"empty item", PurchaseInput{Item: "", Quantity: dec("1"), UnitPrice: dec("1")}, "Item"},
		{"blank item", PurchaseInput{Item: "   ", Quantity: dec("1"), UnitPrice: dec("1")}, "Item"},
		{"zero quantity", PurchaseInput{Item: "Widget", Quantity: dec("0"), UnitPrice: dec("1")}, "Quantity"},
		{"negative quantity", PurchaseInput{Item: "Widget", Quantity: dec("-1"), UnitPrice: dec("1")}, "Quantity"},
		{"zero price", PurchaseInput{Item: "Widget", Quantity: dec("1"), UnitPrice: dec("0")}, "UnitPrice"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			next, err := AppendPurchase(existing, tt.in)
			var verr *ValidationError
			if !errors.As(err, &verr) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
			if verr.Field != tt.field {
				t.Errorf("Field = %s, want %s", verr.Field, tt.field)
			}
			if !errors.Is(err, ErrValidation) {
				t.Errorf("errors.Is(err, ErrValidation) = false")
			}
			if len(next) != 1 || next[0] != existing[0] {
				t.Errorf("table changed on rejection: %+v", next)
			}
		})
	}
}

func TestAppendSale(t *testing.T) {
	next, err := AppendSale(nil, SaleInput{Date: day("2024-01-02"), Item: "Widget", Quantity: dec("4"), SellingPrice: dec("5.00")})
	if err != nil {
		t.Fatalf("AppendSale() unexpected error: %v", err)
	}
	if len(next) != 1 || !next[0].Total.Equal(dec("20")) {
		t.Fatalf("unexpected sales table %+v", next)
	}

	_, err = AppendSale(next, SaleInput{Item: "Widget", Quantity: dec("1"), SellingPrice: dec("-2")})
	var verr *ValidationError
	if !errors.As(err, &verr) || verr.Field != "SellingPrice" {
		t.Fatalf("expected SellingPrice validation error, got %v", err)
	}
}

func TestAppendExpense(t *testing.T) {
	tests := []struct {
		name     string
		category string
		amount   string
		field    string
		want     models.ExpenseCategory
	}{
		{"rent", "Rent", "100.00", "", models.CategoryRent},
		{"case folded", "electricity", "12.5", "", models.CategoryElectricity},
		{"zero amount", "Rent", "0", "Amount", ""},
		{"negative amount", "Water", "-3", "Amount", ""},
		{"unknown category", "Snacks", "10", "Category", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			existing := []models.ExpenseRecord{{Date: day("2024-01-01"), Category: models.CategoryOther, Amount: dec("1")}}
			next, err := AppendExpense(existing, ExpenseInput{Date: day("2024-01-03"), Category: tt.category, Amount: dec(tt.amount)})

			if tt.field != "" {
				var verr *ValidationError
				if !errors.As(err, &verr) || verr.Field != tt.field {
					t.Fatalf("expected %s validation error, got %v", tt.field, err)
				}
				if len(next) != 1 {
					t.Errorf("table changed on rejection: %+v", next)
				}
				return
			}

			if err != nil {
				t.Fatalf("AppendExpense() unexpected error: %v", err)
			}
			if len(next) != 2 || next[1].Category != tt.want || !next[1].Amount.Equal(dec(tt.amount)) {
				t.Errorf("unexpected expense table %+v", next)
			}
		})
	}
}
