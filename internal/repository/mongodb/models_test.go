package mongodb

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/stockbook/internal/domain/models"
)

func TestToDocument(t *testing.T) {
	snapshot := models.ReportSnapshot{
		GeneratedAt: time.Date(2024, 1, 2, 20, 0, 0, 0, time.UTC),
		Totals: models.Totals{
			TotalPurchases: decimal.RequireFromString("20.00"),
			TotalSales:     decimal.RequireFromString("20"),
			TotalExpenses:  decimal.RequireFromString("100.5"),
			NetProfit:      decimal.RequireFromString("-100.5"),
		},
		Stock:         []models.StockLine{{Item: "Widget", Remaining: decimal.RequireFromString("6")}},
		PurchaseCount: 1,
		SaleCount:     1,
		ExpenseCount:  1,
	}

	doc, err := toDocument(snapshot)
	if err != nil {
		t.Fatalf("toDocument() unexpected error: %v", err)
	}

	if got := doc.NetProfit.String(); got != "-100.5" {
		t.Errorf("NetProfit = %s, want -100.5", got)
	}
	if got := doc.TotalPurchases.String(); got != "20" {
		t.Errorf("TotalPurchases = %s, want 20", got)
	}
	if len(doc.Stock) != 1 || doc.Stock[0].Item != "Widget" || doc.Stock[0].Remaining.String() != "6" {
		t.Errorf("Stock = %+v", doc.Stock)
	}
	if doc.ExpenseCount != 1 || !doc.GeneratedAt.Equal(snapshot.GeneratedAt) {
		t.Errorf("unexpected doc %+v", doc)
	}
}
