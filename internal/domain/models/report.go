package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Totals holds the four headline figures of the reports view.
type Totals struct {
	TotalPurchases decimal.Decimal `json:"total_purchases"`
	TotalSales     decimal.Decimal `json:"total_sales"`
	TotalExpenses  decimal.Decimal `json:"total_expenses"`
	NetProfit      decimal.Decimal `json:"net_profit"`
}

// StockLine is the remaining quantity of one item.
type StockLine struct {
	Item      string          `json:"item"`
	Remaining decimal.Decimal `json:"remaining"`
}

// ReportSnapshot is a point-in-time copy of the derived metrics.
type ReportSnapshot struct {
	GeneratedAt   time.Time   `json:"generated_at"`
	Totals        Totals      `json:"totals"`
	Stock         []StockLine `json:"stock"`
	PurchaseCount int         `json:"purchase_count"`
	SaleCount     int         `json:"sale_count"`
	ExpenseCount  int         `json:"expense_count"`
}
