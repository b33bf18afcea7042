package reporting

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/mamadbah2/stockbook/internal/domain/models"
)

// Totals sums the stored Total and Amount columns. Quantities and prices are
// not re-multiplied: the stored totals are the source of truth.
func Totals(purchases []models.PurchaseRecord, sales []models.SaleRecord, expenses []models.ExpenseRecord) models.Totals {
	totals := models.Totals{
		TotalPurchases: decimal.Zero,
		TotalSales:     decimal.Zero,
		TotalExpenses:  decimal.Zero,
	}

	for _, p := range purchases {
		totals.TotalPurchases = totals.TotalPurchases.Add(p.Total)
	}
	for _, s := range sales {
		totals.TotalSales = totals.TotalSales.Add(s.Total)
	}
	for _, e := range expenses {
		totals.TotalExpenses = totals.TotalExpenses.Add(e.Amount)
	}

	totals.NetProfit = totals.TotalSales.Sub(totals.TotalPurchases).Sub(totals.TotalExpenses)
	return totals
}

// StockMap returns bought minus sold per item. Items seen on only one side
// count the other side as zero.
func StockMap(purchases []models.PurchaseRecord, sales []models.SaleRecord) map[string]decimal.Decimal {
	stock := make(map[string]decimal.Decimal)

	for _, p := range purchases {
		stock[p.Item] = stock[p.Item].Add(p.Quantity)
	}
	for _, s := range sales {
		stock[s.Item] = stock[s.Item].Sub(s.Quantity)
	}

	return stock
}

// StockSummary is StockMap as a list sorted by item name.
func StockSummary(purchases []models.PurchaseRecord, sales []models.SaleRecord) []models.StockLine {
	stock := StockMap(purchases, sales)

	lines := make([]models.StockLine, 0, len(stock))
	for item, remaining := range stock {
		lines = append(lines, models.StockLine{Item: item, Remaining: remaining})
	}
	sort.Slice(lines, func(i, j int) bool { return lines[i].Item < lines[j].Item })

	return lines
}
