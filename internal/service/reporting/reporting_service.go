package reporting

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/domain/models"
)

// Service exposes text summaries and report snapshots over a ledger.
type Service struct {
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a new reporting service instance.
func NewService(logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{logger: logger, now: time.Now}
}

// Snapshot computes the derived metrics of ledger at the current time.
func (s *Service) Snapshot(ledger *models.Ledger) models.ReportSnapshot {
	snapshot := models.ReportSnapshot{
		GeneratedAt:   s.now().UTC(),
		Totals:        Totals(ledger.Purchases, ledger.Sales, ledger.Expenses),
		Stock:         StockSummary(ledger.Purchases, ledger.Sales),
		PurchaseCount: len(ledger.Purchases),
		SaleCount:     len(ledger.Sales),
		ExpenseCount:  len(ledger.Expenses),
	}

	s.logger.Debug("report snapshot computed",
		zap.String("net_profit", snapshot.Totals.NetProfit.String()),
		zap.Int("items", len(snapshot.Stock)))

	return snapshot
}

// TotalsSummary renders the four headline figures.
func (s *Service) TotalsSummary(ledger *models.Ledger) string {
	totals := Totals(ledger.Purchases, ledger.Sales, ledger.Expenses)

	var b strings.Builder
	fmt.Fprintf(&b, "Total Purchases: %s\n", Money(totals.TotalPurchases))
	fmt.Fprintf(&b, "Total Sales: %s\n", Money(totals.TotalSales))
	fmt.Fprintf(&b, "Total Expenses: %s\n", Money(totals.TotalExpenses))
	fmt.Fprintf(&b, "Net Profit: %s", Money(totals.NetProfit))
	return b.String()
}

// StockReport renders the remaining quantity of every item.
func (s *Service) StockReport(ledger *models.Ledger) string {
	lines := StockSummary(ledger.Purchases, ledger.Sales)
	if len(lines) == 0 {
		return "Stock summary: no items recorded yet."
	}

	var b strings.Builder
	b.WriteString("Stock summary:")
	for _, line := range lines {
		fmt.Fprintf(&b, "\n- %s: %s", line.Item, line.Remaining.String())
	}
	return b.String()
}

// Summary is the full report: totals followed by stock.
func (s *Service) Summary(ledger *models.Ledger) string {
	return fmt.Sprintf("Report (%s)\n%s\n\n%s", s.now().Format(models.DateLayout), s.TotalsSummary(ledger), s.StockReport(ledger))
}
