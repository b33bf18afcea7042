package handlers

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/export"
	"github.com/mamadbah2/stockbook/internal/service/ledger"
	"github.com/mamadbah2/stockbook/internal/service/reporting"
)

// LedgerService is the session surface consumed over HTTP.
type LedgerService interface {
	RecordPurchase(ctx context.Context, in ledger.PurchaseInput) (models.PurchaseRecord, error)
	RecordSale(ctx context.Context, in ledger.SaleInput) (models.SaleRecord, error)
	RecordExpense(ctx context.Context, in ledger.ExpenseInput) (models.ExpenseRecord, error)
	Snapshot() *models.Ledger
	Table(kind models.Kind) models.Table
}

// LedgerHandler serves the record, report and export endpoints.
type LedgerHandler struct {
	svc    LedgerService
	logger *zap.Logger
}

// NewLedgerHandler constructs the HTTP handler adapter.
func NewLedgerHandler(svc LedgerService, logger *zap.Logger) *LedgerHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LedgerHandler{svc: svc, logger: logger}
}

type purchaseRequest struct {
	Date      string          `json:"date"`
	Item      string          `json:"item"`
	Quantity  decimal.Decimal `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

type saleRequest struct {
	Date         string          `json:"date"`
	Item         string          `json:"item"`
	Quantity     decimal.Decimal `json:"quantity"`
	SellingPrice decimal.Decimal `json:"selling_price"`
}

type expenseRequest struct {
	Date     string          `json:"date"`
	Category string          `json:"category"`
	Amount   decimal.Decimal `json:"amount"`
}

// ListPurchases returns the purchases table.
func (h *LedgerHandler) ListPurchases(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"purchases": nonNil(h.svc.Snapshot().Purchases)})
}

// ListSales returns the sales table.
func (h *LedgerHandler) ListSales(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"sales": nonNil(h.svc.Snapshot().Sales)})
}

// ListExpenses returns the expenses table.
func (h *LedgerHandler) ListExpenses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"expenses": nonNil(h.svc.Snapshot().Expenses)})
}

// CreatePurchase records a purchase.
func (h *LedgerHandler) CreatePurchase(c *gin.Context) {
	var req purchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	date, ok := h.parseDate(c, req.Date)
	if !ok {
		return
	}

	record, err := h.svc.RecordPurchase(c.Request.Context(), ledger.PurchaseInput{
		Date: date, Item: req.Item, Quantity: req.Quantity, UnitPrice: req.UnitPrice,
	})
	if err != nil {
		h.recordError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// CreateSale records a sale.
func (h *LedgerHandler) CreateSale(c *gin.Context) {
	var req saleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	date, ok := h.parseDate(c, req.Date)
	if !ok {
		return
	}

	record, err := h.svc.RecordSale(c.Request.Context(), ledger.SaleInput{
		Date: date, Item: req.Item, Quantity: req.Quantity, SellingPrice: req.SellingPrice,
	})
	if err != nil {
		h.recordError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// CreateExpense records an expense.
func (h *LedgerHandler) CreateExpense(c *gin.Context) {
	var req expenseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}
	date, ok := h.parseDate(c, req.Date)
	if !ok {
		return
	}

	record, err := h.svc.RecordExpense(c.Request.Context(), ledger.ExpenseInput{
		Date: date, Category: req.Category, Amount: req.Amount,
	})
	if err != nil {
		h.recordError(c, err)
		return
	}
	c.JSON(http.StatusCreated, record)
}

// Totals returns the four headline figures.
func (h *LedgerHandler) Totals(c *gin.Context) {
	l := h.svc.Snapshot()
	c.JSON(http.StatusOK, reporting.Totals(l.Purchases, l.Sales, l.Expenses))
}

// Stock returns the remaining quantity per item.
func (h *LedgerHandler) Stock(c *gin.Context) {
	l := h.svc.Snapshot()
	c.JSON(http.StatusOK, gin.H{"stock": reporting.StockSummary(l.Purchases, l.Sales)})
}

// Export streams one table as a csv or xlsx attachment.
func (h *LedgerHandler) Export(c *gin.Context) {
	kind, err := models.ParseKind(c.Param("kind"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}

	format := strings.ToLower(c.DefaultQuery("format", export.FormatCSV))

	var buf bytes.Buffer
	if err := export.Write(&buf, h.svc.Table(kind), format); err != nil {
		if errors.Is(err, export.ErrUnknownFormat) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		h.logger.Error("export failed", zap.String("kind", string(kind)), zap.Error(err))
		c.JSON(http.StatusInternalServerError, gin.H{"error": "export failed"})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", export.FileName(kind, format)))
	c.Data(http.StatusOK, export.ContentType(format), buf.Bytes())
}

func (h *LedgerHandler) parseDate(c *gin.Context, value string) (time.Time, bool) {
	if value == "" {
		return time.Time{}, true
	}
	date, err := models.ParseDate(value)
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "invalid date", "field": "Date", "reason": "must be YYYY-MM-DD"})
		return time.Time{}, false
	}
	return date, true
}

func (h *LedgerHandler) badRequest(c *gin.Context, err error) {
	h.logger.Warn("invalid request body", zap.Error(err))
	c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
}

func (h *LedgerHandler) recordError(c *gin.Context, err error) {
	var verr *ledger.ValidationError
	if errors.As(err, &verr) {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": verr.Error(), "field": verr.Field, "reason": verr.Reason})
		return
	}

	h.logger.Error("failed to record entry", zap.Error(err))
	c.JSON(http.StatusInternalServerError, gin.H{"error": "entry not recorded: ledger could not be saved"})
}

func nonNil[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	return rows
}
