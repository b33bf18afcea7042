package ledger

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/domain/models"
)

// Store defines the durable load/save contract of the three ledger tables.
type Store interface {
	Load(ctx context.Context, kind models.Kind) (models.Table, error)
	LoadLedger(ctx context.Context) (*models.Ledger, error)
	Save(ctx context.Context, ledger *models.Ledger) error
}

// Session owns the in-memory tables for the lifetime of a process and
// couples every accepted append with a commit of all three tables.
type Session struct {
	store  Store
	logger *zap.Logger
	now    func() time.Time

	mu     sync.Mutex
	ledger *models.Ledger
}

// NewSession loads the ledger once from the store.
func NewSession(ctx context.Context, store Store, logger *zap.Logger) (*Session, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	loaded, err := store.LoadLedger(ctx)
	if err != nil {
		return nil, fmt.Errorf("load ledger: %w", err)
	}

	logger.Info("ledger loaded",
		zap.Int("purchases", len(loaded.Purchases)),
		zap.Int("sales", len(loaded.Sales)),
		zap.Int("expenses", len(loaded.Expenses)))

	return &Session{store: store, logger: logger, now: time.Now, ledger: loaded}, nil
}

// RecordPurchase validates, appends and commits a purchase.
func (s *Session) RecordPurchase(ctx context.Context, in PurchaseInput) (models.PurchaseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.Date.IsZero() {
		in.Date = s.now()
	}

	next, err := AppendPurchase(s.ledger.Purchases, in)
	if err != nil {
		s.logger.Debug("purchase rejected", zap.Error(err))
		return models.PurchaseRecord{}, err
	}

	candidate := s.ledger.Clone()
	candidate.Purchases = next
	if err := s.commit(ctx, "purchase", candidate); err != nil {
		return models.PurchaseRecord{}, err
	}

	record := next[len(next)-1]
	s.logger.Info("purchase recorded", zap.String("item", record.Item), zap.String("total", record.Total.String()))
	return record, nil
}

// RecordSale validates, appends and commits a sale.
func (s *Session) RecordSale(ctx context.Context, in SaleInput) (models.SaleRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.Date.IsZero() {
		in.Date = s.now()
	}

	next, err := AppendSale(s.ledger.Sales, in)
	if err != nil {
		s.logger.Debug("sale rejected", zap.Error(err))
		return models.SaleRecord{}, err
	}

	candidate := s.ledger.Clone()
	candidate.Sales = next
	if err := s.commit(ctx, "sale", candidate); err != nil {
		return models.SaleRecord{}, err
	}

	record := next[len(next)-1]
	s.logger.Info("sale recorded", zap.String("item", record.Item), zap.String("total", record.Total.String()))
	return record, nil
}

// RecordExpense validates, appends and commits an expense.
func (s *Session) RecordExpense(ctx context.Context, in ExpenseInput) (models.ExpenseRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if in.Date.IsZero() {
		in.Date = s.now()
	}

	next, err := AppendExpense(s.ledger.Expenses, in)
	if err != nil {
		s.logger.Debug("expense rejected", zap.Error(err))
		return models.ExpenseRecord{}, err
	}

	candidate := s.ledger.Clone()
	candidate.Expenses = next
	if err := s.commit(ctx, "expense", candidate); err != nil {
		return models.ExpenseRecord{}, err
	}

	record := next[len(next)-1]
	s.logger.Info("expense recorded", zap.String("category", string(record.Category)), zap.String("amount", record.Amount.String()))
	return record, nil
}

// Snapshot returns a copy of the current tables that callers may read freely.
func (s *Session) Snapshot() *models.Ledger {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Clone()
}

// Table returns the tabular form of one table, as persisted.
func (s *Session) Table(kind models.Kind) models.Table {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Table(kind)
}

// commit persists candidate and adopts it only when the store accepted it.
// The save is detached from ctx cancellation: once started it writes every
// table, so a caller going away cannot leave some tables updated and the
// session rolled back.
func (s *Session) commit(ctx context.Context, op string, candidate *models.Ledger) error {
	if err := s.store.Save(context.WithoutCancel(ctx), candidate); err != nil {
		s.logger.Error("ledger commit failed", zap.String("op", op), zap.Error(err))
		return &PersistenceError{Op: op, Err: err}
	}
	s.ledger = candidate
	return nil
}
