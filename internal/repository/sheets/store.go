package sheets

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/repository/csvstore"
)

// Store implements ledger.Store with one spreadsheet tab per table kind.
type Store struct {
	repo   Repository
	logger *zap.Logger
}

// NewStore wraps a range repository as a ledger store.
func NewStore(repo Repository, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{repo: repo, logger: logger}
}

// dataRange returns e.g. "Purchases!A:E" for a five column table.
func dataRange(kind models.Kind) string {
	last := rune('A' + len(kind.Columns()) - 1)
	return fmt.Sprintf("%s!A:%c", kind, last)
}

// Load reads one tab. A missing or empty tab is an absent source.
func (s *Store) Load(ctx context.Context, kind models.Kind) (models.Table, error) {
	rows, err := s.repo.ReadRange(ctx, dataRange(kind))
	if errors.Is(err, ErrSheetNotFound) {
		s.logger.Debug("sheet tab missing, starting empty", zap.String("kind", string(kind)))
		return models.EmptyTable(kind), nil
	}
	if err != nil {
		return models.Table{}, fmt.Errorf("load %s: %w", kind, err)
	}

	if len(rows) == 0 {
		s.logger.Debug("sheet tab empty, starting empty", zap.String("kind", string(kind)))
		return models.EmptyTable(kind), nil
	}

	header := cellsToStrings(rows[0])
	if !kind.HasSchema(header) {
		return models.Table{}, &csvstore.CorruptSourceError{
			Kind:   kind,
			Source: dataRange(kind),
			Err:    fmt.Errorf("header %v does not match %v", header, kind.Columns()),
		}
	}

	table := models.EmptyTable(kind)
	for _, row := range rows[1:] {
		table.Rows = append(table.Rows, cellsToStrings(row))
	}
	return table, nil
}

// LoadLedger loads and decodes all three tabs.
func (s *Store) LoadLedger(ctx context.Context) (*models.Ledger, error) {
	ledger := &models.Ledger{}
	for _, kind := range models.Kinds {
		table, err := s.Load(ctx, kind)
		if err != nil {
			return nil, err
		}
		if err := ledger.SetTable(table); err != nil {
			return nil, &csvstore.CorruptSourceError{Kind: kind, Source: dataRange(kind), Err: err}
		}
	}
	return ledger, nil
}

// Save clears each tab and rewrites header and rows. Missing tabs are created.
func (s *Store) Save(ctx context.Context, ledger *models.Ledger) error {
	for _, kind := range models.Kinds {
		table := ledger.Table(kind)
		sheetRange := dataRange(kind)

		err := s.repo.ClearRange(ctx, sheetRange)
		if errors.Is(err, ErrSheetNotFound) {
			err = s.repo.AddSheet(ctx, string(kind))
		}
		if err != nil {
			return err
		}

		values := make([][]interface{}, 0, len(table.Rows)+1)
		values = append(values, stringsToCells(table.Columns))
		for _, row := range table.Rows {
			values = append(values, stringsToCells(row))
		}

		if err := s.repo.WriteRows(ctx, sheetRange, values); err != nil {
			return err
		}
	}
	return nil
}

func cellsToStrings(row []interface{}) []string {
	out := make([]string, len(row))
	for i, cell := range row {
		switch v := cell.(type) {
		case string:
			out[i] = v
		case float64:
			out[i] = strconv.FormatFloat(v, 'f', -1, 64)
		default:
			out[i] = fmt.Sprint(v)
		}
	}
	return out
}

func stringsToCells(row []string) []interface{} {
	out := make([]interface{}, len(row))
	for i, cell := range row {
		out[i] = cell
	}
	return out
}
