// Package repository selects the ledger store backend from configuration.
package repository

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/config"
	"github.com/mamadbah2/stockbook/internal/repository/csvstore"
	"github.com/mamadbah2/stockbook/internal/repository/sheets"
	"github.com/mamadbah2/stockbook/internal/service/ledger"
)

// NewStore builds the backend named by cfg.Store.Backend.
func NewStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (ledger.Store, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	switch cfg.Store.Backend {
	case config.BackendCSV:
		logger.Info("using csv ledger store", zap.String("dir", cfg.Store.DataDir))
		return csvstore.New(cfg.Store.DataDir, logger.Named("repo.csv")), nil
	case config.BackendSheets:
		repo, err := sheets.NewGoogleSheetRepository(ctx, cfg.Sheets, logger.Named("repo.sheets"))
		if err != nil {
			return nil, err
		}
		logger.Info("using google sheets ledger store", zap.String("spreadsheet_id", cfg.Sheets.SpreadsheetID))
		return sheets.NewStore(repo, logger.Named("repo.sheets")), nil
	default:
		return nil, fmt.Errorf("unsupported store backend %q", cfg.Store.Backend)
	}
}
