// Package cmd provides the stockbook CLI commands.
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/config"
	"github.com/mamadbah2/stockbook/internal/repository"
	"github.com/mamadbah2/stockbook/internal/service/ledger"
	"github.com/mamadbah2/stockbook/pkg/logger"
)

type rootOptions struct {
	envFile string
	debug   bool
}

// NewRootCmd builds the command tree. Each call returns an independent tree.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	root := &cobra.Command{
		Use:   "stockbook",
		Short: "Record purchases, sales and expenses and report on them",
		Long: `stockbook keeps an inventory ledger of purchases, sales and expenses
in flat tables and derives totals, net profit and remaining stock.

Example:
  stockbook purchase --item Widget --qty 10 --price 2.00
  stockbook sale --item Widget --qty 4 --price 5
  stockbook expense --category Rent --amount 100
  stockbook report
  stockbook export sales --format xlsx --out sales.xlsx`,
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&opts.envFile, "env", "", "env file (default is .env)")
	root.PersistentFlags().BoolVar(&opts.debug, "debug", false, "enable debug logging")

	root.AddCommand(
		newPurchaseCmd(opts),
		newSaleCmd(opts),
		newExpenseCmd(opts),
		newReportCmd(opts),
		newStockCmd(opts),
		newListCmd(opts),
		newExportCmd(opts),
	)

	return root
}

// Execute runs the CLI against os.Args.
func Execute() error {
	return NewRootCmd().Execute()
}

type environment struct {
	cfg     *config.Config
	logger  *zap.Logger
	session *ledger.Session
}

// open loads configuration and the ledger session for one command run.
func (o *rootOptions) open(ctx context.Context) (*environment, error) {
	cfg, err := config.Load(o.envFile)
	if err != nil {
		return nil, fmt.Errorf("load configuration: %w", err)
	}

	level := "warn"
	if o.debug {
		level = "debug"
	}
	log, err := logger.NewConsole(level)
	if err != nil {
		return nil, err
	}

	store, err := repository.NewStore(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	session, err := ledger.NewSession(ctx, store, log.Named("svc.ledger"))
	if err != nil {
		return nil, err
	}

	return &environment{cfg: cfg, logger: log, session: session}, nil
}

func (e *environment) close() {
	_ = e.logger.Sync()
}

func stderrf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format, args...)
}
