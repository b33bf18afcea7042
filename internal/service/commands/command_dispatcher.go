package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/service/ledger"
)

// ErrInvalidArguments indicates the command payload could not be parsed.
var ErrInvalidArguments = errors.New("invalid command arguments")

// ErrUnsupportedCommand indicates we do not yet support the requested command.
var ErrUnsupportedCommand = errors.New("unsupported command")

// HelpText lists the accepted command forms.
const HelpText = `Commands:
purchase <qty> <unit price> <item>
sale <qty> <selling price> <item>
expense <amount> <Employees|Electricity|Water|Rent|Other>
report
stock`

// Recorder is the subset of the ledger session used by the dispatcher.
type Recorder interface {
	RecordPurchase(ctx context.Context, in ledger.PurchaseInput) (models.PurchaseRecord, error)
	RecordSale(ctx context.Context, in ledger.SaleInput) (models.SaleRecord, error)
	RecordExpense(ctx context.Context, in ledger.ExpenseInput) (models.ExpenseRecord, error)
	Snapshot() *models.Ledger
}

// Reporter renders report text for a ledger.
type Reporter interface {
	Summary(ledger *models.Ledger) string
	StockReport(ledger *models.Ledger) string
}

// Dispatcher executes parsed commands against the ledger.
type Dispatcher interface {
	HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error)
}

// Service implements the Dispatcher interface.
type Service struct {
	recorder  Recorder
	reporting Reporter
	logger    *zap.Logger
}

// NewService constructs a command dispatcher.
func NewService(recorder Recorder, reporting Reporter, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		recorder:  recorder,
		reporting: reporting,
		logger:    logger,
	}
}

// HandleCommand runs the command and returns the reply text. A rejected entry
// is not an error: the reply tells the sender which field to fix.
func (s *Service) HandleCommand(ctx context.Context, cmd models.Command, sender string) (string, error) {
	s.logger.Debug("dispatching command", zap.String("command", string(cmd.Type)), zap.String("sender", sender), zap.Strings("args", cmd.Args))

	switch cmd.Type {
	case models.CommandPurchase:
		in, err := buildPurchaseInput(cmd)
		if err != nil {
			return "", err
		}
		record, err := s.recorder.RecordPurchase(ctx, in)
		if err != nil {
			return rejectionReply(err)
		}
		return fmt.Sprintf("Purchase recorded for %s: %s %s @ %s (total %s).",
			record.Date.Format(models.DateLayout), record.Quantity, record.Item, record.UnitPrice.StringFixed(2), record.Total.StringFixed(2)), nil
	case models.CommandSale:
		in, err := buildSaleInput(cmd)
		if err != nil {
			return "", err
		}
		record, err := s.recorder.RecordSale(ctx, in)
		if err != nil {
			return rejectionReply(err)
		}
		return fmt.Sprintf("Sale recorded for %s: %s %s @ %s (total %s).",
			record.Date.Format(models.DateLayout), record.Quantity, record.Item, record.SellingPrice.StringFixed(2), record.Total.StringFixed(2)), nil
	case models.CommandExpense:
		in, err := buildExpenseInput(cmd)
		if err != nil {
			return "", err
		}
		record, err := s.recorder.RecordExpense(ctx, in)
		if err != nil {
			return rejectionReply(err)
		}
		return fmt.Sprintf("Expense logged: %s %s on %s.", record.Category, record.Amount.StringFixed(2), record.Date.Format(models.DateLayout)), nil
	case models.CommandReport:
		return s.reporting.Summary(s.recorder.Snapshot()), nil
	case models.CommandStock:
		return s.reporting.StockReport(s.recorder.Snapshot()), nil
	case models.CommandHelp:
		return HelpText, nil
	default:
		return "", ErrUnsupportedCommand
	}
}

// rejectionReply turns a validation failure into a reply and passes every
// other failure through.
func rejectionReply(err error) (string, error) {
	var verr *ledger.ValidationError
	if errors.As(err, &verr) {
		return fmt.Sprintf("Not recorded: %s %s.", verr.Field, verr.Reason), nil
	}
	return "", err
}

func buildPurchaseInput(cmd models.Command) (ledger.PurchaseInput, error) {
	qty, price, item, err := lineArgs(cmd.Args)
	if err != nil {
		return ledger.PurchaseInput{}, err
	}
	return ledger.PurchaseInput{Item: item, Quantity: qty, UnitPrice: price}, nil
}

func buildSaleInput(cmd models.Command) (ledger.SaleInput, error) {
	qty, price, item, err := lineArgs(cmd.Args)
	if err != nil {
		return ledger.SaleInput{}, err
	}
	return ledger.SaleInput{Item: item, Quantity: qty, SellingPrice: price}, nil
}

func buildExpenseInput(cmd models.Command) (ledger.ExpenseInput, error) {
	if len(cmd.Args) < 2 {
		return ledger.ExpenseInput{}, ErrInvalidArguments
	}

	amount, err := decimal.NewFromString(cmd.Args[0])
	if err != nil {
		return ledger.ExpenseInput{}, ErrInvalidArguments
	}

	return ledger.ExpenseInput{Category: strings.Join(cmd.Args[1:], " "), Amount: amount}, nil
}

func lineArgs(args []string) (decimal.Decimal, decimal.Decimal, string, error) {
	if len(args) < 3 {
		return decimal.Decimal{}, decimal.Decimal{}, "", ErrInvalidArguments
	}

	qty, err := decimal.NewFromString(args[0])
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, "", ErrInvalidArguments
	}

	price, err := decimal.NewFromString(args[1])
	if err != nil {
		return decimal.Decimal{}, decimal.Decimal{}, "", ErrInvalidArguments
	}

	return qty, price, strings.Join(args[2:], " "), nil
}
