package cmd

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/service/ledger"
)

type lineFlags struct {
	date  string
	item  string
	qty   string
	price string
}

func (f *lineFlags) register(cmd *cobra.Command, priceHelp string) {
	cmd.Flags().StringVar(&f.date, "date", "", "entry date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&f.item, "item", "", "item name")
	cmd.Flags().StringVar(&f.qty, "qty", "", "quantity")
	cmd.Flags().StringVar(&f.price, "price", "", priceHelp)
}

func (f *lineFlags) parse() (time.Time, decimal.Decimal, decimal.Decimal, error) {
	date, err := parseDateFlag(f.date)
	if err != nil {
		return time.Time{}, decimal.Decimal{}, decimal.Decimal{}, err
	}
	qty, err := parseDecimalFlag("qty", f.qty)
	if err != nil {
		return time.Time{}, decimal.Decimal{}, decimal.Decimal{}, err
	}
	price, err := parseDecimalFlag("price", f.price)
	if err != nil {
		return time.Time{}, decimal.Decimal{}, decimal.Decimal{}, err
	}
	return date, qty, price, nil
}

func newPurchaseCmd(opts *rootOptions) *cobra.Command {
	flags := &lineFlags{}
	cmd := &cobra.Command{
		Use:   "purchase",
		Short: "Record a purchase",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, qty, price, err := flags.parse()
			if err != nil {
				return err
			}

			env, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			record, err := env.session.RecordPurchase(cmd.Context(), ledger.PurchaseInput{Date: date, Item: flags.item, Quantity: qty, UnitPrice: price})
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Purchase recorded: %s %s x %s = %s\n",
				record.Date.Format(models.DateLayout), record.Item, record.Quantity, record.Total.StringFixed(2))
			return nil
		},
	}
	flags.register(cmd, "unit price")
	return cmd
}

func newSaleCmd(opts *rootOptions) *cobra.Command {
	flags := &lineFlags{}
	cmd := &cobra.Command{
		Use:   "sale",
		Short: "Record a sale",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			date, qty, price, err := flags.parse()
			if err != nil {
				return err
			}

			env, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			record, err := env.session.RecordSale(cmd.Context(), ledger.SaleInput{Date: date, Item: flags.item, Quantity: qty, SellingPrice: price})
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Sale recorded: %s %s x %s = %s\n",
				record.Date.Format(models.DateLayout), record.Item, record.Quantity, record.Total.StringFixed(2))
			return nil
		},
	}
	flags.register(cmd, "selling price")
	return cmd
}

func newExpenseCmd(opts *rootOptions) *cobra.Command {
	var date, category, amount string
	cmd := &cobra.Command{
		Use:   "expense",
		Short: "Record an expense",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := parseDateFlag(date)
			if err != nil {
				return err
			}
			value, err := parseDecimalFlag("amount", amount)
			if err != nil {
				return err
			}

			env, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			record, err := env.session.RecordExpense(cmd.Context(), ledger.ExpenseInput{Date: day, Category: category, Amount: value})
			if err != nil {
				return describe(err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Expense recorded: %s %s %s\n",
				record.Date.Format(models.DateLayout), record.Category, record.Amount.StringFixed(2))
			return nil
		},
	}
	cmd.Flags().StringVar(&date, "date", "", "entry date YYYY-MM-DD (default today)")
	cmd.Flags().StringVar(&category, "category", "", "Employees, Electricity, Water, Rent or Other")
	cmd.Flags().StringVar(&amount, "amount", "", "amount spent")
	return cmd
}

func parseDateFlag(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, nil
	}
	date, err := models.ParseDate(value)
	if err != nil {
		return time.Time{}, fmt.Errorf("--date: %w", err)
	}
	return date, nil
}

// parseDecimalFlag treats a missing value as zero so the ledger reports the
// field by name rather than the flag parser.
func parseDecimalFlag(name, value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, nil
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Decimal{}, fmt.Errorf("--%s: %q is not a number", name, value)
	}
	return d, nil
}

func describe(err error) error {
	var verr *ledger.ValidationError
	if errors.As(err, &verr) {
		return fmt.Errorf("not recorded: %s %s", verr.Field, verr.Reason)
	}
	if errors.Is(err, ledger.ErrPersistence) {
		stderrf("the ledger could not be saved; nothing was recorded\n")
	}
	return err
}
