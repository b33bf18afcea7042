package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/mamadbah2/stockbook/internal/config"
	"github.com/mamadbah2/stockbook/internal/domain/models"
	"github.com/mamadbah2/stockbook/internal/export"
	"github.com/mamadbah2/stockbook/internal/repository/csvstore"
	"github.com/mamadbah2/stockbook/internal/service/reporting"
)

func newReportCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "report",
		Short: "Show totals, net profit and remaining stock",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			svc := reporting.NewService(env.logger.Named("svc.reporting"))
			fmt.Fprintln(cmd.OutOrStdout(), svc.Summary(env.session.Snapshot()))
			return nil
		},
	}
}

func newStockCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "stock",
		Short: "Show remaining stock per item",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			svc := reporting.NewService(env.logger.Named("svc.reporting"))
			fmt.Fprintln(cmd.OutOrStdout(), svc.StockReport(env.session.Snapshot()))
			return nil
		},
	}
}

func newListCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "list <purchases|sales|expenses>",
		Short: "Print a table",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := models.ParseKind(args[0])
			if err != nil {
				return err
			}

			env, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			table := env.session.Table(kind)
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, strings.Join(table.Columns, "\t"))
			for _, row := range table.Rows {
				fmt.Fprintln(out, strings.Join(row, "\t"))
			}
			return nil
		},
	}
}

func newExportCmd(opts *rootOptions) *cobra.Command {
	var format, out string
	cmd := &cobra.Command{
		Use:   "export <purchases|sales|expenses>",
		Short: "Export a table as a standalone csv or xlsx file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := models.ParseKind(args[0])
			if err != nil {
				return err
			}

			env, err := opts.open(cmd.Context())
			if err != nil {
				return err
			}
			defer env.close()

			if out == "" {
				out = export.FileName(kind, strings.ToLower(format))
			}
			if env.cfg.Store.Backend == config.BackendCSV {
				live := csvstore.New(env.cfg.Store.DataDir, nil).Path(kind)
				if samePath(out, live) {
					return fmt.Errorf("refusing to export over the ledger file %s", live)
				}
			}

			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}

			if err := export.Write(f, env.session.Table(kind), format); err != nil {
				f.Close()
				os.Remove(out)
				return err
			}
			if err := f.Close(); err != nil {
				return fmt.Errorf("close %s: %w", out, err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s exported to %s\n", kind, out)
			return nil
		},
	}
	cmd.Flags().StringVar(&format, "format", export.FormatCSV, "csv or xlsx")
	cmd.Flags().StringVar(&out, "out", "", "output file (default <kind>.<format>)")
	return cmd
}

// samePath reports whether a and b name the same file, following symlinks
// when both exist.
func samePath(a, b string) bool {
	if ai, err := os.Stat(a); err == nil {
		if bi, err := os.Stat(b); err == nil {
			return os.SameFile(ai, bi)
		}
	}
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	return errA == nil && errB == nil && absA == absB
}
