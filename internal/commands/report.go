package commands

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/aggregate"
	"github.com/tally-dev/tally/internal/catalog"
	"github.com/tally-dev/tally/internal/csvio"
	"github.com/tally-dev/tally/internal/model"
)

const monthLayout = "2006-01"

// parseMonth reads YYYY-MM, defaulting to the month of now.
func parseMonth(s string, now time.Time) (int, time.Month, error) {
	if s == "" {
		return now.Year(), now.Month(), nil
	}
	t, err := time.Parse(monthLayout, s)
	if err != nil {
		return 0, 0, fmt.Errorf("parsing month %q (want YYYY-MM): %w", s, err)
	}
	return t.Year(), t.Month(), nil
}

func (a *app) monthView(year int, month time.Month) aggregate.MonthView {
	return aggregate.Month(a.store.All(), year, month, a.cfg.SavingsCategory, a.cats)
}

func newShowCommand(root *rootOptions) *cobra.Command {
	var month string

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show a month's totals and category breakdown",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			year, m, err := parseMonth(month, root.now())
			if err != nil {
				return err
			}
			return root.withApp(cmd, func(a *app) error {
				printMonth(cmd.OutOrStdout(), a.monthView(year, m), a.cats, a.cfg.Currency)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default: current)")

	return cmd
}

func printMonth(w io.Writer, v aggregate.MonthView, cats *catalog.Catalog, currency string) {
	fmt.Fprintf(w, "%s %d\n\n", v.Month, v.Year)
	fmt.Fprintf(w, "Income:   %12s %s\n", csvio.FormatAmount(v.TotalIncome), currency)
	fmt.Fprintf(w, "Expenses: %12s %s\n", csvio.FormatAmount(v.TotalExpenses), currency)
	fmt.Fprintf(w, "Balance:  %12s %s\n", csvio.FormatAmount(v.Balance), currency)
	fmt.Fprintf(w, "Savings:  %12s %s (all time)\n", csvio.FormatAmount(v.TotalSavings), currency)

	printGroups(w, model.TypeIncome.Kind(), v.Income, v.TotalIncome, cats)
	printGroups(w, model.TypeExpense.Kind(), v.Expenses, v.TotalExpenses, cats)
}

func printGroups(w io.Writer, title string, groups []model.AggregatedGroup, total decimal.Decimal, cats *catalog.Catalog) {
	fmt.Fprintf(w, "\n%s\n", title)
	if len(groups) == 0 {
		fmt.Fprintln(w, "  (none)")
		return
	}
	for _, g := range groups {
		fmt.Fprintf(w, "%s  %s  (%s%%)\n", cats.Label(g.Description), csvio.FormatAmount(g.TotalAmount),
			aggregate.Share(g.TotalAmount, total).StringFixed(1))
		for _, t := range g.Transactions {
			printTransaction(w, cats, t)
		}
	}
}

func newSeriesCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "series <id>",
		Short: "List every occurrence of a recurring transaction",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(a *app) error {
				t, err := findTransaction(a.store, args[0])
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if !t.InSeries() {
					fmt.Fprintf(out, "%s is not recurring\n", t.Name)
					printTransaction(out, a.cats, t)
					return nil
				}
				members := a.store.Series(t.RecurringKey)
				fmt.Fprintf(out, "%s: %d occurrences\n", t.Name, len(members))
				for _, m := range members {
					printTransaction(out, a.cats, m)
				}
				return nil
			})
		},
	}
}

func newExportCommand(root *rootOptions) *cobra.Command {
	var month, output string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Write a month's CSV report",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			year, m, err := parseMonth(month, root.now())
			if err != nil {
				return err
			}
			return root.withApp(cmd, func(a *app) error {
				v := a.monthView(year, m)
				var buf bytes.Buffer
				err := csvio.Write(&buf, csvio.Report{
					Summary:      v.Summary,
					Transactions: v.Transactions,
					Currency:     a.cfg.Currency,
					Labels:       a.cats,
				})
				if err != nil {
					return fmt.Errorf("building report: %w", err)
				}

				if output == "-" {
					_, err := cmd.OutOrStdout().Write(buf.Bytes())
					return err
				}
				path := output
				if path == "" {
					path = csvio.FileName(year, m)
				}
				if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
					return fmt.Errorf("writing report: %w", err)
				}
				a.logger.Info("exported report", "path", path, "rows", len(v.Transactions))
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d transaction(s) to %s\n", len(v.Transactions), path)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&month, "month", "", "month as YYYY-MM (default: current)")
	cmd.Flags().StringVarP(&output, "output", "o", "", `output file, "-" for stdout (default: Financial-Report-<Month>-<Year>.csv)`)

	return cmd
}
