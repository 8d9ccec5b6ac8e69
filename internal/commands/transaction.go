package commands

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/catalog"
	"github.com/tally-dev/tally/internal/csvio"
	"github.com/tally-dev/tally/internal/id"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/model"
)

// txnFlags are the editable fields shared by add and edit.
type txnFlags struct {
	name      string
	amount    string
	category  string
	typ       string
	date      string
	recurring bool
}

func (f *txnFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.name, "name", "", "transaction name")
	cmd.Flags().StringVar(&f.amount, "amount", "", "amount, e.g. 1234.50")
	cmd.Flags().StringVar(&f.category, "category", "", "category key or label (default: the first of the type)")
	cmd.Flags().StringVar(&f.typ, "type", "", "income or expense (default: the category's type)")
	cmd.Flags().StringVar(&f.date, "date", "", "date as YYYY-MM-DD (default: today)")
	cmd.Flags().BoolVar(&f.recurring, "recurring", false, "repeat monthly for the next 24 months")
}

// apply overlays the flags the user set onto in.
func (f *txnFlags) apply(cmd *cobra.Command, cats *catalog.Catalog, in *ledger.Input) error {
	changed := cmd.Flags().Changed
	if changed("name") {
		in.Name = f.name
	}
	if changed("amount") {
		amt, err := csvio.ParseAmount(f.amount)
		if err != nil {
			return fmt.Errorf("parsing amount %q: %w", f.amount, err)
		}
		in.Amount = amt
	}
	if changed("date") {
		d, err := model.ParseDate(f.date)
		if err != nil {
			return err
		}
		in.Date = d
	}
	if changed("category") {
		in.Description = resolveCategory(cats, f.category)
	}
	if changed("type") {
		t, err := model.ParseType(f.typ)
		if err != nil {
			return err
		}
		in.Type = t
	} else if changed("category") {
		if t, ok := cats.TypeOf(in.Description); ok {
			in.Type = t
		}
	}
	return nil
}

func resolveCategory(cats *catalog.Catalog, s string) string {
	if k, ok := cats.KeyForLabel(s); ok {
		return k
	}
	return strings.ToLower(strings.TrimSpace(s))
}

// findTransaction resolves an id or a unique id prefix.
func findTransaction(store *ledger.Store, ref string) (model.Transaction, error) {
	if t, ok := store.Get(ref); ok {
		return t, nil
	}
	var matches []model.Transaction
	for _, t := range store.All() {
		if strings.HasPrefix(t.ID, ref) {
			matches = append(matches, t)
		}
	}
	switch len(matches) {
	case 0:
		return model.Transaction{}, fmt.Errorf("%q: %w", ref, ledger.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		return model.Transaction{}, fmt.Errorf("%q matches %d transactions; use more characters", ref, len(matches))
	}
}

func printTransaction(w io.Writer, cats *catalog.Catalog, t model.Transaction) {
	mark := ""
	if t.InSeries() {
		mark = " ↻"
	}
	fmt.Fprintf(w, "  %s  %s  %-24s %-16s %12s%s\n",
		id.Short(t.ID), t.Date, t.Name, cats.Label(t.Description), csvio.FormatAmount(t.Amount), mark)
}

func newAddCommand(root *rootOptions) *cobra.Command {
	var flags txnFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a transaction",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return root.withApp(cmd, func(a *app) error {
				in := ledger.Input{Type: model.TypeExpense, Amount: decimal.Zero}
				if err := flags.apply(cmd, a.cats, &in); err != nil {
					return err
				}
				if in.Description == "" {
					in.Description = a.cats.First(in.Type)
				}
				if err := ledger.JoinErrors(ledger.ValidateInput(in, a.cats)); err != nil {
					return err
				}

				added, err := a.store.Add(cmd.Context(), in, flags.recurring)
				if err != nil {
					return err
				}

				out := cmd.OutOrStdout()
				if len(added) == 1 {
					fmt.Fprintf(out, "Added %s\n", id.Short(added[0].ID))
				} else {
					fmt.Fprintf(out, "Added %s with %d monthly occurrences through %s\n",
						id.Short(added[0].ID), len(added)-1, added[len(added)-1].Date)
				}
				return a.record("add: " + in.Name)
			})
		},
	}
	flags.register(cmd)
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

func newEditCommand(root *rootOptions) *cobra.Command {
	var flags txnFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit a transaction; for a recurring one, this and all later occurrences",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(a *app) error {
				orig, err := findTransaction(a.store, args[0])
				if err != nil {
					return err
				}

				in := ledger.InputOf(orig)
				if err := flags.apply(cmd, a.cats, &in); err != nil {
					return err
				}
				if err := ledger.JoinErrors(ledger.ValidateInput(in, a.cats)); err != nil {
					return err
				}

				updated := orig
				updated.Date = in.Date
				updated.Name = in.Name
				updated.Description = in.Description
				updated.Amount = in.Amount
				updated.Type = in.Type
				if cmd.Flags().Changed("recurring") {
					updated.IsRecurring = flags.recurring
				}

				ok, err := a.store.Update(cmd.Context(), updated)
				if err != nil {
					return err
				}
				if !ok {
					return fmt.Errorf("%q: %w", args[0], ledger.ErrNotFound)
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Updated %s\n", id.Short(orig.ID))
				return a.record("edit: " + updated.Name)
			})
		},
	}
	flags.register(cmd)

	return cmd
}

const (
	scopeSingle = "single"
	scopeFuture = "future"
)

func newDeleteCommand(root *rootOptions) *cobra.Command {
	var scope string

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a transaction",
		Long: `Delete a transaction.

A transaction that belongs to a recurring series needs --scope: "single"
removes only that occurrence, "future" removes it and every later one.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(a *app) error {
				t, err := findTransaction(a.store, args[0])
				if err != nil {
					return err
				}

				removed := 1
				switch scope {
				case "":
					err = a.store.InitiateDelete(cmd.Context(), t.ID)
					if errors.Is(err, ledger.ErrScopeRequired) {
						later := 0
						for _, m := range a.store.Series(t.RecurringKey) {
							if m.Date.OnOrAfter(t.Date) {
								later++
							}
						}
						return fmt.Errorf("%w (--scope %s, or --scope %s to remove %d occurrences)",
							err, scopeSingle, scopeFuture, later)
					}
				case scopeSingle:
					_, err = a.store.DeleteSingle(cmd.Context(), t.ID)
				case scopeFuture:
					removed, err = a.store.DeleteFromHereForward(cmd.Context(), t)
				default:
					return fmt.Errorf("unknown scope %q (want %s or %s)", scope, scopeSingle, scopeFuture)
				}
				if err != nil {
					return err
				}

				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d transaction(s)\n", removed)
				return a.record("delete: " + t.Name)
			})
		},
	}
	cmd.Flags().StringVar(&scope, "scope", "", "single or future, for recurring transactions")

	return cmd
}
