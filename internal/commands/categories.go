package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/activity"
	"github.com/tally-dev/tally/internal/id"
	"github.com/tally-dev/tally/internal/model"
)

func newCategoriesCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "categories",
		Short: "List income and expense categories",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return root.withApp(cmd, func(a *app) error {
				out := cmd.OutOrStdout()
				for _, t := range []model.TransactionType{model.TypeIncome, model.TypeExpense} {
					fmt.Fprintf(out, "%s\n", t.Kind())
					for _, o := range a.cats.Options(t) {
						fmt.Fprintf(out, "  %-16s %s\n", o.Value, o.Label)
					}
				}
				return nil
			})
		},
	}
}

func newLogCommand(root *rootOptions) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent changes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return root.withApp(cmd, func(a *app) error {
				entries, err := activity.Read(a.home)
				if err != nil {
					return err
				}
				if limit > 0 && len(entries) > limit {
					entries = entries[len(entries)-limit:]
				}
				out := cmd.OutOrStdout()
				for _, e := range entries {
					fmt.Fprintf(out, "%s  %-13s %-8s %3d  %s\n",
						e.Timestamp.Format("2006-01-02 15:04"), e.Op, id.Short(e.TransactionID), e.Count, e.Detail)
				}
				return nil
			})
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "number of entries, 0 for all")

	return cmd
}
