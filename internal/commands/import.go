package commands

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/csvio"
	"github.com/tally-dev/tally/internal/inbox"
)

func newImportCommand(root *rootOptions) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "import [file]",
		Short: "Replace all transactions with those in a CSV report",
		Long: `Replace all transactions with those in a CSV report.

Without a file, the most recent CSV in <home>/import is used and moved to
import/processed afterwards. Every existing transaction is discarded; imported
ones are stored as standalone, non-recurring entries.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return root.withApp(cmd, func(a *app) error {
				out := cmd.OutOrStdout()

				path, fromInbox := "", ""
				if len(args) > 0 {
					path = args[0]
				} else {
					f, ok, err := inbox.Latest(a.home)
					if err != nil {
						return err
					}
					if !ok {
						return fmt.Errorf("no file given and nothing in %s", inbox.Dir)
					}
					path, fromInbox = f.Path, f.Name
				}

				file, err := os.Open(path)
				if err != nil {
					return fmt.Errorf("opening %s: %w", path, err)
				}
				res, err := csvio.Read(file, a.cats)
				file.Close()
				for _, s := range res.Skipped {
					a.logger.Warn("skipped row", "file", path, "line", s.Line, "reason", s.Reason)
				}
				if errors.Is(err, csvio.ErrHeaderNotFound) || errors.Is(err, csvio.ErrNoRows) {
					return fmt.Errorf("%s: %w; nothing was changed", path, err)
				}
				if err != nil {
					return err
				}

				if !yes {
					fmt.Fprintf(out, "Replace all %d transactions with %d imported ones? [y/N] ",
						a.store.Len(), len(res.Transactions))
					answer, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
					if ans := strings.ToLower(strings.TrimSpace(answer)); ans != "y" && ans != "yes" {
						fmt.Fprintln(out, "Import cancelled")
						return nil
					}
				}

				if err := a.store.ReplaceAll(cmd.Context(), res.Transactions); err != nil {
					return err
				}
				if fromInbox != "" {
					if err := inbox.MarkProcessed(a.home, fromInbox); err != nil {
						return err
					}
				}

				fmt.Fprintf(out, "Imported %d transaction(s), skipped %d row(s)\n", len(res.Transactions), len(res.Skipped))
				return a.record("import: " + path)
			})
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "replace without asking")

	return cmd
}
