package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"

	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/catalog"
	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/gitops"
	"github.com/tally-dev/tally/internal/inbox"
	"github.com/tally-dev/tally/internal/storage"
)

type initOptions struct {
	locale   string
	currency string
	backend  string
	git      bool
}

func newInitCommand(root *rootOptions) *cobra.Command {
	var opts initOptions

	cmd := &cobra.Command{
		Use:   "init [directory]",
		Short: "Initialize a new tally home",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := root.home
			if len(args) > 0 {
				dir = args[0]
			}

			absDir, err := filepath.Abs(dir)
			if err != nil {
				return fmt.Errorf("resolving path: %w", err)
			}

			return runInit(cmd.OutOrStdout(), absDir, opts)
		},
	}

	cmd.Flags().StringVar(&opts.locale, "locale", "en", fmt.Sprintf("category label preset %v", catalog.Locales))
	cmd.Flags().StringVar(&opts.currency, "currency", "USD", "currency code shown in reports")
	cmd.Flags().StringVar(&opts.backend, "storage", storage.BackendFile, fmt.Sprintf("storage backend %v", storage.Backends))
	cmd.Flags().BoolVar(&opts.git, "git", false, "create a git repository and commit after every change")

	return cmd
}

func runInit(out io.Writer, dir string, opts initOptions) error {
	if !slices.Contains(catalog.Locales, opts.locale) {
		return fmt.Errorf("unknown locale %q (want one of %v)", opts.locale, catalog.Locales)
	}
	if !slices.Contains(storage.Backends, opts.backend) {
		return fmt.Errorf("unknown storage backend %q (want one of %v)", opts.backend, storage.Backends)
	}
	if _, err := os.Stat(filepath.Join(dir, config.FileName)); err == nil {
		return fmt.Errorf("%s is already a tally home", dir)
	}

	// Create directory structure.
	dirs := []string{
		"data",
		"logs",
		inbox.Dir,
		inbox.ProcessedDir,
	}
	for _, d := range dirs {
		if err := os.MkdirAll(filepath.Join(dir, d), 0o755); err != nil {
			return fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	cfg := config.Default()
	cfg.Locale = opts.locale
	cfg.Currency = opts.currency
	cfg.Storage.Backend = opts.backend
	cfg.Git.AutoCommit = opts.git
	if err := config.Save(filepath.Join(dir, config.FileName), cfg); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	if err := catalog.Default(opts.locale).Save(dir); err != nil {
		return fmt.Errorf("writing categories: %w", err)
	}

	gitignore := ".env\n" + inbox.ProcessedDir + "/\n"
	if err := os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(gitignore), 0o644); err != nil {
		return fmt.Errorf("writing .gitignore: %w", err)
	}

	if err := os.WriteFile(filepath.Join(dir, inbox.Dir, ".gitkeep"), []byte{}, 0o644); err != nil {
		return fmt.Errorf("writing .gitkeep: %w", err)
	}

	if !opts.git {
		fmt.Fprintf(out, "Initialized tally home at %s\n", dir)
		return nil
	}

	if err := gitops.Init(dir, io.Discard); err != nil {
		return err
	}
	hash, err := gitops.CommitAll(dir, "init: tally home", gitops.Author{
		Name:  cfg.Git.AuthorName,
		Email: cfg.Git.AuthorEmail,
	})
	if err != nil {
		return fmt.Errorf("initial commit: %w", err)
	}

	fmt.Fprintf(out, "Initialized tally home at %s (%s)\n", dir, hash)
	return nil
}
