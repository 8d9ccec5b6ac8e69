package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/tally-dev/tally/internal/activity"
	"github.com/tally-dev/tally/internal/buildinfo"
	"github.com/tally-dev/tally/internal/catalog"
	"github.com/tally-dev/tally/internal/config"
	"github.com/tally-dev/tally/internal/gitops"
	"github.com/tally-dev/tally/internal/id"
	"github.com/tally-dev/tally/internal/ledger"
	"github.com/tally-dev/tally/internal/storage"
)

// HomeEnv names the environment variable holding the default home directory.
const HomeEnv = "TALLY_HOME"

type rootOptions struct {
	home     string
	logLevel string

	clock ledger.Clock
	ids   id.Generator
}

// NewRootCommand creates the root CLI command with all subcommands registered.
func NewRootCommand() *cobra.Command {
	return newRootCommand(&rootOptions{})
}

func newRootCommand(opts *rootOptions) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:     "tally",
		Short:   "Personal monthly income and expense tracker",
		Version: fmt.Sprintf("%s (commit: %s, built: %s)", buildinfo.Version, buildinfo.Commit, buildinfo.Date),
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVar(&opts.home, "home", defaultHome(), "tally home directory (env "+HomeEnv+")")
	rootCmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "debug, info, warn or error (default from tally.yaml)")

	rootCmd.AddCommand(
		newInitCommand(opts),
		newAddCommand(opts),
		newEditCommand(opts),
		newDeleteCommand(opts),
		newShowCommand(opts),
		newSeriesCommand(opts),
		newExportCommand(opts),
		newImportCommand(opts),
		newCategoriesCommand(opts),
		newLogCommand(opts),
	)

	return rootCmd
}

func defaultHome() string {
	if h := os.Getenv(HomeEnv); h != "" {
		return h
	}
	return "."
}

func (o *rootOptions) now() time.Time {
	if o.clock != nil {
		return o.clock.Now()
	}
	return time.Now()
}

func (o *rootOptions) newLogger(w io.Writer, fallback string) (*log.Logger, error) {
	name := o.logLevel
	if name == "" {
		name = fallback
	}
	level, err := log.ParseLevel(name)
	if err != nil {
		return nil, fmt.Errorf("log level: %w", err)
	}
	return log.NewWithOptions(w, log.Options{
		Prefix: "tally",
		Level:  level,
	}), nil
}

// app is everything a command needs to work on one home directory.
type app struct {
	home   string
	cfg    *config.Config
	cats   *catalog.Catalog
	kv     storage.KV
	store  *ledger.Store
	rec    *activity.Recorder
	logger *log.Logger
}

func (o *rootOptions) open(cmd *cobra.Command) (*app, error) {
	home, err := filepath.Abs(o.home)
	if err != nil {
		return nil, fmt.Errorf("resolving home: %w", err)
	}

	cfg, err := config.LoadHome(home)
	if err != nil {
		return nil, err
	}

	logger, err := o.newLogger(cmd.ErrOrStderr(), cfg.Log.Level)
	if err != nil {
		return nil, err
	}

	cats, err := catalog.Load(home, cfg.Locale)
	if err != nil {
		return nil, err
	}

	kv, err := storage.Open(cfg.Storage.Backend, cfg.DataDir(home))
	if err != nil {
		return nil, fmt.Errorf("opening storage: %w", err)
	}

	storeOpts := []ledger.Option{
		ledger.WithLogger(logger),
		ledger.WithClock(ledger.ClockFunc(o.now)),
	}
	if o.ids != nil {
		storeOpts = append(storeOpts, ledger.WithIDs(o.ids))
	}
	store := ledger.New(kv, storeOpts...)
	if err := store.Open(cmd.Context()); err != nil {
		kv.Close()
		return nil, err
	}

	rec := activity.NewRecorder(o.now)
	store.OnChange(rec.Record)

	logger.Debug("opened home", "home", home, "backend", cfg.Storage.Backend, "transactions", store.Len())
	return &app{
		home:   home,
		cfg:    cfg,
		cats:   cats,
		kv:     kv,
		store:  store,
		rec:    rec,
		logger: logger,
	}, nil
}

func (a *app) Close() error {
	return a.kv.Close()
}

// record writes pending activity and, when enabled, commits the home.
// A failed commit is logged, not returned: the change itself is already saved.
func (a *app) record(message string) error {
	if err := a.rec.Flush(a.home); err != nil {
		return fmt.Errorf("writing activity log: %w", err)
	}
	if !a.cfg.Git.AutoCommit {
		return nil
	}
	hash, err := gitops.Snapshot(a.home, message, gitops.Author{
		Name:  a.cfg.Git.AuthorName,
		Email: a.cfg.Git.AuthorEmail,
	})
	if err != nil {
		a.logger.Warn("git commit failed", "error", err)
		return nil
	}
	if hash != "" {
		a.logger.Info("committed", "hash", hash)
	}
	return nil
}

// withApp opens the home, runs fn and closes the store.
func (o *rootOptions) withApp(cmd *cobra.Command, fn func(*app) error) error {
	a, err := o.open(cmd)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}
