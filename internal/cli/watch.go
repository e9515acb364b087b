package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/roach88/cohortcal/internal/config"
	"github.com/roach88/cohortcal/internal/event"
	"github.com/roach88/cohortcal/internal/reconcile"
	"github.com/roach88/cohortcal/internal/refresh"
	"github.com/roach88/cohortcal/internal/snapshot"
)

// WatchOptions holds flags for the watch command.
type WatchOptions struct {
	*RootOptions
	Config string
	Once   bool
}

// refreshReport renders one line per cohort in text mode.
type refreshReport struct {
	Cohorts []cohortOutcome `json:"cohorts"`
}

type cohortOutcome struct {
	Scope    string           `json:"scope"`
	Status   reconcile.Status `json:"status,omitempty"`
	Events   int              `json:"events"`
	Rejected int              `json:"rejected"`
	Skipped  bool             `json:"skipped,omitempty"`
	Error    string           `json:"error,omitempty"`
}

func (r refreshReport) String() string {
	if len(r.Cohorts) == 0 {
		return "no cohorts configured"
	}
	lines := make([]string, 0, len(r.Cohorts))
	for _, c := range r.Cohorts {
		switch {
		case c.Error != "":
			lines = append(lines, fmt.Sprintf("%s: failed: %s", c.Scope, c.Error))
		case c.Skipped:
			lines = append(lines, fmt.Sprintf("%s: skipped, import already running", c.Scope))
		case c.Status == reconcile.StatusUnchanged:
			lines = append(lines, fmt.Sprintf("%s: no changes (%d events, %d rejected)", c.Scope, c.Events, c.Rejected))
		default:
			lines = append(lines, fmt.Sprintf("%s: updated (%d events, %d rejected)", c.Scope, c.Events, c.Rejected))
		}
	}
	return strings.Join(lines, "\n")
}

func (r refreshReport) failed() int {
	n := 0
	for _, c := range r.Cohorts {
		if c.Error != "" {
			n++
		}
	}
	return n
}

// NewWatchCommand creates the watch command.
func NewWatchCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &WatchOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Refresh configured cohorts on a schedule",
		Long: `Refresh every cohort listed in the configuration file.

Each cohort's snapshot file is read and reconciled on the cron schedule
from the config (default every 30 minutes). A cohort whose import is
still running is skipped until the next tick. With --once all cohorts
are refreshed a single time and the command exits.

The database path comes from the config unless --db is given.

Examples:
  cohortcal watch --config ./cohortcal.yaml
  cohortcal watch --config ./cohortcal.yaml --once --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runWatch(opts, cmd)
		},
	}

	cmd.Flags().StringVar(&opts.Config, "config", "cohortcal.yaml", "path to YAML config")
	cmd.Flags().BoolVar(&opts.Once, "once", false, "refresh once and exit")

	return cmd
}

func runWatch(opts *WatchOptions, cmd *cobra.Command) error {
	cfg, err := config.Load(opts.Config)
	if err != nil {
		return WrapExitError(ExitCommandError, "failed to load config", err)
	}
	if err := cfg.Validate(); err != nil {
		return WrapExitError(ExitCommandError, "invalid config", err)
	}

	// Config log level applies unless --verbose asks for debug.
	log := opts.logger(cmd.ErrOrStderr())
	if !opts.Verbose {
		level, _ := cfg.Level()
		log = newLogger(cmd.ErrOrStderr(), level)
	}

	dbPath := cfg.Database
	if f := cmd.Flags().Lookup("db"); f != nil && f.Changed {
		dbPath = opts.Database
	} else if f == nil && opts.Database != "" && opts.Database != DefaultDatabase {
		dbPath = opts.Database
	}

	st, err := openStore(dbPath)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := st.Close(); closeErr != nil {
			log.Error("error closing database", "error", closeErr)
		}
	}()

	fetcher := snapshot.NewFileFetcher()
	scopes := make([]event.Scope, 0, len(cfg.Cohorts))
	for _, c := range cfg.Cohorts {
		typ := c.Type
		if typ == "" {
			typ = string(event.TypeStudy)
		}
		fetcher.RegisterWithType(c.Scope(), c.Snapshot, typ)
		scopes = append(scopes, c.Scope())
	}

	rec := reconcile.New(st,
		reconcile.WithIDGenerator(opts.idGenerator()),
		reconcile.WithLogger(log),
	)
	runner := refresh.NewRunner(fetcher, rec, scopes, refresh.WithLogger(log))

	parentCtx := cmd.Context()
	if parentCtx == nil {
		parentCtx = context.Background()
	}

	if opts.Once {
		outcomes, err := runner.RunOnce(parentCtx)
		if err != nil {
			return WrapExitError(ExitFailure, "refresh interrupted", err)
		}
		report := newRefreshReport(outcomes)
		if err := opts.formatter(cmd).Success(report); err != nil {
			return err
		}
		if n := report.failed(); n > 0 {
			return NewExitError(ExitFailure, fmt.Sprintf("%d of %d cohorts failed to refresh", n, len(report.Cohorts)))
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(parentCtx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	log.Info("watching cohorts", "config", opts.Config, "db", dbPath, "cohorts", len(scopes))
	if err := runner.Schedule(ctx, cfg.Refresh); err != nil {
		return WrapExitError(ExitCommandError, "failed to schedule refresh", err)
	}
	log.Info("watch stopped gracefully")
	return nil
}

func newRefreshReport(outcomes []refresh.Outcome) refreshReport {
	report := refreshReport{Cohorts: make([]cohortOutcome, 0, len(outcomes))}
	for _, o := range outcomes {
		c := cohortOutcome{
			Scope:    o.Scope.Key(),
			Status:   o.Status,
			Events:   o.Events,
			Rejected: o.Rejected,
			Skipped:  o.Skipped,
		}
		if o.Err != nil {
			c.Error = o.Err.Error()
		}
		report.Cohorts = append(report.Cohorts, c)
	}
	return report
}
