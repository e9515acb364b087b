// Package refresh periodically fetches cohort snapshots and reconciles them.
package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"
	"golang.org/x/sync/errgroup"

	"github.com/roach88/cohortcal/internal/event"
	"github.com/roach88/cohortcal/internal/reconcile"
	"github.com/roach88/cohortcal/internal/snapshot"
)

// DefaultSchedule runs a refresh every 30 minutes.
const DefaultSchedule = "*/30 * * * *"

// Fetcher produces the current snapshot of a scope. Fetch mechanics are
// opaque to the runner; a failed fetch only skips that scope.
type Fetcher interface {
	Fetch(ctx context.Context, scope event.Scope) ([]snapshot.Entry, error)
}

// Outcome is the result of refreshing one scope.
type Outcome struct {
	Scope    event.Scope
	Status   reconcile.Status // empty unless the reconcile succeeded
	Events   int
	Rejected int
	Skipped  bool // scope was busy
	Err      error
}

// Runner refreshes a fixed list of scopes.
type Runner struct {
	fetcher    Fetcher
	reconciler *reconcile.Reconciler
	scopes     []event.Scope
	logger     *slog.Logger
	limit      int
}

// Option configures a Runner.
type Option func(*Runner)

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.logger = logger
	}
}

// WithConcurrency bounds the number of scopes refreshed at once.
// Zero or negative means unbounded.
func WithConcurrency(n int) Option {
	return func(r *Runner) {
		r.limit = n
	}
}

// NewRunner creates a Runner for scopes.
func NewRunner(f Fetcher, rec *reconcile.Reconciler, scopes []event.Scope, opts ...Option) *Runner {
	r := &Runner{
		fetcher:    f,
		reconciler: rec,
		scopes:     append([]event.Scope(nil), scopes...),
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// RunOnce refreshes every scope concurrently and returns one outcome per
// scope, in the order the scopes were given.
//
// Per-scope failures are reported in the outcomes, not as the returned error.
// The returned error is non-nil only when ctx is cancelled.
func (r *Runner) RunOnce(ctx context.Context) ([]Outcome, error) {
	outcomes := make([]Outcome, len(r.scopes))

	g, gctx := errgroup.WithContext(ctx)
	if r.limit > 0 {
		g.SetLimit(r.limit)
	}
	for i, scope := range r.scopes {
		i, scope := i, scope
		g.Go(func() error {
			outcomes[i] = r.refresh(gctx, scope)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return outcomes, err
	}
	return outcomes, ctx.Err()
}

func (r *Runner) refresh(ctx context.Context, scope event.Scope) Outcome {
	out := Outcome{Scope: scope}
	key := scope.Key()

	entries, err := r.fetcher.Fetch(ctx, scope)
	if err != nil {
		r.logger.Warn("fetch failed", "scope", key, "error", err)
		out.Err = fmt.Errorf("fetch %s: %w", key, err)
		return out
	}

	res, err := r.reconciler.Reconcile(ctx, scope, entries)
	switch {
	case reconcile.IsBusyError(err):
		r.logger.Info("refresh skipped: import already running", "scope", key)
		out.Skipped = true
	case err != nil:
		r.logger.Error("refresh failed", "scope", key, "error", err)
		out.Err = err
	default:
		out.Status = res.Status
		out.Events = len(res.Events)
		out.Rejected = res.Rejected
	}
	return out
}

// Schedule runs RunOnce on a cron schedule until ctx is cancelled.
//
// Overlapping ticks are skipped rather than queued. Schedule blocks until
// ctx is done and the in-flight run, if any, has finished.
func (r *Runner) Schedule(ctx context.Context, spec string) error {
	if spec == "" {
		spec = DefaultSchedule
	}
	if _, err := cron.ParseStandard(spec); err != nil {
		return fmt.Errorf("parse schedule %q: %w", spec, err)
	}

	var mu sync.Mutex
	c := cron.New()
	_, err := c.AddFunc(spec, func() {
		if !mu.TryLock() {
			r.logger.Info("refresh tick skipped: previous run still in progress")
			return
		}
		defer mu.Unlock()
		r.logOutcomes(r.RunOnce(ctx))
	})
	if err != nil {
		return fmt.Errorf("schedule %q: %w", spec, err)
	}

	r.logger.Info("refresh scheduled", "schedule", spec, "scopes", len(r.scopes))
	c.Start()
	<-ctx.Done()
	<-c.Stop().Done()
	r.logger.Info("refresh stopped")
	return nil
}

func (r *Runner) logOutcomes(outcomes []Outcome, err error) {
	if err != nil {
		r.logger.Debug("refresh run interrupted", "error", err)
	}
	for _, o := range outcomes {
		if o.Status != "" {
			r.logger.Debug("refresh outcome",
				"scope", o.Scope.Key(),
				"status", o.Status,
				"events", o.Events,
				"rejected", o.Rejected,
			)
		}
	}
}
