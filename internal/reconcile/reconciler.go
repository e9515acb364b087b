package reconcile

import (
	"context"
	"log/slog"
	"time"

	"github.com/roach88/cohortcal/internal/event"
	"github.com/roach88/cohortcal/internal/fingerprint"
	"github.com/roach88/cohortcal/internal/snapshot"
)

// Store is the persistence the reconciler needs.
//
// Implementations must give read-after-write consistency within one caller's
// sequential calls. store.Store satisfies it.
type Store interface {
	QueryByScope(ctx context.Context, scope event.Scope) ([]event.Event, error)
	DeleteWhere(ctx context.Context, scope event.Scope, source event.Source) error
	InsertBatch(ctx context.Context, events []event.Event) error
}

// Replacer is implemented by stores that can swap a scope's imported events
// atomically. Reconcile uses it instead of DeleteWhere followed by
// InsertBatch when available. store.Store satisfies it.
type Replacer interface {
	ReplaceImported(ctx context.Context, scope event.Scope, events []event.Event) error
}

// Status is the outcome of a successful reconcile.
type Status string

const (
	// StatusUnchanged means the snapshot matched the stored events; nothing
	// was written.
	StatusUnchanged Status = "unchanged"

	// StatusUpdated means the stored imported events were replaced.
	StatusUpdated Status = "updated"
)

// Result describes a successful reconcile.
type Result struct {
	Status Status `json:"status"`

	// Events is the scope's imported event set after the call.
	Events []event.Event `json:"events"`

	// Rejected counts snapshot entries dropped by validation.
	Rejected int `json:"rejected"`

	// Rejections lists why each dropped entry was rejected, in snapshot order.
	Rejections []snapshot.RejectedParsedEvent `json:"rejections,omitempty"`
}

// Reconciler applies snapshots to a Store.
type Reconciler struct {
	store  Store
	locks  *LockRegistry
	ids    event.IDGenerator
	logger *slog.Logger
}

// Option configures a Reconciler.
type Option func(*Reconciler)

// WithLocks shares a lock registry between reconcilers.
func WithLocks(locks *LockRegistry) Option {
	return func(r *Reconciler) {
		r.locks = locks
	}
}

// WithIDGenerator sets the generator for ids of inserted events.
//
// Default: event.UUIDv7Generator
// Use event.NewFixedGenerator for deterministic tests.
func WithIDGenerator(ids event.IDGenerator) Option {
	return func(r *Reconciler) {
		r.ids = ids
	}
}

// WithLogger sets the logger. Default: slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(r *Reconciler) {
		r.logger = logger
	}
}

// New creates a Reconciler over s. Without WithLocks it gets its own registry.
func New(s Store, opts ...Option) *Reconciler {
	r := &Reconciler{
		store:  s,
		locks:  NewLockRegistry(),
		ids:    event.UUIDv7Generator{},
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Busy reports whether scope is currently being reconciled.
func (r *Reconciler) Busy(scope event.Scope) bool {
	return r.locks.Held(scope.Key())
}

// Reconcile replaces the imported events of scope with entries when the two
// differ.
//
// Returns a *Error with ErrCodeBusy if scope is already being reconciled, or
// ErrCodeStore if the store fails. A store failure never comes with an
// Updated result. The scope's lock is released on every path.
func (r *Reconciler) Reconcile(ctx context.Context, scope event.Scope, entries []snapshot.Entry) (Result, error) {
	key := scope.Key()
	release, ok := r.locks.TryAcquire(key)
	if !ok {
		r.logger.Debug("reconcile busy", "scope", key)
		return Result{}, NewBusyError(key)
	}
	defer release()

	stored, err := r.store.QueryByScope(ctx, scope)
	if err != nil {
		return Result{}, NewStoreError(key, "query", err)
	}
	existing := importedOnly(stored)

	valid, rejected := snapshot.Partition(entries)
	for _, rej := range rejected {
		r.logger.Debug("snapshot entry rejected", "scope", key, "index", rej.Index, "reason", rej.Reason)
	}

	if incomingSet(scope, valid).Equal(existingSet(existing)) {
		r.logger.Info("reconcile unchanged",
			"scope", key,
			"existing", len(existing),
			"rejected", len(rejected),
		)
		return Result{
			Status:     StatusUnchanged,
			Events:     existing,
			Rejected:   len(rejected),
			Rejections: rejected,
		}, nil
	}

	fresh := make([]event.Event, 0, len(valid))
	for _, v := range valid {
		fresh = append(fresh, atStorePrecision(v.Event(r.ids.Generate(), scope)))
	}

	// The write phase ignores cancellation: the scope is never left between
	// delete and insert.
	if err := r.replace(context.WithoutCancel(ctx), scope, fresh); err != nil {
		return Result{}, err
	}

	r.logger.Info("reconcile updated",
		"scope", key,
		"existing", len(existing),
		"incoming", len(fresh),
		"rejected", len(rejected),
	)
	return Result{
		Status:     StatusUpdated,
		Events:     fresh,
		Rejected:   len(rejected),
		Rejections: rejected,
	}, nil
}

func (r *Reconciler) replace(ctx context.Context, scope event.Scope, fresh []event.Event) error {
	key := scope.Key()
	if rs, ok := r.store.(Replacer); ok {
		if err := rs.ReplaceImported(ctx, scope, fresh); err != nil {
			return NewStoreError(key, "replace", err)
		}
		return nil
	}

	if err := r.store.DeleteWhere(ctx, scope, event.SourceImported); err != nil {
		return NewStoreError(key, "delete", err)
	}
	if err := r.store.InsertBatch(ctx, fresh); err != nil {
		return NewStoreError(key, "insert", err)
	}
	return nil
}

// atStorePrecision drops what the store cannot keep, so an Updated result
// matches the events a later Unchanged call reads back.
func atStorePrecision(e event.Event) event.Event {
	e.Start = e.Start.UTC().Truncate(time.Millisecond)
	e.End = e.End.UTC().Truncate(time.Millisecond)
	return e
}

func importedOnly(events []event.Event) []event.Event {
	imported := make([]event.Event, 0, len(events))
	for _, e := range events {
		if e.Source == event.SourceImported {
			imported = append(imported, e)
		}
	}
	return imported
}

func incomingSet(scope event.Scope, valid []snapshot.ValidParsedEvent) *fingerprint.Set {
	set := fingerprint.NewSet()
	for _, v := range valid {
		set.Add(fingerprint.FromEvent(v.Event("", scope)))
	}
	return set
}

func existingSet(events []event.Event) *fingerprint.Set {
	set := fingerprint.NewSet()
	for _, e := range events {
		set.Add(fingerprint.FromEvent(e))
	}
	return set
}
