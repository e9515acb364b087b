package reconcile

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/roach88/cohortcal/internal/event"
	"github.com/roach88/cohortcal/internal/store"
)

// memStore is an in-memory Store with hooks for failure injection.
type memStore struct {
	mu     sync.Mutex
	events map[string]event.Event

	queryErr  error
	deleteErr error
	insertErr error

	// entered, when set, is closed by the first QueryByScope, which then
	// blocks until proceed is closed. Later queries do not block.
	entered   chan struct{}
	proceed   chan struct{}
	blockUsed bool

	// afterDelete runs once DeleteWhere has removed the events.
	afterDelete func()

	deletes int
	inserts int
}

func newMemStore(seed ...event.Event) *memStore {
	m := &memStore{events: make(map[string]event.Event)}
	for _, e := range seed {
		m.events[e.ID] = e
	}
	return m
}

func (m *memStore) QueryByScope(ctx context.Context, scope event.Scope) ([]event.Event, error) {
	if m.claimBlock() {
		close(m.entered)
		<-m.proceed
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.queryErr != nil {
		return nil, m.queryErr
	}
	out := []event.Event{}
	for _, e := range m.events {
		if e.Scope.Key() == scope.Key() {
			out = append(out, e)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Start.Equal(out[j].Start) {
			return out[i].Start.Before(out[j].Start)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

func (m *memStore) claimBlock() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.entered == nil || m.blockUsed {
		return false
	}
	m.blockUsed = true
	return true
}

// blockFirstQuery arms the entered/proceed hook.
func (m *memStore) blockFirstQuery() {
	m.entered = make(chan struct{})
	m.proceed = make(chan struct{})
}

func (m *memStore) DeleteWhere(ctx context.Context, scope event.Scope, source event.Source) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.deleteErr != nil {
		return m.deleteErr
	}
	m.deletes++
	for id, e := range m.events {
		if e.Scope.Key() == scope.Key() && e.Source == source {
			delete(m.events, id)
		}
	}
	if m.afterDelete != nil {
		m.afterDelete()
	}
	return nil
}

func (m *memStore) InsertBatch(ctx context.Context, events []event.Event) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.insertErr != nil {
		return m.insertErr
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	m.inserts++
	for _, e := range events {
		m.events[e.ID] = e
	}
	return nil
}

func (m *memStore) mutations() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.deletes + m.inserts
}

func (m *memStore) len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.events)
}

// cancelOnQuery cancels the caller's context as soon as the existing events
// have been read, leaving the write phase to run under a cancelled parent.
type cancelOnQuery struct {
	*store.Store
	cancel context.CancelFunc
}

func (c cancelOnQuery) QueryByScope(ctx context.Context, scope event.Scope) ([]event.Event, error) {
	events, err := c.Store.QueryByScope(ctx, scope)
	c.cancel()
	return events, err
}

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}
