package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/roach88/cohortcal/internal/event"
)

// createTestStore creates a new test store in a temporary directory.
func createTestStore(t *testing.T) *Store {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.db")
	s, err := Open(path)
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

var base = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

// createTestEvent creates an event starting offset minutes after base and
// lasting dur minutes.
func createTestEvent(id string, scope event.Scope, src event.Source, offset, dur int) event.Event {
	typ := event.TypeStudy
	if !scope.IsShared() {
		typ = event.TypePersonal
	}
	start := base.Add(time.Duration(offset) * time.Minute)
	return event.Event{
		ID:     id,
		Scope:  scope,
		Title:  "event " + id,
		Type:   typ,
		Start:  start,
		End:    start.Add(time.Duration(dur) * time.Minute),
		Source: src,
	}
}
