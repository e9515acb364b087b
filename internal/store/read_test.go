package store

import (
	"context"
	"errors"
	"testing"

	"github.com/roach88/cohortcal/internal/event"
)

func TestQueryByScope_EmptyNotNil(t *testing.T) {
	s := createTestStore(t)
	got, err := s.QueryByScope(context.Background(), event.SharedScope("CS", 1))
	if err != nil {
		t.Fatalf("QueryByScope() failed: %v", err)
	}
	if got == nil {
		t.Error("QueryByScope() returned nil, want empty slice")
	}
}

func TestQueryByScope_TieBreakByID(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	scope := event.SharedScope("CS", 1)

	batch := []event.Event{
		createTestEvent("c", scope, event.SourceImported, 0, 60),
		createTestEvent("a", scope, event.SourceImported, 0, 60),
		createTestEvent("b", scope, event.SourceImported, 0, 60),
	}
	if err := s.InsertBatch(ctx, batch); err != nil {
		t.Fatalf("InsertBatch() failed: %v", err)
	}

	got, err := s.QueryByScope(ctx, scope)
	if err != nil {
		t.Fatalf("QueryByScope() failed: %v", err)
	}
	for i, want := range []string{"a", "b", "c"} {
		if got[i].ID != want {
			t.Errorf("got[%d] = %s, want %s", i, got[i].ID, want)
		}
	}
}

func TestGetEvent_RoundTrip(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()

	e := createTestEvent("g", event.PersonalScope("u1"), event.SourceManual, 15, 45)
	e.Location = "Room 1"
	e.Description = "bring notes"
	if err := s.InsertEvent(ctx, e); err != nil {
		t.Fatalf("InsertEvent() failed: %v", err)
	}

	got, err := s.GetEvent(ctx, "g")
	if err != nil {
		t.Fatalf("GetEvent() failed: %v", err)
	}
	if got.Title != e.Title || got.Location != e.Location || got.Description != e.Description {
		t.Errorf("GetEvent() = %+v, want %+v", got, e)
	}
	if got.Type != event.TypePersonal || got.Source != event.SourceManual {
		t.Errorf("type/source = %s/%s", got.Type, got.Source)
	}
	if !got.Start.Equal(e.Start) || !got.End.Equal(e.End) {
		t.Errorf("instants = %v-%v, want %v-%v", got.Start, got.End, e.Start, e.End)
	}
}

func TestGetEvent_NotFound(t *testing.T) {
	s := createTestStore(t)
	if _, err := s.GetEvent(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Errorf("GetEvent() = %v, want ErrNotFound", err)
	}
}

func TestViewerEvents_MergesScopes(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	cs1 := event.SharedScope("CS", 1)
	cs2 := event.SharedScope("CS", 2)

	batch := []event.Event{
		createTestEvent("s1", cs1, event.SourceImported, 0, 60),
		createTestEvent("s2", cs2, event.SourceImported, 0, 60),
		createTestEvent("p1", event.PersonalScope("u1"), event.SourceManual, 30, 60),
		createTestEvent("p2", event.PersonalScope("u2"), event.SourceManual, 30, 60),
	}
	if err := s.InsertBatch(ctx, batch); err != nil {
		t.Fatalf("InsertBatch() failed: %v", err)
	}

	got, err := s.ViewerEvents(ctx, "u1", cs1)
	if err != nil {
		t.Fatalf("ViewerEvents() failed: %v", err)
	}
	if len(got) != 2 || got[0].ID != "s1" || got[1].ID != "p1" {
		t.Errorf("ViewerEvents() = %v, want [s1 p1]", got)
	}
}

func TestCountByScope(t *testing.T) {
	s := createTestStore(t)
	ctx := context.Background()
	scope := event.PersonalScope("u1")

	batch := []event.Event{
		createTestEvent("a", scope, event.SourceImported, 0, 30),
		createTestEvent("b", scope, event.SourceImported, 30, 30),
		createTestEvent("c", scope, event.SourceManual, 60, 30),
	}
	if err := s.InsertBatch(ctx, batch); err != nil {
		t.Fatalf("InsertBatch() failed: %v", err)
	}

	counts, err := s.CountByScope(ctx, scope)
	if err != nil {
		t.Fatalf("CountByScope() failed: %v", err)
	}
	if counts[event.SourceImported] != 2 || counts[event.SourceManual] != 1 {
		t.Errorf("counts = %v", counts)
	}
}
