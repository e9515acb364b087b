package testutil

import (
	"io"
	"log/slog"
	"time"

	"github.com/roach88/cohortcal/internal/event"
)

// Day is the reference date of every fixture: Monday 2025-03-10, UTC.
var Day = time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC)

// Cohort is the shared scope used by fixtures.
var Cohort = event.SharedScope("CS", 1)

// At returns Day + h hours + m minutes.
func At(h, m int) time.Time {
	return Day.Add(time.Duration(h)*time.Hour + time.Duration(m)*time.Minute)
}

// Study returns an imported study event of Cohort.
func Study(id, title string, start, end time.Time) event.Event {
	return event.Event{
		ID:     id,
		Scope:  Cohort,
		Title:  title,
		Type:   event.TypeStudy,
		Start:  start,
		End:    end,
		Source: event.SourceImported,
	}
}

// Personal returns a manual personal event of owner "u1".
func Personal(id, title string, start, end time.Time) event.Event {
	return event.Event{
		ID:     id,
		Scope:  event.PersonalScope("u1"),
		Title:  title,
		Type:   event.TypePersonal,
		Start:  start,
		End:    end,
		Source: event.SourceManual,
	}
}

// DiscardLogger returns a logger that drops everything.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
