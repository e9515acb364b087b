package store

import (
	"database/sql"
	"fmt"
	"time"

	"github.com/roach88/cohortcal/internal/event"
)

// eventColumns is the column list shared by every SELECT so scanEvent can
// rely on the order.
const eventColumns = `id, scope_kind, program, year, owner_id, title, type, start_ms, end_ms, location, description, source`

// rowScanner is satisfied by *sql.Row and *sql.Rows.
type rowScanner interface {
	Scan(dest ...any) error
}

func scanEvent(row rowScanner) (event.Event, error) {
	var (
		e              event.Event
		kind, typ, src string
		startMs, endMs int64
	)
	err := row.Scan(
		&e.ID,
		&kind,
		&e.Scope.Program,
		&e.Scope.Year,
		&e.Scope.OwnerID,
		&e.Title,
		&typ,
		&startMs,
		&endMs,
		&e.Location,
		&e.Description,
		&src,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return event.Event{}, ErrNotFound
		}
		return event.Event{}, fmt.Errorf("scan event: %w", err)
	}

	e.Scope.Kind = event.ScopeKind(kind)
	e.Type = event.Type(typ)
	e.Source = event.Source(src)
	e.Start = fromMillis(startMs)
	e.End = fromMillis(endMs)
	return e, nil
}

func scanEvents(rows *sql.Rows) ([]event.Event, error) {
	defer rows.Close()

	events := []event.Event{}
	for rows.Next() {
		e, err := scanEvent(rows)
		if err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate events: %w", err)
	}
	return events, nil
}

func fromMillis(ms int64) time.Time {
	return time.UnixMilli(ms).UTC()
}
