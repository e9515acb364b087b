package store

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/roach88/cohortcal/internal/event"
)

// InsertBatch stores events in a single transaction. Every event is validated
// first; one invalid event aborts the whole batch.
func (s *Store) InsertBatch(ctx context.Context, events []event.Event) error {
	if len(events) == 0 {
		return nil
	}
	if err := validateAll(events); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("insert batch: begin tx: %w", err)
	}
	defer tx.Rollback() // No-op if committed

	if err := insertEvents(ctx, tx, events); err != nil {
		return fmt.Errorf("insert batch: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("insert batch: commit: %w", err)
	}
	return nil
}

// ReplaceImported swaps the imported events of scope for events in one
// transaction. Readers see either the old set or the new one; a failure at
// any step leaves the old set in place. Manual events are untouched.
func (s *Store) ReplaceImported(ctx context.Context, scope event.Scope, events []event.Event) error {
	if err := validateAll(events); err != nil {
		return fmt.Errorf("replace imported %s: %w", scope, err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("replace imported %s: begin tx: %w", scope, err)
	}
	defer tx.Rollback() // No-op if committed

	_, err = tx.ExecContext(ctx, `
		DELETE FROM events WHERE scope_key = ? AND source = ?
	`, scope.Key(), string(event.SourceImported))
	if err != nil {
		return fmt.Errorf("replace imported %s: delete: %w", scope, err)
	}

	if err := insertEvents(ctx, tx, events); err != nil {
		return fmt.Errorf("replace imported %s: %w", scope, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("replace imported %s: commit: %w", scope, err)
	}
	return nil
}

func validateAll(events []event.Event) error {
	for _, e := range events {
		if err := e.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func insertEvents(ctx context.Context, tx *sql.Tx, events []event.Event) error {
	if len(events) == 0 {
		return nil
	}

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO events
		(id, scope_key, scope_kind, program, year, owner_id, title, type, start_ms, end_ms, location, description, source)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`)
	if err != nil {
		return fmt.Errorf("prepare: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		_, err := stmt.ExecContext(ctx,
			e.ID,
			e.Scope.Key(),
			string(e.Scope.Kind),
			e.Scope.Program,
			e.Scope.Year,
			e.Scope.OwnerID,
			e.Title,
			string(e.Type),
			e.Start.UnixMilli(),
			e.End.UnixMilli(),
			e.Location,
			e.Description,
			string(e.Source),
		)
		if err != nil {
			return fmt.Errorf("event %s: %w", e.ID, err)
		}
	}
	return nil
}

// InsertEvent stores a single event.
func (s *Store) InsertEvent(ctx context.Context, e event.Event) error {
	return s.InsertBatch(ctx, []event.Event{e})
}

// DeleteWhere removes every event of scope whose source matches.
func (s *Store) DeleteWhere(ctx context.Context, scope event.Scope, source event.Source) error {
	_, err := s.db.ExecContext(ctx, `
		DELETE FROM events WHERE scope_key = ? AND source = ?
	`, scope.Key(), string(source))
	if err != nil {
		return fmt.Errorf("delete %s events of %s: %w", source, scope, err)
	}
	return nil
}

// DeleteEvent removes one event owned by ownerID. Returns ErrNotFound when
// no such event belongs to the owner.
func (s *Store) DeleteEvent(ctx context.Context, ownerID, id string) error {
	result, err := s.db.ExecContext(ctx, `
		DELETE FROM events WHERE id = ? AND scope_key = ?
	`, id, event.PersonalScope(ownerID).Key())
	if err != nil {
		return fmt.Errorf("delete event %s: %w", id, err)
	}

	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete event %s: rows affected: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("delete event %s: %w", id, ErrNotFound)
	}
	return nil
}
