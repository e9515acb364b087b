package store

import (
	"context"
	"fmt"
	"strings"

	"github.com/roach88/cohortcal/internal/event"
)

// QueryByScope returns every event of scope ordered by start, then id.
// Returns an empty slice (not nil) if the scope holds no events.
func (s *Store) QueryByScope(ctx context.Context, scope event.Scope) ([]event.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE scope_key = ?
		ORDER BY start_ms ASC, id COLLATE BINARY ASC
	`, scope.Key())
	if err != nil {
		return nil, fmt.Errorf("query %s: %w", scope, err)
	}
	return scanEvents(rows)
}

// GetEvent retrieves a single event by id. Returns ErrNotFound if missing.
func (s *Store) GetEvent(ctx context.Context, id string) (event.Event, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE id = ?
	`, id)
	return scanEvent(row)
}

// ViewerEvents returns the merged event set a viewer sees: their personal
// events plus the events of each shared scope they belong to.
func (s *Store) ViewerEvents(ctx context.Context, ownerID string, shared ...event.Scope) ([]event.Event, error) {
	keys := []any{event.PersonalScope(ownerID).Key()}
	for _, sc := range shared {
		keys = append(keys, sc.Key())
	}
	placeholders := strings.TrimSuffix(strings.Repeat("?,", len(keys)), ",")

	rows, err := s.db.QueryContext(ctx, `
		SELECT `+eventColumns+`
		FROM events
		WHERE scope_key IN (`+placeholders+`)
		ORDER BY start_ms ASC, id COLLATE BINARY ASC
	`, keys...)
	if err != nil {
		return nil, fmt.Errorf("query viewer %s: %w", ownerID, err)
	}
	return scanEvents(rows)
}

// CountByScope returns the number of events per source within scope.
func (s *Store) CountByScope(ctx context.Context, scope event.Scope) (map[event.Source]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT source, COUNT(*) FROM events WHERE scope_key = ? GROUP BY source
	`, scope.Key())
	if err != nil {
		return nil, fmt.Errorf("count %s: %w", scope, err)
	}
	defer rows.Close()

	counts := make(map[event.Source]int)
	for rows.Next() {
		var src string
		var n int
		if err := rows.Scan(&src, &n); err != nil {
			return nil, fmt.Errorf("count %s: %w", scope, err)
		}
		counts[event.Source(src)] = n
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("count %s: %w", scope, err)
	}
	return counts, nil
}
