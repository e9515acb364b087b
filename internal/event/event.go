package event

import (
	"fmt"
	"strings"
	"time"
)

// Type classifies an event for conflict priority.
type Type string

const (
	// TypeStudy marks institutional events (lectures, labs, exams).
	TypeStudy Type = "study"

	// TypePersonal marks events the owner entered or imported for themselves.
	TypePersonal Type = "personal"
)

// ParseType converts a loosely-typed type label into a Type.
// Empty input defaults to TypeStudy; matching is case-insensitive.
func ParseType(s string) (Type, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", string(TypeStudy):
		return TypeStudy, nil
	case string(TypePersonal):
		return TypePersonal, nil
	default:
		return "", fmt.Errorf("invalid event type %q: must be study or personal", s)
	}
}

// Source records where an event's authoritative copy comes from.
type Source string

const (
	// SourceManual events were entered by a user.
	SourceManual Source = "manual"

	// SourceImported events come from an external feed or file.
	SourceImported Source = "imported"
)

// ParseSource converts a stored source label into a Source.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceManual, SourceImported:
		return Source(s), nil
	default:
		return "", fmt.Errorf("invalid event source %q: must be manual or imported", s)
	}
}

// Event is a single scheduled interval [Start, End).
type Event struct {
	ID          string    `json:"id"`
	Scope       Scope     `json:"scope"`
	Title       string    `json:"title"`
	Type        Type      `json:"type"`
	Start       time.Time `json:"start"`
	End         time.Time `json:"end"`
	Location    string    `json:"location,omitempty"`
	Description string    `json:"description,omitempty"`
	Source      Source    `json:"source"`
}

// Validate checks the event invariants.
func (e Event) Validate() error {
	if e.ID == "" {
		return fmt.Errorf("event id is empty")
	}
	if err := e.Scope.Validate(); err != nil {
		return fmt.Errorf("event %s: %w", e.ID, err)
	}
	if strings.TrimSpace(e.Title) == "" {
		return fmt.Errorf("event %s: title is empty", e.ID)
	}
	if _, err := ParseType(string(e.Type)); err != nil {
		return fmt.Errorf("event %s: %w", e.ID, err)
	}
	if _, err := ParseSource(string(e.Source)); err != nil {
		return fmt.Errorf("event %s: %w", e.ID, err)
	}
	if !e.End.After(e.Start) {
		return fmt.Errorf("event %s: end %s is not after start %s",
			e.ID, e.End.Format(time.RFC3339), e.Start.Format(time.RFC3339))
	}
	return nil
}

// Overlaps reports whether two events share any instant.
// Touching endpoints do not overlap.
func (e Event) Overlaps(other Event) bool {
	return e.Start.Before(other.End) && other.Start.Before(e.End)
}

// Duration returns End - Start.
func (e Event) Duration() time.Duration {
	return e.End.Sub(e.Start)
}

// String implements fmt.Stringer.
func (e Event) String() string {
	return fmt.Sprintf("<[%s] %s:%s @ %s//%s>", e.ID, e.Type, e.Title,
		e.Start.Format("2006-01-02 15:04 MST"), e.Duration())
}
