package event

import (
	"fmt"
	"strconv"
	"strings"
)

// ScopeKind distinguishes cohort-wide schedules from individual ones.
type ScopeKind string

const (
	// ScopeShared is a cohort schedule identified by (program, year).
	ScopeShared ScopeKind = "shared"

	// ScopePersonal is an individual owner's event collection.
	ScopePersonal ScopeKind = "personal"
)

// Scope identifies which schedule an event belongs to.
// Shared scopes use Program and Year; personal scopes use OwnerID.
type Scope struct {
	Kind    ScopeKind `json:"kind"`
	Program string    `json:"program,omitempty"`
	Year    int       `json:"year,omitempty"`
	OwnerID string    `json:"owner_id,omitempty"`
}

// SharedScope returns the cohort scope for a program and year.
func SharedScope(program string, year int) Scope {
	return Scope{Kind: ScopeShared, Program: program, Year: year}
}

// PersonalScope returns the scope of an individual owner.
func PersonalScope(ownerID string) Scope {
	return Scope{Kind: ScopePersonal, OwnerID: ownerID}
}

// IsShared reports whether the scope is a cohort scope.
func (s Scope) IsShared() bool {
	return s.Kind == ScopeShared
}

// Key returns the identity string of the scope.
//
// Format: "shared/<program>/<year>" or "personal/<owner>".
func (s Scope) Key() string {
	switch s.Kind {
	case ScopeShared:
		return "shared/" + s.Program + "/" + strconv.Itoa(s.Year)
	case ScopePersonal:
		return "personal/" + s.OwnerID
	default:
		return string(s.Kind)
	}
}

// String implements fmt.Stringer.
func (s Scope) String() string {
	return s.Key()
}

// Validate checks that the scope carries the fields its kind requires.
func (s Scope) Validate() error {
	switch s.Kind {
	case ScopeShared:
		if strings.TrimSpace(s.Program) == "" {
			return fmt.Errorf("shared scope requires a program")
		}
		if s.Year <= 0 {
			return fmt.Errorf("shared scope requires a positive year, got %d", s.Year)
		}
		return nil
	case ScopePersonal:
		if strings.TrimSpace(s.OwnerID) == "" {
			return fmt.Errorf("personal scope requires an owner")
		}
		return nil
	default:
		return fmt.Errorf("invalid scope kind %q: must be shared or personal", s.Kind)
	}
}
