package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cohortcal/internal/event"
	"github.com/roach88/cohortcal/internal/store"
)

// scopeFlags selects a personal scope (--owner) or a shared one
// (--program and --year).
type scopeFlags struct {
	Owner   string
	Program string
	Year    int
}

func (f *scopeFlags) bindOwner(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Owner, "owner", "", "owner id of the personal schedule")
}

func (f *scopeFlags) bindCohort(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.Program, "program", "", "cohort program (e.g. CS)")
	cmd.Flags().IntVar(&f.Year, "year", 0, "cohort year")
}

// hasCohort reports whether any cohort flag was given.
func (f *scopeFlags) hasCohort() bool {
	return f.Program != "" || f.Year != 0
}

// shared returns the cohort scope named by the flags.
func (f *scopeFlags) shared() (event.Scope, error) {
	s := event.SharedScope(strings.TrimSpace(f.Program), f.Year)
	if err := s.Validate(); err != nil {
		return event.Scope{}, NewExitError(ExitCommandError, err.Error())
	}
	return s, nil
}

// personal returns the owner scope named by the flags.
func (f *scopeFlags) personal() (event.Scope, error) {
	s := event.PersonalScope(strings.TrimSpace(f.Owner))
	if err := s.Validate(); err != nil {
		return event.Scope{}, NewExitError(ExitCommandError, "--owner is required")
	}
	return s, nil
}

// either returns the scope named by exactly one of --owner or the cohort
// flags.
func (f *scopeFlags) either() (event.Scope, error) {
	switch {
	case f.Owner != "" && f.hasCohort():
		return event.Scope{}, NewExitError(ExitCommandError, "use either --owner or --program/--year, not both")
	case f.Owner != "":
		return f.personal()
	case f.hasCohort():
		return f.shared()
	default:
		return event.Scope{}, NewExitError(ExitCommandError, "a scope is required: --owner or --program/--year")
	}
}

func openStore(path string) (*store.Store, error) {
	st, err := store.Open(path)
	if err != nil {
		return nil, WrapExitError(ExitCommandError, "failed to open database", err)
	}
	return st, nil
}

// eventList renders events one per line in text mode.
type eventList []event.Event

func (l eventList) String() string {
	if len(l) == 0 {
		return "no events"
	}
	var b strings.Builder
	for i, e := range l {
		if i > 0 {
			b.WriteByte('\n')
		}
		b.WriteString(formatEventLine(e))
	}
	return b.String()
}

func formatEventLine(e event.Event) string {
	line := fmt.Sprintf("%s  %s - %s  %s (%s, %s)",
		e.ID, event.FormatInstant(e.Start), event.FormatInstant(e.End), e.Title, e.Type, e.Source)
	if e.Location != "" {
		line += " @ " + e.Location
	}
	return line
}
