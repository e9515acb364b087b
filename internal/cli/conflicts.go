package cli

import (
	"context"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cohortcal/internal/conflict"
	"github.com/roach88/cohortcal/internal/event"
)

// ConflictsOptions holds flags for the conflicts command.
type ConflictsOptions struct {
	*RootOptions
	scopeFlags
}

// conflictReport renders through conflict.Render in text mode.
type conflictReport struct {
	Conflicts []conflict.Pair `json:"conflicts"`
}

func (r conflictReport) String() string {
	var b strings.Builder
	_ = conflict.Render(&b, r.Conflicts)
	return strings.TrimSuffix(b.String(), "\n")
}

// NewConflictsCommand creates the conflicts command.
func NewConflictsCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ConflictsOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "conflicts",
		Short: "Show overlapping events for a viewer",
		Long: `Show every overlap in a viewer's merged schedule.

The merged schedule is the owner's personal events plus, when
--program/--year are given, the cohort's shared events. Study events
take priority over personal ones; overlaps between two personal events
need manual resolution. Overlaps between two study events are not shown.

Examples:
  cohortcal conflicts --owner alice --program CS --year 1
  cohortcal conflicts --owner alice --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runConflicts(opts, cmd)
		},
	}

	opts.bindOwner(cmd)
	opts.bindCohort(cmd)
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func runConflicts(opts *ConflictsOptions, cmd *cobra.Command) error {
	viewer, err := opts.personal()
	if err != nil {
		return err
	}
	var shared []event.Scope
	if opts.hasCohort() {
		cohort, err := opts.shared()
		if err != nil {
			return err
		}
		shared = append(shared, cohort)
	}

	st, err := openStore(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	events, err := st.ViewerEvents(context.Background(), viewer.OwnerID, shared...)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to load events", err)
	}

	out := opts.formatter(cmd)
	out.VerboseLog("checking %d events for %s", len(events), viewer)

	return out.Success(conflictReport{Conflicts: conflict.Detect(events)})
}
