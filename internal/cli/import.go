package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cohortcal/internal/event"
	"github.com/roach88/cohortcal/internal/reconcile"
	"github.com/roach88/cohortcal/internal/snapshot"
)

// ImportOptions holds flags for the import and import-ics commands.
type ImportOptions struct {
	*RootOptions
	scopeFlags
}

// ImportResult is the outcome of an import.
type ImportResult struct {
	Scope      string                         `json:"scope"`
	Status     reconcile.Status               `json:"status"`
	Events     []event.Event                  `json:"events"`
	Rejected   int                            `json:"rejected"`
	Rejections []snapshot.RejectedParsedEvent `json:"rejections,omitempty"`
}

func (r ImportResult) String() string {
	var b strings.Builder
	switch r.Status {
	case reconcile.StatusUnchanged:
		fmt.Fprintf(&b, "%s: no changes (%d events)", r.Scope, len(r.Events))
	default:
		fmt.Fprintf(&b, "%s: updated (%d events)", r.Scope, len(r.Events))
	}
	if r.Rejected > 0 {
		fmt.Fprintf(&b, "\n%d entries rejected:", r.Rejected)
		for _, rej := range r.Rejections {
			fmt.Fprintf(&b, "\n  #%d: %s", rej.Index, rej.Reason)
		}
	}
	return b.String()
}

// NewImportCommand creates the import command.
func NewImportCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import <snapshot>",
		Short: "Reconcile a cohort snapshot into the shared schedule",
		Long: `Reconcile a cohort timetable snapshot into the shared schedule.

The snapshot is a JSON array of events (or an object with an "events"
array) or an .ics file. Stored imported events of the cohort are replaced
only when the snapshot differs from them; entries missing a title, start
or end are skipped and reported.

Examples:
  cohortcal import --program CS --year 1 ./snapshots/cs-1.json
  cohortcal import --program CS --year 1 ./cs-1.json --format json`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := opts.shared()
			if err != nil {
				return err
			}
			return runImport(opts.RootOptions, cmd, scope, args[0], string(event.TypeStudy))
		},
	}

	opts.bindCohort(cmd)
	_ = cmd.MarkFlagRequired("program")
	_ = cmd.MarkFlagRequired("year")

	return cmd
}

// NewImportICSCommand creates the import-ics command.
func NewImportICSCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ImportOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "import-ics <file.ics>",
		Short: "Import a personal .ics file",
		Long: `Import the events of an .ics file into a personal schedule.

Events previously imported for the owner are replaced when the file
differs; manually added events are kept.

Example:
  cohortcal import-ics --owner alice ./alice.ics`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			scope, err := opts.personal()
			if err != nil {
				return err
			}
			return runImport(opts.RootOptions, cmd, scope, args[0], string(event.TypePersonal))
		},
	}

	opts.bindOwner(cmd)
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func runImport(opts *RootOptions, cmd *cobra.Command, scope event.Scope, path, typ string) error {
	entries, err := snapshot.ReadFile(path, typ)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to read snapshot", err)
	}

	st, err := openStore(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	out := opts.formatter(cmd)
	out.VerboseLog("importing %d entries into %s", len(entries), scope)

	rec := reconcile.New(st,
		reconcile.WithIDGenerator(opts.idGenerator()),
		reconcile.WithLogger(opts.logger(cmd.ErrOrStderr())),
	)
	res, err := rec.Reconcile(context.Background(), scope, entries)
	if err != nil {
		return importError(scope, err)
	}

	return out.Success(ImportResult{
		Scope:      scope.Key(),
		Status:     res.Status,
		Events:     res.Events,
		Rejected:   res.Rejected,
		Rejections: res.Rejections,
	})
}

// importError maps reconcile failures to exit codes so callers can tell
// "already running" from "failed".
func importError(scope event.Scope, err error) error {
	if reconcile.IsBusyError(err) {
		return WrapExitError(ExitBusy, fmt.Sprintf("import already running for %s", scope), err)
	}
	return WrapExitError(ExitFailure, fmt.Sprintf("import failed for %s", scope), err)
}
