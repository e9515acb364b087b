package cli

import (
	"context"

	"github.com/spf13/cobra"
)

// ListOptions holds flags for the list command.
type ListOptions struct {
	*RootOptions
	scopeFlags
}

// NewListCommand creates the list command.
func NewListCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &ListOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the events of one schedule",
		Long: `List the events of a personal or cohort schedule ordered by start.

Examples:
  cohortcal list --owner alice
  cohortcal list --program CS --year 1 --format json`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(opts, cmd)
		},
	}

	opts.bindOwner(cmd)
	opts.bindCohort(cmd)

	return cmd
}

func runList(opts *ListOptions, cmd *cobra.Command) error {
	scope, err := opts.either()
	if err != nil {
		return err
	}

	st, err := openStore(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	events, err := st.QueryByScope(context.Background(), scope)
	if err != nil {
		return WrapExitError(ExitFailure, "failed to list events", err)
	}

	return opts.formatter(cmd).Success(eventList(events))
}
