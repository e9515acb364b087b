package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/roach88/cohortcal/internal/store"
)

// DeleteOptions holds flags for the delete command.
type DeleteOptions struct {
	*RootOptions
	scopeFlags
}

type deletedEvent struct {
	ID string `json:"id"`
}

func (d deletedEvent) String() string {
	return "deleted " + d.ID
}

// NewDeleteCommand creates the delete command.
func NewDeleteCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &DeleteOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "delete <event-id>",
		Short: "Delete one of your events",
		Long: `Delete an event from a personal schedule.

Only events in the owner's own schedule can be deleted.

Example:
  cohortcal delete --owner alice 0192f4a6-...`,
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runDelete(opts, cmd, args[0])
		},
	}

	opts.bindOwner(cmd)
	_ = cmd.MarkFlagRequired("owner")

	return cmd
}

func runDelete(opts *DeleteOptions, cmd *cobra.Command, id string) error {
	scope, err := opts.personal()
	if err != nil {
		return err
	}

	st, err := openStore(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.DeleteEvent(context.Background(), scope.OwnerID, id); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return WrapExitError(ExitCommandError, fmt.Sprintf("no event %s in %s", id, scope), err)
		}
		return WrapExitError(ExitFailure, "failed to delete event", err)
	}

	return opts.formatter(cmd).Success(deletedEvent{ID: id})
}
