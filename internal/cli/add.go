package cli

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/roach88/cohortcal/internal/event"
)

// AddOptions holds flags for the add command.
type AddOptions struct {
	*RootOptions
	scopeFlags
	Title       string
	Start       string
	End         string
	Type        string
	Location    string
	Description string
}

// addedEvent prints the stored event in text mode.
type addedEvent struct {
	event.Event
}

func (a addedEvent) String() string {
	return "added " + formatEventLine(a.Event)
}

// NewAddCommand creates the add command.
func NewAddCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &AddOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a personal event",
		Long: `Add an event to a personal schedule by hand.

Start and end accept ISO 8601 timestamps or epoch milliseconds.
Timestamps without an offset are read as UTC.

Examples:
  cohortcal add --owner alice --title Gym --start 2025-03-10T10:00:00Z --end 2025-03-10T10:30:00Z
  cohortcal add --owner alice --title Seminar --type study --start 1741597200000 --end 1741600800000`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAdd(opts, cmd)
		},
	}

	opts.bindOwner(cmd)
	cmd.Flags().StringVar(&opts.Title, "title", "", "event title (required)")
	cmd.Flags().StringVar(&opts.Start, "start", "", "start instant (required)")
	cmd.Flags().StringVar(&opts.End, "end", "", "end instant (required)")
	cmd.Flags().StringVar(&opts.Type, "type", string(event.TypePersonal), "event type (personal|study)")
	cmd.Flags().StringVar(&opts.Location, "location", "", "location")
	cmd.Flags().StringVar(&opts.Description, "description", "", "description")
	for _, name := range []string{"owner", "title", "start", "end"} {
		_ = cmd.MarkFlagRequired(name)
	}

	return cmd
}

func runAdd(opts *AddOptions, cmd *cobra.Command) error {
	scope, err := opts.personal()
	if err != nil {
		return err
	}
	typ, err := event.ParseType(opts.Type)
	if err != nil {
		return NewExitError(ExitCommandError, err.Error())
	}
	start, err := event.ParseInstant(opts.Start)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --start", err)
	}
	end, err := event.ParseInstant(opts.End)
	if err != nil {
		return WrapExitError(ExitCommandError, "invalid --end", err)
	}

	e := event.Event{
		ID:          opts.idGenerator().Generate(),
		Scope:       scope,
		Title:       strings.TrimSpace(opts.Title),
		Type:        typ,
		Start:       start,
		End:         end,
		Location:    strings.TrimSpace(opts.Location),
		Description: strings.TrimSpace(opts.Description),
		Source:      event.SourceManual,
	}
	if err := e.Validate(); err != nil {
		return NewExitError(ExitCommandError, err.Error())
	}

	st, err := openStore(opts.Database)
	if err != nil {
		return err
	}
	defer st.Close()

	if err := st.InsertEvent(context.Background(), e); err != nil {
		return WrapExitError(ExitFailure, fmt.Sprintf("failed to add event for %s", scope), err)
	}

	return opts.formatter(cmd).Success(addedEvent{e})
}
