package cli

import (
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/roach88/cohortcal/internal/fingerprint"
)

// FingerprintOptions holds flags for the fingerprint command.
type FingerprintOptions struct {
	*RootOptions
	scopeFlags
	Title       string
	Start       string
	End         string
	Type        string
	Location    string
	Description string
}

type fingerprintResult struct {
	Scope       string `json:"scope"`
	Fingerprint string `json:"fingerprint"`
	Start       string `json:"start"`
	End         string `json:"end"`
}

func (r fingerprintResult) String() string {
	return r.Fingerprint
}

// NewFingerprintCommand creates the fingerprint command.
func NewFingerprintCommand(rootOpts *RootOptions) *cobra.Command {
	opts := &FingerprintOptions{RootOptions: rootOpts}

	cmd := &cobra.Command{
		Use:   "fingerprint",
		Short: "Print the identity key of an event description",
		Long: `Print the identity key the importer uses to compare events.

Two descriptions with the same key are treated as the same event:
whitespace differences and different encodings of the same instant
do not change the key. An unparsable timestamp is hashed as given.

Example:
  cohortcal fingerprint --program CS --year 1 --title Algebra \
    --start 2025-03-10T09:00:00Z --end 1741604400000`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runFingerprint(opts, cmd)
		},
	}

	opts.bindOwner(cmd)
	opts.bindCohort(cmd)
	cmd.Flags().StringVar(&opts.Title, "title", "", "event title")
	cmd.Flags().StringVar(&opts.Start, "start", "", "start instant")
	cmd.Flags().StringVar(&opts.End, "end", "", "end instant")
	cmd.Flags().StringVar(&opts.Type, "type", "", "event type (default study)")
	cmd.Flags().StringVar(&opts.Location, "location", "", "location")
	cmd.Flags().StringVar(&opts.Description, "description", "", "description")

	return cmd
}

func runFingerprint(opts *FingerprintOptions, cmd *cobra.Command) error {
	scope, err := opts.either()
	if err != nil {
		return err
	}

	start, startOK := fingerprint.Instant(opts.Start)
	end, endOK := fingerprint.Instant(opts.End)
	log := opts.logger(cmd.ErrOrStderr())
	warnMalformed(log, "start", opts.Start, startOK)
	warnMalformed(log, "end", opts.End, endOK)

	key := fingerprint.Build(scope, fingerprint.Input{
		Title:       opts.Title,
		Type:        opts.Type,
		Start:       opts.Start,
		End:         opts.End,
		Location:    opts.Location,
		Description: opts.Description,
	})

	return opts.formatter(cmd).Success(fingerprintResult{
		Scope:       scope.Key(),
		Fingerprint: key,
		Start:       start,
		End:         end,
	})
}

func warnMalformed(log *slog.Logger, field, raw string, ok bool) {
	if !ok {
		log.Warn("timestamp not parsed, hashing raw value", "field", field, "value", raw)
	}
}
