// Command cohortcal manages cohort and personal schedules.
package main

import (
	"os"

	"github.com/roach88/cohortcal/internal/cli"
)

func main() {
	root := cli.NewRootCommand()
	err := root.Execute()
	if err == nil {
		return
	}

	format, _ := root.PersistentFlags().GetString("format")
	if format != "json" {
		format = "text"
	}
	os.Exit(cli.ReportError(os.Stderr, format, err))
}
