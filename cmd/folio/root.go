package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/yanizio/folio/internal/logger"
)

var rootCmd = &cobra.Command{
	Use:   "folio",
	Short: "Folio serves a single-page portfolio with a live contact form",
	Long: `Folio renders portfolio content (projects, about, contact) and runs the
contact form state machine on the server, delivering accepted messages to
the site owner.`,
	SilenceUsage: true,
	PersistentPreRun: func(*cobra.Command, []string) {
		// Console logging until the configured file logger takes over.
		logger.Bootstrap()
	},
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
