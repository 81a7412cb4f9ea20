package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"partyline/internal/app"
	appver "partyline/internal/version"
)

// defaultServerURL is used when no positional argument is given.
const defaultServerURL = "ws://127.0.0.1:9001"

var rootCmd = &cobra.Command{
	Use:     "partyline [server-url]",
	Short:   "partyline - terminal chat client",
	Long:    "partyline is a terminal client for room-based chat servers speaking JSON frames over WebSocket.",
	Args:    cobra.MaximumNArgs(1),
	Version: appver.AppVersion,
	RunE: func(cmd *cobra.Command, args []string) error {
		url := defaultServerURL
		if len(args) > 0 {
			url = args[0]
		}
		return app.Start(url)
	},
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the CLI.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
