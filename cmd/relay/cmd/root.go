package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "relay",
	Short: "Real-time message relay server",
	Long: `Relay is a best-effort real-time message relay.

It accepts persistent WebSocket connections, tracks which user occupies which
connection and which room, and routes chat events between connections by room
membership or direct addressing.

Use "relay [command] --help" for more information about a specific command.`,
}

// Execute executes the root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
