package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/modflag/internal/cli"
	"github.com/example/modflag/internal/version"
)

func main() {
	rootCmd := &cobra.Command{
		Use:     "modflag",
		Short:   "modflag - report private messages to the moderators",
		Version: version.String(),
		Long: `modflag stores user inboxes and lets their owners flag abusive private
messages. A flag is persisted, the moderators are alerted by email, chat-ops
and the alert stream, and the message is marked as reported.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return cli.Bootstrap()
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return cli.Shutdown()
		},
	}
	cli.AddGlobalFlags(rootCmd)

	// Add subcommands
	rootCmd.AddCommand(cli.OwnerCmd())
	rootCmd.AddCommand(cli.InboxCmd())
	rootCmd.AddCommand(cli.FlagCmd())

	// Developer tools
	rootCmd.AddCommand(cli.DevCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
