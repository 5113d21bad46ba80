package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/modflag/internal/ports/primary"
	"github.com/example/modflag/internal/wire"
)

// InboxCmd returns the inbox command
func InboxCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inbox",
		Short: "Send and list private messages",
	}

	cmd.AddCommand(inboxAddCmd())
	cmd.AddCommand(inboxListCmd())

	return cmd
}

func inboxAddCmd() *cobra.Command {
	var from, text string

	cmd := &cobra.Command{
		Use:   "add <owner-id>",
		Short: "Deliver a message into an owner's inbox",
		Long: `Deliver a private message into an owner's inbox.

Examples:
  modflag inbox add USER-001 --from USER-002 --text "hello there"`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if from == "" {
				from = GetActorID()
			}
			if from == "" {
				return fmt.Errorf("--from or --as is required")
			}

			_, err := wire.InboxAdapter().Post(NewContext(), primary.PostMessageRequest{
				OwnerID:  args[0],
				AuthorID: from,
				Text:     text,
			})
			return describeError(err)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Author owner ID (defaults to --as)")
	cmd.Flags().StringVar(&text, "text", "", "Message text")

	return cmd
}

func inboxListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list [owner-id]",
		Short: "List the messages in an inbox",
		Long: `List the messages in an owner's inbox, with flag counts.
Defaults to the inbox of the --as owner.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ownerID := GetActorID()
			if len(args) == 1 {
				ownerID = args[0]
			}
			if ownerID == "" {
				return fmt.Errorf("owner-id or --as is required")
			}

			_, err := wire.InboxAdapter().List(NewContext(), ownerID)
			return describeError(err)
		},
	}
}
