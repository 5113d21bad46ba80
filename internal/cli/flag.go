package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/example/modflag/internal/ports/primary"
	"github.com/example/modflag/internal/wire"
)

// FlagCmd returns the flag command
func FlagCmd() *cobra.Command {
	var targetUserID, comment string

	cmd := &cobra.Command{
		Use:   "flag <message-id>",
		Short: "Report an inbox message to the moderators",
		Long: `Flag a private message as inappropriate and escalate it to the moderators.

The message is looked up in the inbox of the --as owner. Admins can pass
--user to flag a message in another owner's inbox; their flag forces the
message over the visibility threshold.

Examples:
  modflag --as USER-001 flag MSG-002 --comment "insulting"
  modflag --as ADMIN-001 flag MSG-002 --user USER-001`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := NewContext()

			actorID := GetActorID()
			if actorID == "" {
				return fmt.Errorf("--as is required to flag a message")
			}

			owner, err := wire.InboxService().GetOwner(ctx, actorID)
			if err != nil {
				return describeError(fmt.Errorf("failed to resolve reporter: %w", err))
			}

			_, err = wire.FlagAdapter().Flag(ctx, primary.FlagRequest{
				Reporter:     owner.Reporter(),
				MessageID:    args[0],
				TargetUserID: targetUserID,
				Comment:      comment,
			})
			return describeError(err)
		},
	}

	cmd.Flags().StringVar(&targetUserID, "user", "", "Inbox owner to act on (admins only)")
	cmd.Flags().StringVar(&comment, "comment", "", "Optional note for the moderators")

	return cmd
}
