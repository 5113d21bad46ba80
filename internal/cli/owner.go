package cli

import (
	"github.com/spf13/cobra"

	"github.com/example/modflag/internal/ports/primary"
	"github.com/example/modflag/internal/wire"
)

// OwnerCmd returns the owner command
func OwnerCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "owner",
		Short: "Manage inbox owners",
		Long:  `Create and inspect the users that own an inbox and can flag messages.`,
	}

	cmd.AddCommand(ownerAddCmd())
	cmd.AddCommand(ownerShowCmd())

	return cmd
}

func ownerAddCmd() *cobra.Command {
	var req primary.CreateOwnerRequest

	cmd := &cobra.Command{
		Use:   "add <id>",
		Short: "Create an inbox owner",
		Long: `Create an inbox owner.

Examples:
  modflag owner add USER-001 --name Una --email una@example.com
  modflag owner add ADMIN-001 --name Ada --admin`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req.ID = args[0]
			_, err := wire.InboxAdapter().AddOwner(NewContext(), req)
			return describeError(err)
		},
	}

	cmd.Flags().StringVar(&req.Name, "name", "", "Display name")
	cmd.Flags().StringVar(&req.Username, "username", "", "Login name")
	cmd.Flags().StringVar(&req.Email, "email", "", "Email address")
	cmd.Flags().StringVar(&req.Language, "language", "en", "Preferred language")
	cmd.Flags().BoolVar(&req.Admin, "admin", false, "Grant moderator privileges")

	return cmd
}

func ownerShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Show an inbox owner",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := wire.InboxAdapter().ShowOwner(NewContext(), args[0])
			return describeError(err)
		},
	}
}
