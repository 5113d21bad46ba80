package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/example/modflag/internal/db"
)

// DevCmd returns the dev command group for development utilities.
func DevCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "dev",
		Short: "Development utilities",
		Long: `Development utilities for working with a throwaway modflag database.

These commands require MODFLAG_DB_PATH to be set explicitly, to prevent
accidental modification of the default database.`,
	}

	cmd.AddCommand(devResetCmd())
	return cmd
}

func devResetCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Reset dev database with fresh fixtures",
		Long: `Delete the dev database and recreate it with fixture data.

This command:
1. Deletes the existing database file at MODFLAG_DB_PATH
2. Creates a fresh database with the current schema
3. Seeds two users, an admin and a few inbox messages`,
		RunE: func(cmd *cobra.Command, args []string) error {
			// Safety check: require MODFLAG_DB_PATH to be set
			dbPath := os.Getenv("MODFLAG_DB_PATH")
			if dbPath == "" {
				return fmt.Errorf("MODFLAG_DB_PATH not set\n\nThis safety check prevents accidental reset of your default database")
			}

			// Confirmation unless --force
			if !force {
				fmt.Printf("This will delete and recreate: %s\n", dbPath)
				fmt.Print("Continue? [y/N] ")
				var response string
				fmt.Scanln(&response)
				if response != "y" && response != "Y" {
					fmt.Println("Aborted.")
					return nil
				}
			}

			if err := os.Remove(dbPath); err != nil && !os.IsNotExist(err) {
				return fmt.Errorf("failed to delete database: %w", err)
			}

			database, err := db.Open(dbPath)
			if err != nil {
				return err
			}
			defer database.Close()

			if err := db.SeedFixtures(database); err != nil {
				return fmt.Errorf("failed to seed fixtures: %w", err)
			}

			fmt.Printf("✓ Dev database reset: %s\n", dbPath)
			fmt.Println("  Try: modflag --as USER-001 inbox list")
			return nil
		},
	}

	cmd.Flags().BoolVarP(&force, "force", "f", false, "Skip confirmation prompt")
	return cmd
}
