// Package cli implements the leadctl administration commands.
package cli

import (
	"github.com/spf13/cobra"
)

// RootCmd returns the leadctl command tree.
func RootCmd(version string) *cobra.Command {
	root := &cobra.Command{
		Use:     "leadctl",
		Short:   "Administer the lead distribution service",
		Version: version,
		Long: `leadctl manages the lead distribution store directly.

Storage is selected the same way as for the API server, through
STORAGE_DRIVER, SQLITE_PATH and POSTGRES_DSN (a .env file is honored).`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(MigrateCmd())
	root.AddCommand(SeedCmd())
	root.AddCommand(SimulateCmd())
	root.AddCommand(LoadCmd())
	return root
}
