package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/promptalchemy/alchemy-go/internal/app"
	"github.com/promptalchemy/alchemy-go/internal/infrastructure/config"
)

// NewImportCommand creates the import-imageai command. The same merge runs
// once at startup; this makes it explicit and reports the outcome.
func NewImportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "import-imageai",
		Short: "Import credentials and auth settings from a sibling ImageAI install",
		RunE: func(cmd *cobra.Command, args []string) error {
			importer := config.NewImporter(container.Creds, container.Logger)
			if importer.ImportOnce(container.Config) {
				fmt.Fprintln(cmd.OutOrStdout(), "Imported missing settings from ImageAI.")
			} else {
				fmt.Fprintln(cmd.OutOrStdout(), "Nothing to import.")
			}
			return nil
		},
	}
}
