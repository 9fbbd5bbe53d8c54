package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/promptalchemy/alchemy-go/internal/domain"
)

// NewVersionCommand creates the version command.
func NewVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print the application version",
		RunE: func(cmd *cobra.Command, args []string) error {
			fmt.Fprintf(cmd.OutOrStdout(), "%s %s\n", domain.AppName, domain.AppVersion)
			return nil
		},
	}
}
