package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/promptalchemy/alchemy-go/internal/app"
	"github.com/promptalchemy/alchemy-go/internal/domain"
)

// NewProvidersCommand creates the providers command listing the catalog and
// key status.
func NewProvidersCommand(container *app.Container) *cobra.Command {
	var (
		models bool
		all    bool
	)

	cmd := &cobra.Command{
		Use:   "providers",
		Short: "List supported providers",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := container.Config.Load()
			if err != nil {
				return err
			}
			ids := domain.EnabledProviderIDs()
			if all {
				ids = domain.ProviderIDs()
			}
			for _, id := range ids {
				marker := " "
				if domain.NormalizeProviderID(cfg.DefaultProvider) == id {
					marker = "*"
				}
				status := "no key needed"
				if domain.RequiresAPIKey(id) {
					if _, ok := container.Creds.Get(id); ok {
						status = "key configured"
					} else {
						status = "key missing"
					}
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s %-10s %-12s %s\n",
					marker, id, status, domain.ProviderDisplayName(id))
				if models {
					fmt.Fprintf(cmd.OutOrStdout(), "    models: %s\n",
						strings.Join(domain.ProviderModels(id), ", "))
				}
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&models, "models", false, "Also list each provider's models")
	cmd.Flags().BoolVar(&all, "all", false, "Include local providers not enabled by default")
	return cmd
}
