package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/promptalchemy/alchemy-go/internal/app"
	"github.com/promptalchemy/alchemy-go/internal/domain"
)

// NewKeysCommand creates the keys command with its subcommands.
func NewKeysCommand(container *app.Container) *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage provider API keys",
	}
	keysCmd.AddCommand(
		newKeysSetCommand(container),
		newKeysGetCommand(container),
		newKeysDeleteCommand(container),
	)
	return keysCmd
}

func newKeysSetCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "set <provider> <api-key>",
		Short: "Store an API key",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider, key := args[0], args[1]
			if key == "" {
				return fmt.Errorf("empty API key")
			}
			if container.Creds.Set(provider, key) {
				fmt.Fprintf(cmd.OutOrStdout(), "Stored %s key in the system keyring.\n", provider)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "Keyring unavailable; stored %s key in the config file.\n", provider)
			}
			return nil
		},
	}
}

func newKeysGetCommand(container *app.Container) *cobra.Command {
	var reveal bool

	cmd := &cobra.Command{
		Use:   "get <provider>",
		Short: "Check whether an API key is configured",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := args[0]
			key, ok := container.Creds.Get(provider)
			if !ok {
				fmt.Fprintf(cmd.OutOrStdout(), "No API key for %s. Get one at %s\n",
					provider, domain.KeyURL(provider))
				return nil
			}
			if reveal {
				fmt.Fprintln(cmd.OutOrStdout(), key)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "API key for %s is configured (%s).\n", provider, maskKey(key))
			}
			return nil
		},
	}

	cmd.Flags().BoolVar(&reveal, "reveal", false, "Print the key itself")
	return cmd
}

func newKeysDeleteCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <provider>",
		Short: "Remove an API key from the keyring",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			provider := args[0]
			if container.Creds.Delete(provider) {
				fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s key.\n", provider)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "No stored key for %s.\n", provider)
			}
			return nil
		},
	}
}

func maskKey(key string) string {
	if len(key) <= 8 {
		return "****"
	}
	return key[:4] + "..." + key[len(key)-4:]
}
