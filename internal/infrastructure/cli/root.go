// Package cli wires the cobra command tree over the application container.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/promptalchemy/alchemy-go/internal/app"
	"github.com/promptalchemy/alchemy-go/internal/infrastructure/cli/commands"
)

// Options holds CLI-level configuration.
type Options struct {
	Verbose bool
}

// NewRootCmd builds the cobra root command and its subcommands.
func NewRootCmd(ctx context.Context, opts Options) (*cobra.Command, error) {
	container, err := app.BuildContainer(opts.Verbose)
	if err != nil {
		return nil, err
	}

	enhanceCmd := commands.NewEnhanceCommand(container, NewClipboard())

	root := &cobra.Command{
		Use:   "alchemy [prompt]",
		Short: "PromptAlchemy - turn rough prompts into polished ones",
		Long: "PromptAlchemy enhances a rough prompt into a well-structured one " +
			"using your configured LLM provider, with local history and projects.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) == 0 {
				return cmd.Help()
			}
			enhanceCmd.SetArgs(args)
			return enhanceCmd.ExecuteContext(cmd.Context())
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(enhanceCmd)
	root.AddCommand(commands.NewKeysCommand(container))
	root.AddCommand(commands.NewHistoryCommand(container))
	root.AddCommand(commands.NewProjectCommand(container))
	root.AddCommand(commands.NewLimitsCommand(container))
	root.AddCommand(commands.NewProvidersCommand(container))
	root.AddCommand(commands.NewImportCommand(container))
	root.AddCommand(commands.NewVersionCommand())
	return root, nil
}
