package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/promptalchemy/alchemy-go/internal/app"
	"github.com/promptalchemy/alchemy-go/internal/ports"
)

// NewProjectCommand creates the project command with its subcommands.
func NewProjectCommand(container *app.Container) *cobra.Command {
	projectCmd := &cobra.Command{
		Use:   "project",
		Short: "Manage prompt projects",
	}
	projectCmd.AddCommand(
		newProjectCreateCommand(container),
		newProjectListCommand(container),
		newProjectShowCommand(container),
		newProjectAddCommand(container),
		newProjectDeleteCommand(container),
		newProjectTagCommand(container),
		newProjectDescribeCommand(container),
		newProjectExportCommand(container),
	)
	return projectCmd
}

func newProjectCreateCommand(container *app.Container) *cobra.Command {
	var description string

	cmd := &cobra.Command{
		Use:   "create <name>",
		Short: "Create a new project",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := container.Projects.Create(args[0])
			if err != nil {
				return err
			}
			if description != "" {
				if err := proj.SetDescription(description); err != nil {
					return err
				}
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created project %q.\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVarP(&description, "description", "d", "", "Project description")
	return cmd
}

func newProjectListCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			metas, err := container.Projects.List()
			if err != nil {
				return err
			}
			if len(metas) == 0 {
				fmt.Fprintln(cmd.OutOrStdout(), "No projects yet.")
				return nil
			}
			for _, meta := range metas {
				fmt.Fprintf(cmd.OutOrStdout(), "%s  (%d prompts)  created %s\n",
					meta.Name, meta.PromptCount, meta.Created)
				if meta.Description != "" {
					fmt.Fprintf(cmd.OutOrStdout(), "    %s\n", meta.Description)
				}
			}
			return nil
		},
	}
}

func newProjectShowCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show <name>",
		Short: "Show a project and its prompts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := openProject(container, args[0])
			if err != nil {
				return err
			}
			meta := proj.Metadata()
			fmt.Fprintf(cmd.OutOrStdout(), "Project: %s\n", proj.Name())
			if meta.Description != "" {
				fmt.Fprintf(cmd.OutOrStdout(), "Description: %s\n", meta.Description)
			}
			if len(meta.Tags) > 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "Tags: %v\n", meta.Tags)
			}
			prompts, err := proj.Prompts()
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Prompts: %d\n", len(prompts))
			for i, result := range prompts {
				renderHistoryEntry(cmd.OutOrStdout(), i, result)
			}
			return nil
		},
	}
}

func newProjectAddCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "add <name> <history-index>",
		Short: "Copy a history entry into a project, 0 being the most recent",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := openProject(container, args[0])
			if err != nil {
				return err
			}
			var index int
			if _, err := fmt.Sscanf(args[1], "%d", &index); err != nil {
				return fmt.Errorf("invalid index %q", args[1])
			}
			result, ok, err := container.History.EntryByIndex(index)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no history entry at index %d", index)
			}
			if err := proj.AddPrompt(result); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Added history entry %d to %q.\n", index, args[0])
			return nil
		},
	}
}

func newProjectDeleteCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <name>",
		Short: "Delete a project and its prompts",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.Projects.Delete(args[0]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted project %q.\n", args[0])
			return nil
		},
	}
}

func newProjectTagCommand(container *app.Container) *cobra.Command {
	var remove bool

	cmd := &cobra.Command{
		Use:   "tag <name> <tag>...",
		Short: "Add or remove project tags",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := openProject(container, args[0])
			if err != nil {
				return err
			}
			if remove {
				return proj.RemoveTags(args[1:]...)
			}
			return proj.AddTags(args[1:]...)
		},
	}

	cmd.Flags().BoolVar(&remove, "remove", false, "Remove the tags instead of adding them")
	return cmd
}

func newProjectDescribeCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "describe <name> <description>",
		Short: "Set a project description",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := openProject(container, args[0])
			if err != nil {
				return err
			}
			return proj.SetDescription(args[1])
		},
	}
}

func newProjectExportCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "export <name> <path>",
		Short: "Export a project to a JSON document",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			proj, err := openProject(container, args[0])
			if err != nil {
				return err
			}
			if err := proj.Export(args[1]); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Project exported to %s\n", args[1])
			return nil
		},
	}
}

func openProject(container *app.Container, name string) (ports.Project, error) {
	proj, ok := container.Projects.Get(name)
	if !ok {
		return nil, fmt.Errorf("project %q not found", name)
	}
	return proj, nil
}
