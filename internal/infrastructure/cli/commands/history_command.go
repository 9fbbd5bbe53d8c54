package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/promptalchemy/alchemy-go/internal/app"
	"github.com/promptalchemy/alchemy-go/internal/domain"
	"github.com/promptalchemy/alchemy-go/internal/ports"
)

const msgNoHistory = "No enhancements recorded yet."

// NewHistoryCommand creates the history command with its subcommands.
func NewHistoryCommand(container *app.Container) *cobra.Command {
	historyCmd := &cobra.Command{
		Use:   "history",
		Short: "Inspect enhancement history",
	}
	historyCmd.AddCommand(
		newHistoryListCommand(container),
		newHistorySearchCommand(container),
		newHistoryShowCommand(container),
		newHistoryClearCommand(container),
		newHistoryExportCommand(container),
	)
	return historyCmd
}

func newHistoryListCommand(container *app.Container) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List recent enhancements",
		RunE: func(cmd *cobra.Command, args []string) error {
			results, err := container.History.Records(limit)
			if err != nil {
				return err
			}
			return renderHistory(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", domain.DefaultHistoryLimit, "Max entries to show")
	return cmd
}

func newHistorySearchCommand(container *app.Container) *cobra.Command {
	var (
		provider string
		model    string
		since    string
		until    string
		limit    int
	)

	cmd := &cobra.Command{
		Use:   "search [query]",
		Short: "Search enhancement history",
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := ports.HistoryFilter{
				Provider: provider,
				Model:    model,
				Since:    since,
				Until:    until,
				Limit:    limit,
			}
			if len(args) > 0 {
				filter.Query = args[0]
			}
			results, err := container.History.Search(filter)
			if err != nil {
				return err
			}
			return renderHistory(cmd.OutOrStdout(), results)
		},
	}

	cmd.Flags().StringVar(&provider, "provider", "", "Filter by provider")
	cmd.Flags().StringVar(&model, "model", "", "Filter by model")
	cmd.Flags().StringVar(&since, "since", "", "Only entries at or after this RFC3339 timestamp")
	cmd.Flags().StringVar(&until, "until", "", "Only entries at or before this RFC3339 timestamp")
	cmd.Flags().IntVar(&limit, "limit", domain.DefaultHistorySearchLimit, "Limit search results")
	return cmd
}

func newHistoryShowCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "show <index>",
		Short: "Show one entry in full, 0 being the most recent",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var index int
			if _, err := fmt.Sscanf(args[0], "%d", &index); err != nil {
				return fmt.Errorf("invalid index %q", args[0])
			}
			result, ok, err := container.History.EntryByIndex(index)
			if err != nil {
				return err
			}
			if !ok {
				return fmt.Errorf("no history entry at index %d", index)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Original Prompt:\n%s\n\n", result.OriginalPrompt)
			renderResult(cmd.OutOrStdout(), result)
			return nil
		},
	}
}

func newHistoryClearCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Delete all history entries",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.History.Clear(); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "History cleared.")
			return nil
		},
	}
}

func newHistoryExportCommand(container *app.Container) *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export <path>",
		Short: "Export history to a file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := container.History.Export(args[0], format); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "History exported to %s\n", args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "array", `Export format: "array" or "lines"`)
	return cmd
}

func renderHistory(w io.Writer, results []domain.EnhanceResult) error {
	if len(results) == 0 {
		fmt.Fprintln(w, msgNoHistory)
		return nil
	}
	for i, result := range results {
		renderHistoryEntry(w, i, result)
	}
	return nil
}
