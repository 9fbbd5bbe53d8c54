package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/promptalchemy/alchemy-go/internal/app"
	"github.com/promptalchemy/alchemy-go/internal/domain"
)

// NewLimitsCommand creates the limits command showing per-provider quota
// state.
func NewLimitsCommand(container *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "limits",
		Short: "Show rate limit quotas and headroom",
		RunE: func(cmd *cobra.Command, args []string) error {
			for _, id := range domain.ProviderIDs() {
				quota := container.Limiter.Quota(id)
				count, reset := container.Limiter.Remaining(id)
				line := fmt.Sprintf("%-10s %d calls / %s  remaining %d", id, quota.MaxCalls, quota.Window, count)
				if reset > 0 {
					line += fmt.Sprintf("  next slot in %s", reset.Round(time.Second))
				}
				fmt.Fprintln(cmd.OutOrStdout(), line)
			}
			return nil
		},
	}
}
