package commands

import (
	"fmt"
	"io"
	"strings"

	"github.com/promptalchemy/alchemy-go/internal/domain"
)

// renderResult prints an enhancement result in a friendly, ASCII-only format.
func renderResult(w io.Writer, result domain.EnhanceResult) {
	fmt.Fprintf(w, "Provider: %s (%s)\n", domain.ProviderDisplayName(result.Provider), result.Model)
	if result.TokensUsed > 0 {
		fmt.Fprintf(w, "Tokens: %d\n", result.TokensUsed)
	}
	if result.DurationSeconds > 0 {
		fmt.Fprintf(w, "Duration: %.1fs\n", result.DurationSeconds)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Enhanced Prompt:")
	fmt.Fprintln(w, result.EnhancedPrompt)
}

// renderHistoryEntry prints one history row for list and search output.
func renderHistoryEntry(w io.Writer, index int, result domain.EnhanceResult) {
	fmt.Fprintf(w, "[%d] %s  %s/%s\n", index, result.Timestamp, result.Provider, result.Model)
	fmt.Fprintf(w, "    %s\n", firstLine(result.OriginalPrompt, 80))
}

func firstLine(s string, max int) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if len(s) > max {
		s = s[:max] + "..."
	}
	return s
}
