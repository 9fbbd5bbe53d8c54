package domain

import "time"

// Quota is a sliding-window call budget: at most MaxCalls admissions within
// the trailing Window. A quota with MaxCalls <= 0 or Window <= 0 always
// denies.
type Quota struct {
	MaxCalls int
	Window   time.Duration
}

// Valid reports whether the quota can ever admit a call.
func (q Quota) Valid() bool {
	return q.MaxCalls > 0 && q.Window > 0
}

// DefaultQuotas returns the built-in per-provider call budgets. The
// "default" entry applies to providers without an explicit quota.
func DefaultQuotas() map[string]Quota {
	return map[string]Quota{
		"openai":    {MaxCalls: 50, Window: time.Minute},
		"anthropic": {MaxCalls: 50, Window: time.Minute},
		"google":    {MaxCalls: 60, Window: time.Minute},
		"gemini":    {MaxCalls: 60, Window: time.Minute},
		"default":   {MaxCalls: 100, Window: time.Minute},
	}
}
