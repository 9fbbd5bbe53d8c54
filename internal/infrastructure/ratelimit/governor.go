// Package ratelimit implements per-provider sliding-window admission control
// for outbound LLM calls.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"github.com/promptalchemy/alchemy-go/internal/domain"
	"github.com/promptalchemy/alchemy-go/internal/ports"
)

// epsilon keeps a blocking wait from waking exactly on the window edge and
// re-denying due to clock granularity.
const epsilon = 100 * time.Millisecond

// Governor tracks call timestamps per provider and admits calls against
// sliding-window quotas. Each provider carries its own lock, so a blocking
// wait on one provider never starves admissions for another. Safe for
// concurrent use.
type Governor struct {
	mu      sync.Mutex
	quotas  map[string]domain.Quota
	windows map[string]*window
	log     ports.Logger

	now func() time.Time
}

type window struct {
	mu    sync.Mutex
	calls []time.Time
}

// New creates a Governor with the given quota table. A nil table uses the
// built-in defaults; the "default" entry applies to unlisted providers.
func New(quotas map[string]domain.Quota, log ports.Logger) *Governor {
	if quotas == nil {
		quotas = domain.DefaultQuotas()
	}
	normalized := make(map[string]domain.Quota, len(quotas))
	for provider, quota := range quotas {
		normalized[domain.NormalizeProviderID(provider)] = quota
	}
	return &Governor{
		quotas:  normalized,
		windows: map[string]*window{},
		log:     log,
		now:     time.Now,
	}
}

// SetQuota overrides the quota for a provider.
func (g *Governor) SetQuota(provider string, quota domain.Quota) {
	g.mu.Lock()
	defer g.mu.Unlock()
	g.quotas[domain.NormalizeProviderID(provider)] = quota
}

// Quota returns the effective quota for a provider, falling back to the
// "default" entry for unlisted providers.
func (g *Governor) Quota(provider string) domain.Quota {
	g.mu.Lock()
	defer g.mu.Unlock()
	if quota, ok := g.quotas[domain.NormalizeProviderID(provider)]; ok {
		return quota
	}
	return g.quotas["default"]
}

// Admit checks whether a call to the provider fits its quota, recording the
// call when it does. With block=false a saturated window denies immediately.
// With block=true the caller sleeps until the oldest recorded call leaves
// the window, then retries; the sleep is interruptible through ctx, and a
// cancelled wait denies without recording. An invalid quota (zero calls or
// zero window) always denies.
func (g *Governor) Admit(ctx context.Context, provider string, block bool) bool {
	if ctx == nil {
		ctx = context.Background()
	}
	provider = domain.NormalizeProviderID(provider)
	quota := g.Quota(provider)
	if !quota.Valid() {
		return false
	}

	w := g.window(provider)
	for {
		w.mu.Lock()
		now := g.now()
		w.prune(now, quota.Window)
		if len(w.calls) < quota.MaxCalls {
			w.calls = append(w.calls, now)
			w.mu.Unlock()
			return true
		}
		if !block {
			w.mu.Unlock()
			return false
		}
		wait := quota.Window - now.Sub(w.calls[0]) + epsilon
		w.mu.Unlock()

		if g.log != nil {
			g.log.Info("rate limit reached, waiting", map[string]interface{}{
				"provider": provider,
				"wait":     wait.String(),
			})
		}
		if wait > 0 {
			timer := time.NewTimer(wait)
			select {
			case <-ctx.Done():
				timer.Stop()
				return false
			case <-timer.C:
			}
		}
		if ctx.Err() != nil {
			return false
		}
	}
}

// Remaining reports the provider's quota headroom and the time until the
// next slot opens. The count is never negative, the reset never exceeds the
// window, and both are zero-friendly: an idle provider reports a zero reset.
func (g *Governor) Remaining(provider string) (int, time.Duration) {
	provider = domain.NormalizeProviderID(provider)
	quota := g.Quota(provider)
	if !quota.Valid() {
		return 0, 0
	}

	w := g.window(provider)
	w.mu.Lock()
	defer w.mu.Unlock()

	now := g.now()
	w.prune(now, quota.Window)

	remaining := quota.MaxCalls - len(w.calls)
	if remaining < 0 {
		remaining = 0
	}

	var reset time.Duration
	if len(w.calls) > 0 {
		reset = quota.Window - now.Sub(w.calls[0])
		if reset < 0 {
			reset = 0
		}
		if reset > quota.Window {
			reset = quota.Window
		}
	}
	return remaining, reset
}

func (g *Governor) window(provider string) *window {
	g.mu.Lock()
	defer g.mu.Unlock()
	w, ok := g.windows[provider]
	if !ok {
		w = &window{}
		g.windows[provider] = w
	}
	return w
}

// prune drops timestamps older than now-window. Callers hold w.mu. Entries
// are appended in order, so the suffix after the cutoff is the live window.
func (w *window) prune(now time.Time, windowSize time.Duration) {
	cutoff := now.Add(-windowSize)
	keep := 0
	for keep < len(w.calls) && !w.calls[keep].After(cutoff) {
		keep++
	}
	if keep > 0 {
		w.calls = append(w.calls[:0], w.calls[keep:]...)
	}
}

var _ ports.RateLimiter = (*Governor)(nil)
