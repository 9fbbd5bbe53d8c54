package ratelimit_test

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/promptalchemy/alchemy-go/internal/domain"
	"github.com/promptalchemy/alchemy-go/internal/infrastructure/ratelimit"
)

func quotas(calls int, window time.Duration) map[string]domain.Quota {
	return map[string]domain.Quota{
		"openai":  {MaxCalls: calls, Window: window},
		"default": {MaxCalls: 2, Window: window},
	}
}

func TestGovernor_AdmitDeniesAtLimit(t *testing.T) {
	g := ratelimit.New(quotas(3, time.Minute), nil)
	ctx := context.Background()

	for i := 0; i < 3; i++ {
		if !g.Admit(ctx, "openai", false) {
			t.Fatalf("call %d denied below the limit", i+1)
		}
	}
	if g.Admit(ctx, "openai", false) {
		t.Error("call 4 admitted over the limit")
	}
}

func TestGovernor_AdmitRecoversAfterWindow(t *testing.T) {
	g := ratelimit.New(quotas(1, 150*time.Millisecond), nil)
	ctx := context.Background()

	if !g.Admit(ctx, "openai", false) {
		t.Fatal("first call denied")
	}
	if g.Admit(ctx, "openai", false) {
		t.Fatal("second call admitted inside the window")
	}

	time.Sleep(200 * time.Millisecond)
	if !g.Admit(ctx, "openai", false) {
		t.Error("call denied after the window elapsed")
	}
}

func TestGovernor_BlockingAdmitWaitsForSlot(t *testing.T) {
	g := ratelimit.New(quotas(1, 150*time.Millisecond), nil)
	ctx := context.Background()

	if !g.Admit(ctx, "openai", false) {
		t.Fatal("first call denied")
	}

	start := time.Now()
	if !g.Admit(ctx, "openai", true) {
		t.Fatal("blocking admit denied")
	}
	if waited := time.Since(start); waited < 100*time.Millisecond {
		t.Errorf("blocking admit returned after %v, expected a wait", waited)
	}
}

func TestGovernor_BlockingAdmitHonorsCancellation(t *testing.T) {
	g := ratelimit.New(quotas(1, time.Hour), nil)

	if !g.Admit(context.Background(), "openai", false) {
		t.Fatal("first call denied")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	done := make(chan bool, 1)
	go func() {
		done <- g.Admit(ctx, "openai", true)
	}()

	select {
	case allowed := <-done:
		if allowed {
			t.Error("cancelled blocking admit reported allowed")
		}
	case <-time.After(2 * time.Second):
		t.Fatal("blocking admit did not honor context cancellation")
	}
}

func TestGovernor_UnknownProviderUsesDefaultQuota(t *testing.T) {
	g := ratelimit.New(quotas(1, time.Minute), nil)
	ctx := context.Background()

	// Default quota is 2 calls per window.
	if !g.Admit(ctx, "mystery", false) || !g.Admit(ctx, "mystery", false) {
		t.Fatal("default quota denied below its limit")
	}
	if g.Admit(ctx, "mystery", false) {
		t.Error("default quota admitted over its limit")
	}
}

func TestGovernor_ProviderIDsAreCaseInsensitive(t *testing.T) {
	g := ratelimit.New(quotas(1, time.Minute), nil)
	ctx := context.Background()

	if !g.Admit(ctx, "OpenAI", false) {
		t.Fatal("first call denied")
	}
	if g.Admit(ctx, "openai", false) {
		t.Error("differently-cased provider tracked as a separate window")
	}
}

func TestGovernor_ZeroQuotaAlwaysDenies(t *testing.T) {
	tests := []struct {
		name  string
		quota domain.Quota
	}{
		{"zero calls", domain.Quota{MaxCalls: 0, Window: time.Minute}},
		{"zero window", domain.Quota{MaxCalls: 5, Window: 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			g := ratelimit.New(map[string]domain.Quota{"default": tt.quota}, nil)

			if g.Admit(context.Background(), "openai", false) {
				t.Error("invalid quota admitted a call")
			}
			// A blocking admit must not sleep forever on a quota that can
			// never open a slot.
			done := make(chan bool, 1)
			go func() {
				done <- g.Admit(context.Background(), "openai", true)
			}()
			select {
			case allowed := <-done:
				if allowed {
					t.Error("invalid quota admitted a blocking call")
				}
			case <-time.After(time.Second):
				t.Fatal("blocking admit hung on an invalid quota")
			}
		})
	}
}

func TestGovernor_Remaining(t *testing.T) {
	window := time.Minute
	g := ratelimit.New(quotas(3, window), nil)
	ctx := context.Background()

	count, reset := g.Remaining("openai")
	if count != 3 {
		t.Errorf("idle remaining = %d, want 3", count)
	}
	if reset != 0 {
		t.Errorf("idle reset = %v, want 0", reset)
	}

	for i := 0; i < 3; i++ {
		g.Admit(ctx, "openai", false)
	}
	g.Admit(ctx, "openai", false) // denied, must not consume headroom

	count, reset = g.Remaining("openai")
	if count < 0 {
		t.Errorf("remaining = %d, must never be negative", count)
	}
	if count != 0 {
		t.Errorf("remaining = %d, want 0 at the limit", count)
	}
	if reset <= 0 || reset > window {
		t.Errorf("reset = %v, want within (0, %v]", reset, window)
	}
}

func TestGovernor_SetQuotaOverrides(t *testing.T) {
	g := ratelimit.New(quotas(1, time.Minute), nil)
	g.SetQuota("openai", domain.Quota{MaxCalls: 2, Window: time.Minute})

	ctx := context.Background()
	if !g.Admit(ctx, "openai", false) || !g.Admit(ctx, "openai", false) {
		t.Fatal("override quota denied below its limit")
	}
	if g.Admit(ctx, "openai", false) {
		t.Error("override quota admitted over its limit")
	}
}

func TestGovernor_BlockingWaitDoesNotStarveOtherProviders(t *testing.T) {
	g := ratelimit.New(map[string]domain.Quota{
		"openai":  {MaxCalls: 1, Window: time.Hour},
		"default": {MaxCalls: 10, Window: time.Minute},
	}, nil)

	if !g.Admit(context.Background(), "openai", false) {
		t.Fatal("first call denied")
	}

	ctx, cancel := context.WithCancel(context.Background())
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		g.Admit(ctx, "openai", true) // parks on openai's window
	}()

	done := make(chan bool, 1)
	go func() {
		done <- g.Admit(context.Background(), "anthropic", false)
	}()
	select {
	case allowed := <-done:
		if !allowed {
			t.Error("unrelated provider denied while another was blocked")
		}
	case <-time.After(time.Second):
		t.Fatal("unrelated provider admission blocked behind a waiting provider")
	}

	cancel()
	wg.Wait()
}

func TestLoadQuotas(t *testing.T) {
	t.Run("missing file falls back to embedded defaults", func(t *testing.T) {
		quotas, err := ratelimit.LoadQuotas(filepath.Join(t.TempDir(), "limits.yaml"))
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if q := quotas["openai"]; q.MaxCalls != 50 || q.Window != time.Minute {
			t.Errorf("openai quota = %+v, want 50/min", q)
		}
		if _, ok := quotas["default"]; !ok {
			t.Error("defaults missing the default entry")
		}
	})

	t.Run("custom file overrides and keeps a default entry", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "limits.yaml")
		content := "limits:\n  OpenAI:\n    calls: 5\n    window_seconds: 10\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		quotas, err := ratelimit.LoadQuotas(path)
		if err != nil {
			t.Fatalf("load: %v", err)
		}
		if q := quotas["openai"]; q.MaxCalls != 5 || q.Window != 10*time.Second {
			t.Errorf("openai quota = %+v, want 5/10s (case-normalized)", q)
		}
		if _, ok := quotas["default"]; !ok {
			t.Error("default entry not supplied for sparse files")
		}
	})

	t.Run("malformed file is an error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "limits.yaml")
		if err := os.WriteFile(path, []byte("limits: ["), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := ratelimit.LoadQuotas(path); err == nil {
			t.Error("expected parse error")
		}
	})
}
