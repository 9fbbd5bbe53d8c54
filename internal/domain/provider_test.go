package domain

import (
	"sort"
	"testing"
)

func TestProviderIDsSorted(t *testing.T) {
	ids := ProviderIDs()
	if len(ids) != len(LLMProviders) {
		t.Fatalf("got %d ids, want %d", len(ids), len(LLMProviders))
	}
	if !sort.StringsAreSorted(ids) {
		t.Errorf("ids not sorted: %v", ids)
	}
}

func TestEnabledProviderIDsExcludeLocal(t *testing.T) {
	enabled := map[string]bool{}
	for _, id := range EnabledProviderIDs() {
		enabled[id] = true
	}
	for _, id := range []string{"openai", "anthropic", "gemini"} {
		if !enabled[id] {
			t.Errorf("%s missing from the enabled set", id)
		}
	}
	for _, id := range []string{"ollama", "lmstudio"} {
		if enabled[id] {
			t.Errorf("local provider %s should not be enabled by default", id)
		}
	}
}

func TestLocalProvidersCarryEndpoints(t *testing.T) {
	for _, id := range []string{"ollama", "lmstudio"} {
		p, ok := ProviderByID(id)
		if !ok {
			t.Fatalf("%s missing from the catalog", id)
		}
		if p.Endpoint == "" {
			t.Errorf("%s has no default endpoint", id)
		}
	}
}
