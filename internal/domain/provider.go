// Package domain defines core business entities and value objects for
// PromptAlchemy.
//
// This file contains the LLM provider catalog used throughout the
// application. The domain layer is independent of infrastructure concerns
// and represents pure business logic and data structures.
package domain

import (
	"sort"
	"strings"
)

// LLMProvider describes an LLM provider with its available models and
// capability flags. The catalog below is the single source of truth for
// provider and model lists across the application.
type LLMProvider struct {
	ID                string
	DisplayName       string
	Models            []string
	EnabledByDefault  bool
	RequiresAPIKey    bool
	SupportsCloudAuth bool
	Endpoint          string
}

// LLMProviders is the catalog of known providers, keyed by lowercase ID.
// Models are ordered from newest/most capable to older/smaller.
var LLMProviders = map[string]LLMProvider{
	"openai": {
		ID:          "openai",
		DisplayName: "OpenAI",
		Models: []string{
			"gpt-5-chat-latest",
			"gpt-4o",
			"gpt-4.1",
			"gpt-4.1-mini",
			"gpt-4.1-nano",
			"gpt-4o-mini",
			"gpt-4-turbo",
			"gpt-4",
			"gpt-3.5-turbo",
		},
		EnabledByDefault: true,
		RequiresAPIKey:   true,
	},
	"anthropic": {
		ID:          "anthropic",
		DisplayName: "Anthropic",
		Models: []string{
			"claude-sonnet-4-5",
			"claude-opus-4-1",
			"claude-opus-4",
			"claude-sonnet-4",
			"claude-3-7-sonnet",
			"claude-3-5-sonnet",
			"claude-3-5-haiku",
			"claude-3-opus",
			"claude-3-sonnet",
			"claude-3-haiku",
		},
		EnabledByDefault: true,
		RequiresAPIKey:   true,
	},
	"gemini": {
		ID:          "gemini",
		DisplayName: "Google Gemini",
		Models: []string{
			"gemini-2.5-pro",
			"gemini-2.5-flash",
			"gemini-2.5-flash-lite",
			"gemini-2.0-flash-exp",
			"gemini-exp-1206",
			"gemini-2.0-flash",
			"gemini-2.0-pro",
			"gemini-1.5-pro",
			"gemini-1.5-flash",
			"gemini-1.0-pro",
		},
		EnabledByDefault:  true,
		RequiresAPIKey:    true,
		SupportsCloudAuth: true,
	},
	"ollama": {
		ID:          "ollama",
		DisplayName: "Ollama (Local)",
		Models: []string{
			"llama3.2:latest",
			"llama3.1:8b",
			"llama3.1:70b",
			"mistral:7b",
			"mixtral:8x7b",
			"phi3:medium",
			"qwen2.5:72b",
			"deepseek-r1:70b",
		},
		Endpoint: "http://localhost:11434",
	},
	"lmstudio": {
		ID:          "lmstudio",
		DisplayName: "LM Studio (Local)",
		Models: []string{
			"local-model",
			"custom-model",
		},
		Endpoint: "http://localhost:1234/v1",
	},
}

// NormalizeProviderID lower-cases and trims a provider identifier. Provider
// IDs are case-insensitive everywhere; this is the canonical form used for
// storage and lookup.
func NormalizeProviderID(provider string) string {
	return strings.ToLower(strings.TrimSpace(provider))
}

// ProviderByID returns the catalog entry for a provider ID (case-insensitive).
func ProviderByID(provider string) (LLMProvider, bool) {
	p, ok := LLMProviders[NormalizeProviderID(provider)]
	return p, ok
}

// ProviderModels returns the model list for a provider, or nil when unknown.
func ProviderModels(provider string) []string {
	if p, ok := ProviderByID(provider); ok {
		return p.Models
	}
	return nil
}

// ProviderDisplayName returns the human-readable name for a provider,
// falling back to the raw ID for unknown providers.
func ProviderDisplayName(provider string) string {
	if p, ok := ProviderByID(provider); ok {
		return p.DisplayName
	}
	return provider
}

// ProviderIDs returns all known provider IDs.
func ProviderIDs() []string {
	ids := make([]string, 0, len(LLMProviders))
	for id := range LLMProviders {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// EnabledProviderIDs returns the providers enabled by default.
func EnabledProviderIDs() []string {
	var ids []string
	for id, p := range LLMProviders {
		if p.EnabledByDefault {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)
	return ids
}

// RequiresAPIKey reports whether a provider needs an API key to be called.
// Unknown providers are assumed to require one.
func RequiresAPIKey(provider string) bool {
	if p, ok := ProviderByID(provider); ok {
		return p.RequiresAPIKey
	}
	return true
}

// SupportsCloudAuth reports whether a provider accepts Google Cloud
// application-default credentials instead of an API key.
func SupportsCloudAuth(provider string) bool {
	if p, ok := ProviderByID(provider); ok {
		return p.SupportsCloudAuth
	}
	return false
}
