// Package ai implements the LLM provider adapters. Every supported provider
// speaks HTTP through a shared transport; per-provider codecs translate the
// enhancement request into the vendor's wire format.
package ai

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/promptalchemy/alchemy-go/internal/domain"
	"github.com/promptalchemy/alchemy-go/internal/ports"
)

// Default endpoints for the hosted providers. A provider's endpoint can be
// overridden through its config entry; local providers take their default
// from the catalog instead.
const (
	openAIEndpoint    = "https://api.openai.com/v1/chat/completions"
	anthropicEndpoint = "https://api.anthropic.com/v1/messages"
	geminiEndpoint    = "https://generativelanguage.googleapis.com/v1beta/models"
)

// Factory builds provider adapters by provider ID.
type Factory struct {
	httpClient *http.Client
}

// NewFactory creates a factory with a shared HTTP client.
func NewFactory() *Factory {
	return &Factory{
		httpClient: &http.Client{Timeout: domain.DefaultHTTPClientTimeout},
	}
}

// ForProvider returns the adapter for a provider ID. Endpoint overrides from
// the provider's settings take precedence over the defaults.
func (f *Factory) ForProvider(provider string, settings domain.ProviderSettings) (ports.Provider, error) {
	id := domain.NormalizeProviderID(provider)
	endpoint := settings.Endpoint

	switch id {
	case "openai":
		return newHTTPProvider(id, orDefault(endpoint, openAIEndpoint), f.httpClient, chatCompletionCodec(true)), nil
	case "anthropic":
		return newHTTPProvider(id, orDefault(endpoint, anthropicEndpoint), f.httpClient, anthropicCodec()), nil
	case "gemini", "google":
		return newHTTPProvider(id, orDefault(endpoint, geminiEndpoint), f.httpClient, geminiCodec()), nil
	case "ollama", "lmstudio":
		return newHTTPProvider(id, orDefault(endpoint, localEndpoint(id)), f.httpClient, chatCompletionCodec(false)), nil
	default:
		return nil, fmt.Errorf("unsupported provider: %q", provider)
	}
}

// localEndpoint derives the chat-completions URL for a local provider from
// its catalog base endpoint.
func localEndpoint(id string) string {
	p, ok := domain.ProviderByID(id)
	if !ok || p.Endpoint == "" {
		return ""
	}
	base := strings.TrimSuffix(p.Endpoint, "/")
	if !strings.HasSuffix(base, "/v1") {
		base += "/v1"
	}
	return base + "/chat/completions"
}

func orDefault(value, fallback string) string {
	if value == "" {
		return fallback
	}
	return value
}

var _ ports.ProviderFactory = (*Factory)(nil)
