package ai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/promptalchemy/alchemy-go/internal/domain"
	"github.com/promptalchemy/alchemy-go/internal/ports"
)

func TestFactoryKnownProviders(t *testing.T) {
	factory := NewFactory()
	for _, id := range []string{"openai", "Anthropic", "gemini", "google", "ollama", "lmstudio"} {
		if _, err := factory.ForProvider(id, domain.ProviderSettings{}); err != nil {
			t.Errorf("ForProvider(%q): %v", id, err)
		}
	}
	if _, err := factory.ForProvider("unknown", domain.ProviderSettings{}); err == nil {
		t.Error("expected error for unknown provider")
	}
}

func TestChatCompletionRoundTrip(t *testing.T) {
	var gotAuth string
	var gotBody chatCompletionRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		resp := map[string]any{
			"choices": []map[string]any{
				{"message": map[string]string{"role": "assistant", "content": "  enhanced text  "}},
			},
			"usage": map[string]int{"total_tokens": 123},
		}
		json.NewEncoder(w).Encode(resp)
	}))
	defer server.Close()

	factory := NewFactory()
	provider, err := factory.ForProvider("openai", domain.ProviderSettings{Endpoint: server.URL})
	if err != nil {
		t.Fatalf("ForProvider: %v", err)
	}

	resp, err := provider.Enhance(context.Background(), ports.ProviderRequest{
		Model:       "gpt-4o-mini",
		System:      "you are a prompt engineer",
		Prompt:      "make this better",
		APIKey:      "sk-test",
		Temperature: 0.7,
		MaxTokens:   256,
	})
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if resp.Content != "enhanced text" {
		t.Errorf("Content = %q", resp.Content)
	}
	if resp.TokensUsed != 123 {
		t.Errorf("TokensUsed = %d", resp.TokensUsed)
	}
	if gotAuth != "Bearer sk-test" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotBody.Model != "gpt-4o-mini" || len(gotBody.Messages) != 2 {
		t.Errorf("unexpected request body %+v", gotBody)
	}
	if gotBody.Messages[0].Role != "system" || gotBody.Messages[1].Role != "user" {
		t.Errorf("unexpected message roles %+v", gotBody.Messages)
	}
}

func TestLocalServerSendsNoAuth(t *testing.T) {
	var gotAuth string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		json.NewEncoder(w).Encode(map[string]any{
			"choices": []map[string]any{{"message": map[string]string{"content": "ok"}}},
		})
	}))
	defer server.Close()

	factory := NewFactory()
	provider, err := factory.ForProvider("ollama", domain.ProviderSettings{Endpoint: server.URL})
	if err != nil {
		t.Fatalf("ForProvider: %v", err)
	}
	_, err = provider.Enhance(context.Background(), ports.ProviderRequest{Model: "llama3", Prompt: "p", APIKey: "should-not-be-sent"})
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if gotAuth != "" {
		t.Errorf("local server should get no auth header, got %q", gotAuth)
	}
}

func TestAnthropicRoundTrip(t *testing.T) {
	var gotKey, gotVersion string
	var gotBody anthropicRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotKey = r.Header.Get("x-api-key")
		gotVersion = r.Header.Get("anthropic-version")
		if err := json.NewDecoder(r.Body).Decode(&gotBody); err != nil {
			t.Errorf("decode request: %v", err)
		}
		json.NewEncoder(w).Encode(map[string]any{
			"content": []map[string]string{{"type": "text", "text": "improved"}},
			"usage":   map[string]int{"input_tokens": 10, "output_tokens": 20},
		})
	}))
	defer server.Close()

	factory := NewFactory()
	provider, err := factory.ForProvider("anthropic", domain.ProviderSettings{Endpoint: server.URL})
	if err != nil {
		t.Fatalf("ForProvider: %v", err)
	}
	resp, err := provider.Enhance(context.Background(), ports.ProviderRequest{
		Model:     "claude-sonnet-4-5",
		System:    "sys",
		Prompt:    "p",
		APIKey:    "sk-ant",
		MaxTokens: 512,
	})
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if resp.Content != "improved" || resp.TokensUsed != 30 {
		t.Errorf("unexpected response %+v", resp)
	}
	if gotKey != "sk-ant" || gotVersion != anthropicAPIVersion {
		t.Errorf("headers: key=%q version=%q", gotKey, gotVersion)
	}
	if gotBody.System != "sys" || len(gotBody.Messages) != 1 || gotBody.Messages[0].Role != "user" {
		t.Errorf("unexpected request body %+v", gotBody)
	}
}

func TestGeminiRoundTrip(t *testing.T) {
	var gotPath, gotKey string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotKey = r.Header.Get("x-goog-api-key")
		json.NewEncoder(w).Encode(map[string]any{
			"candidates": []map[string]any{
				{"content": map[string]any{"parts": []map[string]string{{"text": "part one "}, {"text": "part two"}}}},
			},
			"usageMetadata": map[string]int{"totalTokenCount": 77},
		})
	}))
	defer server.Close()

	factory := NewFactory()
	provider, err := factory.ForProvider("gemini", domain.ProviderSettings{Endpoint: server.URL})
	if err != nil {
		t.Fatalf("ForProvider: %v", err)
	}
	resp, err := provider.Enhance(context.Background(), ports.ProviderRequest{
		Model:  "gemini-2.0-flash",
		Prompt: "p",
		APIKey: "g-key",
	})
	if err != nil {
		t.Fatalf("Enhance: %v", err)
	}
	if resp.Content != "part one part two" || resp.TokensUsed != 77 {
		t.Errorf("unexpected response %+v", resp)
	}
	if !strings.HasSuffix(gotPath, "/gemini-2.0-flash:generateContent") {
		t.Errorf("path = %q", gotPath)
	}
	if gotKey != "g-key" {
		t.Errorf("api key header = %q", gotKey)
	}
}

func TestHTTPErrorSurfacesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":{"message":"invalid api key"}}`, http.StatusUnauthorized)
	}))
	defer server.Close()

	factory := NewFactory()
	provider, err := factory.ForProvider("openai", domain.ProviderSettings{Endpoint: server.URL})
	if err != nil {
		t.Fatalf("ForProvider: %v", err)
	}
	_, err = provider.Enhance(context.Background(), ports.ProviderRequest{Model: "gpt-4o", Prompt: "p", APIKey: "bad"})
	if err == nil {
		t.Fatal("expected error")
	}
	if !strings.Contains(err.Error(), "invalid api key") {
		t.Errorf("error should carry the response snippet, got %v", err)
	}
}

func TestLocalProviderEndpointsFollowCatalog(t *testing.T) {
	tests := []struct {
		id   string
		want string
	}{
		{"ollama", "http://localhost:11434/v1/chat/completions"},
		{"lmstudio", "http://localhost:1234/v1/chat/completions"},
	}

	factory := NewFactory()
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			provider, err := factory.ForProvider(tt.id, domain.ProviderSettings{})
			if err != nil {
				t.Fatalf("ForProvider: %v", err)
			}
			hp, ok := provider.(*httpProvider)
			if !ok {
				t.Fatalf("unexpected adapter type %T", provider)
			}
			if hp.endpoint != tt.want {
				t.Errorf("endpoint = %q, want %q", hp.endpoint, tt.want)
			}
		})
	}
}
