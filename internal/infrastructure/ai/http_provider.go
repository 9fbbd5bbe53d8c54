package ai

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/promptalchemy/alchemy-go/internal/ports"
)

// codec translates between the neutral provider request and one vendor's
// wire format.
type codec struct {
	// endpoint derives the request URL. Chat-completion vendors use the
	// configured endpoint as-is; Gemini appends the model and action.
	endpoint func(base string, req ports.ProviderRequest) string
	// buildRequest encodes the request body.
	buildRequest func(req ports.ProviderRequest) ([]byte, error)
	// setHeaders applies vendor auth and version headers.
	setHeaders func(h http.Header, req ports.ProviderRequest)
	// parseResponse extracts the model output and token usage.
	parseResponse func(body []byte) (content string, tokens int, err error)
}

// httpProvider is the shared transport behind every provider adapter.
type httpProvider struct {
	name       string
	endpoint   string
	httpClient *http.Client
	codec      codec
}

func newHTTPProvider(name, endpoint string, client *http.Client, c codec) ports.Provider {
	return &httpProvider{
		name:       name,
		endpoint:   endpoint,
		httpClient: client,
		codec:      c,
	}
}

func (p *httpProvider) Name() string {
	return p.name
}

func (p *httpProvider) Enhance(ctx context.Context, req ports.ProviderRequest) (ports.ProviderResponse, error) {
	body, err := p.codec.buildRequest(req)
	if err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("%s: encode request: %w", p.name, err)
	}

	url := p.endpoint
	if p.codec.endpoint != nil {
		url = p.codec.endpoint(p.endpoint, req)
	}
	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return ports.ProviderResponse{}, err
	}
	httpReq.Header.Set("content-type", "application/json")
	p.codec.setHeaders(httpReq.Header, req)

	resp, err := p.httpClient.Do(httpReq)
	if err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("%s: %w", p.name, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("%s: read response: %w", p.name, err)
	}
	if resp.StatusCode >= 400 {
		return ports.ProviderResponse{}, fmt.Errorf("%s: %s: %s", p.name, resp.Status, errorSnippet(respBody))
	}

	content, tokens, err := p.codec.parseResponse(respBody)
	if err != nil {
		return ports.ProviderResponse{}, fmt.Errorf("%s: decode response: %w", p.name, err)
	}
	return ports.ProviderResponse{
		Content:    strings.TrimSpace(content),
		TokensUsed: tokens,
	}, nil
}

// errorSnippet keeps error bodies short enough for terminal output.
func errorSnippet(body []byte) string {
	snippet := strings.TrimSpace(string(body))
	if len(snippet) > 200 {
		snippet = snippet[:200]
	}
	return snippet
}
