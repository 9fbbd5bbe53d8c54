package ai

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/promptalchemy/alchemy-go/internal/ports"
)

const anthropicAPIVersion = "2023-06-01"

type anthropicRequest struct {
	Model       string             `json:"model"`
	MaxTokens   int                `json:"max_tokens"`
	System      string             `json:"system,omitempty"`
	Messages    []anthropicMessage `json:"messages"`
	Temperature float64            `json:"temperature,omitempty"`
}

type anthropicMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type anthropicResponse struct {
	Content []struct {
		Text string `json:"text"`
	} `json:"content"`
	Usage struct {
		InputTokens  int `json:"input_tokens"`
		OutputTokens int `json:"output_tokens"`
	} `json:"usage"`
}

func anthropicCodec() codec {
	return codec{
		buildRequest: func(req ports.ProviderRequest) ([]byte, error) {
			payload := anthropicRequest{
				Model:       req.Model,
				MaxTokens:   req.MaxTokens,
				System:      req.System,
				Temperature: req.Temperature,
				Messages: []anthropicMessage{
					{Role: "user", Content: req.Prompt},
				},
			}
			return json.Marshal(payload)
		},
		setHeaders: func(h http.Header, req ports.ProviderRequest) {
			h.Set("x-api-key", req.APIKey)
			h.Set("anthropic-version", anthropicAPIVersion)
		},
		parseResponse: func(body []byte) (string, int, error) {
			var decoded anthropicResponse
			if err := json.Unmarshal(body, &decoded); err != nil {
				return "", 0, err
			}
			if len(decoded.Content) == 0 {
				return "", 0, fmt.Errorf("empty content")
			}
			tokens := decoded.Usage.InputTokens + decoded.Usage.OutputTokens
			return decoded.Content[0].Text, tokens, nil
		},
	}
}
