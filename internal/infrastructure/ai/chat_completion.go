package ai

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/promptalchemy/alchemy-go/internal/ports"
)

type chatMessage struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

type chatCompletionRequest struct {
	Model       string        `json:"model"`
	Messages    []chatMessage `json:"messages"`
	MaxTokens   int           `json:"max_tokens,omitempty"`
	Temperature float64       `json:"temperature,omitempty"`
}

type chatCompletionResponse struct {
	Choices []struct {
		Message chatMessage `json:"message"`
	} `json:"choices"`
	Usage struct {
		TotalTokens int `json:"total_tokens"`
	} `json:"usage"`
}

// chatCompletionCodec speaks the OpenAI chat completions dialect, shared by
// OpenAI itself and the local OpenAI-compatible servers (Ollama, LM Studio).
// auth controls whether a bearer token is sent; local servers take none.
func chatCompletionCodec(auth bool) codec {
	return codec{
		buildRequest:  buildChatCompletionRequest,
		parseResponse: parseChatCompletionResponse,
		setHeaders: func(h http.Header, req ports.ProviderRequest) {
			if auth && req.APIKey != "" {
				h.Set("authorization", "Bearer "+req.APIKey)
			}
		},
	}
}

func buildChatCompletionRequest(req ports.ProviderRequest) ([]byte, error) {
	payload := chatCompletionRequest{
		Model:       req.Model,
		MaxTokens:   req.MaxTokens,
		Temperature: req.Temperature,
		Messages: []chatMessage{
			{Role: "system", Content: req.System},
			{Role: "user", Content: req.Prompt},
		},
	}
	return json.Marshal(payload)
}

func parseChatCompletionResponse(body []byte) (string, int, error) {
	var decoded chatCompletionResponse
	if err := json.Unmarshal(body, &decoded); err != nil {
		return "", 0, err
	}
	if len(decoded.Choices) == 0 {
		return "", 0, fmt.Errorf("empty choices")
	}
	return decoded.Choices[0].Message.Content, decoded.Usage.TotalTokens, nil
}
