package ai

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/promptalchemy/alchemy-go/internal/ports"
)

type geminiRequest struct {
	SystemInstruction *geminiContent  `json:"system_instruction,omitempty"`
	Contents          []geminiContent `json:"contents"`
	GenerationConfig  geminiGenConfig `json:"generationConfig"`
}

type geminiContent struct {
	Parts []geminiPart `json:"parts"`
}

type geminiPart struct {
	Text string `json:"text"`
}

type geminiGenConfig struct {
	Temperature     float64 `json:"temperature,omitempty"`
	MaxOutputTokens int     `json:"maxOutputTokens,omitempty"`
}

type geminiResponse struct {
	Candidates []struct {
		Content geminiContent `json:"content"`
	} `json:"candidates"`
	UsageMetadata struct {
		TotalTokenCount int `json:"totalTokenCount"`
	} `json:"usageMetadata"`
}

func geminiCodec() codec {
	return codec{
		endpoint: func(base string, req ports.ProviderRequest) string {
			return fmt.Sprintf("%s/%s:generateContent", base, req.Model)
		},
		buildRequest: func(req ports.ProviderRequest) ([]byte, error) {
			payload := geminiRequest{
				Contents: []geminiContent{
					{Parts: []geminiPart{{Text: req.Prompt}}},
				},
				GenerationConfig: geminiGenConfig{
					Temperature:     req.Temperature,
					MaxOutputTokens: req.MaxTokens,
				},
			}
			if req.System != "" {
				payload.SystemInstruction = &geminiContent{Parts: []geminiPart{{Text: req.System}}}
			}
			return json.Marshal(payload)
		},
		setHeaders: func(h http.Header, req ports.ProviderRequest) {
			if req.APIKey != "" {
				h.Set("x-goog-api-key", req.APIKey)
			}
		},
		parseResponse: func(body []byte) (string, int, error) {
			var decoded geminiResponse
			if err := json.Unmarshal(body, &decoded); err != nil {
				return "", 0, err
			}
			if len(decoded.Candidates) == 0 || len(decoded.Candidates[0].Content.Parts) == 0 {
				return "", 0, fmt.Errorf("empty candidates")
			}
			var text string
			for _, part := range decoded.Candidates[0].Content.Parts {
				text += part.Text
			}
			return text, decoded.UsageMetadata.TotalTokenCount, nil
		},
	}
}
