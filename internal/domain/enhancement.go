package domain

import "context"

// EnhanceRequest captures user intent for a single prompt enhancement,
// originating from the CLI.
type EnhanceRequest struct {
	Context      context.Context
	Prompt       string
	Provider     string
	Model        string
	Role         string
	Reasoning    string
	Verbosity    string
	Tools        []string
	SelfReflect  *bool
	MetaFix      *bool
	Inputs       string
	Deliverables string
	Attachments  []string
	Temperature  float64
	MaxTokens    int
	Project      string
	Wait         bool
}

// EnhanceResult is the canonical result propagated back to the CLI and
// persisted to the history log.
type EnhanceResult struct {
	ID              string              `json:"id,omitempty"`
	OriginalPrompt  string              `json:"original_prompt"`
	EnhancedPrompt  string              `json:"enhanced_prompt"`
	Provider        string              `json:"provider"`
	Model           string              `json:"model"`
	Settings        EnhancementSettings `json:"settings"`
	Timestamp       string              `json:"timestamp,omitempty"`
	TokensUsed      int                 `json:"tokens_used,omitempty"`
	DurationSeconds float64             `json:"duration_seconds,omitempty"`
	Project         string              `json:"project,omitempty"`
}

// EnhancementSettings is the resolved control panel applied to a single
// enhancement, after defaults are merged in.
type EnhancementSettings struct {
	Role        string   `json:"role"`
	Reasoning   string   `json:"reasoning"`
	Verbosity   string   `json:"verbosity"`
	Tools       []string `json:"tools"`
	SelfReflect bool     `json:"self_reflect"`
	MetaFix     bool     `json:"meta_fix"`
}
