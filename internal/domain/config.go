package domain

// Config mirrors <config dir>/PromptAlchemy/config.json.
type Config struct {
	Providers           map[string]ProviderSettings `json:"providers"`
	DefaultProvider     string                      `json:"default_provider"`
	DefaultModel        string                      `json:"default_model"`
	AuthMode            string                      `json:"auth_mode,omitempty"`
	GcloudProjectID     string                      `json:"gcloud_project_id,omitempty"`
	GcloudAuthValidated bool                        `json:"gcloud_auth_validated,omitempty"`
	EnhancementDefaults EnhancementDefaults         `json:"enhancement_defaults"`
	History             HistorySettings             `json:"history,omitempty"`
}

// ProviderSettings holds per-provider configuration. APIKey is populated only
// when the OS keyring is unavailable; it is then stored in cleartext JSON,
// an accepted trade-off of the file fallback.
type ProviderSettings struct {
	APIKey   string `json:"api_key,omitempty"`
	Endpoint string `json:"endpoint,omitempty"`
}

// EnhancementDefaults captures the default control-panel values applied to an
// enhancement when the caller leaves them unset.
type EnhancementDefaults struct {
	Role        string   `json:"role"`
	Reasoning   string   `json:"reasoning"`
	Verbosity   string   `json:"verbosity"`
	Tools       []string `json:"tools"`
	SelfReflect bool     `json:"self_reflect"`
	MetaFix     bool     `json:"meta_fix"`
}

// HistorySettings selects the history persistence backend.
type HistorySettings struct {
	// Backend is "jsonl" (default) or "sqlite".
	Backend string `json:"backend,omitempty"`
}

// Auth modes for providers that support Google Cloud credentials.
const (
	AuthModeAPIKey = "api-key"
	AuthModeGcloud = "gcloud"
)

// History backends.
const (
	HistoryBackendJSONL  = "jsonl"
	HistoryBackendSQLite = "sqlite"
)

// DefaultConfig returns the configuration written on first run.
func DefaultConfig() Config {
	return Config{
		Providers:       map[string]ProviderSettings{},
		DefaultProvider: "openai",
		DefaultModel:    "gpt-4o-mini",
		EnhancementDefaults: EnhancementDefaults{
			Role:        "an expert assistant",
			Reasoning:   "Standard",
			Verbosity:   "medium",
			Tools:       []string{"web", "code"},
			SelfReflect: true,
			MetaFix:     true,
		},
	}
}

// ProviderConfig returns the settings for a provider (case-insensitive),
// zero-valued when absent.
func (c Config) ProviderConfig(provider string) ProviderSettings {
	return c.Providers[NormalizeProviderID(provider)]
}

// SetProviderConfig stores settings for a provider under its canonical ID.
func (c *Config) SetProviderConfig(provider string, settings ProviderSettings) {
	if c.Providers == nil {
		c.Providers = map[string]ProviderSettings{}
	}
	c.Providers[NormalizeProviderID(provider)] = settings
}

// NormalizeAuthMode maps legacy auth-mode spellings onto the canonical
// values. Unknown values pass through unchanged.
func NormalizeAuthMode(mode string) string {
	switch mode {
	case "api_key", "API Key":
		return AuthModeAPIKey
	case "Google Cloud Account":
		return AuthModeGcloud
	default:
		return mode
	}
}
