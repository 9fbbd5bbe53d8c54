package domain

import "time"

// Application identity constants
const (
	// AppName is the identity used for the config directory and the OS
	// keyring service namespace.
	AppName = "PromptAlchemy"
	// SiblingAppName identifies the application whose credentials and auth
	// settings can be imported one way into this one.
	SiblingAppName = "ImageAI"
	// AppVersion is the semantic version reported by the version command.
	AppVersion = "1.0.0"
)

// File permissions constants
const (
	// DirectoryPermissions is the default permission for directories (rwxr-xr-x)
	DirectoryPermissions = 0o755
	// SecureFilePermissions is the permission for sensitive files (rw-------)
	SecureFilePermissions = 0o600
	// FilePermissions is the default permission for data files (rw-r--r--)
	FilePermissions = 0o644
)

// Timeout and duration constants
const (
	// DefaultHTTPClientTimeout is the timeout for HTTP client requests
	DefaultHTTPClientTimeout = 60 * time.Second
	// DefaultProbeTimeout is the timeout for probing external tools (gcloud)
	DefaultProbeTimeout = 5 * time.Second
	// DefaultAuthCheckTimeout is the timeout for gcloud auth status checks
	DefaultAuthCheckTimeout = 10 * time.Second
)

// History constants
const (
	// DefaultHistoryLimit is the default number of history records to display
	DefaultHistoryLimit = 20
	// DefaultHistorySearchLimit is the default number of search results to return
	DefaultHistorySearchLimit = 50
)

// Enhancement constants
const (
	// DefaultTemperature is the sampling temperature used when none is given
	DefaultTemperature = 0.7
	// DefaultMaxTokens is the default token budget for an enhancement call
	DefaultMaxTokens = 4096
)

// Time formats
const (
	// TimestampFormat is the standard timestamp format for persisted records.
	// Records are sorted by comparing these strings, so every writer must
	// keep the format UTC-normalized and zero-padded.
	TimestampFormat = time.RFC3339
)

// ProviderKeyURLs maps provider IDs to their API key management pages.
var ProviderKeyURLs = map[string]string{
	"openai":    "https://platform.openai.com/api-keys",
	"anthropic": "https://console.anthropic.com/settings/keys",
	"google":    "https://aistudio.google.com/apikey",
	"gemini":    "https://aistudio.google.com/apikey",
	"stability": "https://platform.stability.ai/account/keys",
	"cohere":    "https://dashboard.cohere.com/api-keys",
	"mistral":   "https://console.mistral.ai/api-keys",
	"groq":      "https://console.groq.com/keys",
}

// KeyURL returns the key management page for a provider, defaulting to
// OpenAI's when the provider is unknown.
func KeyURL(provider string) string {
	if url, ok := ProviderKeyURLs[NormalizeProviderID(provider)]; ok {
		return url
	}
	return ProviderKeyURLs["openai"]
}

// ReasoningModes lists the supported enhancement reasoning modes.
var ReasoningModes = []string{
	"Standard",
	"Deep Think",
	"Ultra Think",
	"Chain of Thought",
	"Step by Step",
}

// VerbosityLevels lists the supported enhancement verbosity levels.
var VerbosityLevels = []string{
	"minimal",
	"concise",
	"medium",
	"detailed",
	"comprehensive",
}

// ToolOptions lists the tools an enhanced prompt may reference.
var ToolOptions = []string{
	"web",
	"code",
	"pdf",
	"image",
	"calculator",
	"file",
}
