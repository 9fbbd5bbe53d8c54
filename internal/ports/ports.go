// Package ports defines the interfaces (ports) for the hexagonal architecture.
//
// This package establishes the contract between the application core and external
// adapters (infrastructure). Following the Ports and Adapters (Hexagonal) pattern,
// these interfaces allow the application to remain independent of specific
// implementations like OS keyrings, SQLite, HTTP clients, or CLI frameworks.
//
// Key architectural concepts:
//   - Ports: Interfaces defined here (e.g., Provider, CredentialStore)
//   - Adapters: Concrete implementations in the infrastructure layer
//   - Dependency inversion: Application depends on abstractions, not implementations
package ports

import (
	"context"
	"time"

	"github.com/promptalchemy/alchemy-go/internal/domain"
)

// KeyResolver is one link of the credential resolution chain: a minimal
// get/set capability over one storage location. Absence is a normal outcome
// (ok=false); resolver-level failures are absorbed and reported the same way.
type KeyResolver interface {
	// Get returns the secret for a provider, or ok=false when this resolver
	// has no value.
	Get(provider string) (secret string, ok bool)
	// Set stores the secret, reporting whether the write succeeded.
	Set(provider, secret string) bool
}

// CredentialStore resolves and stores provider API credentials through an
// ordered fallback chain. Provider IDs are case-insensitive.
type CredentialStore interface {
	// Get resolves a credential, trying each resolver in order.
	Get(provider string) (secret string, ok bool)
	// Set stores a credential, reporting whether it landed in the secure
	// vault (true) or fell back to file storage (false).
	Set(provider, secret string) (inVault bool)
	// Delete removes a credential from the secure vault.
	Delete(provider string) bool
}

// RateLimiter admits or denies outbound provider calls against per-provider
// sliding-window quotas.
type RateLimiter interface {
	// Admit records and allows a call when the provider's window has
	// headroom. With block=false a saturated window denies immediately.
	// With block=true the call waits for the next slot, honoring ctx
	// cancellation; a cancelled wait denies without recording.
	Admit(ctx context.Context, provider string, block bool) bool
	// Remaining reports quota headroom and the time until the next slot
	// opens (zero when nothing is recorded).
	Remaining(provider string) (count int, reset time.Duration)
	// SetQuota overrides the quota for a provider.
	SetQuota(provider string, quota domain.Quota)
	// Quota returns the effective quota for a provider.
	Quota(provider string) domain.Quota
}

// HistoryRepository persists enhancement results.
type HistoryRepository interface {
	Save(result domain.EnhanceResult) error
	// Records returns entries most recent first; limit <= 0 means all.
	Records(limit int) ([]domain.EnhanceResult, error)
	// Search filters entries; all supplied filter fields are ANDed.
	Search(filter HistoryFilter) ([]domain.EnhanceResult, error)
	// EntryByIndex returns the record at the given position, 0 being the
	// most recent.
	EntryByIndex(index int) (domain.EnhanceResult, bool, error)
	Clear() error
	// Export writes a full snapshot; format is "array" or "lines".
	Export(path, format string) error
	Path() string
}

// HistoryFilter selects history entries. Zero values mean "no constraint".
type HistoryFilter struct {
	Query    string
	Provider string
	Model    string
	Since    string
	Until    string
	Limit    int
}

// ProjectRepository manages named prompt collections.
type ProjectRepository interface {
	Create(name string) (Project, error)
	Get(name string) (Project, bool)
	List() ([]domain.ProjectMetadata, error)
	Delete(name string) error
}

// Project is one named collection: an append-only prompts log plus a small
// mutable metadata document.
type Project interface {
	Name() string
	Metadata() domain.ProjectMetadata
	SetDescription(description string) error
	AddTags(tags ...string) error
	RemoveTags(tags ...string) error
	AddPrompt(result domain.EnhanceResult) error
	Prompts() ([]domain.EnhanceResult, error)
	Export(path string) error
}

// ConfigStore loads and persists the application configuration document.
type ConfigStore interface {
	Load() (domain.Config, error)
	Save(domain.Config) error
	Dir() string
}

// Provider defines the prompt-enhancement capability of one LLM supplier.
// Each implementation wraps a specific provider API.
type Provider interface {
	Name() string
	Enhance(ctx context.Context, req ProviderRequest) (ProviderResponse, error)
}

// ProviderFactory builds provider instances by provider ID.
type ProviderFactory interface {
	ForProvider(provider string, settings domain.ProviderSettings) (Provider, error)
}

// ProviderRequest contains everything needed for one enhancement call.
type ProviderRequest struct {
	Model       string
	System      string
	Prompt      string
	APIKey      string
	Temperature float64
	MaxTokens   int
}

// ProviderResponse carries the model output and token accounting.
type ProviderResponse struct {
	Content    string
	TokensUsed int
}

// Clipboard provides cross-platform clipboard integration for copying
// enhanced prompts.
type Clipboard interface {
	Copy(text string) error
	Enabled() bool
}

// CloudAuthChecker probes Google Cloud application-default credentials for
// providers running in gcloud auth mode.
type CloudAuthChecker interface {
	Status(ctx context.Context) (authenticated bool, message string)
	ProjectID(ctx context.Context) string
}

// Logger provides structured logging abstraction for the application layer.
// Implementations can route to different backends (stdout, files, external services).
type Logger interface {
	Debug(msg string, fields map[string]interface{})
	Info(msg string, fields map[string]interface{})
	Warn(msg string, fields map[string]interface{})
	Error(msg string, err error, fields map[string]interface{})
}
