package keystore

import (
	"github.com/promptalchemy/alchemy-go/internal/ports"
)

// FileResolver reads and writes API keys in the providers map of the
// application's JSON config. Secrets stored here live in cleartext on disk;
// the resolver exists only as the fallback for platforms without a usable
// keyring, which is an accepted and documented risk.
type FileResolver struct {
	store ports.ConfigStore
	log   ports.Logger
}

// NewFileResolver creates a resolver over the given config store.
func NewFileResolver(store ports.ConfigStore, log ports.Logger) *FileResolver {
	return &FileResolver{store: store, log: log}
}

// Get implements ports.KeyResolver.
func (r *FileResolver) Get(provider string) (string, bool) {
	cfg, err := r.store.Load()
	if err != nil {
		if r.log != nil {
			r.log.Warn("config load failed during key lookup", map[string]interface{}{
				"provider": provider,
				"error":    err.Error(),
			})
		}
		return "", false
	}
	key := cfg.ProviderConfig(provider).APIKey
	return key, key != ""
}

// Set implements ports.KeyResolver.
func (r *FileResolver) Set(provider, secret string) bool {
	cfg, err := r.store.Load()
	if err != nil {
		return false
	}
	settings := cfg.ProviderConfig(provider)
	settings.APIKey = secret
	cfg.SetProviderConfig(provider, settings)
	if err := r.store.Save(cfg); err != nil {
		if r.log != nil {
			r.log.Warn("config save failed during key store", map[string]interface{}{
				"provider": provider,
				"error":    err.Error(),
			})
		}
		return false
	}
	return true
}

var _ ports.KeyResolver = (*FileResolver)(nil)
