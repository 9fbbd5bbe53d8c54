// Package keystore resolves and stores provider API credentials through an
// ordered fallback chain: OS keyring, then the file-based provider config,
// then a sibling application's keyring namespace as a one-way migration aid.
package keystore

import (
	"errors"

	"github.com/zalando/go-keyring"

	"github.com/promptalchemy/alchemy-go/internal/domain"
	"github.com/promptalchemy/alchemy-go/internal/ports"
)

// KeyringResolver stores secrets in the OS keyring under a fixed service
// namespace. Every keyring failure is absorbed and reported as absence or a
// failed write; the caller falls through the chain instead of seeing an
// error.
type KeyringResolver struct {
	service string
	log     ports.Logger
}

// NewKeyringResolver creates a resolver for the given keyring service
// namespace.
func NewKeyringResolver(service string, log ports.Logger) *KeyringResolver {
	return &KeyringResolver{service: service, log: log}
}

// Get implements ports.KeyResolver.
func (r *KeyringResolver) Get(provider string) (string, bool) {
	secret, err := keyring.Get(r.service, keyName(provider))
	if err != nil {
		if !errors.Is(err, keyring.ErrNotFound) && r.log != nil {
			r.log.Debug("keyring read failed", map[string]interface{}{
				"service":  r.service,
				"provider": provider,
				"error":    err.Error(),
			})
		}
		return "", false
	}
	return secret, secret != ""
}

// Set implements ports.KeyResolver.
func (r *KeyringResolver) Set(provider, secret string) bool {
	if err := keyring.Set(r.service, keyName(provider), secret); err != nil {
		if r.log != nil {
			r.log.Warn("keyring write failed", map[string]interface{}{
				"service":  r.service,
				"provider": provider,
				"error":    err.Error(),
			})
		}
		return false
	}
	return true
}

// Delete removes a provider's secret from this keyring namespace.
func (r *KeyringResolver) Delete(provider string) bool {
	if err := keyring.Delete(r.service, keyName(provider)); err != nil {
		if !errors.Is(err, keyring.ErrNotFound) && r.log != nil {
			r.log.Warn("keyring delete failed", map[string]interface{}{
				"service":  r.service,
				"provider": provider,
				"error":    err.Error(),
			})
		}
		return false
	}
	return true
}

func keyName(provider string) string {
	return domain.NormalizeProviderID(provider) + "_api_key"
}

var _ ports.KeyResolver = (*KeyringResolver)(nil)
