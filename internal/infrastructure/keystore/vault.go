package keystore

import (
	"github.com/promptalchemy/alchemy-go/internal/domain"
	"github.com/promptalchemy/alchemy-go/internal/ports"
)

// Vault implements ports.CredentialStore as an ordered chain of resolvers:
//
//  1. the OS keyring under this application's service namespace
//  2. the file-based provider config
//  3. the sibling application's keyring namespace (read side only)
//
// A hit in the sibling namespace is re-stored under this application's own
// namespace so subsequent lookups resolve at step 1.
type Vault struct {
	vault   ports.KeyResolver
	file    ports.KeyResolver
	sibling ports.KeyResolver
	log     ports.Logger
}

type deleter interface {
	Delete(provider string) bool
}

// NewChain assembles a vault from explicit resolvers. file and sibling may
// be nil, shortening the chain.
func NewChain(vault, file, sibling ports.KeyResolver, log ports.Logger) *Vault {
	return &Vault{vault: vault, file: file, sibling: sibling, log: log}
}

// New builds the standard chain: this application's keyring, the given
// config store's providers map, and the sibling application's keyring.
func New(store ports.ConfigStore, log ports.Logger) *Vault {
	return NewChain(
		NewKeyringResolver(domain.AppName, log),
		NewFileResolver(store, log),
		NewKeyringResolver(domain.SiblingAppName, log),
		log,
	)
}

// Get resolves a credential for a provider (case-insensitive). Absence is a
// normal outcome; vault-layer failures have already been downgraded to
// absence by the resolvers.
func (v *Vault) Get(provider string) (string, bool) {
	provider = domain.NormalizeProviderID(provider)

	if v.vault != nil {
		if secret, ok := v.vault.Get(provider); ok {
			return secret, true
		}
	}
	if v.file != nil {
		if secret, ok := v.file.Get(provider); ok {
			return secret, true
		}
	}
	if v.sibling != nil {
		if secret, ok := v.sibling.Get(provider); ok {
			// Migrate the credential into our own namespace so the next
			// lookup resolves at step 1.
			if v.vault != nil && v.vault.Set(provider, secret) && v.log != nil {
				v.log.Info("migrated credential from sibling keyring", map[string]interface{}{
					"provider": provider,
				})
			}
			return secret, true
		}
	}
	return "", false
}

// Set stores a credential, preferring the secure vault. Only when the vault
// write fails does the secret land in the file config; it is never written
// to both. The return value reports whether the vault took the write.
func (v *Vault) Set(provider, secret string) bool {
	provider = domain.NormalizeProviderID(provider)

	if v.vault != nil && v.vault.Set(provider, secret) {
		return true
	}
	if v.file != nil {
		if v.log != nil {
			v.log.Debug("keyring unavailable, using file storage", map[string]interface{}{
				"provider": provider,
			})
		}
		v.file.Set(provider, secret)
	}
	return false
}

// Delete removes a credential from the secure vault namespace.
func (v *Vault) Delete(provider string) bool {
	provider = domain.NormalizeProviderID(provider)
	if d, ok := v.vault.(deleter); ok {
		return d.Delete(provider)
	}
	return false
}

var _ ports.CredentialStore = (*Vault)(nil)
