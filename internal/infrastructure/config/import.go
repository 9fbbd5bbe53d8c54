package config

import (
	"encoding/json"
	"os"
	"path/filepath"
	"runtime"
	"strings"

	"github.com/promptalchemy/alchemy-go/internal/domain"
	"github.com/promptalchemy/alchemy-go/internal/ports"
)

// SiblingConfig is the parsed form of the sibling application's config
// document, reduced to the fields eligible for import.
type SiblingConfig struct {
	Providers           map[string]domain.ProviderSettings `json:"providers"`
	AuthMode            string                             `json:"auth_mode"`
	GcloudProjectID     string                             `json:"gcloud_project_id"`
	GcloudAuthValidated bool                               `json:"gcloud_auth_validated"`
}

// Empty reports whether the document carries nothing worth importing.
func (s SiblingConfig) Empty() bool {
	return len(s.Providers) == 0 && s.AuthMode == "" && s.GcloudProjectID == ""
}

// Importer copies credential and auth fields from a sibling application's
// config into this application's, once, at startup. It never deletes and
// never overwrites an existing local value, which also makes it idempotent.
type Importer struct {
	creds ports.CredentialStore
	log   ports.Logger
}

// NewImporter builds an importer routing credentials through the vault chain.
func NewImporter(creds ports.CredentialStore, log ports.Logger) *Importer {
	return &Importer{creds: creds, log: log}
}

// Merge copies missing fields from source into cfg and the credential
// store. It returns whether anything was copied so the caller can decide
// whether to persist cfg.
func (i *Importer) Merge(cfg *domain.Config, source SiblingConfig) bool {
	imported := false

	for provider, settings := range source.Providers {
		if settings.APIKey == "" {
			continue
		}
		if _, ok := i.creds.Get(provider); ok {
			continue
		}
		i.creds.Set(provider, settings.APIKey)
		imported = true
	}

	if source.AuthMode != "" && cfg.AuthMode == "" {
		cfg.AuthMode = domain.NormalizeAuthMode(source.AuthMode)
		imported = true
	}
	if source.GcloudProjectID != "" && cfg.GcloudProjectID == "" {
		cfg.GcloudProjectID = source.GcloudProjectID
		imported = true
	}
	if source.GcloudAuthValidated && !cfg.GcloudAuthValidated {
		cfg.GcloudAuthValidated = true
		imported = true
	}

	return imported
}

// ImportOnce locates the sibling application's config, merges missing
// fields into the local config, and persists the result when anything was
// copied. Failures are logged and absorbed: the import is an aid, never a
// startup blocker.
func (i *Importer) ImportOnce(store ports.ConfigStore) bool {
	source, path, ok := locateSiblingConfig(store.Dir())
	if !ok {
		if i.log != nil {
			i.log.Debug("no sibling config found for import", nil)
		}
		return false
	}

	cfg, err := store.Load()
	if err != nil {
		if i.log != nil {
			i.log.Warn("config load failed before import", map[string]interface{}{"error": err.Error()})
		}
		return false
	}

	if !i.Merge(&cfg, source) {
		return false
	}
	if err := store.Save(cfg); err != nil {
		if i.log != nil {
			i.log.Warn("config save failed after import", map[string]interface{}{"error": err.Error()})
		}
		return false
	}
	if i.log != nil {
		i.log.Info("imported sibling auth settings", map[string]interface{}{"source": path})
	}
	return true
}

// locateSiblingConfig probes the known locations of the sibling
// application's config.json and returns the first non-empty document.
func locateSiblingConfig(configDir string) (SiblingConfig, string, bool) {
	candidates := []string{
		filepath.Join(filepath.Dir(configDir), domain.SiblingAppName, "config.json"),
	}
	if runningUnderWSL() {
		if matches, err := filepath.Glob("/mnt/c/Users/*/AppData/Roaming/" + domain.SiblingAppName + "/config.json"); err == nil {
			candidates = append(candidates, matches...)
		}
	}

	for _, path := range candidates {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		var source SiblingConfig
		if err := json.Unmarshal(data, &source); err != nil {
			continue
		}
		if source.Empty() {
			continue
		}
		return source, path, true
	}
	return SiblingConfig{}, "", false
}

func runningUnderWSL() bool {
	if runtime.GOOS != "linux" {
		return false
	}
	release, err := os.ReadFile("/proc/sys/kernel/osrelease")
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(release)), "microsoft")
}
