// Package config persists the application configuration document and the
// one-shot import of a sibling application's auth settings.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/promptalchemy/alchemy-go/internal/domain"
	"github.com/promptalchemy/alchemy-go/internal/pkg/filesystem"
	"github.com/promptalchemy/alchemy-go/internal/ports"
)

// Manager loads and saves config.json in the platform config directory
// (overridable via ALCHEMY_CONFIG_DIR). A missing file yields defaults that
// are written back; a malformed file degrades to defaults with a warning
// rather than failing the application.
type Manager struct {
	dir string
	mu  sync.Mutex
	log ports.Logger
}

// NewManager builds a manager rooted at dir; an empty dir selects the
// platform default location.
func NewManager(dir string, log ports.Logger) *Manager {
	if dir == "" {
		dir = filesystem.AppConfigDir(domain.AppName)
	}
	return &Manager{dir: dir, log: log}
}

// Dir returns the configuration directory.
func (m *Manager) Dir() string {
	return m.dir
}

// ConfigPath returns the path of the config document.
func (m *Manager) ConfigPath() string {
	return filepath.Join(m.dir, "config.json")
}

// HistoryPath returns the path of the enhancement history log.
func (m *Manager) HistoryPath() string {
	return filepath.Join(m.dir, "history.jsonl")
}

// HistoryDBPath returns the path of the SQLite history database.
func (m *Manager) HistoryDBPath() string {
	return filepath.Join(m.dir, "history.db")
}

// ProjectsDir returns the base directory for project collections.
func (m *Manager) ProjectsDir() string {
	return filepath.Join(m.dir, "projects")
}

// LimitsPath returns the path of the rate-limit quota file.
func (m *Manager) LimitsPath() string {
	return filepath.Join(m.dir, "limits.yaml")
}

// Load implements ports.ConfigStore.
func (m *Manager) Load() (domain.Config, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if err := os.MkdirAll(m.dir, domain.DirectoryPermissions); err != nil {
		return domain.Config{}, fmt.Errorf("create config dir: %w", err)
	}

	data, err := os.ReadFile(m.ConfigPath())
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			cfg := domain.DefaultConfig()
			if err := m.write(cfg); err != nil {
				return domain.Config{}, err
			}
			return cfg, nil
		}
		return domain.Config{}, fmt.Errorf("read config: %w", err)
	}

	var cfg domain.Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		if m.log != nil {
			m.log.Warn("config file malformed, using defaults", map[string]interface{}{
				"path":  m.ConfigPath(),
				"error": err.Error(),
			})
		}
		return domain.DefaultConfig(), nil
	}
	return hydrateDefaults(cfg), nil
}

// Save implements ports.ConfigStore.
func (m *Manager) Save(cfg domain.Config) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := os.MkdirAll(m.dir, domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return m.write(cfg)
}

func (m *Manager) write(cfg domain.Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(m.ConfigPath(), data, domain.SecureFilePermissions); err != nil {
		return fmt.Errorf("write config: %w", err)
	}
	return nil
}

// SaveUIState rewrites state.json wholesale.
func (m *Manager) SaveUIState(state map[string]any) error {
	data, err := json.MarshalIndent(state, "", "  ")
	if err != nil {
		return fmt.Errorf("encode state: %w", err)
	}
	if err := os.MkdirAll(m.dir, domain.DirectoryPermissions); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(m.statePath(), data, domain.FilePermissions)
}

// LoadUIState returns the persisted UI state, empty when missing or
// malformed.
func (m *Manager) LoadUIState() map[string]any {
	data, err := os.ReadFile(m.statePath())
	if err != nil {
		return map[string]any{}
	}
	var state map[string]any
	if err := json.Unmarshal(data, &state); err != nil {
		return map[string]any{}
	}
	return state
}

func (m *Manager) statePath() string {
	return filepath.Join(m.dir, "state.json")
}

func hydrateDefaults(cfg domain.Config) domain.Config {
	defaults := domain.DefaultConfig()
	if cfg.Providers == nil {
		cfg.Providers = map[string]domain.ProviderSettings{}
	}
	if cfg.DefaultProvider == "" {
		cfg.DefaultProvider = defaults.DefaultProvider
	}
	if cfg.DefaultModel == "" {
		cfg.DefaultModel = defaults.DefaultModel
	}
	if cfg.EnhancementDefaults.Role == "" {
		cfg.EnhancementDefaults = defaults.EnhancementDefaults
	}
	return cfg
}

var _ ports.ConfigStore = (*Manager)(nil)
