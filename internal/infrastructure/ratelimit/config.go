package ratelimit

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/promptalchemy/alchemy-go/assets"
	"github.com/promptalchemy/alchemy-go/internal/domain"
)

// limitsFile is the YAML schema of limits.yaml.
type limitsFile struct {
	Limits map[string]limitEntry `yaml:"limits"`
}

type limitEntry struct {
	Calls         int `yaml:"calls"`
	WindowSeconds int `yaml:"window_seconds"`
}

// LoadQuotas reads per-provider quotas from a limits.yaml file. A missing
// file yields the embedded defaults; a malformed file is an error so a typo
// cannot silently disable rate limiting.
func LoadQuotas(path string) (map[string]domain.Quota, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			data = assets.DefaultLimitsYAML
		} else {
			return nil, fmt.Errorf("read limits: %w", err)
		}
	}

	var file limitsFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse limits: %w", err)
	}
	if len(file.Limits) == 0 {
		return domain.DefaultQuotas(), nil
	}

	quotas := make(map[string]domain.Quota, len(file.Limits))
	for provider, entry := range file.Limits {
		quotas[domain.NormalizeProviderID(provider)] = domain.Quota{
			MaxCalls: entry.Calls,
			Window:   time.Duration(entry.WindowSeconds) * time.Second,
		}
	}
	if _, ok := quotas["default"]; !ok {
		quotas["default"] = domain.DefaultQuotas()["default"]
	}
	return quotas, nil
}
