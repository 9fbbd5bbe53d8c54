package filesystem

import (
	"os"
	"path/filepath"
)

// UserHomeDir returns the current user's home directory.
// If the home directory cannot be determined, it returns "." as a fallback.
func UserHomeDir() string {
	if home, err := os.UserHomeDir(); err == nil {
		return home
	}
	return "."
}

// AppConfigDir returns the platform configuration directory for the given
// application (e.g. ~/.config/PromptAlchemy on Linux, ~/Library/Application
// Support/PromptAlchemy on macOS, %AppData%\PromptAlchemy on Windows). The
// ALCHEMY_CONFIG_DIR environment variable overrides the probed location.
func AppConfigDir(app string) string {
	if custom := os.Getenv("ALCHEMY_CONFIG_DIR"); custom != "" {
		return custom
	}
	if base, err := os.UserConfigDir(); err == nil {
		return filepath.Join(base, app)
	}
	return filepath.Join(UserHomeDir(), "."+app)
}
