// Package gcloud probes the Google Cloud CLI for application-default
// credentials, used by providers running in cloud auth mode.
package gcloud

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/promptalchemy/alchemy-go/internal/domain"
	"github.com/promptalchemy/alchemy-go/internal/ports"
)

// Checker implements ports.CloudAuthChecker by shelling out to gcloud.
type Checker struct {
	log ports.Logger

	// lookPath and runner are swapped in tests.
	lookPath func(string) (string, error)
	runner   func(ctx context.Context, name string, args ...string) (stdout, stderr string, err error)
}

// NewChecker creates a checker using the real gcloud binary.
func NewChecker(log ports.Logger) *Checker {
	return &Checker{
		log:      log,
		lookPath: exec.LookPath,
		runner:   run,
	}
}

func run(ctx context.Context, name string, args ...string) (string, string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out, errOut strings.Builder
	cmd.Stdout = &out
	cmd.Stderr = &errOut
	err := cmd.Run()
	return out.String(), errOut.String(), err
}

// binary locates the gcloud executable. PATH is tried first; under WSL the
// Windows SDK install locations are probed as a fallback.
func (c *Checker) binary() string {
	if path, err := c.lookPath("gcloud"); err == nil {
		return path
	}
	if !runningUnderWSL() {
		return ""
	}
	candidates := []string{
		"/mnt/c/Program Files/Google/Cloud SDK/google-cloud-sdk/bin/gcloud.cmd",
		"/mnt/c/Program Files (x86)/Google/Cloud SDK/google-cloud-sdk/bin/gcloud.cmd",
	}
	if users, err := os.ReadDir("/mnt/c/Users"); err == nil {
		for _, user := range users {
			candidates = append(candidates, filepath.Join(
				"/mnt/c/Users", user.Name(),
				"AppData/Local/Google/Cloud SDK/google-cloud-sdk/bin/gcloud.cmd"))
		}
	}
	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}

// Status reports whether application-default credentials are usable, with a
// message telling the user what to do when they are not.
func (c *Checker) Status(ctx context.Context) (bool, string) {
	gcloud := c.binary()
	if gcloud == "" {
		if runningUnderWSL() {
			return false, "Google Cloud CLI not found. Either:\n" +
				"1. Install in WSL: sudo snap install google-cloud-cli --classic\n" +
				"2. Or run from PowerShell where gcloud is installed"
		}
		return false, "Google Cloud CLI not installed. Visit: https://cloud.google.com/sdk/docs/install"
	}

	ctx, cancel := context.WithTimeout(ctx, domain.DefaultAuthCheckTimeout)
	defer cancel()
	_, stderr, err := c.runner(ctx, gcloud, "auth", "application-default", "print-access-token")
	if err == nil {
		if project := c.ProjectID(ctx); project != "" {
			return true, fmt.Sprintf("Authenticated with Google Cloud (Project: %s)", project)
		}
		return true, "Authenticated with Google Cloud (No project set)"
	}
	if ctx.Err() == context.DeadlineExceeded {
		return false, "Timeout checking authentication. gcloud may be updating or slow."
	}

	lower := strings.ToLower(stderr)
	switch {
	case strings.Contains(lower, "quota project"):
		return false, "Authentication found but quota project not set.\n" +
			"Run: gcloud auth application-default set-quota-project YOUR_PROJECT_ID"
	case strings.Contains(lower, "could not find default credentials"):
		return false, "Not authenticated. Please run:\ngcloud auth application-default login"
	default:
		return false, "Not authenticated. Please run:\n" +
			"gcloud auth application-default login\n\n" +
			"This will open your browser to authenticate."
	}
}

// ProjectID returns the configured gcloud project, empty when unset or when
// gcloud is unavailable.
func (c *Checker) ProjectID(ctx context.Context) string {
	gcloud := c.binary()
	if gcloud == "" {
		return ""
	}
	ctx, cancel := context.WithTimeout(ctx, domain.DefaultProbeTimeout)
	defer cancel()
	stdout, _, err := c.runner(ctx, gcloud, "config", "get-value", "project")
	if err != nil {
		return ""
	}
	project := strings.TrimSpace(stdout)
	if project == "" || project == "(unset)" {
		return ""
	}
	return project
}

func runningUnderWSL() bool {
	data, err := os.ReadFile("/proc/sys/kernel/osrelease")
	if err != nil {
		return false
	}
	return strings.Contains(strings.ToLower(string(data)), "microsoft")
}

var _ ports.CloudAuthChecker = (*Checker)(nil)
