package gcloud

import (
	"context"
	"errors"
	"strings"
	"testing"
)

func fakeChecker(lookErr error, stdout, stderr string, runErr error) *Checker {
	return &Checker{
		lookPath: func(string) (string, error) {
			if lookErr != nil {
				return "", lookErr
			}
			return "/usr/bin/gcloud", nil
		},
		runner: func(_ context.Context, _ string, args ...string) (string, string, error) {
			if len(args) > 0 && args[0] == "config" {
				return "demo-project\n", "", nil
			}
			return stdout, stderr, runErr
		},
	}
}

func TestStatusAuthenticated(t *testing.T) {
	c := fakeChecker(nil, "ya29.token", "", nil)
	ok, msg := c.Status(context.Background())
	if !ok {
		t.Fatalf("expected authenticated, got message %q", msg)
	}
	if !strings.Contains(msg, "demo-project") {
		t.Errorf("message should name the project, got %q", msg)
	}
}

func TestStatusMissingCredentials(t *testing.T) {
	c := fakeChecker(nil, "", "ERROR: Could not find default credentials.", errors.New("exit 1"))
	ok, msg := c.Status(context.Background())
	if ok {
		t.Fatal("expected unauthenticated")
	}
	if !strings.Contains(msg, "application-default login") {
		t.Errorf("message should tell the user how to log in, got %q", msg)
	}
}

func TestStatusQuotaProject(t *testing.T) {
	c := fakeChecker(nil, "", "ERROR: quota project is not set", errors.New("exit 1"))
	ok, msg := c.Status(context.Background())
	if ok {
		t.Fatal("expected unauthenticated")
	}
	if !strings.Contains(msg, "set-quota-project") {
		t.Errorf("message should mention the quota project fix, got %q", msg)
	}
}

func TestStatusBinaryMissing(t *testing.T) {
	c := fakeChecker(errors.New("not found"), "", "", nil)
	ok, msg := c.Status(context.Background())
	if ok {
		t.Fatal("expected unauthenticated when gcloud is missing")
	}
	if !strings.Contains(msg, "cloud.google.com/sdk") && !strings.Contains(msg, "WSL") {
		t.Errorf("message should point at the install docs, got %q", msg)
	}
}

func TestProjectID(t *testing.T) {
	c := fakeChecker(nil, "", "", nil)
	if got := c.ProjectID(context.Background()); got != "demo-project" {
		t.Errorf("ProjectID = %q", got)
	}
}

func TestProjectIDUnset(t *testing.T) {
	c := &Checker{
		lookPath: func(string) (string, error) { return "/usr/bin/gcloud", nil },
		runner: func(_ context.Context, _ string, _ ...string) (string, string, error) {
			return "(unset)\n", "", nil
		},
	}
	if got := c.ProjectID(context.Background()); got != "" {
		t.Errorf("ProjectID for unset config = %q, want empty", got)
	}
}
