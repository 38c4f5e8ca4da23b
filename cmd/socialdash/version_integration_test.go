//go:build integration

package main

import (
	"os/exec"
	"strings"
	"testing"
)

// TestVersionFlag_ReportsGitDescribe needs a binary built with
// -ldflags "-X main.version=$(git describe --tags --always --dirty)".
func TestVersionFlag_ReportsGitDescribe(t *testing.T) {
	described, err := exec.Command("git", "describe", "--tags", "--always", "--dirty").Output()
	if err != nil {
		t.Skipf("git describe unavailable: %v", err)
	}
	want := "socialdash version " + strings.TrimSpace(string(described))

	stdout, stderr, exitCode := runCLI(t, nil, "--version")

	if exitCode != 0 {
		t.Fatalf("--version should succeed, got exit %d:\n%s", exitCode, stderr)
	}
	if got := strings.TrimSpace(stdout); got != want {
		t.Errorf("got %q, want %q", got, want)
	}
}
