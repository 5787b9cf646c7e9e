package cli

import (
	"bytes"
	"log/slog"
	"os"
	"strings"
	"testing"

	"graphrag/internal/tracker"
)

func seedCache(t *testing.T) *tracker.Tracker {
	t.Helper()
	track := tracker.New(os.Getenv("CACHE_PATH"), slog.Default())
	track.Load()
	if err := track.Commit("alpha.md", sections("Intro", "Scope")); err != nil {
		t.Fatalf("Failed to seed cache: %v", err)
	}
	return track
}

func cachedFiles(t *testing.T) int {
	t.Helper()
	track := tracker.New(os.Getenv("CACHE_PATH"), slog.Default())
	track.Load()
	return track.Stats().TotalFiles
}

func TestResetCmd_Yes(t *testing.T) {
	setTestEnv(t)
	seedCache(t)
	defer func() { resetYes = false }()

	out, err := execute(t, "reset", "--yes")
	if err != nil {
		t.Fatalf("Failed to run reset: %v", err)
	}

	if !strings.Contains(out, "Section cache cleared.") {
		t.Errorf("Output missing confirmation:\n%s", out)
	}
	if got := cachedFiles(t); got != 0 {
		t.Errorf("Cache has %d files after reset, want 0", got)
	}
}

func TestResetCmd_PromptConfirmed(t *testing.T) {
	setTestEnv(t)
	seedCache(t)

	rootCmd.SetIn(strings.NewReader("y\n"))
	defer rootCmd.SetIn(nil)

	out, err := execute(t, "reset")
	if err != nil {
		t.Fatalf("Failed to run reset: %v", err)
	}

	if !strings.Contains(out, "[y/N]") {
		t.Errorf("Output missing prompt:\n%s", out)
	}
	if got := cachedFiles(t); got != 0 {
		t.Errorf("Cache has %d files after confirmed reset, want 0", got)
	}
}

func TestResetCmd_PromptDeclined(t *testing.T) {
	setTestEnv(t)
	seedCache(t)

	tests := []struct {
		name  string
		input string
	}{
		{name: "explicit no", input: "n\n"},
		{name: "empty line defaults to no", input: "\n"},
		{name: "immediate EOF defaults to no", input: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rootCmd.SetIn(bytes.NewReader([]byte(tt.input)))
			defer rootCmd.SetIn(nil)

			out, err := execute(t, "reset")
			if err != nil {
				t.Fatalf("Failed to run reset: %v", err)
			}

			if !strings.Contains(out, "Aborted.") {
				t.Errorf("Output missing abort notice:\n%s", out)
			}
			if got := cachedFiles(t); got != 1 {
				t.Errorf("Cache has %d files after declined reset, want 1", got)
			}
		})
	}
}
