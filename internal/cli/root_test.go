package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRootCmd_Use(t *testing.T) {
	if rootCmd.Use != "ragctl" {
		t.Errorf("rootCmd.Use = %q, want %q", rootCmd.Use, "ragctl")
	}
}

func TestRootCmd_HasSubcommands(t *testing.T) {
	names := make(map[string]bool)
	for _, cmd := range rootCmd.Commands() {
		names[cmd.Name()] = true
	}

	for _, want := range []string{"status", "reset", "ingest", "watch"} {
		if !names[want] {
			t.Errorf("rootCmd is missing subcommand %q", want)
		}
	}
}

func TestRootCmd_UnknownCommand(t *testing.T) {
	_, err := execute(t, "bogus")
	if err == nil {
		t.Fatal("Expected error for unknown command")
	}
	if !strings.Contains(err.Error(), "unknown command") {
		t.Errorf("Error = %q, want it to mention unknown command", err.Error())
	}
}

func TestRootCmd_ConfigFlagLoadsDotEnv(t *testing.T) {
	setTestEnv(t)

	dir := t.TempDir()
	cfgPath := filepath.Join(dir, "ragctl.env")
	content := "RAGCTL_TEST_SENTINEL=from-file\nDOCS_FOLDER=" + filepath.Join(dir, "other-docs") + "\n"
	if err := os.WriteFile(cfgPath, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write config file: %v", err)
	}
	defer func() {
		cfgFile = ""
		os.Unsetenv("RAGCTL_TEST_SENTINEL")
	}()

	docsBefore := os.Getenv("DOCS_FOLDER")

	if _, err := execute(t, "--config", cfgPath, "status"); err != nil {
		t.Fatalf("Failed to run status with --config: %v", err)
	}

	if got := os.Getenv("RAGCTL_TEST_SENTINEL"); got != "from-file" {
		t.Errorf("RAGCTL_TEST_SENTINEL = %q, want %q", got, "from-file")
	}
	// godotenv never overrides variables already set; DOCS_FOLDER came from
	// the environment and must survive.
	if got := os.Getenv("DOCS_FOLDER"); got != docsBefore {
		t.Errorf("DOCS_FOLDER = %q, want the pre-set %q", got, docsBefore)
	}
}

func TestRootCmd_ConfigFlagMissingFile(t *testing.T) {
	setTestEnv(t)
	defer func() { cfgFile = "" }()

	_, err := execute(t, "--config", filepath.Join(t.TempDir(), "absent.env"), "status")
	if err == nil {
		t.Fatal("Expected error for missing config file")
	}
	if !strings.Contains(err.Error(), "failed to load config file") {
		t.Errorf("Error = %q, want config file load failure", err.Error())
	}
}
