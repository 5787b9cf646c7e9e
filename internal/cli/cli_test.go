package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"graphrag/internal/document"
)

// setTestEnv points the CLI at temp paths and the in-process stores so
// commands run without external services. Returns the docs folder.
func setTestEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	docsDir := filepath.Join(dir, "docs")
	if err := os.MkdirAll(docsDir, 0755); err != nil {
		t.Fatalf("Failed to create docs dir: %v", err)
	}
	t.Setenv("VECTOR_STORE", "memory")
	t.Setenv("GRAPH_STORE", "off")
	t.Setenv("CACHE_PATH", filepath.Join(dir, "cache.json"))
	t.Setenv("DOCS_FOLDER", docsDir)
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("LOG_LEVEL", "error")
	return docsDir
}

// execute runs the root command with args and captures its output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	buf := new(bytes.Buffer)
	rootCmd.SetOut(buf)
	rootCmd.SetErr(buf)
	rootCmd.SetArgs(args)
	defer rootCmd.SetArgs(nil)

	err := rootCmd.ExecuteContext(context.Background())
	return buf.String(), err
}

func writeDoc(t *testing.T, dir, name, content string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write %s: %v", name, err)
	}
}

// sections builds one section per title for seeding the tracker.
func sections(titles ...string) []document.Section {
	secs := make([]document.Section, 0, len(titles))
	for i, title := range titles {
		content := "# " + title + "\n\nBody for " + title + ".\n"
		secs = append(secs, document.Section{
			ID:      i,
			Title:   title,
			Content: content,
			Hash:    document.Fingerprint(content),
		})
	}
	return secs
}
