package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
}

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	configPath := filepath.Join(base, "config.toml")
	content := fmt.Sprintf(
		"[paths]\nbase_dir = %q\nlog_dir = %q\n\n[schedule]\nposts_per_week = 7.0\npreferred_times = [\"09:00\"]\n",
		filepath.Join(base, "pipeline"),
		filepath.Join(base, "logs"),
	)
	if err := os.WriteFile(configPath, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	return &cliTestEnv{baseDir: base, configPath: configPath}
}

func (env *cliTestEnv) photoFolder(t *testing.T, names ...string) string {
	t.Helper()
	dir := filepath.Join(env.baseDir, "incoming", fmt.Sprintf("batch-%d", len(names)))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatalf("create photo folder: %v", err)
	}
	for _, name := range names {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("jpeg"), 0o644); err != nil {
			t.Fatalf("write photo: %v", err)
		}
	}
	return dir
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = []string{"--config", configPath}
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
