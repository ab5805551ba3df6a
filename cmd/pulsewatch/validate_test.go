package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// executeValidateCmd runs the validate command with the given config path
// and returns captured stdout and any error.
func executeValidateCmd(t *testing.T, configPath string) (string, error) {
	t.Helper()

	// capture stdout
	old := os.Stdout
	r, w, _ := os.Pipe()
	os.Stdout = w

	rootCmd.SetArgs([]string{"validate", "-c", configPath})
	err := rootCmd.Execute()

	// restore stdout
	_ = w.Close()
	os.Stdout = old
	var buf bytes.Buffer
	_, _ = buf.ReadFrom(r)

	return buf.String(), err
}

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	return path
}

func TestRunValidate_ValidConfig(t *testing.T) {
	configPath := writeConfig(t, `
port: 9090
base_url: http://localhost:8787
poll_interval: 5s
headers:
  Authorization: Bearer token
log_file: /tmp/pulsewatch.log
`)

	output, err := executeValidateCmd(t, configPath)
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}

	expectedPhrases := []string{
		"Config is valid!",
		"Base URL:      http://localhost:8787",
		"Port:          9090",
		"Poll interval: 5s",
		"Timeout:       10s",
		"Log capacity:  50",
		"Headers:       1",
		"Watch log:     /tmp/pulsewatch.log",
	}

	for _, phrase := range expectedPhrases {
		if !strings.Contains(output, phrase) {
			t.Errorf("output missing %q\nGot: %s", phrase, output)
		}
	}
}

func TestRunValidate_DefaultBaseURL(t *testing.T) {
	output, err := executeValidateCmd(t, writeConfig(t, "title: Defaults\n"))
	if err != nil {
		t.Fatalf("validate command error = %v", err)
	}

	if !strings.Contains(output, "(default)") {
		t.Errorf("output should mark the default base URL\nGot: %s", output)
	}
	if !strings.Contains(output, "Watch log:     (discarded)") {
		t.Errorf("output should show discarded watch log\nGot: %s", output)
	}
}

func TestRunValidate_InvalidConfig(t *testing.T) {
	_, err := executeValidateCmd(t, writeConfig(t, "poll_interval: 10ms\n"))
	if err == nil {
		t.Fatal("validate command expected error for invalid config, got nil")
	}

	if !strings.Contains(err.Error(), "poll_interval must be at least") {
		t.Errorf("error should mention the poll interval minimum, got: %v", err)
	}
}

func TestRunValidate_MissingFile(t *testing.T) {
	_, err := executeValidateCmd(t, "/nonexistent/path/config.yaml")
	if err == nil {
		t.Fatal("validate command expected error for missing file, got nil")
	}

	if !strings.Contains(err.Error(), "failed to read") {
		t.Errorf("error should mention 'failed to read', got: %v", err)
	}
}

func TestVersionCommand(t *testing.T) {
	var buf bytes.Buffer
	rootCmd.SetOut(&buf)
	t.Cleanup(func() { rootCmd.SetOut(nil) })

	rootCmd.SetArgs([]string{"version"})
	if err := rootCmd.Execute(); err != nil {
		t.Fatalf("version error = %v", err)
	}

	if got := buf.String(); !strings.HasPrefix(got, "pulsewatch dev (commit none") {
		t.Errorf("version output = %q", got)
	}
}
