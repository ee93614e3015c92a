package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestRun_StartupFailureClosesResources(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "advisor.log")
	cfgPath := filepath.Join(dir, "config.yaml")
	cfg := "data_source:\n  provider: mock\n" +
		"schedule:\n  tick_cron: \"not a cron\"\n" +
		"database:\n  sqlite_path: " + filepath.Join(dir, "journal.db") + "\n" +
		"log:\n  level: info\n  output: " + logPath + "\n"
	if err := os.WriteFile(cfgPath, []byte(cfg), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_PATH", cfgPath)

	if code := run(); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}

	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "register tick") {
		t.Errorf("expected the register failure to be logged:\n%s", out)
	}
	if !strings.Contains(out, "closing sqlite recorder") {
		t.Errorf("expected the recorder to be closed before exit:\n%s", out)
	}
}

func TestRun_InvalidConfig(t *testing.T) {
	cfgPath := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(cfgPath, []byte("chart:\n  period: 2w\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("CONFIG_PATH", cfgPath)

	if code := run(); code != 1 {
		t.Errorf("expected exit code 1, got %d", code)
	}
}
