package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaults(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	chdirOrFail(t, tmpDir)
	defer os.Chdir(oldWd)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("expected no error loading defaults, got %v", err)
	}

	if cfg.Comparer != "ordinal" {
		t.Errorf("expected default comparer 'ordinal', got %s", cfg.Comparer)
	}
	if cfg.N != 2 {
		t.Errorf("expected default n 2, got %d", cfg.N)
	}
	if cfg.Store.Driver != "sqlite" {
		t.Errorf("expected default store driver 'sqlite', got %s", cfg.Store.Driver)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("expected default port 8080, got %d", cfg.Server.Port)
	}
}

func TestLoadWithConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	chdirOrFail(t, tmpDir)
	defer os.Chdir(oldWd)

	configContent := `
comparer: invariant-ignore-case
sentinel: "#"
n: 5
store:
  driver: postgres
  dsn: postgres://localhost/magictext
server:
  port: 9090
`
	if err := os.WriteFile(filepath.Join(tmpDir, "magictext.yaml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}

	if cfg.Comparer != "invariant-ignore-case" {
		t.Errorf("comparer = %s, want invariant-ignore-case", cfg.Comparer)
	}
	if cfg.Sentinel != "#" {
		t.Errorf("sentinel = %q, want #", cfg.Sentinel)
	}
	if cfg.N != 5 {
		t.Errorf("n = %d, want 5", cfg.N)
	}
	if cfg.Store.Driver != "postgres" {
		t.Errorf("store.driver = %s, want postgres", cfg.Store.Driver)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("server.port = %d, want 9090", cfg.Server.Port)
	}
}

func TestLoadRejectsUnknownStoreDriver(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	chdirOrFail(t, tmpDir)
	defer os.Chdir(oldWd)

	configContent := "store:\n  driver: mongodb\n"
	if err := os.WriteFile(filepath.Join(tmpDir, "magictext.yaml"), []byte(configContent), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	if _, err := Load(); err == nil {
		t.Fatal("expected error for unknown store driver")
	}
}

func TestEnvOverridesConfigFile(t *testing.T) {
	tmpDir := t.TempDir()
	oldWd, _ := os.Getwd()
	chdirOrFail(t, tmpDir)
	defer os.Chdir(oldWd)

	os.Setenv("MAGICTEXT_COMPARER", "ordinal-ignore-case")
	defer os.Unsetenv("MAGICTEXT_COMPARER")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.Comparer != "ordinal-ignore-case" {
		t.Errorf("comparer = %s, want ordinal-ignore-case (from env)", cfg.Comparer)
	}
}

func chdirOrFail(t *testing.T, dir string) {
	t.Helper()
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("failed to chdir to %s: %v", dir, err)
	}
}
