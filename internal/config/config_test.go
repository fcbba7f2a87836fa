package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "taskcade.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadDefaults(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("TASKCADE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != "sqlite" {
		t.Fatalf("backend=%q, want sqlite", cfg.Backend)
	}
	if !strings.HasSuffix(cfg.DBPath, ".taskcade.db") {
		t.Fatalf("db path=%q", cfg.DBPath)
	}
	if cfg.Verbose {
		t.Fatalf("verbose by default")
	}
}

func TestLoadFileThenEnv(t *testing.T) {
	path := writeConfig(t, "backend: bolt\ndb_path: /tmp/from-file.db\nverbose: true\n")
	t.Setenv("TASKCADE_CONFIG", path)
	t.Setenv("TASKCADE_DB_PATH", "/tmp/from-env.db")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != "bolt" {
		t.Fatalf("backend=%q, want bolt from file", cfg.Backend)
	}
	if cfg.DBPath != "/tmp/from-env.db" {
		t.Fatalf("db path=%q, want env override", cfg.DBPath)
	}
	if !cfg.Verbose {
		t.Fatalf("verbose from file lost")
	}
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	t.Setenv("TASKCADE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("TASKCADE_BACKEND", "postgres")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for unknown backend")
	}
}

func TestParseEnvError(t *testing.T) {
	t.Setenv("TASKCADE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("TASKCADE_VERBOSE", "not-a-bool")
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("err=%v, want parse env error", err)
	}
}

func TestLoadFileBadYAML(t *testing.T) {
	path := writeConfig(t, "backend: [unterminated\n")
	var cfg Config
	if err := LoadFile(path, &cfg); err == nil {
		t.Fatalf("expected yaml error")
	}
}

func TestLoadNormalizesBackend(t *testing.T) {
	t.Setenv("TASKCADE_CONFIG", filepath.Join(t.TempDir(), "missing.yaml"))
	t.Setenv("TASKCADE_BACKEND", " Bolt ")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Backend != "bolt" {
		t.Fatalf("backend=%q, want bolt", cfg.Backend)
	}
}

func TestNormalizeThenValidate(t *testing.T) {
	cfg := Config{DBPath: "/tmp/x.db", Backend: "SQLite"}
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected raw mixed-case backend to fail validation")
	}
	cfg.Normalize()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate after Normalize: %v", err)
	}
}
