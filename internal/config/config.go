// Package config resolves TaskCade settings from defaults, an optional YAML
// file and TASKCADE_* environment variables, in that order.
package config

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/caarlos0/env/v11"
	"gopkg.in/yaml.v3"

	"taskcade/internal/storage"
)

// Config is the resolved application configuration.
type Config struct {
	DBPath  string `yaml:"db_path" env:"TASKCADE_DB_PATH"`
	Backend string `yaml:"backend" env:"TASKCADE_BACKEND"`
	Verbose bool   `yaml:"verbose" env:"TASKCADE_VERBOSE"`
	LogFile string `yaml:"log_file" env:"TASKCADE_LOG_FILE"`
}

type location struct {
	Path string `env:"TASKCADE_CONFIG"`
}

func Default() (Config, error) {
	dbPath, err := storage.DefaultDBPath()
	if err != nil {
		return Config{}, err
	}
	return Config{DBPath: dbPath, Backend: storage.BackendSQLite}, nil
}

// DefaultPath is ~/.taskcade.yaml.
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".taskcade.yaml"), nil
}

// Load applies the config file (TASKCADE_CONFIG or DefaultPath) and then the
// environment over the defaults. A missing file is not an error.
func Load() (Config, error) {
	cfg, err := Default()
	if err != nil {
		return Config{}, err
	}
	var loc location
	if err := ParseEnv(&loc); err != nil {
		return Config{}, err
	}
	path := loc.Path
	if path == "" {
		if path, err = DefaultPath(); err != nil {
			return Config{}, err
		}
	}
	if err := LoadFile(path, &cfg); err != nil {
		return Config{}, err
	}
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	cfg.Normalize()
	return cfg, cfg.Validate()
}

// LoadFile overlays the YAML at path onto cfg.
func LoadFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}
	return nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Normalize trims and lowercases the backend name, as storage.Open accepts it.
func (c *Config) Normalize() {
	c.Backend = strings.ToLower(strings.TrimSpace(c.Backend))
}

func (c Config) Validate() error {
	switch c.Backend {
	case storage.BackendSQLite, storage.BackendBolt:
	default:
		return fmt.Errorf("backend must be %q or %q, got %q", storage.BackendSQLite, storage.BackendBolt, c.Backend)
	}
	if c.DBPath == "" {
		return errors.New("db path is required")
	}
	return nil
}

// Logger returns the application logger: discarded unless verbose, written
// to LogFile when set. The closer must be closed on exit.
func (c Config) Logger() (*log.Logger, io.Closer, error) {
	if c.LogFile != "" {
		f, err := os.OpenFile(c.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, fmt.Errorf("open log file: %w", err)
		}
		return log.New(f, "taskcade ", log.LstdFlags), f, nil
	}
	if c.Verbose {
		return log.New(os.Stderr, "taskcade ", log.LstdFlags), io.NopCloser(nil), nil
	}
	return log.New(io.Discard, "", 0), io.NopCloser(nil), nil
}
