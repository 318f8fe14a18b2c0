package assist

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

const defaultConfigFile = "config.json"

// Environment variables that override config.json.
const (
	EnvDataSource  = "ASSIST_DATA_SOURCE"
	EnvLocale      = "ASSIST_LOCALE"
	EnvLoadTimeout = "ASSIST_LOAD_TIMEOUT"
	EnvWatch       = "ASSIST_WATCH"
)

// LoadConfig loads configuration from the given path or the default config.json.
// A missing file yields the defaults. Environment overrides are applied last.
func LoadConfig(path string) (Config, error) {
	if path == "" {
		path = defaultConfigFile
	}
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return cfg, fmt.Errorf("read config: %w", err)
		}
	} else if err := json.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("decode config: %w", err)
	}
	if err := cfg.ApplyEnv(); err != nil {
		return cfg, err
	}
	cfg.ApplyDefaults()
	return cfg, nil
}

// SaveConfig persists configuration to disk.
func SaveConfig(path string, cfg Config) error {
	if path == "" {
		path = defaultConfigFile
	}
	tmp := path + ".tmp"
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	cfg.ApplyDefaults()
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("encode config: %w", err)
	}
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write temp config: %w", err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("rename config: %w", err)
	}
	return nil
}

// LoadEnvFile reads KEY=VALUE pairs from path into the process environment.
// Variables that are already set win. A missing file is not an error.
func LoadEnvFile(path string) error {
	if path == "" {
		path = ".env"
	}
	if _, err := os.Stat(path); errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		return fmt.Errorf("load env file: %w", err)
	}
	return nil
}

// ApplyEnv overlays ASSIST_* environment variables onto c.
func (c *Config) ApplyEnv() error {
	if v := strings.TrimSpace(os.Getenv(EnvDataSource)); v != "" {
		c.DataSource = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLocale)); v != "" {
		c.Locale = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLoadTimeout)); v != "" {
		secs, err := strconv.Atoi(v)
		if err != nil || secs <= 0 {
			return fmt.Errorf("%s must be a positive number of seconds, got %q", EnvLoadTimeout, v)
		}
		c.LoadTimeoutSeconds = secs
	}
	if v := strings.TrimSpace(os.Getenv(EnvWatch)); v != "" {
		watch, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("%s: %w", EnvWatch, err)
		}
		c.Watch = watch
	}
	return nil
}

// ApplyColumnCandidates installs the configured auto-detection candidates,
// or the built-in ones when the config has none.
func (c Config) ApplyColumnCandidates() {
	if c.ColumnCandidates == nil {
		SetColumnCandidates(DefaultColumnCandidates())
		return
	}
	SetColumnCandidates(*c.ColumnCandidates)
}
