// Package config resolves the client's settings from, in priority order:
// defaults, ~/.dayplan/config.toml, a .env file in the working directory
// (development convenience), and DAYPLAN_* environment variables. Flags
// override on top in the CLI layer.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
)

const (
	envServer   = "DAYPLAN_SERVER"
	envSession  = "DAYPLAN_SESSION"
	envActivity = "DAYPLAN_ACTIVITY"
	envDebug    = "DAYPLAN_DEBUG"
)

// Config is the resolved client configuration.
type Config struct {
	// ServerURL is the dayplan server's base URL.
	ServerURL string `toml:"server_url"`
	// SessionFile persists the session cookies between invocations.
	SessionFile string `toml:"session_file"`
	// ActivityFile is the local activity log database.
	ActivityFile string `toml:"activity_file"`
	// Debug turns on transport-level logging to stderr.
	Debug bool `toml:"debug"`
}

// Dir returns the per-user config directory (~/.dayplan).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".dayplan"), nil
}

// Path returns the config file location inside Dir.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// Load resolves the configuration. A missing config file is fine; a
// malformed one is an error.
func Load() (*Config, error) {
	cfg := &Config{
		ServerURL: "http://localhost:8000",
	}

	path, err := Path()
	if err == nil {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	// .env is a development convenience; absence is the normal case.
	_ = godotenv.Load()

	loadEnv(cfg)

	if dir, err := Dir(); err == nil {
		if cfg.SessionFile == "" {
			cfg.SessionFile = filepath.Join(dir, "session.json")
		}
		if cfg.ActivityFile == "" {
			cfg.ActivityFile = filepath.Join(dir, "activity.sqlite")
		}
	}

	if strings.TrimSpace(cfg.ServerURL) == "" {
		return nil, errors.New("server url is empty (set server_url in config.toml or DAYPLAN_SERVER)")
	}
	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	b, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}
	if err := toml.Unmarshal(b, cfg); err != nil {
		return fmt.Errorf("parse %s: %w", path, err)
	}
	return nil
}

func loadEnv(cfg *Config) {
	if v := os.Getenv(envServer); v != "" {
		cfg.ServerURL = v
	}
	if v := os.Getenv(envSession); v != "" {
		cfg.SessionFile = v
	}
	if v := os.Getenv(envActivity); v != "" {
		cfg.ActivityFile = v
	}
	if v := os.Getenv(envDebug); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}
}

// Save writes the config file, creating the directory as needed.
func Save(cfg *Config) error {
	path, err := Path()
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(cfg)
}
