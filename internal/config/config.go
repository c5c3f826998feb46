// Package config provides configuration loading and validation from environment variables
// and an optional YAML file.
package config

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	// DefaultAPIURL is used when API_URL is unset.
	DefaultAPIURL = "http://localhost:8000"

	// DefaultNoticeTTL is how long success and error banners stay visible.
	DefaultNoticeTTL = 3 * time.Second

	// ConfigFileEnv names the environment variable pointing at an optional YAML file.
	ConfigFileEnv = "STAFF_CONSOLE_CONFIG"
)

// Config holds all console configuration.
type Config struct {
	APIURL            string        // Base URL of the remote admin API
	LogLevel          string        // debug, info, warn, error
	StatePath         string        // SQLite file holding the persisted credential
	LogFile           string        // Log destination; the TUI owns stdout
	TokenKey          []byte        // Optional 32-byte AES key for the stored credential
	NoticeTTL         time.Duration // Banner lifetime
	MetricsListenAddr string        // Empty disables the metrics listener

	logFileSet bool // LogFile came from the file or LOG_FILE
}

// fileConfig mirrors Config for the YAML file. Durations and keys stay strings
// so both sources go through the same parsing.
type fileConfig struct {
	APIURL            string `yaml:"api_url"`
	LogLevel          string `yaml:"log_level"`
	StatePath         string `yaml:"state_path"`
	LogFile           string `yaml:"log_file"`
	TokenKey          string `yaml:"token_key"`
	NoticeTTL         string `yaml:"notice_ttl"`
	MetricsListenAddr string `yaml:"metrics_listen_addr"`
}

// Load builds the configuration. Values come from the YAML file named by
// STAFF_CONSOLE_CONFIG (if set), then environment variables override them,
// then defaults fill whatever is still empty.
func Load() (*Config, error) {
	var fc fileConfig
	if path := os.Getenv(ConfigFileEnv); path != "" {
		loaded, err := readFile(path)
		if err != nil {
			return nil, err
		}
		fc = *loaded
	}

	overlay(&fc.APIURL, "API_URL")
	overlay(&fc.LogLevel, "LOG_LEVEL")
	overlay(&fc.StatePath, "STATE_PATH")
	overlay(&fc.LogFile, "LOG_FILE")
	overlay(&fc.TokenKey, "TOKEN_KEY")
	overlay(&fc.NoticeTTL, "NOTICE_TTL")
	overlay(&fc.MetricsListenAddr, "METRICS_LISTEN_ADDR")

	cfg := &Config{
		APIURL:            fc.APIURL,
		LogLevel:          fc.LogLevel,
		StatePath:         fc.StatePath,
		LogFile:           fc.LogFile,
		NoticeTTL:         DefaultNoticeTTL,
		MetricsListenAddr: fc.MetricsListenAddr,
	}

	if cfg.APIURL == "" {
		cfg.APIURL = DefaultAPIURL
	}

	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}

	if cfg.StatePath == "" {
		cfg.StatePath = filepath.Join(defaultStateDir(), "state.db")
	}

	if cfg.LogFile == "" {
		cfg.LogFile = derivedLogFile(cfg.StatePath)
	} else {
		cfg.logFileSet = true
	}

	if fc.TokenKey != "" {
		key, err := hex.DecodeString(fc.TokenKey)
		if err != nil {
			return nil, fmt.Errorf("TOKEN_KEY must be hex encoded: %w", err)
		}
		cfg.TokenKey = key
	}

	if fc.NoticeTTL != "" {
		ttl, err := time.ParseDuration(fc.NoticeTTL)
		if err != nil {
			return nil, fmt.Errorf("invalid NOTICE_TTL %q: %w", fc.NoticeTTL, err)
		}
		cfg.NoticeTTL = ttl
	}

	return cfg, nil
}

// SetStatePath moves the state file. A log file that was not configured
// explicitly moves along with it.
func (c *Config) SetStatePath(path string) {
	c.StatePath = path
	if !c.logFileSet {
		c.LogFile = derivedLogFile(path)
	}
}

// SetLogFile pins the log destination so later state path changes keep it.
func (c *Config) SetLogFile(path string) {
	c.LogFile = path
	c.logFileSet = true
}

func derivedLogFile(statePath string) string {
	return filepath.Join(filepath.Dir(statePath), "staff-console.log")
}

// Validate checks all configuration constraints.
func (c *Config) Validate() error {
	u, err := url.Parse(c.APIURL)
	if err != nil {
		return fmt.Errorf("invalid API_URL %q: %w", c.APIURL, err)
	}
	if (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("API_URL must be an absolute http(s) URL, got %q", c.APIURL)
	}

	if c.TokenKey != nil && len(c.TokenKey) != 32 {
		return fmt.Errorf("TOKEN_KEY must decode to 32 bytes, got %d", len(c.TokenKey))
	}

	if c.NoticeTTL <= 0 {
		return errors.New("NOTICE_TTL must be positive")
	}

	if c.StatePath == "" {
		return errors.New("STATE_PATH must not be empty")
	}

	return nil
}

// readFile decodes the YAML config file at path.
func readFile(path string) (*fileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file %s: %w", path, err)
	}

	var fc fileConfig
	if err := yaml.Unmarshal(data, &fc); err != nil {
		return nil, fmt.Errorf("parsing config file %s: %w", path, err)
	}
	return &fc, nil
}

// overlay replaces *dst with the environment variable's value when it is set.
func overlay(dst *string, name string) {
	if v := os.Getenv(name); v != "" {
		*dst = v
	}
}

// defaultStateDir returns $XDG_CONFIG_HOME/staff-console, falling back to
// ~/.config/staff-console.
func defaultStateDir() string {
	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return filepath.Join(os.TempDir(), "staff-console")
		}
		configDir = filepath.Join(home, ".config")
	}
	return filepath.Join(configDir, "staff-console")
}
