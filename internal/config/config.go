package config

import (
	_ "embed"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables that override file settings.
const (
	EnvHome      = "PASTURIZE_HOME"
	EnvDBPath    = "PASTURIZE_DB_PATH"
	EnvLogLevel  = "PASTURIZE_LOG_LEVEL"
	EnvLogFormat = "PASTURIZE_LOG_FORMAT"
	EnvHTTPAddr  = "PASTURIZE_HTTP_ADDR"
	EnvTesting   = "PASTURIZE_TESTING"
)

// FileName is the config file looked up in the home directory.
const FileName = "config.yaml"

//go:embed defaults.yaml
var defaultsYAML []byte

// Config represents the pasturize configuration
type Config struct {
	Home       string            `yaml:"-"`
	DBPath     string            `yaml:"db_path"`
	LogLevel   string            `yaml:"log_level"`  // debug, info, warn, error
	LogFormat  string            `yaml:"log_format"` // console or json
	HTTPAddr   string            `yaml:"http_addr"`
	Testing    bool              `yaml:"testing"` // enables populate commands
	Pastures   []PastureTemplate `yaml:"pastures"`
	GrassTypes []GrassType       `yaml:"grass_types"`
}

// PastureTemplate seeds one pasture of every new report.
type PastureTemplate struct {
	Index int    `yaml:"index"`
	Name  string `yaml:"name"`
}

// GrassType is a selectable grass species code.
type GrassType struct {
	Code string `yaml:"code"`
	Name string `yaml:"name"`
}

// LoadDotEnv loads KEY=value pairs from path into the environment without
// overriding variables already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Defaults returns the built-in configuration.
func Defaults() (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(defaultsYAML, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse built-in defaults: %w", err)
	}
	return &cfg, nil
}

// Load builds the configuration: built-in defaults, then home/config.yaml,
// then environment overrides. An empty home resolves from PASTURIZE_HOME or
// falls back to ~/.pasturize.
func Load(home string) (*Config, error) {
	cfg, err := Defaults()
	if err != nil {
		return nil, err
	}

	if home == "" {
		home = os.Getenv(EnvHome)
	}
	if home == "" {
		home, err = DefaultHome()
		if err != nil {
			return nil, err
		}
	}
	cfg.Home = home

	data, err := os.ReadFile(filepath.Join(home, FileName))
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if cfg.DBPath == "" {
		cfg.DBPath = filepath.Join(home, "pasturize.db")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Save writes the file-backed settings to home/config.yaml.
func Save(cfg *Config) error {
	if err := os.MkdirAll(cfg.Home, 0755); err != nil {
		return fmt.Errorf("failed to create %s: %w", cfg.Home, err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	path := filepath.Join(cfg.Home, FileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// DefaultHome returns ~/.pasturize.
func DefaultHome() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, ".pasturize"), nil
}

// Validate checks the pasture template and grass type lists.
func (c *Config) Validate() error {
	if len(c.Pastures) == 0 {
		return fmt.Errorf("config: at least one pasture template is required")
	}
	seen := make(map[int]bool, len(c.Pastures))
	for _, p := range c.Pastures {
		if p.Index < 1 {
			return fmt.Errorf("config: pasture %q has index %d, must be 1 or more", p.Name, p.Index)
		}
		if seen[p.Index] {
			return fmt.Errorf("config: duplicate pasture index %d", p.Index)
		}
		if strings.TrimSpace(p.Name) == "" {
			return fmt.Errorf("config: pasture %d has no name", p.Index)
		}
		seen[p.Index] = true
	}

	if len(c.GrassTypes) == 0 {
		return fmt.Errorf("config: at least one grass type is required")
	}
	for _, g := range c.GrassTypes {
		if strings.TrimSpace(g.Code) == "" {
			return fmt.Errorf("config: grass type %q has no code", g.Name)
		}
	}

	switch c.LogFormat {
	case "", "console", "json":
	default:
		return fmt.Errorf("config: log_format must be console or json, got %q", c.LogFormat)
	}
	return nil
}

// GrassCodes returns the configured grass type codes in order.
func (c *Config) GrassCodes() []string {
	codes := make([]string, len(c.GrassTypes))
	for i, g := range c.GrassTypes {
		codes[i] = strings.ToUpper(g.Code)
	}
	return codes
}

func (c *Config) applyEnv() error {
	if v := os.Getenv(EnvDBPath); v != "" {
		c.DBPath = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		c.LogLevel = v
	}
	if v := os.Getenv(EnvLogFormat); v != "" {
		c.LogFormat = v
	}
	if v := os.Getenv(EnvHTTPAddr); v != "" {
		c.HTTPAddr = v
	}
	if v := os.Getenv(EnvTesting); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return fmt.Errorf("invalid %s=%q: %w", EnvTesting, v, err)
		}
		c.Testing = b
	}
	return nil
}
