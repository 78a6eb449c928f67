// Package config holds remedia's settings: a YAML file with environment
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Storage backends.
const (
	StorageJSON   = "json"
	StorageSQLite = "sqlite"
)

// ValidStorage and ValidThemes list accepted values.
var (
	ValidStorage = []string{StorageJSON, StorageSQLite}
	ValidThemes  = []string{"classic", "neon", "mono"}
)

// Config is the whole settings file.
type Config struct {
	Catalog CatalogConfig `yaml:"catalog"`
	Storage StorageConfig `yaml:"storage"`
	UI      UIConfig      `yaml:"ui"`
}

// CatalogConfig points at the Catalog API.
type CatalogConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// StorageConfig picks where client state lives.
type StorageConfig struct {
	DataDir       string `yaml:"data_dir"`
	Backend       string `yaml:"backend"`
	WatchDebounce string `yaml:"watch_debounce"`
}

// UIConfig tunes terminal output.
type UIConfig struct {
	Theme string `yaml:"theme"`
}

// DefaultConfig returns the settings used when no file exists.
func DefaultConfig() *Config {
	return &Config{
		Catalog: CatalogConfig{
			BaseURL: "http://localhost:5000/api",
			Timeout: "10s",
		},
		Storage: StorageConfig{
			DataDir:       defaultDataDir(),
			Backend:       StorageJSON,
			WatchDebounce: "100ms",
		},
		UI: UIConfig{Theme: "classic"},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".remedia"
	}
	return filepath.Join(home, ".remedia")
}

// DefaultPath is $XDG_CONFIG_HOME/remedia/config.yaml, falling back to the
// user config dir.
func DefaultPath() string {
	base := os.Getenv("XDG_CONFIG_HOME")
	if base == "" {
		d, err := os.UserConfigDir()
		if err != nil {
			return filepath.Join(defaultDataDir(), "config.yaml")
		}
		base = d
	}
	return filepath.Join(base, "remedia", "config.yaml")
}

// Load reads path over the defaults. A missing file is not an error.
// Environment overrides apply either way.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	case os.IsNotExist(err):
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// Save writes the config as YAML, creating the directory.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

func (c *Config) applyEnvOverrides() {
	if v := getEnv("REMEDIA_CATALOG_URL", ""); v != "" {
		c.Catalog.BaseURL = v
	}
	if v := getEnv("REMEDIA_DATA_DIR", ""); v != "" {
		c.Storage.DataDir = v
	}
	if v := getEnv("REMEDIA_STORAGE", ""); v != "" {
		c.Storage.Backend = strings.ToLower(v)
	}
	if v := getEnv("REMEDIA_THEME", ""); v != "" {
		c.UI.Theme = strings.ToLower(v)
	}
	if ms := getEnvAsInt("REMEDIA_TIMEOUT_MS", 0); ms > 0 {
		c.Catalog.Timeout = (time.Duration(ms) * time.Millisecond).String()
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && strings.TrimSpace(v) != "" {
		return strings.TrimSpace(v)
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	n, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return fallback
	}
	return n
}

// CatalogTimeout is the per-request timeout, 10s if unparsable.
func (c *Config) CatalogTimeout() time.Duration {
	d, err := time.ParseDuration(c.Catalog.Timeout)
	if err != nil || d <= 0 {
		return 10 * time.Second
	}
	return d
}

// WatchDebounce is the storage watcher's coalescing window, 100ms if
// unparsable.
func (c *Config) WatchDebounce() time.Duration {
	d, err := time.ParseDuration(c.Storage.WatchDebounce)
	if err != nil || d <= 0 {
		return 100 * time.Millisecond
	}
	return d
}

// Validate checks enumerated fields and the catalog URL.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Catalog.BaseURL) == "" {
		return fmt.Errorf("catalog base URL not configured (set REMEDIA_CATALOG_URL)")
	}
	if !oneOf(c.Storage.Backend, ValidStorage) {
		return fmt.Errorf("invalid storage backend: %s (valid: %v)", c.Storage.Backend, ValidStorage)
	}
	if !oneOf(c.UI.Theme, ValidThemes) {
		return fmt.Errorf("invalid theme: %s (valid: %v)", c.UI.Theme, ValidThemes)
	}
	if strings.TrimSpace(c.Storage.DataDir) == "" {
		return fmt.Errorf("data dir not configured")
	}
	return nil
}

func oneOf(v string, set []string) bool {
	for _, s := range set {
		if v == s {
			return true
		}
	}
	return false
}
