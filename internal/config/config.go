package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// AppName is the application name used for keyring and config
const AppName = "navmenu"

// Config holds CLI configuration
type Config struct {
	SiteURL        string `yaml:"site_url,omitempty"`
	ListEndpoint   string `yaml:"list_endpoint,omitempty"`
	Level0List     string `yaml:"level0_list,omitempty"`
	Level1List     string `yaml:"level1_list,omitempty"`
	Level2List     string `yaml:"level2_list,omitempty"`
	Token          string `yaml:"token,omitempty"`
	Source         string `yaml:"source,omitempty"` // sharepoint, file, sqlite
	FixturePath    string `yaml:"fixture_path,omitempty"`
	SQLitePath     string `yaml:"sqlite_path,omitempty"`
	KeyringBackend string `yaml:"keyring_backend,omitempty"` // auto, keychain, file
	OutputFormat   string `yaml:"output_format,omitempty"`   // text, json, ndjson, yaml, table
	Timeout        string `yaml:"timeout,omitempty"`         // Go duration, e.g. 45s
}

// RequestTimeout parses Timeout. It returns 0 when unset.
func (c *Config) RequestTimeout() (time.Duration, error) {
	v := strings.TrimSpace(c.Timeout)
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("invalid timeout %q: %w", c.Timeout, err)
	}
	if d <= 0 {
		return 0, fmt.Errorf("invalid timeout %q: must be positive", c.Timeout)
	}
	return d, nil
}

// ConfigDir returns the config directory path
func ConfigDir() (string, error) {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".config", AppName), nil
}

// DefaultConfigPath returns the default config file path
func DefaultConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// EnsureKeyringDir ensures the keyring directory exists and returns its path
func EnsureKeyringDir() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	keyringDir := filepath.Join(dir, "keyring")
	if err := os.MkdirAll(keyringDir, 0o700); err != nil {
		return "", fmt.Errorf("creating keyring directory: %w", err)
	}
	return keyringDir, nil
}

// ReadConfig reads the config file from the default location
func ReadConfig() (*Config, error) {
	path, err := DefaultConfigPath()
	if err != nil {
		return nil, err
	}
	return Load(path)
}

// Load loads config from the given path. A missing file yields an empty config.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return &Config{}, nil
		}
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}

	return &cfg, nil
}

// Save saves config to the given path
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}

	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	if err := os.WriteFile(path, data, 0o600); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}

	return nil
}
