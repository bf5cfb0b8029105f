// Package config handles configuration loading and validation for tweakctl.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/colonyops/tweakctl/internal/core/styles"
)

// Storage backends.
const (
	BackendJSON   = "json"
	BackendSQLite = "sqlite"
)

// DefaultRunnerTimeout bounds a single action.
const DefaultRunnerTimeout = 5 * time.Minute

// Config holds the application configuration.
type Config struct {
	CatalogDir string        `yaml:"catalog_dir"`
	Storage    StorageConfig `yaml:"storage"`
	Runner     RunnerConfig  `yaml:"runner"`
	Apps       AppsConfig    `yaml:"apps"`
	Apply      ApplyConfig   `yaml:"apply"`
	Theme      string        `yaml:"theme"`
	DataDir    string        `yaml:"-"` // set by caller, not from config file
}

// StorageConfig selects where selection state is persisted.
type StorageConfig struct {
	Backend string `yaml:"backend"`
}

// RunnerConfig configures the shell action runner.
type RunnerConfig struct {
	// Shell is the argv prefix the action script is appended to. Empty means
	// actions cannot run on this host.
	Shell   []string      `yaml:"shell"`
	Timeout time.Duration `yaml:"timeout"`
}

// AppsConfig configures the apps category.
type AppsConfig struct {
	RemoveTemplate string `yaml:"remove_template"`
	InstalledQuery string `yaml:"installed_query"`
}

// ApplyConfig configures batch application.
type ApplyConfig struct {
	ClearSelection bool `yaml:"clear_selection"`
}

// DefaultShell returns the PowerShell argv on Windows and nil elsewhere.
func DefaultShell() []string {
	if runtime.GOOS != "windows" {
		return nil
	}
	return []string{"powershell", "-NoProfile", "-ExecutionPolicy", "Bypass", "-WindowStyle", "Hidden", "-Command"}
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Storage: StorageConfig{Backend: BackendJSON},
		Theme:   styles.DefaultTheme,
		Runner: RunnerConfig{
			Shell:   DefaultShell(),
			Timeout: DefaultRunnerTimeout,
		},
	}
}

// Load reads configuration from the given path and sets the data directory.
// If configPath is empty or doesn't exist, returns defaults with the provided dataDir.
func Load(configPath, dataDir string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.DataDir = dataDir

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			data, err := os.ReadFile(configPath)
			if err != nil {
				return nil, fmt.Errorf("read config file: %w", err)
			}

			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, fmt.Errorf("parse config file: %w", err)
			}

			// Re-set dataDir since Unmarshal may have cleared it
			cfg.DataDir = dataDir
		}
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}

// applyDefaults sets default values for any unset configuration options.
func (c *Config) applyDefaults() {
	defaults := DefaultConfig()
	if c.Storage.Backend == "" {
		c.Storage.Backend = defaults.Storage.Backend
	}
	if c.Theme == "" {
		c.Theme = defaults.Theme
	}
	if c.Runner.Timeout == 0 {
		c.Runner.Timeout = defaults.Runner.Timeout
	}
	if c.CatalogDir == "" && c.DataDir != "" {
		c.CatalogDir = filepath.Join(c.DataDir, "catalog")
	}
}

// LogFile returns the default log file path.
func (c *Config) LogFile() string {
	return filepath.Join(c.DataDir, "tweakctl.log")
}
