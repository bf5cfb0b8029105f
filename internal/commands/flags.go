package commands

import (
	"path/filepath"

	"github.com/adrg/xdg"

	"github.com/colonyops/tweakctl/internal/core/config"
)

type Flags struct {
	LogLevel   string
	LogFile    string
	ConfigPath string
	DataDir    string
	CatalogDir string

	// Config is loaded in the Before hook and available to all commands
	Config *config.Config
}

// DefaultConfigPath returns the default config file path under the XDG config home.
func DefaultConfigPath() string {
	return filepath.Join(xdg.ConfigHome, "tweakctl", "config.yaml")
}

// DefaultDataDir returns the default data directory under the XDG data home.
func DefaultDataDir() string {
	return filepath.Join(xdg.DataHome, "tweakctl")
}

// DefaultLogFile returns the default log file path under the XDG state home.
func DefaultLogFile() string {
	return filepath.Join(xdg.StateHome, "tweakctl", "tweakctl.log")
}
