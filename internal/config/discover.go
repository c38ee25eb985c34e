package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// EnvConfigPath names the environment variable that overrides discovery.
const EnvConfigPath = "ASSETSBRIDGE_CONFIG"

// DefaultPath returns the XDG-compliant default config path.
func DefaultPath() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ProjectFile
		}
		configHome = filepath.Join(home, ".config")
	}
	return filepath.Join(configHome, "assetsbridge", "config.toml")
}

// DefaultDataPath returns the XDG-compliant default history database path.
func DefaultDataPath() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "./history.db"
		}
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "assetsbridge", "history.db")
}

// ProjectFile is the per-project config name searched for by Discover.
const ProjectFile = "assetsbridge.toml"

// Discover finds the config file using the standard search order.
// Search order:
//  1. ASSETSBRIDGE_CONFIG environment variable
//  2. assetsbridge.toml in the working directory or the nearest parent, so
//     commands run anywhere inside a project share its task file
//  3. $XDG_CONFIG_HOME/assetsbridge/config.toml
//  4. /etc/assetsbridge/config.toml
func Discover() (string, error) {
	if envPath := os.Getenv(EnvConfigPath); envPath != "" {
		if _, err := os.Stat(envPath); err != nil {
			return "", fmt.Errorf("%s=%s: %w", EnvConfigPath, envPath, err)
		}
		return envPath, nil
	}

	checked := []string{ProjectFile + " (working directory and parents)"}
	if wd, err := os.Getwd(); err == nil {
		if p, ok := findProjectConfig(wd); ok {
			return p, nil
		}
	}

	for _, p := range []string{DefaultPath(), "/etc/assetsbridge/config.toml"} {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
		checked = append(checked, p)
	}

	return "", fmt.Errorf("config not found, checked: %s", strings.Join(checked, ", "))
}

// findProjectConfig walks from dir towards the filesystem root looking for
// ProjectFile.
func findProjectConfig(dir string) (string, bool) {
	for {
		p := filepath.Join(dir, ProjectFile)
		if fi, err := os.Stat(p); err == nil && !fi.IsDir() {
			return p, true
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return "", false
		}
		dir = parent
	}
}
