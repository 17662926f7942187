// Package config locates conchis files on disk.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// AppName names the per-user directories.
const AppName = "conchis"

// Default file names inside the config and data directories.
const (
	ConfigFileName      = "config.yaml"
	CredentialsFileName = "credentials.yaml"
	DatabaseFileName    = "conchis.db"
)

// ExpandPath resolves a leading ~ to the home directory and then expands
// $VAR and ${VAR} references. A ~ anywhere else is left alone.
func ExpandPath(path string) string {
	switch {
	case path == "":
		return ""
	case path == "~", strings.HasPrefix(path, "~/"):
		if home, err := os.UserHomeDir(); err == nil {
			path = filepath.Join(home, strings.TrimPrefix(path[1:], "/"))
		}
	}
	return os.ExpandEnv(path)
}

// ConfigDir returns $XDG_CONFIG_HOME/conchis, falling back to
// ~/.config/conchis.
func ConfigDir() (string, error) {
	return xdgDir("XDG_CONFIG_HOME", ".config")
}

// DataDir returns $XDG_DATA_HOME/conchis, falling back to
// ~/.local/share/conchis.
func DataDir() (string, error) {
	return xdgDir("XDG_DATA_HOME", filepath.Join(".local", "share"))
}

// DefaultDatabasePath is where usage state and the prompt library live.
func DefaultDatabasePath() string {
	return inDir(DataDir, DatabaseFileName)
}

// DefaultCredentialsPath is where the API key file lives.
func DefaultCredentialsPath() string {
	return inDir(ConfigDir, CredentialsFileName)
}

func xdgDir(envVar, homeRelative string) (string, error) {
	if base := os.Getenv(envVar); filepath.IsAbs(base) {
		return filepath.Join(base, AppName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, homeRelative, AppName), nil
}

// inDir joins name onto dir, or returns name alone when no directory can be
// resolved so the file lands in the working directory.
func inDir(dir func() (string, error), name string) string {
	d, err := dir()
	if err != nil {
		return name
	}
	return filepath.Join(d, name)
}
