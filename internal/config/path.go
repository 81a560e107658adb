// Package config loads and validates spicewatch configuration.
package config

import (
	"os"
	"path/filepath"
	"strings"
)

const appDir = "spicewatch"

// ExpandPath resolves a leading ~ to the home directory and then expands
// $VAR references. The path is returned unchanged when home is unknown.
func ExpandPath(path string) string {
	if path == "" {
		return ""
	}
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			path = home + strings.TrimPrefix(path, "~")
		}
	}
	return filepath.Clean(os.ExpandEnv(path))
}

// ConfigDir is where config.yaml is looked up, honoring XDG_CONFIG_HOME.
func ConfigDir() string {
	return xdgDir("XDG_CONFIG_HOME", "~/.config")
}

// DataDir holds the database and TLS certificates, honoring XDG_DATA_HOME.
func DataDir() string {
	return xdgDir("XDG_DATA_HOME", "~/.local/share")
}

func xdgDir(env, fallback string) string {
	base := os.Getenv(env)
	if base == "" {
		base = fallback
	}
	return ExpandPath(filepath.Join(base, appDir))
}
