package config

import (
	"os"
	"path/filepath"
)

const appName = "datafolio"

// baseDir resolves an XDG base directory. Relative values are ignored, as the
// base directory specification requires, and the home-relative default is
// used instead. Without a home directory the working directory is used.
func baseDir(env string, defaultUnderHome ...string) string {
	if v := os.Getenv(env); v != "" && filepath.IsAbs(v) {
		return v
	}
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return "."
	}
	return filepath.Join(append([]string{home}, defaultUnderHome...)...)
}

// appPath joins name under the app directory of an XDG base directory.
func appPath(env, name string, defaultUnderHome ...string) string {
	return filepath.Join(baseDir(env, defaultUnderHome...), appName, name)
}

// DefaultDBPath returns the refinement history database path.
func DefaultDBPath() string {
	return appPath("XDG_DATA_HOME", appName+".db", ".local", "share")
}

// DefaultConfigPath returns the TOML config path.
func DefaultConfigPath() string {
	return appPath("XDG_CONFIG_HOME", "config.toml", ".config")
}
