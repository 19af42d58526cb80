// Package confkit provides the small path and environment helpers shared by
// the configuration loaders in this module: config-file discovery, env
// expansion, and one-shot .env bootstrap.
package confkit

import (
	"os"
	"path/filepath"
)

// ResolvePath resolves a config file path against a base directory.
// Environment variables inside the path are expanded first; absolute paths
// are returned as-is.
func ResolvePath(base, file string) string {
	file = os.ExpandEnv(file)
	if filepath.IsAbs(file) {
		return file
	}
	return filepath.Join(base, file)
}

// BaseDir returns the directory holding the given config file path.
func BaseDir(mainPath string) string {
	return filepath.Dir(mainPath)
}

// FileExists reports whether path exists, following symlinks.
func FileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// FirstExisting returns the first path that exists on disk, or "" when none
// do. Empty candidates are skipped.
func FirstExisting(paths ...string) string {
	for _, p := range paths {
		if p == "" {
			continue
		}
		if FileExists(p) {
			return p
		}
	}
	return ""
}

// UserConfigPath returns the per-user config location for the named app,
// e.g. UserConfigPath("meridian", "config.yaml") -> ~/.meridian/config.yaml.
// Returns "" when the home directory cannot be determined.
func UserConfigPath(app, file string) string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, "."+app, file)
}
