// Package paths provides path resolution utilities.
package paths

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config file locations, relative to the working directory and the home
// directory respectively.
const (
	LocalConfigDir = ".vedit"
	UserConfigDir  = ".config/vedit"
	ConfigFileName = "config.yaml"
)

// executable is swapped in tests.
var executable = os.Executable

// ExecutableDir returns the directory of the running binary with symlinks
// resolved.
func ExecutableDir() (string, error) {
	exe, err := executable()
	if err != nil {
		return "", fmt.Errorf("locating executable: %w", err)
	}
	if resolved, err := filepath.EvalSymlinks(exe); err == nil {
		exe = resolved
	}
	return filepath.Dir(exe), nil
}

// ResolveBaseDir normalizes a user-supplied directory.
//
//   - "" -> "."
//   - "~" and "~/x" -> home directory based
//   - everything else is cleaned
func ResolveBaseDir(dir string) string {
	if dir == "" {
		return "."
	}
	if dir == "~" || strings.HasPrefix(dir, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			dir = filepath.Join(home, strings.TrimPrefix(dir, "~"))
		}
	}
	return filepath.Clean(dir)
}

// LocalConfigPath returns the project-local config file path.
func LocalConfigPath() string {
	return filepath.Join(LocalConfigDir, ConfigFileName)
}

// UserConfigPath returns the per-user config file path. It returns "" when
// the home directory cannot be determined.
func UserConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, UserConfigDir, ConfigFileName)
}
