package storage

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "gitscope"

// DataDir returns the directory to store application data, following the
// platform's desktop conventions:
// - Linux: $XDG_DATA_HOME or ~/.local/share/gitscope
// - macOS: ~/Library/Application Support/gitscope
// - Windows: %APPDATA%/gitscope (falls back to UserConfigDir)
func DataDir() (string, error) {
	var dir string
	switch runtime.GOOS {
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home directory: %w", err)
		}
		dir = filepath.Join(home, "Library", "Application Support", appDirName)
	case "windows":
		base := os.Getenv("APPDATA")
		if base == "" {
			var err error
			base, err = os.UserConfigDir()
			if err != nil {
				return "", fmt.Errorf("resolve config directory: %w", err)
			}
		}
		dir = filepath.Join(base, appDirName)
	default:
		base := os.Getenv("XDG_DATA_HOME")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", fmt.Errorf("resolve home directory: %w", err)
			}
			base = filepath.Join(home, ".local", "share")
		}
		dir = filepath.Join(base, appDirName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("ensure data directory: %w", err)
	}
	return dir, nil
}
