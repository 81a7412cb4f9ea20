package config

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
)

// Dir returns the partyline config directory under the user config base.
// On Linux this typically resolves to $XDG_CONFIG_HOME/partyline; on macOS
// to ~/Library/Application Support/partyline. Falls back to HOME when
// UserConfigDir is unavailable.
func Dir() (string, error) {
	base, err := os.UserConfigDir()
	if err != nil || strings.TrimSpace(base) == "" {
		if home, herr := os.UserHomeDir(); herr == nil {
			base = home
		} else {
			return "", errors.New("cannot determine config directory")
		}
	}
	return filepath.Join(base, "partyline"), nil
}

// LogPath returns the log file path inside the config directory, creating
// the directory when needed.
func LogPath() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	return filepath.Join(dir, "partyline.log"), nil
}
