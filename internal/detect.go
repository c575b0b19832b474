package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// DetectDataDir returns the directory holding the config file and the
// persisted session, based on the operating system
func DetectDataDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}

	switch runtime.GOOS {
	case "darwin":
		return filepath.Join(home, "Library/Application Support/Glancenote"), nil
	case "linux":
		// Respect XDG if set, else ~/.config/glancenote
		if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
			return filepath.Join(xdg, "glancenote"), nil
		}
		return filepath.Join(home, ".config/glancenote"), nil
	case "windows":
		if appData := os.Getenv("APPDATA"); appData != "" {
			return filepath.Join(appData, "Glancenote"), nil
		}
		return filepath.Join(home, "AppData/Roaming/Glancenote"), nil
	default:
		return filepath.Join(home, ".glancenote"), nil
	}
}
