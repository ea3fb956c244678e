package sessionstore

import (
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "PubPlatScraper"
const sessionFileName = "session.json"
const backupFileName = "session.json.backup"

// dataDir resolves the per-OS data directory for the session file
// (spec.md §4.4):
//
//	Windows: %APPDATA%\PubPlatScraper
//	macOS:   ~/Library/Application Support/PubPlatScraper
//	other Unix: $XDG_DATA_HOME/PubPlatScraper when XDG_DATA_HOME is set,
//	            otherwise ~/.local/share/PubPlatScraper
func dataDir() (string, error) {
	switch runtime.GOOS {
	case "windows":
		base := os.Getenv("APPDATA")
		if base == "" {
			home, err := os.UserHomeDir()
			if err != nil {
				return "", err
			}
			base = filepath.Join(home, "AppData", "Roaming")
		}
		return filepath.Join(base, appDirName), nil
	case "darwin":
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, "Library", "Application Support", appDirName), nil
	default:
		if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
			return filepath.Join(xdg, appDirName), nil
		}
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(home, ".local", "share", appDirName), nil
	}
}

// SessionPath returns the full path to the session file, creating the
// parent directory if absent.
func SessionPath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return filepath.Join(dir, sessionFileName), nil
}

// BackupPath returns the path used for the pre-overwrite backup copy.
func BackupPath() (string, error) {
	dir, err := dataDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, backupFileName), nil
}
