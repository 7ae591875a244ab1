package domain

import (
	"fmt"
	"path/filepath"
)

// ShortIDLen is the number of id characters shown in listings.
const ShortIDLen = 8

// MinIDPrefixLen is the shortest id prefix accepted from users.
const MinIDPrefixLen = 4

// ShortID returns the display form of an id.
func ShortID(id string) string {
	if len(id) <= ShortIDLen {
		return id
	}
	return id[:ShortIDLen]
}

// GoalLogPath returns the path to the goal log file.
func GoalLogPath(homeDir, goalID string) string {
	return filepath.Join(homeDir, "logs", fmt.Sprintf("goal-%s.log", ShortID(goalID)))
}

// GlobalLogPath returns the path to the global log file.
func GlobalLogPath(homeDir string) string {
	return filepath.Join(homeDir, "logs", "volition.log")
}

// JSONStorePath returns the path to the JSON store file.
func JSONStorePath(homeDir string) string {
	return filepath.Join(homeDir, "volition.json")
}

// SQLiteStorePath returns the default path to the SQLite database.
func SQLiteStorePath(homeDir string) string {
	return filepath.Join(homeDir, "volition.db")
}

// TemplatesDir returns the default directory for custom plan templates.
func TemplatesDir(homeDir string) string {
	return filepath.Join(homeDir, "templates")
}

// GlobalConfigDir returns the global config directory under configHome.
func GlobalConfigDir(configHome string) string {
	return filepath.Join(configHome, "volition")
}

// DefaultHomeDir returns the data directory under dataHome.
func DefaultHomeDir(dataHome string) string {
	return filepath.Join(dataHome, "volition")
}
