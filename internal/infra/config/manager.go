package config

import (
	"errors"
	"os"
	"path/filepath"

	"github.com/volition-os/volition/internal/domain"
)

// Ensure Manager implements domain.ConfigManager.
var _ domain.ConfigManager = (*Manager)(nil)

// Manager manages configuration files.
type Manager struct {
	homeDir       string // Path to the data home
	globalConfDir string // Path to global config directory (e.g., ~/.config/volition)
}

// NewManager creates a new Manager.
func NewManager(homeDir string) *Manager {
	return &Manager{
		homeDir:       homeDir,
		globalConfDir: defaultGlobalConfigDir(),
	}
}

// NewManagerWithGlobalDir creates a new Manager with a custom global config directory.
// This is useful for testing.
func NewManagerWithGlobalDir(homeDir, globalConfDir string) *Manager {
	return &Manager{
		homeDir:       homeDir,
		globalConfDir: globalConfDir,
	}
}

// GetHomeConfigInfo returns information about the home config file.
func (m *Manager) GetHomeConfigInfo() domain.ConfigInfo {
	return m.getConfigInfo(domain.HomeConfigPath(m.homeDir))
}

// GetGlobalConfigInfo returns information about the global config file.
func (m *Manager) GetGlobalConfigInfo() domain.ConfigInfo {
	if m.globalConfDir == "" {
		return domain.ConfigInfo{
			Path:   "",
			Exists: false,
		}
	}
	path := filepath.Join(m.globalConfDir, domain.ConfigFileName)
	return m.getConfigInfo(path)
}

// getConfigInfo reads a config file and returns its info.
func (m *Manager) getConfigInfo(path string) domain.ConfigInfo {
	content, err := os.ReadFile(path)
	if err != nil {
		return domain.ConfigInfo{
			Path:   path,
			Exists: false,
		}
	}
	return domain.ConfigInfo{
		Path:    path,
		Content: string(content),
		Exists:  true,
	}
}

// InitHomeConfig creates the home config file with the default template.
func (m *Manager) InitHomeConfig() error {
	if err := os.MkdirAll(m.homeDir, 0o750); err != nil {
		return err
	}
	return m.initConfig(domain.HomeConfigPath(m.homeDir))
}

// InitGlobalConfig creates the global config file with the default template.
func (m *Manager) InitGlobalConfig() error {
	if m.globalConfDir == "" {
		return errors.New("global config directory not available")
	}
	if err := os.MkdirAll(m.globalConfDir, 0o700); err != nil {
		return err
	}
	path := filepath.Join(m.globalConfDir, domain.ConfigFileName)
	return m.initConfig(path)
}

// initConfig creates a config file with default template.
func (m *Manager) initConfig(path string) error {
	if _, err := os.Stat(path); err == nil {
		return domain.ErrConfigExists
	}

	content := domain.RenderConfigTemplate(domain.NewDefaultConfig())
	return os.WriteFile(path, []byte(content), 0o600)
}
