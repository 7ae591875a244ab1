// Package config provides configuration loading functionality.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/volition-os/volition/internal/domain"
)

// Environment variables that override config files.
const (
	EnvStoreDriver = "VOLITION_STORE_DRIVER"
	EnvDatabaseURL = "VOLITION_DATABASE_URL"
	EnvAddr        = "VOLITION_ADDR"
	EnvLogLevel    = "VOLITION_LOG_LEVEL"
)

// Ensure Loader implements domain.ConfigLoader.
var _ domain.ConfigLoader = (*Loader)(nil)

// Loader loads configuration from TOML files and the environment.
type Loader struct {
	getenv        func(string) string
	homeDir       string // Path to the data home (e.g., ~/.local/share/volition)
	globalConfDir string // Path to global config directory (e.g., ~/.config/volition)
}

// NewLoader creates a new Loader.
func NewLoader(homeDir string) *Loader {
	return &Loader{
		homeDir:       homeDir,
		globalConfDir: defaultGlobalConfigDir(),
		getenv:        os.Getenv,
	}
}

// NewLoaderWithGlobalDir creates a new Loader with a custom global config
// directory and environment. A nil getenv disables environment overrides.
// This is useful for testing.
func NewLoaderWithGlobalDir(homeDir, globalConfDir string, getenv func(string) string) *Loader {
	if getenv == nil {
		getenv = func(string) string { return "" }
	}
	return &Loader{
		homeDir:       homeDir,
		globalConfDir: globalConfDir,
		getenv:        getenv,
	}
}

// defaultGlobalConfigDir returns the default global config directory.
func defaultGlobalConfigDir() string {
	configHome := os.Getenv("XDG_CONFIG_HOME")
	if configHome == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		configHome = filepath.Join(home, ".config")
	}
	return domain.GlobalConfigDir(configHome)
}

// Load returns the merged configuration.
// Order (later wins): defaults, global file, home file, environment.
func (l *Loader) Load() (*domain.Config, error) {
	cfg := domain.NewDefaultConfig()

	if l.globalConfDir != "" {
		globalPath := filepath.Join(l.globalConfDir, domain.ConfigFileName)
		if err := l.applyFile(cfg, globalPath); err != nil {
			return nil, err
		}
	}

	homePath := domain.HomeConfigPath(l.homeDir)
	if err := l.applyFile(cfg, homePath); err != nil {
		return nil, err
	}

	l.applyEnv(cfg)
	l.resolvePaths(cfg)

	sort.Strings(cfg.Warnings)
	return cfg, nil
}

// LoadGlobal returns defaults overlaid with the global file only.
// Returns os.ErrNotExist when there is no global file.
func (l *Loader) LoadGlobal() (*domain.Config, error) {
	if l.globalConfDir == "" {
		return nil, os.ErrNotExist
	}
	globalPath := filepath.Join(l.globalConfDir, domain.ConfigFileName)
	raw, err := readRaw(globalPath)
	if err != nil {
		return nil, err
	}

	cfg := domain.NewDefaultConfig()
	cfg.Warnings = applyRaw(cfg, raw)
	return cfg, nil
}

// applyFile overlays a config file onto cfg. A missing file is not an error.
func (l *Loader) applyFile(cfg *domain.Config, path string) error {
	raw, err := readRaw(path)
	if errors.Is(err, os.ErrNotExist) {
		return nil
	}
	if err != nil {
		return err
	}
	cfg.Warnings = append(cfg.Warnings, applyRaw(cfg, raw)...)
	return nil
}

// applyEnv overlays environment variables onto cfg.
func (l *Loader) applyEnv(cfg *domain.Config) {
	if v := l.getenv(EnvStoreDriver); v != "" {
		cfg.Store.Driver = v
	}
	if v := l.getenv(EnvDatabaseURL); v != "" {
		cfg.Store.DSN = v
	}
	if v := l.getenv(EnvAddr); v != "" {
		cfg.Server.Addr = v
	}
	if v := l.getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
}

// resolvePaths fills path defaults that depend on the home directory and
// expands a leading "~/".
func (l *Loader) resolvePaths(cfg *domain.Config) {
	if cfg.Store.DSN == "" {
		switch cfg.Store.Driver {
		case domain.StoreDriverJSON:
			cfg.Store.DSN = domain.JSONStorePath(l.homeDir)
		case domain.StoreDriverSQLite:
			cfg.Store.DSN = domain.SQLiteStorePath(l.homeDir)
		}
	}
	if cfg.Store.Driver != domain.StoreDriverPostgres {
		cfg.Store.DSN = expandHome(cfg.Store.DSN)
	}

	if cfg.Planner.TemplatesDir == "" {
		cfg.Planner.TemplatesDir = domain.TemplatesDir(l.homeDir)
	}
	cfg.Planner.TemplatesDir = expandHome(cfg.Planner.TemplatesDir)
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}

func readRaw(path string) (map[string]any, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var raw map[string]any
	if err := toml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	return raw, nil
}

// applyRaw copies known keys of a decoded file onto cfg and returns a
// warning for every unknown section or key.
func applyRaw(cfg *domain.Config, raw map[string]any) []string {
	var warnings []string

	for section, value := range raw {
		m, ok := value.(map[string]any)
		if !ok {
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}

		var unknown []string
		switch section {
		case "store":
			unknown = applyKeys(m, map[string]func(any) bool{
				"driver": setString(&cfg.Store.Driver),
				"dsn":    setString(&cfg.Store.DSN),
			})
		case "energy":
			unknown = applyKeys(m, map[string]func(any) bool{
				"default": setString(&cfg.Energy.Default),
			})
		case "jobs":
			unknown = applyKeys(m, map[string]func(any) bool{
				"max_active": setInt(&cfg.Jobs.MaxActive),
			})
		case "planner":
			unknown = applyKeys(m, map[string]func(any) bool{
				"templates_dir": setString(&cfg.Planner.TemplatesDir),
			})
		case "trial":
			unknown = applyKeys(m, map[string]func(any) bool{
				"days": setInt(&cfg.Trial.Days),
			})
		case "server":
			unknown = applyKeys(m, map[string]func(any) bool{
				"addr": setString(&cfg.Server.Addr),
			})
		case "log":
			unknown = applyKeys(m, map[string]func(any) bool{
				"level": setString(&cfg.Log.Level),
			})
		default:
			warnings = append(warnings, fmt.Sprintf("unknown section: %s", section))
			continue
		}

		for _, k := range unknown {
			warnings = append(warnings, fmt.Sprintf("unknown key in [%s]: %s", section, k))
		}
	}

	sort.Strings(warnings)
	return warnings
}

// applyKeys runs the setter of every known key and returns the unknown
// keys. A value of the wrong type counts as unknown.
func applyKeys(m map[string]any, setters map[string]func(any) bool) []string {
	var unknown []string
	for k, v := range m {
		set, ok := setters[k]
		if !ok {
			unknown = append(unknown, k)
			continue
		}
		if !set(v) {
			unknown = append(unknown, k+" (wrong type)")
		}
	}
	return unknown
}

func setString(dst *string) func(any) bool {
	return func(v any) bool {
		s, ok := v.(string)
		if ok {
			*dst = s
		}
		return ok
	}
}

func setInt(dst *int) func(any) bool {
	return func(v any) bool {
		n, ok := v.(int64)
		if ok {
			*dst = int(n)
		}
		return ok
	}
}
