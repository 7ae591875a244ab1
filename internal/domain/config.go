package domain

import (
	"bytes"
	_ "embed"
	"fmt"
	"path/filepath"
	"text/template"
)

//go:embed config_template.toml
var configTemplateContent string

// Config represents the application configuration.
// Fields are ordered to minimize memory padding.
type Config struct {
	Warnings []string      `toml:"-"`
	Store    StoreConfig   `toml:"store"`
	Planner  PlannerConfig `toml:"planner"`
	Server   ServerConfig  `toml:"server"`
	Log      LogConfig     `toml:"log"`
	Energy   EnergyConfig  `toml:"energy"`
	Jobs     JobsConfig    `toml:"jobs"`
	Trial    TrialConfig   `toml:"trial"`
}

// Store drivers.
const (
	StoreDriverJSON     = "json"
	StoreDriverSQLite   = "sqlite"
	StoreDriverPostgres = "postgres"
)

// StoreConfig holds settings for the storage backend from [store] section.
type StoreConfig struct {
	Driver string `toml:"driver,omitempty"` // "json" (default), "sqlite" or "postgres"
	DSN    string `toml:"dsn,omitempty"`    // Database path or connection string
}

// EnergyConfig holds settings from [energy] section.
type EnergyConfig struct {
	Default string `toml:"default,omitempty"` // Energy state used until the user picks one
}

// JobsConfig holds settings from [jobs] section.
type JobsConfig struct {
	MaxActive int `toml:"max_active,omitempty"` // Upper bound of simultaneously active jobs
}

// PlannerConfig holds settings from [planner] section.
type PlannerConfig struct {
	TemplatesDir string `toml:"templates_dir,omitempty"` // Directory of custom YAML plan templates
}

// TrialConfig holds settings from [trial] section.
type TrialConfig struct {
	Days int `toml:"days,omitempty"`
}

// ServerConfig holds settings from [server] section.
type ServerConfig struct {
	Addr string `toml:"addr,omitempty"` // Listen address of `volition serve`
}

// LogConfig holds settings from [log] section.
type LogConfig struct {
	Level string `toml:"level,omitempty"` // Log level: debug, info, warn, error
}

// Default configuration values.
const (
	DefaultLogLevel   = "info"
	DefaultMaxActive  = 3
	DefaultTrialDays  = 14
	DefaultServerAddr = ":8080"
)

// ConfigFileName is the name of every config file.
const ConfigFileName = "config.toml"

// GlobalConfigPath returns the global config path.
// configHome is typically XDG_CONFIG_HOME or ~/.config (resolved by caller).
func GlobalConfigPath(configHome string) string {
	return filepath.Join(GlobalConfigDir(configHome), ConfigFileName)
}

// HomeConfigPath returns the config path inside the data home.
func HomeConfigPath(homeDir string) string {
	return filepath.Join(homeDir, ConfigFileName)
}

// NewDefaultConfig returns a Config with default values.
func NewDefaultConfig() *Config {
	return &Config{
		Store: StoreConfig{
			Driver: StoreDriverJSON,
		},
		Energy: EnergyConfig{
			Default: string(DefaultEnergyState),
		},
		Jobs: JobsConfig{
			MaxActive: DefaultMaxActive,
		},
		Trial: TrialConfig{
			Days: DefaultTrialDays,
		},
		Server: ServerConfig{
			Addr: DefaultServerAddr,
		},
		Log: LogConfig{
			Level: DefaultLogLevel,
		},
	}
}

// DefaultEnergy returns the configured default energy state,
// falling back to DefaultEnergyState when unset or invalid.
func (c *Config) DefaultEnergy() EnergyState {
	state, err := ParseEnergyState(c.Energy.Default)
	if err != nil {
		return DefaultEnergyState
	}
	return state
}

type templateData struct {
	StoreDriver string
	Energy      string
	LogLevel    string
	ServerAddr  string
	MaxActive   int
	TrialDays   int
}

// RenderConfigTemplate renders the commented config file written by
// `volition config init`, using cfg for the documented defaults.
func RenderConfigTemplate(cfg *Config) string {
	data := templateData{
		StoreDriver: cfg.Store.Driver,
		Energy:      cfg.Energy.Default,
		LogLevel:    cfg.Log.Level,
		ServerAddr:  cfg.Server.Addr,
		MaxActive:   cfg.Jobs.MaxActive,
		TrialDays:   cfg.Trial.Days,
	}

	tmpl, err := template.New("config").Delims("<<", ">>").Parse(configTemplateContent)
	if err != nil {
		// Should never happen with embedded template
		panic(fmt.Sprintf("failed to parse config template: %v", err))
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		panic(fmt.Sprintf("failed to execute config template: %v", err))
	}

	return buf.String()
}
