package cli

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volition-os/volition/internal/app"
	"github.com/volition-os/volition/internal/domain"
)

// newConfigTestContainer creates an app.Container with real config
// infrastructure in temporary directories.
func newConfigTestContainer(t *testing.T) (*app.Container, string) {
	t.Helper()

	configHome := isolateConfig(t)
	container, err := app.New(t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Close() })

	return container, configHome
}

// isolateConfig points the global config at a temporary directory and
// clears environment overrides.
func isolateConfig(t *testing.T) string {
	t.Helper()

	configHome := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", configHome)
	for _, k := range []string{"VOLITION_STORE_DRIVER", "VOLITION_DATABASE_URL", "VOLITION_ADDR", "VOLITION_LOG_LEVEL"} {
		t.Setenv(k, "")
	}
	return configHome
}

// =============================================================================
// Config Command Tests
// =============================================================================

func TestConfigCommand_NoSubcommand_ShowsHelp(t *testing.T) {
	container, _ := newConfigTestContainer(t)

	out, err := execute(container, "config")

	require.NoError(t, err)
	assert.Contains(t, out, "Available Commands:")
	assert.Contains(t, out, "show")
	assert.Contains(t, out, "path")
	assert.Contains(t, out, "template")
	assert.Contains(t, out, "init")
}

func TestConfigShowCommand_DisplaysEffectiveConfig(t *testing.T) {
	// Setup
	container, configHome := newConfigTestContainer(t)

	// Execute
	out, err := execute(container, "config", "show")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "[Loaded from]")
	assert.Contains(t, out, domain.GlobalConfigPath(configHome)+" (not found)")
	assert.Contains(t, out, domain.HomeConfigPath(container.Config.HomeDir)+" (not found)")
	assert.Contains(t, out, "[Effective Config]")
	assert.Contains(t, out, "[store]")
	assert.Contains(t, out, "[jobs]")
	assert.Contains(t, out, "max_active = 3")
	assert.NotContains(t, out, "Warnings")
}

func TestConfigShowCommand_PrintsWarnings(t *testing.T) {
	isolateConfig(t)
	home := t.TempDir()
	require.NoError(t, os.WriteFile(domain.HomeConfigPath(home), []byte("[jobs]\nmax_active = 2\n\n[workers]\ncount = 4\n"), 0644))

	container, err := app.New(home)
	require.NoError(t, err)
	defer func() { _ = container.Close() }()

	out, err := execute(container, "config", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "Warning: unknown section: workers")
	assert.Contains(t, out, "- "+domain.HomeConfigPath(home)+"\n")
	assert.Contains(t, out, "max_active = 2")
}

func TestConfigPathCommand(t *testing.T) {
	container, configHome := newConfigTestContainer(t)
	home := container.Config.HomeDir

	out, err := execute(container, "config", "path")

	require.NoError(t, err)
	assert.Contains(t, out, "home:   "+home)
	assert.Contains(t, out, "config: "+domain.HomeConfigPath(home))
	assert.Contains(t, out, "global: "+domain.GlobalConfigPath(configHome))
	assert.Contains(t, out, "store:  "+domain.JSONStorePath(home))
	assert.Contains(t, out, "logs:   "+domain.GlobalLogPath(home))
}

// =============================================================================
// Config Template Subcommand Tests
// =============================================================================

func TestConfigTemplateCommand_OutputsTemplate(t *testing.T) {
	container, _ := newConfigTestContainer(t)

	out, err := execute(container, "config", "template")

	require.NoError(t, err)
	assert.Contains(t, out, "[jobs]")
	assert.Contains(t, out, "[store]")
	assert.NotContains(t, out, "[Loaded from]")
	assert.NotContains(t, out, "[Effective Config]")
}

func TestConfigTemplateCommand_WithoutContainer(t *testing.T) {
	out, err := execute(nil, "config", "template")

	require.NoError(t, err)
	assert.Contains(t, out, "[jobs]")
}

// =============================================================================
// Config Init Subcommand Tests
// =============================================================================

func TestConfigInitCommand_CreatesHomeConfig(t *testing.T) {
	// Setup
	container, _ := newConfigTestContainer(t)

	// Execute
	out, err := execute(container, "config", "init")

	// Assert
	require.NoError(t, err)
	assert.Contains(t, out, "Created config file: "+domain.HomeConfigPath(container.Config.HomeDir))

	info := container.ConfigManager.GetHomeConfigInfo()
	assert.True(t, info.Exists)
	assert.Contains(t, info.Content, "[jobs]")
}

func TestConfigInitCommand_WithGlobalFlag(t *testing.T) {
	container, configHome := newConfigTestContainer(t)

	out, err := execute(container, "config", "init", "--global")

	require.NoError(t, err)
	assert.Contains(t, out, "Created config file: "+domain.GlobalConfigPath(configHome))
	assert.FileExists(t, filepath.Join(configHome, "volition", domain.ConfigFileName))
}

func TestConfigInitCommand_ErrorIfFileExists(t *testing.T) {
	container, _ := newConfigTestContainer(t)
	require.NoError(t, container.ConfigManager.InitHomeConfig())

	_, err := execute(container, "config", "init")

	require.Error(t, err)
	assert.ErrorIs(t, err, domain.ErrConfigExists)
}
