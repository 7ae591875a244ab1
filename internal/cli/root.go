// Package cli provides the command-line interface for volition.
package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/volition-os/volition/internal/app"
	"github.com/volition-os/volition/internal/domain"
)

// Command group IDs.
const (
	groupSetup = "setup"
	groupGoal  = "goal"
	groupWork  = "work"
)

// EnvHome overrides the data home directory.
const EnvHome = "VOLITION_HOME"

// launchTUIFunc is a function variable for launching the TUI, allowing it to be mocked in tests.
var launchTUIFunc = launchTUI

// NewRootCommand creates the root command for volition.
// It receives the container for dependency injection and version for display.
// c may be nil for commands that do not touch the store (help, version,
// config template).
func NewRootCommand(c *app.Container, version string) *cobra.Command {
	var home string

	root := &cobra.Command{
		Use:   "volition",
		Short: "Turn goals into jobs that fit your energy",
		Long: `volition breaks goals into phases, milestones and jobs, and picks the
jobs that fit how much energy you have right now.

Run without arguments to open the focus dashboard.`,
		Version: version,
		// SilenceUsage prevents usage from being printed on errors
		SilenceUsage: true,
		// SilenceErrors prevents Cobra from printing errors (we handle it in main)
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if c == nil {
				if cmd.Name() == "help" || cmd.Annotations[annotationNoStore] == "true" {
					return nil
				}
				return errNoContainer
			}
			for _, w := range c.AppConfig.Warnings {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %s\n", w)
			}
			return nil
		},
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(c)
		},
	}

	// Parsed by main before the container exists; registered so cobra accepts it.
	root.PersistentFlags().StringVar(&home, "home", "", "Data directory (default $"+EnvHome+" or $XDG_DATA_HOME/volition)")

	root.AddGroup(
		&cobra.Group{ID: groupSetup, Title: "Setup Commands:"},
		&cobra.Group{ID: groupGoal, Title: "Goal Management:"},
		&cobra.Group{ID: groupWork, Title: "Daily Work:"},
	)

	// Setup commands
	initCmd := newInitCommand(c)
	initCmd.GroupID = groupSetup

	configCmd := newConfigCommand(c)
	configCmd.GroupID = groupSetup

	onboardingCmd := newOnboardingCommand(c)
	onboardingCmd.GroupID = groupSetup

	serveCmd := newServeCommand(c)
	serveCmd.GroupID = groupSetup

	// Goal commands
	goalCmd := newGoalCommand(c)
	goalCmd.GroupID = groupGoal

	// Daily work commands
	focusCmd := newFocusCommand(c)
	focusCmd.GroupID = groupWork

	energyCmd := newEnergyCommand(c)
	energyCmd.GroupID = groupWork

	jobCmd := newJobCommand(c)
	jobCmd.GroupID = groupWork

	sessionCmd := newSessionCommand(c)
	sessionCmd.GroupID = groupWork

	tuiCmd := newTUICommand(c)
	tuiCmd.GroupID = groupWork

	root.AddCommand(
		initCmd,
		configCmd,
		onboardingCmd,
		serveCmd,
		goalCmd,
		focusCmd,
		energyCmd,
		jobCmd,
		sessionCmd,
		tuiCmd,
	)

	return root
}

// ResolveHomeDir returns the data home for args.
// Order: --home flag, $VOLITION_HOME, $XDG_DATA_HOME/volition,
// ~/.local/share/volition.
func ResolveHomeDir(args []string, getenv func(string) string) (string, error) {
	if dir := homeFlag(args); dir != "" {
		return dir, nil
	}
	if dir := getenv(EnvHome); dir != "" {
		return dir, nil
	}
	if dataHome := getenv("XDG_DATA_HOME"); dataHome != "" {
		return domain.DefaultHomeDir(dataHome), nil
	}
	userHome, err := os.UserHomeDir()
	if err != nil {
		return "", errors.New("cannot determine home directory: set --home or " + EnvHome)
	}
	return domain.DefaultHomeDir(filepath.Join(userHome, ".local", "share")), nil
}

// homeFlag extracts the value of --home from args, stopping at "--".
func homeFlag(args []string) string {
	for i, arg := range args {
		switch {
		case arg == "--":
			return ""
		case arg == "--home" && i+1 < len(args):
			return args[i+1]
		case strings.HasPrefix(arg, "--home="):
			return strings.TrimPrefix(arg, "--home=")
		}
	}
	return ""
}

// CanRunWithoutContainer reports whether args name a command that works
// when the container could not be created (e.g. a broken config file).
func CanRunWithoutContainer(args []string) bool {
	if len(args) > 0 && args[0] == "help" {
		return true
	}
	for i, arg := range args {
		switch arg {
		case "--help", "-h", "--version", "-v":
			return true
		case "template":
			if i > 0 && args[i-1] == "config" {
				return true
			}
		}
	}
	return false
}

// annotationNoStore marks commands that run without a container.
const annotationNoStore = "volition/no-store"

// errNoContainer is returned when a command needs the store but the
// container could not be created.
var errNoContainer = errors.New("volition is not available: check the configuration")
