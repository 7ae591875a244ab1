// Package main is the entry point for the volition CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/volition-os/volition/internal/app"
	"github.com/volition-os/volition/internal/cli"
)

// version is set at build time using -ldflags.
var version = "dev"

var newRootCommand = cli.NewRootCommand

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(args []string) (err error) {
	homeDir, err := cli.ResolveHomeDir(args, os.Getenv)
	if err != nil {
		return err
	}

	// Create dependency injection container
	container, err := app.New(homeDir)
	if err != nil {
		return runWithoutContainer(args, fmt.Errorf("failed to initialize: %w", err))
	}
	defer func() {
		err = errors.Join(err, container.Close())
	}()

	// Create and execute root command
	return execute(newRootCommand(container, version), args)
}

// runWithoutContainer lets help, version and config template work when the
// configuration or the store is broken. Other commands return initErr.
func runWithoutContainer(args []string, initErr error) error {
	if !cli.CanRunWithoutContainer(args) {
		return initErr
	}
	return execute(newRootCommand(nil, version), args)
}

func execute(root *cobra.Command, args []string) error {
	root.SetArgs(args)
	return root.Execute()
}
