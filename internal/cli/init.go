package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/volition-os/volition/internal/app"
	"github.com/volition-os/volition/internal/usecase"
)

// newInitCommand creates the init command.
func newInitCommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize the volition store",
		Long: `Initialize the volition store in the data home.

This command creates the configured store (JSON file, SQLite database or
PostgreSQL schema) and starts the free trial.

Running init again on an existing store repairs the schema and keeps
the data and the trial start date.`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			uc := c.InitStoreUseCase()
			out, err := uc.Execute(cmd.Context(), usecase.InitStoreInput{})
			if err != nil {
				return err
			}

			w := cmd.OutOrStdout()
			if out.AlreadyInitialized {
				_, _ = fmt.Fprintf(w, "volition already initialized in %s\n", c.Config.HomeDir)
				return nil
			}
			_, _ = fmt.Fprintf(w, "Initialized volition in %s\n", c.Config.HomeDir)
			_, _ = fmt.Fprintf(w, "Trial started %s (%d days)\n",
				out.TrialStartedAt.Format("2006-01-02"), c.AppConfig.Trial.Days)
			return nil
		},
	}
}
