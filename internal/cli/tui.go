package cli

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
	"github.com/volition-os/volition/internal/app"
	"github.com/volition-os/volition/internal/domain"
	"github.com/volition-os/volition/internal/tui"
)

// newTUICommand creates the tui command for launching the focus dashboard.
// This is the same as running `volition` without arguments.
func newTUICommand(c *app.Container) *cobra.Command {
	return &cobra.Command{
		Use:   "tui",
		Short: "Launch the focus dashboard",
		Long: `Launch the interactive focus dashboard.

Keys: 1/2/3 set energy to high/med/low, s starts or pauses the timer of
the selected job, d marks it done, r refreshes, q quits.`,
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			return launchTUIFunc(c)
		},
	}
}

// launchTUI runs the focus dashboard until the user quits.
// Selections recomputed by the focus feed are pushed into the program.
func launchTUI(c *app.Container) error {
	p := tea.NewProgram(tui.New(c), tea.WithAltScreen())
	cancel := c.Feed.Subscribe(func(sel domain.JobSelection) {
		p.Send(tui.MsgSelection{Selection: sel})
	})
	defer cancel()

	_, err := p.Run()
	return err
}
