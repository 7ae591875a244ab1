package tui

import (
	"fmt"
	"strings"

	"github.com/volition-os/volition/internal/domain"
)

// chromeHeight is the rows taken by padding, header, summary, notice and
// the short help.
const chromeHeight = 10

// View renders the TUI.
func (m *Model) View() string {
	if m.width == 0 {
		return "Loading..."
	}

	var b strings.Builder

	b.WriteString(m.viewHeader())
	b.WriteString("\n\n")

	if m.err != nil {
		b.WriteString(m.styles.ErrorMsg.Render("Error: "+m.err.Error()) + "\n\n")
	}

	b.WriteString(m.viewJobList())

	if m.notice != "" {
		b.WriteString("\n" + m.styles.Notice.Render(m.notice) + "\n")
	}

	b.WriteString(m.styles.Footer.Render(m.help.View(m.keys)))

	return m.styles.App.Render(b.String())
}

func (m *Model) viewHeader() string {
	badge := m.styles.EnergyStyle(m.energy).Render(m.energy.Display())
	header := m.styles.Header.Render("Volition") + "  Energy: " + badge
	if !m.chosen {
		header += " (default)"
	}
	return header
}

func (m *Model) viewJobList() string {
	if len(m.sel.Jobs) == 0 {
		message := m.sel.Message
		if message == "" {
			message = "Nothing to do right now."
		}
		return m.styles.Advice.Render(message) + "\n"
	}

	sum := domain.SummarizeSelection(m.sel)
	summary := m.styles.Summary.Render(fmt.Sprintf("%d active, %d pending, about %dm of work",
		sum.Active, sum.Pending, sum.TotalMinutes))
	return summary + "\n\n" + m.jobList.View() + "\n"
}
