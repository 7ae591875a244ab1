package tui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/volition-os/volition/internal/domain"
)

// Colors defines the color palette for the TUI.
var Colors = struct {
	Primary   lipgloss.Color
	Secondary lipgloss.Color
	Muted     lipgloss.Color
	Error     lipgloss.Color
	Success   lipgloss.Color
	Warning   lipgloss.Color

	TitleNormal   lipgloss.Color
	TitleSelected lipgloss.Color

	// Energy
	High lipgloss.Color
	Med  lipgloss.Color
	Low  lipgloss.Color

	// Job status
	Pending lipgloss.Color
	Active  lipgloss.Color
}{
	Primary:   lipgloss.Color("#6C5CE7"), // Purple
	Secondary: lipgloss.Color("#A29BFE"), // Lavender
	Muted:     lipgloss.Color("#636E72"), // Gray
	Error:     lipgloss.Color("#D63031"), // Red
	Success:   lipgloss.Color("#00B894"), // Green
	Warning:   lipgloss.Color("#FDCB6E"), // Yellow

	TitleNormal:   lipgloss.Color("#DFE6E9"),
	TitleSelected: lipgloss.Color("#FFEAA7"),

	High: lipgloss.Color("#00B894"),
	Med:  lipgloss.Color("#FDCB6E"),
	Low:  lipgloss.Color("#74B9FF"),

	Pending: lipgloss.Color("#74B9FF"),
	Active:  lipgloss.Color("#FDCB6E"),
}

// Styles contains all lipgloss styles for the TUI.
type Styles struct {
	App    lipgloss.Style
	Header lipgloss.Style

	// Energy badge
	EnergyHigh lipgloss.Style
	EnergyMed  lipgloss.Style
	EnergyLow  lipgloss.Style

	// Job list
	JobID            lipgloss.Style
	JobTitle         lipgloss.Style
	JobTitleSelected lipgloss.Style
	JobMeta          lipgloss.Style
	Cursor           lipgloss.Style
	StatusPending    lipgloss.Style
	StatusActive     lipgloss.Style
	Timer            lipgloss.Style
	TimerPaused      lipgloss.Style

	Advice   lipgloss.Style
	Summary  lipgloss.Style
	Notice   lipgloss.Style
	ErrorMsg lipgloss.Style
	Footer   lipgloss.Style
}

// DefaultStyles returns the default styles for the TUI.
func DefaultStyles() Styles {
	return Styles{
		App: lipgloss.NewStyle().
			Padding(1, 2),

		Header: lipgloss.NewStyle().
			Bold(true).
			Foreground(Colors.Primary),

		EnergyHigh: lipgloss.NewStyle().Bold(true).Foreground(Colors.High),
		EnergyMed:  lipgloss.NewStyle().Bold(true).Foreground(Colors.Med),
		EnergyLow:  lipgloss.NewStyle().Bold(true).Foreground(Colors.Low),

		JobID: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			Width(9),

		JobTitle: lipgloss.NewStyle().
			Foreground(Colors.TitleNormal),

		JobTitleSelected: lipgloss.NewStyle().
			Foreground(Colors.TitleSelected).
			Bold(true),

		JobMeta: lipgloss.NewStyle().
			Foreground(Colors.Secondary).
			Width(16),

		Cursor: lipgloss.NewStyle().
			Foreground(Colors.TitleSelected).
			Bold(true),

		StatusPending: lipgloss.NewStyle().Foreground(Colors.Pending),
		StatusActive:  lipgloss.NewStyle().Foreground(Colors.Active).Bold(true),

		Timer: lipgloss.NewStyle().
			Foreground(Colors.Success).
			Bold(true),

		TimerPaused: lipgloss.NewStyle().
			Foreground(Colors.Muted),

		Advice: lipgloss.NewStyle().
			Foreground(Colors.Warning).
			Italic(true),

		Summary: lipgloss.NewStyle().
			Foreground(Colors.Muted).
			MarginTop(1),

		Notice: lipgloss.NewStyle().
			Foreground(Colors.Success),

		ErrorMsg: lipgloss.NewStyle().
			Foreground(Colors.Error).
			Bold(true),

		Footer: lipgloss.NewStyle().
			MarginTop(1),
	}
}

// EnergyStyle returns the badge style for an energy state.
func (s Styles) EnergyStyle(state domain.EnergyState) lipgloss.Style {
	switch state {
	case domain.EnergyHigh:
		return s.EnergyHigh
	case domain.EnergyLow:
		return s.EnergyLow
	default:
		return s.EnergyMed
	}
}

// StatusStyle returns the style for a job status.
func (s Styles) StatusStyle(status domain.JobStatus) lipgloss.Style {
	if status == domain.JobStatusActive {
		return s.StatusActive
	}
	return s.StatusPending
}

// StatusIcon returns the icon for a job status in the focus list.
func StatusIcon(status domain.JobStatus) string {
	switch status {
	case domain.JobStatusActive:
		return "●"
	case domain.JobStatusCompleted:
		return "✓"
	case domain.JobStatusFailed:
		return "✗"
	default:
		return "○"
	}
}
