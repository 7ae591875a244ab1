package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/volition-os/volition/internal/domain"
)

// Update handles messages and updates the model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.resize()
		return m, nil

	case MsgLoaded:
		m.err = nil
		m.energy = msg.Energy
		m.chosen = msg.Chosen
		m.timers = msg.Timers
		m.notice = msg.Notice
		m.setSelection(msg.Selection)
		return m, nil

	case MsgSelection:
		m.setSelection(msg.Selection)
		if msg.Selection.Energy != "" {
			m.energy = msg.Selection.Energy
		}
		return m, nil

	case MsgError:
		m.err = msg.Err
		m.notice = ""
		return m, nil

	case MsgTick:
		return m, tick()
	}

	return m, nil
}

func (m *Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Up), key.Matches(msg, m.keys.Down):
		var cmd tea.Cmd
		m.jobList, cmd = m.jobList.Update(msg)
		return m, cmd

	case key.Matches(msg, m.keys.High):
		return m, m.setEnergy(domain.EnergyHigh)

	case key.Matches(msg, m.keys.Med):
		return m, m.setEnergy(domain.EnergyMed)

	case key.Matches(msg, m.keys.Low):
		return m, m.setEnergy(domain.EnergyLow)

	case key.Matches(msg, m.keys.Refresh):
		return m, m.refresh()

	case key.Matches(msg, m.keys.Timer):
		if job := m.selectedJob(); job != nil {
			return m, m.toggleTimer(job)
		}
		return m, nil

	case key.Matches(msg, m.keys.Done):
		if job := m.selectedJob(); job != nil {
			return m, m.completeJob(job)
		}
		return m, nil
	}

	return m, nil
}
