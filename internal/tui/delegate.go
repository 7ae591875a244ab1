package tui

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"
	"github.com/volition-os/volition/internal/domain"
)

// jobItem is a focus list row. timer is set for active jobs only.
type jobItem struct {
	job   *domain.Job
	timer *timerReading
}

func (j jobItem) FilterValue() string {
	return j.job.Title
}

type jobDelegate struct {
	now    func() time.Time
	styles Styles
}

func newJobDelegate(styles Styles, now func() time.Time) jobDelegate {
	return jobDelegate{styles: styles, now: now}
}

func (d jobDelegate) Height() int {
	return 1
}

func (d jobDelegate) Spacing() int {
	return 0
}

func (d jobDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd {
	return nil
}

// prefixWidth covers cursor, icon, short id and the type/estimate column.
const prefixWidth = 2 + 2 + 9 + 16

// timerWidth is room for "  HH:MM:SS paused".
const timerWidth = 17

func (d jobDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ji, ok := item.(jobItem)
	if !ok {
		return
	}
	job := ji.job
	selected := index == m.Index()

	maxTitleLen := m.Width() - prefixWidth - timerWidth
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	title := job.Title
	if runewidth.StringWidth(title) > maxTitleLen {
		title = runewidth.Truncate(title, maxTitleLen, "...")
	}

	cursor := "  "
	titlePart := d.styles.JobTitle.Render(title)
	if selected {
		cursor = d.styles.Cursor.Render("> ")
		titlePart = d.styles.JobTitleSelected.Render(title)
	}

	icon := d.styles.StatusStyle(job.Status).Render(StatusIcon(job.Status))
	meta := d.styles.JobMeta.Render(fmt.Sprintf("%s %dm", job.Type.Display(), job.EstimatedMinutes))
	line := cursor + icon + " " + d.styles.JobID.Render(domain.ShortID(job.ID)) + meta + titlePart

	if ji.timer != nil {
		elapsed := domain.FormatElapsed(ji.timer.elapsed(d.now()))
		if ji.timer.running {
			line += "  " + d.styles.Timer.Render(elapsed)
		} else {
			line += "  " + d.styles.TimerPaused.Render(elapsed+" paused")
		}
	}
	_, _ = fmt.Fprint(w, line)
}

// newJobList builds the focus list. Filtering and the list's own chrome
// are off; the dashboard draws its header and help itself.
func newJobList(styles Styles, now func() time.Time) list.Model {
	jobs := list.New([]list.Item{}, newJobDelegate(styles, now), 0, 0)
	jobs.SetShowTitle(false)
	jobs.SetShowStatusBar(false)
	jobs.SetShowHelp(false)
	jobs.SetShowPagination(false)
	jobs.SetFilteringEnabled(false)
	jobs.DisableQuitKeybindings()
	return jobs
}
