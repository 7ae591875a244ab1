package tui

import (
	"time"

	"github.com/volition-os/volition/internal/domain"
)

// Msg is the sealed interface for all TUI messages.
//
// go-sumtype:decl Msg
type Msg interface {
	sealed()
}

// MsgLoaded carries a fresh snapshot after loading or after an action.
type MsgLoaded struct {
	Timers    map[string]timerReading
	Notice    string // Result of the action, empty on plain loads
	Selection domain.JobSelection
	Energy    domain.EnergyState
	Chosen    bool // Energy state was set by the user
}

func (MsgLoaded) sealed() {}

// MsgSelection is pushed by the focus feed when the selection changes.
type MsgSelection struct {
	Selection domain.JobSelection
}

func (MsgSelection) sealed() {}

// MsgError is sent when an operation fails.
type MsgError struct {
	Err error
}

func (MsgError) sealed() {}

// MsgTick redraws running timers.
type MsgTick struct {
	Time time.Time
}

func (MsgTick) sealed() {}

// timerReading is a ShowTimer result and the instant it was taken.
type timerReading struct {
	readAt  time.Time
	total   int64
	running bool
}

// elapsed returns the tracked seconds at now.
func (r timerReading) elapsed(now time.Time) int64 {
	if !r.running || now.Before(r.readAt) {
		return r.total
	}
	return r.total + int64(now.Sub(r.readAt)/time.Second)
}
