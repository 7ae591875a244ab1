package domain

import (
	"fmt"
	"time"
)

// WorkSession is one contiguous interval of focused work.
// End is nil while the session is open.
type WorkSession struct {
	Start time.Time  `json:"start"`
	End   *time.Time `json:"end,omitempty"`
}

// IsOpen returns true if the session has not been closed.
func (s WorkSession) IsOpen() bool {
	return s.End == nil
}

// Elapsed returns the session length, using now for an open session.
// Negative spans are reported as zero.
func (s WorkSession) Elapsed(now time.Time) time.Duration {
	end := now
	if s.End != nil {
		end = *s.End
	}
	d := end.Sub(s.Start)
	if d < 0 {
		return 0
	}
	return d
}

// The functions below treat a session slice as immutable: they never modify
// their input and return a fresh slice when something changes. Only the last
// element of a slice may be open.

// StartSession appends a new open session starting at now.
// If the last session is still open it is closed at now first, so an
// earlier session is never left without an end.
func StartSession(sessions []WorkSession, now time.Time) []WorkSession {
	closed := EndCurrentSession(sessions, now)
	return append(clone(closed), WorkSession{Start: now})
}

// EndCurrentSession closes the last session at now.
// It returns the input unchanged when there is no open session.
func EndCurrentSession(sessions []WorkSession, now time.Time) []WorkSession {
	if !IsSessionActive(sessions) {
		return sessions
	}
	out := clone(sessions)
	end := now
	out[len(out)-1].End = &end
	return out
}

// TotalDuration returns the summed length of all sessions in whole seconds,
// truncated toward zero. An open session counts up to now.
func TotalDuration(sessions []WorkSession, now time.Time) int64 {
	var total time.Duration
	for _, s := range sessions {
		total += s.Elapsed(now)
	}
	return int64(total / time.Second)
}

// CurrentSession returns the last session if it is open.
func CurrentSession(sessions []WorkSession) (WorkSession, bool) {
	if len(sessions) == 0 {
		return WorkSession{}, false
	}
	last := sessions[len(sessions)-1]
	if !last.IsOpen() {
		return WorkSession{}, false
	}
	return last, true
}

// IsSessionActive returns true if the last session is open.
func IsSessionActive(sessions []WorkSession) bool {
	_, ok := CurrentSession(sessions)
	return ok
}

// CurrentSessionDuration returns the open session's length in whole seconds,
// or zero when no session is open.
func CurrentSessionDuration(sessions []WorkSession, now time.Time) int64 {
	cur, ok := CurrentSession(sessions)
	if !ok {
		return 0
	}
	return int64(cur.Elapsed(now) / time.Second)
}

// FormatElapsed renders seconds as HH:MM:SS.
func FormatElapsed(seconds int64) string {
	if seconds < 0 {
		seconds = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", seconds/3600, (seconds%3600)/60, seconds%60)
}

func clone(sessions []WorkSession) []WorkSession {
	out := make([]WorkSession, len(sessions), len(sessions)+1)
	copy(out, sessions)
	return out
}
