// Package logging provides file-based logging for volition.
// It outputs logs to both a global log file (<home>/logs/volition.log)
// and goal-specific log files (<home>/logs/goal-<id>.log).
package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/volition-os/volition/internal/domain"
)

// Ensure Logger implements domain.Logger interface.
var _ domain.Logger = (*Logger)(nil)

// Logger writes leveled log lines to files and mirrors them to an
// optional slog.Logger.
// Fields are ordered to minimize memory padding.
type Logger struct {
	globalFile *os.File
	goalFiles  map[string]*os.File
	mirror     *slog.Logger
	now        func() time.Time
	homeDir    string
	mu         sync.Mutex
	level      slog.Level
}

// Option configures a Logger.
type Option func(*Logger)

// WithMirror also sends every entry that passes the level filter to l.
func WithMirror(l *slog.Logger) Option {
	return func(lg *Logger) { lg.mirror = l }
}

// WithClock overrides the timestamp source.
func WithClock(clock domain.Clock) Option {
	return func(lg *Logger) { lg.now = clock.Now }
}

// New creates a new Logger that writes below homeDir/logs.
// If homeDir is empty, file output is disabled.
func New(homeDir string, level slog.Level, opts ...Option) *Logger {
	l := &Logger{
		homeDir:   homeDir,
		level:     level,
		goalFiles: make(map[string]*os.File),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// ParseLevel parses a log level string into slog.Level.
func ParseLevel(levelStr string) slog.Level {
	switch levelStr {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (l *Logger) ensureLogsDir() error {
	return os.MkdirAll(filepath.Join(l.homeDir, "logs"), 0o750)
}

// openFile opens path for appending. Callers hold l.mu.
func (l *Logger) openFile(path string) (*os.File, error) {
	if err := l.ensureLogsDir(); err != nil {
		return nil, fmt.Errorf("create logs directory: %w", err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o640) //nolint:gosec // Log file readable by owner and group
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}
	return f, nil
}

func (l *Logger) ensureGlobalFile() (*os.File, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.globalFile != nil {
		return l.globalFile, nil
	}
	f, err := l.openFile(domain.GlobalLogPath(l.homeDir))
	if err != nil {
		return nil, err
	}
	l.globalFile = f
	return f, nil
}

func (l *Logger) ensureGoalFile(goalID string) (*os.File, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if f, ok := l.goalFiles[goalID]; ok {
		return f, nil
	}
	f, err := l.openFile(domain.GoalLogPath(l.homeDir, goalID))
	if err != nil {
		return nil, err
	}
	l.goalFiles[goalID] = f
	return f, nil
}

// Close closes all open log files.
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	var lastErr error
	if l.globalFile != nil {
		if err := l.globalFile.Close(); err != nil {
			lastErr = err
		}
		l.globalFile = nil
	}
	for id, f := range l.goalFiles {
		if err := f.Close(); err != nil {
			lastErr = err
		}
		delete(l.goalFiles, id)
	}
	return lastErr
}

// formatLog formats a log entry.
// Format: [2026-05-04 09:32:51] [INFO] [goal-1a2b3c4d] [category] message
func formatLog(t time.Time, level slog.Level, goalID, category, msg string) string {
	scope := "global"
	if goalID != "" {
		scope = "goal-" + domain.ShortID(goalID)
	}
	return fmt.Sprintf("[%s] [%s] [%s] [%s] %s\n",
		t.Format("2006-01-02 15:04:05"),
		levelToString(level),
		scope,
		category,
		msg,
	)
}

func levelToString(level slog.Level) string {
	switch level {
	case slog.LevelDebug:
		return "DEBUG"
	case slog.LevelWarn:
		return "WARN"
	case slog.LevelError:
		return "ERROR"
	default:
		return "INFO"
	}
}

// log writes an entry to the global log and, when goalID is set, to the
// goal log as well.
func (l *Logger) log(level slog.Level, goalID, category, msg string) {
	if level < l.level {
		return
	}

	if l.mirror != nil {
		attrs := []any{"category", category}
		if goalID != "" {
			attrs = append(attrs, "goal", domain.ShortID(goalID))
		}
		l.mirror.Log(context.Background(), level, msg, attrs...)
	}

	if l.homeDir == "" {
		return
	}

	entry := formatLog(l.now(), level, goalID, category, msg)

	if gf, err := l.ensureGlobalFile(); err == nil {
		_, _ = io.WriteString(gf, entry)
	}
	if goalID != "" {
		if f, err := l.ensureGoalFile(goalID); err == nil {
			_, _ = io.WriteString(f, entry)
		}
	}
}

// Info logs an info message.
func (l *Logger) Info(goalID, category, msg string) {
	l.log(slog.LevelInfo, goalID, category, msg)
}

// Debug logs a debug message.
func (l *Logger) Debug(goalID, category, msg string) {
	l.log(slog.LevelDebug, goalID, category, msg)
}

// Warn logs a warning message.
func (l *Logger) Warn(goalID, category, msg string) {
	l.log(slog.LevelWarn, goalID, category, msg)
}

// Error logs an error message.
func (l *Logger) Error(goalID, category, msg string) {
	l.log(slog.LevelError, goalID, category, msg)
}
