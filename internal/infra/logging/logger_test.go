package logging

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volition-os/volition/internal/domain"
	"github.com/volition-os/volition/internal/testutil"
)

const goalA = "1a2b3c4d-0000-4000-8000-000000000001"
const goalB = "9f8e7d6c-0000-4000-8000-000000000002"

func TestParseLevel(t *testing.T) {
	tests := []struct {
		input    string
		expected slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"unknown", slog.LevelInfo}, // default
		{"", slog.LevelInfo},        // default
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := ParseLevel(tt.input)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestLogger_Info(t *testing.T) {
	// Setup
	homeDir := t.TempDir()
	logger := New(homeDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	// Execute
	logger.Info(goalA, "goal", "test message")

	// Verify global log
	content, err := os.ReadFile(domain.GlobalLogPath(homeDir))
	require.NoError(t, err)
	assert.Contains(t, string(content), "[INFO]")
	assert.Contains(t, string(content), "[goal-1a2b3c4d]")
	assert.Contains(t, string(content), "[goal]")
	assert.Contains(t, string(content), "test message")

	// Verify goal log
	goalContent, err := os.ReadFile(domain.GoalLogPath(homeDir, goalA))
	require.NoError(t, err)
	assert.Contains(t, string(goalContent), "[goal-1a2b3c4d]")
	assert.Contains(t, string(goalContent), "test message")
}

func TestLogger_GlobalLogOnly(t *testing.T) {
	homeDir := t.TempDir()
	logger := New(homeDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	logger.Info("", "system", "global message")

	content, err := os.ReadFile(domain.GlobalLogPath(homeDir))
	require.NoError(t, err)
	assert.Contains(t, string(content), "[global]")
	assert.Contains(t, string(content), "global message")

	entries, err := os.ReadDir(filepath.Join(homeDir, "logs"))
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only the global log is created")
}

func TestLogger_LevelFiltering(t *testing.T) {
	homeDir := t.TempDir()
	logger := New(homeDir, slog.LevelWarn)
	defer func() { _ = logger.Close() }()

	logger.Debug(goalA, "job", "debug message")
	logger.Info(goalA, "job", "info message")
	logger.Warn(goalA, "job", "warn message")
	logger.Error(goalA, "job", "error message")

	content, err := os.ReadFile(domain.GlobalLogPath(homeDir))
	require.NoError(t, err)
	assert.NotContains(t, string(content), "debug message")
	assert.NotContains(t, string(content), "info message")
	assert.Contains(t, string(content), "[WARN]")
	assert.Contains(t, string(content), "[ERROR]")
}

func TestLogger_DisabledWhenEmptyHomeDir(t *testing.T) {
	logger := New("", slog.LevelDebug)
	defer func() { _ = logger.Close() }()

	// Must not panic or create files
	logger.Info(goalA, "job", "test message")
	logger.Error("", "job", "error message")
}

func TestLogger_LogFormat(t *testing.T) {
	homeDir := t.TempDir()
	clock := &testutil.MockClock{NowTime: time.Date(2026, 5, 4, 9, 32, 51, 0, time.UTC)}
	logger := New(homeDir, slog.LevelInfo, WithClock(clock))
	defer func() { _ = logger.Close() }()

	logger.Info(goalA, "usecase", `goal created: "run a marathon"`)

	content, err := os.ReadFile(domain.GlobalLogPath(homeDir))
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(string(content)), "\n")
	require.Len(t, lines, 1)
	assert.Equal(t, `[2026-05-04 09:32:51] [INFO] [goal-1a2b3c4d] [usecase] goal created: "run a marathon"`, lines[0])
}

func TestLogger_MultipleGoalFiles(t *testing.T) {
	homeDir := t.TempDir()
	logger := New(homeDir, slog.LevelInfo)
	defer func() { _ = logger.Close() }()

	logger.Info(goalA, "goal", "message for A")
	logger.Info(goalB, "goal", "message for B")
	logger.Info(goalA, "goal", "another message for A")

	globalContent, err := os.ReadFile(domain.GlobalLogPath(homeDir))
	require.NoError(t, err)
	assert.Contains(t, string(globalContent), "message for A")
	assert.Contains(t, string(globalContent), "message for B")

	aContent, err := os.ReadFile(domain.GoalLogPath(homeDir, goalA))
	require.NoError(t, err)
	assert.Contains(t, string(aContent), "another message for A")
	assert.NotContains(t, string(aContent), "message for B")

	bContent, err := os.ReadFile(domain.GoalLogPath(homeDir, goalB))
	require.NoError(t, err)
	assert.Contains(t, string(bContent), "message for B")
	assert.NotContains(t, string(bContent), "message for A")
}

func TestLogger_Mirror(t *testing.T) {
	var buf bytes.Buffer
	mirror := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	logger := New("", slog.LevelInfo, WithMirror(mirror))

	logger.Debug(goalA, "job", "hidden")
	logger.Warn(goalA, "job", "job failed")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, `msg="job failed"`)
	assert.Contains(t, out, "category=job")
	assert.Contains(t, out, "goal=1a2b3c4d")
}

func TestLogger_Close(t *testing.T) {
	homeDir := t.TempDir()
	logger := New(homeDir, slog.LevelInfo)

	logger.Info(goalA, "goal", "test message")

	assert.NoError(t, logger.Close())
	assert.FileExists(t, domain.GlobalLogPath(homeDir))
	assert.FileExists(t, domain.GoalLogPath(homeDir, goalA))

	// Writing after Close reopens the files
	logger.Info("", "system", "after close")
	assert.NoError(t, logger.Close())
	content, err := os.ReadFile(domain.GlobalLogPath(homeDir))
	require.NoError(t, err)
	assert.Contains(t, string(content), "after close")
}
