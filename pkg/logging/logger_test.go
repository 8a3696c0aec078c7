package logging

import (
	"bufio"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/rs/zerolog"
)

// setupTestDir points logging at a temporary directory and resets global state
func setupTestDir(t *testing.T) (cleanup func()) {
	t.Helper()

	tempDir := t.TempDir()

	// Save original state
	origLogDir := logDir
	origInitErr := initErr
	origSessionID := sessionID
	origLevel := currentLevel()

	// Reset global state
	logDir = tempDir
	initErr = nil
	initOnce = sync.Once{}
	sessionID = ""
	sessionIDOnce = sync.Once{}

	return func() {
		logDir = origLogDir
		initErr = origInitErr
		initOnce = sync.Once{}
		sessionID = origSessionID
		sessionIDOnce = sync.Once{}
		levelMu.Lock()
		level = origLevel
		levelMu.Unlock()
	}
}

// readEntries decodes every JSON line of the log file.
func readEntries(t *testing.T, path string) []map[string]any {
	t.Helper()
	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("Failed to open log file: %v", err)
	}
	defer f.Close()

	var out []map[string]any
	sc := bufio.NewScanner(f)
	for sc.Scan() {
		var entry map[string]any
		if err := json.Unmarshal(sc.Bytes(), &entry); err != nil {
			t.Fatalf("Log line is not JSON: %q", sc.Text())
		}
		out = append(out, entry)
	}
	return out
}

func TestNewLogger(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	logger, err := NewLogger("test-component")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	if logger.component != "test-component" {
		t.Errorf("Expected component 'test-component', got %q", logger.component)
	}

	if logger.sessionID == "" {
		t.Error("Expected non-empty session ID")
	}

	if _, err := os.Stat(logger.logPath); os.IsNotExist(err) {
		t.Errorf("Log file does not exist at %s", logger.logPath)
	}
}

func TestLoggerLevels(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	SetLevel("debug")
	logger, err := NewLogger("test")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	logger.Debugf("Debug message %d", 1)
	logger.Infof("Info message")
	logger.Warnf("Warning message")
	logger.Errorf("Error message")
	logger.With("thread", "t1").Infof("Scoped message")

	entries := readEntries(t, logger.logPath)
	if len(entries) != 5 {
		t.Fatalf("Expected 5 entries, got %d", len(entries))
	}

	want := []struct{ level, msg string }{
		{"debug", "Debug message 1"},
		{"info", "Info message"},
		{"warn", "Warning message"},
		{"error", "Error message"},
		{"info", "Scoped message"},
	}
	for i, w := range want {
		if entries[i]["level"] != w.level || entries[i]["message"] != w.msg {
			t.Errorf("entry %d: got %v, want level=%s message=%s", i, entries[i], w.level, w.msg)
		}
		if entries[i]["component"] != "test" {
			t.Errorf("entry %d: missing component field: %v", i, entries[i])
		}
	}
	if entries[4]["thread"] != "t1" {
		t.Errorf("Expected scoped field, got %v", entries[4])
	}
}

func TestLevelFiltering(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	SetLevel("warn")
	logger, err := NewLogger("filtered")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	logger.Debugf("hidden")
	logger.Infof("hidden")
	logger.Warnf("shown")

	entries := readEntries(t, logger.logPath)
	if len(entries) != 1 || entries[0]["message"] != "shown" {
		t.Errorf("Expected only the warning, got %v", entries)
	}
}

func TestParseLevel(t *testing.T) {
	tests := map[string]zerolog.Level{
		"debug":   zerolog.DebugLevel,
		"WARNING": zerolog.WarnLevel,
		"error":   zerolog.ErrorLevel,
		"info":    zerolog.InfoLevel,
		"bogus":   zerolog.InfoLevel,
	}
	for in, want := range tests {
		if got := ParseLevel(in); got != want {
			t.Errorf("ParseLevel(%q) = %v, want %v", in, got, want)
		}
	}
}

func TestMultipleComponents(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	logger1, err := NewLogger("component1")
	if err != nil {
		t.Fatalf("Failed to create logger1: %v", err)
	}
	defer logger1.Close()

	logger2, err := NewLogger("component2")
	if err != nil {
		t.Fatalf("Failed to create logger2: %v", err)
	}
	defer logger2.Close()

	// They should share the same session ID and log file
	if logger1.sessionID != logger2.sessionID {
		t.Errorf("Expected same session ID, got %q and %q", logger1.sessionID, logger2.sessionID)
	}
	if logger1.logPath != logger2.logPath {
		t.Errorf("Expected same log path, got %q and %q", logger1.logPath, logger2.logPath)
	}

	logger1.Infof("Message from component1")
	logger2.Infof("Message from component2")

	content, err := os.ReadFile(logger1.logPath)
	if err != nil {
		t.Fatalf("Failed to read log file: %v", err)
	}
	logContent := string(content)

	if !strings.Contains(logContent, `"component":"component1"`) {
		t.Error("Log missing component1 entries")
	}
	if !strings.Contains(logContent, `"component":"component2"`) {
		t.Error("Log missing component2 entries")
	}
}

func TestGetSessionID(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	id1 := GetSessionID()
	id2 := GetSessionID()

	if id1 != id2 {
		t.Errorf("Expected consistent session ID, got %q and %q", id1, id2)
	}
	if id1 == "" {
		t.Error("Expected non-empty session ID")
	}
}

func TestGetLogDirectory(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	dir, err := GetLogDirectory()
	if err != nil {
		t.Fatalf("Failed to get log directory: %v", err)
	}
	if info, err := os.Stat(dir); err != nil || !info.IsDir() {
		t.Errorf("Log directory does not exist or is not a directory: %s", dir)
	}
}

func TestLoggerClose(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	logger, err := NewLogger("test")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}

	if err := logger.Close(); err != nil {
		t.Errorf("First close failed: %v", err)
	}
	// Close again should be safe
	if err := logger.Close(); err != nil {
		t.Errorf("Second close failed: %v", err)
	}
}

func TestNopLogger(t *testing.T) {
	l := Nop()
	l.Warnf("discarded %s", "entry")
	if err := l.Close(); err != nil {
		t.Errorf("Close on nop logger failed: %v", err)
	}
}

func TestLogPathFormat(t *testing.T) {
	cleanup := setupTestDir(t)
	defer cleanup()

	logger, err := NewLogger("test")
	if err != nil {
		t.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Close()

	// Verify log file name format: <session-id>-fur.log
	fileName := filepath.Base(logger.logPath)
	if !strings.HasSuffix(fileName, "-fur.log") {
		t.Errorf("Expected log file to end with '-fur.log', got %q", fileName)
	}

	sessionPart := strings.TrimSuffix(fileName, "-fur.log")
	if !strings.Contains(sessionPart, "-") {
		t.Errorf("Expected session ID part to contain dashes (UUID format), got %q", sessionPart)
	}
}
