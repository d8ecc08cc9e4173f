package logging

import (
	"os"
	"strings"
	"testing"
)

func TestNewLoggerWritesToSessionFile(t *testing.T) {
	logger, err := NewLogger("test-component")
	if err != nil {
		t.Skipf("file logging unavailable in this environment: %v", err)
	}
	defer logger.Close()

	logger.Infof("hello %s", "world")
	logger.Errorf("boom %d", 42)

	data, err := os.ReadFile(logger.LogPath())
	if err != nil {
		t.Fatalf("failed to read log file: %v", err)
	}

	content := string(data)
	if !strings.Contains(content, "[test-component] [INFO] hello world") {
		t.Errorf("missing info entry in log: %q", content)
	}
	if !strings.Contains(content, "[test-component] [ERROR] boom 42") {
		t.Errorf("missing error entry in log: %q", content)
	}
}

func TestSessionIDStableAcrossLoggers(t *testing.T) {
	a, _ := NewLogger("a")
	b, _ := NewLogger("b")
	defer a.Close()
	defer b.Close()

	if a.SessionID() != b.SessionID() {
		t.Errorf("session IDs differ: %s vs %s", a.SessionID(), b.SessionID())
	}
	if a.SessionID() != GetSessionID() {
		t.Errorf("logger session ID differs from global")
	}
}

func TestCloseIsIdempotent(t *testing.T) {
	logger, _ := NewLogger("close-test")
	if err := logger.Close(); err != nil {
		t.Fatalf("first close failed: %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second close failed: %v", err)
	}
}
