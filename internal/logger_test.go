package internal

import (
	"bytes"
	"log"
	"strings"
	"testing"
)

// captureLog redirects logger output to a buffer for the duration of a test.
func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	original := logger
	originalLevel := logLevel
	logger = log.New(&buf, "", 0)
	t.Cleanup(func() {
		logger = original
		logLevel = originalLevel
	})
	return &buf
}

func TestLogLevelFiltering(t *testing.T) {
	buf := captureLog(t)
	SetLogLevel(LogLevelWarn)

	LogError("boom")
	LogWarn("careful")
	LogInfo("hello")
	LogDebug("details")

	output := buf.String()
	if !strings.Contains(output, "[ERROR] boom") {
		t.Error("error message suppressed at warn level")
	}
	if !strings.Contains(output, "[WARN] careful") {
		t.Error("warn message suppressed at warn level")
	}
	if strings.Contains(output, "hello") || strings.Contains(output, "details") {
		t.Errorf("info/debug leaked at warn level: %q", output)
	}
}

func TestSetVerbose(t *testing.T) {
	buf := captureLog(t)

	SetVerbose(true)
	LogDebug("verbose on")
	SetVerbose(false)
	LogDebug("verbose off")

	output := buf.String()
	if !strings.Contains(output, "verbose on") {
		t.Error("debug message suppressed with verbose enabled")
	}
	if strings.Contains(output, "verbose off") {
		t.Error("debug message emitted with verbose disabled")
	}
}

func TestLogFormatting(t *testing.T) {
	buf := captureLog(t)
	SetLogLevel(LogLevelInfo)

	LogInfo("loaded %d messages for %s", 3, "c1")

	if !strings.Contains(buf.String(), "[INFO] loaded 3 messages for c1") {
		t.Errorf("unexpected output: %q", buf.String())
	}
}
