package internal

import (
	"bytes"
	"strings"
	"testing"

	"go.uber.org/zap/zapcore"
)

func captureLogs(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	originalLogger := logger
	SetLogOutput(zapcore.AddSync(&buf))
	t.Cleanup(func() {
		logger = originalLogger
		sugar = logger.Sugar()
	})
	return &buf
}

func TestSetLogLevel(t *testing.T) {
	originalLevel := logLevel
	defer SetLogLevel(originalLevel)

	SetLogLevel(LogLevelDebug)
	if logLevel != LogLevelDebug {
		t.Errorf("SetLogLevel() logLevel = %v, want LogLevelDebug", logLevel)
	}
	if !level.Enabled(zapcore.DebugLevel) {
		t.Error("SetLogLevel(LogLevelDebug) should enable debug entries")
	}

	SetLogLevel(LogLevelError)
	if logLevel != LogLevelError {
		t.Errorf("SetLogLevel() logLevel = %v, want LogLevelError", logLevel)
	}
	if level.Enabled(zapcore.WarnLevel) {
		t.Error("SetLogLevel(LogLevelError) should disable warn entries")
	}
}

func TestSetVerbose(t *testing.T) {
	originalLevel := logLevel
	defer SetLogLevel(originalLevel)

	SetVerbose(true)
	if GetLogLevel() != LogLevelDebug {
		t.Errorf("SetVerbose(true) logLevel = %v, want LogLevelDebug", logLevel)
	}

	SetVerbose(false)
	if GetLogLevel() != LogLevelWarn {
		t.Errorf("SetVerbose(false) logLevel = %v, want LogLevelWarn", logLevel)
	}
}

func TestLogFunctions_RespectLevel(t *testing.T) {
	originalLevel := logLevel
	defer SetLogLevel(originalLevel)
	buf := captureLogs(t)

	SetLogLevel(LogLevelWarn)
	LogError("test error message")
	LogWarn("test warning %d", 42)
	LogInfo("test info message")
	LogDebug("test debug message")

	out := buf.String()
	for _, want := range []string{"ERROR", "test error message", "WARN", "test warning 42"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output missing %q:\n%s", want, out)
		}
	}
	for _, unwanted := range []string{"test info message", "test debug message"} {
		if strings.Contains(out, unwanted) {
			t.Errorf("log output should not contain %q:\n%s", unwanted, out)
		}
	}
}

func TestLogger_SharesLevel(t *testing.T) {
	originalLevel := logLevel
	defer SetLogLevel(originalLevel)
	buf := captureLogs(t)

	SetVerbose(true)
	Logger().Debug("structured entry")
	if !strings.Contains(buf.String(), "structured entry") {
		t.Errorf("Logger() should follow the verbose level, got: %q", buf.String())
	}
}

func TestLogLevels(t *testing.T) {
	if LogLevelError >= LogLevelWarn {
		t.Error("LogLevelError should be less than LogLevelWarn")
	}
	if LogLevelWarn >= LogLevelInfo {
		t.Error("LogLevelWarn should be less than LogLevelInfo")
	}
	if LogLevelInfo >= LogLevelDebug {
		t.Error("LogLevelInfo should be less than LogLevelDebug")
	}
}
