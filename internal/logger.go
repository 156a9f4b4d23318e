package internal

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// LogLevel represents the logging level
type LogLevel int

const (
	LogLevelError LogLevel = iota
	LogLevelWarn
	LogLevelInfo
	LogLevelDebug
)

var (
	logLevel = LogLevelWarn
	level    = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	logger   = newLogger(zapcore.Lock(os.Stderr))
	sugar    = logger.Sugar()
)

func newLogger(w zapcore.WriteSyncer) *zap.Logger {
	cfg := zap.NewDevelopmentEncoderConfig()
	cfg.TimeKey = ""
	cfg.CallerKey = ""
	cfg.EncodeLevel = zapcore.CapitalLevelEncoder
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(cfg), w, level)
	return zap.New(core)
}

// SetLogLevel sets the global log level
func SetLogLevel(l LogLevel) {
	logLevel = l
	switch l {
	case LogLevelError:
		level.SetLevel(zapcore.ErrorLevel)
	case LogLevelWarn:
		level.SetLevel(zapcore.WarnLevel)
	case LogLevelInfo:
		level.SetLevel(zapcore.InfoLevel)
	default:
		level.SetLevel(zapcore.DebugLevel)
	}
}

// GetLogLevel returns the current global log level
func GetLogLevel() LogLevel {
	return logLevel
}

// SetVerbose enables verbose (debug) logging
func SetVerbose(verbose bool) {
	if verbose {
		SetLogLevel(LogLevelDebug)
	} else {
		SetLogLevel(LogLevelWarn)
	}
}

// SetLogOutput redirects log output, mainly for tests
func SetLogOutput(w zapcore.WriteSyncer) {
	logger = newLogger(w)
	sugar = logger.Sugar()
}

// Logger returns the structured logger shared with the completion client.
func Logger() *zap.Logger {
	return logger
}

// SyncLogger flushes buffered log entries
func SyncLogger() {
	_ = logger.Sync()
}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	sugar.Errorf(format, args...)
}

// LogWarn logs a warning message
func LogWarn(format string, args ...interface{}) {
	sugar.Warnf(format, args...)
}

// LogInfo logs an info message
func LogInfo(format string, args ...interface{}) {
	sugar.Infof(format, args...)
}

// LogDebug logs a debug message
func LogDebug(format string, args ...interface{}) {
	sugar.Debugf(format, args...)
}
