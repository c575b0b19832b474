package internal

import (
	"fmt"
	"sync"

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
	logMu    sync.RWMutex
	logLevel = LogLevelInfo
	logger   = newZapLogger(LogLevelInfo)
)

func (l LogLevel) zapLevel() zapcore.Level {
	switch l {
	case LogLevelError:
		return zapcore.ErrorLevel
	case LogLevelWarn:
		return zapcore.WarnLevel
	case LogLevelDebug:
		return zapcore.DebugLevel
	default:
		return zapcore.InfoLevel
	}
}

func newZapLogger(level LogLevel) *zap.SugaredLogger {
	config := zap.NewProductionConfig()
	config.Encoding = "console"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	config.EncoderConfig.EncodeLevel = zapcore.CapitalLevelEncoder
	config.DisableStacktrace = true
	config.DisableCaller = level != LogLevelDebug
	config.Level = zap.NewAtomicLevelAt(level.zapLevel())
	config.OutputPaths = []string{"stderr"}
	config.ErrorOutputPaths = []string{"stderr"}

	l, err := config.Build()
	if err != nil {
		return zap.NewNop().Sugar()
	}
	return l.Sugar()
}

// SetLogLevel sets the global log level
func SetLogLevel(level LogLevel) {
	logMu.Lock()
	defer logMu.Unlock()

	_ = logger.Sync()
	logLevel = level
	logger = newZapLogger(level)
}

// SetVerbose enables verbose (debug) logging
func SetVerbose(verbose bool) {
	if verbose {
		SetLogLevel(LogLevelDebug)
	} else {
		SetLogLevel(LogLevelInfo)
	}
}

// SetLogger replaces the backing logger. Used by tests to capture output.
func SetLogger(l *zap.Logger) {
	logMu.Lock()
	defer logMu.Unlock()
	logger = l.Sugar()
}

// SyncLogger flushes buffered log entries.
func SyncLogger() {
	logMu.RLock()
	defer logMu.RUnlock()
	_ = logger.Sync()
}

func currentLogger() (*zap.SugaredLogger, LogLevel) {
	logMu.RLock()
	defer logMu.RUnlock()
	return logger, logLevel
}

func logError(format string, args ...interface{}) {
	if l, level := currentLogger(); level >= LogLevelError {
		l.Error(fmt.Sprintf(format, args...))
	}
}

func logWarn(format string, args ...interface{}) {
	if l, level := currentLogger(); level >= LogLevelWarn {
		l.Warn(fmt.Sprintf(format, args...))
	}
}

func logInfo(format string, args ...interface{}) {
	if l, level := currentLogger(); level >= LogLevelInfo {
		l.Info(fmt.Sprintf(format, args...))
	}
}

func logDebug(format string, args ...interface{}) {
	if l, level := currentLogger(); level >= LogLevelDebug {
		l.Debug(fmt.Sprintf(format, args...))
	}
}

// LogError logs an error message
func LogError(format string, args ...interface{}) {
	logError(format, args...)
}

// LogWarn logs a warning message
func LogWarn(format string, args ...interface{}) {
	logWarn(format, args...)
}

// LogInfo logs an info message
func LogInfo(format string, args ...interface{}) {
	logInfo(format, args...)
}

// LogDebug logs a debug message
func LogDebug(format string, args ...interface{}) {
	logDebug(format, args...)
}
