// Package logging wraps charmbracelet/log with the conventions used across
// the inspector: quiet by default, verbose file logging when DEBUG is set.
package logging

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/adrg/xdg"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
)

const (
	logPrefix   = "Inspector"
	logFileName = "inspector.log"

	// LogDirEnv overrides the directory the debug log file is written to.
	LogDirEnv = "INSPECTOR_LOG_DIR"
)

type AppLogger struct {
	logger *log.Logger
	debug  bool
	closer io.Closer
}

var (
	defaultLogger *AppLogger
	once          sync.Once
)

// GetDefault returns the process-wide logger, creating it on first use.
func GetDefault() *AppLogger {
	once.Do(func() {
		defaultLogger = NewAppLogger()
	})
	return defaultLogger
}

// SetDefault replaces the process-wide logger. main uses it so packages that
// log through the package-level helpers share the configured instance.
func SetDefault(l *AppLogger) {
	once.Do(func() {})
	defaultLogger = l
}

func Info(msg string, keyvals ...interface{}) {
	GetDefault().Info(msg, keyvals...)
}

func Warn(msg string, keyvals ...interface{}) {
	GetDefault().Warn(msg, keyvals...)
}

func Error(msg string, keyvals ...interface{}) {
	GetDefault().Error(msg, keyvals...)
}

func Debug(msg string, keyvals ...interface{}) {
	GetDefault().Debug(msg, keyvals...)
}

func LogMessage(msg tea.Msg) {
	GetDefault().LogMessage(msg)
}

// NewAppLogger builds the logger from the environment. With DEBUG set, every
// level goes to a log file that is truncated on each run; otherwise only
// warnings and errors reach stderr.
func NewAppLogger() *AppLogger {
	if os.Getenv("DEBUG") == "" {
		logger := log.NewWithOptions(os.Stderr, log.Options{
			ReportTimestamp: true,
			TimeFormat:      time.RFC3339,
			Prefix:          logPrefix,
		})
		logger.SetLevel(log.WarnLevel)
		return &AppLogger{logger: logger}
	}

	logPath := debugLogPath()
	if err := os.MkdirAll(filepath.Dir(logPath), 0o755); err != nil {
		panic(fmt.Sprintf("Failed to create log directory: %v", err))
	}
	logFile, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		panic(fmt.Sprintf("Failed to create debug log file: %v", err))
	}

	logger := log.NewWithOptions(logFile, log.Options{
		ReportCaller:    true,
		ReportTimestamp: true,
		TimeFormat:      time.Kitchen,
		Prefix:          logPrefix,
	})
	logger.SetLevel(log.DebugLevel)
	logger.Info("Debug logging enabled", "log_file", logPath)

	return &AppLogger{logger: logger, debug: true, closer: logFile}
}

func debugLogPath() string {
	if dir := os.Getenv(LogDirEnv); dir != "" {
		return filepath.Join(dir, logFileName)
	}
	return filepath.Join(xdg.StateHome, "inspector", logFileName)
}

// Close releases the debug log file, if one was opened.
func (al *AppLogger) Close() error {
	if al.closer == nil {
		return nil
	}
	return al.closer.Close()
}

func (al *AppLogger) IsDebug() bool {
	return al.debug
}

func (al *AppLogger) Info(msg string, keyvals ...interface{}) {
	al.logger.Info(msg, keyvals...)
}

func (al *AppLogger) Warn(msg string, keyvals ...interface{}) {
	al.logger.Warn(msg, keyvals...)
}

func (al *AppLogger) Error(msg string, keyvals ...interface{}) {
	al.logger.Error(msg, keyvals...)
}

func (al *AppLogger) Debug(msg string, keyvals ...interface{}) {
	if al.debug {
		al.logger.Debug(msg, keyvals...)
	}
}

// LogMessage records a bubbletea message type. Key messages are logged
// without their runes so typed secrets never reach the log.
func (al *AppLogger) LogMessage(msg tea.Msg) {
	if !al.debug {
		return
	}

	if _, ok := msg.(tea.KeyMsg); ok {
		al.logger.Debug("Message received", "type", fmt.Sprintf("%T", msg))
		return
	}
	al.logger.Debug("Message received",
		"type", fmt.Sprintf("%T", msg),
		"content", fmt.Sprintf("%+v", msg),
	)
}

func (al *AppLogger) LogStateTransition(component, from, to string) {
	if al.debug {
		al.logger.Debug("State transition",
			"component", component,
			"from", from,
			"to", to,
		)
	}
}

func (al *AppLogger) LogUserAction(action, context string) {
	if al.debug {
		al.logger.Debug("User action",
			"action", action,
			"context", context,
		)
	}
}

// NewTestLogger creates a debug logger that writes to a buffer.
func NewTestLogger() (*AppLogger, *bytes.Buffer) {
	var buf bytes.Buffer

	logger := log.NewWithOptions(&buf, log.Options{
		ReportTimestamp: false,
		ReportCaller:    false,
		Prefix:          "Test",
	})
	logger.SetLevel(log.DebugLevel)

	return &AppLogger{
		logger: logger,
		debug:  true,
	}, &buf
}
