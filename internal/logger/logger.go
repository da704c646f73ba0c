// Package logger configures the global zerolog logger: console output for
// humans, optional rotated file output, and console suppression while the
// indicator is drawing so log lines never tear the bar.
package logger

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	// Log is the global logger instance.
	Log zerolog.Logger

	// fileWriter is the file output for logging (with rotation).
	fileWriter *lumberjack.Logger

	// fileOnlyLog is a cached logger that writes only to file. Used while
	// the indicator is drawing to avoid creating a new logger per event.
	fileOnlyLog zerolog.Logger

	// drawingMode controls whether console logs are suppressed. When true,
	// INFO/WARN/ERROR skip the console so they cannot tear an in-place
	// redraw of the progress bar. File logging is unaffected.
	drawingMode bool
	drawingMu   sync.RWMutex
)

// LoggingConfig holds configuration for file-based logging. It mirrors
// internal/config.LoggingSettings but is duplicated here to avoid a
// circular import.
type LoggingConfig struct {
	FileEnabled *bool
	MaxSizeMB   int
	MaxAgeDays  int
	MaxBackups  int
}

// IsFileEnabled returns whether file logging is enabled (default true).
func (c *LoggingConfig) IsFileEnabled() bool {
	if c.FileEnabled == nil {
		return true
	}
	return *c.FileEnabled
}

// GetMaxSizeMB returns the max size in MB, defaulting to 20.
func (c *LoggingConfig) GetMaxSizeMB() int {
	if c.MaxSizeMB <= 0 {
		return 20
	}
	return c.MaxSizeMB
}

// GetMaxAgeDays returns the max age in days, defaulting to 7.
func (c *LoggingConfig) GetMaxAgeDays() int {
	if c.MaxAgeDays <= 0 {
		return 7
	}
	return c.MaxAgeDays
}

// GetMaxBackups returns the max backups, defaulting to 3.
func (c *LoggingConfig) GetMaxBackups() int {
	if c.MaxBackups <= 0 {
		return 3
	}
	return c.MaxBackups
}

// SetDrawingMode enables or disables console suppression. Enable it before
// handing the terminal to the indicator or a TUI program; Debug and Fatal
// stay on the console regardless.
func SetDrawingMode(enabled bool) {
	drawingMu.Lock()
	defer drawingMu.Unlock()
	drawingMode = enabled
}

// Init initializes the global logger with console-only output.
func Init(debug bool) {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	Log = zerolog.New(output).
		Level(level).
		With().
		Timestamp().
		Logger()
}

// InitWithFile initializes the logger with optional rotated file output.
// If logsDir is empty or cfg disables file logging, this behaves like Init.
func InitWithFile(debug bool, logsDir string, cfg *LoggingConfig) error {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	consoleWriter := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}

	if logsDir == "" || cfg == nil || !cfg.IsFileEnabled() {
		Log = zerolog.New(consoleWriter).
			Level(level).
			With().
			Timestamp().
			Logger()
		return nil
	}

	if err := os.MkdirAll(logsDir, 0o755); err != nil {
		return fmt.Errorf("failed to create logs directory: %w", err)
	}

	fileWriter = &lumberjack.Logger{
		Filename:   filepath.Join(logsDir, "transit.log"),
		MaxSize:    cfg.GetMaxSizeMB(),
		MaxAge:     cfg.GetMaxAgeDays(),
		MaxBackups: cfg.GetMaxBackups(),
		LocalTime:  true,
	}

	fileOnlyLog = zerolog.New(fileWriter).
		Level(level).
		With().
		Timestamp().
		Logger()

	// Console gets the human format, file gets JSON. Drawing-mode filtering
	// happens at the Info/Warn/Error level, not here.
	multi := io.MultiWriter(consoleWriter, fileWriter)

	Log = zerolog.New(multi).
		Level(level).
		With().
		Timestamp().
		Logger()

	return nil
}

// CloseFileWriter closes the file writer if it exists. Call on shutdown.
func CloseFileWriter() error {
	if fileWriter != nil {
		err := fileWriter.Close()
		fileWriter = nil
		return err
	}
	return nil
}

// GetLogFilePath returns the current log file path, or "" when file logging
// is disabled.
func GetLogFilePath() string {
	if fileWriter != nil {
		return fileWriter.Filename
	}
	return ""
}

// shouldSuppress returns true if console logs should be suppressed.
func shouldSuppress() bool {
	drawingMu.RLock()
	drawing := drawingMode
	drawingMu.RUnlock()
	return drawing && Log.GetLevel() != zerolog.DebugLevel
}

// Debug logs a debug message (never suppressed).
func Debug() *zerolog.Event {
	return Log.Debug()
}

// Info logs an info message (file-only while the indicator is drawing).
func Info() *zerolog.Event {
	if shouldSuppress() {
		if fileWriter != nil {
			return fileOnlyLog.Info()
		}
		nop := zerolog.Nop()
		return nop.Info()
	}
	return Log.Info()
}

// Warn logs a warning message (file-only while the indicator is drawing).
func Warn() *zerolog.Event {
	if shouldSuppress() {
		if fileWriter != nil {
			return fileOnlyLog.Warn()
		}
		nop := zerolog.Nop()
		return nop.Warn()
	}
	return Log.Warn()
}

// Error logs an error message (file-only while the indicator is drawing).
func Error() *zerolog.Event {
	if shouldSuppress() {
		if fileWriter != nil {
			return fileOnlyLog.Error()
		}
		nop := zerolog.Nop()
		return nop.Error()
	}
	return Log.Error()
}

// Fatal logs a fatal message and exits (never suppressed).
func Fatal() *zerolog.Event {
	return Log.Fatal()
}
