package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

type level string

const (
	levelDebug level = "DEBUG"
	levelInfo  level = "INFO"
	levelWarn  level = "WARN"
	levelError level = "ERROR"
)

// Logger is a small leveled logger with an optional file sink. When a
// progress bar is active, non-verbose stdout output is suppressed so the bar
// line is not mangled; the file sink always receives everything.
type Logger struct {
	Verbose bool

	mu      sync.Mutex
	writer  io.Writer
	errOut  io.Writer
	fileLog *os.File
	hasBar  bool
}

// New creates a new Logger writing to stdout and stderr.
func New(verbose bool) *Logger {
	return &Logger{
		Verbose: verbose,
		writer:  os.Stdout,
		errOut:  os.Stderr,
	}
}

// SetFileLog enables logging to a file
func (l *Logger) SetFileLog(path string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("failed to open log file: %w", err)
	}

	l.fileLog = f
	return nil
}

// SetProgressBar indicates that a progress bar is active
func (l *Logger) SetProgressBar(active bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.hasBar = active
}

// Close closes the log file if open
func (l *Logger) Close() error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.fileLog != nil {
		return l.fileLog.Close()
	}
	return nil
}

// Info logs informational messages
func (l *Logger) Info(format string, args ...interface{}) {
	l.emit(levelInfo, format, args...)
}

// Warn logs warning messages
func (l *Logger) Warn(format string, args ...interface{}) {
	l.emit(levelWarn, format, args...)
}

// Error logs error messages to stderr
func (l *Logger) Error(format string, args ...interface{}) {
	l.emit(levelError, format, args...)
}

// Debug logs detailed messages. Shown only in verbose mode, but still
// written to the file sink when one is configured.
func (l *Logger) Debug(format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := formatLine(levelDebug, format, args...)
	if l.Verbose {
		fmt.Fprint(l.writer, msg)
	}
	if l.fileLog != nil {
		l.fileLog.WriteString(msg)
	}
}

func (l *Logger) emit(lv level, format string, args ...interface{}) {
	l.mu.Lock()
	defer l.mu.Unlock()

	msg := formatLine(lv, format, args...)

	switch {
	case lv == levelError:
		// The error stream is never suppressed by the bar.
		fmt.Fprint(l.errOut, msg)
	case l.Verbose || !l.hasBar:
		fmt.Fprint(l.writer, msg)
	}

	if l.fileLog != nil {
		l.fileLog.WriteString(msg)
	}
}

// formatLine renders one log line. Info lines stay unprefixed for clean CLI
// output; other levels carry their tag.
func formatLine(lv level, format string, args ...interface{}) string {
	if lv == levelInfo {
		return fmt.Sprintf(format+"\n", args...)
	}
	return fmt.Sprintf("["+string(lv)+"] "+format+"\n", args...)
}
