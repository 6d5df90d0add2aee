// Package logging provides the leveled, optionally colored logger used by
// every command, plus the StreamLogger adapters that receive ffmpeg output.
//
// Output goes through hashicorp/go-hclog. Console lines are colored
// according to config.ColorMode; when a log file is configured it is
// attached as an uncolored sink that receives the same records.
package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-hclog"

	"github.com/backmassage/ffargs/internal/config"
)

const timeFormat = "2006-01-02 15:04:05"

// Logger wraps an hclog.Logger with printf-style leveled methods.
type Logger struct {
	hc   hclog.Logger
	file *os.File
}

// NewLogger builds the console logger from cfg and opens cfg.LogFile (if
// set) in append mode. Call Close when done.
func NewLogger(cfg *config.Config) (*Logger, error) {
	return newLogger(cfg, os.Stdout)
}

func newLogger(cfg *config.Config, out io.Writer) (*Logger, error) {
	level := hclog.Info
	if cfg.Verbose {
		level = hclog.Debug
	}

	il := hclog.NewInterceptLogger(&hclog.LoggerOptions{
		Name:       "ffargs",
		Level:      level,
		Output:     out,
		TimeFormat: timeFormat,
		Color:      colorOption(cfg.ColorMode, out),
	})
	l := &Logger{hc: il}

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0o755); err != nil {
			return nil, err
		}
		f, err := os.OpenFile(cfg.LogFile, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, err
		}
		il.RegisterSink(hclog.NewSinkAdapter(&hclog.LoggerOptions{
			Level:      level,
			Output:     f,
			TimeFormat: timeFormat,
			Color:      hclog.ColorOff,
		}))
		l.file = f
	}
	return l, nil
}

// Discard returns a logger that drops everything. Useful in tests.
func Discard() *Logger {
	return &Logger{hc: hclog.NewNullLogger()}
}

// Close closes the log file if one was opened.
func (l *Logger) Close() error {
	if l.file == nil {
		return nil
	}
	err := l.file.Close()
	l.file = nil
	return err
}

// With returns a logger that attaches the key/value pairs to every line.
// The returned logger shares the parent's file; close only the parent.
func (l *Logger) With(args ...interface{}) *Logger {
	return &Logger{hc: l.hc.With(args...)}
}

// HCLog exposes the underlying hclog.Logger.
func (l *Logger) HCLog() hclog.Logger { return l.hc }

// Info logs at INFO level.
func (l *Logger) Info(format string, args ...interface{}) {
	l.hc.Info(fmt.Sprintf(format, args...))
}

// Success logs at INFO level with result=ok.
func (l *Logger) Success(format string, args ...interface{}) {
	l.hc.Info(fmt.Sprintf(format, args...), "result", "ok")
}

// Warn logs at WARN level.
func (l *Logger) Warn(format string, args ...interface{}) {
	l.hc.Warn(fmt.Sprintf(format, args...))
}

// Error logs at ERROR level.
func (l *Logger) Error(format string, args ...interface{}) {
	l.hc.Error(fmt.Sprintf(format, args...))
}

// Debug logs at DEBUG level; dropped unless the logger was built verbose.
func (l *Logger) Debug(format string, args ...interface{}) {
	if !l.hc.IsDebug() {
		return
	}
	l.hc.Debug(fmt.Sprintf(format, args...))
}
