package logging

import (
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/backmassage/ffargs/internal/config"
)

// StreamLogger forwards child-process output to a Logger: stdout lines at
// INFO, stderr lines at WARN (ffmpeg writes progress and diagnostics there,
// not only errors), and a "done" line at End.
type StreamLogger struct {
	log *Logger
}

// NewStreamLogger adapts log for ffmpeg output.
func NewStreamLogger(log *Logger) *StreamLogger {
	return &StreamLogger{log: log.With("stream", "ffmpeg")}
}

// Log records a stdout line.
func (s *StreamLogger) Log(args ...any) { s.log.Info("%s", join(args)) }

// Error records a stderr line.
func (s *StreamLogger) Error(args ...any) { s.log.Warn("%s", join(args)) }

// End marks the end of the process output.
func (s *StreamLogger) End() { s.log.Info("done") }

func join(args []any) string {
	parts := make([]string, len(args))
	for i, a := range args {
		parts[i] = fmt.Sprint(a)
	}
	return strings.Join(parts, " ")
}

var (
	consoleOnce sync.Once
	console     *StreamLogger
)

// Console returns the process-wide StreamLogger writing to stdout with
// default settings. It is created on first use.
func Console() *StreamLogger {
	consoleOnce.Do(func() {
		cfg := config.DefaultConfig()
		l, err := newLogger(&cfg, os.Stdout)
		if err != nil {
			// Only the file sink can fail and the default config has none.
			panic(err)
		}
		console = NewStreamLogger(l)
	})
	return console
}
