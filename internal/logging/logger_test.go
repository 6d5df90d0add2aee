package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/hashicorp/go-hclog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/ffargs/internal/config"
)

func testConfig() config.Config {
	cfg := config.DefaultConfig()
	cfg.ColorMode = config.ColorNever
	return cfg
}

func TestNewLogger_NoFile(t *testing.T) {
	cfg := testConfig()
	l, err := NewLogger(&cfg)
	require.NoError(t, err)
	defer l.Close()
	l.Info("test message")
}

func TestNewLogger_WithFile(t *testing.T) {
	dir := t.TempDir()
	cfg := testConfig()
	cfg.LogFile = filepath.Join(dir, "logs", "ffargs.log")

	var out bytes.Buffer
	l, err := newLogger(&cfg, &out)
	require.NoError(t, err)
	l.Info("to file")
	l.With("job", "abc").Warn("with context")
	require.NoError(t, l.Close())

	b, err := os.ReadFile(cfg.LogFile)
	require.NoError(t, err)
	assert.Contains(t, string(b), "[INFO]")
	assert.Contains(t, string(b), "to file")
	assert.Contains(t, string(b), "job=abc")
	assert.NotContains(t, string(b), "\033[", "file sink must not be colored")

	assert.Contains(t, out.String(), "to file")
}

func TestLogger_Levels(t *testing.T) {
	cfg := testConfig()
	var out bytes.Buffer
	l, err := newLogger(&cfg, &out)
	require.NoError(t, err)

	l.Debug("hidden %d", 1)
	l.Success("built %s", "args")
	l.Error("boom")

	s := out.String()
	assert.NotContains(t, s, "hidden")
	assert.Contains(t, s, "built args")
	assert.Contains(t, s, "result=ok")
	assert.Contains(t, s, "[ERROR]")

	cfg.Verbose = true
	out.Reset()
	l, err = newLogger(&cfg, &out)
	require.NoError(t, err)
	l.Debug("shown %d", 2)
	assert.Contains(t, out.String(), "shown 2")
}

func TestColorOption(t *testing.T) {
	var buf bytes.Buffer
	assert.Equal(t, "ColorOff", colorName(colorOption(config.ColorNever, &buf)))
	assert.Equal(t, "ForceColor", colorName(colorOption(config.ColorAlways, &buf)))
	assert.Equal(t, "ColorOff", colorName(colorOption(config.ColorAuto, &buf)), "non-file writer is never a TTY")

	t.Setenv("NO_COLOR", "1")
	assert.Equal(t, "ColorOff", colorName(colorOption(config.ColorAuto, os.Stdout)))
	assert.False(t, UseColor(config.ColorAuto, os.Stdout))
	assert.True(t, UseColor(config.ColorAlways, nil))
}

func TestStreamLogger(t *testing.T) {
	cfg := testConfig()
	var out bytes.Buffer
	l, err := newLogger(&cfg, &out)
	require.NoError(t, err)

	s := NewStreamLogger(l)
	s.Log("frame=", 10)
	s.Error("warning line")
	s.End()

	got := out.String()
	assert.Contains(t, got, "frame= 10")
	assert.Contains(t, got, "[WARN]")
	assert.Contains(t, got, "warning line")
	assert.Contains(t, got, "done")
	assert.Contains(t, got, "stream=ffmpeg")
}

func TestConsole_Singleton(t *testing.T) {
	a := Console()
	b := Console()
	require.NotNil(t, a)
	assert.Same(t, a, b)
}

func TestDiscard(t *testing.T) {
	l := Discard()
	l.Info("nothing")
	l.With("k", "v").Error("nothing")
	assert.NoError(t, l.Close())
}

func colorName(c hclog.ColorOption) string {
	switch c {
	case hclog.ColorOff:
		return "ColorOff"
	case hclog.AutoColor:
		return "AutoColor"
	case hclog.ForceColor:
		return "ForceColor"
	}
	return "unknown"
}
