package logging

import (
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/mattn/go-isatty"

	"github.com/backmassage/ffargs/internal/config"
)

// colorOption resolves the configured color mode into an hclog option.
// Auto enables color only for a TTY, honoring NO_COLOR
// (https://no-color.org) and TERM=dumb.
func colorOption(mode config.ColorMode, out io.Writer) hclog.ColorOption {
	switch mode {
	case config.ColorAlways:
		return hclog.ForceColor
	case config.ColorNever:
		return hclog.ColorOff
	}
	if os.Getenv("NO_COLOR") != "" || strings.ToLower(os.Getenv("TERM")) == "dumb" {
		return hclog.ColorOff
	}
	f, ok := out.(*os.File)
	if !ok || !IsTerminal(f) {
		return hclog.ColorOff
	}
	return hclog.AutoColor
}

// IsTerminal reports whether f is attached to a TTY.
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// UseColor reports whether output to f should carry ANSI colors under mode.
func UseColor(mode config.ColorMode, f *os.File) bool {
	return colorOption(mode, f) != hclog.ColorOff
}
