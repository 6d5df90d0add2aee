// Package config holds runtime configuration: defaults, config-file
// loading, CLI flag binding, and validation. Values are resolved in three
// layers: DefaultConfig, then an optional TOML or YAML file, then flags
// explicitly set on the command line.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"
)

// --- Enum types for validated string fields ---

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// Container is the output container, used as the file extension.
type Container string

const (
	ContainerMP4  Container = "mp4" // Default.
	ContainerMKV  Container = "mkv"
	ContainerMOV  Container = "mov"
	ContainerWebM Container = "webm"
)

// Option is one extra ffmpeg flag/value pair.
type Option struct {
	Name  string `toml:"name" yaml:"name"`
	Value string `toml:"value" yaml:"value"`
}

// Config holds all runtime settings. Fields are grouped by concern; the
// file keys are given by the struct tags.
type Config struct {
	// Binaries.
	FFmpegPath  string `toml:"ffmpeg" yaml:"ffmpeg"`   // Default: "ffmpeg".
	FFprobePath string `toml:"ffprobe" yaml:"ffprobe"` // Default: "ffprobe".

	// Encoding.
	VideoCodec   string    `toml:"video_codec" yaml:"video_codec"`     // Default: "libx265".
	AudioCodec   string    `toml:"audio_codec" yaml:"audio_codec"`     // Empty: ffmpeg's choice.
	Width        int       `toml:"width" yaml:"width"`                 // 0: keep source size.
	Height       int       `toml:"height" yaml:"height"`               // 0: keep source size.
	VideoBitrate string    `toml:"video_bitrate" yaml:"video_bitrate"` // e.g. "2500k".
	FrameRate    int       `toml:"frame_rate" yaml:"frame_rate"`       // 0: keep source rate.
	Options      []Option  `toml:"options" yaml:"options"`             // Extra flags, applied last.
	Container    Container `toml:"container" yaml:"container"`         // Default: "mp4".

	// Behavior flags.
	Overwrite bool `toml:"overwrite" yaml:"overwrite"`
	DryRun    bool `toml:"dry_run" yaml:"dry_run"`

	// Display and logging.
	Verbose   bool      `toml:"verbose" yaml:"verbose"`
	ColorMode ColorMode `toml:"color" yaml:"color"`       // Default: "auto".
	LogFile   string    `toml:"log_file" yaml:"log_file"` // Optional log file path.
}

// DefaultConfig returns a Config with all defaults applied.
func DefaultConfig() Config {
	return Config{
		FFmpegPath:  "ffmpeg",
		FFprobePath: "ffprobe",
		VideoCodec:  "libx265",
		Container:   ContainerMP4,
		ColorMode:   ColorAuto,
	}
}

// LoadFile decodes a .toml, .yaml or .yml file on top of cfg. Keys absent
// from the file keep their current values.
func LoadFile(path string, cfg *Config) error {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.DecodeFile(path, cfg); err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
	case ".yaml", ".yml":
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return fmt.Errorf("config %s: %w", path, err)
		}
	default:
		return fmt.Errorf("config %s: unsupported format (use .toml or .yaml)", path)
	}
	return nil
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields and encoding values.
func (c *Config) Validate() error {
	if c.FFmpegPath == "" {
		return errors.New("ffmpeg path must not be empty")
	}
	if c.VideoCodec == "" {
		return errors.New("video codec must not be empty")
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q (use 'auto', 'always' or 'never')", c.ColorMode)
	}

	switch c.Container {
	case ContainerMP4, ContainerMKV, ContainerMOV, ContainerWebM:
		// valid
	default:
		return fmt.Errorf("invalid container %q (use mp4, mkv, mov or webm)", c.Container)
	}

	if c.Width < 0 || c.Height < 0 {
		return errors.New("video size must not be negative")
	}
	if (c.Width == 0) != (c.Height == 0) {
		return errors.New("video size needs both width and height")
	}
	if c.FrameRate < 0 {
		return errors.New("frame rate must not be negative")
	}
	for _, o := range c.Options {
		if !strings.HasPrefix(o.Name, "-") {
			return fmt.Errorf("invalid option %q (flag names start with '-')", o.Name)
		}
	}
	return nil
}

// ValidatePaths ensures the resolved output directory is not inside (or equal
// to) the resolved input directory. This prevents a batch run from
// recursively discovering its own output files. Both arguments must be
// absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == inputAbs || strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return errors.New("output directory must not be inside input directory")
	}
	return nil
}
