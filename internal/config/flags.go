package config

// This file binds CLI flags onto a Config. Flags are parsed into a shadow
// Config and only the ones the user actually set are copied over the
// defaults+file layer, so an unset flag never clobbers a config-file value.

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
)

// Flags holds the parsed-but-unapplied flag values for one FlagSet.
type Flags struct {
	fs         *pflag.FlagSet
	v          Config
	configFile string
	options    []string
	forceColor bool
	noColor    bool
}

// BindFlags registers all configuration flags on fs.
func BindFlags(fs *pflag.FlagSet) *Flags {
	f := &Flags{fs: fs, v: DefaultConfig()}

	fs.StringVar(&f.configFile, "config", "", "Config file (.toml or .yaml)")

	// Binaries.
	fs.StringVar(&f.v.FFmpegPath, "ffmpeg", f.v.FFmpegPath, "ffmpeg binary")
	fs.StringVar(&f.v.FFprobePath, "ffprobe", f.v.FFprobePath, "ffprobe binary")

	// Encoding.
	fs.StringVarP(&f.v.VideoCodec, "codec", "c", f.v.VideoCodec, "Video codec (-c:v)")
	fs.StringVar(&f.v.AudioCodec, "audio-codec", "", "Audio codec (-c:a)")
	fs.VarP(&sizeValue{w: &f.v.Width, h: &f.v.Height}, "size", "s", "Video size WIDTHxHEIGHT (-s)")
	fs.StringVarP(&f.v.VideoBitrate, "bitrate", "b", "", "Video bitrate (-b:v), e.g. 2500k")
	fs.IntVarP(&f.v.FrameRate, "fps", "r", 0, "Frame rate (-r)")
	fs.StringArrayVarP(&f.options, "opt", "o", nil, "Extra ffmpeg option as flag=value (repeatable)")
	fs.Var(&containerValue{&f.v.Container}, "container", "Output container: mp4 | mkv | mov | webm")

	// Behavior.
	fs.BoolVarP(&f.v.Overwrite, "force", "f", false, "Overwrite existing output files")
	fs.BoolVarP(&f.v.DryRun, "dry-run", "d", false, "Print the command only; do not run ffmpeg")

	// Display.
	fs.BoolVarP(&f.v.Verbose, "verbose", "v", false, "Verbose output")
	fs.BoolVar(&f.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&f.noColor, "no-color", false, "Disable colored logs")
	fs.StringVarP(&f.v.LogFile, "log", "l", "", "Append logs to file")

	return f
}

// Resolve builds the effective Config: defaults, then the config file (if
// --config was given), then every flag the user set. The result is validated.
func (f *Flags) Resolve() (Config, error) {
	cfg := DefaultConfig()
	if f.configFile != "" {
		if err := LoadFile(f.configFile, &cfg); err != nil {
			return cfg, err
		}
	}
	if err := f.apply(&cfg); err != nil {
		return cfg, err
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// apply copies explicitly set flags into cfg.
func (f *Flags) apply(cfg *Config) error {
	set := func(name string, fn func()) {
		if f.fs.Changed(name) {
			fn()
		}
	}
	set("ffmpeg", func() { cfg.FFmpegPath = f.v.FFmpegPath })
	set("ffprobe", func() { cfg.FFprobePath = f.v.FFprobePath })
	set("codec", func() { cfg.VideoCodec = f.v.VideoCodec })
	set("audio-codec", func() { cfg.AudioCodec = f.v.AudioCodec })
	set("size", func() { cfg.Width, cfg.Height = f.v.Width, f.v.Height })
	set("bitrate", func() { cfg.VideoBitrate = f.v.VideoBitrate })
	set("fps", func() { cfg.FrameRate = f.v.FrameRate })
	set("container", func() { cfg.Container = f.v.Container })
	set("force", func() { cfg.Overwrite = f.v.Overwrite })
	set("dry-run", func() { cfg.DryRun = f.v.DryRun })
	set("verbose", func() { cfg.Verbose = f.v.Verbose })
	set("log", func() { cfg.LogFile = f.v.LogFile })

	if f.noColor {
		cfg.ColorMode = ColorNever
	} else if f.forceColor {
		cfg.ColorMode = ColorAlways
	}

	for _, raw := range f.options {
		o, err := ParseOption(raw)
		if err != nil {
			return err
		}
		cfg.Options = append(cfg.Options, o)
	}
	return nil
}

// ParseOption parses "flag=value" (e.g. "-preset=slow"). The split happens
// at the first '=', so values may contain further '=' characters.
func ParseOption(s string) (Option, error) {
	name, value, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" {
		return Option{}, fmt.Errorf("invalid option %q (use flag=value)", s)
	}
	if !strings.HasPrefix(name, "-") {
		return Option{}, fmt.Errorf("invalid option %q (flag names start with '-')", s)
	}
	return Option{Name: name, Value: value}, nil
}

// ParseSize parses "WIDTHxHEIGHT" into positive integers.
func ParseSize(s string) (int, int, error) {
	ws, hs, ok := strings.Cut(strings.ToLower(strings.TrimSpace(s)), "x")
	if !ok {
		return 0, 0, fmt.Errorf("invalid size %q (use WIDTHxHEIGHT, e.g. 1920x1080)", s)
	}
	w, errW := strconv.Atoi(ws)
	h, errH := strconv.Atoi(hs)
	if errW != nil || errH != nil || w <= 0 || h <= 0 {
		return 0, 0, fmt.Errorf("invalid size %q (width and height must be positive integers)", s)
	}
	return w, h, nil
}

// pflag.Value adapters for the enum and compound types.

type sizeValue struct{ w, h *int }

func (s *sizeValue) String() string {
	if *s.w == 0 && *s.h == 0 {
		return ""
	}
	return fmt.Sprintf("%dx%d", *s.w, *s.h)
}
func (s *sizeValue) Set(v string) error {
	w, h, err := ParseSize(v)
	if err != nil {
		return err
	}
	*s.w, *s.h = w, h
	return nil
}
func (s *sizeValue) Type() string { return "WxH" }

type containerValue struct{ p *Container }

func (c *containerValue) String() string { return string(*c.p) }
func (c *containerValue) Set(s string) error {
	switch v := Container(strings.ToLower(s)); v {
	case ContainerMP4, ContainerMKV, ContainerMOV, ContainerWebM:
		*c.p = v
	default:
		return fmt.Errorf("invalid container %q (use mp4, mkv, mov or webm)", s)
	}
	return nil
}
func (c *containerValue) Type() string { return "container" }
