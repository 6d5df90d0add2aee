package ffmpeg

import (
	"fmt"
	"strconv"
)

// Flags the builder writes through its convenience setters.
const (
	FlagInput        = "-i"
	FlagVideoCodec   = "-c:v"
	FlagAudioCodec   = "-c:a"
	FlagVideoSize    = "-s"
	FlagVideoBitrate = "-b:v"
	FlagFrameRate    = "-r"
)

// DefaultVideoCodec is seeded into every new builder.
const DefaultVideoCodec = "libx265"

// Builder accumulates ffmpeg options and one input path, then finalizes
// them into an argument slice with Output. Every setter returns the same
// builder so calls can be chained:
//
//	args, err := NewBuilder().
//		Input("in.mp4").
//		SetVideoSize(1920, 1080).
//		Output("out.mp4")
//	// args: -i in.mp4 -c:v libx265 -s 1920x1080 out.mp4
//
// A Builder is not safe for concurrent use. It may be reused after Output;
// later mutations show up in the next Output call.
type Builder struct {
	inputPath string
	options   *OptionMap
}

// NewBuilder returns a builder pre-seeded with "-c:v libx265".
func NewBuilder() *Builder {
	b := &Builder{options: NewOptionMap()}
	b.options.Set(FlagVideoCodec, DefaultVideoCodec)
	return b
}

// Input sets the input path. An empty path is accepted here and rejected
// by Output.
func (b *Builder) Input(path string) *Builder {
	b.inputPath = path
	return b
}

// SetVideoSize writes "<width>x<height>" under -s, replacing any earlier size.
func (b *Builder) SetVideoSize(width, height int) *Builder {
	b.options.Set(FlagVideoSize, fmt.Sprintf("%dx%d", width, height))
	return b
}

// SetVideoCodec replaces the video codec (default libx265).
func (b *Builder) SetVideoCodec(codec string) *Builder {
	b.options.Set(FlagVideoCodec, codec)
	return b
}

// SetAudioCodec sets -c:a.
func (b *Builder) SetAudioCodec(codec string) *Builder {
	b.options.Set(FlagAudioCodec, codec)
	return b
}

// SetVideoBitrate sets -b:v (e.g. "2500k").
func (b *Builder) SetVideoBitrate(rate string) *Builder {
	b.options.Set(FlagVideoBitrate, rate)
	return b
}

// SetFrameRate sets -r.
func (b *Builder) SetFrameRate(fps int) *Builder {
	b.options.Set(FlagFrameRate, strconv.Itoa(fps))
	return b
}

// Set stores an arbitrary flag/value pair.
func (b *Builder) Set(name, value string) *Builder {
	b.options.Set(name, value)
	return b
}

// Unset removes a flag, including the seeded codec.
func (b *Builder) Unset(name string) *Builder {
	b.options.Delete(name)
	return b
}

// InputPath returns the configured input path.
func (b *Builder) InputPath() string { return b.inputPath }

// Options returns a copy of the accumulated options.
func (b *Builder) Options() *OptionMap { return b.options.Clone() }

// Output finalizes the builder into
//
//	-i <input> <flag1> <value1> ... <flagN> <valueN> <outputPath>
//
// with flags in insertion order. It returns ErrMissingInput when no input
// path has been set. The builder itself is left unchanged.
func (b *Builder) Output(outputPath string) ([]string, error) {
	if b.inputPath == "" {
		return nil, ErrMissingInput
	}
	args := make([]string, 0, 3+2*b.options.Len())
	args = append(args, FlagInput, b.inputPath)
	args = append(args, b.options.Pairs()...)
	args = append(args, outputPath)
	return args, nil
}
