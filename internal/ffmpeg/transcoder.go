package ffmpeg

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/backmassage/ffargs/internal/config"
	"github.com/backmassage/ffargs/internal/display"
	"github.com/backmassage/ffargs/internal/logging"
)

// Request describes one transcode. Zero-valued fields leave the builder's
// defaults untouched.
type Request struct {
	InputPath    string
	OutputPath   string
	Width        int
	Height       int
	VideoCodec   string
	AudioCodec   string
	VideoBitrate string
	FrameRate    int
	Options      []config.Option // applied last, in order
}

// NewRequest fills a Request from cfg for the given paths.
func NewRequest(cfg *config.Config, input, output string) Request {
	return Request{
		InputPath:    input,
		OutputPath:   output,
		Width:        cfg.Width,
		Height:       cfg.Height,
		VideoCodec:   cfg.VideoCodec,
		AudioCodec:   cfg.AudioCodec,
		VideoBitrate: cfg.VideoBitrate,
		FrameRate:    cfg.FrameRate,
		Options:      cfg.Options,
	}
}

// Builder returns a builder configured from the request.
func (r Request) Builder() *Builder {
	b := NewBuilder().Input(r.InputPath)
	if r.VideoCodec != "" {
		b.SetVideoCodec(r.VideoCodec)
	}
	if r.Width > 0 && r.Height > 0 {
		b.SetVideoSize(r.Width, r.Height)
	}
	if r.VideoBitrate != "" {
		b.SetVideoBitrate(r.VideoBitrate)
	}
	if r.FrameRate > 0 {
		b.SetFrameRate(r.FrameRate)
	}
	if r.AudioCodec != "" {
		b.SetAudioCodec(r.AudioCodec)
	}
	for _, o := range r.Options {
		b.Set(o.Name, o.Value)
	}
	return b
}

// BuildArgs returns the finalized builder arguments for r.
func BuildArgs(r Request) ([]string, error) {
	return r.Builder().Output(r.OutputPath)
}

// DefaultOutputPath places the output next to the input:
// <dir>/<stem>-out.<container>.
func DefaultOutputPath(input, container string) string {
	dir := filepath.Dir(input)
	base := filepath.Base(input)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(dir, stem+"-out."+container)
}

// Result describes a finished (or dry-run) transcode.
type Result struct {
	ID         string
	Args       []string // builder arguments, without binary or preamble
	OutputPath string
	Elapsed    time.Duration
	DryRun     bool
}

// Transcoder builds and runs ffmpeg commands for Requests.
type Transcoder struct {
	exec   *Executor
	log    *logging.Logger
	stream StreamLogger
	dryRun bool
}

// NewTranscoder wires an executor from cfg. A nil stream sends ffmpeg
// output to the process-wide console logger.
func NewTranscoder(cfg *config.Config, log *logging.Logger, stream StreamLogger) *Transcoder {
	if stream == nil {
		stream = logging.Console()
	}
	return &Transcoder{
		exec:   NewExecutor(cfg),
		log:    log,
		stream: stream,
		dryRun: cfg.DryRun,
	}
}

// Executor exposes the underlying executor (for previews).
func (t *Transcoder) Executor() *Executor { return t.exec }

// Run builds the arguments for req and executes ffmpeg. In dry-run mode
// the command is only logged.
func (t *Transcoder) Run(ctx context.Context, req Request) (Result, error) {
	id := uuid.NewString()
	log := t.log.With("job", id)

	res := Result{ID: id, OutputPath: req.OutputPath, DryRun: t.dryRun}
	args, err := BuildArgs(req)
	if err != nil {
		return res, fmt.Errorf("build ffmpeg args: %w", err)
	}
	res.Args = args

	log.Debug("Command: %s", display.FormatCommand(t.exec.Command(args)))

	if t.dryRun {
		log.Success("[DRY] Would run: %s", display.FormatCommand(t.exec.Command(args)))
		return res, nil
	}

	start := time.Now()
	er := t.exec.Execute(ctx, args, t.stream)
	res.Elapsed = time.Since(start)
	if er.Err != nil {
		return res, er.Err
	}
	log.Success("Transcoded in %s -> %s", display.FormatDuration(res.Elapsed), req.OutputPath)
	return res, nil
}
