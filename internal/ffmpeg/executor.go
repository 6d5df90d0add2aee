package ffmpeg

import (
	"context"
	"fmt"
	"os/exec"

	"github.com/backmassage/ffargs/internal/config"
)

// ExecResult holds the outcome of a single ffmpeg invocation.
type ExecResult struct {
	Stderr string
	Err    error // nil on success; *ExecError when ffmpeg ran and failed
}

// Executor runs the ffmpeg binary with a fixed preamble in front of the
// builder's arguments.
type Executor struct {
	Binary    string
	Verbose   bool
	Overwrite bool
}

// NewExecutor returns an executor configured from cfg.
func NewExecutor(cfg *config.Config) *Executor {
	return &Executor{
		Binary:    cfg.FFmpegPath,
		Verbose:   cfg.Verbose,
		Overwrite: cfg.Overwrite,
	}
}

// Preamble returns the flags placed before the builder's arguments.
func (e *Executor) Preamble() []string {
	args := []string{"-hide_banner", "-nostdin"}

	// Loglevel: info when verbose, otherwise warnings and errors only.
	if e.Verbose {
		args = append(args, "-loglevel", "info")
	} else {
		args = append(args, "-loglevel", "warning")
	}
	args = append(args, "-stats")

	if e.Overwrite {
		args = append(args, "-y")
	} else {
		args = append(args, "-n")
	}
	return args
}

// Command returns the complete argv (binary first) that Execute would run.
func (e *Executor) Command(args []string) []string {
	pre := e.Preamble()
	argv := make([]string, 0, 1+len(pre)+len(args))
	argv = append(argv, e.Binary)
	argv = append(argv, pre...)
	return append(argv, args...)
}

// Execute runs ffmpeg and blocks until it exits, forwarding stdout and
// stderr line by line to stream. Cancelling ctx kills the process and
// returns an "ffmpeg interrupted" error wrapping ctx.Err().
func (e *Executor) Execute(ctx context.Context, args []string, stream StreamLogger) ExecResult {
	argv := e.Command(args)
	cmd := exec.CommandContext(ctx, argv[0], argv[1:]...)

	stdout, err := cmd.StdoutPipe()
	if err != nil {
		return ExecResult{Err: fmt.Errorf("stdout pipe: %w", err)}
	}
	stderr, err := cmd.StderrPipe()
	if err != nil {
		return ExecResult{Err: fmt.Errorf("stderr pipe: %w", err)}
	}
	if err := cmd.Start(); err != nil {
		return ExecResult{Err: fmt.Errorf("start %s: %w", e.Binary, err)}
	}

	// A grandchild that inherited the pipes would keep them open past the
	// kill; closing our read ends on cancel unblocks Process.
	stop := context.AfterFunc(ctx, func() {
		stdout.Close()
		stderr.Close()
	})
	h := NewStreamHandler(stream)
	h.Process(stdout, stderr)
	stop()

	waitErr := cmd.Wait()
	res := ExecResult{Stderr: h.Stderr()}
	if waitErr != nil {
		if ctx.Err() != nil {
			res.Err = fmt.Errorf("ffmpeg interrupted: %w", ctx.Err())
			return res
		}
		res.Err = &ExecError{
			Args:   argv,
			Stderr: res.Stderr,
			Class:  ClassifyStderr(res.Stderr),
			Err:    waitErr,
		}
	}
	return res
}
