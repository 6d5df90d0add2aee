package ffmpeg

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
)

// ErrMissingInput is returned by Builder.Output when no input path is set.
var ErrMissingInput = errors.New("input path is missing")

// Failure classes recognised in ffmpeg stderr.
var (
	ErrOutputExists     = errors.New("output file already exists")
	ErrInputNotFound    = errors.New("input file not found")
	ErrPermissionDenied = errors.New("permission denied")
	ErrUnknownEncoder   = errors.New("unknown encoder")
	ErrInvalidVideoSize = errors.New("invalid video size")
)

// Pre-compiled stderr patterns, checked in order by ClassifyStderr; the
// first match wins.
var stderrClasses = []struct {
	re  *regexp.Regexp
	err error
}{
	{regexp.MustCompile(`already exists\. (Exiting|Overwrite\?)|Not overwriting - exiting`), ErrOutputExists},
	{regexp.MustCompile(`No such file or directory`), ErrInputNotFound},
	{regexp.MustCompile(`Permission denied`), ErrPermissionDenied},
	{regexp.MustCompile(`(?i)Unknown encoder|Encoder .* not found|Requested encoder .* not found`), ErrUnknownEncoder},
	{regexp.MustCompile(`(?i)Invalid frame size|Invalid size|as image size`), ErrInvalidVideoSize},
}

// ClassifyStderr maps ffmpeg stderr to one of the failure sentinels, or nil
// when nothing recognisable is present.
func ClassifyStderr(stderr string) error {
	for _, c := range stderrClasses {
		if c.re.MatchString(stderr) {
			return c.err
		}
	}
	return nil
}

// maxErrorLine caps the length of LastErrorLine's result.
const maxErrorLine = 200

// LastErrorLine returns the last non-empty stderr line, truncated.
func LastErrorLine(stderr string) string {
	lines := strings.Split(stderr, "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line == "" {
			continue
		}
		if len(line) > maxErrorLine {
			return line[:maxErrorLine] + "..."
		}
		return line
	}
	return ""
}

// ExecError reports a failed ffmpeg run. Both the classified cause (if any)
// and the underlying process error are reachable through errors.Is/As.
type ExecError struct {
	Args   []string
	Stderr string
	Class  error // one of the Err* sentinels above, or nil
	Err    error // process error, usually *exec.ExitError
}

func (e *ExecError) Error() string {
	msg := "ffmpeg failed"
	if e.Class != nil {
		msg += ": " + e.Class.Error()
	}
	if e.Err != nil {
		msg += fmt.Sprintf(" (%v)", e.Err)
	}
	if last := LastErrorLine(e.Stderr); last != "" {
		msg += ": " + last
	}
	return msg
}

func (e *ExecError) Unwrap() []error {
	var errs []error
	if e.Class != nil {
		errs = append(errs, e.Class)
	}
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}
