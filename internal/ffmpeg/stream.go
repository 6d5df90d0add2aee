package ffmpeg

import (
	"bufio"
	"bytes"
	"io"
	"sync"
)

// StreamLogger receives the output of a running ffmpeg process: stdout
// lines via Log, stderr lines via Error, and End once both streams close.
type StreamLogger interface {
	Log(args ...any)
	Error(args ...any)
	End()
}

// MaxStderrTail bounds how much stderr is retained for classification.
const MaxStderrTail = 64 * 1024

// StreamHandler forwards process output to a StreamLogger while keeping
// the tail of stderr for error reporting.
type StreamHandler struct {
	logger StreamLogger
	tail   tailBuffer
}

// NewStreamHandler returns a handler that forwards to logger.
func NewStreamHandler(logger StreamLogger) *StreamHandler {
	return &StreamHandler{logger: logger, tail: tailBuffer{max: MaxStderrTail}}
}

// Process drains stdout and stderr concurrently, forwarding each line, and
// calls End after both readers hit EOF. Either reader may be nil.
func (h *StreamHandler) Process(stdout, stderr io.Reader) {
	var wg sync.WaitGroup
	if stdout != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			forwardLines(stdout, h.logger.Log)
		}()
	}
	if stderr != nil {
		wg.Add(1)
		go func() {
			defer wg.Done()
			forwardLines(io.TeeReader(stderr, &h.tail), h.logger.Error)
		}()
	}
	wg.Wait()
	h.logger.End()
}

// Stderr returns the retained stderr tail.
func (h *StreamHandler) Stderr() string { return h.tail.String() }

func forwardLines(r io.Reader, emit func(args ...any)) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	sc.Split(scanLinesOrCR)
	for sc.Scan() {
		line := sc.Text()
		if line == "" {
			continue
		}
		emit(line)
	}
	// Drain whatever is left after a scanner error so the child never
	// blocks on a full pipe.
	_, _ = io.Copy(io.Discard, r)
}

// scanLinesOrCR splits on '\n' or '\r'. ffmpeg redraws its progress line
// with carriage returns.
func scanLinesOrCR(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.IndexAny(data, "\r\n"); i >= 0 {
		return i + 1, data[:i], nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}

// tailBuffer keeps the last max bytes written to it.
type tailBuffer struct {
	mu  sync.Mutex
	buf []byte
	max int
}

func (t *tailBuffer) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.buf = append(t.buf, p...)
	if over := len(t.buf) - t.max; t.max > 0 && over > 0 {
		t.buf = append(t.buf[:0], t.buf[over:]...)
	}
	return len(p), nil
}

func (t *tailBuffer) String() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return string(t.buf)
}
