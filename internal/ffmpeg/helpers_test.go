package ffmpeg

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

// recordingLogger is a StreamLogger that keeps everything it receives.
type recordingLogger struct {
	mu    sync.Mutex
	out   []string
	errs  []string
	ended int
}

func (r *recordingLogger) Log(args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.out = append(r.out, fmt.Sprint(args...))
}

func (r *recordingLogger) Error(args ...any) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, fmt.Sprint(args...))
}

func (r *recordingLogger) End() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.ended++
}

// fakeBinary writes an executable shell script standing in for ffmpeg.
func fakeBinary(t *testing.T, body string) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake ffmpeg needs a POSIX shell")
	}
	path := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\n" + strings.TrimSpace(body) + "\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

// echoArgsScript prints each argument on its own stdout line, one progress
// line on stderr, and exits 0.
const echoArgsScript = `
for a in "$@"; do echo "arg:$a"; done
echo "frame=  1 fps=0.0" >&2
exit 0
`
