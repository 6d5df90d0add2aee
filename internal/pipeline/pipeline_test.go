package pipeline

import (
	"context"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/ffargs/internal/config"
	"github.com/backmassage/ffargs/internal/ffmpeg"
	"github.com/backmassage/ffargs/internal/logging"
)

// --- Discover tests ---

func TestDiscover_FiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "movie.mkv")
	touch(t, dir, "show.mp4")
	touch(t, dir, "notes.txt")
	touch(t, dir, "cover.jpg")
	touch(t, dir, "clip.webm")

	files, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"clip.webm", "movie.mkv", "show.mp4"}, basenames(files))
}

func TestDiscover_PrunesExtras(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "main.mkv")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "Extras"), 0o755))
	touch(t, filepath.Join(dir, "Extras"), "bonus.mkv")

	files, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"main.mkv"}, basenames(files))
}

func TestDiscover_RecursiveAndSorted(t *testing.T) {
	dir := t.TempDir()
	sub := filepath.Join(dir, "b")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	touch(t, sub, "z.mkv")
	touch(t, dir, "a.mkv")
	touch(t, dir, "C.MP4")

	files, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, files, 3)
	assert.Equal(t, filepath.Join(dir, "C.MP4"), files[0])
	assert.Equal(t, filepath.Join(dir, "a.mkv"), files[1])
	assert.Equal(t, filepath.Join(sub, "z.mkv"), files[2])
}

func TestIsMedia(t *testing.T) {
	assert.True(t, IsMedia("/x/Movie.MKV"))
	assert.True(t, IsMedia("clip.m2ts"))
	assert.False(t, IsMedia("/x/._Movie.mkv"))
	assert.False(t, IsMedia("notes.txt"))
	assert.False(t, IsMedia("mkv"))
}

func TestDiscover_MissingDir(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"))
	assert.Error(t, err)
}

// --- Naming tests ---

func TestOutputPath(t *testing.T) {
	in := filepath.FromSlash("/media/in")
	out := filepath.FromSlash("/media/out")

	tests := []struct {
		path string
		want string
	}{
		{"/media/in/a.mkv", "/media/out/a.mp4"},
		{"/media/in/Show/Season 1/e01.avi", "/media/out/Show/Season 1/e01.mp4"},
		{"/elsewhere/x.mkv", "/media/out/x.mp4"},
		{"/media/x.mkv", "/media/out/x.mp4"},
		{"/media/in/..extras/a.mkv", "/media/out/..extras/a.mp4"},
	}
	for _, tt := range tests {
		got := OutputPath(filepath.FromSlash(tt.path), in, out, config.ContainerMP4)
		assert.Equal(t, filepath.FromSlash(tt.want), got, tt.path)
	}
}

func TestCollisionResolver(t *testing.T) {
	cr := NewCollisionResolver()
	want := filepath.FromSlash("/out/Show/e01.mp4")

	assert.Equal(t, want, cr.Resolve("/in/e01.mkv", want))
	assert.Equal(t, filepath.FromSlash("/out/Show/e01 - dup1.mp4"), cr.Resolve("/in/e01.avi", want))
	assert.Equal(t, filepath.FromSlash("/out/Show/e01 - dup2.mp4"), cr.Resolve("/in/e01.mov", want))

	// Same input claiming the same output is idempotent.
	assert.Equal(t, want, cr.Resolve("/in/e01.mkv", want))
}

func TestRunStats_SpaceSaved(t *testing.T) {
	s := RunStats{TotalInputBytes: 1000, TotalOutputBytes: 400}
	assert.Equal(t, int64(600), s.SpaceSaved())
	assert.True(t, s.OK())

	s = RunStats{TotalInputBytes: 100, TotalOutputBytes: 300, Failed: 1}
	assert.Equal(t, int64(-200), s.SpaceSaved())
	assert.False(t, s.OK())
}

// --- Run tests ---

const videoProbe = `{"streams":[{"index":0,"codec_type":"video","codec_name":"h264","width":1280,"height":720}],"format":{"duration":"1.0","size":"2000"}}`

const audioProbe = `{"streams":[{"index":0,"codec_type":"audio","codec_name":"flac"}],"format":{"duration":"1.0"}}`

// fakeProbe writes an ffprobe stand-in that reports audio-only for any
// path containing "audio" and a 720p video stream otherwise.
func fakeProbe(t *testing.T) string {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("fake ffprobe needs a POSIX shell")
	}
	dir := t.TempDir()
	writeFile(t, filepath.Join(dir, "video.json"), videoProbe)
	writeFile(t, filepath.Join(dir, "audio.json"), audioProbe)
	script := `#!/bin/sh
for last; do :; done
case "$last" in
  *audio*) cat "` + filepath.Join(dir, "audio.json") + `" ;;
  *) cat "` + filepath.Join(dir, "video.json") + `" ;;
esac
`
	bin := filepath.Join(dir, "ffprobe")
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))
	return bin
}

// writesOutput creates a 3-byte output file (the last argument).
const writesOutput = `printf 'out' > "$last"
exit 0`

// fakeFFmpeg writes an ffmpeg stand-in running body with $last set to the
// output path.
func fakeFFmpeg(t *testing.T, body string) string {
	t.Helper()
	bin := filepath.Join(t.TempDir(), "ffmpeg")
	script := "#!/bin/sh\nfor last; do :; done\n" + body + "\n"
	require.NoError(t, os.WriteFile(bin, []byte(script), 0o755))
	return bin
}

func runBatch(t *testing.T, ctx context.Context, cfg *config.Config, inputDir, outputDir string) RunStats {
	t.Helper()
	log := logging.Discard()
	tr := ffmpeg.NewTranscoder(cfg, log, logging.NewStreamLogger(log))
	stats, err := Run(ctx, cfg, log, tr, inputDir, outputDir)
	require.NoError(t, err)
	return stats
}

func batchFixture(t *testing.T) (string, config.Config) {
	t.Helper()
	inputDir := t.TempDir()
	writeFile(t, filepath.Join(inputDir, "Movie.mkv"), strings.Repeat("x", 2000))
	writeFile(t, filepath.Join(inputDir, "Show", "e01.avi"), strings.Repeat("x", 2000))
	writeFile(t, filepath.Join(inputDir, "tiny.mp4"), "x")
	writeFile(t, filepath.Join(inputDir, "audio-only.mkv"), strings.Repeat("x", 2000))
	writeFile(t, filepath.Join(inputDir, "extras", "bonus.mkv"), strings.Repeat("x", 2000))

	cfg := config.DefaultConfig()
	cfg.FFprobePath = fakeProbe(t)
	cfg.FFmpegPath = fakeFFmpeg(t, writesOutput)
	cfg.ColorMode = config.ColorNever
	return inputDir, cfg
}

func TestRun_DryRun(t *testing.T) {
	inputDir, cfg := batchFixture(t)
	outputDir := t.TempDir()
	cfg.DryRun = true

	stats := runBatch(t, context.Background(), &cfg, inputDir, outputDir)

	assert.Equal(t, 4, stats.Total, "extras are excluded")
	assert.Equal(t, 2, stats.Transcoded)
	assert.Equal(t, 1, stats.Skipped, "audio-only file")
	assert.Equal(t, 1, stats.Failed, "tiny file")

	_, err := os.Stat(filepath.Join(outputDir, "Movie.mp4"))
	assert.True(t, os.IsNotExist(err), "dry run writes nothing")
}

func TestRun_Transcodes(t *testing.T) {
	inputDir, cfg := batchFixture(t)
	outputDir := t.TempDir()

	stats := runBatch(t, context.Background(), &cfg, inputDir, outputDir)

	assert.Equal(t, 2, stats.Transcoded)
	assert.FileExists(t, filepath.Join(outputDir, "Movie.mp4"))
	assert.FileExists(t, filepath.Join(outputDir, "Show", "e01.mp4"))
	assert.Equal(t, int64(4000), stats.TotalInputBytes)
	assert.Equal(t, int64(6), stats.TotalOutputBytes)
	assert.Equal(t, int64(3994), stats.SpaceSaved())

	// A second pass skips what already exists.
	stats = runBatch(t, context.Background(), &cfg, inputDir, outputDir)
	assert.Equal(t, 0, stats.Transcoded)
	assert.Equal(t, 3, stats.Skipped)
}

func TestRun_Cancelled(t *testing.T) {
	inputDir, cfg := batchFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	stats := runBatch(t, ctx, &cfg, inputDir, t.TempDir())

	assert.Equal(t, 4, stats.Total)
	assert.Equal(t, 0, stats.Current)
	assert.Equal(t, 0, stats.Transcoded)
}

func TestRun_KeepsOutputFFmpegRefusedToOverwrite(t *testing.T) {
	inputDir, cfg := batchFixture(t)
	outputDir := t.TempDir()
	// The output shows up after the skip check; ffmpeg (-n) refuses it.
	cfg.FFmpegPath = fakeFFmpeg(t, `printf 'precious' > "$last"
echo "File '$last' already exists. Exiting." >&2
exit 1`)

	stats := runBatch(t, context.Background(), &cfg, inputDir, outputDir)
	assert.Equal(t, 3, stats.Failed)

	data, err := os.ReadFile(filepath.Join(outputDir, "Movie.mp4"))
	require.NoError(t, err, "output ffmpeg refused to overwrite must survive")
	assert.Equal(t, "precious", string(data))
}

func TestRun_RemovesPartialOutput(t *testing.T) {
	inputDir, cfg := batchFixture(t)
	outputDir := t.TempDir()
	cfg.FFmpegPath = fakeFFmpeg(t, `printf 'half' > "$last"
echo "Conversion failed!" >&2
exit 1`)

	stats := runBatch(t, context.Background(), &cfg, inputDir, outputDir)
	assert.Equal(t, 3, stats.Failed)
	assert.NoFileExists(t, filepath.Join(outputDir, "Movie.mp4"))
	assert.NoFileExists(t, filepath.Join(outputDir, "Show", "e01.mp4"))
}

func TestRun_KeepsPreexistingOutputOnForcedFailure(t *testing.T) {
	inputDir, cfg := batchFixture(t)
	outputDir := t.TempDir()
	writeFile(t, filepath.Join(outputDir, "Movie.mp4"), "mine")
	cfg.Overwrite = true
	cfg.FFmpegPath = fakeFFmpeg(t, `echo "Conversion failed!" >&2
exit 1`)

	runBatch(t, context.Background(), &cfg, inputDir, outputDir)
	assert.FileExists(t, filepath.Join(outputDir, "Movie.mp4"), "not created by this run")
}

func TestRun_DiscoveryError(t *testing.T) {
	cfg := config.DefaultConfig()
	log := logging.Discard()
	tr := ffmpeg.NewTranscoder(&cfg, log, logging.NewStreamLogger(log))

	stats, err := Run(context.Background(), &cfg, log, tr, filepath.Join(t.TempDir(), "nope"), t.TempDir())
	require.Error(t, err)
	assert.Equal(t, 0, stats.Total)
	assert.Equal(t, 0, stats.Failed)
}

// --- Helpers ---

func touch(t *testing.T, dir, name string) {
	t.Helper()
	writeFile(t, filepath.Join(dir, name), "")
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

func basenames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}
