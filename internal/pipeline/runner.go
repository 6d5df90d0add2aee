package pipeline

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"

	"github.com/backmassage/ffargs/internal/config"
	"github.com/backmassage/ffargs/internal/display"
	"github.com/backmassage/ffargs/internal/ffmpeg"
	"github.com/backmassage/ffargs/internal/logging"
	"github.com/backmassage/ffargs/internal/probe"
)

const minFileSize = 1000

// Run is the batch entry point. It discovers media under inputDir,
// transcodes each file into the mirrored tree under outputDir, and
// returns aggregate stats. Per-file failures are counted in the stats;
// the error is non-nil only when inputDir cannot be walked.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger, tr *ffmpeg.Transcoder, inputDir, outputDir string) (RunStats, error) {
	var stats RunStats

	files, err := Discover(inputDir)
	if err != nil {
		return stats, err
	}

	stats.Total = len(files)
	resolver := NewCollisionResolver()

	log.Info("Found %d files", stats.Total)
	log.Info("Codec: %s, container: %s", cfg.VideoCodec, strings.ToUpper(string(cfg.Container)))
	if cfg.Width > 0 && cfg.Height > 0 {
		log.Info("Size: %dx%d", cfg.Width, cfg.Height)
	}

	for i, path := range files {
		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}
		stats.Current = i + 1
		processFile(ctx, cfg, log, tr, path, inputDir, outputDir, &stats, resolver)
	}

	logSummary(cfg, log, &stats)
	return stats, nil
}

// processFile handles one media file: validate → probe → name → transcode.
func processFile(
	ctx context.Context,
	cfg *config.Config,
	log *logging.Logger,
	tr *ffmpeg.Transcoder,
	path, inputDir, outputDir string,
	stats *RunStats,
	resolver *CollisionResolver,
) {
	basename := filepath.Base(path)
	log.Info("[%d/%d] %s", stats.Current, stats.Total, basename)

	// --- Validate ---
	fi, err := os.Stat(path)
	if err != nil {
		log.Error("File not found: %s", path)
		stats.Failed++
		return
	}
	if fi.Size() < minFileSize {
		log.Error("File too small (possibly corrupt): %s", path)
		stats.Failed++
		return
	}

	// --- Probe ---
	pr, err := probe.Probe(ctx, cfg.FFprobePath, path)
	if err != nil {
		log.Error("Cannot probe file (possibly corrupt): %v", err)
		stats.Failed++
		return
	}
	if pr.Video == nil {
		log.Warn("No video stream found, skipping")
		stats.Skipped++
		return
	}
	log.Debug("  Video: %s | %s | %d audio", pr.Resolution(), pr.Video.Codec, pr.AudioCount)

	// --- Output path ---
	outputPath := resolver.Resolve(path, OutputPath(path, inputDir, outputDir, cfg.Container))

	if !cfg.Overwrite {
		if _, err := os.Stat(outputPath); err == nil {
			log.Warn("Skip (exists): %s", filepath.Base(outputPath))
			stats.Skipped++
			return
		}
	}

	if !cfg.DryRun {
		if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
			log.Error("Cannot create output directory: %v", err)
			stats.Failed++
			return
		}
	}

	// --- Transcode ---
	log.Info("  -> %s", filepath.Base(outputPath))
	_, statErr := os.Stat(outputPath)
	preexisting := statErr == nil
	_, err = tr.Run(ctx, ffmpeg.NewRequest(cfg, path, outputPath))
	if err != nil {
		if ctx.Err() != nil {
			log.Warn("Interrupted: %s", basename)
		} else {
			logFailure(log, err)
		}
		if !cfg.DryRun && !preexisting && !errors.Is(err, ffmpeg.ErrOutputExists) {
			removePartial(log, outputPath)
		}
		stats.Failed++
		return
	}

	stats.Transcoded++
	if cfg.DryRun {
		return
	}

	inSize := fi.Size()
	var outSize int64
	if outInfo, err := os.Stat(outputPath); err == nil {
		outSize = outInfo.Size()
	}
	stats.TotalInputBytes += inSize
	stats.TotalOutputBytes += outSize
	if inSize > 0 {
		log.Info("  Output is %d%% of original", outSize*100/inSize)
	}
}

// OutputPath mirrors path's position under inputDir into outputDir, with
// the container as extension.
func OutputPath(path, inputDir, outputDir string, container config.Container) string {
	rel, err := filepath.Rel(inputDir, filepath.Dir(path))
	if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		rel = ""
	}
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))
	return filepath.Join(outputDir, rel, stem+"."+string(container))
}

// removePartial deletes an output this run created but did not finish.
func removePartial(log *logging.Logger, path string) {
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Warn("Cannot remove partial output %s: %v", path, err)
	}
}

func logFailure(log *logging.Logger, err error) {
	var ee *ffmpeg.ExecError
	if !errors.As(err, &ee) {
		log.Error("Transcode failed: %v", err)
		return
	}
	log.Error("Transcode failed: %v", ee)
	if ee.Stderr == "" {
		return
	}
	lines := strings.Split(strings.TrimSpace(ee.Stderr), "\n")
	start := 0
	if len(lines) > 20 {
		start = len(lines) - 20
	}
	for _, l := range lines[start:] {
		log.Debug("  %s", l)
	}
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Done: %d transcoded, %d skipped, %d failed", stats.Transcoded, stats.Skipped, stats.Failed)
	log.Info("  Total files processed: %d", stats.Current)

	if cfg.DryRun {
		log.Info("  Total space saved: n/a (dry run)")
		return
	}

	saved := stats.SpaceSaved()
	if saved >= 0 {
		log.Success("  Total space saved: %s (input %s -> output %s)",
			display.FormatBytes(saved),
			display.FormatBytes(stats.TotalInputBytes),
			display.FormatBytes(stats.TotalOutputBytes))
	} else {
		log.Warn("  Total space saved: %s (overall output is larger)",
			display.FormatBytesWithSign(saved))
	}
}
