// Package check provides system diagnostics (the check command) and
// pre-run dependency validation (CheckDeps) for ffmpeg, ffprobe and the
// configured video encoder.
package check

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"

	"github.com/shirou/gopsutil/v4/cpu"
	"github.com/shirou/gopsutil/v4/host"
	"github.com/shirou/gopsutil/v4/mem"

	"github.com/backmassage/ffargs/internal/config"
	"github.com/backmassage/ffargs/internal/display"
	"github.com/backmassage/ffargs/internal/ffmpeg"
)

// Sentinel errors returned by CheckDeps when a required tool or encoder is missing.
var (
	ErrFfmpegNotFound  = errors.New("ffmpeg not found on PATH")
	ErrFfprobeNotFound = errors.New("ffprobe not found on PATH")
	ErrEncodeFailed    = errors.New("test encode failed")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// stays testable with a recording logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
}

// RunCheck prints availability of ffmpeg and ffprobe, the encoders matching
// the configured codec, a test encode result and host facts. It reports
// whether every tool check passed; host facts are informational only.
func RunCheck(ctx context.Context, cfg *config.Config, log Logger) bool {
	log.Info("=== System Check ===")

	ok := checkFfmpeg(ctx, cfg, log)
	if _, err := exec.LookPath(cfg.FFprobePath); err != nil {
		log.Error("ffprobe not found (%s)", cfg.FFprobePath)
		ok = false
	} else {
		log.Success("ffprobe: found")
	}
	if ok {
		checkEncoders(ctx, cfg, log)
		log.Info("Testing %s...", cfg.VideoCodec)
		if err := testEncode(ctx, cfg); err != nil {
			log.Error("%s: %v", cfg.VideoCodec, err)
			ok = false
		} else {
			log.Success("%s works", cfg.VideoCodec)
		}
	}

	checkHost(ctx, log)
	return ok
}

// checkFfmpeg verifies ffmpeg resolves and logs its version string.
func checkFfmpeg(ctx context.Context, cfg *config.Config, log Logger) bool {
	if _, err := exec.LookPath(cfg.FFmpegPath); err != nil {
		log.Error("ffmpeg not found (%s)", cfg.FFmpegPath)
		return false
	}
	out, err := exec.CommandContext(ctx, cfg.FFmpegPath, "-version").Output()
	if err != nil {
		log.Warn("ffmpeg found but -version failed: %v", err)
		return true
	}
	firstLine, _, _ := strings.Cut(strings.TrimSpace(string(out)), "\n")
	log.Success("ffmpeg: %s", firstLine)
	return true
}

// checkEncoders lists the encoders whose line mentions the configured codec.
func checkEncoders(ctx context.Context, cfg *config.Config, log Logger) {
	out, err := exec.CommandContext(ctx, cfg.FFmpegPath, "-hide_banner", "-encoders").Output()
	if err != nil {
		log.Warn("Could not list encoders: %v", err)
		return
	}
	want := strings.ToLower(cfg.VideoCodec)
	log.Info("Encoders matching %s:", cfg.VideoCodec)
	found := false
	for _, line := range strings.Split(string(out), "\n") {
		if strings.Contains(strings.ToLower(line), want) {
			log.Info("  %s", strings.TrimSpace(line))
			found = true
		}
	}
	if !found {
		log.Warn("  none")
	}
}

// checkHost logs platform, logical CPU count and total memory.
func checkHost(ctx context.Context, log Logger) {
	if info, err := host.InfoWithContext(ctx); err == nil {
		log.Info("Host: %s %s (%s)", info.Platform, info.PlatformVersion, info.KernelArch)
	} else {
		log.Warn("Host info unavailable: %v", err)
	}
	if n, err := cpu.CountsWithContext(ctx, true); err == nil {
		log.Info("CPUs: %d logical", n)
	}
	if vm, err := mem.VirtualMemoryWithContext(ctx); err == nil {
		log.Info("Memory: %s", display.FormatBytes(int64(vm.Total)))
	}
}

// CheckDeps is the pre-run validation: ffmpeg and ffprobe must resolve and
// a short encode with the configured codec must succeed.
func CheckDeps(ctx context.Context, cfg *config.Config) error {
	if _, err := exec.LookPath(cfg.FFmpegPath); err != nil {
		return ErrFfmpegNotFound
	}
	if _, err := exec.LookPath(cfg.FFprobePath); err != nil {
		return ErrFfprobeNotFound
	}
	return testEncode(ctx, cfg)
}

// TestEncodeArgs returns the ffmpeg arguments for a 0.1s synthetic encode
// with codec, discarding the output.
func TestEncodeArgs(codec string) ([]string, error) {
	out, err := ffmpeg.NewBuilder().
		Input("color=black:s=256x256:d=0.1").
		SetVideoCodec(codec).
		Set("-f", "null").
		Output("-")
	if err != nil {
		return nil, err
	}
	// lavfi is an input option and must precede -i.
	args := []string{"-hide_banner", "-nostdin", "-loglevel", "error", "-f", "lavfi"}
	return append(args, out...), nil
}

func testEncode(ctx context.Context, cfg *config.Config) error {
	args, err := TestEncodeArgs(cfg.VideoCodec)
	if err != nil {
		return err
	}
	out, err := exec.CommandContext(ctx, cfg.FFmpegPath, args...).CombinedOutput()
	if err != nil {
		if line := ffmpeg.LastErrorLine(string(out)); line != "" {
			return fmt.Errorf("%w: %s: %s", ErrEncodeFailed, cfg.VideoCodec, line)
		}
		return fmt.Errorf("%w: %s: %v", ErrEncodeFailed, cfg.VideoCodec, err)
	}
	return nil
}
