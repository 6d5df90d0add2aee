package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/backmassage/ffargs/internal/check"
	"github.com/backmassage/ffargs/internal/config"
	"github.com/backmassage/ffargs/internal/ffmpeg"
	"github.com/backmassage/ffargs/internal/logging"
	"github.com/backmassage/ffargs/internal/pipeline"
)

func newBatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "batch <input_dir> <output_dir>",
		Short: "Transcode every media file under a directory",
		Long: `Walk input_dir for media files (skipping "extras" directories) and
transcode each one into the same relative location under output_dir,
using the container as the new extension. Existing outputs are skipped
unless --force is set.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()

			inputDir := config.NormalizeDirArg(args[0])
			outputDir := config.NormalizeDirArg(args[1])

			// Input must exist, output is created if needed, and output must
			// not be inside input.
			inputAbs, err := absPath(inputDir)
			if err != nil {
				return fmt.Errorf("input not found: %s", inputDir)
			}
			if err := os.MkdirAll(outputDir, 0o755); err != nil {
				return fmt.Errorf("cannot create output directory: %w", err)
			}
			outputAbs, err := absPath(outputDir)
			if err != nil {
				return fmt.Errorf("cannot resolve output path: %w", err)
			}
			if err := a.cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
				return err
			}

			a.banner()
			a.log.Info("In:  %s", inputDir)
			a.log.Info("Out: %s", outputDir)
			if a.cfg.DryRun {
				a.log.Warn("DRY RUN")
			} else if err := check.CheckDeps(cmd.Context(), &a.cfg); err != nil {
				return err
			}

			tr := ffmpeg.NewTranscoder(&a.cfg, a.log, logging.NewStreamLogger(a.log))
			stats, err := pipeline.Run(cmd.Context(), &a.cfg, a.log, tr, inputAbs, outputAbs)
			if err != nil {
				return err
			}
			if err := cmd.Context().Err(); err != nil {
				return fmt.Errorf("interrupted: %w", err)
			}
			if !stats.OK() {
				return fmt.Errorf("%d of %d files failed", stats.Failed, stats.Total)
			}
			return nil
		},
	}
}

// absPath returns the absolute path with symlinks resolved, for comparing
// input vs output hierarchy.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	return filepath.EvalSymlinks(abs)
}
