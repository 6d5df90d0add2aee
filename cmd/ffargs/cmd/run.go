package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/backmassage/ffargs/internal/ffmpeg"
	"github.com/backmassage/ffargs/internal/logging"
)

func newRunCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "run <input> [output]",
		Short: "Transcode one file",
		Long: `Build the ffmpeg command for one file and run it, streaming ffmpeg's
output to the log. With --dry-run the command is only printed.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()

			input := args[0]
			output := ffmpeg.DefaultOutputPath(input, string(a.cfg.Container))
			if len(args) == 2 {
				output = args[1]
			}
			if _, err := os.Stat(input); err != nil {
				return fmt.Errorf("%w: %s", ffmpeg.ErrInputNotFound, input)
			}

			a.banner()
			a.log.Info("In:  %s", input)
			a.log.Info("Out: %s", output)
			if a.cfg.DryRun {
				a.log.Warn("DRY RUN")
			}

			tr := ffmpeg.NewTranscoder(&a.cfg, a.log, logging.NewStreamLogger(a.log))
			_, err := tr.Run(cmd.Context(), ffmpeg.NewRequest(&a.cfg, input, output))
			return err
		},
	}
}
