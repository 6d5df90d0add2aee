package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/backmassage/ffargs/internal/display"
	"github.com/backmassage/ffargs/internal/ffmpeg"
)

func newArgsCmd(a *app) *cobra.Command {
	var shell bool
	cmd := &cobra.Command{
		Use:   "args <input> [output]",
		Short: "Print the ffmpeg arguments for a file",
		Long: `Print the argument list ffargs would pass to ffmpeg, one argument per
line. With --shell, print the full command (binary and fixed flags
included) as a single shell-quoted line instead.

The output defaults to <input dir>/<stem>-out.<container>.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()

			input, output := args[0], ""
			if len(args) == 2 {
				output = args[1]
			} else {
				output = ffmpeg.DefaultOutputPath(input, string(a.cfg.Container))
			}

			argv, err := ffmpeg.BuildArgs(ffmpeg.NewRequest(&a.cfg, input, output))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if shell {
				fmt.Fprintln(out, display.FormatCommand(ffmpeg.NewExecutor(&a.cfg).Command(argv)))
				return nil
			}
			for _, arg := range argv {
				fmt.Fprintln(out, arg)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&shell, "shell", false, "Print one shell-quoted command line")
	return cmd
}
