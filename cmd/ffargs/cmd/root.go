// Package cmd holds the ffargs command tree.
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/backmassage/ffargs/internal/config"
	"github.com/backmassage/ffargs/internal/display"
	"github.com/backmassage/ffargs/internal/logging"
)

// app carries the state shared by subcommands once flags are resolved.
type app struct {
	flags *config.Flags
	cfg   config.Config
	log   *logging.Logger
}

// NewRootCmd builds the ffargs command tree.
func NewRootCmd() *cobra.Command {
	a := &app{}
	root := &cobra.Command{
		Use:   "ffargs",
		Short: "Build and run ffmpeg commands",
		Long: `ffargs assembles ffmpeg argument lists from a small set of options
(video codec, size, bitrate, frame rate, extra flags) and runs them,
streaming ffmpeg's output to the log.

The video codec defaults to libx265. Settings come from defaults, then an
optional --config file (.toml or .yaml), then flags.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.setup()
		},
	}
	a.flags = config.BindFlags(root.PersistentFlags())

	root.AddCommand(
		newArgsCmd(a),
		newRunCmd(a),
		newBatchCmd(a),
		newCheckCmd(a),
		newVersionCmd(),
	)
	return root
}

// setup resolves the configuration and opens the logger.
func (a *app) setup() error {
	cfg, err := a.flags.Resolve()
	if err != nil {
		return err
	}
	a.cfg = cfg
	log, err := logging.NewLogger(&a.cfg)
	if err != nil {
		return fmt.Errorf("open log: %w", err)
	}
	a.log = log
	return nil
}

func (a *app) close() {
	if a.log != nil {
		a.log.Close()
	}
}

func (a *app) banner() {
	display.PrintBanner(os.Stdout, logging.UseColor(a.cfg.ColorMode, os.Stdout))
}

// Execute runs the command tree with SIGINT/SIGTERM wired to cancellation.
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return execute(ctx, NewRootCmd(), os.Args[1:])
}

func execute(ctx context.Context, root *cobra.Command, args []string) error {
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	if err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "ffargs: %v\n", err)
	}
	return err
}
