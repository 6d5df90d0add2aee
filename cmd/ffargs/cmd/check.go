package cmd

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/backmassage/ffargs/internal/check"
)

func newCheckCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check ffmpeg, ffprobe, the video codec and the host",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			defer a.close()
			a.banner()
			if !check.RunCheck(cmd.Context(), &a.cfg, a.log) {
				return errors.New("system check failed")
			}
			return nil
		},
	}
}
