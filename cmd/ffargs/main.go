// Command ffargs builds ffmpeg argument lists and runs them.
package main

import (
	"os"

	"github.com/backmassage/ffargs/cmd/ffargs/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		os.Exit(1)
	}
}
