// Package display holds user-facing formatting: the startup banner, byte
// and duration labels, and shell-quoted command previews.
package display

import (
	"fmt"
	"io"
)

// PrintBanner writes the ASCII art banner, in magenta when color is set.
func PrintBanner(w io.Writer, color bool) {
	if color {
		fmt.Fprint(w, "\033[1;95m")
	}
	fmt.Fprint(w, `  __  __
 / _|/ _| __ _ _ __ __ _ ___
| |_| |_ / _`+"`"+` | '__/ _`+"`"+` / __|
|  _|  _| (_| | | | (_| \__ \
|_| |_|  \__,_|_|  \__, |___/
                   |___/
`)
	if color {
		fmt.Fprint(w, "\033[0m")
	}
}
