package display

import (
	"fmt"
	"io"

	"github.com/backmassage/titlenorm/internal/term"
)

// PrintBanner writes the ASCII art banner to w; uses Magenta if colors are enabled.
func PrintBanner(w io.Writer) {
	fmt.Fprint(w, term.Magenta)
	fmt.Fprint(w, ` _   _ _   _                                
| |_(_) |_| | ___ _ __   ___  _ __ _ __ ___
| __| | __| |/ _ \ '_ \ / _ \| '__| '_ `+"`"+` _ \
| |_| | |_| |  __/ | | | (_) | |  | | | | | |
 \__|_|\__|_|\___|_| |_|\___/|_|  |_| |_| |_|
`)
	if term.Enabled() {
		fmt.Fprintln(w, term.NC)
	}
}
