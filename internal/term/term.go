// Package term holds the ANSI color state shared by the logger, the banner
// and the analysis report.
//
// Colors are package-level variables set once by [Configure]. When colors are
// disabled they are empty strings, so concatenating them is a no-op and
// [Paint] returns its input unchanged.
package term

import (
	"os"
	"strings"

	"github.com/backmassage/titlenorm/internal/config"
)

// ANSI color codes. Empty when colors are disabled.
var (
	Red     = ""
	Green   = ""
	Yellow  = ""
	Orange  = ""
	Blue    = ""
	Cyan    = ""
	Magenta = ""
	NC      = "" // Reset sequence.
)

// Configure resolves mode against out (normally os.Stdout) and sets the
// color variables.
func Configure(mode config.ColorMode, out *os.File) {
	if !resolve(mode, out) {
		Red, Green, Yellow, Orange, Blue, Cyan, Magenta, NC = "", "", "", "", "", "", "", ""
		return
	}
	Red = "\033[1;91m"
	Green = "\033[1;92m"
	Yellow = "\033[1;93m"
	Orange = "\033[1;38;5;208m"
	Blue = "\033[1;94m"
	Cyan = "\033[1;96m"
	Magenta = "\033[1;95m"
	NC = "\033[0m"
}

// Enabled reports whether ANSI colors are currently active.
func Enabled() bool { return NC != "" }

// Paint wraps s in color and a reset. It returns s unchanged when color is
// empty or colors are off.
func Paint(color, s string) string {
	if color == "" || !Enabled() {
		return s
	}
	return color + s + NC
}

// Severity maps a report class ("extreme", "outlier") to its color.
func Severity(class string) string {
	switch class {
	case "extreme":
		return Red
	case "outlier":
		return Orange
	}
	return ""
}

// resolve honors NO_COLOR (https://no-color.org) and TERM=dumb in auto mode.
func resolve(mode config.ColorMode, out *os.File) bool {
	switch mode {
	case config.ColorAlways:
		return true
	case config.ColorNever:
		return false
	default:
		return IsTerminal(out) &&
			os.Getenv("NO_COLOR") == "" &&
			strings.ToLower(os.Getenv("TERM")) != "dumb"
	}
}

// IsTerminal reports whether f is attached to a TTY (character device).
func IsTerminal(f *os.File) bool {
	if f == nil {
		return false
	}
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return (fi.Mode() & os.ModeCharDevice) != 0
}
