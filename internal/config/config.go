// Package config holds runtime configuration: defaults, CLI flag parsing, and
// validation.
package config

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/backmassage/titlenorm/internal/tsv"
)

// ColorMode controls ANSI color output.
type ColorMode string

const (
	ColorAuto   ColorMode = "auto"   // Enable colors when stdout is a TTY (default).
	ColorAlways ColorMode = "always" // Force colors on.
	ColorNever  ColorMode = "never"  // Disable colors entirely.
)

// DateLayout is the --date format.
const DateLayout = "2006-01-02"

// Config holds all runtime settings. It is populated by [DefaultConfig] and
// then mutated by [ParseFlags] before being passed (by pointer) to packages
// that need it.
type Config struct {
	// Paths (set from positional args). InputPath is a catalog file or a
	// directory of them; OutputPath is a file or directory to match.
	InputPath  string
	OutputPath string

	// Mapping table.
	MappingFile string // Optional YAML table; empty means the embedded default.

	// Column names.
	KindColumn      string // Default: "種別".
	NameColumn      string // Default: "名称".
	OutputColumn    string // Default: "変換後".
	TimestampColumn string // Default: "出力日時".

	// Character sets.
	InputEncoding  tsv.Encoding // Default: auto (UTF-8, then CP932, then sniffed).
	OutputEncoding tsv.Encoding // Default: shift_jis.

	// Title formatting.
	Date           string // Pins "today" (YYYY-MM-DD) for dated rules and default-fill.
	NormalizeNames bool   // Width/dash normalization of names before formatting.
	Kana           bool   // Default: true. Cleared by --no-kana.
	Jobs           int    // Default: 1 (sequential).

	// Behavior flags.
	DryRun       bool
	SkipExisting bool // Default: true. Cleared by --force.
	AnalyzeOnly  bool // Report rule usage per file without writing output.

	// Display and logging.
	Verbose   bool
	ColorMode ColorMode // Default: "auto".
	LogFile   string    // Optional log file path.
	CheckOnly bool      // Run --check diagnostics and exit.
}

// DefaultConfig returns a Config with all defaults. Used as the base before
// [ParseFlags] applies CLI overrides.
func DefaultConfig() Config {
	return Config{
		KindColumn:      "種別",
		NameColumn:      "名称",
		OutputColumn:    "変換後",
		TimestampColumn: "出力日時",
		InputEncoding:   tsv.EncodingAuto,
		OutputEncoding:  tsv.EncodingShiftJIS,
		Kana:            true,
		Jobs:            1,
		SkipExisting:    true,
		ColorMode:       ColorAuto,
	}
}

// NormalizeDirArg strips trailing slashes from a directory path.
// The filesystem root "/" is returned unchanged so we don't produce an empty string.
func NormalizeDirArg(path string) string {
	if path == "/" {
		return "/"
	}
	return strings.TrimRight(path, "/")
}

// Validate checks enum fields, column names, --jobs and --date. When not in
// CheckOnly mode, it also requires both input and output paths.
func (c *Config) Validate() error {
	switch c.InputEncoding {
	case tsv.EncodingAuto, tsv.EncodingUTF8, tsv.EncodingCP932, tsv.EncodingShiftJIS:
		// valid
	default:
		return fmt.Errorf("invalid input encoding %q", c.InputEncoding)
	}

	switch c.OutputEncoding {
	case tsv.EncodingUTF8, tsv.EncodingCP932, tsv.EncodingShiftJIS:
		// valid
	default:
		return fmt.Errorf("invalid output encoding %q (use 'shift_jis' or 'utf-8')", c.OutputEncoding)
	}

	switch c.ColorMode {
	case ColorAuto, ColorAlways, ColorNever:
		// valid
	default:
		return fmt.Errorf("invalid color mode %q", c.ColorMode)
	}

	if c.KindColumn == "" || c.NameColumn == "" || c.OutputColumn == "" || c.TimestampColumn == "" {
		return errors.New("column names must not be empty")
	}
	if c.KindColumn == c.NameColumn {
		return errors.New("kind and name columns must differ")
	}

	if c.Jobs < 1 {
		return fmt.Errorf("jobs must be at least 1 (got %d)", c.Jobs)
	}
	if c.Date != "" {
		if _, err := time.ParseInLocation(DateLayout, c.Date, time.Local); err != nil {
			return fmt.Errorf("invalid date %q (use YYYY-MM-DD)", c.Date)
		}
	}

	if c.CheckOnly {
		return nil
	}
	if c.InputPath == "" || c.OutputPath == "" {
		return errors.New("need exactly input and output")
	}
	return nil
}

// Clock returns the source of "today" for the formatter. With --date set,
// every call returns midnight of that day in local time.
func (c *Config) Clock() func() time.Time {
	if c.Date == "" {
		return time.Now
	}
	pinned, err := time.ParseInLocation(DateLayout, c.Date, time.Local)
	if err != nil {
		return time.Now
	}
	return func() time.Time { return pinned }
}

// ValidatePaths ensures the resolved output path is not inside (or equal
// to) the resolved input path. This prevents a directory run from
// rediscovering its own output and a file run from overwriting its input.
// Both arguments must be absolute, symlink-resolved paths.
func (c *Config) ValidatePaths(inputAbs, outputAbs string) error {
	sep := string(filepath.Separator)
	if outputAbs == inputAbs || strings.HasPrefix(outputAbs+sep, inputAbs+sep) {
		return errors.New("output must not be the input or inside the input directory")
	}
	return nil
}
