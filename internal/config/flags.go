package config

// This file implements CLI flag parsing and help text.
// Flags are grouped into mapping, input/output, behavior, display, and utility.
// Negated flags (e.g. --no-kana) are applied after Parse so Config defaults hold unless set.

import (
	"flag"
	"fmt"
	"os"

	"github.com/backmassage/titlenorm/internal/tsv"
)

// Version is shown in --version, help and the run header; override at build
// time with -ldflags "-X github.com/backmassage/titlenorm/internal/config.Version=...".
var Version = "1.0.0-dev"

// ParseFlags parses args (without the program name) into cfg. On --help or
// --version it prints and exits. On error it returns non-nil (e.g. unknown
// flag, missing positional args).
func ParseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("titlenorm", flag.ContinueOnError)
	fs.Usage = func() { printUsage() }

	// Negated/override flags: we capture bools then apply to cfg after Parse,
	// so that defaults from DefaultConfig() hold unless the user passes the flag.
	var negated negatedFlags

	defineMappingFlags(fs, cfg, &negated)
	defineIOFlags(fs, cfg)
	defineBehaviorFlags(fs, cfg, &negated)
	defineDisplayFlags(fs, cfg, &negated)
	defineUtilityFlags(fs, &negated)

	if err := fs.Parse(args); err != nil {
		return err
	}

	applyNegatedFlags(cfg, &negated)

	if negated.showHelp {
		printUsage()
		os.Exit(0)
	}
	if negated.showVersion {
		fmt.Fprintln(os.Stdout, "titlenorm v"+Version)
		os.Exit(0)
	}

	return parsePositionalArgs(fs, cfg)
}

// negatedFlags holds boolean flags that are applied after Parse.
// These either invert a default (e.g. noKana -> Kana=false) or trigger exit (showHelp, showVersion).
type negatedFlags struct {
	noKana      bool
	force       bool
	forceColor  bool
	noColor     bool
	showVersion bool
	showHelp    bool
}

// defineMappingFlags registers --mapping, --date, --normalize-names, --no-kana, -j/--jobs.
func defineMappingFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.StringVar(&cfg.MappingFile, "mapping", "", "YAML mapping table (default: built-in)")
	fs.StringVar(&cfg.MappingFile, "m", "", "Same as --mapping")
	fs.StringVar(&cfg.Date, "date", "", "Pin today's date (YYYY-MM-DD)")
	fs.BoolVar(&cfg.NormalizeNames, "normalize-names", false, "Normalize widths and dashes in names before formatting")
	fs.BoolVar(&n.noKana, "no-kana", false, "Keep ASCII authors and titles in latin script")
	fs.IntVar(&cfg.Jobs, "jobs", cfg.Jobs, "Rows formatted in parallel")
	fs.IntVar(&cfg.Jobs, "j", cfg.Jobs, "Same as --jobs")
}

// defineIOFlags registers the encoding and column-name flags.
func defineIOFlags(fs *flag.FlagSet, cfg *Config) {
	fs.Var(&encodingValue{p: &cfg.InputEncoding, allowAuto: true}, "input-encoding", "Input encoding: auto | utf-8 | cp932")
	fs.Var(&encodingValue{p: &cfg.OutputEncoding}, "output-encoding", "Output encoding: shift_jis | utf-8")
	fs.StringVar(&cfg.KindColumn, "kind-column", cfg.KindColumn, "Kind column name")
	fs.StringVar(&cfg.NameColumn, "name-column", cfg.NameColumn, "Name column name")
	fs.StringVar(&cfg.OutputColumn, "output-column", cfg.OutputColumn, "Output title column name")
	fs.StringVar(&cfg.TimestampColumn, "timestamp-column", cfg.TimestampColumn, "Output timestamp column name")
}

// defineBehaviorFlags registers dry-run, force, analyze.
func defineBehaviorFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&cfg.DryRun, "dry-run", false, "Preview only; do not write output")
	fs.BoolVar(&cfg.DryRun, "d", false, "Same as --dry-run")
	fs.BoolVar(&n.force, "force", false, "Overwrite existing output files")
	fs.BoolVar(&n.force, "f", false, "Same as --force")
	fs.BoolVar(&cfg.AnalyzeOnly, "analyze", false, "Report rule usage per file and exit")
	fs.BoolVar(&cfg.AnalyzeOnly, "a", false, "Same as --analyze")
}

// defineDisplayFlags registers --color, --no-color, verbose, --check, --log.
func defineDisplayFlags(fs *flag.FlagSet, cfg *Config, n *negatedFlags) {
	fs.BoolVar(&n.forceColor, "color", false, "Force colored logs")
	fs.BoolVar(&n.noColor, "no-color", false, "Disable colored logs")
	fs.BoolVar(&cfg.Verbose, "verbose", false, "Verbose output")
	fs.BoolVar(&cfg.Verbose, "v", false, "Same as --verbose")
	fs.BoolVar(&cfg.CheckOnly, "check", false, "Validate the mapping table and exit")
	fs.BoolVar(&cfg.CheckOnly, "c", false, "Same as --check")
	fs.StringVar(&cfg.LogFile, "log", "", "Append logs to file")
	fs.StringVar(&cfg.LogFile, "l", "", "Same as --log")
}

// defineUtilityFlags registers --version and --help (exit after printing).
func defineUtilityFlags(fs *flag.FlagSet, n *negatedFlags) {
	fs.BoolVar(&n.showVersion, "version", false, "Print version and exit")
	fs.BoolVar(&n.showVersion, "V", false, "Same as --version")
	fs.BoolVar(&n.showHelp, "help", false, "Show this help and exit")
	fs.BoolVar(&n.showHelp, "h", false, "Same as --help")
}

// applyNegatedFlags copies negated and override flag values into cfg.
func applyNegatedFlags(cfg *Config, n *negatedFlags) {
	if n.noKana {
		cfg.Kana = false
	}
	if n.force {
		cfg.SkipExisting = false
	}
	if n.noColor {
		cfg.ColorMode = ColorNever
	} else if n.forceColor {
		cfg.ColorMode = ColorAlways
	}
}

// parsePositionalArgs sets InputPath and OutputPath from the two positional
// args. --check takes an optional input path to validate.
func parsePositionalArgs(fs *flag.FlagSet, cfg *Config) error {
	args := fs.Args()
	if cfg.CheckOnly {
		if len(args) > 0 {
			cfg.InputPath = NormalizeDirArg(args[0])
		}
		return nil
	}
	if len(args) != 2 {
		return fmt.Errorf("need exactly input and output")
	}
	cfg.InputPath = NormalizeDirArg(args[0])
	cfg.OutputPath = NormalizeDirArg(args[1])
	return nil
}

// printUsage writes the help text to stderr. Column-aligned for readability.
func printUsage() {
	const col1 = 32 // width of "  -x, --long-name <arg>  "
	lines := []struct {
		flags string
		desc  string
	}{
		{"", "titlenorm v" + Version + ": catalog title normalizer"},
		{"", ""},
		{"  titlenorm [OPTIONS] <input> <output>", ""},
		{"  input is a .tsv/.txt file or a directory of them", ""},
		{"", ""},
		{"Mapping", ""},
		{"  -m, --mapping <file.yaml>", "Mapping table (default: built-in)"},
		{"  --date <YYYY-MM-DD>", "Pin today's date for dated titles"},
		{"  --normalize-names", "Normalize widths and dashes in names first"},
		{"  --no-kana", "Keep ASCII authors and titles in latin script"},
		{"  -j, --jobs <n>", "Rows formatted in parallel (default: 1)"},
		{"", ""},
		{"Input & output", ""},
		{"  --input-encoding <enc>", "auto | utf-8 | cp932 (default: auto)"},
		{"  --output-encoding <enc>", "shift_jis | utf-8 (default: shift_jis)"},
		{"  --kind-column <name>", "Kind column (default: 種別)"},
		{"  --name-column <name>", "Name column (default: 名称)"},
		{"  --output-column <name>", "Title column to write (default: 変換後)"},
		{"  --timestamp-column <name>", "Timestamp column to write (default: 出力日時)"},
		{"", ""},
		{"Behavior", ""},
		{"  -f, --force", "Overwrite existing output files"},
		{"  -d, --dry-run", "Preview only; do not write output"},
		{"  -a, --analyze", "Report rule usage per file; write nothing"},
		{"", ""},
		{"Display", ""},
		{"  --color", "Force colored logs"},
		{"  --no-color", "Disable colored logs"},
		{"  -v, --verbose", "Verbose output"},
		{"", ""},
		{"Utility", ""},
		{"  -l, --log <path>", "Append logs to file"},
		{"  -c, --check [input]", "Validate the mapping table (and input) and exit"},
		{"  -V, --version", "Print version and exit"},
		{"  -h, --help", "Show this help and exit"},
	}

	for _, l := range lines {
		if l.flags == "" && l.desc == "" {
			fmt.Fprintln(os.Stderr)
			continue
		}
		if l.desc == "" {
			fmt.Fprintln(os.Stderr, l.flags)
			continue
		}
		if l.flags == "" {
			fmt.Fprintln(os.Stderr, l.desc)
			continue
		}
		padding := col1 - len(l.flags)
		if padding < 1 {
			padding = 1
		}
		fmt.Fprintf(os.Stderr, "%s%*s%s\n", l.flags, padding, "", l.desc)
	}
}

// flag.Value adapter so tsv.Encoding can be used with flag.Var.

type encodingValue struct {
	p         *tsv.Encoding
	allowAuto bool
}

func (e *encodingValue) String() string {
	if e.p == nil {
		return ""
	}
	return string(*e.p)
}

func (e *encodingValue) Set(s string) error {
	enc, err := tsv.ParseEncoding(s)
	if err != nil {
		return err
	}
	if enc == tsv.EncodingAuto && !e.allowAuto {
		return fmt.Errorf("auto is only valid for input")
	}
	*e.p = enc
	return nil
}
