// Package pipeline orchestrates file discovery, per-file title
// normalization, and batch summary reporting.
package pipeline

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/backmassage/titlenorm/internal/config"
	"github.com/backmassage/titlenorm/internal/display"
	"github.com/backmassage/titlenorm/internal/logging"
	"github.com/backmassage/titlenorm/internal/naming"
	"github.com/backmassage/titlenorm/internal/tsv"
)

// TimestampLayout is the format of the appended timestamp column.
const TimestampLayout = "2006-01-02 15:04:05"

// batch carries the state shared by every file of one run.
type batch struct {
	cfg        *config.Config
	log        *logging.Logger
	formatter  *naming.Formatter
	unknown    *naming.UnknownSeriesSet
	inputIsDir bool
	stats      *RunStats
}

// Run is the top-level batch entry point. It loads the mapping table,
// discovers catalog files, processes each file sequentially, and returns
// aggregate stats. Series without an abbreviation are collected across the
// whole run and reported once at the end.
func Run(ctx context.Context, cfg *config.Config, log *logging.Logger) RunStats {
	var stats RunStats

	table, err := LoadTable(cfg)
	if err != nil {
		log.Error("%v", err)
		stats.Failed++
		return stats
	}

	files, err := Discover(cfg.InputPath)
	if err != nil {
		log.Error("File discovery failed: %v", err)
		stats.Failed++
		return stats
	}
	if len(files) == 0 {
		log.Warn("No catalog files found in %s", cfg.InputPath)
		return stats
	}

	fi, err := os.Stat(cfg.InputPath)
	if err != nil {
		log.Error("Input not found: %s", cfg.InputPath)
		stats.Failed++
		return stats
	}

	stats.Total = len(files)
	b := &batch{
		cfg:        cfg,
		log:        log,
		formatter:  NewFormatter(cfg, table),
		unknown:    naming.NewUnknownSeriesSet(),
		inputIsDir: fi.IsDir(),
		stats:      &stats,
	}

	logBatchHeader(cfg, log, &stats)

	for i, path := range files {
		stats.Current = i + 1

		if ctx.Err() != nil {
			log.Warn("Interrupted")
			break
		}

		b.processFile(ctx, path)
	}

	stats.UnknownSeries = b.unknown.Drain()
	logUnknownSeries(log, stats.UnknownSeries)
	logSummary(cfg, log, &stats)
	return stats
}

// processFile handles one catalog: read, check columns, format, write.
func (b *batch) processFile(ctx context.Context, path string) {
	cfg, log, stats := b.cfg, b.log, b.stats
	outputPath := OutputPathFor(cfg.InputPath, cfg.OutputPath, path, b.inputIsDir)
	log.Info("[%d/%d] %s", stats.Current, stats.Total, filepath.Base(path))

	// --- Skip-existing check ---
	if cfg.SkipExisting {
		if _, err := os.Stat(outputPath); err == nil {
			log.Warn("Skip (exists): %s", outputPath)
			stats.Skipped++
			fmt.Println()
			return
		}
	}

	// --- Read ---
	tbl, err := tsv.ReadFile(path, cfg.InputEncoding)
	if err != nil {
		log.Error("Cannot read catalog: %v", err)
		stats.Failed++
		fmt.Println()
		return
	}
	log.Debug(cfg.Verbose, "  Charset: %s, %d rows", tbl.Charset, len(tbl.Rows))

	if err := tbl.Require(cfg.KindColumn, cfg.NameColumn); err != nil {
		log.Error("  %v", err)
		stats.Failed++
		fmt.Println()
		return
	}

	// --- Format ---
	rows := extractRows(tbl, cfg.KindColumn, cfg.NameColumn)
	results, err := formatRows(ctx, b.formatter, rows, cfg.Jobs, b.unknown)
	if err != nil {
		log.Warn("Interrupted while formatting %s", filepath.Base(path))
		stats.Failed++
		return
	}

	titles := make([]string, len(results))
	stamps := make([]string, len(results))
	stamp := cfg.Clock()().Format(TimestampLayout)
	var filled int
	for i, r := range results {
		titles[i] = r.Title
		stamps[i] = stamp
		stats.addRule(r.Rule)
		if r.Rule == naming.RuleDefaultFill {
			filled++
			// Line numbers are 1-based and count the header.
			log.Outlier("  Line %d needs manual review: %s / %s", i+2, r.Kind, r.Name)
		}
		log.Debug(cfg.Verbose, "  %-12s %s -> %s", r.Rule, r.Name, r.Title)
	}
	tbl.SetColumn(cfg.OutputColumn, titles)
	tbl.SetColumn(cfg.TimestampColumn, stamps)

	// --- Dry-run ---
	if cfg.DryRun {
		log.Success("[DRY] Would write %d rows -> %s", len(results), outputPath)
		stats.Converted++
		fmt.Println()
		return
	}

	// --- Write ---
	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		log.Error("Cannot create output directory: %v", err)
		stats.Failed++
		fmt.Println()
		return
	}
	if err := tsv.WriteFile(outputPath, tbl, cfg.OutputEncoding); err != nil {
		log.Error("Cannot write output: %v", err)
		stats.Failed++
		fmt.Println()
		return
	}

	stats.Converted++
	size := "?"
	if fi, err := os.Stat(outputPath); err == nil {
		size = display.FormatBytes(fi.Size())
	}
	log.Success("Wrote %d rows -> %s (%s, %s default-filled)", len(results), outputPath,
		size, display.FormatRatio(filled, len(results)))
	fmt.Println()
}

// --- Logging helpers ---

func logBatchHeader(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("Found %d catalog file(s)", stats.Total)

	source := "built-in"
	if cfg.MappingFile != "" {
		source = cfg.MappingFile
	}
	log.Info("Mapping table: %s", source)
	log.Info("Columns: %s, %s -> %s, %s", cfg.KindColumn, cfg.NameColumn, cfg.OutputColumn, cfg.TimestampColumn)
	log.Info("Encoding: in %s, out %s", cfg.InputEncoding, cfg.OutputEncoding)

	if cfg.Date != "" {
		log.Info("Date: pinned to %s", cfg.Date)
	}
	if cfg.NormalizeNames {
		log.Info("Names: width and dash normalization on")
	}
	if !cfg.Kana {
		log.Info("Names: ASCII kept in latin script")
	}
	if cfg.Jobs > 1 {
		log.Info("Workers: %d", cfg.Jobs)
	}
	fmt.Println()
}

func logUnknownSeries(log *logging.Logger, series []string) {
	if len(series) == 0 {
		return
	}
	log.Warn("Series without an abbreviation (%d):", len(series))
	for _, s := range series {
		log.Warn("  %s", s)
	}
}

func logSummary(cfg *config.Config, log *logging.Logger, stats *RunStats) {
	log.Info("==============================")
	log.Info("Done: %d converted, %d skipped, %d failed", stats.Converted, stats.Skipped, stats.Failed)
	log.Info("Summary report:")
	log.Info("  Total files processed: %d", stats.Current)
	log.Info("  Rows: %d (%d formatted, %d passed through)", stats.Rows, stats.Formatted(), stats.Passthrough())

	for _, r := range naming.AllRules {
		if n := stats.Rules[r]; n > 0 {
			log.Debug(cfg.Verbose, "    %-12s %d", r, n)
		}
	}

	if filled := stats.DefaultFilled(); filled > 0 {
		log.Outlier("  Default-filled rows: %d (%s), review before import",
			filled, display.FormatRatio(filled, stats.Rows))
	} else if stats.Rows > 0 {
		log.Success("  Every row matched a rule")
	}
	if cfg.DryRun {
		log.Info("  Output: none (dry run)")
	}
}
