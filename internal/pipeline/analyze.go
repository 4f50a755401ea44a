package pipeline

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/backmassage/titlenorm/internal/config"
	"github.com/backmassage/titlenorm/internal/display"
	"github.com/backmassage/titlenorm/internal/logging"
	"github.com/backmassage/titlenorm/internal/naming"
	"github.com/backmassage/titlenorm/internal/term"
	"github.com/backmassage/titlenorm/internal/tsv"
)

// fileRow holds the per-file rule counts for the analysis table.
type fileRow struct {
	Name        string
	Rows        int
	Formatted   int
	Passthrough int
	Filled      int
}

// fillPct is the share of default-filled rows, in percent.
func (r fileRow) fillPct() float64 {
	if r.Rows == 0 {
		return 0
	}
	return float64(r.Filled) * 100 / float64(r.Rows)
}

// Analyze discovers catalog files, formats every row without writing
// anything, and prints a per-file rule report. Files whose default-fill
// share is a statistical outlier are highlighted. It returns the same stats
// a real run would have produced.
func Analyze(ctx context.Context, cfg *config.Config, log *logging.Logger) RunStats {
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

	stats.Total = len(files)
	log.Info("Analyzing %d files in %s …", stats.Total, cfg.InputPath)
	fmt.Println()

	formatter := NewFormatter(cfg, table)
	unknown := naming.NewUnknownSeriesSet()
	isTTY := term.IsTerminal(os.Stdout)
	var rows []fileRow
	var fillVals []float64

	for i, path := range files {
		stats.Current = i + 1
		if ctx.Err() != nil {
			if isTTY {
				clearProgress()
			}
			log.Warn("Interrupted")
			break
		}

		printProgress(isTTY, i+1, stats.Total, stats.Failed, filepath.Base(path))

		row, err := analyzeFile(ctx, cfg, formatter, unknown, path, &stats)
		if err != nil {
			stats.Failed++
			if isTTY {
				clearProgress()
			}
			log.Warn("Skip (%v): %s", err, filepath.Base(path))
			continue
		}
		rows = append(rows, row)
		fillVals = append(fillVals, row.fillPct())
	}

	if isTTY {
		clearProgress()
	}

	if len(rows) == 0 {
		log.Warn("No files could be analyzed")
		return stats
	}

	fStats := computeStats(fillVals)
	printAnalysisTable(rows, fStats)
	printAnalysisSummary(log, rows, fStats)

	stats.UnknownSeries = unknown.Drain()
	logUnknownSeries(log, stats.UnknownSeries)
	return stats
}

func analyzeFile(ctx context.Context, cfg *config.Config, f *naming.Formatter, unknown *naming.UnknownSeriesSet, path string, stats *RunStats) (fileRow, error) {
	tbl, err := tsv.ReadFile(path, cfg.InputEncoding)
	if err != nil {
		return fileRow{}, err
	}
	if err := tbl.Require(cfg.KindColumn, cfg.NameColumn); err != nil {
		return fileRow{}, err
	}
	results, err := formatRows(ctx, f, extractRows(tbl, cfg.KindColumn, cfg.NameColumn), cfg.Jobs, unknown)
	if err != nil {
		return fileRow{}, err
	}

	row := fileRow{Name: filepath.Base(path), Rows: len(results)}
	for _, r := range results {
		stats.addRule(r.Rule)
		switch r.Rule {
		case naming.RuleDefaultFill:
			row.Filled++
		case naming.RulePassthrough:
			row.Passthrough++
		default:
			row.Formatted++
		}
	}
	stats.Converted++
	return row, nil
}

// iqrBounds holds the IQR-based thresholds for outlier classification.
type iqrBounds struct {
	q1, q3    float64
	outlierHi float64 // Q3 + 1.5*IQR
	extremeHi float64 // Q3 + 3.0*IQR
	valid     bool
}

func computeStats(vals []float64) iqrBounds {
	if len(vals) < 4 {
		return iqrBounds{}
	}

	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	q1 := percentile(sorted, 25)
	q3 := percentile(sorted, 75)
	iqr := q3 - q1

	return iqrBounds{
		q1:        q1,
		q3:        q3,
		outlierHi: q3 + 1.5*iqr,
		extremeHi: q3 + 3.0*iqr,
		valid:     iqr > 0,
	}
}

// classify returns "" (normal), "outlier", or "extreme" for a value. Only
// the high side matters: a file that fills fewer rows than its peers is fine.
func (b *iqrBounds) classify(v float64) string {
	if !b.valid || v <= 0 {
		return ""
	}
	if v > b.extremeHi {
		return "extreme"
	}
	if v > b.outlierHi {
		return "outlier"
	}
	return ""
}

func printAnalysisTable(rows []fileRow, fStats iqrBounds) {
	nameW := display.Width("File")
	const numW = 9
	for _, r := range rows {
		if w := display.Width(r.Name); w > nameW {
			nameW = w
		}
	}
	if nameW > 50 {
		nameW = 50
	}

	header := fmt.Sprintf("  %s  %*s  %*s  %*s  %*s  %*s",
		display.Pad("File", nameW),
		numW, "Rows",
		numW, "Formatted",
		numW, "Passed",
		numW, "Filled",
		numW, "Fill %",
	)
	separator := "  " + strings.Repeat("─", len(header)-2)

	fmt.Println(header)
	fmt.Println(separator)

	for _, r := range rows {
		name := display.Pad(display.Truncate(r.Name, nameW), nameW)
		class := fStats.classify(r.fillPct())

		// Pad the plain text first, then wrap in ANSI color. This avoids
		// the alignment bug where %-*s counts escape bytes as visible width.
		pctCell := colorPad(fmt.Sprintf("%*s", numW, display.FormatRatio(r.Filled, r.Rows)), numW, class)

		fmt.Printf("  %s  %*d  %*d  %*d  %*d  %s  %s\n",
			name,
			numW, r.Rows,
			numW, r.Formatted,
			numW, r.Passthrough,
			numW, r.Filled,
			pctCell,
			formatFlag(class),
		)
	}
	fmt.Println()
}

func printAnalysisSummary(log *logging.Logger, rows []fileRow, fStats iqrBounds) {
	var outliers, extremes, total, filled int
	for _, r := range rows {
		total += r.Rows
		filled += r.Filled
		switch fStats.classify(r.fillPct()) {
		case "extreme":
			extremes++
		case "outlier":
			outliers++
		}
	}

	log.Info("Analyzed %d files, %d rows", len(rows), total)
	log.Info("  Default-filled: %d (%s)", filled, display.FormatRatio(filled, total))
	if fStats.valid {
		log.Info("  Fill-rate IQR: %.1f%% to %.1f%% (outlier > %.1f%%)",
			fStats.q1, fStats.q3, fStats.outlierHi)
	}
	if outliers > 0 {
		log.Outlier("  %d outlier(s) flagged [*]", outliers)
	}
	if extremes > 0 {
		log.Error("  %d extreme outlier(s) flagged [!]", extremes)
	}
	if outliers == 0 && extremes == 0 {
		log.Success("  No outliers detected")
	}
}

func formatFlag(flag string) string {
	switch flag {
	case "extreme":
		return term.Paint(term.Severity(flag), "[!]")
	case "outlier":
		return term.Paint(term.Severity(flag), "[*]")
	default:
		return ""
	}
}

// colorPad pads a plain string to width before coloring it, so escape
// sequences do not count toward the column width.
func colorPad(s string, width int, class string) string {
	return term.Paint(term.Severity(class), display.Pad(s, width))
}

// printProgress shows a live counter. On a TTY it writes an inline
// \r-overwritten line; otherwise it is a no-op (the skip warnings already
// provide enough breadcrumbs in piped/logged output).
func printProgress(isTTY bool, current, total, skipped int, name string) {
	if !isTTY {
		return
	}
	pct := current * 100 / total
	status := fmt.Sprintf("  Reading [%d/%d] %d%% ", current, total, pct)
	if skipped > 0 {
		status += fmt.Sprintf("(%d skipped) ", skipped)
	}
	status += display.Truncate(name, 40)

	// Pad to 80 columns to overwrite previous longer lines, then \r.
	fmt.Fprintf(os.Stdout, "\r%s", display.Pad(status, 80))
}

// clearProgress erases the inline progress line on a TTY.
func clearProgress() {
	fmt.Fprintf(os.Stdout, "\r%s\r", strings.Repeat(" ", 80))
}

// percentile computes the p-th percentile using linear interpolation.
func percentile(sorted []float64, p float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	rank := (p / 100) * float64(len(sorted)-1)
	lo := int(math.Floor(rank))
	hi := int(math.Ceil(rank))
	if lo == hi || hi >= len(sorted) {
		return sorted[lo]
	}
	frac := rank - float64(lo)
	return sorted[lo]*(1-frac) + sorted[hi]*frac
}
