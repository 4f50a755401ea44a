// Package check provides the --check diagnostics: it validates the mapping
// table and, when an input path is given, that each catalog file can be
// read and carries the required columns.
package check

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/backmassage/titlenorm/internal/config"
	"github.com/backmassage/titlenorm/internal/mapping"
	"github.com/backmassage/titlenorm/internal/pipeline"
	"github.com/backmassage/titlenorm/internal/tsv"
)

// Sentinel errors returned by CheckInputs.
var (
	ErrInputNotFound  = errors.New("input path not found")
	ErrMappingInvalid = errors.New("mapping table invalid")
)

// Logger is the minimal logging interface needed by RunCheck.
// Defined here (rather than importing the logging package) so that check
// remains dependency-light and testable with a mock logger.
type Logger interface {
	Info(string, ...interface{})
	Success(string, ...interface{})
	Warn(string, ...interface{})
	Error(string, ...interface{})
	Debug(bool, string, ...interface{})
}

// RunCheck runs the interactive --check flow and reports whether every
// check passed. Lint warnings are reported but do not fail the check.
func RunCheck(cfg *config.Config, log Logger) bool {
	log.Info("=== Configuration Check ===")

	table, ok := checkMapping(cfg, log)
	if ok {
		checkLiterals(cfg, table, log)
	}
	if cfg.InputPath != "" {
		if !checkCatalogs(cfg, log) {
			ok = false
		}
	}
	return ok
}

// checkMapping loads and lints the mapping table.
func checkMapping(cfg *config.Config, log Logger) (*mapping.Table, bool) {
	source := "built-in"
	if cfg.MappingFile != "" {
		source = cfg.MappingFile
	}
	table, err := pipeline.LoadTable(cfg)
	if err != nil {
		log.Error("Mapping table (%s): %v", source, err)
		return nil, false
	}
	log.Success("Mapping table: %s (%d kinds, %d series abbreviations)",
		source, len(table.Kinds()), table.SeriesCount())
	for _, k := range table.Kinds() {
		prefix, ok := table.Prefix(k)
		_, clip := table.Clip(k)
		log.Debug(cfg.Verbose, "  %s: prefix=%q configured=%t patterns=%d clip=%t",
			k, prefix, ok, len(table.Patterns(k)), clip)
	}
	for _, w := range table.Lint() {
		log.Warn("  %s", w)
	}
	return table, true
}

// checkLiterals warns about configured text the output encoding would drop.
func checkLiterals(cfg *config.Config, table *mapping.Table, log Logger) {
	for _, lit := range table.Literals() {
		if !tsv.Encodable(cfg.OutputEncoding, lit) {
			log.Warn("  %q cannot be written as %s; unsupported characters will be dropped", lit, cfg.OutputEncoding)
		}
	}
}

// checkCatalogs reads every catalog under cfg.InputPath.
func checkCatalogs(cfg *config.Config, log Logger) bool {
	files, err := pipeline.Discover(cfg.InputPath)
	if err != nil {
		log.Error("Input: %v", err)
		return false
	}
	if len(files) == 0 {
		log.Warn("No catalog files found in %s", cfg.InputPath)
		return true
	}
	ok := true
	for _, path := range files {
		tbl, err := tsv.ReadFile(path, cfg.InputEncoding)
		if err != nil {
			log.Error("%s: %v", filepath.Base(path), err)
			ok = false
			continue
		}
		if err := tbl.Require(cfg.KindColumn, cfg.NameColumn); err != nil {
			log.Error("%s: %v", filepath.Base(path), err)
			ok = false
			continue
		}
		log.Success("%s: %d rows (%s)", filepath.Base(path), len(tbl.Rows), tbl.Charset)
	}
	return ok
}

// CheckInputs is the pre-pipeline validation: the input path must exist
// and the mapping table must load. Returns a sentinel error on failure.
func CheckInputs(cfg *config.Config) error {
	if _, err := os.Stat(cfg.InputPath); err != nil {
		return fmt.Errorf("%w: %s", ErrInputNotFound, cfg.InputPath)
	}
	if _, err := pipeline.LoadTable(cfg); err != nil {
		return fmt.Errorf("%w: %v", ErrMappingInvalid, err)
	}
	return nil
}
