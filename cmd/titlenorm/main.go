// Command titlenorm is the CLI entrypoint for the catalog title normalizer.
//
// It parses flags, validates configuration and paths, and either runs
// diagnostics (--check), the analysis report (--analyze) or the
// normalization pipeline.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/backmassage/titlenorm/internal/check"
	"github.com/backmassage/titlenorm/internal/config"
	"github.com/backmassage/titlenorm/internal/display"
	"github.com/backmassage/titlenorm/internal/logging"
	"github.com/backmassage/titlenorm/internal/pipeline"
)

// commit is injected at build time via -ldflags.
var commit = "unknown"

func main() {
	os.Exit(run())
}

func run() int {
	// Phase 1: Bootstrap. The logger doesn't exist yet, so errors go
	// directly to stderr via fmt.
	cfg := config.DefaultConfig()
	if err := config.ParseFlags(&cfg, os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "titlenorm: %v\n", err)
		return 1
	}

	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "titlenorm: %v\n", err)
		return 1
	}

	log, err := logging.NewLogger(&cfg)
	if err != nil {
		fmt.Fprintf(os.Stderr, "titlenorm: %v\n", err)
		return 1
	}
	defer log.Close()

	// Phase 2: Logger available.
	display.PrintBanner(os.Stdout)

	if cfg.CheckOnly {
		if !check.RunCheck(&cfg, log) {
			return 1
		}
		return 0
	}

	// Input must exist and the output must not live inside it, otherwise a
	// second run would pick up its own results.
	if err := check.CheckInputs(&cfg); err != nil {
		log.Error("%v", err)
		return 1
	}
	inputAbs, err := absPath(cfg.InputPath)
	if err != nil {
		log.Error("Input not found: %s", cfg.InputPath)
		return 1
	}
	outputAbs, err := absPath(cfg.OutputPath)
	if err != nil {
		log.Error("Cannot resolve output path: %s", cfg.OutputPath)
		return 1
	}
	if err := cfg.ValidatePaths(inputAbs, outputAbs); err != nil {
		log.Error("%v", err)
		log.Error("Choose an output path outside: %s", cfg.InputPath)
		return 1
	}

	log.Info("=== titlenorm v%s (%s) ===", config.Version, commit)
	log.Info("In:  %s", cfg.InputPath)
	log.Info("Out: %s", cfg.OutputPath)
	if cfg.DryRun {
		log.Warn("DRY RUN: no files will be written")
	}
	log.Info("")

	// Phase 3: Signal handling. Cancel on SIGINT/SIGTERM so the pipeline
	// stops between files instead of leaving a half-written catalog.
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigCh
		log.Warn("Received interrupt, finishing current file…")
		cancel()
	}()

	// Phase 4: Run.
	var stats pipeline.RunStats
	if cfg.AnalyzeOnly {
		stats = pipeline.Analyze(ctx, &cfg, log)
	} else {
		stats = pipeline.Run(ctx, &cfg, log)
	}

	if stats.Failed > 0 || ctx.Err() != nil {
		return 1
	}
	return 0
}

// absPath returns the absolute, symlink-resolved path for comparing input
// and output. Missing trailing components are kept as-is so an output that
// does not exist yet still resolves.
func absPath(path string) (string, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", err
	}
	resolved, err := filepath.EvalSymlinks(abs)
	if err == nil {
		return resolved, nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", err
	}
	parent := filepath.Dir(abs)
	if parent == abs {
		return abs, nil
	}
	base, err := absPath(parent)
	if err != nil {
		return "", err
	}
	return filepath.Join(base, filepath.Base(abs)), nil
}
