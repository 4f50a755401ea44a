package pipeline

import (
	"context"
	"fmt"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/backmassage/titlenorm/internal/config"
	"github.com/backmassage/titlenorm/internal/mapping"
	"github.com/backmassage/titlenorm/internal/naming"
	"github.com/backmassage/titlenorm/internal/tsv"
)

// LoadTable returns the mapping table named by cfg.MappingFile, or the
// embedded default when none is set.
func LoadTable(cfg *config.Config) (*mapping.Table, error) {
	if cfg.MappingFile == "" {
		return mapping.Default(), nil
	}
	t, err := mapping.LoadFile(cfg.MappingFile)
	if err != nil {
		return nil, fmt.Errorf("load mapping table: %w", err)
	}
	return t, nil
}

// NewFormatter builds the title formatter described by cfg.
func NewFormatter(cfg *config.Config, table *mapping.Table) *naming.Formatter {
	return naming.NewFormatter(table,
		naming.WithClock(cfg.Clock()),
		naming.WithKana(cfg.Kana),
		naming.WithNameNormalization(cfg.NormalizeNames),
	)
}

// extractRows pulls trimmed (kind, name) pairs out of tbl. The caller has
// already checked that both columns exist.
func extractRows(tbl *tsv.Table, kindCol, nameCol string) []naming.Row {
	ki, ni := tbl.Index(kindCol), tbl.Index(nameCol)
	rows := make([]naming.Row, len(tbl.Rows))
	for i := range tbl.Rows {
		rows[i] = naming.Row{
			Kind: strings.TrimSpace(tbl.Cell(i, ki)),
			Name: strings.TrimSpace(tbl.Cell(i, ni)),
		}
	}
	return rows
}

// formatRows normalizes rows in order. With jobs > 1 rows are formatted by
// a bounded errgroup; results are stored by index so output order matches
// input order either way.
func formatRows(ctx context.Context, f *naming.Formatter, rows []naming.Row, jobs int, unknown *naming.UnknownSeriesSet) ([]naming.NormalizedRow, error) {
	out := make([]naming.NormalizedRow, len(rows))
	if jobs <= 1 {
		for i, row := range rows {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out[i] = f.Normalize(row, unknown)
		}
		return out, nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(jobs)
	for i, row := range rows {
		i, row := i, row // per-iteration copies (Go 1.21 loop semantics)
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			out[i] = f.Normalize(row, unknown)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return out, nil
}
