package pipeline

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/encoding/japanese"

	"github.com/backmassage/titlenorm/internal/config"
	"github.com/backmassage/titlenorm/internal/logging"
	"github.com/backmassage/titlenorm/internal/mapping"
	"github.com/backmassage/titlenorm/internal/naming"
	"github.com/backmassage/titlenorm/internal/tsv"
)

// --- Discover tests ---

func TestDiscover_FiltersExtensions(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "catalog.tsv")
	touch(t, dir, "export.TXT")
	touch(t, dir, "notes.md")
	touch(t, dir, "sheet.xlsx")

	files, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, []string{"catalog.tsv", "export.TXT"}, basenames(files))
}

func TestDiscover_PrunesHiddenAndSorts(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".cache"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "b"), 0o755))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "a"), 0o755))
	touch(t, filepath.Join(dir, ".cache"), "old.tsv")
	touch(t, filepath.Join(dir, "b"), "1.tsv")
	touch(t, filepath.Join(dir, "a"), "2.tsv")

	files, err := Discover(dir)
	require.NoError(t, err)
	want := []string{filepath.Join(dir, "a", "2.tsv"), filepath.Join(dir, "b", "1.tsv")}
	assert.Equal(t, want, files)
}

func TestDiscover_SingleFile(t *testing.T) {
	dir := t.TempDir()
	touch(t, dir, "catalog.csv")
	path := filepath.Join(dir, "catalog.csv")

	files, err := Discover(path)
	require.NoError(t, err)
	assert.Equal(t, []string{path}, files)
}

func TestDiscover_Missing(t *testing.T) {
	_, err := Discover(filepath.Join(t.TempDir(), "nope"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestOutputPathFor(t *testing.T) {
	outDir := t.TempDir()

	assert.Equal(t, filepath.Join("/out", "sub", "a.tsv"),
		OutputPathFor("/in", "/out", filepath.Join("/in", "sub", "a.tsv"), true))
	assert.Equal(t, "/out/result.tsv",
		OutputPathFor("/in/a.tsv", "/out/result.tsv", "/in/a.tsv", false))
	assert.Equal(t, filepath.Join(outDir, "a.tsv"),
		OutputPathFor("/in/a.tsv", outDir, "/in/a.tsv", false))
}

// --- Row formatting ---

func TestFormatRows_ParallelMatchesSequential(t *testing.T) {
	cfg := testConfig(t)
	f := NewFormatter(&cfg, mapping.Default())

	var rows []naming.Row
	kinds := []string{"コミック", "同人", "成年雑誌", "画集", "DVD"}
	for i := 0; i < 200; i++ {
		rows = append(rows, naming.Row{
			Kind: kinds[i%len(kinds)],
			Name: fmt.Sprintf("(C%d) [作者%d] タイトル%d 2024年%d月号 (シリーズ%d)", 100+i%5, i, i, i%12+1, i%7),
		})
	}

	seqUnknown, parUnknown := naming.NewUnknownSeriesSet(), naming.NewUnknownSeriesSet()
	seq, err := formatRows(context.Background(), f, rows, 1, seqUnknown)
	require.NoError(t, err)
	par, err := formatRows(context.Background(), f, rows, 8, parUnknown)
	require.NoError(t, err)

	if diff := cmp.Diff(seq, par); diff != "" {
		t.Errorf("parallel output differs (-seq +par):\n%s", diff)
	}
	assert.Equal(t, seqUnknown.Drain(), parUnknown.Drain())
}

func TestFormatRows_Cancelled(t *testing.T) {
	cfg := testConfig(t)
	f := NewFormatter(&cfg, mapping.Default())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	rows := []naming.Row{{Kind: "コミック", Name: "[作者]本"}}
	for _, jobs := range []int{1, 4} {
		_, err := formatRows(ctx, f, rows, jobs, nil)
		assert.ErrorIs(t, err, context.Canceled, "jobs=%d", jobs)
	}
}

// --- RunStats tests ---

func TestRunStats(t *testing.T) {
	var s RunStats
	for _, r := range []naming.Rule{naming.RuleComic, naming.RuleDefaultFill, naming.RulePassthrough, naming.RuleDoujin} {
		s.addRule(r)
	}
	assert.Equal(t, 4, s.Rows)
	assert.Equal(t, 1, s.DefaultFilled())
	assert.Equal(t, 1, s.Passthrough())
	assert.Equal(t, 2, s.Formatted())
}

// --- End-to-end ---

const catalogUTF8 = "種別\t名称\t備考\n" +
	"コミック\t[作者A][DL版]すごい漫画第2巻\tx\n" +
	"同人\t(C105) [サークル (作者)] タイトル (SeriesX)\t\n" +
	"画集\tなにか\t\n" +
	"DVD\tそのまま\t\n"

const catalogCP932 = "種別\t名称\n" +
	"成年雑誌\tコミックテスト 2024年3月号\n" +
	"同人\t(例大祭20) [サークル] 本 (東方Project)\n"

func writeInputs(t *testing.T) string {
	t.Helper()
	in := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(in, "a.tsv"), []byte(catalogUTF8), 0o644))

	sjis, err := japanese.ShiftJIS.NewEncoder().Bytes([]byte(catalogCP932))
	require.NoError(t, err)
	require.NoError(t, os.MkdirAll(filepath.Join(in, "sub"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(in, "sub", "b.txt"), sjis, 0o644))

	require.NoError(t, os.WriteFile(filepath.Join(in, "c.tsv"), []byte("タイトル\n本\n"), 0o644))
	return in
}

func TestRun(t *testing.T) {
	cfg := testConfig(t)
	cfg.InputPath = writeInputs(t)
	cfg.OutputPath = t.TempDir()
	log := testLogger(t, &cfg)

	stats := Run(context.Background(), &cfg, log)

	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Converted)
	assert.Equal(t, 1, stats.Failed, "c.tsv lacks the name column")
	assert.Equal(t, 6, stats.Rows)
	assert.Equal(t, 1, stats.DefaultFilled())
	assert.Equal(t, 1, stats.Passthrough())
	assert.Equal(t, []string{"SeriesX"}, stats.UnknownSeries)

	a, err := tsv.ReadFile(filepath.Join(cfg.OutputPath, "a.tsv"), tsv.EncodingAuto)
	require.NoError(t, err)
	assert.Equal(t, "cp932", a.Charset)
	assert.Equal(t, []string{"種別", "名称", "備考", "変換後", "出力日時"}, a.Header)
	want := [][]string{
		{"コミック", "[作者A][DL版]すごい漫画第2巻", "x", "[作者A]すごい漫画 第2巻", "2025-06-18 00:00:00"},
		{"同人", "(C105) [サークル (作者)] タイトル (SeriesX)", "", "[サークル(作者)](C105)タイトル (SeriesX)", "2025-06-18 00:00:00"},
		{"画集", "なにか", "", "20250618", "2025-06-18 00:00:00"},
		{"DVD", "そのまま", "", "そのまま", "2025-06-18 00:00:00"},
	}
	if diff := cmp.Diff(want, a.Rows); diff != "" {
		t.Errorf("a.tsv rows mismatch (-want +got):\n%s", diff)
	}

	b, err := tsv.ReadFile(filepath.Join(cfg.OutputPath, "sub", "b.txt"), tsv.EncodingAuto)
	require.NoError(t, err)
	col := b.Index("変換後")
	require.GreaterOrEqual(t, col, 0)
	assert.Equal(t, "[コミックテスト]2024年03月号", b.Cell(0, col))
	assert.Equal(t, "[サークル](例大祭20)本 (東方)", b.Cell(1, col))

	assert.NoFileExists(t, filepath.Join(cfg.OutputPath, "c.tsv"))
}

func TestRun_SkipExistingAndForce(t *testing.T) {
	cfg := testConfig(t)
	cfg.InputPath = writeInputs(t)
	cfg.OutputPath = t.TempDir()
	log := testLogger(t, &cfg)

	Run(context.Background(), &cfg, log)
	again := Run(context.Background(), &cfg, log)
	assert.Equal(t, 2, again.Skipped)
	assert.Equal(t, 0, again.Converted)

	cfg.SkipExisting = false
	forced := Run(context.Background(), &cfg, log)
	assert.Equal(t, 2, forced.Converted)
}

func TestRun_DryRunWritesNothing(t *testing.T) {
	cfg := testConfig(t)
	cfg.InputPath = writeInputs(t)
	cfg.OutputPath = t.TempDir()
	cfg.DryRun = true
	log := testLogger(t, &cfg)

	stats := Run(context.Background(), &cfg, log)
	assert.Equal(t, 2, stats.Converted)

	entries, err := os.ReadDir(cfg.OutputPath)
	require.NoError(t, err)
	assert.Empty(t, entries)
}

func TestRun_SingleFileUTF8Output(t *testing.T) {
	in := filepath.Join(t.TempDir(), "catalog.tsv")
	require.NoError(t, os.WriteFile(in, []byte(catalogUTF8), 0o644))

	cfg := testConfig(t)
	cfg.InputPath = in
	cfg.OutputPath = filepath.Join(t.TempDir(), "nested", "result.tsv")
	cfg.OutputEncoding = tsv.EncodingUTF8
	cfg.Jobs = 4
	log := testLogger(t, &cfg)

	stats := Run(context.Background(), &cfg, log)
	require.Equal(t, 1, stats.Converted)

	out, err := tsv.ReadFile(cfg.OutputPath, tsv.EncodingUTF8)
	require.NoError(t, err)
	assert.Equal(t, "[作者A]すごい漫画 第2巻", out.Cell(0, out.Index("変換後")))
}

func TestRun_BadMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	require.NoError(t, os.WriteFile(path, []byte("version: \"9\"\n"), 0o644))

	cfg := testConfig(t)
	cfg.InputPath = writeInputs(t)
	cfg.OutputPath = t.TempDir()
	cfg.MappingFile = path
	log := testLogger(t, &cfg)

	stats := Run(context.Background(), &cfg, log)
	assert.Equal(t, 1, stats.Failed)
	assert.Zero(t, stats.Total)
}

func TestRun_CustomMapping(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
prefixes:
  画集: "[画集]"
clips:
  画集:
    pattern: '^(.+)$'
    group: 1
`), 0o644))

	cfg := testConfig(t)
	cfg.InputPath = writeInputs(t)
	cfg.OutputPath = t.TempDir()
	cfg.MappingFile = path
	log := testLogger(t, &cfg)

	stats := Run(context.Background(), &cfg, log)
	assert.Zero(t, stats.DefaultFilled())
	assert.Equal(t, 5, stats.Passthrough(), "kinds outside the custom table pass through")
}

// --- Analyze ---

func TestAnalyze(t *testing.T) {
	cfg := testConfig(t)
	cfg.InputPath = writeInputs(t)
	log := testLogger(t, &cfg)

	stats := Analyze(context.Background(), &cfg, log)
	assert.Equal(t, 3, stats.Total)
	assert.Equal(t, 2, stats.Converted)
	assert.Equal(t, 1, stats.Failed)
	assert.Equal(t, 6, stats.Rows)
	assert.Equal(t, []string{"SeriesX"}, stats.UnknownSeries)
}

func TestComputeStats(t *testing.T) {
	assert.False(t, computeStats([]float64{1, 2, 3}).valid, "fewer than four values")

	b := computeStats([]float64{0, 5, 5, 10, 10, 10, 15, 90})
	require.True(t, b.valid)
	assert.Equal(t, "", b.classify(10))
	assert.Equal(t, "", b.classify(0))
	assert.Equal(t, "extreme", b.classify(90))
}

func TestPercentile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40}
	assert.InDelta(t, 10, percentile(sorted, 0), 1e-9)
	assert.InDelta(t, 25, percentile(sorted, 50), 1e-9)
	assert.InDelta(t, 40, percentile(sorted, 100), 1e-9)
	assert.Zero(t, percentile(nil, 50))
}

// --- Helpers ---

func testConfig(t *testing.T) config.Config {
	t.Helper()
	cfg := config.DefaultConfig()
	cfg.Date = "2025-06-18"
	cfg.ColorMode = config.ColorNever
	return cfg
}

func testLogger(t *testing.T, cfg *config.Config) *logging.Logger {
	t.Helper()
	log, err := logging.NewLogger(cfg)
	require.NoError(t, err)
	log.SetOutput(io.Discard, io.Discard)
	t.Cleanup(func() { _ = log.Close() })
	return log
}

func touch(t *testing.T, dir, name string) {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, []byte{}, 0o644); err != nil {
		t.Fatalf("touch %s: %v", path, err)
	}
}

func basenames(paths []string) []string {
	out := make([]string, len(paths))
	for i, p := range paths {
		out[i] = filepath.Base(p)
	}
	return out
}
