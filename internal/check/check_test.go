package check

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/backmassage/titlenorm/internal/config"
)

// recordingLogger captures messages by level.
type recordingLogger struct {
	lines map[string][]string
}

func newRecordingLogger() *recordingLogger {
	return &recordingLogger{lines: make(map[string][]string)}
}

func (r *recordingLogger) add(level, format string, args ...interface{}) {
	r.lines[level] = append(r.lines[level], fmt.Sprintf(format, args...))
}

func (r *recordingLogger) Info(f string, a ...interface{})    { r.add("info", f, a...) }
func (r *recordingLogger) Success(f string, a ...interface{}) { r.add("success", f, a...) }
func (r *recordingLogger) Warn(f string, a ...interface{})    { r.add("warn", f, a...) }
func (r *recordingLogger) Error(f string, a ...interface{})   { r.add("error", f, a...) }
func (r *recordingLogger) Debug(v bool, f string, a ...interface{}) {
	if v {
		r.add("debug", f, a...)
	}
}

func (r *recordingLogger) joined(level string) string {
	return strings.Join(r.lines[level], "\n")
}

func TestRunCheck_Default(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.CheckOnly = true
	log := newRecordingLogger()

	assert.True(t, RunCheck(&cfg, log))
	assert.Contains(t, log.joined("success"), "Mapping table: built-in")
	assert.Empty(t, log.lines["error"])
}

func TestRunCheck_LintAndEncodingWarnings(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mapping.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
prefixes:
  同人: "[同人😀]"
patterns:
  雑誌:
    - pattern: '(\d{4})'
      template: '{0}-{1}'
`), 0o644))

	cfg := config.DefaultConfig()
	cfg.MappingFile = path
	log := newRecordingLogger()

	assert.True(t, RunCheck(&cfg, log))
	warns := log.joined("warn")
	assert.Contains(t, warns, "雑誌")
	assert.Contains(t, warns, "[同人😀]")
}

func TestRunCheck_Catalogs(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ok.tsv"), []byte("種別\t名称\nコミック\t[a]b\n"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "bad.tsv"), []byte("種別\n"), 0o644))

	cfg := config.DefaultConfig()
	cfg.InputPath = dir
	log := newRecordingLogger()

	assert.False(t, RunCheck(&cfg, log))
	assert.Contains(t, log.joined("error"), "bad.tsv")
	assert.Contains(t, log.joined("success"), "ok.tsv: 1 rows (utf-8)")
}

func TestRunCheck_BadMapping(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.MappingFile = filepath.Join(t.TempDir(), "missing.yaml")
	log := newRecordingLogger()

	assert.False(t, RunCheck(&cfg, log))
	assert.NotEmpty(t, log.lines["error"])
}

func TestCheckInputs(t *testing.T) {
	dir := t.TempDir()

	cfg := config.DefaultConfig()
	cfg.InputPath = filepath.Join(dir, "missing")
	assert.ErrorIs(t, CheckInputs(&cfg), ErrInputNotFound)

	cfg.InputPath = dir
	assert.NoError(t, CheckInputs(&cfg))

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("prefixes: ["), 0o644))
	cfg.MappingFile = bad
	assert.ErrorIs(t, CheckInputs(&cfg), ErrMappingInvalid)
}
