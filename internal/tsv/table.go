// Package tsv reads and writes tab-separated catalog files.
//
// Input files come from spreadsheet exports and may be UTF-8 or CP932;
// [ReadFile] detects which. Output is written atomically in the configured
// encoding, Shift_JIS by default.
package tsv

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/google/renameio/v2"
	"golang.org/x/text/transform"
)

// ErrMissingColumns is returned by [Table.Require] when a header is absent.
var ErrMissingColumns = errors.New("missing required columns")

// Table is a header row plus data rows. Rows may be shorter or longer than
// the header.
type Table struct {
	Header  []string
	Rows    [][]string
	Charset string // charset the input was decoded from
}

// ReadFile reads and decodes the file at path.
func ReadFile(path string, enc Encoding) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	t, err := Parse(data, enc)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Parse decodes data and splits it into header and rows.
func Parse(data []byte, enc Encoding) (*Table, error) {
	text, name, err := decode(data, enc)
	if err != nil {
		return nil, err
	}

	r := csv.NewReader(strings.NewReader(text))
	r.Comma = '\t'
	r.LazyQuotes = true
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse tsv: %w", err)
	}

	t := &Table{Charset: name}
	if len(records) == 0 {
		return t, nil
	}
	t.Header = records[0]
	for i, h := range t.Header {
		t.Header[i] = strings.TrimSpace(h)
	}
	t.Rows = records[1:]
	return t, nil
}

// Index returns the position of the first column called name, or -1.
func (t *Table) Index(name string) int {
	for i, h := range t.Header {
		if h == name {
			return i
		}
	}
	return -1
}

// Require checks that every named column is present.
func (t *Table) Require(names ...string) error {
	var missing []string
	for _, n := range names {
		if t.Index(n) < 0 {
			missing = append(missing, n)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("%w: %s", ErrMissingColumns, strings.Join(missing, ", "))
	}
	return nil
}

// Cell returns row[col], or "" when the row is too short.
func (t *Table) Cell(row, col int) string {
	r := t.Rows[row]
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// SetColumn overwrites the column called name, appending it when absent.
// values must have one entry per row.
func (t *Table) SetColumn(name string, values []string) {
	col := t.Index(name)
	if col < 0 {
		col = len(t.Header)
		t.Header = append(t.Header, name)
	}
	for i := range t.Rows {
		for len(t.Rows[i]) <= col {
			t.Rows[i] = append(t.Rows[i], "")
		}
		t.Rows[i][col] = values[i]
	}
}

// Write encodes t to w.
func Write(w io.Writer, t *Table, enc Encoding) error {
	tr, err := encoder(enc)
	if err != nil {
		return err
	}
	tw := transform.NewWriter(w, tr)

	cw := csv.NewWriter(tw)
	cw.Comma = '\t'
	if err := cw.Write(t.Header); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return tw.Close()
}

// WriteFile writes t to path, replacing any existing file atomically.
func WriteFile(path string, t *Table, enc Encoding) error {
	var buf bytes.Buffer
	if err := Write(&buf, t, enc); err != nil {
		return fmt.Errorf("encode %s: %w", path, err)
	}

	pending, err := renameio.NewPendingFile(path, renameio.WithPermissions(0o644))
	if err != nil {
		return fmt.Errorf("create pending file: %w", err)
	}
	defer func() { _ = pending.Cleanup() }()

	if _, err := pending.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := pending.CloseAtomicallyReplace(); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
