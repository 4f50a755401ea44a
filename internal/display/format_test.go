package display

import (
	"bytes"
	"strings"
	"testing"
)

func TestFormatBytes(t *testing.T) {
	tests := []struct {
		name  string
		bytes int64
		want  string
	}{
		{"zero", 0, "0 B"},
		{"small bytes", 512, "512 B"},
		{"exactly 1 KiB", 1024, "1.0 KiB"},
		{"1.5 KiB", 1536, "1.5 KiB"},
		{"1 MiB", 1024 * 1024, "1.0 MiB"},
		{"1 GiB", 1024 * 1024 * 1024, "1.0 GiB"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatBytes(tt.bytes)
			if got != tt.want {
				t.Errorf("FormatBytes(%d) = %q, want %q", tt.bytes, got, tt.want)
			}
		})
	}
}

func TestFormatRatio(t *testing.T) {
	tests := []struct {
		name        string
		part, total int
		want        string
	}{
		{"none", 0, 10, "0.0%"},
		{"eighth", 1, 8, "12.5%"},
		{"all", 3, 3, "100.0%"},
		{"empty total", 0, 0, "n/a"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatRatio(tt.part, tt.total)
			if got != tt.want {
				t.Errorf("FormatRatio(%d, %d) = %q, want %q", tt.part, tt.total, got, tt.want)
			}
		})
	}
}

func TestWidthPadTruncate(t *testing.T) {
	tests := []struct {
		in        string
		wantWidth int
	}{
		{"abc", 3},
		{"漫画", 4},
		{"ｱｲ", 2},
		{"ＡＢ", 4},
		{"[作者]a", 7},
	}
	for _, tt := range tests {
		if got := Width(tt.in); got != tt.wantWidth {
			t.Errorf("Width(%q) = %d, want %d", tt.in, got, tt.wantWidth)
		}
	}

	if got := Pad("漫画", 6); got != "漫画  " {
		t.Errorf("Pad = %q", got)
	}
	if got := Pad("long", 2); got != "long" {
		t.Errorf("Pad should not shorten, got %q", got)
	}
	if got := Truncate("すごい漫画です", 7); got != "すごい…" {
		t.Errorf("Truncate = %q", got)
	}
	if got := Truncate("short", 10); got != "short" {
		t.Errorf("Truncate = %q", got)
	}
}

func TestPrintBanner(t *testing.T) {
	var buf bytes.Buffer
	PrintBanner(&buf)
	if !strings.Contains(buf.String(), "|_|") {
		t.Errorf("banner missing art: %q", buf.String())
	}
}
