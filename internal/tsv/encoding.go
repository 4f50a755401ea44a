package tsv

import (
	"bytes"
	"fmt"
	"strings"
	"unicode/utf8"

	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
)

// Encoding names a catalog file character set.
type Encoding string

const (
	EncodingAuto     Encoding = "auto"      // UTF-8, then CP932, then sniffed (read only).
	EncodingUTF8     Encoding = "utf-8"     // UTF-8; a leading BOM is dropped on read.
	EncodingCP932    Encoding = "cp932"     // Windows-31J.
	EncodingShiftJIS Encoding = "shift_jis" // Same codec as CP932; the usual output name.
)

// ParseEncoding accepts the common spellings of the supported encodings.
func ParseEncoding(name string) (Encoding, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "auto", "":
		return EncodingAuto, nil
	case "utf-8", "utf8":
		return EncodingUTF8, nil
	case "cp932", "windows-31j", "ms932":
		return EncodingCP932, nil
	case "shift_jis", "shift-jis", "sjis":
		return EncodingShiftJIS, nil
	default:
		return "", fmt.Errorf("unsupported encoding %q (use auto, utf-8, cp932 or shift_jis)", name)
	}
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// decode converts raw file bytes to UTF-8 text and reports the charset used.
func decode(data []byte, enc Encoding) (string, string, error) {
	switch enc {
	case EncodingUTF8:
		data = bytes.TrimPrefix(data, utf8BOM)
		if !utf8.Valid(data) {
			return "", "", fmt.Errorf("input is not valid UTF-8")
		}
		return string(data), "utf-8", nil
	case EncodingCP932, EncodingShiftJIS:
		text, ok := decodeShiftJIS(data)
		if !ok {
			return "", "", fmt.Errorf("input is not valid %s", enc)
		}
		return text, string(enc), nil
	}

	if trimmed := bytes.TrimPrefix(data, utf8BOM); utf8.Valid(trimmed) {
		return string(trimmed), "utf-8", nil
	}
	if text, ok := decodeShiftJIS(data); ok {
		return text, "cp932", nil
	}

	// Last resort: sniff, and keep whatever decodes.
	e, name, _ := charset.DetermineEncoding(data, "text/plain")
	out, err := e.NewDecoder().Bytes(data)
	if err != nil {
		return "", "", fmt.Errorf("decode as %s: %w", name, err)
	}
	return string(out), name, nil
}

// decodeShiftJIS decodes strictly: the x/text decoder substitutes U+FFFD
// for bad sequences, so any replacement rune means the input was not CP932.
func decodeShiftJIS(data []byte) (string, bool) {
	out, err := japanese.ShiftJIS.NewDecoder().Bytes(data)
	if err != nil || bytes.ContainsRune(out, utf8.RuneError) {
		return "", false
	}
	return string(out), true
}

// encoder returns a transformer from UTF-8 to enc. Runes the target charset
// cannot represent are dropped.
func encoder(enc Encoding) (transform.Transformer, error) {
	switch enc {
	case EncodingUTF8:
		return transform.Nop, nil
	case EncodingShiftJIS, EncodingCP932:
		return transform.Chain(runes.Remove(unencodable(japanese.ShiftJIS)), japanese.ShiftJIS.NewEncoder()), nil
	default:
		return nil, fmt.Errorf("unsupported output encoding %q", enc)
	}
}

// unencodable matches runes e cannot encode. ASCII is always encodable.
func unencodable(e encoding.Encoding) runes.Set {
	enc := e.NewEncoder()
	return runes.Predicate(func(r rune) bool {
		if r < utf8.RuneSelf {
			return false
		}
		_, err := enc.String(string(r))
		return err != nil
	})
}

// Encodable reports whether every rune of s survives encoding to enc.
func Encodable(enc Encoding, s string) bool {
	switch enc {
	case EncodingShiftJIS, EncodingCP932:
		_, err := japanese.ShiftJIS.NewEncoder().String(s)
		return err == nil
	default:
		return true
	}
}
