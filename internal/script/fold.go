package script

import (
	"regexp"
	"strings"
)

var reASCIIWord = regexp.MustCompile(`^[A-Za-z0-9 _\-]+$`)

// IsASCIIWord reports whether s consists only of ASCII letters, digits,
// spaces, underscores and hyphens. The empty string is not a word.
func IsASCIIWord(s string) bool {
	return reASCIIWord.MatchString(s)
}

// Folder carries the script-folding settings. The zero value leaves ASCII
// spelling alone after lower-casing (the degraded mode used when katakana
// transliteration is switched off).
type Folder struct {
	Kana bool
}

// DefaultFolder transliterates ASCII words into katakana.
var DefaultFolder = Folder{Kana: true}

// Word lower-cases and transliterates s when it is a pure ASCII word and
// returns it unchanged otherwise. No punctuation table is applied.
func (f Folder) Word(s string) string {
	if !IsASCIIWord(s) {
		return s
	}
	s = strings.ToLower(s)
	if f.Kana {
		s = ToKatakana(s)
	}
	return s
}

// Fold applies Word and then the full-width punctuation table.
func (f Folder) Fold(s string) string {
	return ToFullwidth(f.Word(s))
}

// FoldScript is DefaultFolder.Fold.
func FoldScript(s string) string {
	return DefaultFolder.Fold(s)
}
