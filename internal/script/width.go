package script

import (
	"regexp"
	"strings"

	"golang.org/x/text/unicode/norm"
)

// dashReplacer maps every dash-like rune we see in catalog exports to "-".
var dashReplacer = strings.NewReplacer(
	"ー", "-", // ー katakana long vowel mark
	"ｰ", "-", // ｰ half-width long vowel mark
	"‐", "-", // ‐ hyphen
	"‑", "-", // ‑ non-breaking hyphen
	"‒", "-", // ‒ figure dash
	"–", "-", // – en dash
	"—", "-", // em dash
	"―", "-", // ― horizontal bar
	"−", "-", // − minus sign
	"－", "-", // － full-width hyphen-minus
)

var reWhitespaceRun = regexp.MustCompile(`\s+`)

// NormalizeWhitespaceForm turns dashes into word boundaries and applies the
// Unicode compatibility fold (NFKC), so full-width letters, digits and
// brackets become their ASCII forms. Runs of whitespace collapse to one space.
func NormalizeWhitespaceForm(s string) string {
	s = dashReplacer.Replace(s)
	s = strings.ReplaceAll(s, "-", " ")
	s = norm.NFKC.String(s)
	s = reWhitespaceRun.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// fullwidthReplacer is the punctuation table applied to every author and
// title fragment. Underscore and the ideographic space become a plain space;
// periods are dropped.
var fullwidthReplacer = strings.NewReplacer(
	"!", "！",
	"#", "＃",
	"$", "＄",
	"%", "％",
	"&", "＆",
	"+", "＋",
	",", "，",
	"-", "－",
	":", "：",
	";", "；",
	"?", "？",
	"/", "／",
	"_", " ",
	"　", " ",
	".", "",
)

// ToFullwidth maps the half-width punctuation characters that are unsafe or
// ugly in file names to their full-width equivalents.
func ToFullwidth(s string) string {
	return fullwidthReplacer.Replace(s)
}
