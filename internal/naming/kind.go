package naming

import (
	"strings"

	"golang.org/x/text/width"
)

// Kind is the catalog category that selects a formatting rule.
type Kind int

const (
	KindUnknown Kind = iota // Any label not listed below; mapping-table only.
	KindOther
	KindNovel
	KindArtBook
	KindComic
	KindAdultComic
	KindDoujin
	KindMagazine
	KindAdultMagazine
)

// kindLabels maps catalog labels to kinds. Several labels share a kind.
var kindLabels = map[string]Kind{
	"その他":      KindOther,
	"小説":       KindNovel,
	"美術":       KindArtBook,
	"コミック":     KindComic,
	"CG":       KindComic,
	"成年":       KindAdultComic,
	"成年コミック":   KindAdultComic,
	"電子成年コミック": KindAdultComic,
	"同人":       KindDoujin,
	"電子同人":     KindDoujin,
	"雑誌":       KindMagazine,
	"成年雑誌":     KindAdultMagazine,
}

var kindNames = [...]string{
	KindUnknown:       "unknown",
	KindOther:         "other",
	KindNovel:         "novel",
	KindArtBook:       "art-book",
	KindComic:         "comic",
	KindAdultComic:    "adult-comic",
	KindDoujin:        "doujin",
	KindMagazine:      "magazine",
	KindAdultMagazine: "adult-magazine",
}

func (k Kind) String() string {
	if k < 0 || int(k) >= len(kindNames) {
		return "unknown"
	}
	return kindNames[k]
}

// CanonicalKind trims a raw label and folds character widths, so "ＣＧ" and
// half-width katakana labels match the table keys.
func CanonicalKind(label string) string {
	return width.Fold.String(strings.TrimSpace(label))
}

// ParseKind maps a catalog label to its Kind.
func ParseKind(label string) Kind {
	return kindLabels[CanonicalKind(label)]
}
