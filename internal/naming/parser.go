package naming

import (
	"strings"

	"github.com/backmassage/titlenorm/internal/script"
)

// ParsedName holds the fields pulled out of a bracketed catalog name.
// Author is empty when the name has no [..] block. When the name does not
// have the "[author]title" shape, Title is the input verbatim.
type ParsedName struct {
	Author string
	Title  string
	Volume string
}

// Parser extracts ParsedName values. The zero value folds ASCII words
// without transliterating them; use [DefaultParser] for katakana folding.
type Parser struct {
	Folder script.Folder
}

// DefaultParser folds ASCII authors and titles to katakana.
var DefaultParser = Parser{Folder: script.DefaultFolder}

// Parse extracts author, title and volume from name using [DefaultParser].
func Parse(name string) ParsedName {
	return DefaultParser.Parse(name)
}

// Parse extracts author, title and volume from name.
//
// The author comes from the last bracket block once decoration tags are
// gone; the title and volume come from the raw name. The two can disagree
// when a tag sits between blocks, e.g. "[A][DL版]title".
func (p Parser) Parse(name string) ParsedName {
	var parsed ParsedName
	blocks := reBracketBlock.FindAllStringSubmatch(StripDecorationTags(name), -1)
	if len(blocks) > 0 {
		parsed.Author = p.cleanAuthor(blocks[len(blocks)-1][1])
	}

	m := reComicStructure.FindStringSubmatch(name)
	if m == nil {
		parsed.Title = name
		return parsed
	}
	parsed.Title = p.cleanText(m[comicTitleIdx])
	parsed.Volume = m[comicVolumeIdx]
	return parsed
}

func (p Parser) cleanAuthor(s string) string {
	s = strings.ReplaceAll(s, " ", "")
	return strings.TrimSpace(p.Folder.Fold(s))
}

func (p Parser) cleanText(s string) string {
	s = StripDecorationTags(s)
	if s == "" {
		return ""
	}
	return strings.TrimSpace(p.Folder.Fold(s))
}

// FormatComic renders p as "[author]title 第N巻", omitting empty parts.
func FormatComic(p ParsedName) string {
	var b strings.Builder
	if p.Author != "" {
		b.WriteString("[" + p.Author + "]")
	}
	b.WriteString(p.Title)
	if p.Volume != "" {
		b.WriteString(" 第" + p.Volume + "巻")
	}
	return b.String()
}
