package naming

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/backmassage/titlenorm/internal/script"
)

// Rule names the formatting rule that produced a title.
type Rule string

const (
	RulePassthrough Rule = "passthrough"  // kind has no prefix entry
	RuleVerbatim    Rule = "verbatim"     // prefix + name
	RuleArtBook     Rule = "art-book"     // [author][出版社](YYYYMMDD)title
	RuleComic       Rule = "comic"        // [author]title 第N巻
	RuleAdultComic  Rule = "adult-comic"  // [author][出版社](20YYMMDD)title
	RuleDoujin      Rule = "doujin"       // [author](event)title (series)
	RuleMapping     Rule = "mapping"      // mapping-table pattern + template
	RuleClip        Rule = "clip"         // mapping-table clip group
	RuleDefaultFill Rule = "default-fill" // today's date, needs review
)

// AllRules lists every Rule in precedence order, for reports.
var AllRules = []Rule{
	RulePassthrough, RuleVerbatim, RuleArtBook, RuleComic, RuleAdultComic,
	RuleDoujin, RuleMapping, RuleClip, RuleDefaultFill,
}

const (
	// UnknownEvent is the doujin event placeholder when neither a convention
	// parenthetical nor a date is present.
	UnknownEvent = "イベント不明"

	placeholderAuthor    = "作者"
	placeholderPublisher = "出版社"
)

// --- Named patterns ---

var (
	// Decoration tags carried by distribution sites; never part of a title.
	reDecorationTag = regexp.MustCompile(
		`(?i)\[(?:DL版|Digital|dlsite_ver)\]|\(オリジナル\)|\(PRESTIGE COMIC\)`)

	reBracketBlock = regexp.MustCompile(`\[([^\]]+)\]`)

	// [author] title 第N巻. \p{Zs} admits ideographic spaces around the volume.
	reComicStructure = regexp.MustCompile(
		`^.*?\[(?P<author>[^\]]+)\][\s\p{Zs}]*(?P<title>.*?)(?:[\s\p{Zs}]*第(?P<volume>\p{Nd}+)巻)?[\s\p{Zs}]*$`)

	reEventParen = regexp.MustCompile(`(?i)\(([^)]*(?:サンクリ|例大祭|COMIC|C\d+)[^)]*)\)`)
	reEventDate  = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

	reMonthNumber = regexp.MustCompile(`年(\d{1,2})月`)
	reDashNumber  = regexp.MustCompile(`-(\d{1,2})`)
)

var (
	comicTitleIdx  = reComicStructure.SubexpIndex("title")
	comicVolumeIdx = reComicStructure.SubexpIndex("volume")
)

// StripDecorationTags removes distribution tags such as [DL版] and trims the
// result.
func StripDecorationTags(s string) string {
	return strings.TrimSpace(reDecorationTag.ReplaceAllString(s, ""))
}

// --- Per-kind rules ---

func formatArtBook(p ParsedName, name string, today time.Time) string {
	author := p.Author
	if author == "" {
		author = placeholderAuthor
	}
	return "[" + author + "][" + placeholderPublisher + "](" + today.Format("20060102") + ")" + orName(p.Title, name)
}

// formatAdultComic keeps the literal "20" century prefix in front of YYMMDD.
func formatAdultComic(p ParsedName, name string, today time.Time) string {
	return "[" + p.Author + "][" + placeholderPublisher + "](20" + today.Format("060102") + ")" + orName(p.Title, name)
}

func formatDoujin(p ParsedName, se SeriesEvent, name string) string {
	title := trimSeriesSuffix(orName(p.Title, name), se.SeriesRaw)
	out := "[" + p.Author + "](" + se.Event + ")" + title
	if se.Series != "" {
		out += " (" + se.Series + ")"
	}
	return out
}

// trimSeriesSuffix drops a trailing "(raw)" from title. The parser widens
// punctuation inside titles, so the widened form is tried too.
func trimSeriesSuffix(title, raw string) string {
	if raw == "" {
		return title
	}
	for _, suffix := range []string{"(" + raw + ")", script.ToFullwidth("(" + raw + ")")} {
		if strings.HasSuffix(title, suffix) {
			if trimmed := strings.TrimSpace(strings.TrimSuffix(title, suffix)); trimmed != "" {
				return trimmed
			}
		}
	}
	return title
}

// padMonthNumbers zero-pads "年3月" and "-3" to two digits.
func padMonthNumbers(s string) string {
	s = reMonthNumber.ReplaceAllStringFunc(s, func(m string) string {
		n := reMonthNumber.FindStringSubmatch(m)[1]
		return "年" + pad2(n) + "月"
	})
	return reDashNumber.ReplaceAllStringFunc(s, func(m string) string {
		return "-" + pad2(m[1:])
	})
}

func pad2(digits string) string {
	n, err := strconv.Atoi(digits)
	if err != nil {
		return digits
	}
	return fmt.Sprintf("%02d", n)
}

func orName(title, name string) string {
	if title == "" {
		return name
	}
	return title
}
