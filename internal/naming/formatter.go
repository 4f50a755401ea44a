package naming

import (
	"sync"
	"time"

	"github.com/backmassage/titlenorm/internal/mapping"
	"github.com/backmassage/titlenorm/internal/script"
)

// Row is one catalog entry.
type Row struct {
	Kind string
	Name string
}

// NormalizedRow is a Row with its formatted title.
type NormalizedRow struct {
	Kind      string
	Name      string
	Title     string
	Rule      Rule
	EmittedAt time.Time
}

// Formatter applies the per-kind rules and the mapping-table fallback. It
// is safe for concurrent use once built.
type Formatter struct {
	table          *mapping.Table
	parser         Parser
	now            func() time.Time
	normalizeNames bool
}

// Option configures a Formatter.
type Option func(*Formatter)

// WithClock sets the source of "today" for dated rules and default-fill.
func WithClock(now func() time.Time) Option {
	return func(f *Formatter) { f.now = now }
}

// WithKana toggles romaji to katakana folding of ASCII authors and titles.
func WithKana(on bool) Option {
	return func(f *Formatter) { f.parser.Folder.Kana = on }
}

// WithNameNormalization runs script.NormalizeWhitespaceForm on names before
// dispatch. Passthrough rows still return the name untouched.
func WithNameNormalization(on bool) Option {
	return func(f *Formatter) { f.normalizeNames = on }
}

// NewFormatter builds a Formatter over table. A nil table means
// mapping.Default().
func NewFormatter(table *mapping.Table, opts ...Option) *Formatter {
	if table == nil {
		table = mapping.Default()
	}
	f := &Formatter{
		table:  table,
		parser: DefaultParser,
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// FormatTitle formats one row with the embedded mapping table and the wall
// clock. Unknown series are not collected.
func FormatTitle(kind, name string) string {
	return defaultFormatter().Format(kind, name, nil)
}

var defaultFormatter = sync.OnceValue(func() *Formatter {
	return NewFormatter(mapping.Default())
})

// Format returns the canonical title for (kind, name). Doujin series with
// no abbreviation are added to unknown when it is non-nil.
func (f *Formatter) Format(kind, name string, unknown *UnknownSeriesSet) string {
	title, _ := f.FormatDetailed(kind, name, unknown)
	return title
}

// Normalize formats row and stamps the result.
func (f *Formatter) Normalize(row Row, unknown *UnknownSeriesSet) NormalizedRow {
	title, rule := f.FormatDetailed(row.Kind, row.Name, unknown)
	return NormalizedRow{
		Kind:      row.Kind,
		Name:      row.Name,
		Title:     title,
		Rule:      rule,
		EmittedAt: f.now(),
	}
}

// FormatDetailed is Format plus the rule that produced the title. A kind
// with no prefix entry returns name unchanged, even when empty; any other
// row that yields nothing is default-filled.
func (f *Formatter) FormatDetailed(kind, name string, unknown *UnknownSeriesSet) (string, Rule) {
	today := f.now()
	title, rule := f.dispatch(kind, name, today, unknown)
	if title == "" && rule != RulePassthrough {
		return defaultFill(today), RuleDefaultFill
	}
	return title, rule
}

func (f *Formatter) dispatch(kind, name string, today time.Time, unknown *UnknownSeriesSet) (string, Rule) {
	label := CanonicalKind(kind)
	prefix, ok := f.table.Prefix(label)
	if !ok {
		return name, RulePassthrough
	}

	text := name
	if f.normalizeNames {
		text = script.NormalizeWhitespaceForm(name)
	}

	k := ParseKind(label)
	switch k {
	case KindOther, KindNovel:
		return prefix + text, RuleVerbatim
	case KindArtBook:
		return prefix + formatArtBook(f.parser.Parse(text), text, today), RuleArtBook
	case KindComic:
		return FormatComic(f.parser.Parse(text)), RuleComic
	case KindAdultComic:
		return prefix + formatAdultComic(f.parser.Parse(text), text, today), RuleAdultComic
	case KindDoujin:
		clean := StripDecorationTags(text)
		se := ExtractSeriesEvent(clean, f.table)
		if !se.Known && unknown != nil {
			unknown.Add(se.SeriesRaw)
		}
		return prefix + formatDoujin(f.parser.Parse(clean), se, text), RuleDoujin
	case KindMagazine, KindAdultMagazine, KindUnknown:
	}
	return f.lookup(k, label, prefix, name, text, today)
}

// lookup runs the mapping-table fallback: ordered patterns, then the clip
// rule, then default-fill. name is the row's raw name; text is what the
// patterns see.
func (f *Formatter) lookup(k Kind, label, prefix, name, text string, today time.Time) (string, Rule) {
	for _, rule := range f.table.Patterns(label) {
		mapped, ok := rule.Apply(text)
		if !ok {
			continue
		}
		switch k {
		case KindAdultMagazine:
			mapped = padMonthNumbers(mapped)
		case KindMagazine:
			mapped += " " + orName(f.parser.Parse(name).Title, name)
		}
		return prefix + mapped, RuleMapping
	}

	if clip, ok := f.table.Clip(label); ok {
		if base, ok := clip.Apply(text); ok && base != "" {
			return prefix + base, RuleClip
		}
	}
	return defaultFill(today), RuleDefaultFill
}

func defaultFill(today time.Time) string {
	return today.Format("20060102")
}
