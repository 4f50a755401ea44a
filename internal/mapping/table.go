package mapping

import (
	"regexp"
	"sort"

	"github.com/backmassage/titlenorm/internal/script"
)

// PatternRule is a compiled (regex, template) pair.
type PatternRule struct {
	Pattern  *regexp.Regexp
	Template Template
}

// Apply matches the rule against name and expands the template. ok is false
// when the pattern does not match or the template cannot be filled from the
// match; callers move on to the next rule in both cases.
func (r PatternRule) Apply(name string) (string, bool) {
	groups, present, matched := submatches(r.Pattern, name)
	if !matched {
		return "", false
	}
	out, err := r.Template.Expand(groups, present)
	if err != nil {
		return "", false
	}
	return out, true
}

// ClipRule cuts one capture group out of a name.
type ClipRule struct {
	Pattern *regexp.Regexp
	Group   int
}

// Apply returns capture group Group of the first match. ok is false when the
// pattern does not match or the group did not take part in the match.
func (r ClipRule) Apply(name string) (string, bool) {
	loc := r.Pattern.FindStringSubmatchIndex(name)
	if loc == nil {
		return "", false
	}
	if r.Group < 0 || 2*r.Group+1 >= len(loc) || loc[2*r.Group] < 0 {
		return "", false
	}
	return name[loc[2*r.Group]:loc[2*r.Group+1]], true
}

// submatches returns capture groups 1..n and which of them participated.
func submatches(re *regexp.Regexp, s string) ([]string, []bool, bool) {
	loc := re.FindStringSubmatchIndex(s)
	if loc == nil {
		return nil, nil, false
	}
	n := len(loc)/2 - 1
	groups := make([]string, n)
	present := make([]bool, n)
	for i := 0; i < n; i++ {
		start, end := loc[2*(i+1)], loc[2*(i+1)+1]
		if start < 0 {
			continue
		}
		groups[i] = s[start:end]
		present[i] = true
	}
	return groups, present, true
}

// Table is the compiled, read-only mapping configuration. It is safe for
// concurrent use.
type Table struct {
	prefixes map[string]string
	patterns map[string][]PatternRule
	clips    map[string]ClipRule
	series   map[string]string
	// seriesKeys indexes series by their whitespace-normalized form so that
	// width and dash variants of a name resolve to the same entry.
	seriesKeys map[string]string
}

// Prefix returns the tag configured for kind and whether one is configured.
func (t *Table) Prefix(kind string) (string, bool) {
	p, ok := t.prefixes[kind]
	return p, ok
}

// Patterns returns the ordered pattern rules for kind.
func (t *Table) Patterns(kind string) []PatternRule {
	return t.patterns[kind]
}

// Clip returns the clip rule for kind.
func (t *Table) Clip(kind string) (ClipRule, bool) {
	c, ok := t.clips[kind]
	return c, ok
}

// Abbreviate looks up the short form of a series name. Exact keys win;
// otherwise the whitespace-normalized form is tried.
func (t *Table) Abbreviate(series string) (string, bool) {
	if series == "" {
		return "", false
	}
	if short, ok := t.series[series]; ok {
		return short, true
	}
	short, ok := t.seriesKeys[seriesKey(series)]
	return short, ok
}

// Kinds returns every kind label mentioned anywhere in the table, sorted.
func (t *Table) Kinds() []string {
	seen := make(map[string]bool)
	for k := range t.prefixes {
		seen[k] = true
	}
	for k := range t.patterns {
		seen[k] = true
	}
	for k := range t.clips {
		seen[k] = true
	}
	kinds := make([]string, 0, len(seen))
	for k := range seen {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	return kinds
}

// SeriesCount returns the number of abbreviation entries.
func (t *Table) SeriesCount() int { return len(t.series) }

func seriesKey(s string) string {
	return script.NormalizeWhitespaceForm(s)
}

// Literals returns the configured strings that are copied verbatim into
// titles: prefix tags and series abbreviations. Empty strings are omitted.
func (t *Table) Literals() []string {
	var out []string
	for _, k := range sortedKeys(t.prefixes) {
		if p := t.prefixes[k]; p != "" {
			out = append(out, p)
		}
	}
	for _, k := range sortedKeys(t.series) {
		out = append(out, t.series[k])
	}
	return out
}
