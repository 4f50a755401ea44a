package naming

import "strings"

// Abbreviator maps a raw series name to its short form.
// *mapping.Table satisfies it.
type Abbreviator interface {
	Abbreviate(series string) (string, bool)
}

// SeriesEvent is the doujin metadata found in a name.
type SeriesEvent struct {
	Event     string // convention name, YYYYMMDD, or UnknownEvent
	Series    string // abbreviation when Known, otherwise SeriesRaw
	SeriesRaw string
	Known     bool
}

// ExtractSeriesEvent finds the event and series parentheticals in a doujin
// name. abbrev may be nil, in which case no series is Known.
func ExtractSeriesEvent(name string, abbrev Abbreviator) SeriesEvent {
	clean := StripDecorationTags(name)

	se := SeriesEvent{Event: UnknownEvent}
	consumed := ""
	if m := reEventParen.FindStringSubmatch(name); m != nil {
		se.Event = m[1]
		consumed = strings.TrimSpace(m[1])
	} else if d := reEventDate.FindString(clean); d != "" {
		se.Event = strings.ReplaceAll(d, "-", "")
	}

	groups := topLevelParens(clean)
	for i := len(groups) - 1; i >= 0; i-- {
		if groups[i] != consumed {
			se.SeriesRaw = groups[i]
			break
		}
	}
	if se.SeriesRaw == "" {
		return se
	}

	se.Series = se.SeriesRaw
	if abbrev != nil {
		if short, ok := abbrev.Abbreviate(se.SeriesRaw); ok {
			se.Series = short
			se.Known = true
		}
	}
	return se
}

// topLevelParens returns the trimmed contents of every parenthetical in s
// that is neither nested in another one nor inside a [..] block. Unbalanced
// closers are ignored and an unclosed group is dropped.
func topLevelParens(s string) []string {
	var (
		out     []string
		bracket int
		depth   int
		start   int
	)
	for i, r := range s {
		switch r {
		case '[':
			if depth == 0 {
				bracket++
			}
		case ']':
			if depth == 0 && bracket > 0 {
				bracket--
			}
		case '(':
			if bracket > 0 {
				continue
			}
			if depth == 0 {
				start = i + 1
			}
			depth++
		case ')':
			if bracket > 0 || depth == 0 {
				continue
			}
			depth--
			if depth == 0 {
				if content := strings.TrimSpace(s[start:i]); content != "" {
					out = append(out, content)
				}
			}
		}
	}
	return out
}
