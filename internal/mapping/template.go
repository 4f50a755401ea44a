package mapping

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	// ErrInvalidTemplate is returned when a template cannot be parsed.
	ErrInvalidTemplate = errors.New("invalid template")

	// ErrGroupMissing is returned by Expand when a field refers to a capture
	// group that does not exist or did not take part in the match.
	ErrGroupMissing = errors.New("template references a missing group")

	// ErrNotNumeric is returned by Expand when a zero-padded field is
	// filled with a non-numeric group.
	ErrNotNumeric = errors.New("zero-padded field is not numeric")
)

// segment is either literal text or a field reference.
type segment struct {
	literal string
	field   bool
	index   int
	width   int
}

// Template is a compiled positional format string.
type Template struct {
	source   string
	segments []segment
	maxIndex int
}

// ParseTemplate compiles src. Automatic ("{}") and manual ("{0}") numbering
// cannot be mixed.
func ParseTemplate(src string) (Template, error) {
	t := Template{source: src, maxIndex: -1}
	var lit strings.Builder
	auto, manual := false, false
	next := 0

	flush := func() {
		if lit.Len() > 0 {
			t.segments = append(t.segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}

	for i := 0; i < len(src); i++ {
		c := src[i]
		switch c {
		case '{':
			if i+1 < len(src) && src[i+1] == '{' {
				lit.WriteByte('{')
				i++
				continue
			}
			end := strings.IndexByte(src[i:], '}')
			if end < 0 {
				return Template{}, fmt.Errorf("%w %q: unclosed '{'", ErrInvalidTemplate, src)
			}
			body := src[i+1 : i+end]
			seg, isAuto, err := parseField(body)
			if err != nil {
				return Template{}, fmt.Errorf("%w %q: %v", ErrInvalidTemplate, src, err)
			}
			if isAuto {
				auto = true
				seg.index = next
				next++
			} else {
				manual = true
			}
			if auto && manual {
				return Template{}, fmt.Errorf("%w %q: cannot mix automatic and manual field numbering", ErrInvalidTemplate, src)
			}
			flush()
			t.segments = append(t.segments, seg)
			if seg.index > t.maxIndex {
				t.maxIndex = seg.index
			}
			i += end
		case '}':
			if i+1 < len(src) && src[i+1] == '}' {
				lit.WriteByte('}')
				i++
				continue
			}
			return Template{}, fmt.Errorf("%w %q: single '}'", ErrInvalidTemplate, src)
		default:
			lit.WriteByte(c)
		}
	}
	flush()
	return t, nil
}

// parseField parses the text between braces: "", "N" or "N:spec".
func parseField(body string) (segment, bool, error) {
	seg := segment{field: true}
	idx, spec, hasSpec := strings.Cut(body, ":")
	isAuto := idx == ""
	if !isAuto {
		n, err := strconv.Atoi(idx)
		if err != nil || n < 0 {
			return seg, false, fmt.Errorf("bad field index %q", idx)
		}
		seg.index = n
	}
	if hasSpec {
		w, err := parseWidth(spec)
		if err != nil {
			return seg, false, err
		}
		seg.width = w
	}
	return seg, isAuto, nil
}

// parseWidth accepts "0W" and "0Wd".
func parseWidth(spec string) (int, error) {
	s := strings.TrimSuffix(spec, "d")
	if len(s) < 2 || s[0] != '0' {
		return 0, fmt.Errorf("unsupported format spec %q (use 0Wd)", spec)
	}
	w, err := strconv.Atoi(s[1:])
	if err != nil || w <= 0 {
		return 0, fmt.Errorf("unsupported format spec %q (use 0Wd)", spec)
	}
	return w, nil
}

// String returns the template source.
func (t Template) String() string { return t.source }

// MaxIndex is the highest field index referenced, or -1 for none.
func (t Template) MaxIndex() int { return t.maxIndex }

// Expand fills the template from groups, where groups[i] is capture group
// i+1 and present[i] reports whether that group took part in the match.
func (t Template) Expand(groups []string, present []bool) (string, error) {
	var b strings.Builder
	for _, seg := range t.segments {
		if !seg.field {
			b.WriteString(seg.literal)
			continue
		}
		if seg.index >= len(groups) || !present[seg.index] {
			return "", fmt.Errorf("%w: {%d}", ErrGroupMissing, seg.index)
		}
		v := groups[seg.index]
		if seg.width > 0 {
			n, err := strconv.Atoi(v)
			if err != nil {
				return "", fmt.Errorf("%w: {%d}=%q", ErrNotNumeric, seg.index, v)
			}
			v = fmt.Sprintf("%0*d", seg.width, n)
		}
		b.WriteString(v)
	}
	return b.String(), nil
}
