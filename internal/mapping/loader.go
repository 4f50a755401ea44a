package mapping

import (
	_ "embed"
	"errors"
	"fmt"
	"os"
	"regexp"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"
)

//go:embed default_mapping.yaml
var defaultMapping []byte

var (
	defaultOnce  sync.Once
	defaultTable *Table
)

// Default returns the table compiled from the embedded default mapping.
func Default() *Table {
	defaultOnce.Do(func() {
		t, err := Parse(defaultMapping)
		if err != nil {
			panic(fmt.Sprintf("embedded default mapping is invalid: %v", err))
		}
		defaultTable = t
	})
	return defaultTable
}

// LoadFile loads and compiles a YAML mapping file from the given path.
func LoadFile(path string) (*Table, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read mapping file %s: %w", path, err)
	}
	t, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return t, nil
}

// Decode parses YAML data into a File without compiling it.
func Decode(data []byte) (*File, error) {
	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse mapping YAML: %w", err)
	}
	applyDefaults(&f)
	return &f, nil
}

// Parse decodes and compiles YAML data.
func Parse(data []byte) (*Table, error) {
	f, err := Decode(data)
	if err != nil {
		return nil, err
	}
	return Compile(f)
}

// applyDefaults fills in default values for optional fields.
func applyDefaults(f *File) {
	if f.Version == "" {
		f.Version = "1"
	}
}

// Compile validates f and builds a Table. All problems are reported together.
func Compile(f *File) (*Table, error) {
	t := &Table{
		prefixes:   make(map[string]string, len(f.Prefixes)),
		patterns:   make(map[string][]PatternRule, len(f.Patterns)),
		clips:      make(map[string]ClipRule, len(f.Clips)),
		series:     make(map[string]string, len(f.Series)),
		seriesKeys: make(map[string]string, len(f.Series)),
	}
	var errs []error

	if f.Version != "1" {
		errs = append(errs, fmt.Errorf("unsupported mapping version %q", f.Version))
	}

	for kind, prefix := range f.Prefixes {
		t.prefixes[kind] = prefix
	}

	for _, kind := range sortedKeys(f.Patterns) {
		for i, rule := range f.Patterns[kind] {
			re, err := regexp.Compile(rule.Pattern)
			if err != nil {
				errs = append(errs, fmt.Errorf("patterns[%s][%d]: %w", kind, i, err))
				continue
			}
			tmpl, err := ParseTemplate(rule.Template)
			if err != nil {
				errs = append(errs, fmt.Errorf("patterns[%s][%d]: %w", kind, i, err))
				continue
			}
			t.patterns[kind] = append(t.patterns[kind], PatternRule{Pattern: re, Template: tmpl})
		}
	}

	for _, kind := range sortedKeys(f.Clips) {
		rule := f.Clips[kind]
		re, err := regexp.Compile(rule.Pattern)
		if err != nil {
			errs = append(errs, fmt.Errorf("clips[%s]: %w", kind, err))
			continue
		}
		if rule.Group < 0 || rule.Group > re.NumSubexp() {
			errs = append(errs, fmt.Errorf("clips[%s]: group %d out of range (pattern has %d)", kind, rule.Group, re.NumSubexp()))
			continue
		}
		t.clips[kind] = ClipRule{Pattern: re, Group: rule.Group}
	}

	for raw, short := range f.Series {
		t.series[raw] = short
		t.seriesKeys[seriesKey(raw)] = short
	}

	if len(errs) > 0 {
		return nil, errors.Join(errs...)
	}
	return t, nil
}

// Lint reports rules that compile but can never produce output, such as a
// template that references more groups than its pattern captures.
func (t *Table) Lint() []string {
	var warnings []string
	for _, kind := range sortedKeys(t.patterns) {
		for i, r := range t.patterns[kind] {
			if r.Template.MaxIndex() >= r.Pattern.NumSubexp() {
				warnings = append(warnings, fmt.Sprintf(
					"patterns[%s][%d]: template %q references {%d} but pattern has %d groups",
					kind, i, r.Template.String(), r.Template.MaxIndex(), r.Pattern.NumSubexp()))
			}
		}
		if _, ok := t.prefixes[kind]; !ok {
			warnings = append(warnings, fmt.Sprintf("patterns[%s]: kind has no prefixes entry and is passed through unchanged", kind))
		}
	}
	for _, kind := range sortedKeys(t.clips) {
		if _, ok := t.prefixes[kind]; !ok {
			warnings = append(warnings, fmt.Sprintf("clips[%s]: kind has no prefixes entry and is passed through unchanged", kind))
		}
	}
	return warnings
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
