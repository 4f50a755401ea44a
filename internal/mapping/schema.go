package mapping

// File is the YAML form of a mapping table.
type File struct {
	// Version of the mapping schema.
	Version string `yaml:"version,omitempty"`

	// Prefixes maps a kind label to the tag prepended to its output.
	Prefixes map[string]string `yaml:"prefixes,omitempty"`

	// Patterns maps a kind label to its ordered pattern list.
	Patterns map[string][]PatternSpec `yaml:"patterns,omitempty"`

	// Clips maps a kind label to a single clip-extraction rule.
	Clips map[string]ClipSpec `yaml:"clips,omitempty"`

	// Series maps a raw series name to its abbreviation.
	Series map[string]string `yaml:"series,omitempty"`
}

// PatternSpec is one (regex, template) pair.
type PatternSpec struct {
	Pattern  string `yaml:"pattern"`
	Template string `yaml:"template"`
}

// ClipSpec extracts capture group Group from the first match of Pattern.
type ClipSpec struct {
	Pattern string `yaml:"pattern"`
	Group   int    `yaml:"group"`
}
