package pipeline

import "github.com/backmassage/titlenorm/internal/naming"

// RunStats tracks aggregate counters across a batch run.
type RunStats struct {
	Total     int // files discovered
	Current   int
	Converted int // files written (or previewed in dry-run)
	Skipped   int
	Failed    int

	Rows          int
	Rules         map[naming.Rule]int
	UnknownSeries []string // sorted, drained at the end of the run
}

func (s *RunStats) addRule(r naming.Rule) {
	if s.Rules == nil {
		s.Rules = make(map[naming.Rule]int)
	}
	s.Rules[r]++
	s.Rows++
}

// DefaultFilled returns the number of rows no rule could format.
func (s *RunStats) DefaultFilled() int { return s.Rules[naming.RuleDefaultFill] }

// Passthrough returns the number of rows whose kind had no prefix entry.
func (s *RunStats) Passthrough() int { return s.Rules[naming.RulePassthrough] }

// Formatted returns the rows handled by a real rule.
func (s *RunStats) Formatted() int {
	return s.Rows - s.DefaultFilled() - s.Passthrough()
}
