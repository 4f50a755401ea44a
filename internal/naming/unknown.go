package naming

import (
	"slices"
	"sync"
)

// UnknownSeriesSet collects doujin series that have no abbreviation entry
// during one batch. The zero value is ready to use and all methods are
// goroutine-safe.
type UnknownSeriesSet struct {
	mu   sync.Mutex
	seen map[string]struct{}
}

// NewUnknownSeriesSet creates an empty set.
func NewUnknownSeriesSet() *UnknownSeriesSet {
	return &UnknownSeriesSet{seen: make(map[string]struct{})}
}

// Add records series and reports whether it was new. Empty strings are
// ignored.
func (s *UnknownSeriesSet) Add(series string) bool {
	if series == "" {
		return false
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[series]; ok {
		return false
	}
	s.seen[series] = struct{}{}
	return true
}

func (s *UnknownSeriesSet) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.seen)
}

// Drain returns the collected series in sorted order and empties the set.
func (s *UnknownSeriesSet) Drain() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]string, 0, len(s.seen))
	for series := range s.seen {
		out = append(out, series)
	}
	slices.Sort(out)
	clear(s.seen)
	return out
}
