// Package naming turns catalog (kind, name) rows into canonical,
// filename-like titles.
//
// The entry points are [Formatter.Format] for batch use and [FormatTitle]
// for one-off calls. The work is split along these lines:
//
//   - kind.go: the closed set of kinds and label parsing.
//   - parser.go: [Parse] pulls author/title/volume out of "[author]title第N巻".
//   - series.go: doujin event and series extraction.
//   - rules.go: the named regular expressions and per-kind formatting rules.
//   - formatter.go: rule precedence and mapping-table fallback.
//   - unknown.go: the batch accumulator for series without an abbreviation.
//
// Nothing in this package returns an error. A row that no rule can handle is
// rendered as today's date (YYYYMMDD), which callers should treat as a
// "needs manual review" marker.
package naming
