// Package script folds catalog text between scripts and character widths.
//
// It covers the three text transforms the title engine relies on:
//
//   - NormalizeWhitespaceForm: dash-family runes to spaces, NFKC, whitespace collapse.
//   - ToFullwidth: the fixed half-width punctuation table used in output names.
//   - FoldScript / ToKatakana: pure-ASCII words are lower-cased and spelled in
//     katakana (romaji clusters, longest match first).
package script
