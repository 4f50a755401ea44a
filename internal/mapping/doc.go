// Package mapping loads the per-kind lookup tables consumed by the title
// engine and compiles them into a read-only [Table].
//
// # Schema
//
//	version: "1"
//	prefixes:          # kind -> tag prepended to the result; presence matters
//	  同人: ""
//	  成年雑誌: "(成年雑誌) "
//	patterns:          # kind -> ordered (regex, template) pairs, first match wins
//	  成年雑誌:
//	    - pattern: '(\d{4})年(\d{1,2})月'
//	      template: '{0}年{1}月'
//	clips:             # kind -> single regex + capture group, used when no pattern hits
//	  写真集:
//	    pattern: '^\[[^\]]+\]\s*(.+)$'
//	    group: 1
//	series:            # raw series name -> short form
//	  ブルーアーカイブ: ブルアカ
//
// Templates use positional fields: "{}" (auto-numbered), "{N}" and "{N:0Wd}"
// (zero-padded to W digits). "{{" and "}}" are literal braces. Field N refers
// to capture group N+1 of the pattern.
//
// A kind without a prefixes entry is passed through untouched by the engine,
// so every kind that should be rewritten needs one, even an empty one.
package mapping
