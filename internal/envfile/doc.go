// Package envfile models a .env document as an ordered list of line
// records so that a single value can be rewritten without disturbing
// anything else in the file.
//
// Parsing is a total function: every line classifies as an assignment,
// a comment, a blank line, or - when nothing else fits - a malformed
// line carried through verbatim. Nothing is ever dropped or normalized,
// which gives the round-trip guarantee
//
//	Serialize(Parse(text)) == text
//
// byte for byte, including CRLF terminators and a missing final
// newline.
//
// Each assignment record keeps the raw line bytes plus the span of the
// inner value within them. Rewriting a value splices new text into that
// span only, so leading whitespace, an "export " prefix, spacing around
// "=", the quoting style, and any inline comment survive untouched.
// This per-record raw representation, rather than a name-to-value map,
// is what keeps encrypted files diffable.
//
// A variable name is any non-empty text before the first '=' on the
// line (surrounding whitespace trimmed); no character class is imposed,
// so hyphenated or digit-leading names assign like any other.
//
// Lookups follow conventional .env semantics: when a name appears more
// than once, the last line that parses as a valid assignment wins.
// Malformed lines never participate in matching.
package envfile
