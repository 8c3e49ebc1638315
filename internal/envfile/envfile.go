package envfile

import "strings"

// Quote records the quoting style of an assignment value.
type Quote int

const (
	QuoteNone Quote = iota
	QuoteSingle
	QuoteDouble
)

type kind int

const (
	kindBlank kind = iota
	kindComment
	kindAssignment
	kindMalformed
)

// Line is one source line. Comment, blank and malformed lines are pure
// passthrough; assignments additionally know their name, quoting style
// and the byte span of the inner value within raw.
type Line struct {
	kind kind
	raw  string // line content, terminator excluded
	term string // "\n", "\r\n", or "" on an unterminated final line

	name     string
	quote    Quote
	valStart int
	valEnd   int
}

// IsAssignment reports whether the line parsed as a valid assignment.
func (l *Line) IsAssignment() bool { return l.kind == kindAssignment }

// Name returns the assignment name, or "" for other line kinds.
func (l *Line) Name() string { return l.name }

// Value returns the inner value text of an assignment, quotes excluded.
func (l *Line) Value() string { return l.raw[l.valStart:l.valEnd] }

// Quoting returns the assignment's quoting style.
func (l *Line) Quoting() Quote { return l.quote }

// Document is an ordered sequence of line records. It is owned by a
// single read-modify-write cycle and is not safe for concurrent use.
type Document struct {
	lines []Line
}

// Parse splits text into classified line records. It never fails:
// unrecognizable lines become malformed records and round-trip
// verbatim.
func Parse(text string) *Document {
	doc := &Document{}

	for i := 0; i < len(text); {
		var raw, term string
		if j := strings.IndexByte(text[i:], '\n'); j < 0 {
			raw, term = text[i:], ""
			i = len(text)
		} else {
			raw, term = text[i:i+j], "\n"
			if strings.HasSuffix(raw, "\r") {
				raw, term = raw[:len(raw)-1], "\r\n"
			}
			i += j + 1
		}
		doc.lines = append(doc.lines, classify(raw, term))
	}

	return doc
}

// Get returns the value of the last valid assignment to name.
func (d *Document) Get(name string) (string, bool) {
	for i := len(d.lines) - 1; i >= 0; i-- {
		if l := &d.lines[i]; l.kind == kindAssignment && l.name == name {
			return l.Value(), true
		}
	}
	return "", false
}

// Set rewrites the value of the last valid assignment to name,
// preserving the rest of the line's bytes. If name is absent a new
// "name=value" line is appended; when the current last line has no
// terminator it gains one first, so the new assignment starts on its
// own line.
func (d *Document) Set(name, value string) {
	for i := len(d.lines) - 1; i >= 0; i-- {
		l := &d.lines[i]
		if l.kind != kindAssignment || l.name != name {
			continue
		}
		l.raw = l.raw[:l.valStart] + value + l.raw[l.valEnd:]
		l.valEnd = l.valStart + len(value)
		return
	}

	if n := len(d.lines); n > 0 && d.lines[n-1].term == "" {
		d.lines[n-1].term = "\n"
	}
	d.lines = append(d.lines, classify(name+"="+value, "\n"))
}

// Serialize renders the document. For an unmodified document the output
// is byte-identical to the parsed input.
func (d *Document) Serialize() string {
	var b strings.Builder
	for i := range d.lines {
		b.WriteString(d.lines[i].raw)
		b.WriteString(d.lines[i].term)
	}
	return b.String()
}

func classify(raw, term string) Line {
	line := Line{raw: raw, term: term}

	trimmed := strings.TrimLeft(raw, " \t")
	switch {
	case trimmed == "":
		line.kind = kindBlank
		return line
	case strings.HasPrefix(trimmed, "#"):
		line.kind = kindComment
		return line
	}

	line.kind = kindMalformed

	pos := len(raw) - len(trimmed)
	rest := trimmed

	// "export NAME=..." - but "export=..." assigns to "export".
	if tail, ok := strings.CutPrefix(rest, "export"); ok && tail != "" && isSpace(tail[0]) {
		ws := len(tail) - len(strings.TrimLeft(tail, " \t"))
		pos += len("export") + ws
		rest = raw[pos:]
	}

	// Any non-empty text before the first '=' names the variable; no
	// character class is enforced, so MY-VAR and 1UP are assignments.
	eq := strings.IndexByte(rest, '=')
	if eq <= 0 {
		return line
	}
	name := strings.TrimRight(rest[:eq], " \t")

	start, end, q, ok := valueSpan(raw, pos+eq+1)
	if !ok {
		return line
	}

	line.kind = kindAssignment
	line.name = name
	line.quote = q
	line.valStart, line.valEnd = start, end
	return line
}

// valueSpan locates the inner value within raw, starting just after
// '='. ok is false when the value text does not parse (unterminated
// quote, garbage after a closing quote).
func valueSpan(raw string, afterEq int) (start, end int, q Quote, ok bool) {
	v := afterEq
	for v < len(raw) && isSpace(raw[v]) {
		v++
	}

	// Nothing but whitespace, or a comment right away: the value is
	// empty and sits directly after '=' so an inserted value does not
	// glue onto the comment.
	if v == len(raw) || raw[v] == '#' {
		return afterEq, afterEq, QuoteNone, true
	}

	switch raw[v] {
	case '"':
		close := findClosingDouble(raw, v+1)
		if close < 0 || !tailOK(raw[close+1:]) {
			return 0, 0, QuoteNone, false
		}
		return v + 1, close, QuoteDouble, true
	case '\'':
		rel := strings.IndexByte(raw[v+1:], '\'')
		if rel < 0 {
			return 0, 0, QuoteNone, false
		}
		close := v + 1 + rel
		if !tailOK(raw[close+1:]) {
			return 0, 0, QuoteNone, false
		}
		return v + 1, close, QuoteSingle, true
	}

	// Bare value: runs to an inline comment ('#' preceded by
	// whitespace) or end of line, trailing whitespace excluded.
	end = len(raw)
	for k := v + 1; k < len(raw); k++ {
		if raw[k] == '#' && isSpace(raw[k-1]) {
			end = k
			break
		}
	}
	for end > v && isSpace(raw[end-1]) {
		end--
	}
	return v, end, QuoteNone, true
}

// findClosingDouble scans for the closing double quote, honoring
// backslash escapes.
func findClosingDouble(raw string, from int) int {
	for k := from; k < len(raw); k++ {
		switch raw[k] {
		case '\\':
			k++
		case '"':
			return k
		}
	}
	return -1
}

// tailOK accepts what may follow a closing quote: whitespace and an
// optional inline comment.
func tailOK(tail string) bool {
	t := strings.TrimLeft(tail, " \t")
	return t == "" || t[0] == '#'
}

func isSpace(c byte) bool { return c == ' ' || c == '\t' }
