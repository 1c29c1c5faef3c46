package scm

import (
	"fmt"
	"strings"
)

// Span marks the source-location of a token or expression: a starting
// line/column plus a length, and an optional source identifier so a host
// that manages several source buffers (REPL history, multiple loaded
// files) can tell which one an error came from.
type Span struct {
	Line     uint32
	Column   uint32
	Length   uint32
	SourceID *uint32
}

func (s Span) String() string {
	if s.SourceID != nil {
		return fmt.Sprintf("%d:%d:%d:%d", *s.SourceID, s.Line, s.Column, s.Length)
	}
	return fmt.Sprintf("%d:%d", s.Line, s.Column)
}

// joinSpan widens a to cover b as well, assuming both are on a line-ordered
// span of the same source. Nothing in this package calls it; the parser
// gives a quoted form the span of its quote sigil alone.
func joinSpan(a, b Span) Span {
	if b.Line < a.Line || (b.Line == a.Line && b.Column < a.Column) {
		a, b = b, a
	}
	if a.Line != b.Line {
		// best effort: a span cannot cover several lines, so return the
		// earlier span unchanged
		return a
	}
	end := b.Column + b.Length
	if end < a.Column {
		end = a.Column
	}
	return Span{Line: a.Line, Column: a.Column, Length: end - a.Column, SourceID: a.SourceID}
}

// RenderFrame renders a three-line, caret-annotated diagnostic frame for
// span within source: the line before it (if any), the offending line,
// and a caret line with '^' repeated under span.Column for span.Length.
// Independent of the evaluator so hosts can reuse it for their own errors.
func RenderFrame(source string, span Span) string {
	lines := strings.Split(source, "\n")
	lineIdx := int(span.Line) - 1
	var b strings.Builder
	if lineIdx > 0 && lineIdx-1 < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", span.Line-1, lines[lineIdx-1])
	}
	if lineIdx >= 0 && lineIdx < len(lines) {
		fmt.Fprintf(&b, "%4d | %s\n", span.Line, lines[lineIdx])
	}
	length := span.Length
	if length == 0 {
		length = 1
	}
	b.WriteString("     | ")
	col := span.Column
	if col == 0 {
		col = 1
	}
	b.WriteString(strings.Repeat(" ", int(col-1)))
	b.WriteString(strings.Repeat("^", int(length)))
	return b.String()
}
