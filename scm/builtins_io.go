package scm

import "strings"

// registerIOBuiltins wires display/print/println/read, all of which
// delegate to the host-provided Writer/Reader from Option configuration —
// the core never touches stdin/stdout directly, per spec.md §5.
func (ev *Evaluator) registerIOBuiltins() {
	ev.declare(&Declaration{
		Name: "display", Desc: "writes a value's human-readable form to the host output, no trailing newline",
		MinParameter: 1, MaxParameter: 1, Returns: "nil",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		ev.stdout.WriteString(Display(expectArg(args, 0, span)))
		return Nil, nil
	})
	ev.declare(&Declaration{
		Name: "print", Desc: "writes a value's machine-readable form to the host output, no trailing newline",
		MinParameter: 1, MaxParameter: 1, Returns: "nil",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		ev.stdout.WriteString(Write(expectArg(args, 0, span)))
		return Nil, nil
	})
	ev.declare(&Declaration{
		Name: "println", Desc: "writes a value's human-readable form to the host output, with a trailing newline",
		MinParameter: 1, MaxParameter: 1, Returns: "nil",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		ev.stdout.WriteString(Display(expectArg(args, 0, span)) + "\n")
		return Nil, nil
	})
	ev.declare(&Declaration{
		Name: "read", Desc: "reads one line of host input as a string",
		MinParameter: 0, MaxParameter: 0, Returns: "string",
	}, func(h *Heap, args []Value, span Span) (Value, error) {
		return String(ev.readLine(span)), nil
	})
}

// readLine pulls one line from the configured Reader, trimming the
// trailing newline so `(num-parse (read))` works without the caller having
// to strip it themselves.
func (ev *Evaluator) readLine(span Span) string {
	line, err := ev.stdin.ReadLine()
	if err != nil && line == "" {
		panic(NewCustomError(span, "read: "+err.Error()))
	}
	return strings.TrimRight(line, "\r\n")
}
