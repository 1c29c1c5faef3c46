package scm

import "testing"

func TestCondElseFallthrough(t *testing.T) {
	ev := newTestEvaluator()
	got := Write(evalSource(t, ev, `(cond (#f 1) (#f 2) (else 3))`))
	if got != "3" {
		t.Fatalf("got %s, want 3", got)
	}
}

func TestAndOrShortCircuit(t *testing.T) {
	ev := newTestEvaluator()
	evalSource(t, ev, "(define calls 0)")
	evalSource(t, ev, "(define (bump) (set! calls (+ calls 1)) #t)")
	evalSource(t, ev, "(and #f (bump))")
	if got := Write(evalSource(t, ev, "calls")); got != "0" {
		t.Fatalf("and should short-circuit before evaluating (bump), calls=%s", got)
	}
	evalSource(t, ev, "(or #t (bump))")
	if got := Write(evalSource(t, ev, "calls")); got != "0" {
		t.Fatalf("or should short-circuit before evaluating (bump), calls=%s", got)
	}
}

func TestWhileLoop(t *testing.T) {
	ev := newTestEvaluator()
	got := Write(evalSource(t, ev, `
		(define i 0)
		(define acc 0)
		(while (< i 5)
		  (set! acc (+ acc i))
		  (set! i (+ i 1)))
		acc
	`))
	if got != "10" {
		t.Fatalf("got %s, want 10", got)
	}
}

func TestDefmacroExpansion(t *testing.T) {
	ev := newTestEvaluator()
	evalSource(t, ev, `
		(defmacro my-if (test then else)
		  (list 'cond (list test then) (list 'else else)))
	`)
	got := Write(evalSource(t, ev, `(my-if (< 1 2) "yes" "no")`))
	if got != `"yes"` {
		t.Fatalf("got %s, want \"yes\"", got)
	}
}

func TestVariadicRestParameter(t *testing.T) {
	ev := newTestEvaluator()
	evalSource(t, ev, "(define (f a . rest) (cons a rest))")
	got := Write(evalSource(t, ev, "(f 1 2 3)"))
	if got != "(1 2 3)" {
		t.Fatalf("got %s, want (1 2 3)", got)
	}
}

func TestBareSymbolVariadicParameter(t *testing.T) {
	ev := newTestEvaluator()
	evalSource(t, ev, "(define f (lambda args args))")
	got := Write(evalSource(t, ev, "(f 1 2 3)"))
	if got != "(1 2 3)" {
		t.Fatalf("got %s, want (1 2 3)", got)
	}
}

func TestSetUnboundIsAnError(t *testing.T) {
	ev := newTestEvaluator()
	toks, _ := Tokenize("(set! never-defined 1)", nil)
	p := NewParser(ev.Heap())
	p.PushTokens(toks)
	expr, _, _ := p.Parse()
	_, err := ev.Eval(expr)
	ee, ok := err.(*EvalError)
	if !ok || ee.Kind != SetUnbound {
		t.Fatalf("expected SetUnbound, got %v", err)
	}
}
