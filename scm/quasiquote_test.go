package scm

import "testing"

func TestQuasiquoteUnquote(t *testing.T) {
	ev := newTestEvaluator()
	evalSource(t, ev, "(define x 5)")
	got := Write(evalSource(t, ev, "`(a ,x c)"))
	if got != "(a 5 c)" {
		t.Fatalf("got %s, want (a 5 c)", got)
	}
}

func TestQuasiquoteUnquoteSplicing(t *testing.T) {
	ev := newTestEvaluator()
	evalSource(t, ev, "(define xs (list 2 3))")
	got := Write(evalSource(t, ev, "`(1 ,@xs 4)"))
	if got != "(1 2 3 4)" {
		t.Fatalf("got %s, want (1 2 3 4)", got)
	}
}

func TestQuasiquoteNestedDepth(t *testing.T) {
	ev := newTestEvaluator()
	// A nested quasiquote defers the inner unquote: only the outer ,x fires.
	evalSource(t, ev, "(define x 1)")
	got := Write(evalSource(t, ev, "`(a `(b ,(c ,x)))"))
	if got != "(a `(b ,(c 1)))" {
		t.Fatalf("got %s", got)
	}
}
