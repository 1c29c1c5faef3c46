package scm

import (
	"strconv"
	"strings"
	"testing"
)

// evalSource tokenizes, parses and evaluates every top-level form in src,
// returning the value of the last one. Fails the test on any lex/parse/
// eval error.
func evalSource(t *testing.T, ev *Evaluator, src string) Value {
	t.Helper()
	toks, err := Tokenize(src, nil)
	if err != nil {
		t.Fatalf("tokenize %q: %v", src, err)
	}
	p := NewParser(ev.Heap())
	p.PushTokens(toks)
	exprs, err := p.ParseAll()
	if err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	var result Value
	for _, expr := range exprs {
		result, err = ev.Eval(expr)
		if err != nil {
			t.Fatalf("eval %q: %v", src, err)
		}
	}
	return result
}

func newTestEvaluator() *Evaluator {
	return WithPrelude()
}

func TestArithmetic(t *testing.T) {
	ev := newTestEvaluator()
	cases := []struct {
		src  string
		want string
	}{
		{"(+ 1 (% 9 2))", "2"},
		{"(* 2 3 4)", "24"},
		{"(- 10 3 2)", "5"},
		{"(/ 10 2)", "5"},
		{"(< 1 2 3)", "#t"},
		{"(< 1 3 2)", "#f"},
		{"(= 1 1.0)", "#t"},
	}
	for _, c := range cases {
		got := Write(evalSource(t, ev, c.src))
		if got != c.want {
			t.Errorf("%s = %s, want %s", c.src, got, c.want)
		}
	}
}

func TestTailCallDoesNotGrowStack(t *testing.T) {
	ev := newTestEvaluator()
	evalSource(t, ev, `(define (loop n) (if (= n 0) 'done (loop (- n 1))))`)
	got := Write(evalSource(t, ev, "(loop 1000000)"))
	if got != "done" {
		t.Fatalf("loop 1000000 = %s, want done", got)
	}
}

func TestLexicalScoping(t *testing.T) {
	ev := newTestEvaluator()
	got := Write(evalSource(t, ev, `
		(define x 1)
		(define (f) x)
		(let ((x 2)) (f))
	`))
	if got != "1" {
		t.Fatalf("lexical scoping: got %s, want 1", got)
	}
}

func TestClosureCaptureIndependence(t *testing.T) {
	ev := newTestEvaluator()
	evalSource(t, ev, `
		(define (make-counter)
		  (let ((n 0))
		    (lambda () (set! n (+ n 1)) n)))
		(define c1 (make-counter))
		(define c2 (make-counter))
	`)
	if got := Write(evalSource(t, ev, "(c1)")); got != "1" {
		t.Fatalf("c1 first call = %s, want 1", got)
	}
	if got := Write(evalSource(t, ev, "(c1)")); got != "2" {
		t.Fatalf("c1 second call = %s, want 2", got)
	}
	if got := Write(evalSource(t, ev, "(c2)")); got != "1" {
		t.Fatalf("c2 first call = %s, want 1 (independent from c1)", got)
	}
}

func TestFactorial(t *testing.T) {
	ev := newTestEvaluator()
	evalSource(t, ev, `
		(define (fact n acc)
		  (if (= n 0) acc (fact (- n 1) (* n acc))))
	`)
	got := Write(evalSource(t, ev, "(fact 10 1)"))
	if got != "3628800" {
		t.Fatalf("fact(10) = %s, want 3628800", got)
	}
}

func TestFibonacci(t *testing.T) {
	ev := newTestEvaluator()
	evalSource(t, ev, `
		(define (fib n)
		  (if (< n 2) n (+ (fib (- n 1)) (fib (- n 2)))))
	`)
	got := Write(evalSource(t, ev, "(fib 20)"))
	if got != "6765" {
		t.Fatalf("fib(20) = %s, want 6765", got)
	}
}

func TestFizzBuzz(t *testing.T) {
	ev := newTestEvaluator()
	evalSource(t, ev, `
		(define (fizzbuzz n)
		  (cond
		    ((= (% n 15) 0) "FizzBuzz")
		    ((= (% n 3) 0) "Fizz")
		    ((= (% n 5) 0) "Buzz")
		    (#t (number->string n))))
	`)
	want := []string{
		"1", "2", "Fizz", "4", "Buzz", "Fizz", "7", "8", "Fizz", "Buzz",
		"11", "Fizz", "13", "14", "FizzBuzz",
	}
	var got []string
	for i := 1; i <= 15; i++ {
		v := evalSource(t, ev, "(fizzbuzz "+strconv.Itoa(i)+")")
		got = append(got, v.AsString())
	}
	if strings.Join(got, ",") != strings.Join(want, ",") {
		t.Fatalf("fizzbuzz(1..15) = %v, want %v", got, want)
	}
}

func TestReverse(t *testing.T) {
	ev := newTestEvaluator()
	got := Write(evalSource(t, ev, "(reverse '(a b c d))"))
	if got != "(d c b a)" {
		t.Fatalf("reverse = %s, want (d c b a)", got)
	}
}

func TestUserDefinedSubst(t *testing.T) {
	ev := newTestEvaluator()
	evalSource(t, ev, `
		(define (subst new old tree)
		  (cond
		    ((eq? tree old) new)
		    ((pair? tree) (cons (subst new old (car tree)) (subst new old (cdr tree))))
		    (#t tree)))
	`)
	got := Write(evalSource(t, ev, "(subst 'x 'a '(a b (a c) a))"))
	if got != "(x b (x c) x)" {
		t.Fatalf("subst = %s, want (x b (x c) x)", got)
	}
	// literal scenario
	got = Write(evalSource(t, ev, "(subst 'a 'b '(a b c b))"))
	if got != "(a a c a)" {
		t.Fatalf("subst 'a 'b '(a b c b) = %s, want (a a c a)", got)
	}
}

// TestGCReclaimsOverwrittenClosureCounter mirrors the counter-closure GC
// scenario end to end: once the only reference to a counter's captured
// environment is dropped and a collection is forced, its footprint is
// freed.
func TestGCReclaimsOverwrittenClosureCounter(t *testing.T) {
	ev := newTestEvaluator()
	evalSource(t, ev, `
		(define (make-counter)
		  (let ((n 0))
		    (lambda () (set! n (+ n 1)) n)))
		(define c (make-counter))
	`)
	evalSource(t, ev, "(c)")
	evalSource(t, ev, "(c)")

	before := ev.Heap().Stats()
	evalSource(t, ev, "(define c #f)")
	stats := ev.Heap().Collect()
	if stats.Freed == 0 {
		t.Fatalf("expected the orphaned counter closure/environment to be freed, before=%+v stats=%+v", before, stats)
	}
}

func TestArityMismatchReportsCallSiteSpan(t *testing.T) {
	ev := newTestEvaluator()
	evalSource(t, ev, "(define (f x y) (+ x y))")
	toks, err := Tokenize("(f 1)", nil)
	if err != nil {
		t.Fatal(err)
	}
	p := NewParser(ev.Heap())
	p.PushTokens(toks)
	expr, ok, err := p.Parse()
	if err != nil || !ok {
		t.Fatalf("parse: ok=%v err=%v", ok, err)
	}
	_, err = ev.Eval(expr)
	ee, isEvalErr := err.(*EvalError)
	if !isEvalErr || ee.Kind != ArityMismatch {
		t.Fatalf("expected ArityMismatch, got %v", err)
	}
	if ee.Span.Column == 0 && ee.Span.Line == 0 {
		t.Fatalf("expected a non-zero call-site span, got %v", ee.Span)
	}
}

func TestNativeArityMismatchIsStructuredNotAPanic(t *testing.T) {
	cases := []struct {
		name string
		src  string
	}{
		{"unary predicate", "(null?)"},
		{"binary equality", "(eq? 1)"},
		{"cons", "(cons 1)"},
		{"display", "(display)"},
		{"variadic plus", "(+)"},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			ev := newTestEvaluator()
			toks, err := Tokenize(c.src, nil)
			if err != nil {
				t.Fatal(err)
			}
			p := NewParser(ev.Heap())
			p.PushTokens(toks)
			expr, ok, err := p.Parse()
			if err != nil || !ok {
				t.Fatalf("parse: ok=%v err=%v", ok, err)
			}
			_, err = ev.Eval(expr)
			ee, isEvalErr := err.(*EvalError)
			if !isEvalErr || ee.Kind != ArityMismatch {
				t.Fatalf("expected ArityMismatch, got %v", err)
			}
		})
	}
}

func TestNotASymbolDiagnosticCaret(t *testing.T) {
	ev := newTestEvaluator()
	toks, err := Tokenize("(define plus (lambda (x 7) (+ x y)))", nil)
	if err != nil {
		t.Fatal(err)
	}
	p := NewParser(ev.Heap())
	p.PushTokens(toks)
	expr, ok, err := p.Parse()
	if err != nil || !ok {
		t.Fatalf("parse: ok=%v err=%v", ok, err)
	}
	_, err = ev.Eval(expr)
	ee, isEvalErr := err.(*EvalError)
	if !isEvalErr || ee.Kind != NotASymbol {
		t.Fatalf("expected NotASymbol, got %v", err)
	}
	// The offending "7" is the 25th character of line 1.
	if ee.Span.Line != 1 || ee.Span.Column != 25 || ee.Span.Length != 1 {
		t.Fatalf("expected the span of the 7 token (1:25, length 1), got %v length %d", ee.Span, ee.Span.Length)
	}
	frame := RenderFrame("(define plus (lambda (x 7) (+ x y)))", ee.Span)
	wantCaret := "     | " + strings.Repeat(" ", 24) + "^"
	if !strings.HasSuffix(frame, "\n"+wantCaret) {
		t.Fatalf("caret not under the 7 token:\n%s", frame)
	}
}

func TestUndefinedSymbol(t *testing.T) {
	ev := newTestEvaluator()
	toks, _ := Tokenize("(+ x 1)", nil)
	p := NewParser(ev.Heap())
	p.PushTokens(toks)
	expr, _, _ := p.Parse()
	_, err := ev.Eval(expr)
	ee, ok := err.(*EvalError)
	if !ok || ee.Kind != UndefinedSymbol {
		t.Fatalf("expected UndefinedSymbol, got %v", err)
	}
}

func TestDivByZero(t *testing.T) {
	ev := newTestEvaluator()
	toks, _ := Tokenize("(/ 1 0)", nil)
	p := NewParser(ev.Heap())
	p.PushTokens(toks)
	expr, _, _ := p.Parse()
	_, err := ev.Eval(expr)
	ee, ok := err.(*EvalError)
	if !ok || ee.Kind != DivByZero {
		t.Fatalf("expected DivByZero, got %v", err)
	}
}
