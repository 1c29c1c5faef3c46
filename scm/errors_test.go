package scm

import "testing"

func TestRenderFrameCaretPlacement(t *testing.T) {
	src := "(define (f x)\n  (+ x y))"
	span := Span{Line: 2, Column: 6, Length: 1}
	frame := RenderFrame(src, span)
	want := "   1 | (define (f x)\n   2 |   (+ x y))\n     |      ^"
	if frame != want {
		t.Fatalf("got:\n%q\nwant:\n%q", frame, want)
	}
}

func TestEvalErrorMessages(t *testing.T) {
	cases := []struct {
		err  *EvalError
		want string
	}{
		{newUndefinedSymbol(Span{Line: 1, Column: 1}, "foo"), `eval error at 1:1: undefined symbol "foo"`},
		{newNotCallable(Span{Line: 1, Column: 1}), "eval error at 1:1: value is not callable"},
		{newDivByZero(Span{Line: 1, Column: 1}), "eval error at 1:1: division by zero"},
	}
	for _, c := range cases {
		if got := c.err.Error(); got != c.want {
			t.Errorf("got %q, want %q", got, c.want)
		}
	}
}
