package scm

import "testing"

func TestEqIdentityAndContent(t *testing.T) {
	h := NewHeap(2.0, 1024)

	if !Eq(Nil, Nil) {
		t.Error("Nil should eq Nil")
	}
	if !Eq(Integer(42), Integer(42)) {
		t.Error("equal integers should be eq")
	}
	if Eq(Integer(42), Integer(43)) {
		t.Error("different integers should not be eq")
	}
	if !Eq(String("abc"), String("abc")) {
		t.Error("equal-content strings should be eq")
	}
	if !Eq(Symbol("foo"), Symbol("foo")) {
		t.Error("same-named symbols should be eq (interned)")
	}
	if Eq(Integer(1), Float(1.0)) {
		t.Error("integer and float of same magnitude should not be eq (different kinds)")
	}

	c1 := h.NewCons(Integer(1), Nil)
	c2 := h.NewCons(Integer(1), Nil)
	if Eq(c1, c2) {
		t.Error("distinct cons cells with equal contents should not be eq")
	}
	if !Eq(c1, c1) {
		t.Error("a cons cell should be eq to itself")
	}
}

func TestTruthiness(t *testing.T) {
	if False.IsTruthy() {
		t.Error("#f must be the sole false value")
	}
	if !True.IsTruthy() {
		t.Error("#t must be truthy")
	}
	if !Nil.IsTruthy() {
		t.Error("'() must be truthy, unlike Scheme dialects that treat it as false")
	}
	if !Integer(0).IsTruthy() {
		t.Error("0 must be truthy")
	}
}

func TestListRoundTrip(t *testing.T) {
	h := NewHeap(2.0, 1024)
	items := []Value{Integer(1), Integer(2), Integer(3)}
	list := FromSlice(h, items)
	got, ok := ToList(list)
	if !ok {
		t.Fatal("expected a proper list")
	}
	if len(got) != 3 || got[0].AsInteger() != 1 || got[2].AsInteger() != 3 {
		t.Fatalf("round trip mismatch: %v", got)
	}
}

func TestToListImproperList(t *testing.T) {
	h := NewHeap(2.0, 1024)
	dotted := h.NewCons(Integer(1), Integer(2))
	_, ok := ToList(dotted)
	if ok {
		t.Fatal("a dotted pair is not a proper list")
	}
}
