package scm

import "testing"

func TestEnvDefineLookupSet(t *testing.T) {
	h := NewHeap(2.0, 1024)
	root := h.Global()
	root.Define("x", Integer(1))

	v, ok := root.Lookup("x")
	if !ok || v.AsInteger() != 1 {
		t.Fatalf("expected x=1, got %v ok=%v", v, ok)
	}

	child := root.Child()
	if _, ok := child.Lookup("x"); !ok {
		t.Fatal("a child frame must see its parent's bindings")
	}
	child.Define("x", Integer(2))
	if v, _ := child.Lookup("x"); v.AsInteger() != 2 {
		t.Fatal("a child's own define should shadow the parent's binding")
	}
	if v, _ := root.Lookup("x"); v.AsInteger() != 1 {
		t.Fatal("shadowing in a child frame must not mutate the parent's binding")
	}

	if !child.Set("x", Integer(3)) {
		t.Fatal("set! on a bound name must succeed")
	}
	if v, _ := child.Lookup("x"); v.AsInteger() != 3 {
		t.Fatal("set! must mutate the nearest binding")
	}

	if child.Set("never-defined", Integer(0)) {
		t.Fatal("set! on an unbound name must fail")
	}
}

func TestEnvSetMutatesOuterFrameThroughChild(t *testing.T) {
	h := NewHeap(2.0, 1024)
	root := h.Global()
	root.Define("y", Integer(10))
	child := root.Child()

	if !child.Set("y", Integer(20)) {
		t.Fatal("set! should reach through to the parent's binding")
	}
	if v, _ := root.Lookup("y"); v.AsInteger() != 20 {
		t.Fatal("set! through a child must mutate the parent frame's binding in place")
	}
}
