package lineage

import "testing"

func TestAtomicDesignatorHeadTail(t *testing.T) {
	cases := []struct {
		name string
		d    Designator
		head Designator
		tail Designator
		str  string
	}{
		{"nothing", Nothing, Nothing, Nothing, "nothing"},
		{"all", All, All, Nothing, "everything"},
		{"return value", ReturnValue, ReturnValue, Nothing, "the return value"},
		{"input", Input(2), Input(2), Nothing, "input 2"},
		{"constant", Constant{Value: 42}, Constant{Value: 42}, Nothing, "constant 42"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if !EqualDesignators(tc.d.Head(), tc.head) {
				t.Fatalf("head: got %v, want %v", tc.d.Head(), tc.head)
			}
			if !EqualDesignators(tc.d.Tail(), tc.tail) {
				t.Fatalf("tail: got %v, want %v", tc.d.Tail(), tc.tail)
			}
			if tc.d.String() != tc.str {
				t.Fatalf("string: got %q, want %q", tc.d, tc.str)
			}
		})
	}
}

func TestTailPastExhaustionStaysNothing(t *testing.T) {
	d := NewCompound(ReturnValue, Input(1)).Tail()
	for i := 0; i < 4; i++ {
		d = d.Tail()
		if !EqualDesignators(d, Nothing) {
			t.Fatalf("tail %d: got %v, want Nothing", i, d)
		}
	}
}

func TestEmptyCompound(t *testing.T) {
	c := NewCompound()
	if c.Size() != 0 {
		t.Fatalf("size: got %d, want 0", c.Size())
	}
	if !EqualDesignators(c.Head(), Nothing) {
		t.Fatalf("head: got %v, want Nothing", c.Head())
	}
	if !EqualDesignators(c.Tail(), All) {
		t.Fatalf("tail: got %v, want All", c.Tail())
	}
	if c.String() != "nothing" {
		t.Fatalf("string: got %q", c)
	}
}

func TestSingleElementCompound(t *testing.T) {
	c := NewCompound(Input(0))
	if c.Size() != 1 {
		t.Fatalf("size: got %d, want 1", c.Size())
	}
	if !EqualDesignators(c.Head(), Input(0)) {
		t.Fatalf("head: got %v", c.Head())
	}
	if !EqualDesignators(c.Tail(), Nothing) {
		t.Fatalf("tail: got %v, want Nothing", c.Tail())
	}
}

func TestCompoundHeadTailEnumeration(t *testing.T) {
	// Innermost first: "input 2 of input 1 of the return value".
	c := NewCompound(ReturnValue, Input(1), Input(2))
	if c.Size() != 3 {
		t.Fatalf("size: got %d, want 3", c.Size())
	}
	if c.String() != "input 2 of input 1 of the return value" {
		t.Fatalf("string: got %q", c)
	}

	want := []Designator{Input(2), Input(1), ReturnValue}
	var d Designator = c
	for i, head := range want {
		if !EqualDesignators(d.Head(), head) {
			t.Fatalf("step %d: head %v, want %v", i, d.Head(), head)
		}
		d = d.Tail()
	}
	if !EqualDesignators(d, Nothing) {
		t.Fatalf("exhausted tail: got %v, want Nothing", d)
	}
}

func TestThreeElementCompoundTail(t *testing.T) {
	c := NewCompound(All, All, All)
	if !EqualDesignators(c.Head(), All) {
		t.Fatalf("head: got %v, want All", c.Head())
	}
	tail, ok := c.Tail().(*Compound)
	if !ok {
		t.Fatalf("tail should stay compound, got %T", c.Tail())
	}
	if tail.Size() != 2 {
		t.Fatalf("tail size: got %d, want 2", tail.Size())
	}
}

func TestTwoElementCompoundTailCollapses(t *testing.T) {
	c := NewCompound(ReturnValue, Input(0))
	tail := c.Tail()
	if _, ok := tail.(*Compound); ok {
		t.Fatalf("two-element tail should collapse to the atomic designator, got %T", tail)
	}
	if !EqualDesignators(tail, ReturnValue) {
		t.Fatalf("tail: got %v, want ReturnValue", tail)
	}
}

func TestCompoundNeverNests(t *testing.T) {
	inner := NewCompound(ReturnValue, Input(1))
	outer := NewCompound(inner, Input(3))
	if outer.Size() != 3 {
		t.Fatalf("size: got %d, want %d", outer.Size(), 3)
	}
	for i, d := 0, Designator(outer); i < outer.Size(); i, d = i+1, d.Tail() {
		if _, ok := d.Head().(*Compound); ok {
			t.Fatalf("element %d is a nested compound", i)
		}
	}

	appended := inner.Append(NewCompound(Input(2), Input(3)))
	if appended.Size() != 4 {
		t.Fatalf("append size: got %d, want 4", appended.Size())
	}
	if appended.String() != "input 3 of input 2 of input 1 of the return value" {
		t.Fatalf("append string: got %q", appended)
	}
}

func TestAppendDoesNotMutateReceiver(t *testing.T) {
	base := NewCompound(ReturnValue, Input(0))
	grown := base.Append(Input(1))
	if base.Size() != 2 {
		t.Fatalf("receiver size changed: got %d, want 2", base.Size())
	}
	if grown.Size() != 3 {
		t.Fatalf("result size: got %d, want 3", grown.Size())
	}
	if !EqualDesignators(base.Head(), Input(0)) {
		t.Fatalf("receiver head changed: got %v", base.Head())
	}
}

func TestEqualDesignators(t *testing.T) {
	cases := []struct {
		name  string
		a, b  Designator
		equal bool
	}{
		{"same atom", All, All, true},
		{"different atoms", All, Nothing, false},
		{"same input", Input(3), Input(3), true},
		{"different input", Input(3), Input(4), false},
		{"same constant", Constant{Value: "x"}, Constant{Value: "x"}, true},
		{"different constant", Constant{Value: "x"}, Constant{Value: "y"}, false},
		{"equal compounds", NewCompound(ReturnValue, Input(1)), NewCompound(ReturnValue, Input(1)), true},
		{"different lengths", NewCompound(ReturnValue, Input(1)), NewCompound(ReturnValue), false},
		{"compound vs atom", NewCompound(ReturnValue), ReturnValue, false},
		{"both nil", nil, nil, true},
		{"one nil", nil, All, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := EqualDesignators(tc.a, tc.b); got != tc.equal {
				t.Fatalf("EqualDesignators(%v, %v) = %v, want %v", tc.a, tc.b, got, tc.equal)
			}
		})
	}
}
