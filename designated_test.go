package lineage

import (
	"strings"
	"testing"
)

type fragment struct {
	path  string
	value string
}

func (f *fragment) Path() string { return f.path }

type fragmentByValue struct {
	value string
}

func (f fragmentByValue) Equal(other any) bool {
	o, ok := other.(fragmentByValue)
	return ok && o.value == f.value
}

func TestDesignatedObjectDefaultsNilDesignatorToNothing(t *testing.T) {
	do := NewDesignatedObject(nil, "payload")
	if !EqualDesignators(do.Designator(), Nothing) {
		t.Fatalf("designator: got %v, want Nothing", do.Designator())
	}
}

func TestDesignatedObjectCopiesContext(t *testing.T) {
	markers := []any{"iteration-1"}
	do := NewDesignatedObject(All, "payload", markers...)
	markers[0] = "mutated"
	if got := do.Context(); got[0] != "iteration-1" {
		t.Fatalf("context leaked caller mutation: %v", got)
	}
}

func TestDesignatedObjectEqual(t *testing.T) {
	shared := &fragment{path: "body[1]"}
	other := &fragment{path: "body[1]"}

	cases := []struct {
		name  string
		a, b  DesignatedObject
		equal bool
	}{
		{
			"same designator and object identity",
			NewDesignatedObject(All, shared),
			NewDesignatedObject(All, shared),
			true,
		},
		{
			"pointer objects compare by identity",
			NewDesignatedObject(All, shared),
			NewDesignatedObject(All, other),
			false,
		},
		{
			"different designators",
			NewDesignatedObject(All, shared),
			NewDesignatedObject(Nothing, shared),
			false,
		},
		{
			"equaler objects compare by value",
			NewDesignatedObject(All, fragmentByValue{value: "a"}),
			NewDesignatedObject(All, fragmentByValue{value: "a"}),
			true,
		},
		{
			"both objects nil",
			NewDesignatedObject(All, nil),
			NewDesignatedObject(All, nil),
			true,
		},
		{
			"one object nil",
			NewDesignatedObject(All, nil),
			NewDesignatedObject(All, shared),
			false,
		},
		{
			"matching context",
			NewDesignatedObject(All, shared, 1, "x"),
			NewDesignatedObject(All, shared, 1, "x"),
			true,
		},
		{
			"context length differs",
			NewDesignatedObject(All, shared, 1),
			NewDesignatedObject(All, shared, 1, 2),
			false,
		},
		{
			"context order matters",
			NewDesignatedObject(All, shared, 1, 2),
			NewDesignatedObject(All, shared, 2, 1),
			false,
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := tc.a.Equal(tc.b); got != tc.equal {
				t.Fatalf("Equal = %v, want %v", got, tc.equal)
			}
			if got := tc.b.Equal(tc.a); got != tc.equal {
				t.Fatalf("Equal not symmetric: got %v, want %v", got, tc.equal)
			}
		})
	}
}

func TestDesignatedObjectStringUsesPath(t *testing.T) {
	do := NewDesignatedObject(All, &fragment{path: "body[1]/section[2]"})
	if got := do.String(); got != "everything of body[1]/section[2]" {
		t.Fatalf("string: got %q", got)
	}
}

func TestDesignatedObjectStringIncludesContext(t *testing.T) {
	do := NewDesignatedObject(Input(0), "x", "pass-2")
	if got := do.String(); !strings.Contains(got, "pass-2") {
		t.Fatalf("string should mention context markers, got %q", got)
	}
}

func TestObjectsEqualLadder(t *testing.T) {
	m := map[string]int{"a": 1}
	s := []int{1, 2}

	if !objectsEqual(7, 7) {
		t.Fatalf("comparable values should use ==")
	}
	if objectsEqual(7, int64(7)) {
		t.Fatalf("different dynamic types should not be equal")
	}
	if !objectsEqual(m, m) {
		t.Fatalf("same map should be identical")
	}
	if objectsEqual(m, map[string]int{"a": 1}) {
		t.Fatalf("distinct maps should compare by backing pointer")
	}
	if !objectsEqual(s, s) {
		t.Fatalf("same slice should be identical")
	}
	if objectsEqual(s, []int{1, 2}) {
		t.Fatalf("distinct slices should compare by backing pointer")
	}
}
