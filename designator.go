package lineage

import (
	"fmt"
	"strings"
)

// Designator names a part of an object: the whole thing, nothing at all, a
// function's return value, one of its inputs, or a literal constant. The set
// of variants is closed; operations over designators switch exhaustively.
type Designator interface {
	// Head returns the outermost access step of the designator. For atomic
	// designators this is the designator itself.
	Head() Designator
	// Tail returns the designator with its outermost step removed. For atomic
	// designators this is Nothing; calling Tail past exhaustion keeps
	// returning Nothing.
	Tail() Designator
	String() string

	isDesignator()
}

type nothing struct{}
type all struct{}
type returnValue struct{}

// Nothing designates no part of an object.
var Nothing Designator = nothing{}

// All designates an object in its entirety.
var All Designator = all{}

// ReturnValue designates the output of a function call.
var ReturnValue Designator = returnValue{}

func (nothing) Head() Designator { return Nothing }
func (nothing) Tail() Designator { return Nothing }
func (nothing) String() string   { return "nothing" }
func (nothing) isDesignator()    {}

func (all) Head() Designator { return All }
func (all) Tail() Designator { return Nothing }
func (all) String() string   { return "everything" }
func (all) isDesignator()    {}

func (returnValue) Head() Designator { return ReturnValue }
func (returnValue) Tail() Designator { return Nothing }
func (returnValue) String() string   { return "the return value" }
func (returnValue) isDesignator()    {}

// InputArgument designates the n-th input of a function call, zero-based.
type InputArgument struct {
	Index int
}

// Input is shorthand for an InputArgument designator.
func Input(index int) InputArgument {
	return InputArgument{Index: index}
}

func (d InputArgument) Head() Designator { return d }
func (d InputArgument) Tail() Designator { return Nothing }

func (d InputArgument) String() string {
	return fmt.Sprintf("input %d", d.Index)
}

func (InputArgument) isDesignator() {}

// Constant designates a literal value that has no further provenance.
type Constant struct {
	Value any
}

func (d Constant) Head() Designator { return d }
func (d Constant) Tail() Designator { return Nothing }

func (d Constant) String() string {
	return fmt.Sprintf("constant %v", d.Value)
}

func (Constant) isDesignator() {}

// Compound chains atomic designators into a nested access path, e.g. "input 2
// of the return value". Elements are stored innermost first; the head is the
// last element appended. A compound never contains another compound: composing
// with one splices its elements in, keeping the structure flat.
type Compound struct {
	elements []Designator
}

// NewCompound builds a compound from the given designators, innermost first.
// Compound arguments are flattened into their elements.
func NewCompound(designators ...Designator) *Compound {
	c := &Compound{}
	for _, d := range designators {
		c.elements = appendFlattened(c.elements, d)
	}
	return c
}

// Append returns a new compound with d composed on as the outermost step.
// Appending a compound splices its elements, never nesting.
func (c *Compound) Append(d Designator) *Compound {
	elements := make([]Designator, len(c.elements), len(c.elements)+1)
	copy(elements, c.elements)
	return &Compound{elements: appendFlattened(elements, d)}
}

func appendFlattened(elements []Designator, d Designator) []Designator {
	if d == nil {
		return elements
	}
	if compound, ok := d.(*Compound); ok {
		for _, element := range compound.elements {
			elements = appendFlattened(elements, element)
		}
		return elements
	}
	return append(elements, d)
}

// Size reports the number of atomic elements in the compound.
func (c *Compound) Size() int {
	if c == nil {
		return 0
	}
	return len(c.elements)
}

// Head returns the outermost (last appended) element, or Nothing for an empty
// compound.
func (c *Compound) Head() Designator {
	if c == nil || len(c.elements) == 0 {
		return Nothing
	}
	return c.elements[len(c.elements)-1]
}

// Tail returns the compound with its outermost element removed. An empty
// compound yields All, a single-element compound yields Nothing, and a
// two-element compound collapses to its remaining atomic designator.
func (c *Compound) Tail() Designator {
	switch {
	case c == nil || len(c.elements) == 0:
		return All
	case len(c.elements) == 1:
		return Nothing
	case len(c.elements) == 2:
		return c.elements[0]
	default:
		rest := make([]Designator, len(c.elements)-1)
		copy(rest, c.elements[:len(c.elements)-1])
		return &Compound{elements: rest}
	}
}

func (c *Compound) String() string {
	if c == nil || len(c.elements) == 0 {
		return Nothing.String()
	}
	parts := make([]string, 0, len(c.elements))
	for i := len(c.elements) - 1; i >= 0; i-- {
		parts = append(parts, c.elements[i].String())
	}
	return strings.Join(parts, " of ")
}

func (*Compound) isDesignator() {}

// EqualDesignators reports structural equality between two designators.
// Compounds compare element by element; atomic designators compare by kind
// and payload.
func EqualDesignators(a, b Designator) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	switch left := a.(type) {
	case nothing, all, returnValue:
		return a == b
	case InputArgument:
		right, ok := b.(InputArgument)
		return ok && left.Index == right.Index
	case Constant:
		right, ok := b.(Constant)
		return ok && objectsEqual(left.Value, right.Value)
	case *Compound:
		right, ok := b.(*Compound)
		if !ok || left.Size() != right.Size() {
			return false
		}
		for i := range left.elements {
			if !EqualDesignators(left.elements[i], right.elements[i]) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
