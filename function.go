package lineage

// Function computes a value from an ordered sequence of input values and
// carries a fixed arity. Compute must receive exactly Arity values.
type Function interface {
	Name() string
	Arity() int
	Compute(values []Value) (Value, error)
}

// OutputMapper is a function-specific policy answering "which part of which
// input explains designator d of my output". It attaches its findings under
// parent and returns the terminal nodes added. The framework only supplies
// the node-building primitives; each function documents its own policy.
type OutputMapper func(kind QueryKind, d Designator, parent Node, tracer *Tracer, inputs []Value) []Node

// AllInputs explains any part of the output through the conjunction of every
// input: all arguments are jointly required (e.g. arithmetic combinations).
func AllInputs() OutputMapper {
	return func(kind QueryKind, _ Designator, parent Node, tracer *Tracer, inputs []Value) []Node {
		and := tracer.AndNode()
		var leaves []Node
		for _, input := range inputs {
			leaves = append(leaves, input.Query(kind, All, and, tracer)...)
		}
		parent.AddChild(and)
		return leaves
	}
}

// AnyInput explains any part of the output through the disjunction of the
// inputs: any one argument suffices (e.g. equivalent alternative
// computations).
func AnyInput() OutputMapper {
	return func(kind QueryKind, _ Designator, parent Node, tracer *Tracer, inputs []Value) []Node {
		or := tracer.OrNode()
		var leaves []Node
		for _, input := range inputs {
			leaves = append(leaves, input.Query(kind, All, or, tracer)...)
		}
		parent.AddChild(or)
		return leaves
	}
}

// InputsAt explains the output through the listed inputs only, jointly
// required. Out-of-range indexes resolve to an unknown node.
func InputsAt(indexes ...int) OutputMapper {
	picked := append([]int(nil), indexes...)
	return func(kind QueryKind, rest Designator, parent Node, tracer *Tracer, inputs []Value) []Node {
		if len(picked) == 1 {
			index := picked[0]
			if index < 0 || index >= len(inputs) {
				unknown := tracer.UnknownNode()
				parent.AddChild(unknown)
				return []Node{unknown}
			}
			return inputs[index].Query(kind, rest, parent, tracer)
		}
		and := tracer.AndNode()
		var leaves []Node
		for _, index := range picked {
			if index < 0 || index >= len(inputs) {
				unknown := tracer.UnknownNode()
				and.AddChild(unknown)
				leaves = append(leaves, unknown)
				continue
			}
			leaves = append(leaves, inputs[index].Query(kind, All, and, tracer)...)
		}
		parent.AddChild(and)
		return leaves
	}
}

// FunctionOption configures an AtomicFunction.
type FunctionOption func(*AtomicFunction)

// WithOutputMapper sets the provenance policy mapping output parts back onto
// inputs. Functions without a mapper answer output queries with an unknown
// node.
func WithOutputMapper(mapper OutputMapper) FunctionOption {
	return func(f *AtomicFunction) {
		f.mapper = mapper
	}
}

// AtomicFunction is a primitive computation with a fixed arity. It lifts raw
// arguments to values, validates arity, applies the primitive, and wraps the
// result so downstream queries can trace it back to the inputs.
type AtomicFunction struct {
	name   string
	arity  int
	apply  func(args []any) (any, error)
	mapper OutputMapper
}

// NewFunction constructs an atomic function. apply receives the concrete
// arguments in order and returns the raw result.
func NewFunction(name string, arity int, apply func(args []any) (any, error), opts ...FunctionOption) *AtomicFunction {
	f := &AtomicFunction{
		name:  name,
		arity: arity,
		apply: apply,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(f)
		}
	}
	return f
}

func (f *AtomicFunction) Name() string {
	return f.name
}

func (f *AtomicFunction) Arity() int {
	return f.arity
}

// OutputMapper exposes the configured provenance policy to return values.
func (f *AtomicFunction) OutputMapper() OutputMapper {
	return f.mapper
}

// Evaluate lifts each raw argument to a Value and delegates to Compute.
func (f *AtomicFunction) Evaluate(args []any) (Value, error) {
	values := make([]Value, len(args))
	for i, arg := range args {
		values[i] = Lift(arg)
	}
	return f.Compute(values)
}

// Compute validates arity, applies the primitive to the concrete arguments,
// and wraps the raw result together with the original inputs. A primitive
// that already produced a Value is returned as-is.
func (f *AtomicFunction) Compute(values []Value) (Value, error) {
	if len(values) != f.arity {
		return nil, &ArityError{Function: f.name, Want: f.arity, Got: len(values)}
	}
	args := make([]any, len(values))
	for i, value := range values {
		args[i] = value.Concrete()
	}
	result, err := f.apply(args)
	if err != nil {
		return nil, wrapComputeError(f.name, err)
	}
	if value, ok := result.(Value); ok {
		return value, nil
	}
	return NewFunctionReturnValue(result, f, values), nil
}
