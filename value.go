package lineage

// QueryKind selects the flavour of a lineage query. Provenance asks which
// inputs produced a value; causality asks which inputs were sufficient to
// cause it. The built-in output mappers treat both identically; custom
// mappers may distinguish them.
type QueryKind int

const (
	// QueryProvenance traces a value back to the inputs it was computed from.
	QueryProvenance QueryKind = iota
	// QueryCausality traces a value back to the inputs that caused it.
	QueryCausality
)

func (k QueryKind) String() string {
	switch k {
	case QueryProvenance:
		return "provenance"
	case QueryCausality:
		return "causality"
	default:
		return "unknown"
	}
}

// Value is the provenance-query protocol: a value wraps a concrete datum and
// can answer, for a designator naming part of itself, which upstream
// designated objects explain that part. Query attaches its findings under
// parent and returns the terminal nodes it added. A nil parent performs no
// work and returns nil.
type Value interface {
	// Concrete returns the underlying datum.
	Concrete() any
	Query(kind QueryKind, d Designator, parent Node, tracer *Tracer) []Node
}

// Lift wraps a raw argument as a Value. Arguments that already carry
// provenance pass through untouched; anything else becomes a constant.
func Lift(arg any) Value {
	if value, ok := arg.(Value); ok {
		return value
	}
	return ConstantValue{value: arg}
}

// ConstantValue is a value with no upstream provenance: it is its own
// explanation.
type ConstantValue struct {
	value any
}

// NewConstant wraps v as a constant value.
func NewConstant(v any) ConstantValue {
	return ConstantValue{value: v}
}

func (v ConstantValue) Concrete() any {
	return v.value
}

// Query attaches a single object node for the constant itself, regardless of
// the designator: constants bottom out every recursive query.
func (v ConstantValue) Query(_ QueryKind, _ Designator, parent Node, tracer *Tracer) []Node {
	if parent == nil || tracer == nil {
		return nil
	}
	node := tracer.ObjectNode(tracer.Designate(Constant{Value: v.value}, v.value))
	parent.AddChild(node)
	return []Node{node}
}

// FunctionReturnValue is the output of an atomic function call. It remembers
// the producing function and the ordered input values so provenance queries
// can be forwarded back onto the inputs.
type FunctionReturnValue struct {
	output   any
	function Function
	inputs   []Value
}

// NewFunctionReturnValue wraps output as the result of calling function on
// inputs. The input sequence is copied.
func NewFunctionReturnValue(output any, function Function, inputs []Value) *FunctionReturnValue {
	return &FunctionReturnValue{
		output:   output,
		function: function,
		inputs:   append([]Value(nil), inputs...),
	}
}

func (v *FunctionReturnValue) Concrete() any {
	return v.output
}

// Function returns the function that produced this value.
func (v *FunctionReturnValue) Function() Function {
	return v.function
}

// Inputs returns a copy of the ordered input values.
func (v *FunctionReturnValue) Inputs() []Value {
	return append([]Value(nil), v.inputs...)
}

// Query decomposes the designator: a ReturnValue or All head concerns the
// output as a whole and is mapped back onto the inputs by the producing
// function's output mapper; an InputArgument head delegates the rest of the
// designator to that input's own query; anything else is unresolved.
func (v *FunctionReturnValue) Query(kind QueryKind, d Designator, parent Node, tracer *Tracer) []Node {
	if parent == nil || tracer == nil {
		return nil
	}
	if d == nil {
		d = ReturnValue
	}
	head := d.Head()
	rest := d.Tail()

	switch head := head.(type) {
	case returnValue, all:
		if mapper := outputMapperOf(v.function); mapper != nil {
			return mapper(kind, rest, parent, tracer, v.inputs)
		}
	case InputArgument:
		if head.Index >= 0 && head.Index < len(v.inputs) {
			return v.inputs[head.Index].Query(kind, rest, parent, tracer)
		}
	}

	unknown := tracer.UnknownNode()
	parent.AddChild(unknown)
	return []Node{unknown}
}

func outputMapperOf(fn Function) OutputMapper {
	if fn == nil {
		return nil
	}
	if provider, ok := fn.(interface{ OutputMapper() OutputMapper }); ok {
		return provider.OutputMapper()
	}
	return nil
}
