package lineage

import "fmt"

// ExplainFunc decomposes a failed condition into provenance queries,
// attaching its findings under parent and returning the terminal nodes
// added.
type ExplainFunc func(ctx EvalContext, kind QueryKind, parent Node, tracer *Tracer) ([]Node, error)

// Condition is a named boolean check over a document. Either Expression is
// evaluated by an engine, or Test runs directly; Test wins when both are set.
// Conditions without an Explain hook cannot decompose their own provenance
// and fall back to an unknown-node explanation.
type Condition struct {
	Name       string
	Expression string
	// Engine overrides the evaluation run's default engine for this
	// condition.
	Engine ConditionEvaluator
	// Test evaluates the condition directly, bypassing expression engines.
	Test func(ctx EvalContext) (any, error)
	// Explain builds the provenance graph for a false verdict.
	Explain ExplainFunc
}

// FunctionCondition builds a condition from a lineage function: the verdict
// is the function's concrete result, and the explanation is the real
// provenance query against its return value. bind extracts the function's
// raw arguments from the evaluation context; a nil bind passes no arguments.
func FunctionCondition(name string, fn Function, bind func(ctx EvalContext) []any) Condition {
	compute := func(ctx EvalContext) (Value, error) {
		var args []any
		if bind != nil {
			args = bind(ctx)
		}
		values := make([]Value, len(args))
		for i, arg := range args {
			values[i] = Lift(arg)
		}
		return fn.Compute(values)
	}
	return Condition{
		Name: name,
		Test: func(ctx EvalContext) (any, error) {
			value, err := compute(ctx)
			if err != nil {
				return nil, err
			}
			return value.Concrete(), nil
		},
		Explain: func(ctx EvalContext, kind QueryKind, parent Node, tracer *Tracer) ([]Node, error) {
			value, err := compute(ctx)
			if err != nil {
				return nil, err
			}
			return value.Query(kind, ReturnValue, parent, tracer), nil
		},
	}
}

// asVerdict coerces a condition result to a boolean. Anything other than a
// bool (or a Value wrapping one) is a contract violation.
func asVerdict(result any) (bool, error) {
	switch verdict := result.(type) {
	case bool:
		return verdict, nil
	case Value:
		return asVerdict(verdict.Concrete())
	default:
		return false, fmt.Errorf("lineage: condition produced %T, want bool", result)
	}
}
