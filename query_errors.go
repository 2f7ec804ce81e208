package lineage

import (
	"errors"
	"fmt"
	"strings"
)

// ArityError reports a function invoked with the wrong number of values. It
// is fatal to the single Compute call that raised it.
type ArityError struct {
	Function string
	Want     int
	Got      int
}

func (e *ArityError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("lineage: function %q expects %d values, got %d", e.Function, e.Want, e.Got)
}

func wrapComputeError(function string, err error) error {
	if err == nil {
		return nil
	}
	var arityErr *ArityError
	if errors.As(err, &arityErr) {
		return err
	}
	if strings.HasPrefix(err.Error(), "lineage:") {
		return err
	}
	return fmt.Errorf("lineage: function %q: %w", function, err)
}

// EvaluationError captures condition-engine metadata alongside the
// originating error.
type EvaluationError struct {
	Engine    string
	Expr      string
	Condition string
	Err       error
}

func (e *EvaluationError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("lineage: %s engine %s condition=%s: %v", e.Engine, describeExpression(e.Expr), e.Condition, e.Err)
}

func (e *EvaluationError) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

func describeExpression(expr string) string {
	if expr == "" {
		return "expr=<empty>"
	}
	return fmt.Sprintf("expr=%q", expr)
}

func wrapEngineError(engine string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		return err
	}

	if strings.HasPrefix(err.Error(), "lineage:") {
		return err
	}
	return fmt.Errorf("lineage: %s engine: %w", engine, err)
}

func wrapEvaluationError(engine, expr, condition string, err error) error {
	if err == nil {
		return nil
	}

	var evalErr *EvaluationError
	if errors.As(err, &evalErr) {
		if evalErr.Engine == "" {
			evalErr.Engine = engine
		}
		if evalErr.Expr == "" {
			evalErr.Expr = expr
		}
		if evalErr.Condition == "" {
			evalErr.Condition = condition
		}
		return evalErr
	}

	return &EvaluationError{
		Engine:    engine,
		Expr:      expr,
		Condition: condition,
		Err:       err,
	}
}
