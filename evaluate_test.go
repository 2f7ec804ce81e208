package lineage

import (
	"errors"
	"sync"
	"testing"

	"github.com/goliatone/go-lineage/pkg/activity"
)

type mapCache struct {
	mu    sync.Mutex
	items map[string]any
}

func newMapCache() *mapCache {
	return &mapCache{items: map[string]any{}}
}

func (c *mapCache) Get(key string) (any, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.items[key]
	return value, ok
}

func (c *mapCache) Set(key string, value any) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.items[key] = value
}

func TestEvaluateDocumentNilRoot(t *testing.T) {
	explanations, err := EvaluateDocument(nil, []Condition{{Name: "any", Expression: "true"}})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if explanations != nil {
		t.Fatalf("nil root should yield no verdicts, got %v", explanations)
	}
}

func TestEvaluateDocumentPassingConditionHasNoExplanation(t *testing.T) {
	document := map[string]any{"flag": true}
	explanations, err := EvaluateDocument(document, []Condition{
		{Name: "flag-on", Expression: "flag"},
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(explanations) != 0 {
		t.Fatalf("passing conditions should not explain, got %d", len(explanations))
	}
}

func TestEvaluateDocumentFailingConditionFallsBackToUnknown(t *testing.T) {
	document := map[string]any{"flag": false}
	explanations, err := EvaluateDocument(document, []Condition{
		{Name: "flag-on", Expression: "flag"},
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(explanations) != 1 {
		t.Fatalf("expected one explanation, got %d", len(explanations))
	}

	explanation := explanations[0]
	if explanation.Condition != "flag-on" {
		t.Fatalf("condition: got %q", explanation.Condition)
	}
	if explanation.RunID == "" {
		t.Fatalf("explanation should carry the tracer run id")
	}

	leaves := explanation.Leaves()
	if len(leaves) != 2 {
		t.Fatalf("fallback should have an unknown node and the whole document, got %d leaves", len(leaves))
	}
	if _, ok := leaves[0].(*UnknownNode); !ok {
		t.Fatalf("expected unknown leaf, got %T", leaves[0])
	}
	object, ok := leaves[1].(*ObjectNode)
	if !ok {
		t.Fatalf("expected object leaf, got %T", leaves[1])
	}
	if !EqualDesignators(object.Designated().Designator(), All) {
		t.Fatalf("fallback terminal should designate the whole document, got %v", object.Designated().Designator())
	}
}

func TestEvaluateDocumentTestOverridesExpression(t *testing.T) {
	called := false
	explanations, err := EvaluateDocument(map[string]any{}, []Condition{
		{
			Name:       "native",
			Expression: "this would not parse (",
			Test: func(EvalContext) (any, error) {
				called = true
				return true, nil
			},
		},
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if !called {
		t.Fatalf("Test should win over Expression")
	}
	if len(explanations) != 0 {
		t.Fatalf("expected no explanations, got %d", len(explanations))
	}
}

func TestEvaluateDocumentNonBooleanVerdict(t *testing.T) {
	_, err := EvaluateDocument(map[string]any{}, []Condition{
		{Name: "numeric", Test: func(EvalContext) (any, error) { return 42, nil }},
	})
	if err == nil {
		t.Fatalf("non-boolean verdicts should fail")
	}
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %T", err)
	}
	if evalErr.Condition != "numeric" {
		t.Fatalf("condition metadata: got %q", evalErr.Condition)
	}
}

func TestEvaluateDocumentNamesAnonymousConditions(t *testing.T) {
	boom := errors.New("boom")
	_, err := EvaluateDocument(map[string]any{}, []Condition{
		{Test: func(EvalContext) (any, error) { return nil, boom }},
	})
	var evalErr *EvaluationError
	if !errors.As(err, &evalErr) {
		t.Fatalf("expected EvaluationError, got %v", err)
	}
	if evalErr.Condition != "condition 0" {
		t.Fatalf("anonymous conditions get positional names, got %q", evalErr.Condition)
	}
	if !errors.Is(err, boom) {
		t.Fatalf("expected base error to unwrap")
	}
}

func TestEvaluateDocumentCustomExplain(t *testing.T) {
	document := map[string]any{}
	marker := NewConstant("evidence")
	explanations, err := EvaluateDocument(document, []Condition{
		{
			Name: "explained",
			Test: func(EvalContext) (any, error) { return false, nil },
			Explain: func(_ EvalContext, kind QueryKind, parent Node, tracer *Tracer) ([]Node, error) {
				return marker.Query(kind, All, parent, tracer), nil
			},
		},
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(explanations) != 1 {
		t.Fatalf("expected one explanation, got %d", len(explanations))
	}
	leaves := explanations[0].Leaves()
	if len(leaves) != 1 {
		t.Fatalf("expected one leaf, got %d", len(leaves))
	}
	object, ok := leaves[0].(*ObjectNode)
	if !ok {
		t.Fatalf("expected object leaf, got %T", leaves[0])
	}
	if !EqualDesignators(object.Designated().Designator(), Constant{Value: "evidence"}) {
		t.Fatalf("unexpected leaf designator: %v", object.Designated().Designator())
	}
}

func TestEvaluateDocumentFunctionCondition(t *testing.T) {
	atLeast := NewFunction("at-least", 2, func(args []any) (any, error) {
		return args[0].(float64) >= args[1].(float64), nil
	}, WithOutputMapper(AllInputs()))

	document := map[string]any{"total": 12.5}
	explanations, err := EvaluateDocument(document, []Condition{
		FunctionCondition("big-enough", atLeast, func(ctx EvalContext) []any {
			doc := ctx.Document.(map[string]any)
			return []any{doc["total"], 50.0}
		}),
	})
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(explanations) != 1 {
		t.Fatalf("expected one explanation, got %d", len(explanations))
	}
	leaves := explanations[0].Leaves()
	if len(leaves) != 2 {
		t.Fatalf("expected both inputs as evidence, got %d leaves", len(leaves))
	}
	for _, leaf := range leaves {
		if _, ok := leaf.(*ObjectNode); !ok {
			t.Fatalf("expected object leaves, got %T", leaf)
		}
	}
}

func TestEvaluateDocumentLogsEachCondition(t *testing.T) {
	var events []QueryLogEvent
	_, err := EvaluateDocument(map[string]any{"flag": true}, []Condition{
		{Name: "flag-on", Expression: "flag"},
		{Name: "flag-off", Expression: "!flag"},
	}, WithQueryLogger(QueryLoggerFunc(func(event QueryLogEvent) {
		events = append(events, event)
	})))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected two evaluation events and one explanation event, got %d", len(events))
	}
	if events[0].Condition != "flag-on" || !events[0].Verdict {
		t.Fatalf("unexpected first event: %+v", events[0])
	}
	if events[1].Condition != "flag-off" || events[1].Verdict {
		t.Fatalf("unexpected second event: %+v", events[1])
	}
	if events[0].Engine != "expr" {
		t.Fatalf("default engine should be expr, got %q", events[0].Engine)
	}
	if events[2].RunID == "" || events[2].Nodes != 2 {
		t.Fatalf("explanation event should carry run id and leaf count: %+v", events[2])
	}
}

func TestEvaluateDocumentProgramCacheReused(t *testing.T) {
	cache := newMapCache()
	document := map[string]any{"flag": true}
	conditions := []Condition{{Name: "flag-on", Expression: "flag"}}

	for i := 0; i < 2; i++ {
		if _, err := EvaluateDocument(document, conditions, WithProgramCache(cache)); err != nil {
			t.Fatalf("evaluate %d: %v", i, err)
		}
	}
	if _, ok := cache.Get("flag"); !ok {
		t.Fatalf("compiled program should be cached under its expression")
	}
}

func TestEvaluateDocumentRegistryFunctionsCallable(t *testing.T) {
	double := NewFunction("double", 1, func(args []any) (any, error) {
		return args[0].(int) * 2, nil
	})
	explanations, err := EvaluateDocument(map[string]any{"n": 21}, []Condition{
		{Name: "doubled", Expression: "double(n) == 42"},
	}, WithFunction(double))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(explanations) != 0 {
		t.Fatalf("expected condition to pass, got %d explanations", len(explanations))
	}
}

func TestEvaluateDocumentEmitsActivityEvents(t *testing.T) {
	capture := &activity.CaptureHook{}
	_, err := EvaluateDocument(map[string]any{}, []Condition{
		{Name: "fails", Test: func(EvalContext) (any, error) { return false, nil }},
	}, WithActivityHooks(activity.Hooks{capture}))
	if err != nil {
		t.Fatalf("evaluate: %v", err)
	}
	if len(capture.Events) != 2 {
		t.Fatalf("expected query-completed and explanation-built events, got %d", len(capture.Events))
	}
	if capture.Events[0].Verb != "lineage.query.completed" {
		t.Fatalf("first verb: got %q", capture.Events[0].Verb)
	}
	if capture.Events[1].Verb != "lineage.explanation.built" {
		t.Fatalf("second verb: got %q", capture.Events[1].Verb)
	}
	if capture.Events[1].Metadata["node_count"] != 2 {
		t.Fatalf("explanation event should carry the leaf count, got %v", capture.Events[1].Metadata["node_count"])
	}
}

func TestExplanationLeavesVisitSharedNodesOnce(t *testing.T) {
	tracer := NewTracer()
	root := tracer.AndNode()
	shared := tracer.ObjectNode(tracer.Designate(All, "shared"))
	left := tracer.AndNode()
	right := tracer.OrNode()
	left.AddChild(shared)
	right.AddChild(shared)
	root.AddChild(left)
	root.AddChild(right)

	explanation := Explanation{Root: root}
	if leaves := explanation.Leaves(); len(leaves) != 1 {
		t.Fatalf("shared nodes should be reported once, got %d", len(leaves))
	}
}
