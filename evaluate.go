package lineage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-lineage/pkg/activity"
)

// ErrNoEngine indicates no condition engine could be resolved.
var ErrNoEngine = errors.New("lineage: condition engine not configured")

// Explanation is the outcome of one failed condition: a traceability graph
// rooted at Root, built by the tracer run identified by RunID.
type Explanation struct {
	Condition string
	RunID     string
	Root      Node
}

// String renders the graph in its diagnostic textual form.
func (e Explanation) String() string {
	if e.Root == nil {
		return ""
	}
	return e.Root.String()
}

// Leaves returns the terminal nodes of the explanation graph in pre-order.
func (e Explanation) Leaves() []Node {
	if e.Root == nil {
		return nil
	}
	var leaves []Node
	var walk func(n Node)
	seen := map[int]struct{}{}
	walk = func(n Node) {
		if _, ok := seen[n.ID()]; ok {
			return
		}
		seen[n.ID()] = struct{}{}
		children := n.Children()
		if len(children) == 0 {
			leaves = append(leaves, n)
			return
		}
		for _, child := range children {
			walk(child)
		}
	}
	walk(e.Root)
	return leaves
}

// EvaluateDocument checks each condition against root, in order, and returns
// one explanation graph per condition that evaluates to false. A nil root
// yields no verdict for any condition. Each explanation is built by its own
// tracer, so node identifiers restart per condition and caching never leaks
// across runs.
func EvaluateDocument(root any, conditions []Condition, opts ...EvalOption) ([]Explanation, error) {
	if root == nil {
		return nil, nil
	}
	cfg := applyEvalOptions(opts)

	var explanations []Explanation
	for i, condition := range conditions {
		explanation, failed, err := evaluateCondition(root, condition, i, &cfg)
		if err != nil {
			return explanations, err
		}
		if failed {
			explanations = append(explanations, explanation)
		}
	}
	return explanations, nil
}

func evaluateCondition(root any, condition Condition, index int, cfg *evalConfig) (Explanation, bool, error) {
	name := condition.Name
	if name == "" {
		name = fmt.Sprintf("condition %d", index)
	}
	ctx := EvalContext{Document: root}.withDefaultNow().withDefaultMaps()

	engine := condition.Engine
	label := "native"
	var result any
	var err error
	start := time.Now()
	switch {
	case condition.Test != nil:
		result, err = condition.Test(ctx)
	default:
		if engine == nil {
			engine, err = cfg.resolveEngine()
			if err != nil {
				return Explanation{}, false, err
			}
		}
		label = engineName(engine)
		result, err = engine.Evaluate(ctx, condition.Expression)
	}
	duration := time.Since(start)

	var verdict bool
	if err == nil {
		verdict, err = asVerdict(result)
	}
	err = wrapEvaluationError(label, condition.Expression, name, err)
	cfg.queryLogger().LogQuery(QueryLogEvent{
		Engine:    label,
		Expr:      condition.Expression,
		Condition: name,
		Duration:  duration,
		Verdict:   verdict,
		Err:       err,
	})
	if err != nil {
		return Explanation{}, false, err
	}
	emitQueryEvent(cfg, activity.BuildQueryCompletedEvent, name, condition.Expression, label, "", verdict, 0)
	if verdict {
		return Explanation{}, false, nil
	}

	explanation, err := explainFailure(root, condition, name, cfg)
	if err != nil {
		return Explanation{}, false, err
	}
	emitQueryEvent(cfg, activity.BuildExplanationBuiltEvent, name, condition.Expression, label,
		explanation.RunID, verdict, len(explanation.Leaves()))
	return explanation, true, nil
}

func explainFailure(root any, condition Condition, name string, cfg *evalConfig) (Explanation, error) {
	tracer := NewTracer(WithTracerLogger(cfg.queryLogger()))
	graphRoot := tracer.AndNode()

	if condition.Explain != nil {
		ctx := EvalContext{Document: root}.withDefaultNow().withDefaultMaps()
		if _, err := condition.Explain(ctx, cfg.kind, graphRoot, tracer); err != nil {
			return Explanation{}, wrapEvaluationError("", condition.Expression, name, err)
		}
	} else {
		// The condition cannot decompose its own provenance: the whole
		// document is implicated, through an unresolved path.
		unknown := tracer.UnknownNode()
		graphRoot.AddChild(unknown)
		graphRoot.AddChild(tracer.ObjectNode(tracer.Designate(All, root)))
	}

	explanation := Explanation{
		Condition: name,
		RunID:     tracer.RunID(),
		Root:      graphRoot,
	}
	tracer.logQuery(QueryLogEvent{
		Condition: name,
		Expr:      condition.Expression,
		Nodes:     len(explanation.Leaves()),
	})
	return explanation, nil
}

func (cfg *evalConfig) resolveEngine() (ConditionEvaluator, error) {
	if cfg.evaluator != nil {
		return cfg.evaluator, nil
	}
	var exprOpts []ExprEngineOption
	if cfg.programCache != nil {
		exprOpts = append(exprOpts, ExprWithProgramCache(cfg.programCache))
	}
	if cfg.functions != nil {
		exprOpts = append(exprOpts, ExprWithFunctionRegistry(cfg.functions))
	}
	engine := NewExprEngine(exprOpts...)
	if engine == nil {
		return nil, ErrNoEngine
	}
	cfg.evaluator = engine
	return engine, nil
}

func emitQueryEvent(cfg *evalConfig, build func(activity.QueryEventInput) activity.Event,
	condition, expression, engine, runID string, verdict bool, nodeCount int) {
	if !cfg.activityHooks.Enabled() {
		return
	}
	v := verdict
	_ = cfg.activityHooks.Notify(context.Background(), build(activity.QueryEventInput{
		Condition:  condition,
		Expression: expression,
		Engine:     engine,
		RunID:      runID,
		Verdict:    &v,
		NodeCount:  nodeCount,
	}))
}
