package lineage

import (
	"time"

	"github.com/goliatone/go-lineage/pkg/activity"
)

// EvalContext carries the inputs needed when evaluating a condition against a
// document.
type EvalContext struct {
	Document any
	Now      *time.Time
	Args     map[string]any
	Metadata map[string]any
}

func (ctx EvalContext) withDefaultNow() EvalContext {
	if ctx.Now != nil {
		return ctx
	}
	now := time.Now()
	ctx.Now = &now
	return ctx
}

func (ctx EvalContext) timestamp() time.Time {
	ctx = ctx.withDefaultNow()
	return *ctx.Now
}

func (ctx EvalContext) withDefaultMaps() EvalContext {
	if ctx.Args == nil {
		ctx.Args = map[string]any{}
	}
	if ctx.Metadata == nil {
		ctx.Metadata = map[string]any{}
	}
	return ctx
}

// ConditionEvaluator executes boolean expressions against an evaluation
// context.
type ConditionEvaluator interface {
	Evaluate(ctx EvalContext, expr string) (any, error)
	Compile(expr string, opts ...CompileOption) (CompiledCondition, error)
}

// CompiledCondition represents a reusable expression program.
type CompiledCondition interface {
	Evaluate(ctx EvalContext) (any, error)
}

// CompileOption configures evaluator compile behaviour.
type CompileOption interface {
	applyCompileOption(*compileConfig)
}

type compileConfig struct{}

type compileOptionFunc func(*compileConfig)

func (f compileOptionFunc) applyCompileOption(cfg *compileConfig) {
	if f != nil {
		f(cfg)
	}
}

// EvalOption configures document evaluation.
type EvalOption func(*evalConfig)

type evalConfig struct {
	evaluator     ConditionEvaluator
	programCache  ProgramCache
	functions     *FunctionRegistry
	logger        QueryLogger
	kind          QueryKind
	activityHooks activity.Hooks
}

func applyEvalOptions(opts []EvalOption) evalConfig {
	cfg := evalConfig{kind: QueryProvenance}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithConditionEvaluator configures the default expression engine used for
// conditions that do not bring their own.
func WithConditionEvaluator(e ConditionEvaluator) EvalOption {
	return func(cfg *evalConfig) {
		cfg.evaluator = e
	}
}

// WithQueryKind selects the flavour of the provenance queries issued while
// building explanation graphs.
func WithQueryKind(kind QueryKind) EvalOption {
	return func(cfg *evalConfig) {
		cfg.kind = kind
	}
}

// WithActivityHooks attaches activity hooks notified as explanations are
// built. Hooks are cloned and nil entries dropped.
func WithActivityHooks(hooks activity.Hooks) EvalOption {
	normalized := cloneActivityHooks(hooks)
	return func(cfg *evalConfig) {
		cfg.activityHooks = normalized
	}
}

func cloneActivityHooks(hooks activity.Hooks) activity.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make([]activity.Hook, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return activity.Hooks(normalized)
}

func (cfg *evalConfig) queryLogger() QueryLogger {
	if cfg.logger != nil {
		return cfg.logger
	}
	return noopQueryLogger{}
}

func engineName(e ConditionEvaluator) string {
	switch e.(type) {
	case nil:
		return "unknown"
	case *exprEngine:
		return "expr"
	case *celEngine:
		return "cel"
	default:
		if isJSEngine(e) {
			return "js"
		}
		return "custom"
	}
}
