//go:build !js_eval

package lineage

// NewJSEngine is unavailable without the js_eval build tag.
func NewJSEngine(opts ...JSEngineOption) ConditionEvaluator {
	_ = applyJSEngineOptions(opts)
	return nil
}

func jsEngineAvailable() bool {
	return false
}

func isJSEngine(ConditionEvaluator) bool {
	return false
}
