package lineage

// ProgramCache stores compiled expression programs keyed by expression
// strings.
type ProgramCache interface {
	Get(key string) (any, bool)
	Set(key string, value any)
}

// WithProgramCache registers a program cache shared by the condition engines.
func WithProgramCache(cache ProgramCache) EvalOption {
	return func(cfg *evalConfig) {
		cfg.programCache = cache
	}
}
