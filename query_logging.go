package lineage

import "time"

// QueryLogEvent describes one condition evaluation or provenance query for
// logging.
type QueryLogEvent struct {
	Engine    string
	Expr      string
	Condition string
	RunID     string
	Duration  time.Duration
	Nodes     int
	Verdict   bool
	Err       error
}

// QueryLogger records query events.
type QueryLogger interface {
	LogQuery(QueryLogEvent)
}

// QueryLoggerFunc adapts a function to QueryLogger.
type QueryLoggerFunc func(QueryLogEvent)

// LogQuery implements QueryLogger.
func (f QueryLoggerFunc) LogQuery(event QueryLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopQueryLogger struct{}

func (noopQueryLogger) LogQuery(QueryLogEvent) {}

// WithQueryLogger attaches a query logger to document evaluation.
func WithQueryLogger(logger QueryLogger) EvalOption {
	return func(cfg *evalConfig) {
		if logger == nil {
			cfg.logger = noopQueryLogger{}
			return
		}
		cfg.logger = logger
	}
}
