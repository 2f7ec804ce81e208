package lineage

import "github.com/google/uuid"

// TracerOption configures a Tracer instance.
type TracerOption func(*Tracer)

// WithTracerLogger attaches a query logger to the tracer.
func WithTracerLogger(logger QueryLogger) TracerOption {
	return func(t *Tracer) {
		if logger == nil {
			t.logger = noopQueryLogger{}
			return
		}
		t.logger = logger
	}
}

// Tracer is the per-run authority for explanation graph nodes. It allocates
// node identifiers, deduplicates terminal object nodes by value equality, and
// carries the context stack threaded through recursive queries. A tracer is
// not safe for concurrent use; construct one per top-level explanation.
type Tracer struct {
	runID   string
	nextID  int
	buckets map[string][]*ObjectNode
	context []any
	logger  QueryLogger
}

// NewTracer constructs a tracer with a fresh run identifier and an empty node
// cache.
func NewTracer(opts ...TracerOption) *Tracer {
	t := &Tracer{
		runID:   uuid.NewString(),
		buckets: map[string][]*ObjectNode{},
		logger:  noopQueryLogger{},
	}
	for _, opt := range opts {
		if opt != nil {
			opt(t)
		}
	}
	return t
}

// RunID returns the identifier of this explanation run, used to correlate
// log and activity events.
func (t *Tracer) RunID() string {
	if t == nil {
		return ""
	}
	return t.runID
}

// logQuery records event through the tracer's logger, stamping the run id.
func (t *Tracer) logQuery(event QueryLogEvent) {
	if event.RunID == "" {
		event.RunID = t.runID
	}
	t.logger.LogQuery(event)
}

func (t *Tracer) nodeID() int {
	id := t.nextID
	t.nextID++
	return id
}

// ObjectNode returns the terminal node for the designated object, reusing the
// instance created for an equal designated object earlier in this run. Only
// object nodes are deduplicated; combinator nodes are structural and always
// fresh.
func (t *Tracer) ObjectNode(do DesignatedObject) *ObjectNode {
	key := do.key()
	for _, cached := range t.buckets[key] {
		if cached.designated.Equal(do) {
			return cached
		}
	}
	node := &ObjectNode{
		nodeBase:   nodeBase{id: t.nodeID()},
		designated: do,
	}
	t.buckets[key] = append(t.buckets[key], node)
	return node
}

// AndNode constructs a fresh conjunction node.
func (t *Tracer) AndNode() *AndNode {
	return &AndNode{nodeBase: nodeBase{id: t.nodeID()}}
}

// OrNode constructs a fresh disjunction node.
func (t *Tracer) OrNode() *OrNode {
	return &OrNode{nodeBase: nodeBase{id: t.nodeID()}}
}

// UnknownNode constructs a fresh unresolved-provenance marker.
func (t *Tracer) UnknownNode() *UnknownNode {
	return &UnknownNode{nodeBase: nodeBase{id: t.nodeID()}}
}

// PushContext pushes a context marker (e.g. an iteration index) so that the
// same object visited under different contexts yields distinct designated
// objects.
func (t *Tracer) PushContext(marker any) {
	t.context = append(t.context, marker)
}

// PopContext removes the most recent context marker. Popping an empty stack
// is a no-op.
func (t *Tracer) PopContext() {
	if len(t.context) == 0 {
		return
	}
	t.context = t.context[:len(t.context)-1]
}

// Context returns a copy of the current context stack. The copy is shallow:
// markers keep their identity so that context equality stays aligned with the
// designated-object equality ladder.
func (t *Tracer) Context() []any {
	if len(t.context) == 0 {
		return nil
	}
	return append([]any(nil), t.context...)
}

// Designate captures the designator, object, and a snapshot of the current
// context stack as a designated object.
func (t *Tracer) Designate(d Designator, object any) DesignatedObject {
	return NewDesignatedObject(d, object, t.Context()...)
}
