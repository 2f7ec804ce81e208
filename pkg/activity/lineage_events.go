package activity

import (
	"strings"
	"time"
)

// QueryEventInput describes the common fields for lineage lifecycle events.
type QueryEventInput struct {
	ActorID    string
	UserID     string
	TenantID   string
	Channel    string
	Condition  string
	Expression string
	Engine     string
	RunID      string
	Verdict    *bool
	NodeCount  int
	Metadata   map[string]any
	OccurredAt time.Time
}

// BuildQueryCompletedEvent constructs a normalized event for a finished
// condition evaluation.
func BuildQueryCompletedEvent(input QueryEventInput) Event {
	return buildQueryEvent("lineage.query.completed", "lineage.condition", input)
}

// BuildExplanationBuiltEvent constructs a normalized event for an explanation
// graph produced by a failed condition.
func BuildExplanationBuiltEvent(input QueryEventInput) Event {
	return buildQueryEvent("lineage.explanation.built", "lineage.explanation", input)
}

func buildQueryEvent(verb, objectType string, input QueryEventInput) Event {
	metadata := cloneMap(input.Metadata)
	if input.Condition != "" {
		metadata = ensureMetadata(metadata)
		metadata["condition"] = input.Condition
	}
	if input.Expression != "" {
		metadata = ensureMetadata(metadata)
		metadata["expression"] = input.Expression
	}
	if input.Engine != "" {
		metadata = ensureMetadata(metadata)
		metadata["engine"] = input.Engine
	}
	if input.RunID != "" {
		metadata = ensureMetadata(metadata)
		metadata["run_id"] = input.RunID
	}
	if input.Verdict != nil {
		metadata = ensureMetadata(metadata)
		metadata["verdict"] = *input.Verdict
	}
	if input.NodeCount > 0 {
		metadata = ensureMetadata(metadata)
		metadata["node_count"] = input.NodeCount
	}

	objectID := strings.TrimSpace(input.RunID)
	if objectID == "" {
		objectID = strings.TrimSpace(input.Condition)
	}
	if objectID == "" {
		objectID = objectType
	}

	return Event{
		Verb:       verb,
		ActorID:    strings.TrimSpace(input.ActorID),
		UserID:     strings.TrimSpace(input.UserID),
		TenantID:   strings.TrimSpace(input.TenantID),
		ObjectType: objectType,
		ObjectID:   objectID,
		Channel:    strings.TrimSpace(input.Channel),
		Metadata:   metadata,
		OccurredAt: input.OccurredAt,
	}
}

func ensureMetadata(meta map[string]any) map[string]any {
	if meta == nil {
		return map[string]any{}
	}
	return meta
}
