package lineage

import (
	"encoding/json"
	"fmt"

	"github.com/goliatone/go-lineage/internal/hydrate"
)

// Pathed is implemented by document objects that know their location within
// the source, rendered as a path expression such as
// "body[1]/section[2]/div[1]". Report builders use it to derive the subject
// of terminal nodes.
type Pathed interface {
	Path() string
}

// ParseDocument decodes a raw JSON payload into the generic map form the
// condition engines evaluate against.
func ParseDocument(payload []byte) (map[string]any, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("lineage: document payload is empty")
	}
	var document map[string]any
	if err := json.Unmarshal(payload, &document); err != nil {
		return nil, fmt.Errorf("lineage: parse document: %w", err)
	}
	return document, nil
}

// DecodeRoot hydrates a parsed payload into a typed evaluation root,
// applying any configured pre/post hooks.
func DecodeRoot[T any](uri string, payload map[string]any, opts ...hydrate.DecoderOption[T]) (T, error) {
	decoder := hydrate.NewDecoder(opts...)
	return decoder.Decode(hydrate.Context{URI: uri, Format: "json"}, payload)
}
