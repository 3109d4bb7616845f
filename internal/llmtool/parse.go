package llmtool

import (
	"encoding/json"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"facilitator/internal/schema"
	"facilitator/internal/util/jsonutil"
)

// ParseRecord decodes raw model output, validates it against s, and
// decodes it into T. Any failure is a *ValidationError.
func ParseRecord[T any](task string, s *jsonschema.Schema, raw json.RawMessage) (T, error) {
	var zero T
	var instance any
	if err := jsonutil.UnmarshalRaw(raw, &instance); err != nil {
		return zero, &ValidationError{Task: task, Err: fmt.Errorf("decode: %w", err)}
	}
	if _, ok := instance.(map[string]any); !ok {
		return zero, &ValidationError{Task: task, Err: fmt.Errorf("expected a JSON object, got %T", instance)}
	}
	if err := schema.Validate(s, instance); err != nil {
		return zero, &ValidationError{Task: task, Err: err}
	}
	var out T
	if err := jsonutil.UnmarshalRaw(raw, &out); err != nil {
		return zero, &ValidationError{Task: task, Err: fmt.Errorf("decode record: %w", err)}
	}
	return out, nil
}
