// Package schema exports record schemas as response constraints for the
// generation backend and validates model output against them.
package schema

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/jsonschema-go/jsonschema"

	"facilitator/internal/util/jsonutil"
)

// Dict is a JSON-Schema document in its generic decoded form.
type Dict = map[string]any

// Record is implemented by every type the generation engine can produce.
type Record interface {
	RecordSchema() *jsonschema.Schema
}

var (
	ErrUnresolvedRef = errors.New("schema: unresolved reference")
	ErrRecursiveRef  = errors.New("schema: recursive reference")
)

// Export converts s into the dialect accepted as a response constraint.
// Steps run in a fixed order: inline $ref, drop title, collapse
// single-element allOf, collapse anyOf to its first alternative, drop
// pattern, drop $defs.
//
// Collapsing anyOf is lossy. Every union in this module is an optional
// (T | null), so keeping the first branch keeps T. A genuine multi-type
// union would silently lose its other branches.
func Export(s *jsonschema.Schema) (Dict, error) {
	d, err := toDict(s)
	if err != nil {
		return nil, err
	}
	if d, err = InlineRefs(d); err != nil {
		return nil, err
	}
	d = StripKeyword(d, "title")
	d = CollapseAllOf(d)
	d = CollapseAnyOf(d)
	d = StripKeyword(d, "pattern")
	return DropDefs(d), nil
}

// ExportRecord is Export for a Record's schema.
func ExportRecord(r Record) (Dict, error) { return Export(r.RecordSchema()) }

// ExportString renders the exported schema as indented JSON, keeping
// non-ASCII text readable for prompts.
func ExportString(r Record) (string, error) {
	d, err := ExportRecord(r)
	if err != nil {
		return "", err
	}
	b, err := jsonutil.MarshalNoEscapeIndent(d, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func toDict(s *jsonschema.Schema) (Dict, error) {
	b, err := json.Marshal(s)
	if err != nil {
		return nil, fmt.Errorf("schema: marshal: %w", err)
	}
	var d Dict
	if err := json.Unmarshal(b, &d); err != nil {
		return nil, fmt.Errorf("schema: decode: %w", err)
	}
	return d, nil
}

// Validate checks a decoded JSON instance against s.
func Validate(s *jsonschema.Schema, instance any) error {
	rs, err := s.Resolve(nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrUnresolvedRef, err)
	}
	return rs.Validate(instance)
}
