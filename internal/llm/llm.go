package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Part is one ordered piece of model input: inline text or a reference to
// media the backend fetches itself.
type Part struct {
	Text     string
	URI      string
	MIMEType string
}

func TextPart(text string) Part { return Part{Text: text} }

func MediaPart(uri, mimeType string) Part { return Part{URI: uri, MIMEType: mimeType} }

func (p Part) IsMedia() bool { return p.URI != "" }

// Request is a single schema-constrained generation call.
type Request struct {
	SystemInstruction string
	Parts             []Part
	ResponseSchema    map[string]any
	Temperature       float32
}

// LLMClient makes exactly one generation attempt per call and returns the
// raw text the model produced. Retrying is the caller's job.
type LLMClient interface {
	Name() string
	GenerateJSON(ctx context.Context, req Request) (json.RawMessage, error)
	Close() error
}

var ErrEmptyResponse = errors.New("llm: empty response from model")

// TransportError wraps any failure reported by the generation backend.
type TransportError struct {
	Backend string
	Err     error
}

func (e *TransportError) Error() string { return fmt.Sprintf("llm %s: %v", e.Backend, e.Err) }
func (e *TransportError) Unwrap() error { return e.Err }
