// Package pipeline builds the five model tasks of a meeting: transcription,
// whole-agenda update, single-item update, hand-over synthesis and action
// suggestion. Each Build method is a pure function of its inputs; Run sends
// the built call through the validated-generation engine.
package pipeline

import (
	"fmt"

	"facilitator/internal/llm"
	"facilitator/internal/schema"
	"facilitator/internal/util/jsonutil"
	"facilitator/prompts"
)

// Task names double as log prefixes and llm phases.
const (
	TaskTranscribe       = "transcribe"
	TaskUpdateAgenda     = "update_agenda"
	TaskUpdateAgendaItem = "update_agenda_item"
	TaskHandOver         = "hand_over"
	TaskSuggestAction    = "suggest_action"
)

var (
	promptTranscribe       = prompts.MustLoad(TaskTranscribe)
	promptUpdateAgenda     = prompts.MustLoad(TaskUpdateAgenda)
	promptUpdateAgendaItem = prompts.MustLoad(TaskUpdateAgendaItem)
	promptHandOver         = prompts.MustLoad(TaskHandOver)
	promptSuggestAction    = prompts.MustLoad(TaskSuggestAction)
)

// jsonPart encodes v the way it is shown to the model: compact, UTF-8, no
// HTML escaping.
func jsonPart(v any) (llm.Part, error) {
	b, err := jsonutil.MarshalNoEscape(v)
	if err != nil {
		return llm.Part{}, fmt.Errorf("encode prompt input: %w", err)
	}
	return llm.TextPart(string(b)), nil
}

func schemaText(r schema.Record) (string, error) {
	s, err := schema.ExportString(r)
	if err != nil {
		return "", err
	}
	return s, nil
}

// partsBuilder accumulates parts and the first error.
type partsBuilder struct {
	parts []llm.Part
	err   error
}

func (b *partsBuilder) text(s string) *partsBuilder {
	b.parts = append(b.parts, llm.TextPart(s))
	return b
}

func (b *partsBuilder) json(v any) *partsBuilder {
	if b.err != nil {
		return b
	}
	p, err := jsonPart(v)
	if err != nil {
		b.err = err
		return b
	}
	b.parts = append(b.parts, p)
	return b
}

func (b *partsBuilder) media(ref llm.Part) *partsBuilder {
	b.parts = append(b.parts, ref)
	return b
}

func (b *partsBuilder) build() ([]llm.Part, error) { return b.parts, b.err }
