package pipeline

import (
	"context"

	"facilitator/internal/llmtool"
	"facilitator/internal/types"
)

// SynthesizeHandOver writes the note carried into the next interval.
type SynthesizeHandOver struct{ Engine *llmtool.Engine }

func (p *SynthesizeHandOver) Build(tr types.Transcription, prev, updated types.Agenda) (llmtool.Call[types.HandOver], error) {
	var zero llmtool.Call[types.HandOver]
	sys, err := promptHandOver.System(nil)
	if err != nil {
		return zero, err
	}
	parts, err := (&partsBuilder{}).
		text(promptHandOver.LeadIn("transcription")).
		json(tr).
		text(promptHandOver.LeadIn("previous")).
		json(prev).
		text(promptHandOver.LeadIn("updated")).
		json(updated).
		text(promptHandOver.LeadIn("instruction")).
		build()
	if err != nil {
		return zero, err
	}
	return llmtool.Call[types.HandOver]{Task: TaskHandOver, SystemInstruction: sys, Parts: parts}, nil
}

func (p *SynthesizeHandOver) Run(ctx context.Context, tr types.Transcription, prev, updated types.Agenda) (types.HandOver, error) {
	call, err := p.Build(tr, prev, updated)
	if err != nil {
		return types.HandOver{}, err
	}
	return llmtool.Generate(ctx, p.Engine, call)
}
