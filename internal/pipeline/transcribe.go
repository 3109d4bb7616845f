package pipeline

import (
	"context"

	"facilitator/internal/llm"
	"facilitator/internal/llmtool"
	"facilitator/internal/types"
)

// Transcribe turns a stored mixed audio object into a cleaned transcription.
type Transcribe struct{ Engine *llmtool.Engine }

// Build assembles the call; cleanup runs as the post-validation check.
func (p *Transcribe) Build(audio types.AudioRef) (llmtool.Call[types.Transcription], error) {
	sys, err := promptTranscribe.System(nil)
	if err != nil {
		return llmtool.Call[types.Transcription]{}, err
	}
	parts, err := (&partsBuilder{}).
		media(llm.MediaPart(audio.URI, audio.MIMEType)).
		text(promptTranscribe.LeadIn("audio")).
		build()
	if err != nil {
		return llmtool.Call[types.Transcription]{}, err
	}
	return llmtool.Call[types.Transcription]{
		Task:              TaskTranscribe,
		SystemInstruction: sys,
		Parts:             parts,
		Check: func(tr types.Transcription) (types.Transcription, error) {
			return tr.CleanText(), nil
		},
	}, nil
}

func (p *Transcribe) Run(ctx context.Context, audio types.AudioRef) (types.Transcription, error) {
	call, err := p.Build(audio)
	if err != nil {
		return types.Transcription{}, err
	}
	return llmtool.Generate(ctx, p.Engine, call)
}
