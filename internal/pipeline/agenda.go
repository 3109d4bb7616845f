package pipeline

import (
	"context"
	"log"

	"facilitator/internal/llmtool"
	"facilitator/internal/types"
)

// UpdateAgenda updates every item in a single model call.
type UpdateAgenda struct{ Engine *llmtool.Engine }

func (p *UpdateAgenda) Build(tr types.Transcription, agenda types.Agenda) (llmtool.Call[types.Agenda], error) {
	var zero llmtool.Call[types.Agenda]
	trSchema, err := schemaText(types.Transcription{})
	if err != nil {
		return zero, err
	}
	agSchema, err := schemaText(types.Agenda{})
	if err != nil {
		return zero, err
	}
	sys, err := promptUpdateAgenda.System(map[string]any{
		"TranscriptionSchema": trSchema,
		"AgendaSchema":        agSchema,
	})
	if err != nil {
		return zero, err
	}
	parts, err := (&partsBuilder{}).
		text(promptUpdateAgenda.LeadIn("transcription")).
		json(tr).
		text(promptUpdateAgenda.LeadIn("agenda")).
		json(agenda).
		text(promptUpdateAgenda.LeadIn("instruction")).
		build()
	if err != nil {
		return zero, err
	}
	prior := agenda.Clone()
	return llmtool.Call[types.Agenda]{
		Task:              TaskUpdateAgenda,
		SystemInstruction: sys,
		Parts:             parts,
		Check: func(out types.Agenda) (types.Agenda, error) {
			return restoreAgenda(prior, out)
		},
	}, nil
}

func (p *UpdateAgenda) Run(ctx context.Context, tr types.Transcription, agenda types.Agenda) (types.Agenda, error) {
	call, err := p.Build(tr, agenda)
	if err != nil {
		return types.Agenda{}, err
	}
	return llmtool.Generate(ctx, p.Engine, call)
}

// UpdateAgendaItem updates one item; the prompt tells the model it only
// sees that item, so calls can run in parallel.
type UpdateAgendaItem struct{ Engine *llmtool.Engine }

func (p *UpdateAgendaItem) Build(tr types.Transcription, item types.AgendaItem) (llmtool.Call[types.AgendaItem], error) {
	var zero llmtool.Call[types.AgendaItem]
	trSchema, err := schemaText(types.Transcription{})
	if err != nil {
		return zero, err
	}
	itemSchema, err := schemaText(types.AgendaItem{})
	if err != nil {
		return zero, err
	}
	sys, err := promptUpdateAgendaItem.System(map[string]any{
		"TranscriptionSchema": trSchema,
		"AgendaItemSchema":    itemSchema,
	})
	if err != nil {
		return zero, err
	}
	parts, err := (&partsBuilder{}).
		text(promptUpdateAgendaItem.LeadIn("transcription")).
		json(tr).
		text(promptUpdateAgendaItem.LeadIn("item")).
		json(item).
		text(promptUpdateAgendaItem.LeadIn("instruction")).
		build()
	if err != nil {
		return zero, err
	}
	prior := item.Clone()
	return llmtool.Call[types.AgendaItem]{
		Task:              TaskUpdateAgendaItem,
		SystemInstruction: sys,
		Parts:             parts,
		Check: func(out types.AgendaItem) (types.AgendaItem, error) {
			return restoreItem(prior, out)
		},
	}, nil
}

func (p *UpdateAgendaItem) Run(ctx context.Context, tr types.Transcription, item types.AgendaItem) (types.AgendaItem, error) {
	call, err := p.Build(tr, item)
	if err != nil {
		return types.AgendaItem{}, err
	}
	out, err := llmtool.Generate(ctx, p.Engine, call)
	if err != nil {
		return types.AgendaItem{}, err
	}
	log.Printf("processed agenda item: %s", out.Agenda)
	return out, nil
}
