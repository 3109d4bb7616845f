package pipeline

import (
	"context"
	"fmt"

	"facilitator/internal/llmtool"
	"facilitator/internal/types"
)

// SuggestAction asks for advice following one template action. The system
// prompt lists every template so the model sees the full menu.
type SuggestAction struct{ Engine *llmtool.Engine }

func (p *SuggestAction) Build(action types.TemplateAction, agenda types.Agenda) (llmtool.Call[types.SuggestedAction], error) {
	var zero llmtool.Call[types.SuggestedAction]
	if !action.Valid() {
		return zero, fmt.Errorf("unknown template action %q", action)
	}
	agSchema, err := schemaText(types.Agenda{})
	if err != nil {
		return zero, err
	}
	outSchema, err := schemaText(types.SuggestedAction{})
	if err != nil {
		return zero, err
	}
	sys, err := promptSuggestAction.System(map[string]any{
		"AgendaSchema":          agSchema,
		"TemplateActions":       types.ResolveTemplateActions().Actions,
		"SuggestedActionSchema": outSchema,
	})
	if err != nil {
		return zero, err
	}
	parts, err := (&partsBuilder{}).
		text(promptSuggestAction.LeadIn("agenda")).
		json(agenda).
		text(promptSuggestAction.LeadIn("action")).
		json(map[string]string{"template_action": string(action), "description": action.Label()}).
		text(promptSuggestAction.LeadIn("instruction")).
		build()
	if err != nil {
		return zero, err
	}
	return llmtool.Call[types.SuggestedAction]{
		Task:              TaskSuggestAction,
		SystemInstruction: sys,
		Parts:             parts,
		Check: func(out types.SuggestedAction) (types.SuggestedAction, error) {
			out.TemplateAction = action
			return out, nil
		},
	}, nil
}

func (p *SuggestAction) Run(ctx context.Context, action types.TemplateAction, agenda types.Agenda) (types.SuggestedAction, error) {
	call, err := p.Build(action, agenda)
	if err != nil {
		return types.SuggestedAction{}, err
	}
	return llmtool.Generate(ctx, p.Engine, call)
}

// Tasks bundles all builders around one engine.
type Tasks struct {
	transcribe *Transcribe
	agenda     *UpdateAgenda
	item       *UpdateAgendaItem
	handOver   *SynthesizeHandOver
	suggest    *SuggestAction
}

func NewTasks(e *llmtool.Engine) *Tasks {
	return &Tasks{
		transcribe: &Transcribe{Engine: e},
		agenda:     &UpdateAgenda{Engine: e},
		item:       &UpdateAgendaItem{Engine: e},
		handOver:   &SynthesizeHandOver{Engine: e},
		suggest:    &SuggestAction{Engine: e},
	}
}

func (t *Tasks) Transcribe(ctx context.Context, audio types.AudioRef) (types.Transcription, error) {
	return t.transcribe.Run(ctx, audio)
}

func (t *Tasks) UpdateAgenda(ctx context.Context, tr types.Transcription, agenda types.Agenda) (types.Agenda, error) {
	return t.agenda.Run(ctx, tr, agenda)
}

func (t *Tasks) UpdateAgendaItem(ctx context.Context, tr types.Transcription, item types.AgendaItem) (types.AgendaItem, error) {
	return t.item.Run(ctx, tr, item)
}

func (t *Tasks) SynthesizeHandOver(ctx context.Context, tr types.Transcription, prev, updated types.Agenda) (types.HandOver, error) {
	return t.handOver.Run(ctx, tr, prev, updated)
}

func (t *Tasks) SuggestAction(ctx context.Context, action types.TemplateAction, agenda types.Agenda) (types.SuggestedAction, error) {
	return t.suggest.Run(ctx, action, agenda)
}
