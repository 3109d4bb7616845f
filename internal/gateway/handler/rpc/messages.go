package rpc

import (
	"facilitator/internal/gateway/repository/trace"
	"facilitator/internal/types"
)

type CheckAgendaRequest struct {
	Agenda types.Agenda `json:"agenda"`
}

type AgendaResponse struct {
	Agenda types.Agenda        `json:"agenda"`
	Status types.MeetingStatus `json:"status"`
}

type ListActionsRequest struct{}

type SuggestActionRequest struct {
	TemplateAction string       `json:"template_action"`
	Agenda         types.Agenda `json:"agenda"`
}

type UpdateAgendaRequest struct {
	IntervalID    string              `json:"interval_id,omitempty"`
	Transcription types.Transcription `json:"transcription"`
	Agenda        types.Agenda        `json:"agenda"`
}

type UpdateAgendaResponse struct {
	IntervalID string              `json:"interval_id"`
	Agenda     types.Agenda        `json:"agenda"`
	Status     types.MeetingStatus `json:"status"`
}

type ResolveAgendaRequest struct {
	Agenda types.Agenda `json:"agenda"`
}

type GetIntervalRequest struct {
	IntervalID string `json:"interval_id"`
}

type GetIntervalResponse struct {
	Interval trace.Trace `json:"interval"`
}
