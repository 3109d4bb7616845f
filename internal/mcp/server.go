// Package mcp exposes the facilitator operations as MCP tools.
package mcp

import (
	"context"
	"fmt"
	"strings"

	sdkmcp "github.com/modelcontextprotocol/go-sdk/mcp"

	"facilitator/internal/gateway/service/meeting"
	"facilitator/internal/types"
	"facilitator/internal/util/jsonutil"
)

const serverInstructions = `Meeting facilitator tools. Agendas are passed as JSON strings of the form
{"items":[{"agenda":"...","minutes":null,"status":"NOT_STARTED","goals":[{"done":false,"condition":"...","result":null}]}],"hand_over":null}.
Use check_agenda to validate one, resolve_agenda to recompute statuses, update_agenda to fold a
transcription into it and suggest_action for facilitation advice.`

type AgendaInput struct {
	AgendaJSON string `json:"agenda_json" jsonschema:"the agenda as a JSON object string"`
}

type SuggestActionInput struct {
	TemplateAction string `json:"template_action" jsonschema:"one of HIGHLIGHT_UNRESOLVED_POINTS, SUGGEST_RELATED_IDEAS, RAISE_OFF_AGENDA_TOPICS"`
	AgendaJSON     string `json:"agenda_json" jsonschema:"the agenda as a JSON object string"`
}

type UpdateAgendaInput struct {
	IntervalID        string `json:"interval_id,omitempty" jsonschema:"optional id for the interval"`
	TranscriptionJSON string `json:"transcription_json" jsonschema:"the transcription as a JSON object string with a comments array"`
	AgendaJSON        string `json:"agenda_json" jsonschema:"the agenda as a JSON object string"`
}

type ListActionsInput struct{}

// NewServer registers every tool against svc.
func NewServer(svc *meeting.Service, version string) *sdkmcp.Server {
	server := sdkmcp.NewServer(&sdkmcp.Implementation{
		Name:    "facilitator",
		Version: version,
	}, &sdkmcp.ServerOptions{
		Instructions: serverInstructions,
	})
	t := &tools{svc: svc}

	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "list_actions",
		Description: "List the available facilitation template actions",
	}, t.listActions)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "check_agenda",
		Description: "Validate an agenda and return it normalised",
	}, t.checkAgenda)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "resolve_agenda",
		Description: "Recompute every item status from goal completion",
	}, t.resolveAgenda)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "suggest_action",
		Description: "Ask the model for facilitation advice for one template action",
	}, t.suggestAction)
	sdkmcp.AddTool(server, &sdkmcp.Tool{
		Name:        "update_agenda",
		Description: "Fold a transcription into the agenda, updating minutes, goals and the hand-over note",
	}, t.updateAgenda)
	return server
}

type tools struct {
	svc *meeting.Service
}

func (t *tools) listActions(ctx context.Context, req *sdkmcp.CallToolRequest, in ListActionsInput) (*sdkmcp.CallToolResult, any, error) {
	return jsonResult(t.svc.ListActions())
}

func (t *tools) checkAgenda(ctx context.Context, req *sdkmcp.CallToolRequest, in AgendaInput) (*sdkmcp.CallToolResult, any, error) {
	a, err := t.svc.CheckAgenda([]byte(in.AgendaJSON))
	if err != nil {
		return nil, nil, err
	}
	return jsonResult(a)
}

func (t *tools) resolveAgenda(ctx context.Context, req *sdkmcp.CallToolRequest, in AgendaInput) (*sdkmcp.CallToolResult, any, error) {
	a, err := meeting.ParseAgenda([]byte(in.AgendaJSON))
	if err != nil {
		return nil, nil, err
	}
	return jsonResult(t.svc.ResolveAgenda(a))
}

func (t *tools) suggestAction(ctx context.Context, req *sdkmcp.CallToolRequest, in SuggestActionInput) (*sdkmcp.CallToolResult, any, error) {
	a, err := meeting.ParseAgenda([]byte(in.AgendaJSON))
	if err != nil {
		return nil, nil, err
	}
	out, err := t.svc.SuggestAction(ctx, strings.TrimSpace(in.TemplateAction), a)
	if err != nil {
		return nil, nil, err
	}
	return jsonResult(out)
}

func (t *tools) updateAgenda(ctx context.Context, req *sdkmcp.CallToolRequest, in UpdateAgendaInput) (*sdkmcp.CallToolResult, any, error) {
	var tr types.Transcription
	if err := jsonutil.DecodeObject([]byte(in.TranscriptionJSON), &tr); err != nil {
		return nil, nil, fmt.Errorf("%w: transcription: %v", meeting.ErrInvalidInput, err)
	}
	a, err := meeting.ParseAgenda([]byte(in.AgendaJSON))
	if err != nil {
		return nil, nil, err
	}
	id, out, err := t.svc.UpdateAgendaFromTranscript(ctx, in.IntervalID, tr, a)
	if err != nil {
		return nil, nil, fmt.Errorf("interval %s: %w", id, err)
	}
	return jsonResult(map[string]any{"interval_id": id, "agenda": out})
}

func jsonResult(v any) (*sdkmcp.CallToolResult, any, error) {
	b, err := jsonutil.MarshalNoEscapeIndent(v, "", "  ")
	if err != nil {
		return nil, nil, err
	}
	return &sdkmcp.CallToolResult{
		Content: []sdkmcp.Content{&sdkmcp.TextContent{Text: string(b)}},
	}, nil, nil
}

// ServeStdio blocks serving MCP over stdin/stdout.
func ServeStdio(ctx context.Context, server *sdkmcp.Server) error {
	return server.Run(ctx, &sdkmcp.StdioTransport{})
}
