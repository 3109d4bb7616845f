package rpc

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"facilitator/internal/gateway/handler"
	"facilitator/internal/gateway/service/meeting"
	"facilitator/internal/types"
)

const ServiceName = "facilitator.v1.FacilitatorService"

const (
	CheckAgendaProcedure   = "/" + ServiceName + "/CheckAgenda"
	ListActionsProcedure   = "/" + ServiceName + "/ListActions"
	SuggestActionProcedure = "/" + ServiceName + "/SuggestAction"
	UpdateAgendaProcedure  = "/" + ServiceName + "/UpdateAgenda"
	ResolveAgendaProcedure = "/" + ServiceName + "/ResolveAgenda"
	GetIntervalProcedure   = "/" + ServiceName + "/GetInterval"
)

type FacilitatorHandler struct {
	svc *meeting.Service
}

func NewFacilitatorHandler(svc *meeting.Service) *FacilitatorHandler {
	return &FacilitatorHandler{svc: svc}
}

// Handler returns the path prefix and handler to mount on a mux.
func (h *FacilitatorHandler) Handler(opts ...connect.HandlerOption) (string, http.Handler) {
	opts = append([]connect.HandlerOption{connect.WithCodec(jsonCodec{})}, opts...)
	mux := http.NewServeMux()
	mux.Handle(CheckAgendaProcedure, connect.NewUnaryHandler(CheckAgendaProcedure, h.CheckAgenda, opts...))
	mux.Handle(ListActionsProcedure, connect.NewUnaryHandler(ListActionsProcedure, h.ListActions, opts...))
	mux.Handle(SuggestActionProcedure, connect.NewUnaryHandler(SuggestActionProcedure, h.SuggestAction, opts...))
	mux.Handle(UpdateAgendaProcedure, connect.NewUnaryHandler(UpdateAgendaProcedure, h.UpdateAgenda, opts...))
	mux.Handle(ResolveAgendaProcedure, connect.NewUnaryHandler(ResolveAgendaProcedure, h.ResolveAgenda, opts...))
	mux.Handle(GetIntervalProcedure, connect.NewUnaryHandler(GetIntervalProcedure, h.GetInterval, opts...))
	return "/" + ServiceName + "/", mux
}

func (h *FacilitatorHandler) CheckAgenda(ctx context.Context, req *connect.Request[CheckAgendaRequest]) (*connect.Response[AgendaResponse], error) {
	a := req.Msg.Agenda
	return connect.NewResponse(&AgendaResponse{Agenda: a, Status: a.Status()}), nil
}

func (h *FacilitatorHandler) ListActions(ctx context.Context, req *connect.Request[ListActionsRequest]) (*connect.Response[types.TemplateActions], error) {
	out := h.svc.ListActions()
	return connect.NewResponse(&out), nil
}

func (h *FacilitatorHandler) SuggestAction(ctx context.Context, req *connect.Request[SuggestActionRequest]) (*connect.Response[types.SuggestedAction], error) {
	action := strings.TrimSpace(req.Msg.TemplateAction)
	if action == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("template_action is required"))
	}
	out, err := h.svc.SuggestAction(ctx, action, req.Msg.Agenda)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&out), nil
}

func (h *FacilitatorHandler) UpdateAgenda(ctx context.Context, req *connect.Request[UpdateAgendaRequest]) (*connect.Response[UpdateAgendaResponse], error) {
	id, out, err := h.svc.UpdateAgendaFromTranscript(ctx, req.Msg.IntervalID, req.Msg.Transcription, req.Msg.Agenda)
	if err != nil {
		cerr := toConnectError(err)
		cerr.Meta().Set("X-Interval-Id", id)
		return nil, cerr
	}
	return connect.NewResponse(&UpdateAgendaResponse{IntervalID: id, Agenda: out, Status: out.Status()}), nil
}

func (h *FacilitatorHandler) ResolveAgenda(ctx context.Context, req *connect.Request[ResolveAgendaRequest]) (*connect.Response[AgendaResponse], error) {
	out := h.svc.ResolveAgenda(req.Msg.Agenda)
	return connect.NewResponse(&AgendaResponse{Agenda: out, Status: out.Status()}), nil
}

func (h *FacilitatorHandler) GetInterval(ctx context.Context, req *connect.Request[GetIntervalRequest]) (*connect.Response[GetIntervalResponse], error) {
	id := strings.TrimSpace(req.Msg.IntervalID)
	if id == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("interval_id is required"))
	}
	t, err := h.svc.Trace(ctx, id)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&GetIntervalResponse{Interval: t}), nil
}

func toConnectError(err error) *connect.Error {
	var cerr *connect.Error
	if errors.As(err, &cerr) {
		return cerr
	}
	switch handler.StatusFor(err) {
	case http.StatusBadRequest:
		return connect.NewError(connect.CodeInvalidArgument, err)
	case http.StatusNotFound:
		return connect.NewError(connect.CodeNotFound, err)
	case http.StatusBadGateway, http.StatusServiceUnavailable:
		return connect.NewError(connect.CodeUnavailable, err)
	case http.StatusGatewayTimeout:
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}
	return connect.NewError(connect.CodeInternal, fmt.Errorf("facilitator service failed: %w", err))
}
