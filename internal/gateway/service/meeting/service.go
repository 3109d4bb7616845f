// Package meeting is the transport-facing service: it stages uploaded
// audio, runs the interval flow and records what happened.
package meeting

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/oklog/ulid/v2"

	"facilitator/internal/gateway/repository/audio"
	"facilitator/internal/gateway/repository/trace"
	"facilitator/internal/gateway/service/progress"
	"facilitator/internal/interval"
	"facilitator/internal/types"
	"facilitator/internal/util/jsonutil"
)

var (
	// ErrInvalidInput marks problems with what the caller sent.
	ErrInvalidInput = errors.New("invalid input")
	// ErrAudioUnavailable is returned when no audio store is configured.
	ErrAudioUnavailable = errors.New("audio storage is not configured")
)

// Tasks are the model-backed operations the service needs.
type Tasks interface {
	interval.Tasks
	Transcribe(ctx context.Context, audio types.AudioRef) (types.Transcription, error)
	SuggestAction(ctx context.Context, action types.TemplateAction, agenda types.Agenda) (types.SuggestedAction, error)
}

// Mixer overlays two recordings into one mp3 file.
type Mixer interface {
	Mix(ctx context.Context, hostPath, meetPath, outputPath string) error
}

type Deps struct {
	Tasks  Tasks
	Flow   *interval.Flow
	Mixer  Mixer
	Audio  audio.Store
	Traces trace.Store
	Hub    *progress.Hub
	// TempDir holds uploads while they are mixed; empty uses os.TempDir.
	TempDir string
}

type Service struct {
	tasks   Tasks
	flow    *interval.Flow
	mixer   Mixer
	audio   audio.Store
	traces  trace.Store
	hub     *progress.Hub
	tempDir string
	newID   func() string
}

func New(d Deps) (*Service, error) {
	if d.Tasks == nil {
		return nil, fmt.Errorf("meeting: tasks are required")
	}
	if d.Flow == nil {
		d.Flow = interval.NewFlow(d.Tasks, interval.ModeParallel)
	}
	if d.Traces == nil {
		d.Traces = trace.NewMemoryStore()
	}
	if d.Hub == nil {
		d.Hub = progress.NewHub()
	}
	if d.TempDir == "" {
		d.TempDir = os.TempDir()
	}
	return &Service{
		tasks:   d.Tasks,
		flow:    d.Flow,
		mixer:   d.Mixer,
		audio:   d.Audio,
		traces:  d.Traces,
		hub:     d.Hub,
		tempDir: d.TempDir,
		newID:   func() string { return ulid.Make().String() },
	}, nil
}

func (s *Service) Hub() *progress.Hub { return s.hub }

// ParseAgenda decodes the agenda a client sends with each request.
func ParseAgenda(raw []byte) (types.Agenda, error) {
	var a types.Agenda
	if err := jsonutil.DecodeObject(raw, &a); err != nil {
		return types.Agenda{}, fmt.Errorf("%w: agenda: %v", ErrInvalidInput, err)
	}
	return a, nil
}

// CheckAgenda echoes a parsed agenda back, normalised.
func (s *Service) CheckAgenda(raw []byte) (types.Agenda, error) {
	return ParseAgenda(raw)
}

func (s *Service) ListActions() types.TemplateActions {
	return types.ResolveTemplateActions()
}

// ResolveAgenda recomputes every status from goal completion without
// calling the model.
func (s *Service) ResolveAgenda(agenda types.Agenda) types.Agenda {
	return types.ResolveAgendaStatus(agenda)
}

func (s *Service) SuggestAction(ctx context.Context, rawAction string, agenda types.Agenda) (types.SuggestedAction, error) {
	action, err := types.ParseTemplateAction(rawAction)
	if err != nil {
		return types.SuggestedAction{}, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}
	id := s.newID()
	rec := s.startTrace(id, trace.KindSuggestAction, len(agenda.Items))
	ctx, counter := withCounter(ctx)
	out, err := s.tasks.SuggestAction(ctx, action, agenda)
	s.finishTrace(ctx, &rec, counter, out, err)
	return out, err
}

// Trace returns the recorded trace of one request.
func (s *Service) Trace(ctx context.Context, id string) (trace.Trace, error) {
	return s.traces.Get(ctx, id)
}

func (s *Service) Traces(ctx context.Context, limit int) ([]trace.Trace, error) {
	return s.traces.List(ctx, limit)
}
