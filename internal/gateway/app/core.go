package app

import (
	"context"
	"errors"
	"fmt"
	"log"

	"facilitator/internal/audio"
	"facilitator/internal/gateway/config"
	"facilitator/internal/gateway/service/meeting"
	"facilitator/internal/gateway/service/progress"
	"facilitator/internal/interval"
	"facilitator/internal/llm"
	"facilitator/internal/llmtool"
	"facilitator/internal/pipeline"
)

// Core is everything below the transports: model client, tasks, flow and
// the meeting service. The HTTP server, the CLI and the MCP server share it.
type Core struct {
	LLM     llm.LLMClient
	Tasks   *pipeline.Tasks
	Meeting *meeting.Service

	stores *stores
}

func NewCore(ctx context.Context, cfg *config.Config) (*Core, error) {
	client, err := NewLLM(ctx, cfg.LLM)
	if err != nil {
		return nil, err
	}
	st, err := initStores(cfg)
	if err != nil {
		_ = client.Close()
		return nil, err
	}

	engine := llmtool.NewEngine(client,
		llmtool.WithMaxRetries(cfg.LLM.MaxRetries),
		llmtool.WithBackoffUnit(cfg.LLM.BackoffUnit),
		llmtool.WithTemperature(cfg.LLM.Temperature),
	)
	tasks := pipeline.NewTasks(engine)

	mode, err := interval.ParseMode(cfg.Interval.Mode)
	if err != nil {
		_ = client.Close()
		_ = st.Close()
		return nil, fmt.Errorf("config: %w", err)
	}
	flow := interval.NewFlow(tasks, mode)
	flow.Timeout = cfg.Interval.Timeout

	deps := meeting.Deps{
		Tasks:  tasks,
		Flow:   flow,
		Traces: st.traces,
		Hub:    progress.NewHub(),
	}
	if st.audio != nil {
		mixer := audio.NewMixer(cfg.Audio.FFmpeg, cfg.Audio.Bitrate)
		if err := mixer.Check(); err != nil {
			log.Printf("audio mixing unavailable: %v", err)
		} else {
			deps.Mixer = mixer
			deps.Audio = st.audio
		}
	}
	svc, err := meeting.New(deps)
	if err != nil {
		_ = client.Close()
		_ = st.Close()
		return nil, err
	}
	return &Core{LLM: client, Tasks: tasks, Meeting: svc, stores: st}, nil
}

func (c *Core) Close() error {
	return errors.Join(c.LLM.Close(), c.stores.Close())
}

// NewLLM builds the generation client with rate limiting, logging and
// per-request hooks.
func NewLLM(ctx context.Context, cfg config.LLMConfig) (llm.LLMClient, error) {
	var inner llm.LLMClient
	if cfg.Fake {
		log.Printf("llm: using fake client")
		inner = llm.NewFakeClient()
	} else {
		g, err := llm.NewGeminiClient(ctx, llm.GeminiConfig{
			Backend:  cfg.Backend,
			APIKey:   cfg.APIKey,
			Project:  cfg.Project,
			Location: cfg.Location,
			Model:    cfg.Model,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to initialize gemini client: %w", err)
		}
		inner = g
	}
	return llm.Wrap(inner,
		llm.RateLimit(cfg.RPS, cfg.Burst),
		llm.WithLogging(log.Default(), cfg.LogPrompts),
		llm.WithHooks(),
	), nil
}
