package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	genai "google.golang.org/genai"
)

// GeminiConfig selects the backend and model for GeminiClient.
// Backend "vertex" uses Project/Location with ambient credentials;
// "gemini" uses APIKey.
type GeminiConfig struct {
	Backend  string
	APIKey   string
	Project  string
	Location string
	Model    string
}

// GeminiClient is a thin wrapper around the official genai client.
type GeminiClient struct {
	cli   *genai.Client
	model string
}

func NewGeminiClient(ctx context.Context, cfg GeminiConfig) (*GeminiClient, error) {
	cc := &genai.ClientConfig{}
	switch strings.ToLower(cfg.Backend) {
	case "gemini", "gemini-api", "api":
		cc.Backend = genai.BackendGeminiAPI
		cc.APIKey = cfg.APIKey
	default:
		cc.Backend = genai.BackendVertexAI
		cc.Project = cfg.Project
		cc.Location = cfg.Location
	}
	cli, err := genai.NewClient(ctx, cc)
	if err != nil {
		return nil, fmt.Errorf("genai client: %w", err)
	}
	return &GeminiClient{cli: cli, model: cfg.Model}, nil
}

func (g *GeminiClient) Name() string { return "Gemini:" + g.model }
func (g *GeminiClient) Close() error { return nil }

// GenerateJSON sends one request with the response constrained to
// req.ResponseSchema and returns the concatenated text of the first candidate.
func (g *GeminiClient) GenerateJSON(ctx context.Context, req Request) (json.RawMessage, error) {
	parts := make([]*genai.Part, 0, len(req.Parts))
	for _, p := range req.Parts {
		if p.IsMedia() {
			parts = append(parts, genai.NewPartFromURI(p.URI, p.MIMEType))
			continue
		}
		parts = append(parts, genai.NewPartFromText(p.Text))
	}

	cfg := &genai.GenerateContentConfig{
		Temperature:      genai.Ptr(req.Temperature),
		ResponseMIMEType: "application/json",
	}
	if req.SystemInstruction != "" {
		cfg.SystemInstruction = genai.NewContentFromText(req.SystemInstruction, genai.RoleUser)
	}
	if req.ResponseSchema != nil {
		cfg.ResponseSchema = ToGenaiSchema(req.ResponseSchema)
	}

	resp, err := g.cli.Models.GenerateContent(ctx, g.model,
		[]*genai.Content{genai.NewContentFromParts(parts, genai.RoleUser)}, cfg)
	if err != nil {
		return nil, &TransportError{Backend: g.Name(), Err: err}
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, &TransportError{Backend: g.Name(), Err: ErrEmptyResponse}
	}
	var b strings.Builder
	for _, p := range resp.Candidates[0].Content.Parts {
		if p != nil {
			b.WriteString(p.Text)
		}
	}
	if b.Len() == 0 {
		return nil, &TransportError{Backend: g.Name(), Err: ErrEmptyResponse}
	}
	return json.RawMessage(b.String()), nil
}

// ToGenaiSchema converts an exported schema document into the SDK's
// schema type. Keywords the SDK cannot express are dropped.
func ToGenaiSchema(d map[string]any) *genai.Schema {
	if d == nil {
		return nil
	}
	s := &genai.Schema{}
	if t, ok := d["type"].(string); ok {
		s.Type = genai.Type(strings.ToUpper(t))
	}
	if v, ok := d["description"].(string); ok {
		s.Description = v
	}
	if v, ok := d["format"].(string); ok {
		s.Format = v
	}
	if v, ok := d["minimum"].(float64); ok {
		s.Minimum = genai.Ptr(v)
	}
	if v, ok := d["maximum"].(float64); ok {
		s.Maximum = genai.Ptr(v)
	}
	if v, ok := d["nullable"].(bool); ok {
		s.Nullable = genai.Ptr(v)
	}
	if v, ok := d["default"]; ok && v != nil {
		s.Default = v
	}
	if enum, ok := d["enum"].([]any); ok {
		for _, e := range enum {
			if str, ok := e.(string); ok {
				s.Enum = append(s.Enum, str)
			}
		}
	}
	if req, ok := d["required"].([]any); ok {
		for _, r := range req {
			if str, ok := r.(string); ok {
				s.Required = append(s.Required, str)
			}
		}
	}
	if items, ok := d["items"].(map[string]any); ok {
		s.Items = ToGenaiSchema(items)
	}
	if props, ok := d["properties"].(map[string]any); ok {
		s.Properties = make(map[string]*genai.Schema, len(props))
		names := make([]string, 0, len(props))
		for name, p := range props {
			if pm, ok := p.(map[string]any); ok {
				s.Properties[name] = ToGenaiSchema(pm)
				names = append(names, name)
			}
		}
		sort.Strings(names)
		s.PropertyOrdering = names
	}
	return s
}
