package llm

import (
	"context"
	"encoding/json"
	"strings"
)

// FakeClient returns deterministic payloads per phase for offline runs.
// Item and agenda phases echo the JSON input part back with a minutes note,
// so the rest of the pipeline sees well-formed data.
type FakeClient struct{}

func NewFakeClient() *FakeClient { return &FakeClient{} }

func (f *FakeClient) Name() string { return "FakeLLM" }
func (f *FakeClient) Close() error { return nil }

func (f *FakeClient) GenerateJSON(ctx context.Context, req Request) (json.RawMessage, error) {
	var obj any
	switch PhaseFrom(ctx) {
	case "transcribe":
		obj = map[string]any{"comments": []any{map[string]any{
			"start_sec": 0, "end_sec": 1, "speaker_id": "1", "text": "(fake transcription)",
		}}}
	case "update_agenda_item":
		item := findObject(req.Parts, "agenda")
		if item == nil {
			item = map[string]any{"agenda": "", "goals": []any{}}
		}
		fakeItem(item)
		obj = item
	case "update_agenda":
		agenda := findObject(req.Parts, "items")
		if agenda == nil {
			agenda = map[string]any{"items": []any{}}
		}
		if items, ok := agenda["items"].([]any); ok {
			for _, it := range items {
				if m, ok := it.(map[string]any); ok {
					fakeItem(m)
				}
			}
		}
		obj = agenda
	case "hand_over":
		obj = map[string]any{"hand_over": "(fake hand-over)"}
	case "suggest_action":
		action := "HIGHLIGHT_UNRESOLVED_POINTS"
		if req := findObject(req.Parts, "template_action"); req != nil {
			if s, ok := req["template_action"].(string); ok {
				action = s
			}
		}
		obj = map[string]any{"template_action": action, "suggested_action": "(fake suggestion)"}
	default:
		obj = map[string]any{}
	}
	b, err := json.Marshal(obj)
	if err != nil {
		return nil, err
	}
	return b, nil
}

func findObject(parts []Part, key string) map[string]any {
	for i := len(parts) - 1; i >= 0; i-- {
		text := strings.TrimSpace(parts[i].Text)
		if !strings.HasPrefix(text, "{") {
			continue
		}
		var m map[string]any
		if err := json.Unmarshal([]byte(text), &m); err != nil {
			continue
		}
		if _, ok := m[key]; ok {
			return m
		}
	}
	return nil
}

// fakeItem appends a minutes note and fills the fields a Go zero value
// leaves empty, so echoed items still pass schema validation.
func fakeItem(item map[string]any) {
	item["minutes"] = appendNote(item["minutes"])
	if s, _ := item["status"].(string); s == "" {
		item["status"] = "NOT_STARTED"
	}
	if _, ok := item["goals"].([]any); !ok {
		item["goals"] = []any{}
	}
}

func appendNote(v any) string {
	s, _ := v.(string)
	if s != "" {
		return s + "\n- (fake minutes)"
	}
	return "- (fake minutes)"
}
