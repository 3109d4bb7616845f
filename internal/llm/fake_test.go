package llm

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFakeClientEchoesAgendaItem(t *testing.T) {
	f := NewFakeClient()
	ctx := WithPhase(context.Background(), "update_agenda_item")
	raw, err := f.GenerateJSON(ctx, Request{Parts: []Part{
		TextPart("# transcription"),
		TextPart(`{"agenda":"予算","minutes":null,"status":"NOT_STARTED","goals":[]}`),
	}})
	require.NoError(t, err)

	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "予算", m["agenda"])
	assert.Equal(t, "- (fake minutes)", m["minutes"])
}

func TestFakeClientSuggestAction(t *testing.T) {
	ctx := WithPhase(context.Background(), "suggest_action")
	raw, err := NewFakeClient().GenerateJSON(ctx, Request{Parts: []Part{TextPart(`{"template_action":"SUGGEST_RELATED_IDEAS"}`)}})
	require.NoError(t, err)
	assert.JSONEq(t, `{"template_action":"SUGGEST_RELATED_IDEAS","suggested_action":"(fake suggestion)"}`, string(raw))
}

func TestFakeClientDefaultsEmptyStatusAndGoals(t *testing.T) {
	ctx := WithPhase(context.Background(), "update_agenda_item")
	raw, err := NewFakeClient().GenerateJSON(ctx, Request{Parts: []Part{
		TextPart(`{"agenda":"A","minutes":null,"status":"","goals":null}`),
	}})
	require.NoError(t, err)
	var m map[string]any
	require.NoError(t, json.Unmarshal(raw, &m))
	assert.Equal(t, "NOT_STARTED", m["status"])
	assert.Equal(t, []any{}, m["goals"])

	ctx = WithPhase(context.Background(), "update_agenda")
	raw, err = NewFakeClient().GenerateJSON(ctx, Request{Parts: []Part{
		TextPart(`{"items":[{"agenda":"A","minutes":null,"status":"","goals":[]}],"hand_over":null}`),
	}})
	require.NoError(t, err)
	var a struct {
		Items []map[string]any `json:"items"`
	}
	require.NoError(t, json.Unmarshal(raw, &a))
	require.Len(t, a.Items, 1)
	assert.Equal(t, "NOT_STARTED", a.Items[0]["status"])
}
