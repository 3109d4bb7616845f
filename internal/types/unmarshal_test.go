package types

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAgendaItemDefaults(t *testing.T) {
	var it AgendaItem
	require.NoError(t, json.Unmarshal([]byte(`{"agenda":"予算"}`), &it))
	assert.Equal(t, StatusNotStarted, it.Status)
	assert.NotNil(t, it.Goals)
	assert.Empty(t, it.Goals)
	assert.Nil(t, it.Minutes)
}

func TestAgendaAcceptsAliasesAndLabels(t *testing.T) {
	raw := `{
		"items": [{"agenda":"a","status":"進行中","goals":[{"condition":"c","done":true,"result":"r"}]}],
		"handOver": "next"
	}`
	var a Agenda
	require.NoError(t, json.Unmarshal([]byte(raw), &a))
	require.Len(t, a.Items, 1)
	assert.Equal(t, StatusInProgress, a.Items[0].Status)
	require.NotNil(t, a.HandOver)
	assert.Equal(t, "next", *a.HandOver)

	out, err := json.Marshal(a)
	require.NoError(t, err)
	assert.Contains(t, string(out), `"hand_over":"next"`)
	assert.Contains(t, string(out), `"status":"IN_PROGRESS"`)
}

func TestAgendaRejectsUnknownStatus(t *testing.T) {
	var a Agenda
	err := json.Unmarshal([]byte(`{"items":[{"agenda":"a","status":"DONE"}]}`), &a)
	assert.Error(t, err)
}

func TestSuggestedActionAliases(t *testing.T) {
	var s SuggestedAction
	require.NoError(t, json.Unmarshal([]byte(`{"templateAction":"関連するアイデアを挙げる","suggestedAction":"x"}`), &s))
	assert.Equal(t, ActionSuggestRelatedIdeas, s.TemplateAction)
	assert.Equal(t, "x", s.SuggestedAction)

	var h HandOver
	require.NoError(t, json.Unmarshal([]byte(`{"handOver":"h"}`), &h))
	assert.Equal(t, "h", h.HandOver)
}

func TestParseTemplateAction(t *testing.T) {
	for _, a := range TemplateActionValues() {
		got, err := ParseTemplateAction(string(a))
		require.NoError(t, err)
		assert.Equal(t, a, got)
		got, err = ParseTemplateAction(a.Label())
		require.NoError(t, err)
		assert.Equal(t, a, got)
	}
	_, err := ParseTemplateAction("nope")
	assert.Error(t, err)
	assert.Len(t, ResolveTemplateActions().Actions, 3)
}
