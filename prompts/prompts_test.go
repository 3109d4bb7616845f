package prompts

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAllTasksLoad(t *testing.T) {
	for _, name := range []string{"transcribe", "update_agenda", "update_agenda_item", "hand_over", "suggest_action"} {
		task, err := Load(name)
		require.NoError(t, err, name)
		assert.NotEmpty(t, task.LeadIns, name)
	}
	_, err := Load("missing")
	assert.Error(t, err)
}

func TestSystemRendersSectionsInOrder(t *testing.T) {
	task := MustLoad("update_agenda_item")
	out, err := task.System(map[string]any{
		"TranscriptionSchema": `{"type":"object"}`,
		"AgendaItemSchema":    `{"type":"object","properties":{}}`,
	})
	require.NoError(t, err)

	role := strings.Index(out, "# role")
	tsk := strings.Index(out, "# task")
	in := strings.Index(out, "# input")
	note := strings.Index(out, "# note")
	require.True(t, role >= 0 && tsk > role && in > tsk && note > in, out)
	assert.Contains(t, out, "1. 今回のインターバル分のトランスクリプト\n```\n{\"type\":\"object\"}\n```")
	assert.Contains(t, out, "アジェンダのうちの1項目")
}

func TestSystemMissingKeyFails(t *testing.T) {
	_, err := MustLoad("update_agenda").System(map[string]any{})
	assert.Error(t, err)
}
