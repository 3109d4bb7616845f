package cli

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facilitator/internal/types"
)

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	var out, errOut bytes.Buffer
	cmd := NewRootCmd(&Dependencies{Stdin: strings.NewReader(stdin)})
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestSchemaCommand(t *testing.T) {
	out, _, err := run(t, "", "schema", "hand_over")
	require.NoError(t, err)
	var s map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &s))
	assert.Equal(t, "object", s["type"])
	assert.NotContains(t, out, "$defs")
	assert.NotContains(t, out, "title")

	_, _, err = run(t, "", "schema", "nope")
	assert.Error(t, err)

	out, _, err = run(t, "", "schema")
	require.NoError(t, err)
	assert.Contains(t, out, "# agenda_item")
}

func TestActionsCommand(t *testing.T) {
	out, _, err := run(t, "", "actions")
	require.NoError(t, err)
	assert.Equal(t, 3, strings.Count(out, "\n"))
	assert.Contains(t, out, string(types.ActionRaiseOffAgendaTopics))
}

func TestResolveCommand(t *testing.T) {
	in := `{"items":[{"agenda":"a","goals":[{"done":true,"condition":"x"},{"done":false,"condition":"y"}]}]}`
	out, errOut, err := run(t, in, "resolve")
	require.NoError(t, err)
	var a types.Agenda
	require.NoError(t, json.Unmarshal([]byte(out), &a))
	assert.Equal(t, types.StatusInProgress, a.Items[0].Status)
	assert.Contains(t, errOut, "IN_PROGRESS")

	_, _, err = run(t, "[]", "resolve")
	assert.Error(t, err)
}
