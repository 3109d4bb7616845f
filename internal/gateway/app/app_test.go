package app

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facilitator/internal/gateway/config"
	"facilitator/internal/gateway/handler/rpc"
	"facilitator/internal/types"
)

const agendaJSON = `{"items":[{"agenda":"budget","status":"NOT_STARTED","goals":[{"done":true,"condition":"agree"},{"done":false,"condition":"sign"}]}],"hand_over":null}`

func testConfig() *config.Config {
	return &config.Config{
		Port:   ":0",
		Env:    "local",
		APIKey: "secret",
		LLM: config.LLMConfig{
			Fake:        true,
			MaxRetries:  1,
			BackoffUnit: time.Millisecond,
			Temperature: 0.5,
		},
		Trace:    config.TraceConfig{DSN: "memory", CacheSize: 8},
		Interval: config.IntervalConfig{Mode: "parallel"},
	}
}

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()
	a, err := NewWithConfig(context.Background(), testConfig())
	require.NoError(t, err)
	srv := httptest.NewServer(a.server.Handler())
	t.Cleanup(func() {
		srv.Close()
		_ = a.core.Close()
	})
	return srv
}

func formBody(t *testing.T, fields map[string]string) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, mw.WriteField(k, v))
	}
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func do(t *testing.T, req *http.Request, key string) *http.Response {
	t.Helper()
	if key != "" {
		req.Header.Set("key", key)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func TestActionsRequiresKey(t *testing.T) {
	srv := newTestServer(t)

	req, _ := http.NewRequest(http.MethodGet, srv.URL+"/actions", nil)
	assert.Equal(t, http.StatusUnauthorized, do(t, req, "").StatusCode)

	req, _ = http.NewRequest(http.MethodGet, srv.URL+"/actions", nil)
	resp := do(t, req, "secret")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out types.TemplateActions
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Len(t, out.Actions, 3)
}

func TestCheckAgendaForm(t *testing.T) {
	srv := newTestServer(t)

	body, ct := formBody(t, map[string]string{"json_data": agendaJSON})
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/check_agenda", body)
	req.Header.Set("Content-Type", ct)
	resp := do(t, req, "secret")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var a types.Agenda
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&a))
	require.Len(t, a.Items, 1)
	assert.Equal(t, "budget", a.Items[0].Agenda)

	body, ct = formBody(t, map[string]string{"json_data": `{"items":[{"agenda":"x","status":"MAYBE"}]}`})
	req, _ = http.NewRequest(http.MethodPost, srv.URL+"/check_agenda", body)
	req.Header.Set("Content-Type", ct)
	assert.Equal(t, http.StatusBadRequest, do(t, req, "secret").StatusCode)
}

func TestSuggestActionsWithFakeModel(t *testing.T) {
	srv := newTestServer(t)

	body, ct := formBody(t, map[string]string{"json_data": agendaJSON})
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/suggest_actions?template_action=RAISE_OFF_AGENDA_TOPICS", body)
	req.Header.Set("Content-Type", ct)
	resp := do(t, req, "secret")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var out types.SuggestedAction
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	assert.Equal(t, types.ActionRaiseOffAgendaTopics, out.TemplateAction)
	assert.NotEmpty(t, out.SuggestedAction)
}

func TestTranscriptWithoutAudioStore(t *testing.T) {
	srv := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for _, field := range []string{"host_audio", "meet_audio"} {
		fw, err := mw.CreateFormFile(field, field+".webm")
		require.NoError(t, err)
		_, _ = fw.Write([]byte("webm"))
	}
	require.NoError(t, mw.Close())
	req, _ := http.NewRequest(http.MethodPost, srv.URL+"/transcript", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	assert.Equal(t, http.StatusServiceUnavailable, do(t, req, "secret").StatusCode)
}

func TestRootRedirectsWithoutKey(t *testing.T) {
	srv := newTestServer(t)
	client := &http.Client{CheckRedirect: func(*http.Request, []*http.Request) error { return http.ErrUseLastResponse }}
	resp, err := client.Get(srv.URL + "/")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusTemporaryRedirect, resp.StatusCode)
	assert.Equal(t, "/actions", resp.Header.Get("Location"))
}

func TestRPCUpdateAndGetInterval(t *testing.T) {
	srv := newTestServer(t)
	withKey := connect.WithInterceptors(connect.UnaryInterceptorFunc(func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			req.Header().Set("key", "secret")
			return next(ctx, req)
		}
	}))
	codec := connect.WithCodec(rpcTestCodec{})

	var agenda types.Agenda
	require.NoError(t, json.Unmarshal([]byte(agendaJSON), &agenda))

	update := connect.NewClient[rpc.UpdateAgendaRequest, rpc.UpdateAgendaResponse](
		http.DefaultClient, srv.URL+rpc.UpdateAgendaProcedure, codec, withKey)
	resp, err := update.CallUnary(context.Background(), connect.NewRequest(&rpc.UpdateAgendaRequest{
		IntervalID: "iv-rpc",
		Transcription: types.Transcription{Comments: []types.Comment{
			{StartSec: 0, EndSec: 2, SpeakerID: "1", Text: "予算に合意"},
		}},
		Agenda: agenda,
	}))
	require.NoError(t, err)
	assert.Equal(t, "iv-rpc", resp.Msg.IntervalID)
	require.Len(t, resp.Msg.Agenda.Items, 1)
	item := resp.Msg.Agenda.Items[0]
	assert.Equal(t, "budget", item.Agenda)
	assert.Equal(t, types.StatusInProgress, item.Status)
	require.NotNil(t, item.Minutes)
	assert.True(t, strings.Contains(*item.Minutes, "fake minutes"))
	require.NotNil(t, resp.Msg.Agenda.HandOver)

	get := connect.NewClient[rpc.GetIntervalRequest, rpc.GetIntervalResponse](
		http.DefaultClient, srv.URL+rpc.GetIntervalProcedure, codec, withKey)
	got, err := get.CallUnary(context.Background(), connect.NewRequest(&rpc.GetIntervalRequest{IntervalID: "iv-rpc"}))
	require.NoError(t, err)
	assert.Equal(t, "done", string(got.Msg.Interval.State))
	assert.Equal(t, 2, got.Msg.Interval.Calls)

	_, err = get.CallUnary(context.Background(), connect.NewRequest(&rpc.GetIntervalRequest{IntervalID: "missing"}))
	assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
}

// rpcTestCodec mirrors the server's JSON codec for the client side.
type rpcTestCodec struct{}

func (rpcTestCodec) Name() string                    { return "json" }
func (rpcTestCodec) Marshal(v any) ([]byte, error)   { return json.Marshal(v) }
func (rpcTestCodec) Unmarshal(b []byte, v any) error { return json.Unmarshal(b, v) }
