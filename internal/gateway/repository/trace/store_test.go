package trace

import (
	"context"
	"encoding/json"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"facilitator/internal/interval"
)

func sample(id string, at time.Time) Trace {
	return Trace{
		ID:    id,
		Kind:  KindAgenda,
		State: interval.StateDone,
		Mode:  "parallel",
		Items: 2,
		Calls: 3,
		Events: []interval.Event{
			{IntervalID: id, State: interval.StateReceived, Item: -1, At: at},
			{IntervalID: id, State: interval.StateDone, Item: -1, At: at},
		},
		Result:    json.RawMessage(`{"items":[]}`),
		CreatedAt: at,
		UpdatedAt: at,
	}
}

func exerciseStore(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()
	base := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)

	require.NoError(t, s.Save(ctx, sample("a", base)))
	require.NoError(t, s.Save(ctx, sample("b", base.Add(time.Minute))))

	got, err := s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, KindAgenda, got.Kind)
	assert.Equal(t, interval.StateDone, got.State)
	assert.Len(t, got.Events, 2)
	assert.JSONEq(t, `{"items":[]}`, string(got.Result))

	updated := sample("a", base)
	updated.State = interval.StateFailed
	updated.Error = "boom"
	require.NoError(t, s.Save(ctx, updated))
	got, err = s.Get(ctx, "a")
	require.NoError(t, err)
	assert.Equal(t, interval.StateFailed, got.State)
	assert.Equal(t, "boom", got.Error)

	list, err := s.List(ctx, 10)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "b", list[0].ID)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryStore(t *testing.T) {
	exerciseStore(t, NewMemoryStore())
}

func TestSQLiteStore(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "traces.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	exerciseStore(t, s)
}

func TestSQLiteSchemaSurvivesCanceledFirstCall(t *testing.T) {
	s, err := NewSQLite(filepath.Join(t.TempDir(), "traces.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = s.Get(ctx, "missing")
	require.Error(t, err)

	_, err = s.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
	require.NoError(t, s.Save(context.Background(), sample("t1", time.Now())))
}

func TestCachedStore(t *testing.T) {
	s, err := Open("memory", 4)
	require.NoError(t, err)
	exerciseStore(t, s)
}

func TestOpenRejectsUnknownDSN(t *testing.T) {
	_, err := Open("mysql://x", 1)
	assert.Error(t, err)
}

func TestBindPostgres(t *testing.T) {
	s := &SQLStore{dialect: dialectPostgres}
	assert.Equal(t, "a = $1 AND b = $2", s.bind("a = ? AND b = ?"))
	s.dialect = dialectSQLite
	assert.Equal(t, "a = ?", s.bind("a = ?"))
}
