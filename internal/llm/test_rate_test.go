package llm

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fastClient returns immediately.
type fastClient struct{ calls int }

func (f *fastClient) Name() string { return "fast" }
func (f *fastClient) Close() error { return nil }
func (f *fastClient) GenerateJSON(ctx context.Context, req Request) (json.RawMessage, error) {
	f.calls++
	return json.RawMessage(`{}`), nil
}

func TestRateLimitSpacing(t *testing.T) {
	base := &fastClient{}
	cli := Wrap(base, RateLimit(2, 1))
	t.Cleanup(func() { _ = cli.Close() })

	ctx := context.Background()
	start := time.Now()
	_, err := cli.GenerateJSON(ctx, Request{})
	require.NoError(t, err)
	_, err = cli.GenerateJSON(ctx, Request{})
	require.NoError(t, err)

	assert.GreaterOrEqual(t, time.Since(start), 450*time.Millisecond)
	assert.Equal(t, 2, base.calls)
}

func TestRateLimitBurst(t *testing.T) {
	cli := RateLimit(2, 2)(&fastClient{})
	t.Cleanup(func() { _ = cli.Close() })

	start := time.Now()
	for i := 0; i < 2; i++ {
		_, err := cli.GenerateJSON(context.Background(), Request{})
		require.NoError(t, err)
	}
	assert.Less(t, time.Since(start), 200*time.Millisecond)
}

func TestRateLimitHonorsContext(t *testing.T) {
	cli := RateLimit(0.1, 1)(&fastClient{})
	t.Cleanup(func() { _ = cli.Close() })

	_, err := cli.GenerateJSON(context.Background(), Request{})
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err = cli.GenerateJSON(ctx, Request{})
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestRateLimitDisabled(t *testing.T) {
	cli := RateLimit(0, 0)(&fastClient{})
	for i := 0; i < 5; i++ {
		_, err := cli.GenerateJSON(context.Background(), Request{})
		require.NoError(t, err)
	}
	require.NoError(t, cli.Close())
}
