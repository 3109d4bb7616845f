package audio

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryStorePutDelete(t *testing.T) {
	s := NewMemoryStore()
	ctx := context.Background()
	key := ObjectKey("01HX")

	ref, err := s.Put(ctx, key, strings.NewReader("mp3"), 3, "audio/mp3")
	require.NoError(t, err)
	assert.Equal(t, "mem://audio/01HX.mp3", ref.URI)
	assert.Equal(t, "audio/mp3", ref.MIMEType)

	data, ok := s.Get(key)
	require.True(t, ok)
	assert.Equal(t, "mp3", string(data))

	require.NoError(t, s.Delete(ctx, key))
	assert.ErrorIs(t, s.Delete(ctx, key), ErrNotFound)
	assert.Equal(t, 0, s.Len())
}

func TestNewS3StoreValidates(t *testing.T) {
	_, err := NewS3Store(S3Config{})
	assert.Error(t, err)
	_, err = NewS3Store(S3Config{Endpoint: "storage.googleapis.com", AccessKey: "a", SecretKey: "b"})
	assert.Error(t, err)

	s, err := NewS3Store(S3Config{Endpoint: "storage.googleapis.com", AccessKey: "a", SecretKey: "b", Bucket: "meet", UseSSL: true})
	require.NoError(t, err)
	assert.Equal(t, "gs://meet/audio/x.mp3", s.URI(ObjectKey("x")))
}
