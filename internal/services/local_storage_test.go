package services

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalArtifactStorageRoundTrip(t *testing.T) {
	dir := t.TempDir()
	storage, err := NewLocalArtifactStorage(dir, "http://localhost:8080/static/")
	require.NoError(t, err)

	ctx := context.Background()
	data := []byte("png-bytes")

	url, err := storage.Upload(ctx, "tickets/abc.png", data, "image/png")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/static/tickets/abc.png", url)

	written, err := os.ReadFile(filepath.Join(dir, "tickets", "abc.png"))
	require.NoError(t, err)
	assert.Equal(t, data, written)

	exists, err := storage.Exists(ctx, "tickets/abc.png")
	require.NoError(t, err)
	assert.True(t, exists)

	require.NoError(t, storage.Delete(ctx, "tickets/abc.png"))

	exists, err = storage.Exists(ctx, "tickets/abc.png")
	require.NoError(t, err)
	assert.False(t, exists)
}

func TestLocalArtifactStorageDeleteMissingIsNoError(t *testing.T) {
	storage, err := NewLocalArtifactStorage(t.TempDir(), "http://localhost:8080/static")
	require.NoError(t, err)

	assert.NoError(t, storage.Delete(context.Background(), "tickets/missing.png"))
}
