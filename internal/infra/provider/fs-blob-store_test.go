package provider

import (
	"context"
	"interview-service/internal/infra/logger"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFsBlobStorePutAndReadBack(t *testing.T) {
	store := NewFsBlobStore(logger.NewLogger(context.Background(), true), t.TempDir())

	key := "user-1/session-1/qq1_1700000000000.wav"
	ref, err := store.Put(context.Background(), key, []byte("wav-bytes"))
	require.NoError(t, err)
	assert.Equal(t, key, ref)

	data, err := os.ReadFile(filepath.Join(store.RootDir, "user-1", "session-1", "qq1_1700000000000.wav"))
	require.NoError(t, err)
	assert.Equal(t, []byte("wav-bytes"), data)
}

func TestFsBlobStoreCancelledContext(t *testing.T) {
	store := NewFsBlobStore(logger.NewLogger(context.Background(), true), t.TempDir())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := store.Put(ctx, "user-1/session-1/qq1_0.wav", []byte("bytes"))
	require.Error(t, err)
}

func TestRecordingKeyFormat(t *testing.T) {
	at := time.UnixMilli(1700000000000)
	key := RecordingKey("user-1", "session-1", "q3", at)
	assert.Equal(t, "user-1/session-1/qq3_1700000000000.wav", key)
}
