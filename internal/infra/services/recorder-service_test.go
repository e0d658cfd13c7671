package services

import (
	"bytes"
	"interview-service/internal/domain/apperrors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type trackedStream struct {
	io.Reader
	closed bool
}

func (ts *trackedStream) Close() error {
	ts.closed = true
	return nil
}

func TestRecorder_TextOnlyAnswer(t *testing.T) {
	recorder := NewRecorder()
	recorder.SetText("  my answer  ")

	draft, err := recorder.Finalize()
	require.NoError(t, err)
	assert.Equal(t, "my answer", draft.Text)
	assert.Empty(t, draft.Audio)
	assert.Zero(t, draft.ElapsedSeconds)
}

func TestRecorder_EmptyAnswerBlocksSubmission(t *testing.T) {
	recorder := NewRecorder()
	recorder.SetText("   ")

	_, err := recorder.Finalize()
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindEmptyAnswer))
}

func TestRecorder_RecordingLifecycle(t *testing.T) {
	stream := &trackedStream{Reader: bytes.NewReader([]byte("fake-wav-bytes"))}

	recorder := NewRecorder()
	base := time.Now()
	ticks := 0
	recorder.now = func() time.Time {
		ticks++
		return base.Add(time.Duration(ticks) * 30 * time.Second)
	}

	require.NoError(t, recorder.StartRecording(stream))
	require.NoError(t, recorder.StopRecording())
	assert.True(t, stream.closed, "stream must be released when recording stops")

	draft, err := recorder.Finalize()
	require.NoError(t, err)
	assert.Equal(t, []byte("fake-wav-bytes"), draft.Audio)
	assert.Equal(t, 30.0, draft.ElapsedSeconds)
}

func TestRecorder_DeniedCaptureIsRejected(t *testing.T) {
	recorder := NewRecorder()
	err := recorder.StartRecording(nil)
	require.Error(t, err)

	// The recorder stays idle: a later stop has nothing to stop.
	require.Error(t, recorder.StopRecording())
}

func TestRecorder_SecondStartRejectedAndStreamReleased(t *testing.T) {
	first := &trackedStream{Reader: bytes.NewReader([]byte("one"))}
	second := &trackedStream{Reader: bytes.NewReader([]byte("two"))}

	recorder := NewRecorder()
	require.NoError(t, recorder.StartRecording(first))
	require.Error(t, recorder.StartRecording(second))
	assert.True(t, second.closed, "rejected stream must still be released")
	assert.False(t, first.closed)

	require.NoError(t, recorder.StopRecording())
	assert.True(t, first.closed)
}

func TestRecorder_AbortReleasesStream(t *testing.T) {
	stream := &trackedStream{Reader: bytes.NewReader([]byte("partial"))}

	recorder := NewRecorder()
	require.NoError(t, recorder.StartRecording(stream))
	recorder.Abort()

	assert.True(t, stream.closed, "stream must be released on early abort")

	_, err := recorder.Finalize()
	require.Error(t, err, "aborted recording with no text is an empty answer")
	assert.True(t, apperrors.IsKind(err, apperrors.KindEmptyAnswer))
}

func TestRecorder_FinalizeWhileRecordingFails(t *testing.T) {
	stream := &trackedStream{Reader: bytes.NewReader([]byte("busy"))}

	recorder := NewRecorder()
	recorder.SetText("some text")
	require.NoError(t, recorder.StartRecording(stream))

	_, err := recorder.Finalize()
	require.Error(t, err)
	recorder.Abort()
}
