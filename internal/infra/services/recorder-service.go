package services

import (
	"fmt"
	"interview-service/internal/domain/apperrors"
	"io"
	"strings"
	"sync"
	"time"
)

type recorderState int

const (
	recorderIdle recorderState = iota
	recorderRecording
	recorderStopped
)

// AnswerDraft is the finalized recorder output handed to the state
// machine.
type AnswerDraft struct {
	Text           string
	Audio          []byte
	ElapsedSeconds float64
}

// Recorder accumulates the free-text answer and/or one voice
// recording for the current question. The audio stream is exclusively
// owned for the lifetime of one recording and is closed on every exit
// path, including early abort.
type Recorder struct {
	mu        sync.Mutex
	state     recorderState
	text      string
	stream    io.ReadCloser
	audio     []byte
	startedAt time.Time
	stoppedAt time.Time
	now       func() time.Time
}

func NewRecorder() *Recorder {
	return &Recorder{now: time.Now}
}

func (r *Recorder) SetText(text string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.text = text
}

func (r *Recorder) Text() string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.text
}

// StartRecording takes ownership of the audio stream. A nil stream
// means the capture device was denied; that is surfaced as a failure
// and the recorder stays idle.
func (r *Recorder) StartRecording(stream io.ReadCloser) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if stream == nil {
		return fmt.Errorf("audio capture unavailable: access denied")
	}
	if r.state == recorderRecording {
		stream.Close()
		return fmt.Errorf("recording already in progress")
	}

	r.stream = stream
	r.audio = nil
	r.state = recorderRecording
	r.startedAt = r.now()
	return nil
}

// StopRecording drains the stream into the captured recording and
// releases it.
func (r *Recorder) StopRecording() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state != recorderRecording {
		return fmt.Errorf("no recording in progress")
	}

	data, readErr := io.ReadAll(r.stream)
	closeErr := r.stream.Close()
	r.stream = nil
	r.stoppedAt = r.now()
	r.state = recorderStopped

	if readErr != nil {
		r.audio = nil
		return fmt.Errorf("reading recording stream: %w", readErr)
	}
	r.audio = data
	if closeErr != nil {
		return fmt.Errorf("releasing recording stream: %w", closeErr)
	}
	return nil
}

// Abort discards any in-progress recording and releases the stream.
func (r *Recorder) Abort() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.stream != nil {
		r.stream.Close()
		r.stream = nil
	}
	r.audio = nil
	r.state = recorderIdle
}

// Finalize requires at least one of non-empty text or a captured
// recording; otherwise it signals an empty-answer error and the caller
// must block submission.
func (r *Recorder) Finalize() (AnswerDraft, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.state == recorderRecording {
		return AnswerDraft{}, fmt.Errorf("recording still in progress")
	}

	text := strings.TrimSpace(r.text)
	if text == "" && len(r.audio) == 0 {
		return AnswerDraft{}, apperrors.EmptyAnswer("answer requires text or a recording")
	}

	var elapsed float64
	if r.state == recorderStopped {
		elapsed = r.stoppedAt.Sub(r.startedAt).Seconds()
		if elapsed < 0 {
			elapsed = 0
		}
	}

	return AnswerDraft{Text: text, Audio: r.audio, ElapsedSeconds: elapsed}, nil
}
