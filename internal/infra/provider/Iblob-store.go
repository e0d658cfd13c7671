package provider

import (
	"context"
	"fmt"
	"time"
)

// IBlobStore durably stores recording blobs and returns a reference
// usable later to retrieve them. It is a collaborator boundary: an
// outage degrades the turn to text-only, it never blocks the interview.
type IBlobStore interface {
	Put(ctx context.Context, key string, data []byte) (string, error)
}

// RecordingKey builds the object key for one answer's recording:
// {user_id}/{session_id}/q{question_id}_{unix_ms}.wav
func RecordingKey(userID string, sessionID string, questionID string, at time.Time) string {
	return fmt.Sprintf("%s/%s/q%s_%d.wav", userID, sessionID, questionID, at.UnixMilli())
}
