package services

import (
	"context"
	"fmt"
	"interview-service/internal/domain/apperrors"
	"interview-service/internal/domain/entities"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// memRepository mimics the upsert semantics of the Mongo repository:
// Update writes the document whether or not it already exists.
type memRepository struct {
	docs       map[string]entities.InterviewSession
	failWrites bool
}

func newMemRepository() *memRepository {
	return &memRepository{docs: make(map[string]entities.InterviewSession)}
}

func (mr *memRepository) Create(ctx context.Context, collectionName string, entity entities.InterviewSession) (entities.InterviewSession, error) {
	if mr.failWrites {
		return entities.InterviewSession{}, fmt.Errorf("connection refused")
	}
	mr.docs[entity.ID] = entity
	return entity, nil
}

func (mr *memRepository) Update(ctx context.Context, collectionName string, sessionID string, entity entities.InterviewSession) (entities.InterviewSession, error) {
	if mr.failWrites {
		return entities.InterviewSession{}, fmt.Errorf("connection refused")
	}
	mr.docs[sessionID] = entity
	return entity, nil
}

func (mr *memRepository) Delete(ctx context.Context, collectionName string, sessionID string) error {
	delete(mr.docs, sessionID)
	return nil
}

func (mr *memRepository) FindBySessionID(ctx context.Context, collectionName string, sessionID string) (entities.InterviewSession, error) {
	doc, ok := mr.docs[sessionID]
	if !ok {
		return entities.InterviewSession{}, fmt.Errorf("no documents in result")
	}
	return doc, nil
}

func (mr *memRepository) FindAllByUserID(ctx context.Context, collectionName string, userID string) ([]entities.InterviewSession, error) {
	var out []entities.InterviewSession
	for _, doc := range mr.docs {
		if doc.UserID == userID {
			out = append(out, doc)
		}
	}
	return out, nil
}

func completedSession(sessionID string, userID string) entities.InterviewSession {
	completedAt := time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)
	return entities.InterviewSession{
		ID:         sessionID,
		UserID:     userID,
		TargetRole: "Platform Engineer",
		Questions: []entities.Answer{
			{
				QuestionID:     "q1",
				QuestionText:   "Tell me about an incident you handled.",
				AnswerText:     "We had a cascading failure...",
				AudioReference: userID + "/" + sessionID + "/qq1_1700000000000.wav",
				Feedback:       &entities.AnswerFeedback{Score: 8, Detail: "Strong structure."},
			},
		},
		AudioURLs:       map[string]string{"q1": userID + "/" + sessionID + "/qq1_1700000000000.wav"},
		TotalScore:      80,
		AverageScore:    82.5,
		DurationMinutes: 14,
		CompletedAt:     &completedAt,
		CreatedAt:       completedAt.Add(-14 * time.Minute),
	}
}

func TestFinalizeThenFindRoundTrips(t *testing.T) {
	repo := newMemRepository()
	store := NewSessionStoreService(repo, testLogger())

	session := completedSession("s-1", "user-1")
	_, err := store.FinalizeSession(context.Background(), session)
	require.NoError(t, err)

	found, err := store.FindSession(context.Background(), "s-1")
	require.NoError(t, err)
	assert.Equal(t, session.Questions, found.Questions)
	assert.Equal(t, session.AudioURLs, found.AudioURLs)
	assert.Equal(t, session.TotalScore, found.TotalScore)
	assert.Equal(t, session.DurationMinutes, found.DurationMinutes)
	require.NotNil(t, found.CompletedAt)
	assert.Equal(t, *session.CompletedAt, *found.CompletedAt)
}

func TestFinalizeCreatesWhenSetupWriteNeverHappened(t *testing.T) {
	repo := newMemRepository()
	store := NewSessionStoreService(repo, testLogger())

	// No CreateSession call before the finalize; the upsert still
	// produces the record.
	_, err := store.FinalizeSession(context.Background(), completedSession("s-2", "user-1"))
	require.NoError(t, err)

	found, err := store.FindSession(context.Background(), "s-2")
	require.NoError(t, err)
	assert.Equal(t, 80.0, found.TotalScore)
}

func TestFindSessionMissing(t *testing.T) {
	store := NewSessionStoreService(newMemRepository(), testLogger())

	_, err := store.FindSession(context.Background(), "nope")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindNotFound))
}

func TestWriteFailuresAreStorageErrors(t *testing.T) {
	repo := newMemRepository()
	repo.failWrites = true
	store := NewSessionStoreService(repo, testLogger())

	err := store.CreateSession(context.Background(), completedSession("s-3", "user-1"))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindStorage))

	_, err = store.FinalizeSession(context.Background(), completedSession("s-3", "user-1"))
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindStorage))
}

func TestListSessionsFiltersByUser(t *testing.T) {
	repo := newMemRepository()
	store := NewSessionStoreService(repo, testLogger())

	_, err := store.FinalizeSession(context.Background(), completedSession("s-4", "user-1"))
	require.NoError(t, err)
	_, err = store.FinalizeSession(context.Background(), completedSession("s-5", "user-2"))
	require.NoError(t, err)

	sessions, err := store.ListSessions(context.Background(), "user-1")
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, "s-4", sessions[0].ID)
}
