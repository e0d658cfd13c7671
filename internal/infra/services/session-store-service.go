package services

import (
	"context"
	"fmt"
	"interview-service/internal/domain/apperrors"
	"interview-service/internal/domain/entities"
	"interview-service/internal/domain/interfaces/repository"
	"interview-service/internal/infra/logger"
	"interview-service/internal/metrics"
)

// SessionStoreService is the service responsible for persisting
// interview sessions in the record store.
type SessionStoreService struct {
	SessionRepository repository.Repository[entities.InterviewSession]
	Logger            *logger.Logger
}

func NewSessionStoreService(sessionRepository repository.Repository[entities.InterviewSession], logger *logger.Logger) *SessionStoreService {
	return &SessionStoreService{
		SessionRepository: sessionRepository,
		Logger:            logger,
	}
}

// CreateSession inserts the empty session record at interview start.
func (sss *SessionStoreService) CreateSession(ctx context.Context, session entities.InterviewSession) error {
	_, err := sss.SessionRepository.Create(ctx, repository.SessionCollection, session)
	if err != nil {
		sss.Logger.Error(fmt.Sprintf("Failed to create session %s: %v", session.ID, err))
		metrics.SessionWriteFailures.Inc()
		return apperrors.Storage(fmt.Sprintf("failed to create session %s", session.ID), err)
	}
	return nil
}

// FinalizeSession writes the completed session in a single update.
// The update upserts, so a session whose start-time creation failed is
// created now instead and results are never silently lost.
func (sss *SessionStoreService) FinalizeSession(ctx context.Context, session entities.InterviewSession) (entities.InterviewSession, error) {
	result, err := sss.SessionRepository.Update(ctx, repository.SessionCollection, session.ID, session)
	if err != nil {
		sss.Logger.Error(fmt.Sprintf("Failed to finalize session %s: %v", session.ID, err))
		metrics.SessionWriteFailures.Inc()
		return entities.InterviewSession{}, apperrors.Storage(fmt.Sprintf("failed to finalize session %s", session.ID), err)
	}
	return result, nil
}

// FindSession retrieves a persisted session by id.
func (sss *SessionStoreService) FindSession(ctx context.Context, sessionID string) (entities.InterviewSession, error) {
	result, err := sss.SessionRepository.FindBySessionID(ctx, repository.SessionCollection, sessionID)
	if err != nil {
		sss.Logger.Warn(fmt.Sprintf("Failed to find session '%s': %v", sessionID, err))
		return entities.InterviewSession{}, apperrors.NotFound(fmt.Sprintf("session %s not found", sessionID))
	}
	return result, nil
}

// ListSessions retrieves all persisted sessions for a user.
func (sss *SessionStoreService) ListSessions(ctx context.Context, userID string) ([]entities.InterviewSession, error) {
	results, err := sss.SessionRepository.FindAllByUserID(ctx, repository.SessionCollection, userID)
	if err != nil {
		sss.Logger.Error(fmt.Sprintf("Failed to list sessions for user '%s': %v", userID, err))
		return nil, apperrors.Storage(fmt.Sprintf("failed to list sessions for user %s", userID), err)
	}
	return results, nil
}
