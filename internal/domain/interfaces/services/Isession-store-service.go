package Iservices

import (
	"context"
	"interview-service/internal/domain/entities"
)

// ISessionStoreService persists interview sessions in the record store.
type ISessionStoreService interface {
	CreateSession(ctx context.Context, session entities.InterviewSession) error
	FinalizeSession(ctx context.Context, session entities.InterviewSession) (entities.InterviewSession, error)
	FindSession(ctx context.Context, sessionID string) (entities.InterviewSession, error)
	ListSessions(ctx context.Context, userID string) ([]entities.InterviewSession, error)
}
