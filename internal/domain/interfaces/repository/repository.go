package repository

import "context"

const SessionCollection = "InterviewSessions"

type Repository[T any] interface {
	Create(ctx context.Context, collectionName string, entity T) (T, error)
	Update(ctx context.Context, collectionName string, sessionID string, entity T) (T, error)
	Delete(ctx context.Context, collectionName string, sessionID string) error
	FindBySessionID(ctx context.Context, collectionName string, sessionID string) (T, error)
	FindAllByUserID(ctx context.Context, collectionName string, userID string) ([]T, error)
}
