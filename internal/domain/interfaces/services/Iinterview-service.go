package Iservices

import (
	"context"
	"interview-service/internal/domain/dto"
	"interview-service/internal/domain/entities"
)

// IInterviewService is the session state machine. It owns the opaque
// session-state token, the answer accumulation, and the
// completion/scoring pipeline.
type IInterviewService interface {
	StartInterview(ctx context.Context, userID string, setup dto.InterviewSetup, bearer string) (dto.InterviewStarted, error)
	SubmitAnswer(ctx context.Context, userID string, sessionID string, submission dto.AnswerSubmission, bearer string) (dto.TurnOutcome, error)
	GetInterview(ctx context.Context, userID string, sessionID string) (dto.InterviewStatus, error)
	ListInterviews(ctx context.Context, userID string) ([]entities.InterviewSession, error)
	Abandon(userID string, sessionID string) error
}
