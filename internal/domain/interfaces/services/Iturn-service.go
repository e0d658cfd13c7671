package Iservices

import (
	"context"
	"encoding/json"
	"interview-service/internal/domain/dto"
)

// ITurnService sends one interview turn to the remote reasoning
// service. It never mutates local state; the caller owns the state
// transition. The bearer credential is passed explicitly per call.
type ITurnService interface {
	SendTurn(ctx context.Context, answerText string, meta dto.InterviewMeta, state json.RawMessage, bearer string) (dto.TurnResult, error)
}
