package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"interview-service/internal/domain/apperrors"
	"interview-service/internal/domain/dto"
	"interview-service/internal/infra/logger"
	"interview-service/internal/metrics"
	"io"
	"net/http"
	"time"
)

// TurnService sends one interview turn to the remote reasoning
// service. It holds no session state; the caller owns the transition.
type TurnService struct {
	Logger     *logger.Logger
	HttpClient *http.Client
	Host       string
}

func NewTurnService(logger *logger.Logger, httpClient *http.Client, host string) *TurnService {
	return &TurnService{Logger: logger, HttpClient: httpClient, Host: host}
}

// turnEnvelope is the outer response shape. The reasoning service
// either exposes interviewPayload directly or (compatibility path)
// serializes the same structure as text inside items[0].content.
type turnEnvelope struct {
	InterviewPayload *interviewPayload `json:"interviewPayload"`
	Items            []envelopeItem    `json:"items"`
	Error            *remoteError      `json:"error"`
}

type envelopeItem struct {
	Content string `json:"content"`
}

type interviewPayload struct {
	SessionState json.RawMessage `json:"session_state"`
	Payload      json.RawMessage `json:"payload"`
}

type remoteError struct {
	Message string `json:"message"`
	Code    string `json:"code"`
}

func (ts *TurnService) SendTurn(ctx context.Context, answerText string, meta dto.InterviewMeta, state json.RawMessage, bearer string) (dto.TurnResult, error) {
	request := dto.TurnRequest{
		Message: answerText,
		Context: dto.TurnContext{
			Context:      dto.TurnContextInterviewSession,
			Meta:         meta,
			SessionState: state,
		},
	}

	payloadBytes, err := json.Marshal(request)
	if err != nil {
		return dto.TurnResult{}, apperrors.Protocol("failed to marshal turn request", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, ts.Host+"/query", bytes.NewBuffer(payloadBytes))
	if err != nil {
		return dto.TurnResult{}, apperrors.Transport("failed to create turn request", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", bearer))

	start := time.Now()
	resp, err := ts.HttpClient.Do(req)
	if err != nil {
		metrics.TurnsTotal.WithLabelValues("transport_error").Inc()
		ts.Logger.Error(fmt.Sprintf("Turn request failed: %s", err.Error()))
		return dto.TurnResult{}, apperrors.Transport("reasoning service unreachable", err)
	}
	defer resp.Body.Close()
	metrics.TurnDuration.Observe(time.Since(start).Seconds())

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		metrics.TurnsTotal.WithLabelValues("transport_error").Inc()
		return dto.TurnResult{}, apperrors.Transport("failed to read turn response body", err)
	}

	var envelope turnEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		metrics.TurnsTotal.WithLabelValues("protocol_error").Inc()
		ts.Logger.Error(fmt.Sprintf("Malformed turn response: %s", err.Error()))
		return dto.TurnResult{}, apperrors.Protocol("turn response is not valid JSON", err)
	}

	if envelope.Error != nil {
		metrics.TurnsTotal.WithLabelValues("remote_error").Inc()
		ts.Logger.Error(fmt.Sprintf("Reasoning service reported error: %s (%s)", envelope.Error.Message, envelope.Error.Code))
		return dto.TurnResult{}, apperrors.Remote(envelope.Error.Message, envelope.Error.Code)
	}

	if resp.StatusCode != http.StatusOK {
		metrics.TurnsTotal.WithLabelValues("remote_error").Inc()
		ts.Logger.Error(fmt.Sprintf("Reasoning service returned status %d: %s", resp.StatusCode, string(body)))
		return dto.TurnResult{}, apperrors.Remote(fmt.Sprintf("reasoning service returned status %d", resp.StatusCode), "")
	}

	inner, err := extractInterviewPayload(envelope)
	if err != nil {
		metrics.TurnsTotal.WithLabelValues("protocol_error").Inc()
		return dto.TurnResult{}, err
	}

	payload, err := parseTurnPayload(inner.Payload)
	if err != nil {
		metrics.TurnsTotal.WithLabelValues("protocol_error").Inc()
		return dto.TurnResult{}, err
	}

	metrics.TurnsTotal.WithLabelValues("ok").Inc()
	return dto.TurnResult{SessionState: inner.SessionState, Payload: payload}, nil
}

// extractInterviewPayload resolves the two envelope variants. The
// items[0].content path must fail loudly on malformed content rather
// than substituting a default payload.
func extractInterviewPayload(envelope turnEnvelope) (interviewPayload, error) {
	var inner interviewPayload

	switch {
	case envelope.InterviewPayload != nil:
		inner = *envelope.InterviewPayload
	case len(envelope.Items) > 0:
		content := envelope.Items[0].Content
		if content == "" {
			return interviewPayload{}, apperrors.Protocol("turn response item carries no content", nil)
		}
		var parsed struct {
			InterviewPayload *interviewPayload `json:"interviewPayload"`
		}
		if err := json.Unmarshal([]byte(content), &parsed); err != nil {
			return interviewPayload{}, apperrors.Protocol("turn response item content is not valid JSON", err)
		}
		if parsed.InterviewPayload == nil {
			// Content may carry the payload structure directly.
			if err := json.Unmarshal([]byte(content), &inner); err != nil {
				return interviewPayload{}, apperrors.Protocol("turn response item content has no interview payload", err)
			}
		} else {
			inner = *parsed.InterviewPayload
		}
	default:
		return interviewPayload{}, apperrors.Protocol("turn response carries neither interviewPayload nor items", nil)
	}

	if len(inner.SessionState) == 0 || string(inner.SessionState) == "null" {
		return interviewPayload{}, apperrors.Protocol("turn response is missing session_state", nil)
	}
	if len(inner.Payload) == 0 || string(inner.Payload) == "null" {
		return interviewPayload{}, apperrors.Protocol("turn response is missing payload", nil)
	}

	return inner, nil
}

// parseTurnPayload interprets the tagged union. Exactly one variant is
// produced; an unknown kind violates the turn contract.
func parseTurnPayload(raw json.RawMessage) (dto.TurnPayload, error) {
	var discriminator struct {
		Kind string `json:"kind"`
	}
	if err := json.Unmarshal(raw, &discriminator); err != nil {
		return dto.TurnPayload{}, apperrors.Protocol("turn payload is not valid JSON", err)
	}

	switch discriminator.Kind {
	case dto.PayloadKindQuestion:
		var question dto.QuestionPayload
		if err := json.Unmarshal(raw, &question); err != nil {
			return dto.TurnPayload{}, apperrors.Protocol("malformed question payload", err)
		}
		if question.Question == "" {
			return dto.TurnPayload{}, apperrors.Protocol("question payload carries no question text", nil)
		}
		return dto.TurnPayload{Kind: dto.PayloadKindQuestion, Question: &question}, nil
	case dto.PayloadKindFeedback:
		var feedback dto.FeedbackPayload
		if err := json.Unmarshal(raw, &feedback); err != nil {
			return dto.TurnPayload{}, apperrors.Protocol("malformed feedback payload", err)
		}
		return dto.TurnPayload{Kind: dto.PayloadKindFeedback, Feedback: &feedback}, nil
	default:
		return dto.TurnPayload{}, apperrors.Protocol(fmt.Sprintf("unknown turn payload kind %q", discriminator.Kind), nil)
	}
}
