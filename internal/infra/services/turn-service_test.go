package services

import (
	"context"
	"encoding/json"
	"fmt"
	"interview-service/internal/domain/apperrors"
	"interview-service/internal/domain/dto"
	"interview-service/internal/infra/logger"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger() *logger.Logger {
	return logger.NewLogger(context.Background(), true)
}

func testMeta() dto.InterviewMeta {
	return dto.InterviewMeta{
		TargetRole:      "Backend Engineer",
		ExperienceLevel: "mid",
		Difficulty:      "standard",
		QuestionsTarget: 8,
	}
}

func TestSendTurn_QuestionResponse(t *testing.T) {
	var captured dto.TurnRequest
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/query", r.URL.Path)
		require.Equal(t, "Bearer secret-token", r.Header.Get("Authorization"))
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))

		fmt.Fprint(w, `{
			"interviewPayload": {
				"session_state": {"question_index": 0, "total_questions": 8, "opaque": "xyz"},
				"payload": {"kind": "question", "question_id": "q1", "question": "Tell me about yourself.", "topic": "intro"}
			}
		}`)
	}))
	defer server.Close()

	ts := NewTurnService(testLogger(), server.Client(), server.URL)

	result, err := ts.SendTurn(context.Background(), "", testMeta(), nil, "secret-token")
	require.NoError(t, err)

	assert.Equal(t, "", captured.Message)
	assert.Equal(t, dto.TurnContextInterviewSession, captured.Context.Context)
	assert.Equal(t, "null", string(captured.Context.SessionState))

	require.Equal(t, dto.PayloadKindQuestion, result.Payload.Kind)
	require.NotNil(t, result.Payload.Question)
	assert.Nil(t, result.Payload.Feedback)
	assert.Equal(t, "q1", result.Payload.Question.QuestionID)
	assert.Equal(t, "Tell me about yourself.", result.Payload.Question.Question)

	view, err := dto.ParseStateView(result.SessionState)
	require.NoError(t, err)
	assert.Equal(t, 0, view.QuestionIndex)
	assert.Equal(t, 8, view.TotalQuestions)
	// Opaque remainder must survive untouched.
	assert.Contains(t, string(result.SessionState), `"opaque": "xyz"`)
}

func TestSendTurn_ForwardsStateVerbatim(t *testing.T) {
	state := json.RawMessage(`{"question_index":3,"total_questions":8,"server_secret":"do-not-touch"}`)

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req dto.TurnRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.JSONEq(t, string(state), string(req.Context.SessionState))

		fmt.Fprint(w, `{
			"interviewPayload": {
				"session_state": {"question_index": 4, "total_questions": 8},
				"payload": {"kind": "question", "question_id": "q5", "question": "Next question"}
			}
		}`)
	}))
	defer server.Close()

	ts := NewTurnService(testLogger(), server.Client(), server.URL)
	_, err := ts.SendTurn(context.Background(), "my answer", testMeta(), state, "tok")
	require.NoError(t, err)
}

func TestSendTurn_FeedbackResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"interviewPayload": {
				"session_state": {"question_index": 7, "total_questions": 8},
				"payload": {
					"kind": "feedback",
					"scores": {"overall": 7.5, "communication": 8},
					"strengths": ["clear answers"],
					"improvements": ["more depth"],
					"summary": "Solid performance."
				}
			}
		}`)
	}))
	defer server.Close()

	ts := NewTurnService(testLogger(), server.Client(), server.URL)
	result, err := ts.SendTurn(context.Background(), "final answer", testMeta(), json.RawMessage(`{}`), "tok")
	require.NoError(t, err)

	require.Equal(t, dto.PayloadKindFeedback, result.Payload.Kind)
	require.NotNil(t, result.Payload.Feedback)
	assert.Nil(t, result.Payload.Question)
	assert.Equal(t, 7.5, result.Payload.Feedback.Scores["overall"])
	assert.Equal(t, "Solid performance.", result.Payload.Feedback.Summary)
}

func TestSendTurn_ItemsContentCompatibilityPath(t *testing.T) {
	inner := `{"interviewPayload":{"session_state":{"question_index":1,"total_questions":8},"payload":{"kind":"question","question_id":"q2","question":"Why this role?"}}}`

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]string{{"content": inner}},
		})
	}))
	defer server.Close()

	ts := NewTurnService(testLogger(), server.Client(), server.URL)
	result, err := ts.SendTurn(context.Background(), "answer", testMeta(), json.RawMessage(`{}`), "tok")
	require.NoError(t, err)
	require.Equal(t, dto.PayloadKindQuestion, result.Payload.Kind)
	assert.Equal(t, "q2", result.Payload.Question.QuestionID)
}

func TestSendTurn_MalformedItemContentFailsLoudly(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{
			"items": []map[string]string{{"content": "this is not json"}},
		})
	}))
	defer server.Close()

	ts := NewTurnService(testLogger(), server.Client(), server.URL)
	_, err := ts.SendTurn(context.Background(), "answer", testMeta(), json.RawMessage(`{}`), "tok")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindProtocol))
}

func TestSendTurn_ProtocolErrors(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{
			name: "missing session_state",
			body: `{"interviewPayload": {"payload": {"kind": "question", "question_id": "q1", "question": "Hi"}}}`,
		},
		{
			name: "missing payload",
			body: `{"interviewPayload": {"session_state": {"question_index": 0, "total_questions": 8}}}`,
		},
		{
			name: "unknown payload kind",
			body: `{"interviewPayload": {"session_state": {"question_index": 0, "total_questions": 8}, "payload": {"kind": "riddle"}}}`,
		},
		{
			name: "question without text",
			body: `{"interviewPayload": {"session_state": {"question_index": 0, "total_questions": 8}, "payload": {"kind": "question", "question_id": "q1"}}}`,
		},
		{
			name: "empty envelope",
			body: `{}`,
		},
		{
			name: "not json at all",
			body: `<html>gateway error</html>`,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				fmt.Fprint(w, tc.body)
			}))
			defer server.Close()

			ts := NewTurnService(testLogger(), server.Client(), server.URL)
			_, err := ts.SendTurn(context.Background(), "", testMeta(), nil, "tok")
			require.Error(t, err)
			assert.True(t, apperrors.IsKind(err, apperrors.KindProtocol), "expected protocol error, got %v", err)
		})
	}
}

func TestSendTurn_RemoteError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error": {"message": "quota exhausted", "code": "rate_limited"}}`)
	}))
	defer server.Close()

	ts := NewTurnService(testLogger(), server.Client(), server.URL)
	_, err := ts.SendTurn(context.Background(), "", testMeta(), nil, "tok")
	require.Error(t, err)
	require.True(t, apperrors.IsKind(err, apperrors.KindRemote))
	assert.Contains(t, err.Error(), "quota exhausted")
	assert.Contains(t, err.Error(), "rate_limited")
}

func TestSendTurn_TransportError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	server.Close() // deliberately unreachable

	ts := NewTurnService(testLogger(), http.DefaultClient, server.URL)
	_, err := ts.SendTurn(context.Background(), "", testMeta(), nil, "tok")
	require.Error(t, err)
	assert.True(t, apperrors.IsKind(err, apperrors.KindTransport))
}
