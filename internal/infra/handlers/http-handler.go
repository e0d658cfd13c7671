package handlers

import (
	"encoding/json"
	"fmt"
	"interview-service/internal/domain/apperrors"
	"interview-service/internal/domain/dto"
	"interview-service/internal/domain/entities"
	Iservices "interview-service/internal/domain/interfaces/services"
	"interview-service/internal/infra/logger"
	"interview-service/internal/infra/services"
	"net/http"
	"strconv"
	"strings"

	"github.com/gorilla/mux"
)

// maxRecordingBytes caps one uploaded answer recording.
const maxRecordingBytes = 25 << 20

type InterviewHandlers struct {
	Logger           *logger.Logger
	InterviewService Iservices.IInterviewService
}

func NewInterviewHandlers(logger *logger.Logger, interviewService Iservices.IInterviewService) *InterviewHandlers {
	return &InterviewHandlers{Logger: logger, InterviewService: interviewService}
}

// StartInterview handles POST /interviews: submits the interview
// configuration and returns the opening question (or, for a degenerate
// zero-question interview, the results).
func (ih *InterviewHandlers) StartInterview(w http.ResponseWriter, r *http.Request) {
	userID, bearer, ok := ih.identity(w, r)
	if !ok {
		return
	}

	var setup dto.InterviewSetup
	if err := json.NewDecoder(r.Body).Decode(&setup); err != nil {
		ih.Logger.Error(fmt.Sprintf("Invalid JSON payload: %s", err.Error()))
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	defer r.Body.Close()

	if setup.TargetRole == "" {
		http.Error(w, "target_role is required", http.StatusBadRequest)
		return
	}

	started, err := ih.InterviewService.StartInterview(r.Context(), userID, setup, bearer)
	if err != nil {
		ih.writeError(w, err)
		return
	}

	ih.writeJSON(w, http.StatusCreated, started)
}

// SubmitAnswer handles POST /interviews/{id}/answers. The answer is
// JSON (text only) or multipart/form-data with an optional recording
// file, which is run through the answer recorder before submission.
func (ih *InterviewHandlers) SubmitAnswer(w http.ResponseWriter, r *http.Request) {
	userID, bearer, ok := ih.identity(w, r)
	if !ok {
		return
	}
	sessionID := mux.Vars(r)["id"]

	submission, err := ih.readSubmission(r)
	if err != nil {
		ih.writeError(w, err)
		return
	}

	outcome, err := ih.InterviewService.SubmitAnswer(r.Context(), userID, sessionID, submission, bearer)
	if err != nil {
		ih.writeError(w, err)
		return
	}

	ih.writeJSON(w, http.StatusOK, outcome)
}

// readSubmission finalizes the answer through the recorder so the
// empty-answer rule is enforced before any network call is made.
func (ih *InterviewHandlers) readSubmission(r *http.Request) (dto.AnswerSubmission, error) {
	recorder := services.NewRecorder()
	var timeSpent float64

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "multipart/form-data") {
		if err := r.ParseMultipartForm(maxRecordingBytes); err != nil {
			return dto.AnswerSubmission{}, apperrors.EmptyAnswer("unreadable answer form")
		}
		recorder.SetText(r.FormValue("answer_text"))
		timeSpent, _ = strconv.ParseFloat(r.FormValue("time_spent_seconds"), 64)

		file, _, err := r.FormFile("recording")
		if err == nil {
			if err := recorder.StartRecording(file); err != nil {
				return dto.AnswerSubmission{}, apperrors.Storage("recording could not be read", err)
			}
			if err := recorder.StopRecording(); err != nil {
				recorder.Abort()
				return dto.AnswerSubmission{}, apperrors.Storage("recording could not be read", err)
			}
		}
	} else {
		var body struct {
			AnswerText       string  `json:"answer_text"`
			TimeSpentSeconds float64 `json:"time_spent_seconds"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			return dto.AnswerSubmission{}, apperrors.EmptyAnswer("unreadable answer body")
		}
		defer r.Body.Close()
		recorder.SetText(body.AnswerText)
		timeSpent = body.TimeSpentSeconds
	}

	draft, err := recorder.Finalize()
	if err != nil {
		return dto.AnswerSubmission{}, err
	}

	if timeSpent <= 0 {
		timeSpent = draft.ElapsedSeconds
	}

	return dto.AnswerSubmission{
		Text:             draft.Text,
		Audio:            draft.Audio,
		TimeSpentSeconds: timeSpent,
	}, nil
}

// ListInterviews handles GET /interviews: the caller's persisted
// interview history.
func (ih *InterviewHandlers) ListInterviews(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := ih.identity(w, r)
	if !ok {
		return
	}

	sessions, err := ih.InterviewService.ListInterviews(r.Context(), userID)
	if err != nil {
		ih.writeError(w, err)
		return
	}
	if sessions == nil {
		sessions = []entities.InterviewSession{}
	}

	ih.writeJSON(w, http.StatusOK, sessions)
}

// GetInterview handles GET /interviews/{id}.
func (ih *InterviewHandlers) GetInterview(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := ih.identity(w, r)
	if !ok {
		return
	}
	sessionID := mux.Vars(r)["id"]

	status, err := ih.InterviewService.GetInterview(r.Context(), userID, sessionID)
	if err != nil {
		ih.writeError(w, err)
		return
	}

	ih.writeJSON(w, http.StatusOK, status)
}

// AbandonInterview handles DELETE /interviews/{id}.
func (ih *InterviewHandlers) AbandonInterview(w http.ResponseWriter, r *http.Request) {
	userID, _, ok := ih.identity(w, r)
	if !ok {
		return
	}
	sessionID := mux.Vars(r)["id"]

	if err := ih.InterviewService.Abandon(userID, sessionID); err != nil {
		ih.writeError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// identity extracts the caller and the bearer credential forwarded to
// the reasoning service. The credential travels with each request; the
// service keeps no ambient auth state.
func (ih *InterviewHandlers) identity(w http.ResponseWriter, r *http.Request) (string, string, bool) {
	userID := r.Header.Get("X-User-ID")
	if userID == "" {
		http.Error(w, "Missing X-User-ID header", http.StatusUnauthorized)
		return "", "", false
	}

	auth := r.Header.Get("Authorization")
	bearer := strings.TrimPrefix(auth, "Bearer ")
	if auth == "" || bearer == auth {
		http.Error(w, "Missing bearer credential", http.StatusUnauthorized)
		return "", "", false
	}

	return userID, bearer, true
}

func (ih *InterviewHandlers) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		ih.Logger.Error(fmt.Sprintf("Failed to encode response: %s", err.Error()))
	}
}

func (ih *InterviewHandlers) writeError(w http.ResponseWriter, err error) {
	status := apperrors.HTTPStatus(err)
	if status >= http.StatusInternalServerError {
		ih.Logger.Error(err.Error())
	} else {
		ih.Logger.Warn(err.Error())
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": err.Error()})
}
