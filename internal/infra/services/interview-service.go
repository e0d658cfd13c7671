package services

import (
	"context"
	"fmt"
	"interview-service/internal/domain/apperrors"
	"interview-service/internal/domain/dto"
	"interview-service/internal/domain/entities"
	Iservices "interview-service/internal/domain/interfaces/services"
	"interview-service/internal/infra/logger"
	"interview-service/internal/infra/provider"
	"interview-service/internal/metrics"
	"sync"
	"time"

	"github.com/google/uuid"
)

type Stage string

const (
	StageSetup     Stage = "setup"
	StageActive    Stage = "active"
	StageCompleted Stage = "completed"
	StageAbandoned Stage = "abandoned"
)

// Interview configuration is fixed at setup time.
const (
	QuestionsTarget     = 8
	InterviewDifficulty = "standard"
)

// interviewRun is the in-memory state of one interview. The opaque
// session-state token is owned exclusively by this service and never
// read or written by any other component.
type interviewRun struct {
	SessionID       string
	UserID          string
	Industry        string
	Meta            dto.InterviewMeta
	Stage           Stage
	SessionState    []byte
	CurrentQuestion *dto.QuestionPayload
	Answers         []entities.Answer
	AudioURLs       map[string]string
	StartedAt       time.Time
	LastActivity    time.Time
	TurnInFlight    bool
	Results         *dto.SessionResults
}

// InterviewService owns the session state machine: it drives the turn
// client, accumulates answers, and hands terminal turns to the scorer
// and the persister.
type InterviewService struct {
	Logger       *logger.Logger
	TurnService  Iservices.ITurnService
	SessionStore Iservices.ISessionStoreService
	BlobStore    provider.IBlobStore
	Scores       *ScoreService

	runs map[string]*interviewRun
	mu   sync.Mutex
	now  func() time.Time
}

func NewInterviewService(logger *logger.Logger, turnService Iservices.ITurnService, sessionStore Iservices.ISessionStoreService, blobStore provider.IBlobStore, scores *ScoreService) *InterviewService {
	is := &InterviewService{
		Logger:       logger,
		TurnService:  turnService,
		SessionStore: sessionStore,
		BlobStore:    blobStore,
		Scores:       scores,
		runs:         make(map[string]*interviewRun),
		now:          time.Now,
	}
	is.startRunCleanup()
	return is
}

func (is *InterviewService) startRunCleanup() {
	ticker := time.NewTicker(1 * time.Hour)
	go func() {
		for range ticker.C {
			is.cleanupStaleRuns()
		}
	}()
}

func (is *InterviewService) cleanupStaleRuns() {
	is.mu.Lock()
	defer is.mu.Unlock()

	cutoff := is.now().Add(-24 * time.Hour)
	for id, run := range is.runs {
		if run.LastActivity.Before(cutoff) {
			delete(is.runs, id)
		}
	}
}

// StartInterview creates the durable session record (best-effort),
// issues the opening turn with an empty answer and a null state, and
// transitions Setup -> Active. A degenerate zero-question interview
// whose first response is already feedback completes immediately.
func (is *InterviewService) StartInterview(ctx context.Context, userID string, setup dto.InterviewSetup, bearer string) (dto.InterviewStarted, error) {
	sessionID := uuid.New().String()
	startedAt := is.now()

	meta := dto.InterviewMeta{
		TargetRole:      setup.TargetRole,
		ExperienceLevel: setup.ExperienceLevel,
		Difficulty:      InterviewDifficulty,
		QuestionsTarget: QuestionsTarget,
	}

	// Best-effort creation: a storage outage is logged but does not
	// block starting; finalize upserts the record later either way.
	record := entities.InterviewSession{
		ID:              sessionID,
		UserID:          userID,
		TargetRole:      setup.TargetRole,
		Industry:        setup.Industry,
		ExperienceLevel: setup.ExperienceLevel,
		CreatedAt:       startedAt,
	}
	if err := is.SessionStore.CreateSession(ctx, record); err != nil {
		is.Logger.Warn(fmt.Sprintf("Session %s not created at setup, will be created at completion: %v", sessionID, err))
	}

	result, err := is.TurnService.SendTurn(ctx, "", meta, nil, bearer)
	if err != nil {
		return dto.InterviewStarted{}, err
	}

	run := &interviewRun{
		SessionID:    sessionID,
		UserID:       userID,
		Industry:     setup.Industry,
		Meta:         meta,
		Stage:        StageActive,
		SessionState: result.SessionState,
		AudioURLs:    make(map[string]string),
		StartedAt:    startedAt,
		LastActivity: startedAt,
	}

	metrics.InterviewsStarted.Inc()

	switch result.Payload.Kind {
	case dto.PayloadKindFeedback:
		outcome := is.completeRun(ctx, run, result.Payload.Feedback)
		is.mu.Lock()
		is.runs[sessionID] = run
		is.mu.Unlock()
		return dto.InterviewStarted{SessionID: sessionID, Outcome: outcome}, nil
	case dto.PayloadKindQuestion:
		run.CurrentQuestion = result.Payload.Question
		is.mu.Lock()
		is.runs[sessionID] = run
		is.mu.Unlock()
		return dto.InterviewStarted{
			SessionID: sessionID,
			Outcome: dto.TurnOutcome{
				Kind:     dto.OutcomeKindQuestion,
				Question: questionView(result.Payload.Question),
				Progress: is.progressOf(run),
			},
		}, nil
	default:
		return dto.InterviewStarted{}, apperrors.Protocol(fmt.Sprintf("unexpected turn payload kind %q", result.Payload.Kind), nil)
	}
}

// SubmitAnswer runs one Active -> Active or Active -> Completed
// transition. A turn failure aborts that turn only: no answer is
// appended, the current question stays displayed, and the caller may
// retry. A second submission while one is pending is rejected.
func (is *InterviewService) SubmitAnswer(ctx context.Context, userID string, sessionID string, submission dto.AnswerSubmission, bearer string) (dto.TurnOutcome, error) {
	if submission.Text == "" && len(submission.Audio) == 0 {
		return dto.TurnOutcome{}, apperrors.EmptyAnswer("answer requires text or a recording")
	}

	is.mu.Lock()
	run, ok := is.runs[sessionID]
	if !ok || run.UserID != userID {
		is.mu.Unlock()
		return dto.TurnOutcome{}, apperrors.NotFound(fmt.Sprintf("no active interview %s", sessionID))
	}
	if run.Stage != StageActive {
		is.mu.Unlock()
		return dto.TurnOutcome{}, apperrors.Conflict(fmt.Sprintf("interview %s is %s", sessionID, run.Stage))
	}
	if run.TurnInFlight {
		is.mu.Unlock()
		return dto.TurnOutcome{}, apperrors.Conflict("a turn is already in flight for this session")
	}
	run.TurnInFlight = true
	run.LastActivity = is.now()
	currentQuestion := run.CurrentQuestion
	state := run.SessionState
	meta := run.Meta
	is.mu.Unlock()

	defer func() {
		is.mu.Lock()
		run.TurnInFlight = false
		is.mu.Unlock()
	}()

	var notices []string

	// Recording upload happens before the turn call; an unreachable
	// blob store degrades the turn to text-only and is reported as a
	// non-fatal notice.
	audioRef := ""
	if len(submission.Audio) > 0 {
		key := provider.RecordingKey(userID, sessionID, currentQuestion.QuestionID, is.now())
		ref, err := is.BlobStore.Put(ctx, key, submission.Audio)
		if err != nil {
			is.Logger.Warn(fmt.Sprintf("Recording upload failed for session %s, continuing text-only: %v", sessionID, err))
			metrics.RecordingUploadFailures.Inc()
			notices = append(notices, "recording could not be stored; answer submitted as text only")
		} else {
			audioRef = ref
		}
	}

	result, err := is.TurnService.SendTurn(ctx, submission.Text, meta, state, bearer)
	if err != nil {
		return dto.TurnOutcome{}, err
	}

	answer := entities.Answer{
		QuestionID:       currentQuestion.QuestionID,
		QuestionText:     currentQuestion.Question,
		AnswerText:       submission.Text,
		AudioReference:   audioRef,
		TimeSpentSeconds: submission.TimeSpentSeconds,
	}

	is.mu.Lock()
	// The run may have been abandoned while the turn was in flight;
	// a response for a dead run is discarded, not applied.
	current, ok := is.runs[sessionID]
	if !ok || current != run || run.Stage != StageActive {
		is.mu.Unlock()
		return dto.TurnOutcome{}, apperrors.NotFound(fmt.Sprintf("interview %s is no longer active", sessionID))
	}
	run.SessionState = result.SessionState
	run.Answers = append(run.Answers, answer)
	if audioRef != "" {
		run.AudioURLs[answer.QuestionID] = audioRef
	}
	run.LastActivity = is.now()
	is.mu.Unlock()

	switch result.Payload.Kind {
	case dto.PayloadKindQuestion:
		is.mu.Lock()
		run.CurrentQuestion = result.Payload.Question
		is.mu.Unlock()
		return dto.TurnOutcome{
			Kind:     dto.OutcomeKindQuestion,
			Question: questionView(result.Payload.Question),
			Progress: is.progressOf(run),
			Notices:  notices,
		}, nil
	case dto.PayloadKindFeedback:
		outcome := is.completeRun(ctx, run, result.Payload.Feedback)
		outcome.Notices = append(notices, outcome.Notices...)
		return outcome, nil
	default:
		return dto.TurnOutcome{}, apperrors.Protocol(fmt.Sprintf("unexpected turn payload kind %q", result.Payload.Kind), nil)
	}
}

// completeRun amends the provisional last answer with the terminal
// feedback, folds the scores, and writes the session back. A
// persistence failure keeps the in-memory results visible and is
// reported as a non-fatal notice.
func (is *InterviewService) completeRun(ctx context.Context, run *interviewRun, feedback *dto.FeedbackPayload) dto.TurnOutcome {
	completedAt := is.now()

	is.mu.Lock()
	run.Stage = StageCompleted
	run.CurrentQuestion = nil
	if len(run.Answers) > 0 {
		last := &run.Answers[len(run.Answers)-1]
		last.Feedback = &entities.AnswerFeedback{
			Score:        feedback.Scores[dto.ScoreCriterionOverall],
			Strengths:    feedback.Strengths,
			Improvements: feedback.Improvements,
			Detail:       feedback.Summary,
		}
	}
	answers := make([]entities.Answer, len(run.Answers))
	copy(answers, run.Answers)
	audioURLs := run.AudioURLs
	is.mu.Unlock()

	summary := is.Scores.Aggregate(answers, feedback, run.StartedAt, completedAt)

	results := &dto.SessionResults{
		SessionID:       run.SessionID,
		TotalScore:      summary.Overall,
		AverageScore:    summary.Average,
		PerAnswerScores: summary.PerAnswer,
		DurationMinutes: summary.EstimatedDurationMinutes,
		Answers:         answers,
		Feedback:        feedback,
		AudioURLs:       audioURLs,
	}

	record := entities.InterviewSession{
		ID:              run.SessionID,
		UserID:          run.UserID,
		TargetRole:      run.Meta.TargetRole,
		Industry:        run.Industry,
		ExperienceLevel: run.Meta.ExperienceLevel,
		Questions:       answers,
		AudioURLs:       audioURLs,
		TotalScore:      summary.Overall,
		AverageScore:    summary.Average,
		DurationMinutes: summary.EstimatedDurationMinutes,
		CompletedAt:     &completedAt,
		CreatedAt:       run.StartedAt,
	}

	outcome := dto.TurnOutcome{
		Kind:     dto.OutcomeKindResults,
		Results:  results,
		Progress: is.progressOf(run),
	}

	if _, err := is.SessionStore.FinalizeSession(ctx, record); err != nil {
		is.Logger.Error(fmt.Sprintf("Failed to persist completed session %s, results stay in memory: %v", run.SessionID, err))
		outcome.Notices = append(outcome.Notices, "results could not be saved; they remain available for this session")
	}

	is.mu.Lock()
	run.Results = results
	is.mu.Unlock()

	metrics.InterviewsCompleted.Inc()
	return outcome
}

// GetInterview reports a running interview from memory or falls back
// to the persisted record.
func (is *InterviewService) GetInterview(ctx context.Context, userID string, sessionID string) (dto.InterviewStatus, error) {
	is.mu.Lock()
	run, ok := is.runs[sessionID]
	if ok && run.UserID == userID {
		status := dto.InterviewStatus{
			SessionID: sessionID,
			Stage:     string(run.Stage),
		}
		if run.Stage == StageActive {
			progress := is.progressOfLocked(run)
			status.Progress = &progress
			status.Question = questionView(run.CurrentQuestion)
		}
		is.mu.Unlock()
		return status, nil
	}
	is.mu.Unlock()

	session, err := is.SessionStore.FindSession(ctx, sessionID)
	if err != nil {
		return dto.InterviewStatus{}, err
	}
	if session.UserID != userID {
		return dto.InterviewStatus{}, apperrors.NotFound(fmt.Sprintf("session %s not found", sessionID))
	}
	return dto.InterviewStatus{
		SessionID: sessionID,
		Stage:     string(StageCompleted),
		Session:   &session,
	}, nil
}

// ListInterviews returns the user's persisted interview history.
func (is *InterviewService) ListInterviews(ctx context.Context, userID string) ([]entities.InterviewSession, error) {
	return is.SessionStore.ListSessions(ctx, userID)
}

// Abandon drops an interview run. Accumulated answers beyond what was
// already flushed are not persisted; an in-flight turn response, if it
// arrives, is discarded.
func (is *InterviewService) Abandon(userID string, sessionID string) error {
	is.mu.Lock()
	defer is.mu.Unlock()

	run, ok := is.runs[sessionID]
	if !ok || run.UserID != userID {
		return apperrors.NotFound(fmt.Sprintf("no active interview %s", sessionID))
	}
	if run.Stage == StageActive {
		metrics.InterviewsAbandoned.Inc()
	}
	run.Stage = StageAbandoned
	delete(is.runs, sessionID)
	return nil
}

func (is *InterviewService) progressOf(run *interviewRun) dto.ProgressView {
	is.mu.Lock()
	defer is.mu.Unlock()
	return is.progressOfLocked(run)
}

// progressOfLocked derives the UI progress from the client-visible
// slice of the state token. The client never recomputes
// total_questions itself; a token without the view fields just yields
// zero progress.
func (is *InterviewService) progressOfLocked(run *interviewRun) dto.ProgressView {
	view, err := dto.ParseStateView(run.SessionState)
	if err != nil || view.TotalQuestions < 1 {
		return dto.ProgressView{}
	}
	return dto.ProgressView{
		QuestionIndex:  view.QuestionIndex,
		TotalQuestions: view.TotalQuestions,
		Percent:        float64(view.QuestionIndex+1) / float64(view.TotalQuestions) * 100,
	}
}

func questionView(question *dto.QuestionPayload) *dto.QuestionView {
	if question == nil {
		return nil
	}
	return &dto.QuestionView{
		QuestionID: question.QuestionID,
		Question:   question.Question,
		Topic:      question.Topic,
		Phase:      question.Phase,
		HelperHint: question.HelperHint,
	}
}
