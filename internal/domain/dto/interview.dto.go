package dto

import "interview-service/internal/domain/entities"

// InterviewSetup is the configuration submitted to start an interview.
type InterviewSetup struct {
	TargetRole      string `json:"target_role"`
	Industry        string `json:"industry"`
	ExperienceLevel string `json:"experience_level"`
}

// AnswerSubmission is a finalized answer handed to the state machine:
// the recorder output plus the time the candidate spent on it.
type AnswerSubmission struct {
	Text             string
	Audio            []byte
	TimeSpentSeconds float64
}

const (
	OutcomeKindQuestion = "question"
	OutcomeKindResults  = "results"
)

// TurnOutcome is the API-facing result of one accepted turn: either
// the next question to render or the completed-session results.
type TurnOutcome struct {
	Kind     string           `json:"kind"`
	Question *QuestionView    `json:"question,omitempty"`
	Results  *SessionResults  `json:"results,omitempty"`
	Progress ProgressView     `json:"progress"`
	Notices  []string         `json:"notices,omitempty"`
}

type QuestionView struct {
	QuestionID string `json:"question_id"`
	Question   string `json:"question"`
	Topic      string `json:"topic,omitempty"`
	Phase      string `json:"phase,omitempty"`
	HelperHint string `json:"helper_hint,omitempty"`
}

type ProgressView struct {
	QuestionIndex  int     `json:"question_index"`
	TotalQuestions int     `json:"total_questions"`
	Percent        float64 `json:"percent"`
}

// InterviewStarted is returned when a session enters Active (or, for a
// degenerate zero-question interview, goes straight to results).
type InterviewStarted struct {
	SessionID string       `json:"session_id"`
	Outcome   TurnOutcome  `json:"outcome"`
}

// SessionResults is the completed-session view. It stays available
// in memory even when final persistence fails.
type SessionResults struct {
	SessionID       string                   `json:"session_id"`
	TotalScore      float64                  `json:"total_score"`
	AverageScore    float64                  `json:"average_score"`
	PerAnswerScores []float64                `json:"per_answer_scores"`
	DurationMinutes int                      `json:"duration_minutes"`
	Answers         []entities.Answer        `json:"answers"`
	Feedback        *FeedbackPayload         `json:"feedback,omitempty"`
	AudioURLs       map[string]string        `json:"audio_urls,omitempty"`
}

// InterviewStatus is the read-back view of a session, whether still
// running or already persisted.
type InterviewStatus struct {
	SessionID string                     `json:"session_id"`
	Stage     string                     `json:"stage"`
	Progress  *ProgressView              `json:"progress,omitempty"`
	Question  *QuestionView              `json:"question,omitempty"`
	Session   *entities.InterviewSession `json:"session,omitempty"`
}
