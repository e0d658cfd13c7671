package dto

import "encoding/json"

// InterviewMeta is immutable per session and forwarded on every turn.
type InterviewMeta struct {
	TargetRole      string `json:"target_role"`
	ExperienceLevel string `json:"experience_level"`
	Difficulty      string `json:"difficulty"`
	QuestionsTarget int    `json:"questions_target"`
}

// TurnRequest is the wire shape sent to the reasoning service.
type TurnRequest struct {
	Message string      `json:"message"`
	Context TurnContext `json:"context"`
}

type TurnContext struct {
	Context string        `json:"context"`
	Meta    InterviewMeta `json:"meta"`
	// SessionState is the opaque server-issued token, echoed back
	// verbatim. nil encodes as JSON null on the first turn.
	SessionState json.RawMessage `json:"session_state"`
}

const TurnContextInterviewSession = "interview_session"

// StateView is the client-visible slice of the opaque session state.
// Everything outside these fields stays inside the raw token and is
// never touched.
type StateView struct {
	QuestionIndex  int               `json:"question_index"`
	TotalQuestions int               `json:"total_questions"`
	Transcript     []TranscriptEntry `json:"transcript"`
}

type TranscriptEntry struct {
	Question string `json:"question"`
	Answer   string `json:"answer"`
}

// ParseStateView extracts the documented client-visible fields from a
// session-state token without disturbing the rest of it.
func ParseStateView(state json.RawMessage) (StateView, error) {
	var view StateView
	if err := json.Unmarshal(state, &view); err != nil {
		return StateView{}, err
	}
	return view, nil
}

const (
	PayloadKindQuestion = "question"
	PayloadKindFeedback = "feedback"
)

// TurnPayload is the tagged union carried by a turn response. Exactly
// one of Question and Feedback is set, matching Kind.
type TurnPayload struct {
	Kind     string
	Question *QuestionPayload
	Feedback *FeedbackPayload
}

type QuestionPayload struct {
	QuestionID string `json:"question_id"`
	Question   string `json:"question"`
	Topic      string `json:"topic,omitempty"`
	Phase      string `json:"phase,omitempty"`
	HelperHint string `json:"helper_hint,omitempty"`
}

type FeedbackPayload struct {
	Scores            map[string]float64 `json:"scores"`
	ScoreExplanations map[string]string  `json:"score_explanations,omitempty"`
	Strengths         []string           `json:"strengths"`
	Improvements      []string           `json:"improvements"`
	Summary           string             `json:"summary"`
	SkillGaps         []string           `json:"skill_gaps,omitempty"`
	NextSteps         []string           `json:"next_steps,omitempty"`
}

// ScoreCriterionOverall is the criterion the aggregator reads from the
// terminal feedback scores.
const ScoreCriterionOverall = "overall"

// TurnResult is what the turn client hands back to the session state
// machine: the replacement state token plus the interpreted payload.
type TurnResult struct {
	SessionState json.RawMessage
	Payload      TurnPayload
}
