package entities

import "time"

// InterviewSession is the persisted session record. It is created
// empty at interview start so a stable identifier exists even if the
// interview is abandoned, and updated once at completion.
type InterviewSession struct {
	ID              string            `json:"id" bson:"session_id"`
	UserID          string            `json:"user_id" bson:"user_id"`
	TargetRole      string            `json:"target_role" bson:"target_role"`
	Industry        string            `json:"industry" bson:"industry"`
	ExperienceLevel string            `json:"experience_level" bson:"experience_level"`
	Questions       []Answer          `json:"questions" bson:"questions"`
	AudioURLs       map[string]string `json:"audio_urls" bson:"audio_urls"`
	TotalScore      float64           `json:"total_score" bson:"total_score"`
	AverageScore    float64           `json:"average_score" bson:"average_score"`
	DurationMinutes int               `json:"duration_minutes" bson:"duration_minutes"`
	CompletedAt     *time.Time        `json:"completed_at,omitempty" bson:"completed_at,omitempty"`
	CreatedAt       time.Time         `json:"created_at" bson:"created_at"`
}

// Answer is one accumulated question/answer record. Feedback is
// populated only on the last answer, from the terminal turn.
type Answer struct {
	QuestionID       string          `json:"question_id" bson:"question_id"`
	QuestionText     string          `json:"question_text" bson:"question_text"`
	AnswerText       string          `json:"answer_text" bson:"answer_text"`
	AudioReference   string          `json:"audio_reference,omitempty" bson:"audio_reference,omitempty"`
	TimeSpentSeconds float64         `json:"time_spent_seconds" bson:"time_spent_seconds"`
	Feedback         *AnswerFeedback `json:"feedback,omitempty" bson:"feedback,omitempty"`
}

type AnswerFeedback struct {
	Score        float64  `json:"score" bson:"score"`
	Strengths    []string `json:"strengths" bson:"strengths"`
	Improvements []string `json:"improvements" bson:"improvements"`
	Detail       string   `json:"detail" bson:"detail"`
}
