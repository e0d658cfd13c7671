package services

import (
	"interview-service/internal/domain/dto"
	"interview-service/internal/domain/entities"
	"math"
	"time"
)

// Configurable scoring constants. The ×10 display scaling and the
// 2-minutes-per-answer duration fallback are inherited approximations,
// not derived formulas; both can be overridden from the environment.
const (
	DefaultScoreScale         = 10.0
	DefaultMinutesPerQuestion = 2
)

type ScoreSummary struct {
	Overall                  float64
	Average                  float64
	PerAnswer                []float64
	EstimatedDurationMinutes int
}

// ScoreService folds the terminal turn's per-criterion scores into
// session-level summary statistics.
type ScoreService struct {
	Scale              float64
	MinutesPerQuestion int
}

func NewScoreService(scale float64, minutesPerQuestion int) *ScoreService {
	return &ScoreService{Scale: scale, MinutesPerQuestion: minutesPerQuestion}
}

// Aggregate computes the displayed scores and the session duration.
// A missing overall score is a degraded-but-valid outcome and yields
// 0, never an error. Duration prefers the wall-clock span between
// startedAt and completedAt; when no start time is known it falls back
// to answeredCount × MinutesPerQuestion, which is an approximation,
// not measured data.
func (ss *ScoreService) Aggregate(answers []entities.Answer, feedback *dto.FeedbackPayload, startedAt time.Time, completedAt time.Time) ScoreSummary {
	summary := ScoreSummary{PerAnswer: make([]float64, 0, len(answers))}

	if feedback != nil {
		if overall, ok := feedback.Scores[dto.ScoreCriterionOverall]; ok {
			summary.Overall = overall * ss.Scale
		}
		if len(feedback.Scores) > 0 {
			var total float64
			for _, score := range feedback.Scores {
				total += score
			}
			summary.Average = total / float64(len(feedback.Scores)) * ss.Scale
		}
	}

	for _, answer := range answers {
		if answer.Feedback != nil {
			summary.PerAnswer = append(summary.PerAnswer, answer.Feedback.Score*ss.Scale)
		} else {
			summary.PerAnswer = append(summary.PerAnswer, 0)
		}
	}

	summary.EstimatedDurationMinutes = ss.estimateDuration(len(answers), startedAt, completedAt)
	return summary
}

func (ss *ScoreService) estimateDuration(answeredCount int, startedAt time.Time, completedAt time.Time) int {
	if !startedAt.IsZero() && !completedAt.IsZero() && completedAt.After(startedAt) {
		minutes := int(math.Round(completedAt.Sub(startedAt).Minutes()))
		if minutes < 1 {
			minutes = 1
		}
		return minutes
	}

	fallback := int(math.Round(float64(answeredCount * ss.MinutesPerQuestion)))
	if fallback < 1 {
		fallback = 1
	}
	return fallback
}
