package engine

import (
	"context"

	"go.uber.org/zap"

	"github.com/fleetfs/dqagent/internal/model"
)

// fallbackMinLength is the heuristic validity cutoff used when the
// external judge is unavailable.
const fallbackMinLength = 50

// Judge scores the quality of a submitted free-text response. The one
// implementation delegates to a hosted LLM; tests substitute stubs.
type Judge interface {
	JudgeResponse(ctx context.Context, questionID, responseText string, rules []Rule) (model.ValidationResult, error)
}

// ValidateResponse judges one submitted response. Empty text is
// rejected outright without delegation. When the judge fails for any
// reason the fixed heuristic fallback is returned instead of an error:
// a degraded result is preferred over a failure surfaced to someone
// filling out a questionnaire.
func ValidateResponse(ctx context.Context, judge Judge, req model.SubmissionRequest, rules []Rule) model.ValidationResult {
	if req.ResponseText == "" {
		return model.ValidationResult{
			IsValid:         false,
			ValidationScore: 0.0,
			Issues:          []string{"Response text is required"},
			Suggestions:     []string{"Please provide a detailed response"},
		}
	}

	if judge != nil {
		result, err := judge.JudgeResponse(ctx, req.QuestionID, req.ResponseText, rules)
		if err == nil {
			return result
		}
		zap.L().Warn("engine: AI validation failed, using heuristic fallback",
			zap.String("question_id", req.QuestionID),
			zap.Error(err),
		)
	}

	return model.ValidationResult{
		IsValid:         len(req.ResponseText) >= fallbackMinLength,
		ValidationScore: 0.6,
		Issues:          []string{"AI validation temporarily unavailable"},
		Suggestions:     []string{"Please ensure response is complete and detailed"},
	}
}
