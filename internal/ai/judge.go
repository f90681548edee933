package ai

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/fleetfs/dqagent/internal/engine"
	"github.com/fleetfs/dqagent/internal/model"
	"github.com/fleetfs/dqagent/pkg/anthropic"
)

// judgeTemperature keeps scoring near-deterministic.
var judgeTemperature = 0.2

// Judge scores submitted responses with the completion API. Implements
// engine.Judge; the engine supplies the heuristic fallback when a call
// fails.
type Judge struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewJudge creates a Judge using the given client and model.
func NewJudge(client anthropic.Client, model string, maxTokens int64) *Judge {
	if maxTokens == 0 {
		maxTokens = 1024
	}
	return &Judge{client: client, model: model, maxTokens: maxTokens}
}

// JudgeResponse asks the model to score one response and parses the
// verdict, repairing the JSON shape if needed.
func (j *Judge) JudgeResponse(ctx context.Context, questionID, responseText string, rules []engine.Rule) (model.ValidationResult, error) {
	resp, err := j.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       j.model,
		MaxTokens:   j.maxTokens,
		System:      anthropic.BuildCachedSystemBlocks(judgeSystemPrompt),
		Temperature: &judgeTemperature,
		Messages: []anthropic.Message{
			{Role: "user", Content: buildJudgePrompt(questionID, responseText, rules)},
		},
	})
	if err != nil {
		return model.ValidationResult{}, eris.Wrap(err, "ai: judge response")
	}
	resp.Usage.LogCost(j.model, "validate")

	var verdict struct {
		IsValid         bool     `json:"is_valid"`
		ValidationScore float64  `json:"validation_score"`
		Issues          []string `json:"issues"`
		Suggestions     []string `json:"suggestions"`
	}
	if err := ExtractJSON(responseTextOf(resp), &verdict); err != nil {
		return model.ValidationResult{}, err
	}

	return model.ValidationResult{
		IsValid:         verdict.IsValid,
		ValidationScore: clamp01(verdict.ValidationScore),
		Issues:          orEmpty(verdict.Issues),
		Suggestions:     orEmpty(verdict.Suggestions),
	}, nil
}

// responseTextOf concatenates all text content blocks.
func responseTextOf(resp *anthropic.MessageResponse) string {
	if resp == nil {
		return ""
	}
	var out string
	for _, b := range resp.Content {
		if b.Type == "" || b.Type == "text" {
			out += b.Text
		}
	}
	return out
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func orEmpty(ss []string) []string {
	if ss == nil {
		return []string{}
	}
	return ss
}
