package ai

import (
	"context"

	"go.uber.org/zap"

	"github.com/fleetfs/dqagent/internal/model"
	"github.com/fleetfs/dqagent/pkg/anthropic"
)

var enrichTemperature = 0.2

// Enricher refines the reviewer-facing context of rule-generated
// questions in a single completion call. It never fails a
// questionnaire: on any error the questions are returned unchanged.
type Enricher struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

// NewEnricher creates an Enricher using the given client and model.
func NewEnricher(client anthropic.Client, model string, maxTokens int64) *Enricher {
	if maxTokens == 0 {
		maxTokens = 2048
	}
	return &Enricher{client: client, model: model, maxTokens: maxTokens}
}

// Enrich rewrites question contexts from the model's id→context map.
// Questions missing from the map, and the whole list on any failure,
// pass through unchanged.
func (e *Enricher) Enrich(ctx context.Context, questions []model.Question) []model.Question {
	if len(questions) == 0 {
		return questions
	}

	resp, err := e.client.CreateMessage(ctx, anthropic.MessageRequest{
		Model:       e.model,
		MaxTokens:   e.maxTokens,
		System:      anthropic.BuildCachedSystemBlocks(enrichSystemPrompt),
		Temperature: &enrichTemperature,
		Messages: []anthropic.Message{
			{Role: "user", Content: buildEnrichPrompt(questions)},
		},
	})
	if err != nil {
		zap.L().Warn("ai: question enrichment failed, keeping rule context", zap.Error(err))
		return questions
	}
	resp.Usage.LogCost(e.model, "enrich")

	contexts := map[string]string{}
	if err := ExtractJSON(responseTextOf(resp), &contexts); err != nil {
		zap.L().Warn("ai: unparseable enrichment output, keeping rule context", zap.Error(err))
		return questions
	}

	out := make([]model.Question, len(questions))
	copy(out, questions)
	for i := range out {
		if c, ok := contexts[out[i].ID]; ok && c != "" {
			out[i].Context = c
		}
	}
	return out
}
