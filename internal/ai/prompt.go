package ai

import (
	"fmt"
	"strings"

	"github.com/fleetfs/dqagent/internal/engine"
	"github.com/fleetfs/dqagent/internal/model"
)

const judgeSystemPrompt = `You are a senior risk analyst reviewing answers to a monthly data-quality questionnaire for a loan-portfolio report. Judge whether the submitted answer actually addresses the question: it should be specific, reference the figures in question, and commit to concrete actions where asked.

Respond with a single JSON object and nothing else:
{"is_valid": bool, "validation_score": number between 0 and 1, "issues": [string], "suggestions": [string]}`

// buildJudgePrompt renders the user message for one response judgment.
func buildJudgePrompt(questionID, responseText string, rules []engine.Rule) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Question ID: %s\n", questionID)
	if len(rules) > 0 {
		sb.WriteString("Expectations:\n")
		for _, r := range rules {
			fmt.Fprintf(&sb, "- %s\n", r.Describe())
		}
	}
	fmt.Fprintf(&sb, "\nSubmitted response:\n%s\n", responseText)
	return sb.String()
}

const enrichSystemPrompt = `You are a senior risk analyst preparing a data-quality questionnaire for a market team. For each question you receive, write one or two sentences of reviewer-facing context explaining why the question matters for this report. Keep the question text itself unchanged.

Respond with a single JSON object mapping question id to context string, and nothing else.`

// buildEnrichPrompt renders the question list for context refinement.
func buildEnrichPrompt(questions []model.Question) string {
	var sb strings.Builder
	sb.WriteString("Questions:\n")
	for _, q := range questions {
		fmt.Fprintf(&sb, "- id: %s\n  category: %s\n  priority: %s\n  text: %s\n",
			q.ID, q.Category, q.Priority, q.QuestionText)
	}
	return sb.String()
}
