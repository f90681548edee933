package model

// Priority orders questions for review. Critical sorts first.
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// priorityRank maps priorities to numeric ranks for sorting.
// Lower rank means more urgent.
var priorityRank = map[Priority]int{
	PriorityCritical: 0,
	PriorityHigh:     1,
	PriorityMedium:   2,
	PriorityLow:      3,
}

// Rank returns the sort rank for the priority. Unknown values rank
// after low so malformed input never jumps the queue.
func (p Priority) Rank() int {
	rank, ok := priorityRank[p]
	if !ok {
		return len(priorityRank)
	}
	return rank
}

// ResponseType describes the expected shape of a question's answer.
type ResponseType string

const (
	ResponseTypeText           ResponseType = "text"
	ResponseTypeFileUpload     ResponseType = "file_upload"
	ResponseTypeStructured     ResponseType = "structured"
	ResponseTypeMultipleChoice ResponseType = "multiple_choice"
)

// Question is a single review question derived from a DQ report.
// Questions are immutable after creation except for OrderSequence,
// which is reassigned when the questionnaire is finalized.
type Question struct {
	ID                   string       `json:"id"`
	Category             string       `json:"category"`
	Priority             Priority     `json:"priority"`
	QuestionText         string       `json:"question_text"`
	Context              string       `json:"context"`
	ExpectedResponseType ResponseType `json:"expected_response_type"`
	ValidationRules      []string     `json:"validation_rules"`
	RelatedData          RelatedData  `json:"related_data"`
	FollowUpQuestions    []string     `json:"follow_up_questions,omitempty"`
	OrderSequence        int          `json:"order_sequence"`
	GeneratedByAI        bool         `json:"generated_by_ai"`
	ConfidenceScore      *float64     `json:"confidence_score,omitempty"`
}

// RelatedData carries the machine-readable payload behind a question:
// the numeric values quoted in its text plus the raw source records.
type RelatedData map[string]DataValue

// Summary aggregates a finalized question list.
type Summary struct {
	TotalQuestions             int      `json:"total_questions"`
	HighPriority               int      `json:"high_priority"`
	CriticalPriority           int      `json:"critical_priority"`
	Categories                 []string `json:"categories"`
	RequiresImmediateAttention bool     `json:"requires_immediate_attention"`
}

// GenerationRequest asks for a questionnaire for one country/month.
type GenerationRequest struct {
	Country    string   `json:"country"`
	ReportFile string   `json:"report_file,omitempty"`
	Month      string   `json:"month,omitempty"`
	FocusAreas []string `json:"focus_areas,omitempty"`
}

// GenerationResponse is the engine's questionnaire output.
type GenerationResponse struct {
	Country    string     `json:"country"`
	Entity     string     `json:"entity"`
	ReportDate string     `json:"report_date"`
	Questions  []Question `json:"questions"`
	Summary    Summary    `json:"summary"`
}
