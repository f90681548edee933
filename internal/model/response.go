package model

// ConfidenceLevel is the submitter's self-reported confidence.
type ConfidenceLevel string

const (
	ConfidenceHigh   ConfidenceLevel = "high"
	ConfidenceMedium ConfidenceLevel = "medium"
	ConfidenceLow    ConfidenceLevel = "low"
)

// ResponseStatus tracks a response through review.
type ResponseStatus string

const (
	StatusPending   ResponseStatus = "pending"
	StatusPartial   ResponseStatus = "partial"
	StatusCompleted ResponseStatus = "completed"
	StatusApproved  ResponseStatus = "approved"
)

// SubmissionRequest is a submitted answer to one question.
type SubmissionRequest struct {
	QuestionID      string          `json:"question_id"`
	ResponseText    string          `json:"response_text,omitempty"`
	ResponseData    map[string]any  `json:"response_data,omitempty"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level"`
	UploadedFiles   []string        `json:"uploaded_files,omitempty"`
	SubmittedBy     string          `json:"submitted_by"`
}

// ValidationResult is the outcome of judging one submitted response.
type ValidationResult struct {
	IsValid         bool     `json:"is_valid"`
	ValidationScore float64  `json:"validation_score"`
	Issues          []string `json:"issues"`
	Suggestions     []string `json:"suggestions"`
}

// QuestionResponse is a recorded answer with its validation outcome.
type QuestionResponse struct {
	ID              string          `json:"id"`
	QuestionID      string          `json:"question_id"`
	ResponseText    string          `json:"response_text,omitempty"`
	ResponseData    map[string]any  `json:"response_data,omitempty"`
	ConfidenceLevel ConfidenceLevel `json:"confidence_level"`
	UploadedFiles   []string        `json:"uploaded_files,omitempty"`
	SubmittedAt     string          `json:"submitted_at"`
	SubmittedBy     string          `json:"submitted_by"`
	Status          ResponseStatus  `json:"status"`
	AIValidated     bool            `json:"ai_validated"`
	AIScore         float64         `json:"ai_validation_score"`
	AISuggestions   []string        `json:"ai_suggestions,omitempty"`
}

// Progress summarizes questionnaire completion.
type Progress struct {
	TotalQuestions       int     `json:"total_questions"`
	CompletedResponses   int     `json:"completed_responses"`
	CompletionPercentage float64 `json:"completion_percentage"`
}

// Questionnaire is a generated question set plus collected responses.
type Questionnaire struct {
	ID          string             `json:"id"`
	Country     string             `json:"country"`
	Entity      string             `json:"entity"`
	ReportDate  string             `json:"report_date"`
	GeneratedAt string             `json:"generated_at"`
	DueDate     string             `json:"due_date"`
	Status      ResponseStatus     `json:"status"`
	Questions   []Question         `json:"questions"`
	Responses   []QuestionResponse `json:"responses"`
	Progress    Progress           `json:"progress"`
}
