package server

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/fleetfs/dqagent/internal/model"
)

// responseDueDays is how long markets have to answer a questionnaire.
const responseDueDays = 14

// Registry is the request-scoped questionnaire store. Persistence is an
// external collaborator's concern; this keeps generated questionnaires
// addressable for the lifetime of the process so responses can be
// submitted against them.
type Registry struct {
	mu             sync.RWMutex
	questionnaires map[string]*model.Questionnaire
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{questionnaires: make(map[string]*model.Questionnaire)}
}

// Register stores a freshly generated questionnaire and returns its id.
func (r *Registry) Register(gen model.GenerationResponse, now time.Time) string {
	id := uuid.NewString()
	q := &model.Questionnaire{
		ID:          id,
		Country:     gen.Country,
		Entity:      gen.Entity,
		ReportDate:  gen.ReportDate,
		GeneratedAt: now.UTC().Format(time.RFC3339),
		DueDate:     now.UTC().AddDate(0, 0, responseDueDays).Format("2006-01-02"),
		Status:      model.StatusPending,
		Questions:   gen.Questions,
		Responses:   []model.QuestionResponse{},
		Progress: model.Progress{
			TotalQuestions: len(gen.Questions),
		},
	}
	r.mu.Lock()
	r.questionnaires[id] = q
	r.mu.Unlock()
	return id
}

// Get returns a copy of the questionnaire.
func (r *Registry) Get(id string) (model.Questionnaire, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.questionnaires[id]
	if !ok {
		return model.Questionnaire{}, false
	}
	return *q, true
}

// Question looks up one question of a questionnaire.
func (r *Registry) Question(id, questionID string) (model.Question, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	q, ok := r.questionnaires[id]
	if !ok {
		return model.Question{}, false
	}
	for _, question := range q.Questions {
		if question.ID == questionID {
			return question, true
		}
	}
	return model.Question{}, false
}

// RecordResponse appends a validated response and refreshes progress.
func (r *Registry) RecordResponse(id string, resp model.QuestionResponse) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	q, ok := r.questionnaires[id]
	if !ok {
		return false
	}
	q.Responses = append(q.Responses, resp)

	completed := map[string]bool{}
	for _, rec := range q.Responses {
		if rec.Status == model.StatusCompleted {
			completed[rec.QuestionID] = true
		}
	}
	q.Progress.CompletedResponses = len(completed)
	if q.Progress.TotalQuestions > 0 {
		q.Progress.CompletionPercentage = float64(len(completed)) / float64(q.Progress.TotalQuestions) * 100
	}
	switch {
	case q.Progress.TotalQuestions > 0 && len(completed) == q.Progress.TotalQuestions:
		q.Status = model.StatusCompleted
	case len(q.Responses) > 0:
		q.Status = model.StatusPartial
	}
	return true
}
