package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/fleetfs/dqagent/internal/engine"
	"github.com/fleetfs/dqagent/internal/model"
	"github.com/fleetfs/dqagent/internal/report"
	"github.com/fleetfs/dqagent/pkg/metrics"
)

// supportedCountries is the active market list.
var supportedCountries = []model.Country{
	{Code: "NL", Name: "Netherlands", EntityID: "76", EntityName: "Daimler Truck FS", Active: true, Region: "Europe"},
	{Code: "DE", Name: "Germany", EntityID: "77", EntityName: "Daimler Truck FS", Active: true, Region: "Europe"},
	{Code: "ES", Name: "Spain", EntityID: "78", EntityName: "Daimler Truck FS", Active: true, Region: "Europe"},
}

// generateResult is the generate endpoint's body: the engine output
// plus the registry handle for follow-up submissions.
type generateResult struct {
	QuestionnaireID string `json:"questionnaire_id"`
	model.GenerationResponse
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	anthropicStatus := "not_configured"
	if s.cfg.Anthropic.Key != "" {
		anthropicStatus = "configured"
	}
	metricsStatus := "not_configured"
	if s.metrics != nil {
		metricsStatus = "configured"
	}

	writeJSON(w, http.StatusOK, model.HealthStatus{
		Status: "healthy",
		Services: map[string]string{
			"api":       "running",
			"anthropic": anthropicStatus,
			"metrics":   metricsStatus,
		},
		Timestamp: time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to DQAgent API",
		"version": "1.0.0",
		"endpoints": map[string]string{
			"health":                 "/api/health",
			"countries":              "/api/countries",
			"generate_questionnaire": "/api/questionnaire/generate",
		},
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleCountries(w http.ResponseWriter, r *http.Request) {
	writeEnvelope(w, http.StatusOK, model.APIResponse{
		Success: true,
		Data:    map[string]any{"countries": s.countries},
	})
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req model.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Request body required")
		return
	}
	if req.Country == "" {
		writeError(w, http.StatusBadRequest, "country is required")
		return
	}

	dq, err := s.loadReport(r, req)
	if err != nil {
		zap.L().Error("report load failed",
			zap.String("country", req.Country),
			zap.Error(err),
		)
		writeError(w, http.StatusNotFound, fmt.Sprintf("DQ report not available: %v", err))
		return
	}

	gen := engine.Generate(dq, req.Country, s.cfg.Engine, s.clock)
	if len(req.FocusAreas) > 0 {
		gen.Questions = engine.Finalize(filterByCategory(gen.Questions, req.FocusAreas))
		gen.Summary = engine.Summarize(gen.Questions)
	}
	if s.enricher != nil {
		gen.Questions = s.enricher.Enrich(r.Context(), gen.Questions)
	}

	id := s.registry.Register(gen, s.clock())

	writeJSON(w, http.StatusOK, generateResult{
		QuestionnaireID:    id,
		GenerationResponse: gen,
	})
}

// filterByCategory keeps questions whose category matches one of the
// requested focus areas, compared case-insensitively.
func filterByCategory(questions []model.Question, areas []string) []model.Question {
	wanted := make(map[string]bool, len(areas))
	for _, a := range areas {
		wanted[strings.ToLower(a)] = true
	}
	var out []model.Question
	for _, q := range questions {
		if wanted[strings.ToLower(q.Category)] {
			out = append(out, q)
		}
	}
	return out
}

// loadReport resolves the report source: an explicit report file
// (workbook or JSON fixture), else the metrics store by country/month.
func (s *Server) loadReport(r *http.Request, req model.GenerationRequest) (*model.DQReport, error) {
	if req.ReportFile != "" {
		if filepath.Ext(req.ReportFile) == ".xlsx" {
			return report.LoadWorkbook(req.ReportFile, req.Country, req.Month, s.cfg.Engine)
		}
		return report.LoadJSON(req.ReportFile)
	}

	month, err := engine.NormalizeMonth(req.Month)
	if err != nil {
		return nil, err
	}
	if s.metrics == nil {
		return nil, fmt.Errorf("no report file given and no metrics store configured")
	}
	records, err := s.metrics.FetchRecords(r.Context(), metrics.FilterQuery{
		Country: req.Country,
		Month:   month,
	})
	if err != nil {
		return nil, err
	}
	return report.FromRecords(records, req.Country, month, s.clock), nil
}

func (s *Server) handleGetQuestionnaire(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "questionnaireID")
	q, ok := s.registry.Get(id)
	if !ok {
		writeError(w, http.StatusNotFound, fmt.Sprintf("questionnaire %s not found", id))
		return
	}
	writeEnvelope(w, http.StatusOK, model.APIResponse{
		Success: true,
		Data:    q,
	})
}

func (s *Server) handleSubmitResponse(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "questionnaireID")

	var req model.SubmissionRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Request body required")
		return
	}
	if req.QuestionID == "" {
		writeError(w, http.StatusBadRequest, "question_id is required")
		return
	}

	// Parsed rules brief the judge on what the question demanded.
	var rules []engine.Rule
	if question, ok := s.registry.Question(id, req.QuestionID); ok {
		rules = engine.ParseRules(question.ValidationRules)
	}

	validation := engine.ValidateResponse(r.Context(), s.judge, req, rules)

	status := model.StatusPartial
	if validation.IsValid {
		status = model.StatusCompleted
	}

	now := s.clock()
	responseID := fmt.Sprintf("resp_%s_%s_%s", id, req.QuestionID, now.Format("20060102_150405"))
	recorded := s.registry.RecordResponse(id, model.QuestionResponse{
		ID:              responseID,
		QuestionID:      req.QuestionID,
		ResponseText:    req.ResponseText,
		ResponseData:    req.ResponseData,
		ConfidenceLevel: req.ConfidenceLevel,
		UploadedFiles:   req.UploadedFiles,
		SubmittedAt:     now.UTC().Format(time.RFC3339),
		SubmittedBy:     req.SubmittedBy,
		Status:          status,
		AIValidated:     validation.IsValid,
		AIScore:         validation.ValidationScore,
		AISuggestions:   validation.Suggestions,
	})
	if !recorded {
		zap.L().Warn("response submitted against unknown questionnaire",
			zap.String("questionnaire_id", id),
		)
	}

	writeEnvelope(w, http.StatusOK, model.APIResponse{
		Success: true,
		Data: map[string]any{
			"response_id": responseID,
			"validation":  validation,
			"status":      status,
		},
		Message: "Response submitted successfully",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("encode response failed", zap.Error(err))
	}
}

func writeEnvelope(w http.ResponseWriter, status int, resp model.APIResponse) {
	resp.Timestamp = time.Now().UTC().Format(time.RFC3339)
	writeJSON(w, status, resp)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeEnvelope(w, status, model.APIResponse{
		Success: false,
		Error:   msg,
	})
}
