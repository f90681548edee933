package engine

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/fleetfs/dqagent/internal/config"
	"github.com/fleetfs/dqagent/internal/model"
)

// Clock supplies the timestamp embedded in question identifiers.
// Injectable so generation is reproducible under test.
type Clock func() time.Time

// Generate derives the full questionnaire for a report: runs the four
// section rules in fixed order (Overview, Additional Information,
// Writeoffs, Warnings), sorts by priority, renumbers densely, and
// aggregates the summary.
func Generate(report *model.DQReport, country string, cfg config.EngineConfig, clock Clock) model.GenerationResponse {
	if clock == nil {
		clock = time.Now
	}
	ts := clock().Format("20060102_150405")

	var questions []model.Question
	questions = append(questions, overviewQuestions(report, cfg, ts)...)
	questions = append(questions, additionalInfoQuestions(report, cfg, ts)...)
	questions = append(questions, writeoffQuestions(report, ts)...)
	questions = append(questions, warningQuestions(report, ts)...)

	questions = Finalize(questions)

	entity := report.Metadata.DeliveringEntityName
	if entity == "" {
		entity = "Unknown"
	}

	zap.L().Info("questionnaire generated",
		zap.String("country", country),
		zap.String("report_date", report.Metadata.ReportingDate),
		zap.Int("questions", len(questions)),
	)

	return model.GenerationResponse{
		Country:    country,
		Entity:     entity,
		ReportDate: report.Metadata.ReportingDate,
		Questions:  questions,
		Summary:    Summarize(questions),
	}
}

// Finalize sorts questions by priority rank (critical first) with the
// pre-sort sequence as tiebreaker, then reassigns OrderSequence to a
// dense 1..N.
func Finalize(questions []model.Question) []model.Question {
	for i := range questions {
		questions[i].OrderSequence = i + 1
	}
	sort.SliceStable(questions, func(i, j int) bool {
		ri, rj := questions[i].Priority.Rank(), questions[j].Priority.Rank()
		if ri != rj {
			return ri < rj
		}
		return questions[i].OrderSequence < questions[j].OrderSequence
	})
	for i := range questions {
		questions[i].OrderSequence = i + 1
	}
	return questions
}

// Summarize aggregates a finalized question list.
//
// RequiresImmediateAttention is true iff at least one critical-priority
// question exists. The looser critical-or-high reading seen in an
// earlier revision made the flag redundant with HighPriority > 0.
func Summarize(questions []model.Question) model.Summary {
	s := model.Summary{
		TotalQuestions: len(questions),
		Categories:     []string{},
	}
	seen := make(map[string]bool)
	for _, q := range questions {
		switch q.Priority {
		case model.PriorityHigh:
			s.HighPriority++
		case model.PriorityCritical:
			s.CriticalPriority++
		}
		if !seen[q.Category] {
			seen[q.Category] = true
			s.Categories = append(s.Categories, q.Category)
		}
	}
	s.RequiresImmediateAttention = s.CriticalPriority > 0
	return s
}

func confidence(v float64) *float64 { return &v }

// overviewQuestions covers the portfolio overview sheet: the relevant
// portfolio's delinquent amount and the error portfolio's contracts.
func overviewQuestions(report *model.DQReport, cfg config.EngineConfig, ts string) []model.Question {
	var questions []model.Question

	var relevant, errPortfolio *model.Portfolio
	for i := range report.Overview.Portfolios {
		p := &report.Overview.Portfolios[i]
		if p.Criteria == "Relevant Portfolio" {
			relevant = p
		} else if errPortfolio == nil && strings.Contains(p.Criteria, "Error") {
			errPortfolio = p
		}
	}

	if relevant != nil && relevant.DelinquentAmount > cfg.DelinquentAmount {
		questions = append(questions, model.Question{
			ID:       "overview_delinquent_" + ts,
			Category: "Overview",
			Priority: model.PriorityCritical,
			QuestionText: fmt.Sprintf(
				"It has been observed that there is a considerable increase in delinquent amount (%s) and change in the NBV of the relevant portfolio compared to the previous month. Can you please provide additional information on this?",
				formatEUR(relevant.DelinquentAmount)),
			Context:              "Significant delinquent amount increase detected in portfolio analysis",
			ExpectedResponseType: model.ResponseTypeText,
			ValidationRules:      []string{"min_length:75", "requires_explanation", "requires_timeline"},
			RelatedData: model.RelatedData{
				"delinquent_amount":  model.Number(relevant.DelinquentAmount),
				"portfolio_data":     portfolioRecord(*relevant),
				"threshold_exceeded": model.Bool(true),
			},
			GeneratedByAI:   true,
			ConfidenceScore: confidence(0.95),
		})
	}

	if errPortfolio != nil && errPortfolio.NoOfContracts > 0 {
		questions = append(questions, model.Question{
			ID:       "overview_errors_" + ts,
			Category: "Overview",
			Priority: model.PriorityHigh,
			QuestionText: fmt.Sprintf(
				"There are %d contracts in the Error portfolio with negative amounts detected. Please explain the nature of these errors and your remediation plan.",
				errPortfolio.NoOfContracts),
			Context:              "Error contracts with negative amounts detected in portfolio overview",
			ExpectedResponseType: model.ResponseTypeText,
			ValidationRules:      []string{"min_length:50", "requires_action_plan"},
			RelatedData: model.RelatedData{
				"error_contracts": model.Int(errPortfolio.NoOfContracts),
				"error_amount":    model.Number(errPortfolio.NetBookValue),
				"portfolio_data":  portfolioRecord(*errPortfolio),
			},
			GeneratedByAI:   true,
			ConfidenceScore: confidence(0.90),
		})
	}

	return questions
}

// additionalInfoQuestions covers the change categories on the
// additional-information sheet. A category is significant above the
// significance threshold, high impact above the high-impact threshold;
// both comparisons are strict.
func additionalInfoQuestions(report *model.DQReport, cfg config.EngineConfig, ts string) []model.Question {
	changes := report.AdditionalInfo.Changes

	// Categories in sorted order so repeated runs emit identical text.
	names := make([]string, 0, len(changes))
	for name := range changes {
		names = append(names, name)
	}
	sort.Strings(names)

	significant := make(map[string]model.DataValue)
	var significantNames []string
	var highImpact []string
	total := 0
	for _, name := range names {
		count := changes[name]
		if count > cfg.SignificantChange {
			significant[name] = model.Int(count)
			significantNames = append(significantNames, name)
			total += count
			if count > cfg.HighImpactChange {
				highImpact = append(highImpact, fmt.Sprintf("%s: %d", name, count))
			}
		}
	}

	if len(significantNames) == 0 {
		return nil
	}

	top := significantNames
	if len(top) > cfg.TopChanges {
		top = top[:cfg.TopChanges]
	}
	summary := make([]string, len(top))
	for i, name := range top {
		summary[i] = fmt.Sprintf("%s: %d", name, changes[name])
	}

	priority := model.PriorityMedium
	if len(highImpact) > 0 {
		priority = model.PriorityHigh
	}

	return []model.Question{{
		ID:       "additional_changes_" + ts,
		Category: "Additional Information",
		Priority: priority,
		QuestionText: fmt.Sprintf(
			"You'll find the list of contracts in the \"Additional Information\" sheet of the DQ report. Can you please provide clarifications on the changes highlighted: %s",
			strings.Join(summary, "; ")),
		Context:              "Significant data changes detected in multiple categories",
		ExpectedResponseType: model.ResponseTypeStructured,
		ValidationRules:      []string{"requires_explanations_per_category", "min_length:100"},
		RelatedData: model.RelatedData{
			"significant_changes": model.Record(significant),
			"total_changes":       model.Int(total),
			"high_impact_changes": model.Strings(highImpact),
			"change_categories":   model.Strings(significantNames),
		},
		FollowUpQuestions: []string{
			"What business processes or system changes caused these modifications?",
			"Are these changes permanent or temporary adjustments?",
			"What controls are in place to validate these changes?",
		},
		GeneratedByAI:   true,
		ConfidenceScore: confidence(0.85),
	}}
}

// writeoffQuestions asks for verification of the first converted- or
// relevant-portfolio writeoff when new writeoffs exist or any entry
// carries a positive net loss.
func writeoffQuestions(report *model.DQReport, ts string) []model.Question {
	section := report.Writeoffs

	triggered := section.Flags.HasNewWriteoffs
	if !triggered {
		for _, w := range section.Writeoffs {
			if w.NetLossAmount > 0 {
				triggered = true
				break
			}
		}
	}
	if !triggered {
		return nil
	}

	for _, w := range section.Writeoffs {
		if w.Criteria != "Converted Portfolio" && w.Criteria != "Relevant Portfolio" {
			continue
		}
		return []model.Question{{
			ID:       "writeoffs_analysis_" + ts,
			Category: "Writeoffs",
			Priority: model.PriorityMedium,
			QuestionText: fmt.Sprintf(
				"Can you please check and provide additional information on the net loss amount (%s) and confirm the writeoff analysis? You'll find it in the 'Writeoff' sheet of the DQ report.",
				formatEUR(w.NetLossAmount)),
			Context:              "Writeoff amounts require verification and explanation",
			ExpectedResponseType: model.ResponseTypeText,
			ValidationRules:      []string{"min_length:50", "requires_confirmation"},
			RelatedData: model.RelatedData{
				"net_loss_amount":       model.Number(w.NetLossAmount),
				"writeoff_criteria":     model.String(w.Criteria),
				"new_writeoffs_present": model.Bool(section.Flags.HasNewWriteoffs),
				"writeoff_data":         writeoffRecord(w),
			},
			GeneratedByAI:   true,
			ConfidenceScore: confidence(0.80),
		}}
	}

	return nil
}

// warningQuestions covers warnings whose description asks for rule
// confirmation.
func warningQuestions(report *model.DQReport, ts string) []model.Question {
	var ruleWarnings []model.WarningEntry
	for _, w := range report.Warnings.Warnings {
		if strings.Contains(strings.ToLower(w.Description), "confirm") {
			ruleWarnings = append(ruleWarnings, w)
		}
	}
	if len(ruleWarnings) == 0 {
		return nil
	}

	totalContracts := 0
	warningRecords := make([]model.DataValue, len(ruleWarnings))
	warningTypes := make([]string, len(ruleWarnings))
	for i, w := range ruleWarnings {
		totalContracts += w.Contracts
		warningRecords[i] = warningRecord(w)
		warningTypes[i] = w.Description
	}

	return []model.Question{{
		ID:       "warnings_rules_" + ts,
		Category: "Warnings",
		Priority: model.PriorityMedium,
		QuestionText: fmt.Sprintf(
			"Can you please provide additional information for the warnings: %d contracts with rule confirmation issues. What specific business rules are failing and what is your remediation plan?",
			totalContracts),
		Context:              "Rule confirmation warnings detected requiring business explanation",
		ExpectedResponseType: model.ResponseTypeStructured,
		ValidationRules:      []string{"requires_detailed_breakdown", "requires_remediation_plan"},
		RelatedData: model.RelatedData{
			"warning_contracts": model.Int(totalContracts),
			"rule_warnings":     model.DataValue{Kind: model.KindList, List: warningRecords},
			"warning_types":     model.Strings(warningTypes),
		},
		GeneratedByAI:   true,
		ConfidenceScore: confidence(0.75),
	}}
}

func portfolioRecord(p model.Portfolio) model.DataValue {
	return model.Record(map[string]model.DataValue{
		"type":              model.String(p.Type),
		"criteria":          model.String(p.Criteria),
		"currency":          model.String(p.Currency),
		"no_of_contracts":   model.Int(p.NoOfContracts),
		"net_book_value":    model.Number(p.NetBookValue),
		"gross_exposure":    model.Number(p.GrossExposure),
		"delinquent_amount": model.Number(p.DelinquentAmount),
	})
}

func writeoffRecord(w model.Writeoff) model.DataValue {
	return model.Record(map[string]model.DataValue{
		"type":                model.String(w.Type),
		"criteria":            model.String(w.Criteria),
		"currency":            model.String(w.Currency),
		"number_of_contracts": model.Int(w.NumberOfContracts),
		"net_loss_amount":     model.Number(w.NetLossAmount),
		"net_rv_loss_amount":  model.Number(w.NetRVLossAmount),
	})
}

func warningRecord(w model.WarningEntry) model.DataValue {
	return model.Record(map[string]model.DataValue{
		"description":         model.String(w.Description),
		"currency":            model.String(w.Currency),
		"contracts":           model.Int(w.Contracts),
		"netbook_value_local": model.Number(w.NetbookValue),
	})
}
