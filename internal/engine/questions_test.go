package engine

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fleetfs/dqagent/internal/model"
)

func fixedClock() Clock {
	return func() time.Time {
		return time.Date(2025, 5, 31, 12, 0, 0, 0, time.UTC)
	}
}

func netherlandsReport() *model.DQReport {
	return &model.DQReport{
		Metadata: model.ReportMetadata{
			ReportingDate:        "2025-05-31",
			DeliveringEntityName: "Daimler Truck FS",
			Country:              "NL",
		},
		Overview: model.Overview{
			Portfolios: []model.Portfolio{
				{Type: "Total", Criteria: "Relevant Portfolio", Currency: "EUR", NoOfContracts: 12500, NetBookValue: 1_250_000_000, DelinquentAmount: 682924.14},
				{Type: "Total", Criteria: "Error Portfolio", Currency: "EUR", NoOfContracts: 8720, NetBookValue: -45000},
			},
		},
	}
}

func TestGenerate_ScenarioA_TwoOverviewQuestions(t *testing.T) {
	gen := Generate(netherlandsReport(), "NL", DefaultEngineConfig(), fixedClock())

	require.Len(t, gen.Questions, 2)
	assert.Equal(t, "Overview", gen.Questions[0].Category)
	assert.Equal(t, "Overview", gen.Questions[1].Category)
	assert.Equal(t, model.PriorityCritical, gen.Questions[0].Priority)
	assert.Equal(t, model.PriorityHigh, gen.Questions[1].Priority)

	assert.Contains(t, gen.Questions[0].QuestionText, "€682,924.14")
	assert.Contains(t, gen.Questions[1].QuestionText, "8720 contracts")

	assert.Equal(t, "Daimler Truck FS", gen.Entity)
	assert.Equal(t, "2025-05-31", gen.ReportDate)
	assert.True(t, gen.Summary.RequiresImmediateAttention)
}

func TestGenerate_ScenarioB_EmptyReport(t *testing.T) {
	empty := &model.DQReport{
		AdditionalInfo: model.AdditionalInfo{Changes: map[string]int{}},
	}
	gen := Generate(empty, "NL", DefaultEngineConfig(), fixedClock())

	assert.Empty(t, gen.Questions)
	assert.Equal(t, 0, gen.Summary.TotalQuestions)
	assert.Equal(t, 0, gen.Summary.HighPriority)
	assert.Equal(t, 0, gen.Summary.CriticalPriority)
	assert.False(t, gen.Summary.RequiresImmediateAttention)
	assert.Equal(t, "Unknown", gen.Entity)
}

func TestGenerate_Idempotent_UnderFixedClock(t *testing.T) {
	report := netherlandsReport()
	report.AdditionalInfo = model.AdditionalInfo{Changes: map[string]int{
		"Changes in Rating":            120,
		"Changes in Contract End Date": 35,
		"Changes in Customer Name":     12,
	}}

	first := Generate(report, "NL", DefaultEngineConfig(), fixedClock())
	second := Generate(report, "NL", DefaultEngineConfig(), fixedClock())

	assert.Equal(t, first, second)
}

func TestOverviewQuestions_DelinquentBoundary(t *testing.T) {
	cfg := DefaultEngineConfig()

	report := &model.DQReport{Overview: model.Overview{Portfolios: []model.Portfolio{
		{Criteria: "Relevant Portfolio", DelinquentAmount: 500_000.00},
	}}}
	assert.Empty(t, overviewQuestions(report, cfg, "ts"), "exactly 500,000.00 must not trigger")

	report.Overview.Portfolios[0].DelinquentAmount = 500_000.01
	questions := overviewQuestions(report, cfg, "ts")
	require.Len(t, questions, 1)
	assert.Equal(t, model.PriorityCritical, questions[0].Priority)
	assert.Equal(t, "overview_delinquent_ts", questions[0].ID)
}

func TestOverviewQuestions_ErrorPortfolioNeedsContracts(t *testing.T) {
	cfg := DefaultEngineConfig()
	report := &model.DQReport{Overview: model.Overview{Portfolios: []model.Portfolio{
		{Criteria: "Error Portfolio", NoOfContracts: 0},
	}}}
	assert.Empty(t, overviewQuestions(report, cfg, "ts"))

	report.Overview.Portfolios[0].NoOfContracts = 3
	questions := overviewQuestions(report, cfg, "ts")
	require.Len(t, questions, 1)
	assert.Equal(t, model.PriorityHigh, questions[0].Priority)
	assert.Contains(t, questions[0].ValidationRules, "min_length:50")
}

func TestAdditionalInfoQuestions_SignificanceBoundaries(t *testing.T) {
	cfg := DefaultEngineConfig()

	report := &model.DQReport{AdditionalInfo: model.AdditionalInfo{
		Changes: map[string]int{"Changes in Rating": 10},
	}}
	assert.Empty(t, additionalInfoQuestions(report, cfg, "ts"), "count of exactly 10 is not significant")

	report.AdditionalInfo.Changes["Changes in Rating"] = 11
	questions := additionalInfoQuestions(report, cfg, "ts")
	require.Len(t, questions, 1)
	assert.Equal(t, model.PriorityMedium, questions[0].Priority, "11 is significant but not high impact")

	report.AdditionalInfo.Changes["Changes in Rating"] = 50
	questions = additionalInfoQuestions(report, cfg, "ts")
	require.Len(t, questions, 1)
	assert.Equal(t, model.PriorityMedium, questions[0].Priority, "exactly 50 is not high impact")

	report.AdditionalInfo.Changes["Changes in Rating"] = 51
	questions = additionalInfoQuestions(report, cfg, "ts")
	require.Len(t, questions, 1)
	assert.Equal(t, model.PriorityHigh, questions[0].Priority)
}

func TestAdditionalInfoQuestions_ListsTopFiveSorted(t *testing.T) {
	cfg := DefaultEngineConfig()
	report := &model.DQReport{AdditionalInfo: model.AdditionalInfo{Changes: map[string]int{
		"Alpha":   20,
		"Bravo":   21,
		"Charlie": 22,
		"Delta":   23,
		"Echo":    24,
		"Foxtrot": 25,
		"Golf":    9, // below threshold
	}}}

	questions := additionalInfoQuestions(report, cfg, "ts")
	require.Len(t, questions, 1)
	q := questions[0]

	assert.Contains(t, q.QuestionText, "Alpha: 20")
	assert.Contains(t, q.QuestionText, "Echo: 24")
	assert.NotContains(t, q.QuestionText, "Foxtrot", "only the first five categories are quoted")
	assert.NotContains(t, q.QuestionText, "Golf")

	assert.Len(t, q.FollowUpQuestions, 3)
	assert.Equal(t, model.ResponseTypeStructured, q.ExpectedResponseType)
}

func TestWriteoffQuestions_FirstMatchingCriteriaOnly(t *testing.T) {
	report := &model.DQReport{Writeoffs: model.WriteoffSection{
		Writeoffs: []model.Writeoff{
			{Criteria: "Other Portfolio", NetLossAmount: 900},
			{Criteria: "Converted Portfolio", NetLossAmount: 15000.50},
			{Criteria: "Relevant Portfolio", NetLossAmount: 22000},
		},
	}}

	questions := writeoffQuestions(report, "ts")
	require.Len(t, questions, 1)
	assert.Equal(t, model.PriorityMedium, questions[0].Priority)
	assert.Contains(t, questions[0].QuestionText, "€15,000.50")
}

func TestWriteoffQuestions_FlagAloneTriggers(t *testing.T) {
	report := &model.DQReport{Writeoffs: model.WriteoffSection{
		Writeoffs: []model.Writeoff{{Criteria: "Relevant Portfolio", NetLossAmount: 0}},
		Flags:     model.WriteoffFlags{HasNewWriteoffs: true},
	}}
	require.Len(t, writeoffQuestions(report, "ts"), 1)

	report.Writeoffs.Flags.HasNewWriteoffs = false
	assert.Empty(t, writeoffQuestions(report, "ts"))
}

func TestWarningQuestions_FiltersConfirmations(t *testing.T) {
	report := &model.DQReport{Warnings: model.WarningSection{Warnings: []model.WarningEntry{
		{Description: "Please CONFIRM rule 14 output", Contracts: 40},
		{Description: "Confirm missing downpayment", Contracts: 12},
		{Description: "Stale exchange rate", Contracts: 99},
	}}}

	questions := warningQuestions(report, "ts")
	require.Len(t, questions, 1)
	assert.Contains(t, questions[0].QuestionText, "52 contracts")
	assert.Equal(t, "Warnings", questions[0].Category)
}

func TestWarningQuestions_NoConfirmWarnings(t *testing.T) {
	report := &model.DQReport{Warnings: model.WarningSection{Warnings: []model.WarningEntry{
		{Description: "Stale exchange rate", Contracts: 99},
	}}}
	assert.Empty(t, warningQuestions(report, "ts"))
}

func TestFinalize_DenseSequenceAndPriorityOrder(t *testing.T) {
	questions := []model.Question{
		{ID: "a", Priority: model.PriorityMedium},
		{ID: "b", Priority: model.PriorityCritical},
		{ID: "c", Priority: model.PriorityMedium},
		{ID: "d", Priority: model.PriorityHigh},
		{ID: "e", Priority: model.PriorityLow},
	}

	out := Finalize(questions)

	require.Len(t, out, 5)
	lastRank := -1
	for i, q := range out {
		assert.Equal(t, i+1, q.OrderSequence, "order_sequence must be dense 1..N")
		assert.GreaterOrEqual(t, q.Priority.Rank(), lastRank, "priority rank must be non-decreasing")
		lastRank = q.Priority.Rank()
	}

	// Stable within equal priority: a before c.
	assert.Equal(t, "b", out[0].ID)
	assert.Equal(t, "d", out[1].ID)
	assert.Equal(t, "a", out[2].ID)
	assert.Equal(t, "c", out[3].ID)
	assert.Equal(t, "e", out[4].ID)
}

func TestSummarize_StrictImmediateAttention(t *testing.T) {
	questions := []model.Question{
		{Category: "Overview", Priority: model.PriorityHigh},
		{Category: "Warnings", Priority: model.PriorityMedium},
		{Category: "Overview", Priority: model.PriorityHigh},
	}

	s := Summarize(questions)
	assert.Equal(t, 3, s.TotalQuestions)
	assert.Equal(t, 2, s.HighPriority)
	assert.Equal(t, 0, s.CriticalPriority)
	assert.ElementsMatch(t, []string{"Overview", "Warnings"}, s.Categories)
	assert.False(t, s.RequiresImmediateAttention, "high priority alone must not flag immediate attention")

	questions = append(questions, model.Question{Category: "Overview", Priority: model.PriorityCritical})
	s = Summarize(questions)
	assert.Equal(t, 1, s.CriticalPriority)
	assert.True(t, s.RequiresImmediateAttention)
}
