package engine

import (
	"fmt"

	"github.com/fleetfs/dqagent/internal/config"
	"github.com/fleetfs/dqagent/internal/model"
)

// attentionScore is the risk score above which a report requires
// management attention.
const attentionScore = 7.0

// Analyze derives the full risk analysis for a report: score, level,
// insights, patterns, executive summary, and recommendations.
func Analyze(report *model.DQReport, cfg config.EngineConfig) model.RiskAnalysis {
	score := RiskScore(report, cfg)
	return model.RiskAnalysis{
		RiskScore:          score,
		RiskLevel:          RiskLevel(score),
		KeyInsights:        keyInsights(report, cfg),
		PatternsIdentified: identifyPatterns(report),
		RequiresAttention:  score > attentionScore,
		Summary:            executiveSummary(report),
		Recommendations:    recommendations(report, score, cfg),
		ThresholdsBreached: thresholdBreaches(report, cfg),
		Confidence:         0.89,
	}
}

func keyInsights(report *model.DQReport, cfg config.EngineConfig) []string {
	var insights []string

	for _, p := range report.Overview.Portfolios {
		if p.DelinquentAmount > cfg.DelinquentAmount {
			criteria := p.Criteria
			if criteria == "" {
				criteria = "Unknown"
			}
			insights = append(insights, fmt.Sprintf("High delinquency detected: %s in %s portfolio",
				formatEUR(p.DelinquentAmount), criteria))
		}
	}

	if n := report.Errors.Summary.TotalErrorContracts; n > 0 {
		insights = append(insights, fmt.Sprintf("Data quality issues: %d contracts with errors", n))
	}

	if report.AdditionalInfo.Categories != nil {
		if name, count, ok := maxEntry(report.AdditionalInfo.Categories.HighImpact); ok {
			insights = append(insights, fmt.Sprintf("High change volume: %d changes in %s", count, name))
		}
	}

	return insights
}

// maxEntry returns the largest-count entry, breaking count ties by name
// so the insight text is stable.
func maxEntry(m map[string]int) (string, int, bool) {
	var topName string
	topCount := -1
	for name, count := range m {
		if count > topCount || (count == topCount && name < topName) {
			topName, topCount = name, count
		}
	}
	return topName, topCount, topCount >= 0
}

func identifyPatterns(report *model.DQReport) []string {
	var patterns []string
	changes := report.AdditionalInfo.Changes

	if changes["Changes in Contract End Date"] > 100 {
		patterns = append(patterns, "High volume of contract end date changes suggests termination pattern")
	}
	if changes["Changes in Rating"] > 100 {
		patterns = append(patterns, "Significant rating updates indicate credit risk reassessment")
	}

	return patterns
}

func executiveSummary(report *model.DQReport) string {
	s := report.Overview.Summary
	return fmt.Sprintf("Report covers %s contracts with %s in delinquent amounts. Multiple high-impact changes detected requiring management attention.",
		amountPrinter.Sprintf("%d", s.TotalContracts), formatEUR(s.TotalDelinquentAmount))
}

func recommendations(report *model.DQReport, score float64, cfg config.EngineConfig) []string {
	var recs []string

	if score > attentionScore {
		recs = append(recs,
			"Immediate escalation to senior management required",
			"Implement enhanced monitoring for delinquent accounts")
	}

	if report.AdditionalInfo.Summary.TotalChanges > cfg.ChangeVolume {
		recs = append(recs,
			"Review change management processes and controls",
			"Validate data integrity after high change volume")
	}

	if report.Errors.Summary.NegativeAmountIssues > 0 {
		recs = append(recs, "Investigate and correct negative amount calculations")
	}

	return recs
}

func thresholdBreaches(report *model.DQReport, cfg config.EngineConfig) []model.ThresholdBreach {
	var breaches []model.ThresholdBreach

	var totalDelinquent float64
	for _, p := range report.Overview.Portfolios {
		totalDelinquent += p.DelinquentAmount
	}
	if totalDelinquent > cfg.DelinquentAmount {
		breaches = append(breaches, model.ThresholdBreach{
			Metric:    "total_delinquent_amount",
			Value:     totalDelinquent,
			Threshold: cfg.DelinquentAmount,
		})
	}

	if total := report.AdditionalInfo.Summary.TotalChanges; total > cfg.ChangeVolume {
		breaches = append(breaches, model.ThresholdBreach{
			Metric:    "total_changes",
			Value:     float64(total),
			Threshold: float64(cfg.ChangeVolume),
		})
	}

	return breaches
}
