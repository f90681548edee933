package engine

import (
	"strings"

	"github.com/fleetfs/dqagent/internal/config"
	"github.com/fleetfs/dqagent/internal/model"
)

// RiskScore computes the overall risk score for a report: the mean of
// the component scores that apply. A component whose precondition does
// not hold is skipped entirely, not zero-filled. The result is in
// [0, 10]; 0 when no component applies.
func RiskScore(report *model.DQReport, cfg config.EngineConfig) float64 {
	var components []float64

	var totalContracts, errorContracts int
	var totalDelinquent float64
	for _, p := range report.Overview.Portfolios {
		if strings.Contains(p.Criteria, "Error") {
			errorContracts += p.NoOfContracts
		}
		totalContracts += p.NoOfContracts
		totalDelinquent += p.DelinquentAmount
	}

	if totalContracts > 0 {
		errorRatePct := float64(errorContracts) / float64(totalContracts) * 100
		components = append(components, capAt10(errorRatePct*cfg.ErrorRateWeight))
	}

	if totalDelinquent > cfg.DelinquentAmount {
		components = append(components, capAt10(totalDelinquent/cfg.DelinquencyDivisor*cfg.DelinquencyWeight))
	}

	if totalChanges := report.AdditionalInfo.Summary.TotalChanges; totalChanges > cfg.ChangeVolume {
		components = append(components, capAt10(float64(totalChanges)/cfg.ChangeDivisor))
	}

	if len(components) == 0 {
		return 0
	}
	var sum float64
	for _, c := range components {
		sum += c
	}
	return sum / float64(len(components))
}

// RiskLevel classifies a risk score.
func RiskLevel(score float64) string {
	switch {
	case score >= 8:
		return "high"
	case score >= 5:
		return "medium"
	default:
		return "low"
	}
}

func capAt10(v float64) float64 {
	if v > 10 {
		return 10
	}
	return v
}
