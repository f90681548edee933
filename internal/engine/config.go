// Package engine implements the questionnaire rules engine: risk scoring,
// threshold-based question derivation, summary aggregation, and response
// validation over a data-quality report.
package engine

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"

	"github.com/fleetfs/dqagent/internal/config"
)

// DefaultEngineConfig returns a config.EngineConfig with the observed
// production thresholds.
func DefaultEngineConfig() config.EngineConfig {
	return config.EngineConfig{
		// Question thresholds. All comparisons are strict.
		DelinquentAmount:  500_000,
		SignificantChange: 10,
		HighImpactChange:  50,
		ChangeVolume:      200,

		// Risk score weightings. Each component is capped at 10.
		ErrorRateWeight:    2,
		DelinquencyDivisor: 1_000_000,
		DelinquencyWeight:  5,
		ChangeDivisor:      100,

		TopChanges: 5,
	}
}

// ValidateConfig checks that an EngineConfig is internally consistent.
func ValidateConfig(c config.EngineConfig) error {
	var errs []string

	positives := map[string]float64{
		"delinquent_amount":   c.DelinquentAmount,
		"error_rate_weight":   c.ErrorRateWeight,
		"delinquency_divisor": c.DelinquencyDivisor,
		"delinquency_weight":  c.DelinquencyWeight,
		"change_divisor":      c.ChangeDivisor,
	}
	for name, v := range positives {
		if v <= 0 {
			errs = append(errs, fmt.Sprintf("%s must be > 0", name))
		}
	}

	if c.SignificantChange < 0 {
		errs = append(errs, "significant_change must be >= 0")
	}
	if c.HighImpactChange < c.SignificantChange {
		errs = append(errs, "high_impact_change must be >= significant_change")
	}
	if c.ChangeVolume < 0 {
		errs = append(errs, "change_volume must be >= 0")
	}
	if c.TopChanges <= 0 {
		errs = append(errs, "top_changes must be > 0")
	}

	if len(errs) > 0 {
		return eris.Errorf("engine: config validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
