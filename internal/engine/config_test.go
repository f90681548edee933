package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateConfig_DefaultsAreValid(t *testing.T) {
	require.NoError(t, ValidateConfig(DefaultEngineConfig()))
}

func TestValidateConfig_RejectsBadValues(t *testing.T) {
	cfg := DefaultEngineConfig()
	cfg.DelinquentAmount = 0
	err := ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "delinquent_amount")

	cfg = DefaultEngineConfig()
	cfg.HighImpactChange = cfg.SignificantChange - 1
	err = ValidateConfig(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "high_impact_change")

	cfg = DefaultEngineConfig()
	cfg.TopChanges = 0
	assert.Error(t, ValidateConfig(cfg))
}
