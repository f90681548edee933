package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, "claude-sonnet-4-5-20250929", cfg.Anthropic.Model)

	assert.InDelta(t, 500_000, cfg.Engine.DelinquentAmount, 1e-9)
	assert.Equal(t, 10, cfg.Engine.SignificantChange)
	assert.Equal(t, 50, cfg.Engine.HighImpactChange)
	assert.Equal(t, 200, cfg.Engine.ChangeVolume)
	assert.Equal(t, 5, cfg.Engine.TopChanges)
	assert.Equal(t, 4, cfg.Generate.MaxConcurrentCountries)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("DQAGENT_SERVER_PORT", "9191")
	t.Setenv("DQAGENT_LOG_LEVEL", "debug")
	t.Setenv("DQAGENT_ENGINE_DELINQUENT_AMOUNT", "750000")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9191, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.InDelta(t, 750_000, cfg.Engine.DelinquentAmount, 1e-9)
}

func TestInitLogger(t *testing.T) {
	require.NoError(t, InitLogger(LogConfig{Level: "debug", Format: "console"}))
	require.NoError(t, InitLogger(LogConfig{Level: "info", Format: "json"}))
	assert.Error(t, InitLogger(LogConfig{Level: "not-a-level"}))
}
