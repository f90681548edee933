package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Metrics   MetricsConfig   `yaml:"metrics" mapstructure:"metrics"`
	Engine    EngineConfig    `yaml:"engine" mapstructure:"engine"`
	Generate  GenerateConfig  `yaml:"generate" mapstructure:"generate"`
}

// ServerConfig configures the HTTP API server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	Key       string `yaml:"key" mapstructure:"key"`
	Model     string `yaml:"model" mapstructure:"model"`
	MaxTokens int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
}

// MetricsConfig holds the portfolio metrics store settings.
type MetricsConfig struct {
	BaseURL       string  `yaml:"base_url" mapstructure:"base_url"`
	Key           string  `yaml:"key" mapstructure:"key"`
	TimeoutSecs   int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	MaxRetries    int     `yaml:"max_retries" mapstructure:"max_retries"`
	RatePerSecond float64 `yaml:"rate_per_second" mapstructure:"rate_per_second"`
}

// EngineConfig holds the questionnaire rule thresholds. The observed
// values are defaults, not load-bearing business logic; adopting markets
// may tune them.
type EngineConfig struct {
	DelinquentAmount   float64 `yaml:"delinquent_amount" mapstructure:"delinquent_amount"`
	SignificantChange  int     `yaml:"significant_change" mapstructure:"significant_change"`
	HighImpactChange   int     `yaml:"high_impact_change" mapstructure:"high_impact_change"`
	ChangeVolume       int     `yaml:"change_volume" mapstructure:"change_volume"`
	ErrorRateWeight    float64 `yaml:"error_rate_weight" mapstructure:"error_rate_weight"`
	DelinquencyDivisor float64 `yaml:"delinquency_divisor" mapstructure:"delinquency_divisor"`
	DelinquencyWeight  float64 `yaml:"delinquency_weight" mapstructure:"delinquency_weight"`
	ChangeDivisor      float64 `yaml:"change_divisor" mapstructure:"change_divisor"`
	TopChanges         int     `yaml:"top_changes" mapstructure:"top_changes"`
}

// GenerateConfig configures the offline generate command.
type GenerateConfig struct {
	MaxConcurrentCountries int `yaml:"max_concurrent_countries" mapstructure:"max_concurrent_countries"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DQAGENT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("server.port", 8080)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.max_tokens", 1024)
	v.SetDefault("metrics.timeout_secs", 30)
	v.SetDefault("metrics.max_retries", 3)
	v.SetDefault("metrics.rate_per_second", 10)
	v.SetDefault("engine.delinquent_amount", 500000)
	v.SetDefault("engine.significant_change", 10)
	v.SetDefault("engine.high_impact_change", 50)
	v.SetDefault("engine.change_volume", 200)
	v.SetDefault("engine.error_rate_weight", 2)
	v.SetDefault("engine.delinquency_divisor", 1000000)
	v.SetDefault("engine.delinquency_weight", 5)
	v.SetDefault("engine.change_divisor", 100)
	v.SetDefault("engine.top_changes", 5)
	v.SetDefault("generate.max_concurrent_countries", 4)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
