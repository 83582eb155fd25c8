// Package config loads application configuration from file and environment.
package config

import (
	"os"
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/yaml.v3"
)

// Config holds the full application configuration.
type Config struct {
	Store     StoreConfig     `yaml:"store" mapstructure:"store"`
	Anthropic AnthropicConfig `yaml:"anthropic" mapstructure:"anthropic"`
	Scoring   ScoringConfig   `yaml:"scoring" mapstructure:"scoring"`
	Simulator SimulatorConfig `yaml:"simulator" mapstructure:"simulator"`
	Tiers     []LoanTier      `yaml:"tiers" mapstructure:"tiers"`
	Server    ServerConfig    `yaml:"server" mapstructure:"server"`
	Log       LogConfig       `yaml:"log" mapstructure:"log"`
}

// StoreConfig configures the recommendation history backend.
// An empty driver disables persistence entirely.
type StoreConfig struct {
	Driver      string `yaml:"driver" mapstructure:"driver"`
	DatabaseURL string `yaml:"database_url" mapstructure:"database_url"`
}

// AnthropicConfig holds the text-generation collaborator settings. A missing
// key disables the explain path gracefully; scoring is never blocked on it.
type AnthropicConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	Model       string `yaml:"model" mapstructure:"model"`
	MaxTokens   int64  `yaml:"max_tokens" mapstructure:"max_tokens"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// ScoringConfig holds the heuristic weights and normalization knobs.
// Weights are policy, not contract: they must be non-negative and sum to 100.
type ScoringConfig struct {
	LocationWeight    float64 `yaml:"location_weight" mapstructure:"location_weight"`
	MobileUsageWeight float64 `yaml:"mobile_usage_weight" mapstructure:"mobile_usage_weight"`
	TransactionWeight float64 `yaml:"transaction_weight" mapstructure:"transaction_weight"`
	IncomeWeight      float64 `yaml:"income_weight" mapstructure:"income_weight"`

	// TransactionCap is the UPI count at which the transaction component saturates.
	TransactionCap int `yaml:"transaction_cap" mapstructure:"transaction_cap"`
	// IncomeCeiling is the monthly income at which the income component saturates.
	IncomeCeiling float64 `yaml:"income_ceiling" mapstructure:"income_ceiling"`
	// MaxEMIToIncomeRatio caps the EMI at this fraction of monthly income.
	MaxEMIToIncomeRatio float64 `yaml:"max_emi_to_income_ratio" mapstructure:"max_emi_to_income_ratio"`
}

// SimulatorConfig configures the alternative-data signal simulator.
type SimulatorConfig struct {
	// Seed fixes the random source for reproducible runs. 0 = process random.
	Seed uint64 `yaml:"seed" mapstructure:"seed"`
	// StabilityJitter is the +/- uniform noise around the occupation
	// stability policy value.
	StabilityJitter float64 `yaml:"stability_jitter" mapstructure:"stability_jitter"`
	// TransactionBase is the floor of the expected monthly UPI count.
	TransactionBase float64 `yaml:"transaction_base" mapstructure:"transaction_base"`
	// TransactionIncomeScale divides income to produce the income-linked part
	// of the expected UPI count.
	TransactionIncomeScale float64 `yaml:"transaction_income_scale" mapstructure:"transaction_income_scale"`
}

// LoanTier is one row of the static score-band -> offer policy table.
// Bands must be contiguous, non-overlapping, and cover the full score scale.
type LoanTier struct {
	Name     string `yaml:"name" mapstructure:"name"`
	MinScore int    `yaml:"min_score" mapstructure:"min_score"`
	MaxScore int    `yaml:"max_score" mapstructure:"max_score"`
	// IncomeMultiple caps the principal at this multiple of annual income.
	IncomeMultiple float64 `yaml:"income_multiple" mapstructure:"income_multiple"`
	// BaseRatePercent is the annual rate at the band midpoint; the effective
	// rate is adjusted by score and clamped to [MinRatePercent, MaxRatePercent].
	BaseRatePercent float64 `yaml:"base_rate_percent" mapstructure:"base_rate_percent"`
	MinRatePercent  float64 `yaml:"min_rate_percent" mapstructure:"min_rate_percent"`
	MaxRatePercent  float64 `yaml:"max_rate_percent" mapstructure:"max_rate_percent"`
	// TermMonths is the default tenure when the applicant does not request one.
	TermMonths int `yaml:"term_months" mapstructure:"term_months"`
}

// ServerConfig configures the serve command.
type ServerConfig struct {
	Port           int     `yaml:"port" mapstructure:"port"`
	RateLimitRPS   float64 `yaml:"rate_limit_rps" mapstructure:"rate_limit_rps"`
	RateLimitBurst int     `yaml:"rate_limit_burst" mapstructure:"rate_limit_burst"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("CREDITVISION")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("store.driver", "sqlite")
	v.SetDefault("store.database_url", "creditvision.db")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.rate_limit_rps", 5)
	v.SetDefault("server.rate_limit_burst", 10)
	v.SetDefault("anthropic.model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 512)
	v.SetDefault("anthropic.timeout_secs", 20)
	v.SetDefault("scoring.location_weight", 25)
	v.SetDefault("scoring.mobile_usage_weight", 25)
	v.SetDefault("scoring.transaction_weight", 25)
	v.SetDefault("scoring.income_weight", 25)
	v.SetDefault("scoring.transaction_cap", 50)
	v.SetDefault("scoring.income_ceiling", 100000)
	v.SetDefault("scoring.max_emi_to_income_ratio", 0.45)
	v.SetDefault("simulator.stability_jitter", 0.15)
	v.SetDefault("simulator.transaction_base", 10)
	v.SetDefault("simulator.transaction_income_scale", 2000)

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

// LoadTiersFile reads a standalone tier table from a YAML file, replacing the
// tiers section of the main config.
func LoadTiersFile(path string) ([]LoanTier, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, eris.Wrapf(err, "config: read tiers file %s", path)
	}

	var doc struct {
		Tiers []LoanTier `yaml:"tiers"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, eris.Wrapf(err, "config: parse tiers file %s", path)
	}
	if len(doc.Tiers) == 0 {
		return nil, eris.Errorf("config: tiers file %s defines no tiers", path)
	}
	return doc.Tiers, nil
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
