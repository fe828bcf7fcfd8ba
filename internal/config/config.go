package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/surveyworks/surveyqc-cli/internal/model"
)

// Config holds the full application configuration.
type Config struct {
	Models    []model.ModelConfig `yaml:"models" mapstructure:"models"`
	Providers ProvidersConfig     `yaml:"providers" mapstructure:"providers"`
	Analyze   AnalyzeConfig       `yaml:"analyze" mapstructure:"analyze"`
	Keys      KeysConfig          `yaml:"keys" mapstructure:"keys"`
	Log       LogConfig           `yaml:"log" mapstructure:"log"`
}

// ProvidersConfig holds settings shared by all provider adapters.
type ProvidersConfig struct {
	TimeoutSecs int `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// AnalyzeConfig configures the fan-out run.
type AnalyzeConfig struct {
	Concurrency int    `yaml:"concurrency" mapstructure:"concurrency"`
	OutDir      string `yaml:"out_dir" mapstructure:"out_dir"`
}

// KeysConfig locates the credential file.
type KeysConfig struct {
	File string `yaml:"file" mapstructure:"file"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// DefaultModels returns the built-in model roster used when the config file
// defines none. API keys are filled in from the credential file afterwards.
func DefaultModels() []model.ModelConfig {
	return []model.ModelConfig{
		{Name: "DeepSeek Reasoner", Provider: model.ProviderDeepSeek, Temperature: 0.3, ModelName: "deepseek-reasoner"},
		{Name: "Gemini 2.5 Flash", Provider: model.ProviderGemini, Temperature: 0.3, ModelName: "gemini-2.5-flash"},
		{Name: "OpenRouter (MIMO)", Provider: model.ProviderOpenRouter, Temperature: 0.3, ModelName: "xiaomi/mimo-v2-flash:free"},
	}
}

// Load reads config.yaml (optional), the environment, and defaults.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SURVEYQC")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("providers.timeout_secs", 120)
	v.SetDefault("analyze.concurrency", 4)
	v.SetDefault("analyze.out_dir", "reports")
	v.SetDefault("keys.file", "key.json")
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

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

	if len(cfg.Models) == 0 {
		cfg.Models = DefaultModels()
	}

	return &cfg, nil
}

// Validate rejects configurations the run cannot use.
func (c *Config) Validate() error {
	if len(c.Models) == 0 {
		return eris.New("config: no models configured")
	}
	for _, m := range c.Models {
		if m.Name == "" {
			return eris.New("config: model with empty name")
		}
		if !m.Provider.Valid() {
			return eris.Errorf("config: model %s has unknown provider %q", m.Name, m.Provider)
		}
		if m.Temperature < 0 || m.Temperature > 1 {
			return eris.Errorf("config: model %s temperature %v out of [0,1]", m.Name, m.Temperature)
		}
	}
	return nil
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
