package config

import (
	"strings"
	"time"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Filter   FilterConfig   `yaml:"filter" mapstructure:"filter"`
	Pipeline PipelineConfig `yaml:"pipeline" mapstructure:"pipeline"`
	OCR      OCRConfig      `yaml:"ocr" mapstructure:"ocr"`
	Vision   VisionConfig   `yaml:"vision" mapstructure:"vision"`
	Ollama   OllamaConfig   `yaml:"ollama" mapstructure:"ollama"`
	Gemini   GeminiConfig   `yaml:"gemini" mapstructure:"gemini"`
	History  HistoryConfig  `yaml:"history" mapstructure:"history"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// FilterConfig configures the cleanup filters applied before extraction.
type FilterConfig struct {
	DarkThreshold int `yaml:"dark_threshold" mapstructure:"dark_threshold"`
	RunDivisor    int `yaml:"run_divisor" mapstructure:"run_divisor"`
}

// PipelineConfig configures artifact processing.
type PipelineConfig struct {
	Concurrency        int  `yaml:"concurrency" mapstructure:"concurrency"`
	ExtractTimeoutSecs int  `yaml:"extract_timeout_secs" mapstructure:"extract_timeout_secs"`
	CorrectTimeoutSecs int  `yaml:"correct_timeout_secs" mapstructure:"correct_timeout_secs"`
	LLMClean           bool `yaml:"llm_clean" mapstructure:"llm_clean"`
	LLMClassify        bool `yaml:"llm_classify" mapstructure:"llm_classify"`
}

// ExtractTimeout returns the per-call extraction deadline.
func (c PipelineConfig) ExtractTimeout() time.Duration {
	return time.Duration(c.ExtractTimeoutSecs) * time.Second
}

// CorrectTimeout returns the per-call correction deadline.
func (c PipelineConfig) CorrectTimeout() time.Duration {
	return time.Duration(c.CorrectTimeoutSecs) * time.Second
}

// OCRConfig configures text extraction.
type OCRConfig struct {
	Provider      string `yaml:"provider" mapstructure:"provider"`
	Language      string `yaml:"language" mapstructure:"language"`
	TesseractPath string `yaml:"tesseract_path" mapstructure:"tesseract_path"`
}

// VisionConfig configures the optional vision correction collaborator.
type VisionConfig struct {
	Provider     string `yaml:"provider" mapstructure:"provider"`
	AnthropicKey string `yaml:"anthropic_api_key" mapstructure:"anthropic_api_key"`
	Model        string `yaml:"model" mapstructure:"model"`
}

// OllamaConfig holds Ollama API settings.
type OllamaConfig struct {
	BaseURL     string  `yaml:"base_url" mapstructure:"base_url"`
	VisionModel string  `yaml:"vision_model" mapstructure:"vision_model"`
	TextModel   string  `yaml:"text_model" mapstructure:"text_model"`
	TimeoutSecs int     `yaml:"timeout_secs" mapstructure:"timeout_secs"`
	RatePerSec  float64 `yaml:"rate_per_sec" mapstructure:"rate_per_sec"`
}

// GeminiConfig holds Gemini image-editing API settings.
type GeminiConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	Model       string `yaml:"model" mapstructure:"model"`
	TimeoutSecs int    `yaml:"timeout_secs" mapstructure:"timeout_secs"`
}

// HistoryConfig configures the run history database.
type HistoryConfig struct {
	Path    string `yaml:"path" mapstructure:"path"`
	Enabled bool   `yaml:"enabled" mapstructure:"enabled"`
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

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("SCAN3DATA")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("filter.dark_threshold", 128)
	v.SetDefault("filter.run_divisor", 3)
	v.SetDefault("pipeline.concurrency", 4)
	v.SetDefault("pipeline.extract_timeout_secs", 60)
	v.SetDefault("pipeline.correct_timeout_secs", 120)
	v.SetDefault("ocr.provider", "tesseract")
	v.SetDefault("ocr.language", "eng")
	v.SetDefault("ocr.tesseract_path", "tesseract")
	v.SetDefault("vision.provider", "ollama")
	v.SetDefault("vision.model", "claude-haiku-4-5-20251001")
	v.SetDefault("ollama.base_url", "http://localhost:11434")
	v.SetDefault("ollama.vision_model", "qwen2.5vl:7b")
	v.SetDefault("ollama.text_model", "qwen2.5:3b")
	v.SetDefault("ollama.timeout_secs", 120)
	v.SetDefault("ollama.rate_per_sec", 1.0)
	v.SetDefault("gemini.model", "gemini-2.5-flash-image")
	v.SetDefault("gemini.timeout_secs", 120)
	v.SetDefault("history.path", "scan3data.db")
	v.SetDefault("history.enabled", true)

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
