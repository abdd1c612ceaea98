package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// envPrefix is the prefix for environment variable overrides,
// e.g. SIFT_RABBITMQ_HOST maps to rabbitmq.host.
const envPrefix = "SIFT"

// Load configuration from environment variables and optionally a config
// file. Environment variables take precedence over values from config
// files. Returns a populated Config struct or an error if loading or
// validation fails.
func Load() (*Config, error) {
	v := viper.New()

	setDefaults(v)

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// An optional config file supplements the environment.
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := validator.New().Struct(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	if cfg.LLM.Provider == "openai" && cfg.LLM.OpenAIAPIKey == "" {
		return nil, fmt.Errorf("invalid configuration: openai_api_key is required for provider openai")
	}
	if cfg.LLM.Provider == "gemini" && cfg.LLM.GeminiAPIKey == "" {
		return nil, fmt.Errorf("invalid configuration: gemini_api_key is required for provider gemini")
	}

	return &cfg, nil
}

// setDefaults seeds viper with the defaults the pipeline was designed
// around; any of them can be overridden by the environment.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8000)
	v.SetDefault("server.log_level", "info")
	v.SetDefault("server.allowed_domains", []string{})

	v.SetDefault("rabbitmq.host", "127.0.0.1")
	v.SetDefault("rabbitmq.port", 5672)
	v.SetDefault("rabbitmq.user", "guest")
	v.SetDefault("rabbitmq.password", "guest")
	v.SetDefault("rabbitmq.connect_attempts", 5)
	v.SetDefault("rabbitmq.connect_delay_seconds", 3)

	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", 6379)

	v.SetDefault("pipeline.processor_prefetch", 1)
	v.SetDefault("pipeline.evaluator_prefetch", 1)
	v.SetDefault("pipeline.relay_prefetch", 10)
	v.SetDefault("pipeline.score_threshold", 7.0)
	v.SetDefault("pipeline.max_retries_url_task", 3)
	v.SetDefault("pipeline.max_reprocess_cycles", 0)

	v.SetDefault("llm.provider", "openai")
	// Keys without another default still need one registered so that
	// AutomaticEnv feeds them through Unmarshal.
	v.SetDefault("llm.model", "")
	v.SetDefault("llm.openai_api_key", "")
	v.SetDefault("llm.gemini_api_key", "")
	v.SetDefault("llm.temperature", 0.3)
	v.SetDefault("llm.max_tokens", 512)
}
