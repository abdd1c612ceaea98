package config

import "fmt"

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"   validate:"required"`
	RabbitMQ RabbitMQConfig `mapstructure:"rabbitmq" validate:"required"`
	Redis    RedisConfig    `mapstructure:"redis"    validate:"required"`
	Pipeline PipelineConfig `mapstructure:"pipeline" validate:"required"`
	LLM      LLMConfig      `mapstructure:"llm"      validate:"required"`
}

// ServerConfig contains the HTTP boundary settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port"      validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`

	// AllowedDomains restricts submissions to a set of hostnames. Empty
	// means any reachable URL is accepted.
	AllowedDomains []string `mapstructure:"allowed_domains"`
}

// RabbitMQConfig contains broker connection settings.
type RabbitMQConfig struct {
	Host     string `mapstructure:"host"     validate:"required"`
	Port     int    `mapstructure:"port"     validate:"required,gt=0,lt=65536"`
	User     string `mapstructure:"user"     validate:"required"`
	Password string `mapstructure:"password" validate:"required"`

	// ConnectAttempts bounds startup connection retries; exhausting them
	// aborts startup.
	ConnectAttempts     int `mapstructure:"connect_attempts"      validate:"required,gt=0"`
	ConnectDelaySeconds int `mapstructure:"connect_delay_seconds" validate:"required,gt=0"`
}

// URL assembles the AMQP connection string.
func (c RabbitMQConfig) URL() string {
	return fmt.Sprintf("amqp://%s:%s@%s:%d/", c.User, c.Password, c.Host, c.Port)
}

// RedisConfig contains result cache connection settings.
type RedisConfig struct {
	Host string `mapstructure:"host" validate:"required"`
	Port int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
}

// Addr assembles the Redis address string.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// PipelineConfig contains orchestration policy settings.
type PipelineConfig struct {
	// ProcessorPrefetch and EvaluatorPrefetch limit unacked deliveries per
	// consumer; RelayPrefetch applies to the status relay.
	ProcessorPrefetch int `mapstructure:"processor_prefetch" validate:"required,gt=0"`
	EvaluatorPrefetch int `mapstructure:"evaluator_prefetch" validate:"required,gt=0"`
	RelayPrefetch     int `mapstructure:"relay_prefetch"     validate:"required,gt=0"`

	// ScoreThreshold is the minimum overall score for a result to be
	// accepted rather than sent back for reprocessing.
	ScoreThreshold float64 `mapstructure:"score_threshold" validate:"required,gte=1,lte=10"`

	// MaxRetriesURLTask bounds processing-stage retries per task.
	// Evaluation failures are terminal by policy and have no retry knob.
	MaxRetriesURLTask int `mapstructure:"max_retries_url_task" validate:"gte=0"`

	// MaxReprocessCycles bounds the sub-threshold reprocessing loop.
	// Zero keeps the loop unbounded.
	MaxReprocessCycles int `mapstructure:"max_reprocess_cycles" validate:"gte=0"`
}

// LLMConfig contains settings for the analysis and evaluation backends.
type LLMConfig struct {
	// Provider selects the backend implementation once at startup.
	Provider string `mapstructure:"provider" validate:"required,oneof=openai gemini"`

	// Model overrides the provider's default model name when non-empty.
	Model string `mapstructure:"model"`

	OpenAIAPIKey string `mapstructure:"openai_api_key"`
	GeminiAPIKey string `mapstructure:"gemini_api_key"`

	Temperature float64 `mapstructure:"temperature" validate:"gte=0,lte=2"`
	MaxTokens   int     `mapstructure:"max_tokens"  validate:"gt=0"`
}
