package config

import (
	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"go.uber.org/dig"
)

// Config represents the gateway configuration.
type Config struct {
	Server    ServerConfig
	CORS      CORSConfig
	Gateway   GatewayConfig
	Image     ImageConfig
	Replicate ReplicateConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
	Tool      ToolConfig
}

// ServerConfig contains HTTP server settings.
type ServerConfig struct {
	Port         int `env:"SERVER_PORT"          envDefault:"8080"`
	ReadTimeout  int `env:"SERVER_READ_TIMEOUT"  envDefault:"30"`
	WriteTimeout int `env:"SERVER_WRITE_TIMEOUT" envDefault:"300"`
}

// CORSConfig contains CORS policy settings.
type CORSConfig struct {
	AllowedOrigins   []string `env:"CORS_ALLOWED_ORIGINS"   envSeparator:"," envDefault:"*"`
	AllowedMethods   []string `env:"CORS_ALLOWED_METHODS"   envSeparator:"," envDefault:"GET,POST,OPTIONS"`
	AllowedHeaders   []string `env:"CORS_ALLOWED_HEADERS"   envSeparator:"," envDefault:"Content-Type,Authorization"`
	AllowCredentials bool     `env:"CORS_ALLOW_CREDENTIALS"                  envDefault:"true"`
	MaxAge           int      `env:"CORS_MAX_AGE"                            envDefault:"86400"`
}

// GatewayConfig contains the chat gateway endpoints and credentials.
type GatewayConfig struct {
	PrimaryAPIKey  string `env:"GATEWAY_PRIMARY_API_KEY"`
	PrimaryBaseURL string `env:"GATEWAY_PRIMARY_BASE_URL" envDefault:"https://gateway.pollinations.ai/v1"`
	LegacyAPIKey   string `env:"GATEWAY_LEGACY_API_KEY"`
	LegacyBaseURL  string `env:"GATEWAY_LEGACY_BASE_URL"  envDefault:"https://legacy.pollinations.ai/v1"`
	AttemptTimeout int    `env:"GATEWAY_ATTEMPT_TIMEOUT"  envDefault:"60"`
	HeaderTimeout  int    `env:"GATEWAY_HEADER_TIMEOUT"   envDefault:"30"`
}

// ImageConfig contains the image generation endpoint settings.
type ImageConfig struct {
	BaseURL string `env:"IMAGE_BASE_URL" envDefault:"https://image.pollinations.ai"`
	Timeout int    `env:"IMAGE_TIMEOUT"  envDefault:"120"`
}

// ReplicateConfig contains the prediction service settings.
type ReplicateConfig struct {
	APIToken string `env:"REPLICATE_API_TOKEN"`
	BaseURL  string `env:"REPLICATE_BASE_URL" envDefault:"https://api.replicate.com/v1"`
	Timeout  int    `env:"REPLICATE_TIMEOUT"  envDefault:"30"`
}

// CacheConfig contains the media result cache settings.
type CacheConfig struct {
	Enabled       bool   `env:"CACHE_ENABLED"        envDefault:"false"`
	RedisAddr     string `env:"CACHE_REDIS_ADDR"     envDefault:"localhost:6379"`
	RedisPassword string `env:"CACHE_REDIS_PASSWORD"`
	RedisDB       int    `env:"CACHE_REDIS_DB"       envDefault:"0"`
	TTLHours      int    `env:"CACHE_TTL_HOURS"      envDefault:"24"`
}

// RateLimitConfig contains request rate limiting settings.
type RateLimitConfig struct {
	RequestsPerSecond float64 `env:"RATE_LIMIT_RPS"   envDefault:"10"`
	Burst             int     `env:"RATE_LIMIT_BURST" envDefault:"20"`
}

// ToolConfig contains the shared tool password for the prediction endpoint.
type ToolConfig struct {
	Password string `env:"TOOL_PASSWORD"`
}

// DepConfig is used for dependency injection with dig.
type DepConfig struct {
	dig.Out
	*ServerConfig
	*CORSConfig
	*GatewayConfig
	*ImageConfig
	*ReplicateConfig
	*CacheConfig
	*RateLimitConfig
	*ToolConfig
}

// Load loads environment files and parses configuration.
func Load() *Config {
	for _, file := range []string{".env"} {
		_ = godotenv.Load(file)
	}

	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		panic(err)
	}

	return &cfg
}

// ParseDependenciesConfig returns pointers to sub-configs for dependency injection.
func ParseDependenciesConfig(cfg *Config) DepConfig {
	return DepConfig{
		dig.Out{},
		&cfg.Server,
		&cfg.CORS,
		&cfg.Gateway,
		&cfg.Image,
		&cfg.Replicate,
		&cfg.Cache,
		&cfg.RateLimit,
		&cfg.Tool,
	}
}
