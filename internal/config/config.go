package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port          string
	Env           string
	LogLevel      string
	PublicBaseURL string

	// Generation collaborator
	LLMProvider         string
	OpenAIAPIKey        string
	GeminiAPIKey        string
	GenerationModel     string
	GenerationMaxTokens int
	GenerationTimeout   time.Duration

	// Webhook authentication
	WebhookSecret           string
	WebhookRequireSignature bool

	// Persistence
	StoreBackend string
	SiteTTL      time.Duration
	RedisAddr    string
	RedisPass    string
	RedisTLS     bool
	DatabaseURL  string
	SitesTable   string

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "8080"),
		Env:           getEnv("ENV", "development"),
		LogLevel:      getEnv("LOG_LEVEL", "info"),
		PublicBaseURL: getEnv("PUBLIC_BASE_URL", ""),

		LLMProvider:         strings.ToLower(strings.TrimSpace(getEnv("LLM_PROVIDER", "openai"))),
		OpenAIAPIKey:        getEnv("OPENAI_API_KEY", ""),
		GeminiAPIKey:        getEnv("GEMINI_API_KEY", ""),
		GenerationModel:     getEnv("GENERATION_MODEL", ""),
		GenerationMaxTokens: getEnvAsInt("GENERATION_MAX_TOKENS", 16000),
		GenerationTimeout:   getEnvAsDuration("GENERATION_TIMEOUT", 60*time.Second),

		WebhookSecret:           getEnv("WEBHOOK_SECRET", ""),
		WebhookRequireSignature: getEnvAsBool("WEBHOOK_REQUIRE_SIGNATURE", false),

		StoreBackend: strings.ToLower(strings.TrimSpace(getEnv("STORE_BACKEND", "auto"))),
		SiteTTL:      getEnvAsDuration("SITE_TTL", 7*24*time.Hour),
		RedisAddr:    getEnv("REDIS_ADDR", ""),
		RedisPass:    getEnv("REDIS_PASSWORD", ""),
		RedisTLS:     getEnvAsBool("REDIS_TLS", false),
		DatabaseURL:  getEnv("DATABASE_URL", ""),
		SitesTable:   getEnv("SITES_TABLE", "generated_sites"),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),
	}
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvAsInt retrieves an environment variable as an integer or returns a default value
func getEnvAsInt(key string, defaultValue int) int {
	valueStr := getEnv(key, "")
	if value, err := strconv.Atoi(valueStr); err == nil {
		return value
	}
	return defaultValue
}

// getEnvAsBool retrieves an environment variable as a boolean or returns a default value
func getEnvAsBool(key string, defaultValue bool) bool {
	valueStr := getEnv(key, "")
	if value, err := strconv.ParseBool(valueStr); err == nil {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	if value, err := time.ParseDuration(valueStr); err == nil {
		return value
	}
	return defaultValue
}
