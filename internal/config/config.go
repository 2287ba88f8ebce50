package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds application configuration
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Policy generation
	GenerateProvider      string
	OpenAIAPIKey          string
	OpenAIModel           string
	OpenAIBaseURL         string
	MaxChars              int
	BedrockModelID        string
	GeminiAPIKey          string
	GeminiModel           string
	GenerateRatePerMinute int
	UpstreamTimeout       time.Duration

	// Lead notification
	NotifyProvider     string
	ResendAPIKey       string
	ResendBaseURL      string
	SendGridAPIKey     string
	LeadNotifyTo       string
	LeadNotifyFrom     string
	LeadNotifyFromName string

	// Lead intake guards
	LeadRateLimitMax    int
	LeadRateLimitWindow time.Duration
	LeadRateLimitSweep  time.Duration
	LeadMaxBodyBytes    int64

	RedisAddr     string
	RedisPassword string
	RedisTLS      bool

	AWSRegion           string
	AWSAccessKeyID      string
	AWSSecretAccessKey  string
	AWSEndpointOverride string

	CORSAllowedOrigins []string
	StaticDir          string
	MetricsEnabled     bool
}

// Load reads configuration from environment variables
func Load() *Config {
	return &Config{
		Port:     getEnv("PORT", "8080"),
		Env:      getEnv("ENV", "development"),
		LogLevel: getEnv("LOG_LEVEL", "info"),

		GenerateProvider:      strings.ToLower(strings.TrimSpace(getEnv("GENERATE_PROVIDER", "openai"))),
		OpenAIAPIKey:          getEnv("OPENAI_API_KEY", ""),
		OpenAIModel:           getEnv("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:         strings.TrimRight(getEnv("OPENAI_BASE_URL", "https://api.openai.com/v1"), "/"),
		MaxChars:              getEnvAsInt("RELUGUARD_MAX_CHARS", 12000),
		BedrockModelID:        getEnv("BEDROCK_MODEL_ID", ""),
		GeminiAPIKey:          getEnv("GEMINI_API_KEY", ""),
		GeminiModel:           getEnv("GEMINI_MODEL", "gemini-2.5-flash"),
		GenerateRatePerMinute: getEnvAsInt("GENERATE_RATE_PER_MINUTE", 0),
		UpstreamTimeout:       getEnvAsDuration("UPSTREAM_TIMEOUT", 0),

		NotifyProvider:     strings.ToLower(strings.TrimSpace(getEnv("NOTIFY_PROVIDER", "resend"))),
		ResendAPIKey:       getEnv("RESEND_API_KEY", ""),
		ResendBaseURL:      strings.TrimRight(getEnv("RESEND_BASE_URL", "https://api.resend.com"), "/"),
		SendGridAPIKey:     getEnv("SENDGRID_API_KEY", ""),
		LeadNotifyTo:       getEnv("LEAD_NOTIFY_TO", ""),
		LeadNotifyFrom:     getEnv("LEAD_NOTIFY_FROM", "onboarding@resend.dev"),
		LeadNotifyFromName: getEnv("LEAD_NOTIFY_FROM_NAME", "ReluGuard"),

		LeadRateLimitMax:    getEnvAsInt("LEAD_RATE_LIMIT_MAX", 8),
		LeadRateLimitWindow: getEnvAsDuration("LEAD_RATE_LIMIT_WINDOW", time.Minute),
		LeadRateLimitSweep:  getEnvAsDuration("LEAD_RATE_LIMIT_SWEEP", 0),
		LeadMaxBodyBytes:    int64(getEnvAsInt("LEAD_MAX_BODY_BYTES", 20000)),

		RedisAddr:     getEnv("REDIS_ADDR", ""),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisTLS:      getEnvAsBool("REDIS_TLS", false),

		AWSRegion:           getEnv("AWS_REGION", "us-east-1"),
		AWSAccessKeyID:      getEnv("AWS_ACCESS_KEY_ID", ""),
		AWSSecretAccessKey:  getEnv("AWS_SECRET_ACCESS_KEY", ""),
		AWSEndpointOverride: getEnv("AWS_ENDPOINT_OVERRIDE", ""),

		CORSAllowedOrigins: getEnvAsList("CORS_ALLOWED_ORIGINS", []string{"*"}),
		StaticDir:          getEnv("STATIC_DIR", ""),
		MetricsEnabled:     getEnvAsBool("METRICS_ENABLED", true),
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
	if value, err := strconv.Atoi(strings.TrimSpace(valueStr)); err == nil {
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

// getEnvAsList splits a comma separated variable, dropping empty entries.
func getEnvAsList(key string, defaultValue []string) []string {
	valueStr := getEnv(key, "")
	if valueStr == "" {
		return defaultValue
	}
	var out []string
	for _, part := range strings.Split(valueStr, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	if len(out) == 0 {
		return defaultValue
	}
	return out
}
