package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// RateLimitConfig indicates how many requests are allowed within a given interval.
type RateLimitConfig struct {
	Requests int
	Interval time.Duration
}

// LLMConfig selects and configures the text completion provider.
type LLMConfig struct {
	Provider    string
	OpenAIKey   string
	OpenAIModel string
	OpenAIURL   string
	GeminiKey   string
	GeminiModel string
}

// Config aggregates application-wide configuration values.
type Config struct {
	Port        string
	DatabaseURL string
	RedisURL    string
	LogLevel    string

	JWTSecret string
	JWTIssuer string
	TokenTTL  time.Duration

	PDLAPIKey     string
	PDLBaseURL    string
	HunterAPIKey  string
	HunterBaseURL string
	ProviderRPS   float64
	LLM           LLMConfig

	RateLimitOutreach     RateLimitConfig
	SmallCompanyThreshold int
	DraftUnverified       bool
}

// Load reads configuration from environment variables and applies sane defaults.
func Load() (*Config, error) {
	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisURL:      os.Getenv("REDIS_URL"),
		LogLevel:      strings.ToLower(getEnv("LOG_LEVEL", "info")),
		JWTSecret:     getEnv("JWT_SECRET", "dev-secret"),
		JWTIssuer:     getEnv("JWT_ISSUER", "outreach-api"),
		TokenTTL:      parseDuration(getEnv("JWT_TTL", "24h")),
		PDLAPIKey:     os.Getenv("PDL_API_KEY"),
		PDLBaseURL:    os.Getenv("PDL_BASE_URL"),
		HunterAPIKey:  os.Getenv("HUNTER_API_KEY"),
		HunterBaseURL: os.Getenv("HUNTER_BASE_URL"),
		LLM: LLMConfig{
			Provider:    strings.ToLower(getEnv("LLM_PROVIDER", "openai")),
			OpenAIKey:   os.Getenv("OPENAI_API_KEY"),
			OpenAIModel: getEnv("OPENAI_MODEL", "gpt-4o-mini"),
			OpenAIURL:   os.Getenv("OPENAI_BASE_URL"),
			GeminiKey:   os.Getenv("GEMINI_API_KEY"),
			GeminiModel: getEnv("GEMINI_MODEL", "gemini-2.5-flash-lite"),
		},
		DraftUnverified: getEnvBool("DRAFT_UNVERIFIED", true),
	}

	rl, err := parseRateLimit(getEnv("RATE_LIMIT_OUTREACH", "30/min"))
	if err != nil {
		return nil, fmt.Errorf("invalid RATE_LIMIT_OUTREACH value: %w", err)
	}
	cfg.RateLimitOutreach = rl

	rps, err := strconv.ParseFloat(getEnv("PROVIDER_RPS", "0"), 64)
	if err != nil || rps < 0 {
		return nil, fmt.Errorf("invalid PROVIDER_RPS value: %q", os.Getenv("PROVIDER_RPS"))
	}
	cfg.ProviderRPS = rps

	threshold, err := getEnvInt("SMALL_COMPANY_THRESHOLD", 5)
	if err != nil || threshold <= 0 {
		return nil, fmt.Errorf("invalid SMALL_COMPANY_THRESHOLD value: %q", os.Getenv("SMALL_COMPANY_THRESHOLD"))
	}
	cfg.SmallCompanyThreshold = threshold

	switch cfg.LLM.Provider {
	case "openai", "gemini":
	default:
		return nil, fmt.Errorf("unsupported LLM_PROVIDER: %s", cfg.LLM.Provider)
	}

	return cfg, nil
}

func parseRateLimit(value string) (RateLimitConfig, error) {
	parts := strings.Split(value, "/")
	if len(parts) != 2 {
		return RateLimitConfig{}, fmt.Errorf("expected format <requests>/<interval>, got %q", value)
	}

	requests, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || requests <= 0 {
		return RateLimitConfig{}, fmt.Errorf("invalid request count: %v", parts[0])
	}

	unit := strings.ToLower(strings.TrimSpace(parts[1]))
	var interval time.Duration
	switch unit {
	case "s", "sec", "second", "seconds":
		interval = time.Second
	case "m", "min", "minute", "minutes":
		interval = time.Minute
	case "h", "hr", "hour", "hours":
		interval = time.Hour
	default:
		return RateLimitConfig{}, fmt.Errorf("unsupported interval unit: %s", unit)
	}

	return RateLimitConfig{Requests: requests, Interval: interval}, nil
}

func getEnv(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return fallback
}

func getEnvInt(key string, fallback int) (int, error) {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback, nil
	}
	return strconv.Atoi(strings.TrimSpace(raw))
}

func getEnvBool(key string, fallback bool) bool {
	raw := getEnv(key, "")
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(strings.TrimSpace(raw))
	if err != nil {
		return fallback
	}
	return v
}

func parseDuration(input string) time.Duration {
	d, err := time.ParseDuration(input)
	if err != nil {
		return 24 * time.Hour
	}
	return d
}
