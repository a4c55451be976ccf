package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// LLM provider names accepted in LLM_PROVIDER.
const (
	LLMProviderNone   = "none"
	LLMProviderOpenAI = "openai"
	LLMProviderGemini = "gemini"
)

const minJWTSecretLen = 16

type Config struct {
	Addr      string
	DBPath    string
	LogLevel  string
	LogFormat string

	JWTSecret     string
	TokenTTLHours int

	Timezone            string
	DefaultDailyGoal    int
	StreakWindowDays    int
	RecentAttemptsLimit int

	CORSOrigin string

	LLMProvider      string
	OpenAIAPIKey     string
	OpenAIModel      string
	OpenAIBaseURL    string
	GeminiAPIKey     string
	GeminiModel      string
	LLMMaxRetries    int
	LLMRatePerSecond int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                envOr("ADDR", ":8080"),
		DBPath:              envOr("DB_PATH", "file:lingoflash.db"),
		LogLevel:            envOr("LOG_LEVEL", "INFO"),
		LogFormat:           envOr("LOG_FORMAT", "text"),
		JWTSecret:           os.Getenv("JWT_SECRET"),
		TokenTTLHours:       envIntOr("TOKEN_TTL_HOURS", 168),
		Timezone:            envOr("TIMEZONE", "Europe/Warsaw"),
		DefaultDailyGoal:    envIntOr("DEFAULT_DAILY_GOAL", 10),
		StreakWindowDays:    envIntOr("STREAK_WINDOW_DAYS", 365),
		RecentAttemptsLimit: envIntOr("RECENT_ATTEMPTS_LIMIT", 10),
		CORSOrigin:          envOr("CORS_ORIGIN", "http://localhost:5173"),
		LLMProvider:         strings.ToLower(envOr("LLM_PROVIDER", LLMProviderNone)),
		OpenAIAPIKey:        os.Getenv("OPENAI_API_KEY"),
		OpenAIModel:         envOr("OPENAI_MODEL", "gpt-4o-mini"),
		OpenAIBaseURL:       envOr("OPENAI_BASE_URL", "https://api.openai.com"),
		GeminiAPIKey:        os.Getenv("GEMINI_API_KEY"),
		GeminiModel:         envOr("GEMINI_MODEL", "gemini-1.5-flash"),
		LLMMaxRetries:       envIntOr("LLM_MAX_RETRIES", 3),
		LLMRatePerSecond:    envIntOr("LLM_RATE_PER_SECOND", 2),
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "ADDR cannot be empty")
	}
	if c.DBPath == "" {
		problems = append(problems, "DB_PATH cannot be empty")
	}
	switch strings.ToUpper(c.LogLevel) {
	case "DEBUG", "INFO", "WARN", "WARNING", "ERROR":
	default:
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("LOG_FORMAT %q must be text or json", c.LogFormat))
	}

	if len(c.JWTSecret) < minJWTSecretLen {
		problems = append(problems, fmt.Sprintf("JWT_SECRET must be at least %d characters", minJWTSecretLen))
	}
	if c.TokenTTLHours < 1 {
		problems = append(problems, "TOKEN_TTL_HOURS must be at least 1")
	}

	if _, err := time.LoadLocation(c.Timezone); err != nil || c.Timezone == "" {
		problems = append(problems, fmt.Sprintf("TIMEZONE %q cannot be loaded", c.Timezone))
	}
	if c.DefaultDailyGoal < 1 || c.DefaultDailyGoal > 100 {
		problems = append(problems, "DEFAULT_DAILY_GOAL must be between 1 and 100")
	}
	if c.StreakWindowDays < 7 {
		problems = append(problems, "STREAK_WINDOW_DAYS must be at least 7")
	}
	if c.RecentAttemptsLimit < 1 {
		problems = append(problems, "RECENT_ATTEMPTS_LIMIT must be at least 1")
	}

	switch c.LLMProvider {
	case LLMProviderNone:
	case LLMProviderOpenAI:
		if c.OpenAIAPIKey == "" {
			problems = append(problems, "OPENAI_API_KEY is required when LLM_PROVIDER=openai")
		}
	case LLMProviderGemini:
		if c.GeminiAPIKey == "" {
			problems = append(problems, "GEMINI_API_KEY is required when LLM_PROVIDER=gemini")
		}
	default:
		problems = append(problems, fmt.Sprintf("LLM_PROVIDER %q must be none, openai or gemini", c.LLMProvider))
	}
	if c.LLMMaxRetries < 1 {
		problems = append(problems, "LLM_MAX_RETRIES must be at least 1")
	}
	if c.LLMRatePerSecond < 1 {
		problems = append(problems, "LLM_RATE_PER_SECOND must be at least 1")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
}

// Location returns the timezone used for day keys. Call Validate first.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// TokenTTL is the lifetime of issued bearer tokens.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.TokenTTLHours) * time.Hour
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		log.Printf("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
