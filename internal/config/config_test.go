package config_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/lingoflash/internal/config"
)

func validConfig() config.Config {
	return config.Config{
		Addr:                ":8080",
		DBPath:              "test.db",
		LogLevel:            "INFO",
		LogFormat:           "text",
		JWTSecret:           "0123456789abcdef",
		TokenTTLHours:       168,
		Timezone:            "Europe/Warsaw",
		DefaultDailyGoal:    10,
		StreakWindowDays:    365,
		RecentAttemptsLimit: 10,
		LLMProvider:         config.LLMProviderNone,
		LLMMaxRetries:       3,
		LLMRatePerSecond:    2,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	cfg := validConfig()

	err := cfg.Validate()
	assert.NoError(t, err)
}

func TestValidate_EmptyAddr(t *testing.T) {
	cfg := validConfig()
	cfg.Addr = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "ADDR cannot be empty")
}

func TestValidate_EmptyDBPath(t *testing.T) {
	cfg := validConfig()
	cfg.DBPath = ""

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "DB_PATH cannot be empty")
}

func TestValidate_JWTSecret(t *testing.T) {
	tests := []struct {
		name    string
		secret  string
		wantErr bool
	}{
		{name: "missing", secret: "", wantErr: true},
		{name: "too short", secret: "short", wantErr: true},
		{name: "minimum length", secret: "0123456789abcdef", wantErr: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.JWTSecret = tt.secret

			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "JWT_SECRET")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidate_InvalidLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
	}{
		{
			name:  "invalid level",
			level: "INVALID",
		},
		{
			name:  "empty level",
			level: "",
		},
		{
			name:  "lowercase valid level",
			level: "debug",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = tt.level

			err := cfg.Validate()
			if tt.level == "debug" {
				// Lowercase should be accepted (converted to uppercase)
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "LOG_LEVEL")
			}
		})
	}
}

func TestValidate_Timezone(t *testing.T) {
	cfg := validConfig()
	cfg.Timezone = "Mars/Olympus_Mons"

	err := cfg.Validate()
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "TIMEZONE")
}

func TestValidate_DailyGoalAndWindow(t *testing.T) {
	tests := []struct {
		name          string
		mutate        func(*config.Config)
		expectedError string
	}{
		{
			name:          "zero daily goal",
			mutate:        func(c *config.Config) { c.DefaultDailyGoal = 0 },
			expectedError: "DEFAULT_DAILY_GOAL",
		},
		{
			name:          "daily goal too high",
			mutate:        func(c *config.Config) { c.DefaultDailyGoal = 101 },
			expectedError: "DEFAULT_DAILY_GOAL",
		},
		{
			name:          "streak window shorter than a week",
			mutate:        func(c *config.Config) { c.StreakWindowDays = 6 },
			expectedError: "STREAK_WINDOW_DAYS",
		},
		{
			name:          "no recent attempts",
			mutate:        func(c *config.Config) { c.RecentAttemptsLimit = 0 },
			expectedError: "RECENT_ATTEMPTS_LIMIT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestValidate_LLMProvider(t *testing.T) {
	tests := []struct {
		name          string
		provider      string
		openAIKey     string
		geminiKey     string
		expectedError string
	}{
		{name: "openai without key", provider: "openai", expectedError: "OPENAI_API_KEY"},
		{name: "gemini without key", provider: "gemini", expectedError: "GEMINI_API_KEY"},
		{name: "unknown provider", provider: "cohere", expectedError: "LLM_PROVIDER"},
		{name: "openai with key", provider: "openai", openAIKey: "sk-test"},
		{name: "gemini with key", provider: "gemini", geminiKey: "g-test"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.LLMProvider = tt.provider
			cfg.OpenAIAPIKey = tt.openAIKey
			cfg.GeminiAPIKey = tt.geminiKey

			err := cfg.Validate()
			if tt.expectedError == "" {
				assert.NoError(t, err)
				return
			}
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expectedError)
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{
		LogLevel:    "INVALID",
		LogFormat:   "xml",
		Timezone:    "Nowhere/Special",
		LLMProvider: "none",
	}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "LOG_LEVEL")
	assert.Contains(t, errStr, "LOG_FORMAT")
	assert.Contains(t, errStr, "JWT_SECRET")
	assert.Contains(t, errStr, "TIMEZONE")
	assert.Contains(t, errStr, "DEFAULT_DAILY_GOAL")
	assert.Contains(t, errStr, "STREAK_WINDOW_DAYS")
	assert.Contains(t, errStr, "LLM_MAX_RETRIES")
	assert.Contains(t, errStr, "LLM_RATE_PER_SECOND")
}

func TestLocationAndTTL(t *testing.T) {
	cfg := validConfig()

	assert.Equal(t, "Europe/Warsaw", cfg.Location().String())
	assert.Equal(t, 168*time.Hour, cfg.TokenTTL())

	cfg.Timezone = "Nowhere/Special"
	assert.Equal(t, time.UTC, cfg.Location())
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("DEFAULT_DAILY_GOAL", "not-a-number")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, config.LLMProviderOpenAI, cfg.LLMProvider)
	assert.Equal(t, 10, cfg.DefaultDailyGoal)
}
