package config_test

import (
	"os"
	"testing"

	"github.com/garudlab/sweepquiz/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() config.Config {
	return config.Config{
		Addr:                ":8080",
		DBPath:              "test.db",
		LogLevel:            "INFO",
		SessionQuestions:    10,
		SessionTTLMinutes:   30,
		ImagePoolSize:       5,
		LeaderboardPageSize: 10,
		MinSubmitAttempts:   3,
		CacheWorkerCount:    1,
		CacheQueueSize:      16,
	}
}

func TestValidate_ValidConfig(t *testing.T) {
	assert.NoError(t, validConfig().Validate())
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

func TestValidate_InvalidLogLevel(t *testing.T) {
	tests := []struct {
		name  string
		level string
		ok    bool
	}{
		{name: "invalid level", level: "INVALID"},
		{name: "empty level", level: ""},
		{name: "lowercase valid level", level: "debug", ok: true},
		{name: "uppercase valid level", level: "WARN", ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			cfg.LogLevel = tt.level

			err := cfg.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
				assert.Contains(t, err.Error(), "LOG_LEVEL")
			}
		})
	}
}

func TestValidate_InvalidQuizSettings(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*config.Config)
		expected string
	}{
		{
			name:     "zero session questions",
			mutate:   func(c *config.Config) { c.SessionQuestions = 0 },
			expected: "SESSION_QUESTIONS",
		},
		{
			name:     "negative session TTL",
			mutate:   func(c *config.Config) { c.SessionTTLMinutes = -1 },
			expected: "SESSION_TTL_MINUTES",
		},
		{
			name:     "zero image pool",
			mutate:   func(c *config.Config) { c.ImagePoolSize = 0 },
			expected: "IMAGE_POOL_SIZE",
		},
		{
			name:     "zero page size",
			mutate:   func(c *config.Config) { c.LeaderboardPageSize = 0 },
			expected: "LEADERBOARD_PAGE_SIZE",
		},
		{
			name:     "zero minimum attempts",
			mutate:   func(c *config.Config) { c.MinSubmitAttempts = 0 },
			expected: "MIN_SUBMIT_ATTEMPTS",
		},
		{
			name:     "zero cache workers",
			mutate:   func(c *config.Config) { c.CacheWorkerCount = 0 },
			expected: "CACHE_WORKER_COUNT",
		},
		{
			name:     "zero cache queue",
			mutate:   func(c *config.Config) { c.CacheQueueSize = 0 },
			expected: "CACHE_QUEUE_SIZE",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)

			err := cfg.Validate()
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.expected)
		})
	}
}

func TestValidate_MultipleErrors(t *testing.T) {
	cfg := config.Config{}

	err := cfg.Validate()
	require.Error(t, err)

	errStr := err.Error()
	assert.Contains(t, errStr, "ADDR cannot be empty")
	assert.Contains(t, errStr, "DB_PATH cannot be empty")
	assert.Contains(t, errStr, "SESSION_QUESTIONS")
	assert.Contains(t, errStr, "LEADERBOARD_PAGE_SIZE")
}

func TestLoad_EnvironmentVariables(t *testing.T) {
	t.Setenv("ADDR", ":9090")
	t.Setenv("DB_PATH", "custom.db")
	t.Setenv("SESSION_QUESTIONS", "20")

	cfg := config.Load()

	assert.Equal(t, ":9090", cfg.Addr)
	assert.Equal(t, "custom.db", cfg.DBPath)
	assert.Equal(t, 20, cfg.SessionQuestions)
}

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{"ADDR", "DB_PATH", "SESSION_QUESTIONS", "IMAGE_POOL_SIZE", "REDIS_ADDR"} {
		require.NoError(t, os.Unsetenv(key))
	}

	cfg := config.Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 10, cfg.SessionQuestions)
	assert.Equal(t, 5, cfg.ImagePoolSize)
	assert.Empty(t, cfg.RedisAddr)
	assert.NoError(t, cfg.Validate())
}
