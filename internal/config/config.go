package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                string
	DBPath              string
	LogLevel            string
	RedisAddr           string
	ImageDir            string
	SessionQuestions    int
	SessionTTLMinutes   int
	ImagePoolSize       int
	LeaderboardPageSize int
	MinSubmitAttempts   int
	CacheWorkerCount    int
	CacheQueueSize      int
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                envOr("ADDR", ":8080"),
		DBPath:              envOr("DB_PATH", "file:sweepquiz.db"),
		LogLevel:            envOr("LOG_LEVEL", "INFO"),
		RedisAddr:           envOr("REDIS_ADDR", ""),
		ImageDir:            envOr("IMAGE_DIR", "web/SweepImages"),
		SessionQuestions:    envIntOr("SESSION_QUESTIONS", 10),
		SessionTTLMinutes:   envIntOr("SESSION_TTL_MINUTES", 30),
		ImagePoolSize:       envIntOr("IMAGE_POOL_SIZE", 5),
		LeaderboardPageSize: envIntOr("LEADERBOARD_PAGE_SIZE", 10),
		MinSubmitAttempts:   envIntOr("MIN_SUBMIT_ATTEMPTS", 3),
		CacheWorkerCount:    envIntOr("CACHE_WORKER_COUNT", 1),
		CacheQueueSize:      envIntOr("CACHE_QUEUE_SIZE", 16),
	}
}

// Validate checks that the configuration is usable, collecting every
// violation into a single error.
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
		problems = append(problems, fmt.Sprintf("LOG_LEVEL %q is not a valid level", c.LogLevel))
	}
	if c.SessionQuestions <= 0 {
		problems = append(problems, "SESSION_QUESTIONS must be positive")
	}
	if c.SessionTTLMinutes <= 0 {
		problems = append(problems, "SESSION_TTL_MINUTES must be positive")
	}
	if c.ImagePoolSize <= 0 {
		problems = append(problems, "IMAGE_POOL_SIZE must be positive")
	}
	if c.LeaderboardPageSize <= 0 {
		problems = append(problems, "LEADERBOARD_PAGE_SIZE must be positive")
	}
	if c.MinSubmitAttempts < 1 {
		problems = append(problems, "MIN_SUBMIT_ATTEMPTS must be at least 1")
	}
	if c.CacheWorkerCount <= 0 {
		problems = append(problems, "CACHE_WORKER_COUNT must be positive")
	}
	if c.CacheQueueSize <= 0 {
		problems = append(problems, "CACHE_QUEUE_SIZE must be positive")
	}

	if len(problems) > 0 {
		return fmt.Errorf("invalid configuration: %s", strings.Join(problems, "; "))
	}
	return nil
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
