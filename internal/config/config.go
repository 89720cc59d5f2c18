package config

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
)

type Config struct {
	Addr                 string
	DBPath               string
	LogLevel             string
	MaxDecksPerUser      int
	BreakIntervalSeconds int
	SessionIdleSeconds   int
	PersistWorkerCount   int
	PersistQueueSize     int
	PersistMaxRetries    int
	SpeechEnabled        bool
}

// Load reads configuration from a .env file (if present) and environment
// variables, applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                 envOr("ADDR", ":8080"),
		DBPath:               envOr("DB_PATH", "file:flashdeck.db"),
		LogLevel:             envOr("LOG_LEVEL", "INFO"),
		MaxDecksPerUser:      envIntOr("MAX_DECKS_PER_USER", 5),
		BreakIntervalSeconds: envIntOr("BREAK_INTERVAL_SECONDS", 1800),
		SessionIdleSeconds:   envIntOr("SESSION_IDLE_SECONDS", 4*3600),
		PersistWorkerCount:   envIntOr("PERSIST_WORKER_COUNT", 2),
		PersistQueueSize:     envIntOr("PERSIST_QUEUE_SIZE", 128),
		PersistMaxRetries:    envIntOr("PERSIST_MAX_RETRIES", 3),
		SpeechEnabled:        envBoolOr("SPEECH_ENABLED", false),
	}
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envBoolOr(key string, def bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
		log.Printf("invalid value for %s=%q, using default %v", key, v, def)
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
