package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	cfg := Load()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, "file:flashdeck.db", cfg.DBPath)
	assert.Equal(t, "INFO", cfg.LogLevel)
	assert.Equal(t, 5, cfg.MaxDecksPerUser)
	assert.Equal(t, 1800, cfg.BreakIntervalSeconds)
	assert.Equal(t, 4*3600, cfg.SessionIdleSeconds)
	assert.Equal(t, 2, cfg.PersistWorkerCount)
	assert.Equal(t, 128, cfg.PersistQueueSize)
	assert.Equal(t, 3, cfg.PersistMaxRetries)
	assert.False(t, cfg.SpeechEnabled)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("ADDR", ":9999")
	t.Setenv("MAX_DECKS_PER_USER", "10")
	t.Setenv("BREAK_INTERVAL_SECONDS", "600")
	t.Setenv("SPEECH_ENABLED", "true")

	cfg := Load()
	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 10, cfg.MaxDecksPerUser)
	assert.Equal(t, 600, cfg.BreakIntervalSeconds)
	assert.True(t, cfg.SpeechEnabled)
}

func TestInvalidValuesFallBackToDefaults(t *testing.T) {
	t.Setenv("MAX_DECKS_PER_USER", "not-a-number")
	t.Setenv("SPEECH_ENABLED", "maybe")

	cfg := Load()
	assert.Equal(t, 5, cfg.MaxDecksPerUser)
	assert.False(t, cfg.SpeechEnabled)
}
