package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestFromEnvDefaults(t *testing.T) {
	cfg := FromEnv()

	assert.Equal(t, ":8080", cfg.Addr)
	assert.Equal(t, 5*time.Second, cfg.RemoteWriteTimeout)
	assert.Equal(t, 50, cfg.LeaderboardSize)
	assert.Equal(t, 20, cfg.FeedSize)
	assert.Equal(t, "ethos.feed", cfg.Kafka.FeedTopic)
	assert.NotEmpty(t, cfg.JWTSigningKey)
}

func TestFromEnvOverrides(t *testing.T) {
	t.Setenv("ETHOS_ADDR", ":9999")
	t.Setenv("ETHOS_REMOTE_WRITE_TIMEOUT", "750ms")
	t.Setenv("ETHOS_LEADERBOARD_SIZE", "10")
	t.Setenv("ETHOS_KAFKA_BROKERS", "k1:9092, k2:9092")

	cfg := FromEnv()

	assert.Equal(t, ":9999", cfg.Addr)
	assert.Equal(t, 750*time.Millisecond, cfg.RemoteWriteTimeout)
	assert.Equal(t, 10, cfg.LeaderboardSize)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
}

func TestFromEnvIgnoresGarbageNumbers(t *testing.T) {
	t.Setenv("ETHOS_LEADERBOARD_SIZE", "not-a-number")
	t.Setenv("ETHOS_PUSH_INTERVAL", "soon")

	cfg := FromEnv()

	assert.Equal(t, 50, cfg.LeaderboardSize)
	assert.Equal(t, 3*time.Second, cfg.PushInterval)
}
