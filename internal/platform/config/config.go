package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config captures everything cmd/server needs to wire the process.
type Config struct {
	Addr string

	PostgresDSN string

	Redis RedisConfig

	Kafka KafkaConfig

	// JWTSigningKey verifies identity-provider bearer tokens.
	JWTSigningKey string

	// RemoteWriteTimeout bounds a single best-effort remote persistence
	// attempt. Expiry is treated as a swallowed write failure.
	RemoteWriteTimeout time.Duration

	// PushInterval is how often the realtime hub re-reads leaderboard and
	// feed state to push to subscribed sockets.
	PushInterval time.Duration

	// LeaderboardSize and FeedSize cap the ordered queries.
	LeaderboardSize int
	FeedSize        int
}

// RedisConfig tunes the local-cache client.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig locates the feed event broker.
type KafkaConfig struct {
	Brokers   []string
	FeedTopic string
	Group     string
}

// FromEnv builds a Config from environment variables so main stays lean.
func FromEnv() Config {
	cfg := Config{
		Addr:               envOr("ETHOS_ADDR", ":8080"),
		PostgresDSN:        os.Getenv("ETHOS_POSTGRES_DSN"),
		JWTSigningKey:      os.Getenv("ETHOS_JWT_SIGNING_KEY"),
		RemoteWriteTimeout: envDuration("ETHOS_REMOTE_WRITE_TIMEOUT", 5*time.Second),
		PushInterval:       envDuration("ETHOS_PUSH_INTERVAL", 3*time.Second),
		LeaderboardSize:    envInt("ETHOS_LEADERBOARD_SIZE", 50),
		FeedSize:           envInt("ETHOS_FEED_SIZE", 20),
		Redis: RedisConfig{
			URL:          os.Getenv("ETHOS_REDIS_URL"),
			PoolSize:     envInt("ETHOS_REDIS_POOL_SIZE", 10),
			MinIdleConns: envInt("ETHOS_REDIS_MIN_IDLE", 2),
			DialTimeout:  envDuration("ETHOS_REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  envDuration("ETHOS_REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: envDuration("ETHOS_REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:   splitList(os.Getenv("ETHOS_KAFKA_BROKERS")),
			FeedTopic: envOr("ETHOS_KAFKA_FEED_TOPIC", "ethos.feed"),
			Group:     envOr("ETHOS_KAFKA_GROUP", "ethos-feed-materializer"),
		},
	}
	if cfg.JWTSigningKey == "" {
		// Development default - must be overridden in production.
		cfg.JWTSigningKey = "dev-secret-key-change-in-production"
	}
	return cfg
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func envDuration(key string, def time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}

func splitList(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
