package main

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"ethos/internal/identity"
	"ethos/internal/persist"
	persistmetrics "ethos/internal/persist/metrics"
	"ethos/internal/platform/config"
	"ethos/internal/platform/httpserver"
	"ethos/internal/platform/kafka"
	"ethos/internal/platform/logger"
	"ethos/internal/platform/postgres"
	"ethos/internal/platform/redis"
	"ethos/internal/session"
	sessionhandler "ethos/internal/session/handler"
	sessionmetrics "ethos/internal/session/metrics"
	"ethos/internal/social"
	socialhandler "ethos/internal/social/handler"
	socialmetrics "ethos/internal/social/metrics"
	socialstore "ethos/internal/social/store"
	"ethos/internal/social/ws"
	httptransport "ethos/internal/transport/http"
	"ethos/internal/userstate/cache"
	"ethos/internal/userstate/store"
)

// main wires dependencies and owns the process lifecycle. Every backing
// service is optional: with no Postgres, Redis, or Kafka configured the
// server runs fully in memory, which is how local development works.
func main() {
	_ = godotenv.Load()

	cfg := config.FromEnv()
	log := logger.New()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	db, err := postgres.Open(ctx, cfg.PostgresDSN)
	if err != nil {
		fatal(log, "postgres connection failed", err)
	}
	var (
		remote    store.Remote     = store.NewMemory()
		feedStore socialstore.Feed = socialstore.NewMemory()
	)
	if db != nil {
		defer db.Close()
		remote = store.NewPostgres(db)
		feedStore = socialstore.NewPostgres(db)
		log.Info("remote store: postgres")
	} else {
		log.Info("remote store: in-memory")
	}

	redisClient, err := redis.New(cfg.Redis)
	if err != nil {
		fatal(log, "redis connection failed", err)
	}
	var localCache cache.Cache = cache.NewMemory()
	if redisClient != nil {
		defer redisClient.Close()
		localCache = cache.NewRedis(redisClient.Client)
		log.Info("local cache: redis")
	} else {
		log.Info("local cache: in-memory")
	}

	socialMetrics := socialmetrics.New()

	producer, err := kafka.NewProducer(cfg.Kafka)
	if err != nil {
		fatal(log, "kafka producer failed", err)
	}
	consumerClient, err := kafka.NewConsumer(cfg.Kafka)
	if err != nil {
		fatal(log, "kafka consumer failed", err)
	}

	var (
		feedPublisher session.FeedPublisher
		consumer      *social.Consumer
	)
	if producer != nil {
		if err := kafka.EnsureTopic(ctx, producer, cfg.Kafka.FeedTopic); err != nil {
			log.Warn("feed topic creation failed, relying on broker auto-create", "error", err)
		}
		publisher := social.NewKafkaPublisher(producer, cfg.Kafka.FeedTopic, log, socialMetrics)
		defer publisher.Close()
		feedPublisher = publisher
		consumer = social.NewConsumer(consumerClient, feedStore, log, socialMetrics)
		log.Info("feed pipeline: kafka", "topic", cfg.Kafka.FeedTopic, "group", cfg.Kafka.Group)
	} else {
		feedPublisher = social.NewDirectPublisher(feedStore, socialMetrics)
		log.Info("feed pipeline: direct")
	}

	gateway := persist.New(localCache, remote, log, persistmetrics.New(), cfg.RemoteWriteTimeout)
	manager := session.NewManager(remote, localCache, gateway, log, sessionmetrics.New(),
		session.WithFeedPublisher(feedPublisher))

	hub := ws.NewHub(remote, feedStore, log, socialMetrics,
		cfg.PushInterval, cfg.LeaderboardSize, cfg.FeedSize)

	validator := identity.NewJWTService(cfg.JWTSigningKey, "ethos")
	router := httptransport.NewRouter(validator, log, healthCheck(db, redisClient),
		sessionhandler.New(manager, log),
		socialhandler.New(remote, feedStore, hub, log, cfg.LeaderboardSize, cfg.FeedSize),
	)
	srv := httpserver.New(cfg.Addr, router)

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error {
		return hub.Run(groupCtx)
	})
	if consumer != nil {
		group.Go(func() error {
			return consumer.Run(groupCtx)
		})
	}
	group.Go(func() error {
		log.Info("starting ethos server", "addr", cfg.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	group.Go(func() error {
		<-groupCtx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	if err := group.Wait(); err != nil {
		log.Error("server error", "error", err)
	}

	// Flush every open session to both tiers before releasing the backends.
	closeCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	manager.Close(closeCtx)
	gateway.Close()

	log.Info("server stopped")
}

// healthCheck reports only the backends that are actually configured.
func healthCheck(db *sql.DB, redisClient *redis.Client) httptransport.HealthChecker {
	return func() map[string]string {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()

		components := map[string]string{"server": "ok"}
		if db != nil {
			components["postgres"] = statusOf(db.PingContext(ctx))
		}
		if redisClient != nil {
			components["redis"] = statusOf(redisClient.Health(ctx))
		}
		return components
	}
}

func statusOf(err error) string {
	if err != nil {
		return "unavailable"
	}
	return "ok"
}

func fatal(log *slog.Logger, msg string, err error) {
	log.Error(msg, "error", err)
	os.Exit(1)
}
