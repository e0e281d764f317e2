package main

import (
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"

	"github.com/hibiken/asynq"
	redis "github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-vitrine/internal/app"
	"github.com/noah-isme/backend-vitrine/internal/config"
	"github.com/noah-isme/backend-vitrine/internal/lock"
	"github.com/noah-isme/backend-vitrine/internal/obs"
	"github.com/noah-isme/backend-vitrine/internal/payout"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := obs.NewLogger(cfg.LogFormat, cfg.LogLevel).With().Str("component", "worker").Logger()
	obs.MustRegisterDomainMetrics(envOrDefault("OBS_METRICS_NAMESPACE", "vitrine"), nil)

	concurrency := envInt("WORKER_CONCURRENCY", 10)
	srv, err := app.NewTaskServer(cfg.RedisURL, cfg.PayoutQueue, concurrency)
	if err != nil {
		logger.Fatal().Err(err).Msg("initialise task server")
	}

	redisOpts, err := redis.ParseURL(cfg.RedisURL)
	if err != nil {
		logger.Fatal().Err(err).Msg("parse redis url")
	}
	redisClient := redis.NewClient(redisOpts)
	defer func() {
		if err := redisClient.Close(); err != nil {
			logger.Error().Err(err).Msg("close redis")
		}
	}()

	mux := asynq.NewServeMux()
	mux.Handle(payout.TypeLedgerDispatch, &payout.Processor{
		Logger: logger,
		Locks:  lock.Locker{R: redisClient},
	})

	if err := srv.Start(mux); err != nil {
		logger.Fatal().Err(err).Msg("start worker")
	}
	logger.Info().Str("queue", cfg.PayoutQueue).Int("concurrency", concurrency).Msg("worker started")

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	srv.Shutdown()
	logger.Info().Msg("worker shutdown complete")
}

func envOrDefault(key, fallback string) string {
	if val, ok := os.LookupEnv(key); ok {
		if trimmed := strings.TrimSpace(val); trimmed != "" {
			return trimmed
		}
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if val, ok := os.LookupEnv(key); ok {
		if parsed, err := strconv.Atoi(strings.TrimSpace(val)); err == nil {
			return parsed
		}
	}
	return fallback
}
