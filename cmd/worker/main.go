package main

import (
	"os"

	"github.com/hibiken/asynq"

	"github.com/aniwatch/aniwatch/internal/config"
	"github.com/aniwatch/aniwatch/internal/jobs"
	"github.com/aniwatch/aniwatch/internal/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	logger := cfg.Logger(os.Stdout)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}
	if cfg.CacheBackend != config.BackendRedis {
		logger.Warn().Str("backend", cfg.CacheBackend).Msg("worker cache is not shared with the api")
	}

	registry, closeProviders, err := providers.Setup(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("provider setup failed")
	}
	defer func() { _ = closeProviders() }()

	srv := asynq.NewServer(asynq.RedisClientOpt{Addr: cfg.RedisAddr}, asynq.Config{
		Concurrency:    4,
		StrictPriority: false,
		Queues: map[string]int{
			jobs.QueueWarm: 5,
			"default":      1,
		},
		Logger:   asynqLogger{logger},
		LogLevel: asynq.InfoLevel,
	})
	mux := asynq.NewServeMux()
	mux.Handle(jobs.TaskWarmCatalog, &jobs.WarmHandler{Registry: registry, Log: logger})

	logger.Info().Str("redis", cfg.RedisAddr).Msg("worker running")
	if err := srv.Run(mux); err != nil {
		logger.Fatal().Err(err).Msg("worker stopped")
	}
}
