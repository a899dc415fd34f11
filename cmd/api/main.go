// cmd/api/main.go
package main

import (
	"net/http"
	"os"

	scs "github.com/alexedwards/scs/v2"
	"github.com/hibiken/asynq"

	"github.com/aniwatch/aniwatch/internal/config"
	"github.com/aniwatch/aniwatch/internal/http/routes"
	"github.com/aniwatch/aniwatch/internal/providers"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}

	// Logger
	logger := cfg.Logger(os.Stdout)
	if err := cfg.Validate(); err != nil {
		logger.Fatal().Err(err).Msg("invalid configuration")
	}

	// Providers
	registry, closeProviders, err := providers.Setup(cfg, logger)
	if err != nil {
		logger.Fatal().Err(err).Msg("provider setup failed")
	}
	defer func() { _ = closeProviders() }()

	// Sessions
	sess := scs.New()
	sess.Lifetime = cfg.SessionLifetime
	sess.Cookie.HttpOnly = true
	sess.Cookie.SameSite = http.SameSiteLaxMode
	sess.Cookie.Secure = false

	// Task queue
	queue := asynq.NewClient(asynq.RedisClientOpt{Addr: cfg.RedisAddr})
	defer func() {
		if err := queue.Close(); err != nil {
			logger.Error().Err(err).Msg("close asynq client")
		}
	}()

	// Router / server
	s := routes.New(routes.ServerOptions{
		Sess:     sess,
		Registry: registry,
		Log:      logger,
		Language: cfg.LanguageTag(),
		Enqueuer: queue,
	})

	logger.Info().Str("port", cfg.Port).Str("provider", registry.Default()).Msg("starting api")
	srv := &http.Server{Addr: ":" + cfg.Port, Handler: s.Router}
	if err := srv.ListenAndServe(); err != nil {
		logger.Error().Err(err).Msg("server stopped")
	}
}
