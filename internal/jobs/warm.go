package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"

	"github.com/aniwatch/aniwatch/anime"
	"github.com/aniwatch/aniwatch/transport"
)

// WarmHandler runs warm tasks through a facade so responses land in the
// provider caches.
type WarmHandler struct {
	Registry *anime.Registry
	Log      zerolog.Logger
}

// ProcessTask implements asynq.Handler. Permanent failures are wrapped with
// asynq.SkipRetry.
func (h *WarmHandler) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var p WarmPayload
	if err := json.Unmarshal(t.Payload(), &p); err != nil {
		return fmt.Errorf("bad payload: %v: %w", err, asynq.SkipRetry)
	}
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%v: %w", err, asynq.SkipRetry)
	}
	if p.Provider != "" {
		if _, ok := h.Registry.Get(p.Provider); !ok {
			return fmt.Errorf("unknown provider %q: %w", p.Provider, asynq.SkipRetry)
		}
	}

	log := h.Log.With().Str("kind", p.Kind).Str("provider", p.Provider).Logger()
	start := time.Now()
	err := h.Warm(ctx, p)
	duration := time.Since(start)
	if err == nil {
		log.Info().Dur("duration", duration).Msg("warm done")
		return nil
	}
	if IsRetryable(err) {
		log.Warn().Err(err).Dur("duration", duration).Msg("retryable warm error")
		return err
	}
	log.Error().Err(err).Dur("duration", duration).Msg("permanent warm error, dropping task")
	return fmt.Errorf("%w: %w", err, asynq.SkipRetry)
}

// Warm performs the catalog call p describes and discards the result.
func (h *WarmHandler) Warm(ctx context.Context, p WarmPayload) error {
	svc := anime.NewService(h.Registry, h.Log)
	if p.Provider != "" {
		svc.SetProvider(p.Provider)
	}
	params := anime.Params{Page: p.Page}

	var err error
	switch p.Kind {
	case KindList:
		_, err = svc.GetAnimeList(ctx, params)
	case KindTop:
		_, err = svc.GetTopAnime(ctx, params)
	case KindSeason:
		_, err = svc.GetSeasonalAnime(ctx, p.Year, p.Season, params)
	case KindDetail:
		_, err = svc.GetAnimeDetail(ctx, p.ID)
	default:
		err = fmt.Errorf("unknown warm kind %q", p.Kind)
	}
	return err
}

// IsRetryable reports whether a failed warm should be retried: upstream
// rate limits, server errors, timeouts and network failures.
func IsRetryable(err error) bool {
	var terr *transport.TransportError
	if errors.As(err, &terr) {
		return terr.Retryable()
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var nerr net.Error
	return errors.As(err, &nerr)
}
