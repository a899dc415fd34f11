package routes

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	scs "github.com/alexedwards/scs/v2"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/hlog"
	"golang.org/x/text/language"

	"github.com/aniwatch/aniwatch/anime"
	appmw "github.com/aniwatch/aniwatch/internal/http/middleware"
	"github.com/aniwatch/aniwatch/internal/jobs"
	"github.com/aniwatch/aniwatch/transport"
)

// Enqueuer is the part of asynq.Client the server uses.
type Enqueuer interface {
	EnqueueContext(ctx context.Context, task *asynq.Task, opts ...asynq.Option) (*asynq.TaskInfo, error)
}

type Server struct {
	Router   *chi.Mux
	Sess     *scs.SessionManager
	Registry *anime.Registry
	Log      zerolog.Logger
	Enqueuer Enqueuer // nil disables POST /api/warm
}

type ServerOptions struct {
	Sess     *scs.SessionManager
	Registry *anime.Registry
	Log      zerolog.Logger
	Language language.Tag // used when a request has no Accept-Language
	Enqueuer Enqueuer
}

func New(opts ServerOptions) *Server {
	r := chi.NewRouter()
	r.Use(chimw.RealIP)
	r.Use(hlog.NewHandler(opts.Log))
	r.Use(hlog.RequestIDHandler("req_id", "X-Request-Id"))
	r.Use(hlog.AccessHandler(accessLog))
	r.Use(chimw.Recoverer)
	r.Use(opts.Sess.LoadAndSave)

	s := &Server{Router: r, Sess: opts.Sess, Registry: opts.Registry, Log: opts.Log, Enqueuer: opts.Enqueuer}

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			hlog.FromRequest(r).Error().Err(err).Msg("write health check response")
		}
	})

	r.Route("/api", func(api chi.Router) {
		api.Use(appmw.Catalog(opts.Sess, opts.Registry))
		api.Use(appmw.Language(opts.Language))

		api.Get("/providers", s.handleProviders)
		api.Post("/provider", s.handleSetProvider)

		api.Get("/anime", s.handleList)
		api.Get("/anime/search", s.handleSearch)
		api.Get("/anime/{id}", s.handleDetail)
		api.Get("/anime/{id}/episodes", s.handleEpisodes)
		api.Get("/anime/{id}/recommendations", s.handleRecommendations)
		api.Get("/anime/{id}/characters", s.handleCharacters)
		api.Get("/anime/{id}/statistics", s.handleStatistics)
		api.Get("/top", s.handleTop)
		api.Get("/seasons/{year}/{season}", s.handleSeason)

		api.Post("/warm", s.handleWarm)
	})

	return s
}

func accessLog(r *http.Request, status, size int, duration time.Duration) {
	hlog.FromRequest(r).Info().
		Str("method", r.Method).
		Stringer("url", r.URL).
		Int("status", status).
		Int("size", size).
		Dur("duration", duration).
		Msg("request")
}

type providersResponse struct {
	Current   string   `json:"current"`
	Providers []string `json:"providers"`
}

func (s *Server) handleProviders(w http.ResponseWriter, r *http.Request) {
	svc := appmw.ServiceFrom(r.Context())
	writeJSON(w, r, http.StatusOK, providersResponse{Current: svc.Provider(), Providers: svc.Providers()})
}

// handleSetProvider switches the session's provider. Unknown names leave
// the selection unchanged.
func (s *Server) handleSetProvider(w http.ResponseWriter, r *http.Request) {
	var name string
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		var body struct {
			Name string `json:"name"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeMessage(w, r, http.StatusBadRequest, "invalid JSON body")
			return
		}
		name = body.Name
	} else {
		_ = r.ParseForm()
		name = r.Form.Get("name")
	}
	name = strings.ToLower(strings.TrimSpace(name))

	svc := appmw.ServiceFrom(r.Context())
	svc.SetProvider(name)
	if svc.Provider() == name {
		s.Sess.Put(r.Context(), appmw.ProviderSessionKey, name)
	}
	writeJSON(w, r, http.StatusOK, providersResponse{Current: svc.Provider(), Providers: svc.Providers()})
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	svc := appmw.ServiceFrom(r.Context())
	page, err := svc.GetAnimeList(r.Context(), anime.ParamsFromValues(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	anime.LocalizePage(page, appmw.LanguageFrom(r.Context()))
	writeJSON(w, r, http.StatusOK, page)
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	params := anime.ParamsFromValues(r.URL.Query())
	query := strings.TrimSpace(params.Search)
	if query == "" {
		writeMessage(w, r, http.StatusBadRequest, "q is required")
		return
	}

	svc := appmw.ServiceFrom(r.Context())
	page, err := svc.SearchAnime(r.Context(), query, params)
	if err != nil {
		writeError(w, r, err)
		return
	}
	anime.LocalizePage(page, appmw.LanguageFrom(r.Context()))
	writeJSON(w, r, http.StatusOK, page)
}

func (s *Server) handleDetail(w http.ResponseWriter, r *http.Request) {
	id, ok := animeID(w, r)
	if !ok {
		return
	}
	svc := appmw.ServiceFrom(r.Context())
	a, err := svc.GetAnimeDetail(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if a == nil {
		writeError(w, r, anime.ErrNotFound)
		return
	}
	anime.Localize(a, appmw.LanguageFrom(r.Context()))
	writeJSON(w, r, http.StatusOK, a)
}

func (s *Server) handleEpisodes(w http.ResponseWriter, r *http.Request) {
	id, ok := animeID(w, r)
	if !ok {
		return
	}
	svc := appmw.ServiceFrom(r.Context())
	episodes, err := svc.GetEpisodes(r.Context(), id, anime.ParamsFromValues(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, r, http.StatusOK, episodes)
}

func (s *Server) handleRecommendations(w http.ResponseWriter, r *http.Request) {
	id, ok := animeID(w, r)
	if !ok {
		return
	}
	svc := appmw.ServiceFrom(r.Context())
	recs, err := svc.GetRecommendations(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if recs == nil {
		recs = []anime.Anime{}
	}
	tag := appmw.LanguageFrom(r.Context())
	for i := range recs {
		anime.Localize(&recs[i], tag)
	}
	writeJSON(w, r, http.StatusOK, recs)
}

func (s *Server) handleCharacters(w http.ResponseWriter, r *http.Request) {
	id, ok := animeID(w, r)
	if !ok {
		return
	}
	svc := appmw.ServiceFrom(r.Context())
	cast, err := svc.GetCharacters(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if cast == nil {
		cast = []anime.Person{}
	}
	writeJSON(w, r, http.StatusOK, cast)
}

func (s *Server) handleStatistics(w http.ResponseWriter, r *http.Request) {
	id, ok := animeID(w, r)
	if !ok {
		return
	}
	svc := appmw.ServiceFrom(r.Context())
	stats, err := svc.GetStatistics(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if stats == nil {
		writeError(w, r, anime.ErrNotFound)
		return
	}
	writeJSON(w, r, http.StatusOK, stats)
}

func (s *Server) handleTop(w http.ResponseWriter, r *http.Request) {
	svc := appmw.ServiceFrom(r.Context())
	page, err := svc.GetTopAnime(r.Context(), anime.ParamsFromValues(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	anime.LocalizePage(page, appmw.LanguageFrom(r.Context()))
	writeJSON(w, r, http.StatusOK, page)
}

func (s *Server) handleSeason(w http.ResponseWriter, r *http.Request) {
	year, err := strconv.Atoi(chi.URLParam(r, "year"))
	if err != nil || year <= 0 {
		writeMessage(w, r, http.StatusBadRequest, "invalid year")
		return
	}
	season := strings.ToLower(chi.URLParam(r, "season"))
	if !anime.ValidSeason(season) {
		writeMessage(w, r, http.StatusBadRequest, "invalid season")
		return
	}

	svc := appmw.ServiceFrom(r.Context())
	page, err := svc.GetSeasonalAnime(r.Context(), year, season, anime.ParamsFromValues(r.URL.Query()))
	if err != nil {
		writeError(w, r, err)
		return
	}
	anime.LocalizePage(page, appmw.LanguageFrom(r.Context()))
	writeJSON(w, r, http.StatusOK, page)
}

type warmResponse struct {
	ID    string `json:"id"`
	Queue string `json:"queue"`
}

// handleWarm enqueues a cache warm task. The session's provider is used
// when the payload names none.
func (s *Server) handleWarm(w http.ResponseWriter, r *http.Request) {
	if s.Enqueuer == nil {
		writeMessage(w, r, http.StatusServiceUnavailable, "background jobs are disabled")
		return
	}
	var p jobs.WarmPayload
	if err := json.NewDecoder(r.Body).Decode(&p); err != nil {
		writeMessage(w, r, http.StatusBadRequest, "invalid JSON body")
		return
	}
	if p.Provider == "" {
		p.Provider = appmw.ServiceFrom(r.Context()).Provider()
	}
	if _, ok := s.Registry.Get(p.Provider); !ok {
		writeMessage(w, r, http.StatusBadRequest, "unknown provider")
		return
	}
	task, err := jobs.NewWarmTask(p)
	if err != nil {
		writeMessage(w, r, http.StatusBadRequest, err.Error())
		return
	}

	info, err := s.Enqueuer.EnqueueContext(r.Context(), task)
	if err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("enqueue warm task")
		writeMessage(w, r, http.StatusInternalServerError, "failed to queue warm task")
		return
	}
	hlog.FromRequest(r).Info().Str("task_id", info.ID).Str("queue", info.Queue).Msg("warm task queued")
	writeJSON(w, r, http.StatusAccepted, warmResponse{ID: info.ID, Queue: info.Queue})
}

func animeID(w http.ResponseWriter, r *http.Request) (int, bool) {
	id, err := strconv.Atoi(chi.URLParam(r, "id"))
	if err != nil || id <= 0 {
		writeMessage(w, r, http.StatusBadRequest, "invalid anime id")
		return 0, false
	}
	return id, true
}

type errorResponse struct {
	Error  string `json:"error"`
	Status int    `json:"status,omitempty"` // upstream status for 502s
}

// writeError maps catalog errors to HTTP statuses.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var terr *transport.TransportError
	var perr *transport.ParseError
	switch {
	case errors.As(err, &terr):
		writeJSON(w, r, http.StatusBadGateway, errorResponse{Error: terr.Error(), Status: terr.StatusCode})
	case errors.As(err, &perr):
		writeJSON(w, r, http.StatusBadGateway, errorResponse{Error: perr.Error()})
	case errors.Is(err, anime.ErrUnsupported):
		writeMessage(w, r, http.StatusNotImplemented, err.Error())
	case errors.Is(err, anime.ErrNotFound):
		writeMessage(w, r, http.StatusNotFound, err.Error())
	case errors.Is(err, anime.ErrNoProvider):
		writeMessage(w, r, http.StatusServiceUnavailable, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		writeMessage(w, r, http.StatusGatewayTimeout, err.Error())
	default:
		writeMessage(w, r, http.StatusInternalServerError, "internal server error")
	}
}

func writeMessage(w http.ResponseWriter, r *http.Request, status int, msg string) {
	writeJSON(w, r, status, errorResponse{Error: msg})
}

func writeJSON(w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		hlog.FromRequest(r).Error().Err(err).Msg("write response")
	}
}
