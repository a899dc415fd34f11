package jikan

import (
	"context"
	"net/url"
	"strconv"
	"strings"

	"github.com/aniwatch/aniwatch/anime"
)

const (
	defaultLimit    = 24
	defaultTopLimit = 25
	maxLimit        = 25
	defaultOrderBy  = "popularity"
	defaultSort     = "desc"
	defaultTopType  = "tv"
)

var (
	// orderFields maps canonical and AniList-style sort keys to Jikan order_by values.
	orderFields = map[string]string{
		"mal_id":       "mal_id",
		"id":           "mal_id",
		"title":        "title",
		"title_romaji": "title",
		"start_date":   "start_date",
		"end_date":     "end_date",
		"episodes":     "episodes",
		"score":        "score",
		"scored_by":    "scored_by",
		"rank":         "rank",
		"popularity":   "popularity",
		"members":      "members",
		"favorites":    "favorites",
		"favourites":   "favorites",
	}

	formats = map[string]string{
		"tv":       "tv",
		"tv_short": "tv",
		"movie":    "movie",
		"ova":      "ova",
		"special":  "special",
		"ona":      "ona",
		"music":    "music",
	}

	statuses = map[string]string{
		"airing":           "airing",
		"currently_airing": "airing",
		"releasing":        "airing",
		"complete":         "complete",
		"finished":         "complete",
		"finished_airing":  "complete",
		"upcoming":         "upcoming",
		"not_yet_aired":    "upcoming",
		"not_yet_released": "upcoming",
	}

	ratings = map[string]bool{"g": true, "pg": true, "pg13": true, "r17": true, "r": true, "rx": true}
)

// Provider adapts Client to anime.Provider.
type Provider struct {
	client *Client
}

func NewProvider(client *Client) *Provider {
	return &Provider{client: client}
}

func (p *Provider) Name() string {
	return Name
}

// Client exposes the underlying transport client.
func (p *Provider) Client() *Client {
	return p.client
}

func (p *Provider) ListAnime(ctx context.Context, params anime.Params) (*anime.Page, error) {
	q := listQuery(params)
	if params.Search != "" {
		q.Set("q", params.Search)
	}
	resp, err := p.client.GetAnimeList(ctx, q)
	if err != nil {
		return nil, err
	}
	return NormalizeAnimeList(resp), nil
}

func (p *Provider) SearchAnime(ctx context.Context, query string, filters anime.Params) (*anime.Page, error) {
	filters.Search = query
	return p.ListAnime(ctx, filters)
}

func (p *Provider) GetDetail(ctx context.Context, id int) (*anime.Anime, error) {
	resp, err := p.client.GetAnimeByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return nil, nil
	}
	a := NormalizeAnime(resp.Data)
	return &a, nil
}

func (p *Provider) GetEpisodes(ctx context.Context, id int, params anime.Params) ([]anime.Episode, error) {
	resp, err := p.client.GetAnimeEpisodes(ctx, id, params.Page)
	if err != nil {
		return nil, err
	}
	return NormalizeEpisodes(resp), nil
}

func (p *Provider) TopAnime(ctx context.Context, params anime.Params) (*anime.Page, error) {
	q := url.Values{}
	q.Set("page", strconv.Itoa(max(params.Page, 1)))
	q.Set("limit", strconv.Itoa(limit(params.PerPage, defaultTopLimit)))
	format := formats[normalizeKey(params.Format)]
	if format == "" {
		format = defaultTopType
	}
	q.Set("type", format)
	resp, err := p.client.GetTopAnime(ctx, q)
	if err != nil {
		return nil, err
	}
	return NormalizeAnimeList(resp), nil
}

func (p *Provider) SeasonalAnime(ctx context.Context, year int, season string, params anime.Params) (*anime.Page, error) {
	q := url.Values{}
	if params.Page > 0 {
		q.Set("page", strconv.Itoa(params.Page))
	}
	if params.PerPage > 0 {
		q.Set("limit", strconv.Itoa(limit(params.PerPage, defaultLimit)))
	}
	if f := formats[normalizeKey(params.Format)]; f != "" {
		q.Set("filter", f)
	}
	resp, err := p.client.GetSeasonalAnime(ctx, year, strings.ToLower(season), q)
	if err != nil {
		return nil, err
	}
	return NormalizeAnimeList(resp), nil
}

func (p *Provider) Recommendations(ctx context.Context, id int) ([]anime.Anime, error) {
	resp, err := p.client.GetRecommendations(ctx, id)
	if err != nil {
		return nil, err
	}
	return NormalizeRecommendations(resp), nil
}

func (p *Provider) Characters(ctx context.Context, id int) ([]anime.Person, error) {
	resp, err := p.client.GetCharacters(ctx, id)
	if err != nil {
		return nil, err
	}
	return NormalizeCharacters(resp), nil
}

func (p *Provider) Statistics(ctx context.Context, id int) (*anime.Statistics, error) {
	resp, err := p.client.GetStatistics(ctx, id)
	if err != nil {
		return nil, err
	}
	return NormalizeStatistics(resp), nil
}

// listQuery translates Params into /anime query parameters. Values Jikan
// does not understand (genre names, seasons) are dropped.
func listQuery(params anime.Params) url.Values {
	q := url.Values{}
	q.Set("page", strconv.Itoa(max(params.Page, 1)))
	q.Set("limit", strconv.Itoa(limit(params.PerPage, defaultLimit)))

	orderBy, sort := defaultOrderBy, defaultSort
	if params.Sort != "" {
		key := normalizeKey(params.Sort)
		if strings.HasSuffix(key, "_desc") {
			key, sort = strings.TrimSuffix(key, "_desc"), "desc"
		}
		if f, ok := orderFields[key]; ok {
			orderBy = f
		}
	}
	if o := strings.ToLower(params.Order); o == "asc" || o == "desc" {
		sort = o
	}
	q.Set("order_by", orderBy)
	q.Set("sort", sort)

	if f := formats[normalizeKey(params.Format)]; f != "" {
		q.Set("type", f)
	}
	if s := statuses[normalizeKey(params.Status)]; s != "" {
		q.Set("status", s)
	}
	if r := normalizeKey(params.Rating); ratings[r] {
		q.Set("rating", r)
	}
	return q
}

func limit(n, def int) int {
	if n <= 0 {
		return def
	}
	return min(n, maxLimit)
}

// normalizeKey lowercases s and joins words with underscores, so "Currently
// Airing", "CURRENTLY_AIRING" and "currently_airing" compare equal.
func normalizeKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}
