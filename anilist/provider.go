package anilist

import (
	"context"
	"strings"

	"github.com/aniwatch/aniwatch/anime"
)

// DefaultSort orders lists by popularity.
const DefaultSort MediaSort = "POPULARITY_DESC"

const (
	defaultPerPage = 20
	maxPerPage     = 50
)

var (
	// sortFields maps canonical and Jikan-style sort keys to MediaSort
	// values without direction.
	sortFields = map[string]string{
		"id":            "ID",
		"mal_id":        "ID",
		"title":         "TITLE_ROMAJI",
		"title_romaji":  "TITLE_ROMAJI",
		"title_english": "TITLE_ENGLISH",
		"title_native":  "TITLE_NATIVE",
		"start_date":    "START_DATE",
		"end_date":      "END_DATE",
		"episodes":      "EPISODES",
		"score":         "SCORE",
		"popularity":    "POPULARITY",
		"members":       "POPULARITY",
		"favorites":     "FAVOURITES",
		"favourites":    "FAVOURITES",
		"trending":      "TRENDING",
	}

	formats = map[string]MediaFormat{
		"tv":       "TV",
		"tv_short": "TV_SHORT",
		"movie":    "MOVIE",
		"special":  "SPECIAL",
		"ova":      "OVA",
		"ona":      "ONA",
		"music":    "MUSIC",
	}

	statuses = map[string]MediaStatus{
		"airing":           "RELEASING",
		"currently_airing": "RELEASING",
		"releasing":        "RELEASING",
		"complete":         "FINISHED",
		"finished":         "FINISHED",
		"finished_airing":  "FINISHED",
		"upcoming":         "NOT_YET_RELEASED",
		"not_yet_aired":    "NOT_YET_RELEASED",
		"not_yet_released": "NOT_YET_RELEASED",
		"cancelled":        "CANCELLED",
		"hiatus":           "HIATUS",
	}

	seasons = map[string]MediaSeason{
		anime.Winter: "WINTER",
		anime.Spring: "SPRING",
		anime.Summer: "SUMMER",
		anime.Fall:   "FALL",
	}
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
	q, err := p.client.Page(ctx, pageVariables(params))
	if err != nil {
		return nil, err
	}
	return NormalizePage(q), nil
}

func (p *Provider) SearchAnime(ctx context.Context, query string, filters anime.Params) (*anime.Page, error) {
	filters.Search = query
	return p.ListAnime(ctx, filters)
}

func (p *Provider) GetDetail(ctx context.Context, id int) (*anime.Anime, error) {
	q, err := p.client.Media(ctx, id)
	if err != nil {
		return nil, err
	}
	return NormalizeDetail(q), nil
}

// GetEpisodes always returns an empty list: AniList has no episode listing.
func (p *Provider) GetEpisodes(ctx context.Context, id int, params anime.Params) ([]anime.Episode, error) {
	return []anime.Episode{}, nil
}

func (p *Provider) TopAnime(ctx context.Context, params anime.Params) (*anime.Page, error) {
	vars := pageVariables(params)
	if params.Sort == "" {
		vars.Sort = []MediaSort{"SCORE_DESC"}
	}
	return p.page(ctx, vars)
}

func (p *Provider) SeasonalAnime(ctx context.Context, year int, season string, params anime.Params) (*anime.Page, error) {
	params.Season = season
	params.SeasonYear = year
	return p.page(ctx, pageVariables(params))
}

// Recommendations reads the recommendation list of the detail query, which
// shares its cache entry with GetDetail.
func (p *Provider) Recommendations(ctx context.Context, id int) ([]anime.Anime, error) {
	a, err := p.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return []anime.Anime{}, nil
	}
	return a.Recommendations, nil
}

// Characters reads the cast of the detail query.
func (p *Provider) Characters(ctx context.Context, id int) ([]anime.Person, error) {
	a, err := p.GetDetail(ctx, id)
	if err != nil {
		return nil, err
	}
	if a == nil {
		return []anime.Person{}, nil
	}
	return a.Characters, nil
}

func (p *Provider) page(ctx context.Context, vars PageVariables) (*anime.Page, error) {
	q, err := p.client.Page(ctx, vars)
	if err != nil {
		return nil, err
	}
	return NormalizePage(q), nil
}

// pageVariables translates Params into PageQuery variables. Ratings have no
// AniList equivalent and are dropped, as are unknown enum values.
func pageVariables(params anime.Params) PageVariables {
	vars := PageVariables{
		Page:       max(params.Page, 1),
		PerPage:    defaultPerPage,
		Sort:       []MediaSort{sortValue(params.Sort, params.Order)},
		Search:     strings.TrimSpace(params.Search),
		Genre:      params.Genre,
		Season:     seasons[strings.ToLower(params.Season)],
		SeasonYear: params.SeasonYear,
		Format:     formats[normalizeKey(params.Format)],
		Status:     statuses[normalizeKey(params.Status)],
	}
	if params.PerPage > 0 {
		vars.PerPage = min(params.PerPage, maxPerPage)
	}
	return vars
}

// sortValue builds a MediaSort. Direction defaults to descending; keys may
// already carry a _DESC suffix.
func sortValue(sort, order string) MediaSort {
	if sort == "" {
		return DefaultSort
	}
	key := normalizeKey(sort)
	desc := strings.ToLower(order) != "asc"
	if strings.HasSuffix(key, "_desc") {
		key, desc = strings.TrimSuffix(key, "_desc"), true
	}
	field, ok := sortFields[key]
	if !ok {
		return DefaultSort
	}
	if desc {
		return MediaSort(field + "_DESC")
	}
	return MediaSort(field)
}

// normalizeKey lowercases s and joins words with underscores.
func normalizeKey(s string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(s)), " ", "_")
}
