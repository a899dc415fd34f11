package jikan

import (
	"regexp"
	"strconv"

	"github.com/samber/lo"

	"github.com/aniwatch/aniwatch/anime"
)

// NormalizeAnime maps one Jikan record to the canonical shape.
func NormalizeAnime(a *AnimeJSON) anime.Anime {
	out := anime.Anime{
		ID: a.MalID,
		Title: anime.ResolveTitle(anime.Titles{
			UserPreferred: a.Title,
			Native:        lo.FromPtr(a.TitleJapanese),
			Chinese:       anime.ChineseSynonym(a.TitleSynonyms),
			Romaji:        a.Title,
			English:       lo.FromPtr(a.TitleEnglish),
		}),
		TitleEnglish:       nonEmptyPtr(a.TitleEnglish),
		TitleNative:        nonEmptyPtr(a.TitleJapanese),
		CoverImageURL:      firstURL(a.Images.JPG.ImageURL, a.Images.WebP.ImageURL),
		CoverImageURLLarge: firstURL(a.Images.JPG.LargeImageURL, a.Images.WebP.LargeImageURL),
		Format:             lo.FromPtr(a.Type),
		EpisodeCount:       a.Episodes,
		Status:             lo.FromPtr(a.Status),
		Season:             a.Season,
		Year:               a.Year,
		Score:              a.Score,
		Popularity:         a.Popularity,
		Synopsis:           anime.StripHTMLPtr(a.Synopsis),
		Genres:             lo.Map(a.Genres, func(g ResourceJSON, _ int) string { return g.Name }),
		Studios:            lo.Map(a.Studios, func(s ResourceJSON, _ int) anime.Studio { return anime.Studio{Name: s.Name} }),
		Trailer:            normalizeTrailer(a.Trailer),
		Source:             a.Source,
		Duration:           parseDuration(lo.FromPtr(a.Duration)),
		Provider:           Name,
	}
	if a.Aired != nil {
		out.StartDate = normalizeDate(a.Aired.Prop.From)
		out.EndDate = normalizeDate(a.Aired.Prop.To)
	}
	themes := append(append([]ResourceJSON{}, a.Themes...), a.Demographics...)
	if len(themes) > 0 {
		out.Tags = lo.Map(themes, func(r ResourceJSON, _ int) string { return r.Name })
	}
	return out
}

// NormalizeAnimeList maps a list response. A response without data yields
// an empty page.
func NormalizeAnimeList(resp *AnimeListResponse) *anime.Page {
	if resp == nil || resp.Data == nil {
		return anime.EmptyPage()
	}
	page := &anime.Page{
		Anime: lo.Map(resp.Data, func(a AnimeJSON, _ int) anime.Anime { return listItem(&a) }),
	}
	if p := resp.Pagination; p != nil {
		page.Pagination = &anime.Pagination{
			CurrentPage: p.CurrentPage,
			LastPage:    p.LastVisiblePage,
			HasNextPage: p.HasNextPage,
			Total:       p.Items.Total,
		}
	}
	return page
}

// listItem drops the detail-only fields from a list entry.
func listItem(a *AnimeJSON) anime.Anime {
	out := NormalizeAnime(a)
	out.Source = nil
	out.Duration = nil
	out.StartDate = nil
	out.EndDate = nil
	out.Tags = nil
	return out
}

// NormalizeEpisodes maps an episode list. Episode numbers are the MAL ids.
func NormalizeEpisodes(resp *EpisodesResponse) []anime.Episode {
	if resp == nil {
		return []anime.Episode{}
	}
	return lo.Map(resp.Data, func(e EpisodeJSON, _ int) anime.Episode {
		return anime.Episode{
			ID:            e.MalID,
			Episode:       e.MalID,
			Title:         e.Title,
			TitleJapanese: nonEmptyPtr(e.TitleJapanese),
			TitleRomanji:  nonEmptyPtr(e.TitleRomanji),
			Score:         e.Score,
			Filler:        e.Filler,
			Recap:         e.Recap,
			ForumURL:      e.ForumURL,
			Aired:         e.Aired,
		}
	})
}

// NormalizeRecommendations maps recommendation entries to minimal records.
func NormalizeRecommendations(resp *RecommendationsResponse) []anime.Anime {
	if resp == nil {
		return []anime.Anime{}
	}
	return lo.Map(resp.Data, func(r RecommendationJSON, _ int) anime.Anime {
		return anime.Anime{
			ID:                 r.Entry.MalID,
			Title:              anime.ResolveTitle(anime.Titles{UserPreferred: r.Entry.Title}),
			CoverImageURL:      firstURL(r.Entry.Images.JPG.ImageURL, r.Entry.Images.WebP.ImageURL),
			CoverImageURLLarge: firstURL(r.Entry.Images.JPG.LargeImageURL, r.Entry.Images.WebP.LargeImageURL),
			Genres:             []string{},
			Studios:            []anime.Studio{},
			Provider:           Name,
		}
	})
}

// NormalizeCharacters maps the cast list. Jikan gives a single romanized
// name per character on this endpoint.
func NormalizeCharacters(resp *CharactersResponse) []anime.Person {
	if resp == nil {
		return []anime.Person{}
	}
	return lo.Map(resp.Data, func(c CharacterRoleJSON, _ int) anime.Person {
		return anime.Person{
			ID:       c.Character.MalID,
			Name:     anime.ResolveTitle(anime.Titles{UserPreferred: c.Character.Name}),
			NameFull: anime.NonEmpty(c.Character.Name),
			Role:     c.Role,
			ImageURL: c.Character.Images.JPG.ImageURL,
		}
	})
}

// NormalizeStatistics maps list statistics. nil when the response has none.
func NormalizeStatistics(resp *StatisticsResponse) *anime.Statistics {
	if resp == nil || resp.Data == nil {
		return nil
	}
	s := resp.Data
	out := &anime.Statistics{
		Watching:    s.Watching,
		Completed:   s.Completed,
		OnHold:      s.OnHold,
		Dropped:     s.Dropped,
		PlanToWatch: s.PlanToWatch,
		Total:       s.Total,
		Scores:      make([]anime.ScoreVotes, 0, len(s.Scores)),
	}
	for _, sc := range s.Scores {
		out.Scores = append(out.Scores, anime.ScoreVotes{Score: sc.Score, Votes: sc.Votes, Percentage: sc.Percentage})
	}
	return out
}

func normalizeTrailer(t *TrailerJSON) *anime.Trailer {
	if t == nil || lo.FromPtr(t.YoutubeID) == "" {
		return nil
	}
	return &anime.Trailer{Site: "youtube", ID: *t.YoutubeID}
}

func normalizeDate(d DateJSON) *anime.Date {
	if d.Year == nil && d.Month == nil && d.Day == nil {
		return nil
	}
	return &anime.Date{Year: d.Year, Month: d.Month, Day: d.Day}
}

func firstURL(urls ...*string) *string {
	u, _ := lo.Coalesce(urls...)
	return u
}

func nonEmptyPtr(s *string) *string {
	if s == nil {
		return nil
	}
	return anime.NonEmpty(*s)
}

var (
	hoursRe   = regexp.MustCompile(`(\d+)\s*hr`)
	minutesRe = regexp.MustCompile(`(\d+)\s*min`)
	secondsRe = regexp.MustCompile(`(\d+)\s*sec`)
)

// parseDuration converts strings like "1 hr 30 min" or "24 min per ep" to
// whole minutes. Durations under a minute round up to 1. nil when nothing
// can be read.
func parseDuration(s string) *int {
	var total int
	var found bool
	if m := hoursRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		total += n * 60
		found = true
	}
	if m := minutesRe.FindStringSubmatch(s); m != nil {
		n, _ := strconv.Atoi(m[1])
		total += n
		found = true
	}
	if m := secondsRe.FindStringSubmatch(s); m != nil && total == 0 {
		if n, _ := strconv.Atoi(m[1]); n > 0 {
			total = 1
			found = true
		}
	}
	if !found {
		return nil
	}
	return &total
}
