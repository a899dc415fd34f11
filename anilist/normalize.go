package anilist

import (
	"github.com/samber/lo"

	"github.com/aniwatch/aniwatch/anime"
)

func resolveTitle(t Title, synonyms []string) string {
	return anime.ResolveTitle(anime.Titles{
		UserPreferred: lo.FromPtr(t.UserPreferred),
		Native:        lo.FromPtr(t.Native),
		Chinese:       anime.ChineseSynonym(synonyms),
		Romaji:        lo.FromPtr(t.Romaji),
		English:       lo.FromPtr(t.English),
	})
}

func resolveName(n PersonName) string {
	return anime.ResolveTitle(anime.Titles{
		UserPreferred: lo.FromPtr(n.UserPreferred),
		Native:        lo.FromPtr(n.Native),
		Romaji:        lo.FromPtr(n.Full),
	})
}

// score converts AniList's 0-100 average to the 10-point scale.
func score(avg *int) *float64 {
	if avg == nil {
		return nil
	}
	s := float64(*avg) / 10
	return &s
}

func nonEmpty(s *string) *string {
	if s == nil {
		return nil
	}
	return anime.NonEmpty(*s)
}

func cover(c CoverImage) (medium, large *string) {
	medium, _ = lo.Coalesce(c.Medium, c.Large)
	large, _ = lo.Coalesce(c.ExtraLarge, c.Large, c.Medium)
	return medium, large
}

func trailer(t Trailer) *anime.Trailer {
	if lo.FromPtr(t.ID) == "" || lo.FromPtr(t.Site) == "" {
		return nil
	}
	return &anime.Trailer{Site: *t.Site, ID: *t.ID}
}

func studios(s Studios) []anime.Studio {
	out := make([]anime.Studio, 0, len(s.Nodes))
	for _, n := range s.Nodes {
		out = append(out, anime.Studio{Name: n.Name})
	}
	return out
}

func genres(g []string) []string {
	if g == nil {
		return []string{}
	}
	return g
}

func date(d FuzzyDate) *anime.Date {
	if d.Year == nil && d.Month == nil && d.Day == nil {
		return nil
	}
	return &anime.Date{Year: d.Year, Month: d.Month, Day: d.Day}
}

// NormalizeSummary maps a list entry to the canonical shape.
func NormalizeSummary(m *MediaSummary) anime.Anime {
	medium, large := cover(m.CoverImage)
	return anime.Anime{
		ID:                 m.ID,
		Title:              resolveTitle(m.Title, m.Synonyms),
		TitleEnglish:       nonEmpty(m.Title.English),
		TitleNative:        nonEmpty(m.Title.Native),
		CoverImageURL:      medium,
		CoverImageURLLarge: large,
		Format:             lo.FromPtr(m.Format),
		EpisodeCount:       m.Episodes,
		Status:             lo.FromPtr(m.Status),
		Season:             m.Season,
		Year:               m.SeasonYear,
		Score:              score(m.AverageScore),
		Popularity:         m.Popularity,
		Synopsis:           anime.StripHTMLPtr(m.Description),
		Genres:             genres(m.Genres),
		Studios:            studios(m.Studios),
		Trailer:            trailer(m.Trailer),
		Provider:           Name,
	}
}

// NormalizePage maps data.Page. Entries without an id are skipped.
func NormalizePage(q *PageQuery) *anime.Page {
	if q == nil || q.Page.Media == nil {
		return anime.EmptyPage()
	}
	page := &anime.Page{Anime: make([]anime.Anime, 0, len(q.Page.Media))}
	for i := range q.Page.Media {
		if q.Page.Media[i].ID == 0 {
			continue
		}
		page.Anime = append(page.Anime, NormalizeSummary(&q.Page.Media[i]))
	}
	info := q.Page.PageInfo
	if info.CurrentPage > 0 {
		page.Pagination = &anime.Pagination{
			CurrentPage: info.CurrentPage,
			LastPage:    info.LastPage,
			HasNextPage: info.HasNextPage,
			Total:       info.Total,
		}
	}
	return page
}

// NormalizeDetail maps data.Media. nil when the response carries no media.
func NormalizeDetail(q *MediaQuery) *anime.Anime {
	if q == nil || q.Media.ID == 0 {
		return nil
	}
	m := &q.Media
	medium, large := cover(m.CoverImage)
	a := &anime.Anime{
		ID:                 m.ID,
		Title:              resolveTitle(m.Title, m.Synonyms),
		TitleEnglish:       nonEmpty(m.Title.English),
		TitleNative:        nonEmpty(m.Title.Native),
		CoverImageURL:      medium,
		CoverImageURLLarge: large,
		Format:             lo.FromPtr(m.Format),
		EpisodeCount:       m.Episodes,
		Status:             lo.FromPtr(m.Status),
		Season:             m.Season,
		Year:               m.SeasonYear,
		Score:              score(m.AverageScore),
		Popularity:         m.Popularity,
		Synopsis:           anime.StripHTMLPtr(m.Description),
		Genres:             genres(m.Genres),
		Studios:            studios(m.Studios),
		Trailer:            trailer(m.Trailer),
		BannerImageURL:     nonEmpty(m.BannerImage),
		Source:             m.Source,
		Duration:           m.Duration,
		StartDate:          date(m.StartDate),
		EndDate:            date(m.EndDate),
		Characters:         characters(q),
		Staff:              staff(q),
		Recommendations:    recommendations(q),
		Provider:           Name,
	}
	if len(m.Tags) > 0 {
		a.Tags = make([]string, 0, len(m.Tags))
		for _, t := range m.Tags {
			a.Tags = append(a.Tags, t.Name)
		}
	}
	return a
}

func characters(q *MediaQuery) []anime.Person {
	out := make([]anime.Person, 0, len(q.Media.Characters.Edges))
	for _, e := range q.Media.Characters.Edges {
		image, _ := lo.Coalesce(e.Node.Image.Large, e.Node.Image.Medium)
		out = append(out, anime.Person{
			ID:         e.Node.ID,
			Name:       resolveName(e.Node.Name),
			NameNative: nonEmpty(e.Node.Name.Native),
			NameFull:   nonEmpty(e.Node.Name.Full),
			Role:       lo.FromPtr(e.Role),
			ImageURL:   image,
		})
	}
	return out
}

func staff(q *MediaQuery) []anime.Person {
	out := make([]anime.Person, 0, len(q.Media.Staff.Edges))
	for _, e := range q.Media.Staff.Edges {
		out = append(out, anime.Person{
			ID:         e.Node.ID,
			Name:       resolveName(e.Node.Name),
			NameNative: nonEmpty(e.Node.Name.Native),
			NameFull:   nonEmpty(e.Node.Name.Full),
			Role:       lo.FromPtr(e.Role),
		})
	}
	return out
}

// recommendations skips nodes whose recommended media was removed upstream.
func recommendations(q *MediaQuery) []anime.Anime {
	out := make([]anime.Anime, 0, len(q.Media.Recommendations.Nodes))
	for _, n := range q.Media.Recommendations.Nodes {
		r := n.MediaRecommendation
		if r.ID == 0 {
			continue
		}
		medium, large := cover(r.CoverImage)
		out = append(out, anime.Anime{
			ID:                 r.ID,
			Title:              resolveTitle(r.Title, r.Synonyms),
			TitleEnglish:       nonEmpty(r.Title.English),
			TitleNative:        nonEmpty(r.Title.Native),
			CoverImageURL:      medium,
			CoverImageURLLarge: large,
			Format:             lo.FromPtr(r.Format),
			EpisodeCount:       r.Episodes,
			Status:             lo.FromPtr(r.Status),
			Score:              score(r.AverageScore),
			Genres:             []string{},
			Studios:            []anime.Studio{},
			Provider:           Name,
		})
	}
	return out
}
